package enricher

import (
	"io"

	"github.com/runcard-dev/runcard/internal/logging"
	"github.com/runcard-dev/runcard/internal/ui"
)

var logger = &logging.Logger{
	PrefixText:  "Enrich:",
	PrefixColor: ui.FgRed,
	FieldName:   "card",
}

// SetLogger sets an optional destination for enrichment logs.
func SetLogger(w io.Writer) { logger.SetWriter(w) }

func logf(cardName string, format string, args ...any) {
	logger.Logf(cardName, format, args...)
}
