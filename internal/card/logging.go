package card

import (
	"io"

	"github.com/runcard-dev/runcard/internal/logging"
	"github.com/runcard-dev/runcard/internal/ui"
)

var logger = &logging.Logger{PrefixText: "Card:", PrefixColor: ui.FgMagenta}

// SetLogger sets an optional destination for card-assembly logs.
// When set to nil, logging is disabled.
func SetLogger(w io.Writer) { logger.SetWriter(w) }

func logf(modelName string, format string, args ...any) {
	logger.Logf(modelName, format, args...)
}
