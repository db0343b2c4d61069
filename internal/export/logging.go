package export

import (
	"io"

	"github.com/runcard-dev/runcard/internal/logging"
	"github.com/runcard-dev/runcard/internal/ui"
)

var logger = &logging.Logger{
	PrefixText:  "Export:",
	PrefixColor: ui.FgGreen,
	FieldName:   "model",
}

// SetLogger sets an optional destination for export logs.
func SetLogger(w io.Writer) { logger.SetWriter(w) }

func logf(modelName string, format string, args ...any) {
	logger.Logf(modelName, format, args...)
}
