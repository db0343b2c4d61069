package hub

import (
	"io"

	"github.com/runcard-dev/runcard/internal/logging"
	"github.com/runcard-dev/runcard/internal/ui"
)

var logger = &logging.Logger{PrefixText: "Hub:", PrefixColor: ui.FgMagenta, FieldName: "model"}

// SetLogger sets an optional destination for hub fetch logs.
func SetLogger(w io.Writer) { logger.SetWriter(w) }

func logf(modelID string, format string, args ...any) {
	logger.Logf(modelID, format, args...)
}
