package scanner

import (
	"io"

	"github.com/runcard-dev/runcard/internal/logging"
	"github.com/runcard-dev/runcard/internal/ui"
)

var logger = &logging.Logger{PrefixText: "Scan:", PrefixColor: ui.FgCyan}

// SetLogger sets an optional destination for scanner logs.
func SetLogger(w io.Writer) { logger.SetWriter(w) }

func logf(runName string, format string, args ...any) {
	logger.Logf(runName, format, args...)
}
