package completeness

import (
	"io"

	"github.com/runcard-dev/runcard/internal/logging"
	"github.com/runcard-dev/runcard/internal/ui"
)

var logger = &logging.Logger{PrefixText: "Complete:", PrefixColor: ui.FgYellow, OmitRun: true}

// SetLogger sets an optional destination for completeness output/logs.
// When set to nil, completeness output/logs are disabled.
func SetLogger(w io.Writer) { logger.SetWriter(w) }

func logf(format string, args ...any) {
	logger.Logf("", format, args...)
}
