package merger

import (
	"io"

	"github.com/runcard-dev/runcard/internal/cardfile"
	"github.com/runcard-dev/runcard/internal/logging"
	"github.com/runcard-dev/runcard/internal/ui"
)

var logger = &logging.Logger{PrefixText: "Merge:", PrefixColor: ui.FgGreen, FieldName: "card"}

// SetLogger sets an optional destination for merger logs.
func SetLogger(w io.Writer) { logger.SetWriter(w) }

func logf(f *cardfile.File, format string, args ...any) {
	name := ""
	if f != nil {
		if name = f.Title(); name == "" {
			name = f.Path
		}
	}
	logger.Logf(name, format, args...)
}
