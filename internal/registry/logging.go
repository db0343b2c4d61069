package registry

import (
	"fmt"
	"io"
	"strings"

	"github.com/runcard-dev/runcard/internal/logging"
	"github.com/runcard-dev/runcard/internal/ui"
)

var logger = &logging.Logger{PrefixText: "Registry:", PrefixColor: ui.FgYellow, FieldName: "card"}

// SetLogger sets an optional destination for field registry logs.
func SetLogger(w io.Writer) { logger.SetWriter(w) }

func logf(cardName string, format string, args ...any) {
	logger.Logf(cardName, format, args...)
}

func summarizeValue(v any) string {
	if v == nil {
		return "<nil>"
	}
	switch t := v.(type) {
	case string:
		s := strings.TrimSpace(t)
		if len(s) > 80 {
			s = s[:77] + "..."
		}
		return fmt.Sprintf("%q", s)
	case []string:
		return fmt.Sprintf("[]string(len=%d)", len(t))
	default:
		// avoid dumping huge structs; type is usually enough
		return fmt.Sprintf("%T", v)
	}
}
