package card

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatFloat renders a float the way the training harnesses that wrote the
// state files would have: shortest round-trip representation, with a ".0"
// kept on integral values so epochs read "3.0" rather than "3".
func FormatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") && !strings.Contains(s, "Inf") && !strings.Contains(s, "NaN") {
		s += ".0"
	}
	return s
}

// formatValue renders a value for the card body (hyperparameter bullets and
// table cells). Nil, booleans and nested configs keep the spelling found in
// existing cards (None, True/False, {'k': v}).
func formatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return "None"
	case string:
		return t
	case bool:
		if t {
			return "True"
		}
		return "False"
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case uint64:
		return strconv.FormatUint(t, 10)
	case float64:
		return FormatFloat(t)
	case float32:
		return FormatFloat(float64(t))
	case *Fields:
		return t.String()
	case []any:
		parts := make([]string, len(t))
		for i, e := range t {
			parts[i] = reprValue(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case []string:
		parts := make([]string, len(t))
		for i, e := range t {
			parts[i] = "'" + e + "'"
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return fmt.Sprintf("%v", v)
	}
}

// reprValue is formatValue for values nested inside a collection, where
// strings keep their quotes.
func reprValue(v any) string {
	if s, ok := v.(string); ok {
		return "'" + s + "'"
	}
	return formatValue(v)
}

// maybeRound renders v, limiting floats to four decimal places when their
// plain representation carries more than four digits after the dot.
func maybeRound(v any) string {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case float32:
		f = float64(t)
	default:
		return formatValue(v)
	}
	s := FormatFloat(f)
	if i := strings.IndexByte(s, '.'); i >= 0 && len(s)-i-1 > 4 {
		return strconv.FormatFloat(f, 'f', 4, 64)
	}
	return s
}
