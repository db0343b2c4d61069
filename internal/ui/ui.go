package ui

// Basic ANSI color codes (legacy - used by logging package).
// New code should use lipgloss styles from styles.go instead.
const (
	Reset = "\033[0m"
	// LegacyBold is the raw ANSI code for bold text
	LegacyBold = "\033[1m"
	FgCyan     = "\033[36m"
	FgGreen    = "\033[32m"
	FgMagenta  = "\033[35m"
	FgYellow   = "\033[33m"
	FgRed      = "\033[31m"
)

var noColor bool

// Init configures global UI behavior. Call once at startup, before any
// output is produced. When disable is true all ANSI coloring from Color
// is suppressed; set it for non-TTY output and in tests that assert on
// log lines.
func Init(disable bool) { noColor = disable }

// NoColor reports whether ANSI coloring is currently disabled.
func NoColor() bool { return noColor }

// Color wraps a string with the given ANSI code, or returns it
// unchanged when coloring is disabled.
// Deprecated: Use lipgloss styles from styles.go instead.
func Color(s string, code string) string {
	if noColor {
		return s
	}
	return code + s + Reset
}
