package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/runcard-dev/runcard/internal/ui"
)

// Logger is a tiny opt-in logger used across internal packages.
// When Writer is nil, logging is disabled.
//
// The output format is:
//
//	<ColoredPrefix> run=<subject> <formattedMessage>\n
//
// where <subject> is trimmed and defaults to "(unknown)". Packages whose
// subject is not a training run override the field label via FieldName
// (e.g. "card", "model").
type Logger struct {
	Writer io.Writer

	PrefixText  string
	PrefixColor string

	// FieldName is the label for the subject field; "run" when empty.
	FieldName string

	// OmitRun controls whether the subject field is written at all.
	OmitRun bool
}

func (l *Logger) SetWriter(w io.Writer) { l.Writer = w }

func (l *Logger) Enabled() bool { return l != nil && l.Writer != nil }

func (l *Logger) Logf(runName string, format string, args ...any) {
	if l == nil || l.Writer == nil {
		return
	}
	prefix := l.PrefixText
	if prefix == "" {
		prefix = "Log:"
	}
	if l.PrefixColor != "" {
		prefix = ui.Color(prefix, l.PrefixColor)
	}
	msg := fmt.Sprintf(format, args...)
	if l.OmitRun {
		fmt.Fprintf(l.Writer, "%s %s\n", prefix, msg)
		return
	}

	field := l.FieldName
	if field == "" {
		field = "run"
	}
	r := strings.TrimSpace(runName)
	if r == "" {
		r = "(unknown)"
	}
	fmt.Fprintf(l.Writer, "%s %s=%s %s\n", prefix, field, r, msg)
}
