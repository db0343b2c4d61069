package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/runcard-dev/runcard/internal/ui"
)

func TestLogger_EnabledAndSetWriter(t *testing.T) {
	var l Logger
	if l.Enabled() {
		t.Fatalf("expected disabled when Writer is nil")
	}

	var buf bytes.Buffer
	l.SetWriter(&buf)
	if !l.Enabled() {
		t.Fatalf("expected enabled after setting Writer")
	}
}

func TestLogger_Logf_WritesPrefixRunAndMessage(t *testing.T) {
	ui.Init(true) // disable ANSI color for stable assertions

	var buf bytes.Buffer
	l := Logger{Writer: &buf, PrefixText: "X:", PrefixColor: ui.FgGreen}
	l.Logf("  my-run  ", "msg %d", 1)

	out := buf.String()
	if !strings.Contains(out, "X:") {
		t.Fatalf("expected prefix, got %q", out)
	}
	if !strings.Contains(out, "run=my-run") {
		t.Fatalf("expected trimmed run name, got %q", out)
	}
	if !strings.Contains(out, "msg 1") {
		t.Fatalf("expected formatted message, got %q", out)
	}
}

func TestLogger_Logf_EmptyRunName_UsesUnknown(t *testing.T) {
	ui.Init(true)

	var buf bytes.Buffer
	l := Logger{Writer: &buf, PrefixText: "X:"}
	l.Logf("   ", "x")

	out := buf.String()
	if !strings.Contains(out, "run=(unknown)") {
		t.Fatalf("expected unknown run name, got %q", out)
	}
}

func TestLogger_Logf_DefaultPrefix(t *testing.T) {
	ui.Init(true)

	var buf bytes.Buffer
	l := Logger{Writer: &buf}
	l.Logf("my-run", "x")

	out := buf.String()
	if !strings.Contains(out, "Log:") {
		t.Fatalf("expected default prefix, got %q", out)
	}
}

func TestLogger_Logf_FieldNameOverride(t *testing.T) {
	ui.Init(true)

	var buf bytes.Buffer
	l := Logger{Writer: &buf, PrefixText: "Hub:", FieldName: "model"}
	l.Logf("org/model", "fetched")

	out := buf.String()
	if !strings.Contains(out, "model=org/model") {
		t.Fatalf("expected model field, got %q", out)
	}
}

func TestLogger_Logf_OmitField(t *testing.T) {
	ui.Init(true)

	var buf bytes.Buffer
	l := Logger{Writer: &buf, PrefixText: "X:", OmitRun: true}
	l.Logf("my-run", "x")

	out := buf.String()
	if out != "X: x\n" {
		t.Fatalf("output = %q, want %q", out, "X: x\\n")
	}
}

func TestLogger_Logf_NilReceiver_NoPanic(t *testing.T) {
	ui.Init(true)

	var l *Logger
	l.Logf("my-run", "x")
}
