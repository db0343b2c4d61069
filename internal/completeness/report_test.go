package completeness

import (
	"bytes"
	"testing"

	"github.com/runcard-dev/runcard/internal/registry"
	"github.com/runcard-dev/runcard/internal/ui"
)

func TestPrintReport_UsesConfiguredLoggerWriter(t *testing.T) {
	ui.Init(true)

	var buf bytes.Buffer
	SetLogger(&buf)
	t.Cleanup(func() { SetLogger(nil) })

	PrintReport(Report{Overall: 0.45, Score: 0.5, Passed: 1, Total: 2})
	got := buf.String()
	want := "Complete: overall score=45.0%\n" +
		"Complete: header score=50.0% (1/2)\n" +
		"Complete: body score=0.0% (0/0 sections)\n"
	if got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}
}

func TestPrintReport_NoLoggerWriter_DoesNothing(t *testing.T) {
	ui.Init(true)

	SetLogger(nil)
	// Should not panic; should produce no output.
	PrintReport(Report{Score: 1, Passed: 1, Total: 1})
}

func TestPrintReport_WithMissingKeysAndSections(t *testing.T) {
	ui.Init(true)

	var buf bytes.Buffer
	SetLogger(&buf)
	t.Cleanup(func() { SetLogger(nil) })

	PrintReport(Report{
		Overall:         0.2,
		Score:           0,
		Passed:          0,
		Total:           1,
		MissingRequired: []registry.Key{registry.HeaderLicense},
		MissingOptional: []registry.Key{registry.HeaderLanguage, registry.HeaderDatasets},
		Sections: SectionsReport{
			Score:               0.25,
			Filled:              1,
			Total:               4,
			PlaceholderSections: []string{registry.HeadingDescription},
			MissingSections:     []string{registry.HeadingResults},
		},
	})

	got := buf.String()
	want := "Complete: overall score=20.0%\n" +
		"Complete: header score=0.0% (0/1)\n" +
		"Complete: missing required: card.header.license\n" +
		"Complete: missing optional: card.header.language, card.header.datasets\n" +
		"Complete: body score=25.0% (1/4 sections)\n" +
		"Complete: placeholder sections: Model description\n" +
		"Complete: missing sections: Training results\n"
	if got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}
}

func TestJoinKeys_Empty(t *testing.T) {
	if got := joinKeys(nil); got != "" {
		t.Fatalf("joinKeys(nil) = %q, want empty", got)
	}
	if got := joinKeys([]registry.Key{}); got != "" {
		t.Fatalf("joinKeys(empty) = %q, want empty", got)
	}
}
