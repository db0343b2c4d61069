package card

import "testing"

func TestMakeMarkdownTableEmpty(t *testing.T) {
	if got := MakeMarkdownTable(nil); got != "" {
		t.Fatalf("nil rows = %q", got)
	}
	if got := MakeMarkdownTable([]*Fields{}); got != "" {
		t.Fatalf("empty rows = %q", got)
	}
}

func TestMakeMarkdownTable(t *testing.T) {
	row := NewFields()
	row.Set("Training Loss", "No log")
	row.Set("Epoch", 1.0)
	row.Set("Step", 10)
	row.Set("Validation Loss", 0.45678901)

	want := "| Training Loss | Epoch | Step | Validation Loss |\n" +
		"|:-------------:|:-----:|:----:|:---------------:|\n" +
		"| No log        | 1.0   | 10   | 0.4568          |\n"
	if got := MakeMarkdownTable([]*Fields{row}); got != want {
		t.Fatalf("table mismatch\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestMakeMarkdownTableWidthFromCells(t *testing.T) {
	first := NewFields()
	first.Set("Loss", 0.123456789)
	second := NewFields()
	second.Set("Loss", 2.0)

	want := "| Loss   |\n" +
		"|:------:|\n" +
		"| 0.1235 |\n" +
		"| 2.0    |\n"
	if got := MakeMarkdownTable([]*Fields{first, second}); got != want {
		t.Fatalf("table mismatch\ngot:\n%s\nwant:\n%s", got, want)
	}
}
