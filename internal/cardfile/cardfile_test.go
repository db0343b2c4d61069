package cardfile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleCard = `---
language:
  - en
license: apache-2.0
tags:
  - generated_from_trainer
model-index:
  - name: bert-finetuned-cola
    results: []
---

<!--
This model card has been generated automatically according to the information the Trainer had access to.
-->

# bert-finetuned-cola

This model is a fine-tuned version of bert-base-uncased.

## Model description

More information needed

## Intended uses & limitations

More information needed

## Training procedure

### Training hyperparameters

The following hyperparameters were used during training:
- learning_rate: 2e-05
`

func TestParseSplitsHeaderAndBody(t *testing.T) {
	f, err := Parse(sampleCard)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if f.Header == nil {
		t.Fatalf("expected front matter header")
	}
	wantKeys := []string{"language", "license", "tags", "model-index"}
	gotKeys := f.Header.Names()
	if len(gotKeys) != len(wantKeys) {
		t.Fatalf("header keys = %v, want %v", gotKeys, wantKeys)
	}
	for i, k := range wantKeys {
		if gotKeys[i] != k {
			t.Fatalf("header key[%d] = %q, want %q", i, gotKeys[i], k)
		}
	}

	if f.Meta.License != "apache-2.0" {
		t.Fatalf("Meta.License = %q, want %q", f.Meta.License, "apache-2.0")
	}
	if len(f.Meta.Language) != 1 || f.Meta.Language[0] != "en" {
		t.Fatalf("Meta.Language = %v, want [en]", f.Meta.Language)
	}
	if len(f.Meta.ModelIndex) != 1 || f.Meta.ModelIndex[0].Name != "bert-finetuned-cola" {
		t.Fatalf("Meta.ModelIndex = %+v, want one entry named bert-finetuned-cola", f.Meta.ModelIndex)
	}

	if !strings.HasPrefix(f.Body, "\n<!--") {
		t.Fatalf("body should start right after the closing fence, got %q", f.Body[:20])
	}
}

func TestParseWithoutFrontMatter(t *testing.T) {
	raw := "# plain-card\n\nNo header here.\n"
	f, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if f.Header != nil {
		t.Fatalf("expected nil header, got %v", f.Header.Names())
	}
	if f.Body != raw {
		t.Fatalf("body = %q, want full input", f.Body)
	}
	if got := f.Title(); got != "plain-card" {
		t.Fatalf("Title() = %q, want %q", got, "plain-card")
	}
}

func TestParseFrontMatterAtEOF(t *testing.T) {
	raw := "---\nlicense: mit\n---"
	f, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if f.Meta.License != "mit" {
		t.Fatalf("Meta.License = %q, want %q", f.Meta.License, "mit")
	}
	if f.Body != "" {
		t.Fatalf("body = %q, want empty", f.Body)
	}
}

func TestParseRejectsBadHeaderYAML(t *testing.T) {
	raw := "---\nlicense: [unclosed\n---\n\nbody\n"
	_, err := Parse(raw)
	if err == nil {
		t.Fatalf("expected error for invalid front matter")
	}
	if !strings.Contains(err.Error(), "front matter") {
		t.Fatalf("error %q should mention front matter", err)
	}
}

func TestTitleAndSections(t *testing.T) {
	f, err := Parse(sampleCard)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if got := f.Title(); got != "bert-finetuned-cola" {
		t.Fatalf("Title() = %q, want %q", got, "bert-finetuned-cola")
	}

	sections := f.Sections()
	wantHeadings := []string{"Model description", "Intended uses & limitations", "Training procedure"}
	if len(sections) != len(wantHeadings) {
		t.Fatalf("got %d sections, want %d", len(sections), len(wantHeadings))
	}
	for i, want := range wantHeadings {
		if sections[i].Heading != want {
			t.Fatalf("section[%d] = %q, want %q", i, sections[i].Heading, want)
		}
	}
	if sections[0].Content != "More information needed" {
		t.Fatalf("section content = %q, want placeholder", sections[0].Content)
	}
	// The last section keeps its level-3 subsection
	if !strings.Contains(sections[2].Content, "### Training hyperparameters") {
		t.Fatalf("Training procedure section should keep nested headings, got %q", sections[2].Content)
	}
}

func TestSectionLookup(t *testing.T) {
	f, err := Parse(sampleCard)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	content, ok := f.Section("Training hyperparameters")
	if !ok {
		t.Fatalf("expected to find level-3 section")
	}
	if !strings.Contains(content, "learning_rate: 2e-05") {
		t.Fatalf("section content = %q", content)
	}

	if _, ok := f.Section("Nonexistent"); ok {
		t.Fatalf("Section() found a heading that is not there")
	}
}

func TestIsPlaceholder(t *testing.T) {
	f, err := Parse(sampleCard)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if !f.IsPlaceholder("Model description") {
		t.Fatalf("Model description should be a placeholder")
	}
	if f.IsPlaceholder("Training procedure") {
		t.Fatalf("Training procedure should not be a placeholder")
	}
	if f.IsPlaceholder("Nonexistent") {
		t.Fatalf("missing section should not count as placeholder")
	}
}

func TestBulletValues(t *testing.T) {
	content := "The following hyperparameters were used during training:\n" +
		"- learning_rate: 2e-05\n" +
		"- train_batch_size: 8\n" +
		"- optimizer: Adam with betas=(0.9,0.999)\n" +
		"- Transformers 4.12.0\n" + // no colon, skipped
		"not a bullet: really\n" +
		"- : empty name\n"

	got := BulletValues(content)
	want := []Bullet{
		{Name: "learning_rate", Value: "2e-05"},
		{Name: "train_batch_size", Value: "8"},
		{Name: "optimizer", Value: "Adam with betas=(0.9,0.999)"},
	}
	if len(got) != len(want) {
		t.Fatalf("BulletValues returned %d bullets, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("bullet %d = %+v, want %+v", i, got[i], want[i])
		}
	}

	if out := BulletValues(""); out != nil {
		t.Fatalf("empty content should yield no bullets, got %v", out)
	}
}

func TestReplaceSection(t *testing.T) {
	body := "# name\n\n## First\n\nold first\n\n## Second\n\nold second\n"

	got, ok := ReplaceSection(body, "First", "new first")
	if !ok {
		t.Fatalf("expected heading to be found")
	}
	want := "# name\n\n## First\n\nnew first\n\n## Second\n\nold second\n"
	if got != want {
		t.Fatalf("ReplaceSection mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}

	// Replacing the last section runs to end of document
	got, ok = ReplaceSection(body, "Second", "new second")
	if !ok {
		t.Fatalf("expected heading to be found")
	}
	if !strings.HasSuffix(got, "## Second\n\nnew second\n") {
		t.Fatalf("last-section replacement mismatch:\n%s", got)
	}

	if _, ok := ReplaceSection(body, "Missing", "x"); ok {
		t.Fatalf("ReplaceSection reported success for missing heading")
	}
}

func TestRenderRoundTrip(t *testing.T) {
	f, err := Parse(sampleCard)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	out, err := f.Render()
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if out != sampleCard {
		t.Fatalf("render is not byte-identical to input:\ngot:\n%s\nwant:\n%s", out, sampleCard)
	}
}

func TestCheckExtension(t *testing.T) {
	if err := CheckExtension("README.md"); err != nil {
		t.Fatalf("README.md should be accepted: %v", err)
	}
	if err := CheckExtension("card.MARKDOWN"); err != nil {
		t.Fatalf("case-insensitive extension should be accepted: %v", err)
	}
	if err := CheckExtension("card.txt"); err == nil {
		t.Fatalf("expected error for .txt")
	}
}

func TestReadAndWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "README.md")

	if err := Write(path, sampleCard); err != nil {
		t.Fatalf("Write: %v", err)
	}

	f, err := Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if f.Path != path {
		t.Fatalf("Path = %q, want %q", f.Path, path)
	}
	if f.Meta.License != "apache-2.0" {
		t.Fatalf("Meta.License = %q after roundtrip", f.Meta.License)
	}

	// Write creates missing parent directories
	nested := filepath.Join(dir, "cards", "sub", "README.md")
	if err := Write(nested, "# x\n"); err != nil {
		t.Fatalf("Write nested: %v", err)
	}
	if _, err := os.Stat(nested); err != nil {
		t.Fatalf("nested file missing: %v", err)
	}

	if _, err := Read(filepath.Join(dir, "missing.md")); err == nil {
		t.Fatalf("expected error for missing file")
	}
	if err := Write(filepath.Join(dir, "card.txt"), "x"); err == nil {
		t.Fatalf("expected extension error on write")
	}
}
