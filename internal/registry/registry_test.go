package registry

import (
	"bytes"
	"strings"
	"testing"

	"github.com/runcard-dev/runcard/internal/cardfile"
	"github.com/runcard-dev/runcard/internal/hub"
	"github.com/runcard-dev/runcard/internal/ui"
)

const filledCard = `---
language:
  - en
license: apache-2.0
tags:
  - generated_from_trainer
datasets:
  - glue
metrics:
  - accuracy
model-index:
  - name: bert-finetuned-cola
    results: []
---

# bert-finetuned-cola

This model is a fine-tuned version of bert-base-uncased on the glue dataset.

## Model description

Fine-tuned BERT for linguistic acceptability classification.

## Intended uses & limitations

Use for English sentence acceptability judgements.

## Training and evaluation data

Trained on the CoLA subset of GLUE.

## Training procedure

### Training hyperparameters

The following hyperparameters were used during training:
- learning_rate: 2e-05

### Training results

| Training Loss | Epoch | Step | Validation Loss |
|:-------------:|:-----:|:----:|:---------------:|
| 0.52          | 1.0   | 535  | 0.46            |

### Framework versions

- Transformers 4.38.0
- Pytorch 2.2.0
`

const generatedCard = `---
tags:
  - generated_from_trainer
model-index:
  - name: bert-finetuned-cola
    results: []
---

# bert-finetuned-cola

This model was trained from scratch on an unknown dataset.

## Model description

More information needed

## Intended uses & limitations

More information needed

## Training and evaluation data

More information needed

## Training procedure

### Training hyperparameters

The following hyperparameters were used during training:
- learning_rate: 2e-05
`

func parseCard(t *testing.T, raw string) *cardfile.File {
	t.Helper()
	f, err := cardfile.Parse(raw)
	if err != nil {
		t.Fatalf("parse card: %v", err)
	}
	return f
}

func specFor(t *testing.T, key Key) FieldSpec {
	t.Helper()
	for _, spec := range Registry() {
		if spec.Key == key {
			return spec
		}
	}
	t.Fatalf("missing spec %s", key)
	return FieldSpec{}
}

func TestRegistryPresentOnFilledCard(t *testing.T) {
	f := parseCard(t, filledCard)
	for _, spec := range Registry() {
		if !spec.Present(f) {
			t.Fatalf("expected present for %s", spec.Key)
		}
	}
}

func TestRegistryPresentHandlesNilFile(t *testing.T) {
	for _, spec := range Registry() {
		if spec.Present(nil) {
			t.Fatalf("expected not present for %s on nil file", spec.Key)
		}
	}
}

func TestSectionPresentDistinguishesPlaceholder(t *testing.T) {
	f := parseCard(t, generatedCard)

	for _, key := range []Key{SectionDescription, SectionIntendedUses, SectionTrainingData} {
		if specFor(t, key).Present(f) {
			t.Fatalf("expected placeholder section %s to be not present", key)
		}
	}
	// The procedure skeleton and its hyperparameters exist in generated cards.
	if !specFor(t, SectionProcedure).Present(f) {
		t.Fatalf("expected procedure section present")
	}
	if !specFor(t, SectionHyperparameters).Present(f) {
		t.Fatalf("expected hyperparameters section present")
	}
	if specFor(t, SectionResults).Present(f) {
		t.Fatalf("expected results section missing")
	}
}

func TestRegistryApplyFillsMissingHeaderFields(t *testing.T) {
	f := parseCard(t, generatedCard)
	src := Source{
		Name: "bert-finetuned-cola",
		Hub: &hub.CardInfo{
			ModelID:  "google-bert/bert-base-uncased",
			License:  "apache-2.0",
			Language: []string{"en", "", "en"},
			Tags:     []string{"bert"},
			Datasets: []string{"glue"},
		},
	}
	tgt := Target{File: f}

	for _, spec := range Registry() {
		if spec.Apply != nil {
			spec.Apply(src, tgt)
		}
	}

	if f.Meta.License != "apache-2.0" {
		t.Fatalf("license = %q", f.Meta.License)
	}
	if len(f.Meta.Language) != 1 || f.Meta.Language[0] != "en" {
		t.Fatalf("language = %v", f.Meta.Language)
	}
	if len(f.Meta.Datasets) != 1 || f.Meta.Datasets[0] != "glue" {
		t.Fatalf("datasets = %v", f.Meta.Datasets)
	}
	// Existing tags are kept, not overwritten by the Hub's.
	if len(f.Meta.Tags) != 1 || f.Meta.Tags[0] != "generated_from_trainer" {
		t.Fatalf("tags = %v", f.Meta.Tags)
	}

	// Header mapping stays in canonical key order.
	want := []string{"language", "license", "tags", "datasets", "model-index"}
	got := f.Header.Names()
	if len(got) != len(want) {
		t.Fatalf("header keys = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("header keys = %v, want %v", got, want)
		}
	}
}

func TestRegistryApplyDoesNotOverwrite(t *testing.T) {
	f := parseCard(t, filledCard)
	src := Source{
		Name: "bert-finetuned-cola",
		Hub:  &hub.CardInfo{License: "mit", Language: []string{"fr"}},
	}
	for _, spec := range Registry() {
		if spec.Apply != nil {
			spec.Apply(src, Target{File: f})
		}
	}
	if f.Meta.License != "apache-2.0" {
		t.Fatalf("license overwritten: %q", f.Meta.License)
	}
	if len(f.Meta.Language) != 1 || f.Meta.Language[0] != "en" {
		t.Fatalf("language overwritten: %v", f.Meta.Language)
	}
}

func TestRegistryApplyHandlesNilTargets(t *testing.T) {
	for _, spec := range Registry() {
		if spec.Apply != nil {
			spec.Apply(Source{}, Target{})
			spec.Apply(Source{Hub: &hub.CardInfo{License: "mit"}}, Target{})
		}
	}
}

func TestSetUserValueOnHeaderFields(t *testing.T) {
	// A card without front matter gains a header on first edit.
	f := parseCard(t, "# bare-model\n\nSome text.\n")
	tgt := Target{File: f}

	if err := specFor(t, HeaderLicense).SetUserValue("  mit  ", tgt); err != nil {
		t.Fatalf("set license: %v", err)
	}
	if f.Meta.License != "mit" {
		t.Fatalf("license = %q", f.Meta.License)
	}
	if v, ok := f.Header.Get("license"); !ok || v != "mit" {
		t.Fatalf("header license = %v ok=%t", v, ok)
	}

	if err := specFor(t, HeaderTags).SetUserValue("a, b , a", tgt); err != nil {
		t.Fatalf("set tags: %v", err)
	}
	if len(f.Meta.Tags) != 2 || f.Meta.Tags[0] != "a" || f.Meta.Tags[1] != "b" {
		t.Fatalf("tags = %v", f.Meta.Tags)
	}

	if err := specFor(t, HeaderLicense).SetUserValue("   ", tgt); err == nil {
		t.Fatalf("expected error for blank license")
	}
}

func TestSetUserValueOnSections(t *testing.T) {
	f := parseCard(t, generatedCard)
	tgt := Target{File: f}

	spec := specFor(t, SectionIntendedUses)
	if err := spec.SetUserValue("Use for English acceptability only.", tgt); err != nil {
		t.Fatalf("set section: %v", err)
	}
	content, ok := f.Section(HeadingIntendedUses)
	if !ok || content != "Use for English acceptability only." {
		t.Fatalf("section = %q ok=%t", content, ok)
	}
	if !spec.Present(f) {
		t.Fatalf("expected section present after edit")
	}

	// A heading the card does not have yet is appended at the end.
	bare := parseCard(t, "# bare-model\n\nSome text.\n")
	if err := specFor(t, SectionTrainingData).SetUserValue("Trained on GLUE.", Target{File: bare}); err != nil {
		t.Fatalf("append section: %v", err)
	}
	if !strings.HasSuffix(bare.Body, "## "+HeadingTrainingData+"\n\nTrained on GLUE.\n") {
		t.Fatalf("body = %q", bare.Body)
	}

	if err := spec.SetUserValue("   ", tgt); err == nil {
		t.Fatalf("expected error for blank section content")
	}
}

func TestGeneratedSectionsAreNotEditable(t *testing.T) {
	for _, key := range []Key{HeaderModelIndex, BodyTitle, SectionProcedure, SectionHyperparameters, SectionResults, SectionVersions} {
		if specFor(t, key).SetUserValue != nil {
			t.Fatalf("expected %s to be not user-editable", key)
		}
	}
}

func TestCanonicalHeaderOrderKeepsUnknownKeys(t *testing.T) {
	f := parseCard(t, "---\nwidget:\n  - text: hello\nlicense: mit\n---\n\n# m\n")
	setHeaderKey(f, "language", []string{"en"})

	got := f.Header.Names()
	want := []string{"language", "license", "widget"}
	if len(got) != len(want) {
		t.Fatalf("header keys = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("header keys = %v, want %v", got, want)
		}
	}
}

func TestLookupAndHeading(t *testing.T) {
	if _, ok := Lookup(HeaderLicense); !ok {
		t.Fatalf("expected license spec")
	}
	if _, ok := Lookup(Key("card.header.nope")); ok {
		t.Fatalf("unexpected spec for unknown key")
	}
	if got := Heading(SectionDescription); got != HeadingDescription {
		t.Fatalf("heading = %q", got)
	}
	if got := Heading(HeaderLicense); got != "" {
		t.Fatalf("expected empty heading for header key, got %q", got)
	}
}

func TestLogfWritesWithConfiguredLogger(t *testing.T) {
	ui.Init(true)

	var buf bytes.Buffer
	SetLogger(&buf)
	t.Cleanup(func() { SetLogger(nil) })

	logf("bert-finetuned-cola", "value %d", 42)

	got := buf.String()
	for _, want := range []string{"Registry:", "card=bert-finetuned-cola", "value 42"} {
		if !strings.Contains(got, want) {
			t.Fatalf("log output %q missing %q", got, want)
		}
	}
}

func TestSummarizeValueVariants(t *testing.T) {
	long := strings.Repeat("x", 90)
	gotLong := summarizeValue(long)
	if !strings.HasPrefix(gotLong, "\""+strings.Repeat("x", 77)) || !strings.HasSuffix(gotLong, "...\"") {
		t.Fatalf("expected truncated string, got %q", gotLong)
	}

	if got := summarizeValue([]string{"a", "b"}); got != "[]string(len=2)" {
		t.Fatalf("slice summary = %q", got)
	}
	if got := summarizeValue(123); got != "int" {
		t.Fatalf("default summary = %q", got)
	}
	if got := summarizeValue(nil); got != "<nil>" {
		t.Fatalf("nil summary = %q", got)
	}
}

func TestSplitList(t *testing.T) {
	got := splitList(" en, fr ,, en ")
	if len(got) != 2 || got[0] != "en" || got[1] != "fr" {
		t.Fatalf("splitList = %v", got)
	}
	if out := splitList("  ,  "); len(out) != 0 {
		t.Fatalf("expected empty, got %v", out)
	}
}
