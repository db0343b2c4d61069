package export

import (
	"bytes"
	"strings"
	"testing"

	cdx "github.com/CycloneDX/cyclonedx-go"

	"github.com/runcard-dev/runcard/internal/cardfile"
	"github.com/runcard-dev/runcard/internal/ui"
)

const fullCard = `---
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
  - name: bert-base-uncased-finetuned-cola
    results:
      - task:
          name: Text Classification
          type: text-classification
        dataset:
          name: GLUE COLA
          type: glue
          args: cola
        metrics:
          - name: Accuracy
            type: accuracy
            value: 0.9071
---

# bert-base-uncased-finetuned-cola

This model is a fine-tuned version of [bert-base-uncased](https://huggingface.co/bert-base-uncased) on the glue dataset.

## Model description

A compact demonstration model.

## Training procedure

### Training hyperparameters

The following hyperparameters were used during training:
- learning_rate: 2e-05
- train_batch_size: 8

### Framework versions

- Transformers 4.12.0
- Pytorch 1.10.0
`

func parseCard(t *testing.T, raw string) *cardfile.File {
	t.Helper()
	f, err := cardfile.Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return f
}

func buildFull(t *testing.T) *cdx.BOM {
	t.Helper()
	bom, err := Build(parseCard(t, fullCard), Options{ToolVersion: "v1.2.3"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return bom
}

func findComponent(bom *cdx.BOM, name string) *cdx.Component {
	if bom.Components == nil {
		return nil
	}
	for i := range *bom.Components {
		if (*bom.Components)[i].Name == name {
			return &(*bom.Components)[i]
		}
	}
	return nil
}

func propertyValue(c *cdx.Component, name string) string {
	if c == nil || c.Properties == nil {
		return ""
	}
	for _, p := range *c.Properties {
		if p.Name == name {
			return p.Value
		}
	}
	return ""
}

func TestBuild_NilCard(t *testing.T) {
	if _, err := Build(nil, Options{}); err == nil {
		t.Fatalf("expected error for nil card")
	}
}

func TestBuild_MetadataComponent(t *testing.T) {
	bom := buildFull(t)

	if !strings.HasPrefix(bom.SerialNumber, "urn:uuid:") {
		t.Fatalf("SerialNumber = %q, want urn:uuid prefix", bom.SerialNumber)
	}
	if bom.Metadata == nil || bom.Metadata.Timestamp == "" {
		t.Fatalf("expected metadata timestamp to be set")
	}

	comp := bom.Metadata.Component
	if comp == nil {
		t.Fatalf("expected metadata component")
	}
	if comp.Type != cdx.ComponentTypeMachineLearningModel {
		t.Fatalf("component type = %v", comp.Type)
	}
	if comp.Name != "bert-base-uncased-finetuned-cola" {
		t.Fatalf("component name = %q", comp.Name)
	}
	if comp.Description != "A compact demonstration model." {
		t.Fatalf("component description = %q", comp.Description)
	}
	if comp.Licenses == nil || len(*comp.Licenses) != 1 || (*comp.Licenses)[0].License.Name != "apache-2.0" {
		t.Fatalf("license not carried into component: %+v", comp.Licenses)
	}
	if comp.Tags == nil || len(*comp.Tags) != 1 || (*comp.Tags)[0] != "generated_from_trainer" {
		t.Fatalf("tags not carried into component: %v", comp.Tags)
	}

	wantPurl := "pkg:huggingface/bert-base-uncased-finetuned-cola"
	if comp.PackageURL != wantPurl {
		t.Fatalf("purl = %q, want %q", comp.PackageURL, wantPurl)
	}
	if comp.BOMRef != wantPurl {
		t.Fatalf("bom-ref = %q, want %q", comp.BOMRef, wantPurl)
	}
}

func TestBuild_ToolComponent(t *testing.T) {
	bom := buildFull(t)

	if bom.Metadata.Tools == nil || bom.Metadata.Tools.Components == nil || len(*bom.Metadata.Tools.Components) != 1 {
		t.Fatalf("expected one tool component")
	}
	tool := (*bom.Metadata.Tools.Components)[0]
	if tool.Name != "runcard" || tool.Version != "v1.2.3" {
		t.Fatalf("tool = %s@%s", tool.Name, tool.Version)
	}
	if tool.Type != cdx.ComponentTypeApplication {
		t.Fatalf("tool type = %v", tool.Type)
	}
	if tool.Manufacturer == nil || tool.Manufacturer.Name != "runcard-dev" {
		t.Fatalf("tool manufacturer = %+v", tool.Manufacturer)
	}
}

func TestBuild_ModelCard(t *testing.T) {
	bom := buildFull(t)
	card := bom.Metadata.Component.ModelCard
	if card == nil {
		t.Fatalf("expected model card on metadata component")
	}

	if card.ModelParameters == nil || card.ModelParameters.Task != "text-classification" {
		t.Fatalf("model parameters task missing: %+v", card.ModelParameters)
	}
	if card.ModelParameters.Datasets == nil || len(*card.ModelParameters.Datasets) != 1 {
		t.Fatalf("expected one dataset choice")
	}
	if ref := (*card.ModelParameters.Datasets)[0].Ref; ref != "pkg:huggingface/datasets/glue" {
		t.Fatalf("dataset ref = %q", ref)
	}

	if card.QuantitativeAnalysis == nil || card.QuantitativeAnalysis.PerformanceMetrics == nil {
		t.Fatalf("expected quantitative analysis")
	}
	metrics := *card.QuantitativeAnalysis.PerformanceMetrics
	if len(metrics) != 1 {
		t.Fatalf("expected one performance metric, got %d", len(metrics))
	}
	if metrics[0].Type != "accuracy" || metrics[0].Value != "0.9071" || metrics[0].Slice != "cola" {
		t.Fatalf("metric = %+v", metrics[0])
	}
}

func TestBuild_HyperparameterProperties(t *testing.T) {
	bom := buildFull(t)
	comp := bom.Metadata.Component

	if got := propertyValue(comp, "runcard:hyperparameter:learning_rate"); got != "2e-05" {
		t.Fatalf("learning_rate property = %q", got)
	}
	if got := propertyValue(comp, "runcard:hyperparameter:train_batch_size"); got != "8" {
		t.Fatalf("train_batch_size property = %q", got)
	}
	if got := propertyValue(comp, "huggingface:language"); got != "en" {
		t.Fatalf("language property = %q", got)
	}
}

func TestBuild_Components(t *testing.T) {
	bom := buildFull(t)

	if bom.Components == nil || len(*bom.Components) != 4 {
		t.Fatalf("expected 4 components (dataset, base model, 2 libraries), got %+v", bom.Components)
	}

	ds := findComponent(bom, "glue")
	if ds == nil || ds.Type != cdx.ComponentTypeData {
		t.Fatalf("glue dataset component missing: %+v", ds)
	}
	if ds.Description != "GLUE COLA" {
		t.Fatalf("dataset description = %q", ds.Description)
	}
	if got := propertyValue(ds, "huggingface:datasetConfig"); got != "cola" {
		t.Fatalf("dataset config property = %q", got)
	}
	if ds.PackageURL != "pkg:huggingface/datasets/glue" {
		t.Fatalf("dataset purl = %q", ds.PackageURL)
	}

	base := findComponent(bom, "bert-base-uncased")
	if base == nil || base.Type != cdx.ComponentTypeMachineLearningModel {
		t.Fatalf("base model component missing: %+v", base)
	}
	if base.PackageURL != "pkg:huggingface/bert-base-uncased" {
		t.Fatalf("base model purl = %q", base.PackageURL)
	}

	tf := findComponent(bom, "transformers")
	if tf == nil || tf.Type != cdx.ComponentTypeLibrary || tf.Version != "4.12.0" {
		t.Fatalf("transformers component = %+v", tf)
	}
	if tf.PackageURL != "pkg:pypi/transformers@4.12.0" {
		t.Fatalf("transformers purl = %q", tf.PackageURL)
	}

	torch := findComponent(bom, "torch")
	if torch == nil || torch.Version != "1.10.0" {
		t.Fatalf("torch component = %+v", torch)
	}
	if torch.PackageURL != "pkg:pypi/torch@1.10.0" {
		t.Fatalf("torch purl = %q", torch.PackageURL)
	}
}

func TestBuild_Dependencies(t *testing.T) {
	bom := buildFull(t)

	if bom.Dependencies == nil {
		t.Fatalf("expected dependency graph")
	}
	deps := *bom.Dependencies
	if len(deps) != 5 {
		t.Fatalf("expected 5 dependency entries, got %d", len(deps))
	}

	model := deps[0]
	if model.Ref != bom.Metadata.Component.BOMRef {
		t.Fatalf("first dependency ref = %q", model.Ref)
	}
	if model.Dependencies == nil || len(*model.Dependencies) != 4 {
		t.Fatalf("model should depend on all 4 components: %+v", model.Dependencies)
	}
	for _, d := range deps[1:] {
		if d.Dependencies != nil {
			t.Fatalf("leaf %q should have no dependencies", d.Ref)
		}
	}
}

func TestBuild_MinimalCard(t *testing.T) {
	f := parseCard(t, "# tiny-model\n\nJust a title.\n")

	bom, err := Build(f, Options{ToolVersion: "v0.0.1"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if bom.Metadata.Component.Name != "tiny-model" {
		t.Fatalf("component name = %q", bom.Metadata.Component.Name)
	}
	if bom.Components != nil {
		t.Fatalf("minimal card should produce no extra components")
	}
	if bom.Dependencies == nil || len(*bom.Dependencies) != 1 {
		t.Fatalf("expected a lone model dependency entry")
	}
	if bom.Metadata.Component.Description != "" {
		t.Fatalf("description should stay empty, got %q", bom.Metadata.Component.Description)
	}
}

func TestBuild_PlaceholderDescriptionSkipped(t *testing.T) {
	f := parseCard(t, "# m\n\n## Model description\n\nMore information needed\n")

	bom, err := Build(f, Options{ToolVersion: "v0.0.1"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if bom.Metadata.Component.Description != "" {
		t.Fatalf("placeholder description must not be exported, got %q", bom.Metadata.Component.Description)
	}
}

func TestBuild_BaseModelHeaderWins(t *testing.T) {
	raw := "---\nbase_model: distilbert-base-uncased\n---\n\n# m\n\n" +
		"This model is a fine-tuned version of [bert-base-uncased](https://huggingface.co/bert-base-uncased) on nothing.\n"
	f := parseCard(t, raw)

	bom, err := Build(f, Options{ToolVersion: "v0.0.1"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	base := findComponent(bom, "distilbert-base-uncased")
	if base == nil {
		t.Fatalf("expected base model from header, got %+v", bom.Components)
	}
	if findComponent(bom, "bert-base-uncased") != nil {
		t.Fatalf("body-derived base model should lose to the header key")
	}
}

func TestBuild_LogsThroughConfiguredWriter(t *testing.T) {
	ui.Init(true)
	var buf bytes.Buffer
	SetLogger(&buf)
	defer SetLogger(nil)

	if _, err := Build(parseCard(t, fullCard), Options{ToolVersion: "v1.2.3"}); err != nil {
		t.Fatalf("Build: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "Export: model=bert-base-uncased-finetuned-cola export start") {
		t.Fatalf("missing start line in %q", out)
	}
	if !strings.Contains(out, "export ok (components=4)") {
		t.Fatalf("missing ok line in %q", out)
	}
}
