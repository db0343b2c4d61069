package card

import (
	"bytes"
	"strings"
	"testing"

	"github.com/runcard-dev/runcard/internal/ui"
)

func summaryFor(t *testing.T, p Params) *TrainingSummary {
	t.Helper()
	if p.ModelName == "" {
		p.ModelName = "test-model"
	}
	s, err := New(p)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestCreateModelIndexFullResult(t *testing.T) {
	results := NewFields()
	results.Set("Accuracy", 0.91)
	s := summaryFor(t, Params{
		Tasks:       []string{"text-classification"},
		Dataset:     []string{"GLUE COLA"},
		DatasetTags: []string{"glue"},
		DatasetArgs: []string{"cola"},
		EvalResults: results,
	})

	index := s.createModelIndex(InferMetricTags(results))
	if len(index) != 1 {
		t.Fatalf("expected one entry, got %d", len(index))
	}
	entry := index[0]
	if entry.Name != "test-model" {
		t.Fatalf("entry name = %q", entry.Name)
	}
	if len(entry.Results) != 1 {
		t.Fatalf("expected one result, got %d", len(entry.Results))
	}
	r := entry.Results[0]
	if r.Task == nil || r.Task.Name != "Text Classification" || r.Task.Type != "text-classification" {
		t.Fatalf("task = %#v", r.Task)
	}
	if r.Dataset == nil || r.Dataset.Name != "GLUE COLA" || r.Dataset.Type != "glue" || r.Dataset.Args != "cola" {
		t.Fatalf("dataset = %#v", r.Dataset)
	}
	if len(r.Metrics) != 1 {
		t.Fatalf("metrics = %#v", r.Metrics)
	}
	m := r.Metrics[0]
	if m.Name != "Accuracy" || m.Type != "accuracy" || m.Value != 0.91 {
		t.Fatalf("metric = %#v", m)
	}
}

func TestCreateModelIndexEmptyMappings(t *testing.T) {
	s := summaryFor(t, Params{})
	index := s.createModelIndex(NewFields())
	if len(index) != 1 {
		t.Fatalf("expected one entry, got %d", len(index))
	}
	if index[0].Results == nil || len(index[0].Results) != 0 {
		t.Fatalf("expected empty non-nil results, got %#v", index[0].Results)
	}
}

func TestCreateModelIndexCrossProduct(t *testing.T) {
	results := NewFields()
	results.Set("Accuracy", 0.8)
	s := summaryFor(t, Params{
		Tasks:       []string{"text-classification", "summarization"},
		Dataset:     []string{"First", "Second"},
		DatasetTags: []string{"ds-one", "ds-two"},
		EvalResults: results,
	})

	entry := s.createModelIndex(InferMetricTags(results))[0]
	if len(entry.Results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(entry.Results))
	}
	wantPairs := [][2]string{
		{"text-classification", "ds-one"},
		{"text-classification", "ds-two"},
		{"summarization", "ds-one"},
		{"summarization", "ds-two"},
	}
	for i, want := range wantPairs {
		got := entry.Results[i]
		if got.Task.Type != want[0] || got.Dataset.Type != want[1] {
			t.Errorf("results[%d] = (%s, %s), want (%s, %s)", i, got.Task.Type, got.Dataset.Type, want[0], want[1])
		}
	}
	// Args were never supplied, so the padded values stay empty.
	if entry.Results[0].Dataset.Args != "" {
		t.Errorf("expected empty args, got %q", entry.Results[0].Dataset.Args)
	}
}

func TestCreateModelIndexDropsIncomplete(t *testing.T) {
	ui.Init(true)
	var buf bytes.Buffer
	SetLogger(&buf)
	t.Cleanup(func() { SetLogger(nil) })

	// A dataset but no task: every combination lacks the task field.
	results := NewFields()
	results.Set("Accuracy", 0.8)
	s := summaryFor(t, Params{
		Dataset:     []string{"GLUE"},
		DatasetTags: []string{"glue"},
		EvalResults: results,
	})

	entry := s.createModelIndex(InferMetricTags(results))[0]
	if len(entry.Results) != 0 {
		t.Fatalf("expected incomplete results dropped, got %#v", entry.Results)
	}
	if !strings.Contains(buf.String(), "dropping model-index result") {
		t.Fatalf("expected drop log, got %q", buf.String())
	}
}

func TestCreateModelIndexUnknownTaskFiltered(t *testing.T) {
	results := NewFields()
	results.Set("Accuracy", 0.8)
	s := summaryFor(t, Params{
		Tasks:       []string{"made-up-task", "translation"},
		Dataset:     []string{"WMT"},
		DatasetTags: []string{"wmt16"},
		EvalResults: results,
	})

	entry := s.createModelIndex(InferMetricTags(results))[0]
	if len(entry.Results) != 1 {
		t.Fatalf("expected one result, got %d", len(entry.Results))
	}
	if entry.Results[0].Task.Type != "translation" {
		t.Fatalf("task = %#v", entry.Results[0].Task)
	}
}

func TestCreateModelIndexTruncatesUnnamedDatasets(t *testing.T) {
	results := NewFields()
	results.Set("Accuracy", 0.8)
	// Two tags but only one name: the second tag has no paired name and is
	// not indexed.
	s := summaryFor(t, Params{
		Tasks:       []string{"text-classification"},
		Dataset:     []string{"Only Named"},
		DatasetTags: []string{"named", "unnamed"},
		EvalResults: results,
	})

	entry := s.createModelIndex(InferMetricTags(results))[0]
	if len(entry.Results) != 1 {
		t.Fatalf("expected one result, got %d", len(entry.Results))
	}
	if ds := entry.Results[0].Dataset; ds.Type != "named" || ds.Name != "Only Named" {
		t.Fatalf("dataset = %#v", ds)
	}
}
