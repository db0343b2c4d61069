package card

import (
	"reflect"
	"testing"
)

func TestCreateMetadataFillsKeysInOrder(t *testing.T) {
	results := NewFields()
	results.Set("Accuracy", 0.91)
	s := summaryFor(t, Params{
		Language:    []string{"en"},
		Tags:        []string{"generated_from_trainer"},
		Tasks:       []string{"text-classification"},
		Dataset:     []string{"GLUE COLA"},
		DatasetTags: []string{"glue"},
		EvalResults: results,
	})

	m := s.CreateMetadata()
	if !reflect.DeepEqual(m.Language, []string{"en"}) {
		t.Fatalf("language = %v", m.Language)
	}
	if m.License != "" {
		t.Fatalf("license should stay empty, got %q", m.License)
	}
	if !reflect.DeepEqual(m.Tags, []string{"generated_from_trainer"}) {
		t.Fatalf("tags = %v", m.Tags)
	}
	if !reflect.DeepEqual(m.Datasets, []string{"glue"}) {
		t.Fatalf("datasets = %v", m.Datasets)
	}
	if !reflect.DeepEqual(m.Metrics, []string{"accuracy"}) {
		t.Fatalf("metrics = %v", m.Metrics)
	}
	if len(m.ModelIndex) != 1 || len(m.ModelIndex[0].Results) != 1 {
		t.Fatalf("model index = %#v", m.ModelIndex)
	}
	if m.IsEmpty() {
		t.Fatalf("metadata with content reported empty")
	}
}

func TestCreateMetadataSkipsEmptyKeys(t *testing.T) {
	s := summaryFor(t, Params{})
	m := s.CreateMetadata()
	if m.Language != nil || m.Tags != nil || m.Datasets != nil || m.Metrics != nil {
		t.Fatalf("expected empty keys skipped: %#v", m)
	}
	// The model index is always present, so generated metadata never
	// serializes to nothing.
	if len(m.ModelIndex) != 1 {
		t.Fatalf("model index = %#v", m.ModelIndex)
	}
	if m.IsEmpty() {
		t.Fatalf("metadata with model index reported empty")
	}
}

func TestMetadataIsEmpty(t *testing.T) {
	if !(Metadata{}).IsEmpty() {
		t.Fatalf("zero metadata should be empty")
	}
	if (Metadata{License: "apache-2.0"}).IsEmpty() {
		t.Fatalf("license alone should count as content")
	}
}

func TestNonEmptyDropsBlanks(t *testing.T) {
	if got := nonEmpty([]string{"", "a", ""}); !reflect.DeepEqual(got, []string{"a"}) {
		t.Fatalf("nonEmpty = %v", got)
	}
	if got := nonEmpty([]string{"", ""}); got != nil {
		t.Fatalf("expected nil for all-blank input, got %#v", got)
	}
	if got := nonEmpty(nil); got != nil {
		t.Fatalf("expected nil for nil input, got %#v", got)
	}
}
