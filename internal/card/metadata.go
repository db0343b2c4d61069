package card

// Metadata is the card's YAML header. Field order here is serialization
// order; keys with empty values are left out entirely.
//
// License is never filled in by CreateMetadata (generated headers match what
// harnesses have historically emitted); it exists so enrichment of an
// existing card can carry one through.
type Metadata struct {
	Language   []string     `yaml:"language,omitempty"`
	License    string       `yaml:"license,omitempty"`
	Tags       []string     `yaml:"tags,omitempty"`
	Datasets   []string     `yaml:"datasets,omitempty"`
	Metrics    []string     `yaml:"metrics,omitempty"`
	ModelIndex []IndexEntry `yaml:"model-index,omitempty"`
}

// IsEmpty reports whether no key would be serialized.
func (m Metadata) IsEmpty() bool {
	return len(m.Language) == 0 &&
		m.License == "" &&
		len(m.Tags) == 0 &&
		len(m.Datasets) == 0 &&
		len(m.Metrics) == 0 &&
		len(m.ModelIndex) == 0
}

// CreateMetadata assembles the YAML header for the summary. Keys are filled
// in a fixed order (language, tags, datasets, metrics, model-index) and only
// when non-empty; the model index is always present. Explicit metric tags
// are appended after the inferred ones.
func (s *TrainingSummary) CreateMetadata() Metadata {
	metricMapping := InferMetricTags(s.evalResults)

	metrics := metricMapping.Names()
	for _, tag := range s.metricTags {
		metrics = AppendTagIfMissing(metrics, tag)
	}

	var m Metadata
	m.Language = nonEmpty(s.language)
	m.Tags = nonEmpty(s.tags)
	m.Datasets = nonEmpty(s.datasetTags)
	m.Metrics = nonEmpty(metrics)
	m.ModelIndex = s.createModelIndex(metricMapping)
	return m
}

// nonEmpty drops empty strings and returns nil when nothing remains, so the
// key is skipped by omitempty.
func nonEmpty(values []string) []string {
	var out []string
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
