package card

import (
	"fmt"
)

// Source identifies which training harness produced the run state the
// summary was built from. It drives strategy selection in parsing and
// rendering; nothing is inferred from the shape of the data.
type Source int

const (
	SourceTrainer Source = iota
	SourceKeras
)

func (s Source) String() string {
	switch s {
	case SourceTrainer:
		return "trainer"
	case SourceKeras:
		return "keras"
	default:
		return fmt.Sprintf("source(%d)", int(s))
	}
}

// ParseSource converts a user-supplied source name to a Source.
func ParseSource(s string) (Source, error) {
	switch s {
	case "trainer":
		return SourceTrainer, nil
	case "keras":
		return SourceKeras, nil
	default:
		return SourceTrainer, fmt.Errorf("unknown source %q (expected trainer|keras)", s)
	}
}

// Params collects everything a TrainingSummary is built from. Slices and
// Fields are captured as given; Dataset nil means "unknown dataset" while an
// empty slice means "known but unnamed" (callers normally pass nil).
type Params struct {
	ModelName       string
	Language        []string
	License         string
	Tags            []string
	FinetunedFrom   string
	Tasks           []string
	Dataset         []string
	DatasetTags     []string
	DatasetArgs     []string
	MetricTags      []string
	EvalResults     *Fields
	EvalLines       []*Fields
	Hyperparameters *Fields
	Source          Source
}

// TrainingSummary is an immutable record of one training run, sufficient to
// render a model card. Build one with New; there are no setters.
type TrainingSummary struct {
	modelName       string
	language        []string
	license         string
	tags            []string
	finetunedFrom   string
	tasks           []string
	dataset         []string
	datasetTags     []string
	datasetArgs     []string
	metricTags      []string
	evalResults     *Fields
	evalLines       []*Fields
	hyperparameters *Fields
	source          Source
}

// New validates p and constructs the summary.
func New(p Params) (*TrainingSummary, error) {
	if p.ModelName == "" {
		return nil, fmt.Errorf("model name is required")
	}
	switch p.Source {
	case SourceTrainer, SourceKeras:
	default:
		return nil, fmt.Errorf("unknown source %d", int(p.Source))
	}
	return &TrainingSummary{
		modelName:       p.ModelName,
		language:        cloneStrings(p.Language),
		license:         p.License,
		tags:            cloneStrings(p.Tags),
		finetunedFrom:   p.FinetunedFrom,
		tasks:           cloneStrings(p.Tasks),
		dataset:         cloneStrings(p.Dataset),
		datasetTags:     cloneStrings(p.DatasetTags),
		datasetArgs:     cloneStrings(p.DatasetArgs),
		metricTags:      cloneStrings(p.MetricTags),
		evalResults:     p.EvalResults,
		evalLines:       p.EvalLines,
		hyperparameters: p.Hyperparameters,
		source:          p.Source,
	}, nil
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func (s *TrainingSummary) ModelName() string     { return s.modelName }
func (s *TrainingSummary) Language() []string    { return cloneStrings(s.language) }
func (s *TrainingSummary) License() string       { return s.license }
func (s *TrainingSummary) Tags() []string        { return cloneStrings(s.tags) }
func (s *TrainingSummary) FinetunedFrom() string { return s.finetunedFrom }
func (s *TrainingSummary) Tasks() []string       { return cloneStrings(s.tasks) }
func (s *TrainingSummary) Dataset() []string     { return cloneStrings(s.dataset) }
func (s *TrainingSummary) DatasetTags() []string { return cloneStrings(s.datasetTags) }
func (s *TrainingSummary) DatasetArgs() []string { return cloneStrings(s.datasetArgs) }
func (s *TrainingSummary) MetricTags() []string  { return cloneStrings(s.metricTags) }
func (s *TrainingSummary) EvalResults() *Fields  { return s.evalResults }
func (s *TrainingSummary) EvalLines() []*Fields  { return s.evalLines }
func (s *TrainingSummary) Source() Source        { return s.source }

// Hyperparameters returns the ordered hyperparameter set, or nil when the
// run state carried none.
func (s *TrainingSummary) Hyperparameters() *Fields { return s.hyperparameters }
