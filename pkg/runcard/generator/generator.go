// Package generator is the public API for building model cards from
// training-run state on disk. It loads run directories, applies the
// default inference rules for everything the caller did not override,
// and renders the finished card markdown. Writing the result is the
// caller's job.
package generator

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/runcard-dev/runcard/internal/card"
	"github.com/runcard-dev/runcard/internal/harness"
	"github.com/runcard-dev/runcard/internal/hyperparams"
	"github.com/runcard-dev/runcard/internal/scanner"
	"github.com/runcard-dev/runcard/internal/trainlog"
)

// Tags marking which harness family generated a card.
const (
	TagGeneratedFromTrainer = "generated_from_trainer"
	TagGeneratedFromKeras   = "generated_from_keras_callback"
)

// ProgressCallback is called during generation to report progress.
type ProgressCallback func(event ProgressEvent)

// ProgressEvent represents a progress update.
type ProgressEvent struct {
	Type      ProgressEventType
	RunDir    string
	ModelName string
	Message   string
	Index     int
	Total     int
	Error     error
}

// ProgressEventType identifies the type of progress event.
type ProgressEventType int

const (
	EventLoadStart ProgressEventType = iota
	EventLoadComplete
	EventSummaryComplete
	EventRenderComplete
	EventRunComplete
	EventError
)

// Options configures card generation. Override fields replace what would
// otherwise be inferred from the run state; empty values mean "infer".
type Options struct {
	// Source forces the harness family ("trainer" or "keras"). Empty
	// selects per run: keras when the run only carries a keras history.
	Source string

	ModelName     string
	Language      []string
	License       string
	Tags          []string
	Tasks         []string
	Dataset       []string
	DatasetTags   []string
	DatasetArgs   []string
	Metrics       []string
	FinetunedFrom string

	OnProgress ProgressCallback
}

// GeneratedCard pairs a run directory with the card built from it.
type GeneratedCard struct {
	RunDir   string
	Summary  *card.TrainingSummary
	Markdown string
}

// Build generates a card for each run directory. The first directory
// that fails to load or render fails the whole build.
func Build(runDirs []string, opts Options) ([]GeneratedCard, error) {
	progress := opts.OnProgress
	if progress == nil {
		progress = func(ProgressEvent) {}
	}

	results := make([]GeneratedCard, 0, len(runDirs))
	for i, dir := range runDirs {
		gc, err := buildOne(dir, opts, progress, i, len(runDirs))
		if err != nil {
			return nil, err
		}
		results = append(results, gc)
	}
	return results, nil
}

// BuildFromDiscoveries generates a card for each scanned run. A run that
// fails is reported through the progress callback and skipped, so one
// broken checkpoint does not sink a whole tree scan. The discovery's
// source kind applies unless opts.Source forces one.
func BuildFromDiscoveries(discoveries []scanner.Discovery, opts Options) ([]GeneratedCard, error) {
	progress := opts.OnProgress
	if progress == nil {
		progress = func(ProgressEvent) {}
	}

	results := make([]GeneratedCard, 0, len(discoveries))
	for i, d := range discoveries {
		o := opts
		if o.Source == "" {
			o.Source = string(d.Source)
		}
		gc, err := buildOne(d.Path, o, progress, i, len(discoveries))
		if err != nil {
			continue
		}
		results = append(results, gc)
	}
	return results, nil
}

func buildOne(dir string, opts Options, progress ProgressCallback, index, total int) (GeneratedCard, error) {
	progress(ProgressEvent{Type: EventLoadStart, RunDir: dir, Index: index, Total: total})

	run, err := harness.LoadRun(dir)
	if err != nil {
		err = fmt.Errorf("load run %s: %w", dir, err)
		progress(ProgressEvent{Type: EventError, RunDir: dir, Error: err})
		return GeneratedCard{}, err
	}
	progress(ProgressEvent{Type: EventLoadComplete, RunDir: dir})

	summary, err := FromRun(run, opts)
	if err != nil {
		err = fmt.Errorf("summarize run %s: %w", dir, err)
		progress(ProgressEvent{Type: EventError, RunDir: dir, Error: err})
		return GeneratedCard{}, err
	}
	progress(ProgressEvent{Type: EventSummaryComplete, RunDir: dir, ModelName: summary.ModelName()})

	markdown, err := summary.ToMarkdown(run.Env)
	if err != nil {
		err = fmt.Errorf("render card for %s: %w", dir, err)
		progress(ProgressEvent{Type: EventError, RunDir: dir, ModelName: summary.ModelName(), Error: err})
		return GeneratedCard{}, err
	}
	progress(ProgressEvent{Type: EventRenderComplete, RunDir: dir, ModelName: summary.ModelName()})

	gc := GeneratedCard{RunDir: dir, Summary: summary, Markdown: markdown}
	progress(ProgressEvent{Type: EventRunComplete, RunDir: dir, ModelName: summary.ModelName(), Index: index, Total: total})
	return gc, nil
}

// FromRun derives a training summary from loaded run state, applying the
// default inference rules for everything opts leaves empty: dataset tags
// from the dataset builder, finetuned-from from the model's origin, the
// task from the architecture class names, the model name from the output
// directory, and the harness family tag.
func FromRun(run *harness.Run, opts Options) (*card.TrainingSummary, error) {
	if run == nil {
		return nil, fmt.Errorf("run is nil")
	}
	source, err := resolveSource(opts.Source, run)
	if err != nil {
		return nil, err
	}

	p := card.Params{
		ModelName:     opts.ModelName,
		Language:      opts.Language,
		License:       opts.License,
		Tags:          append([]string(nil), opts.Tags...),
		Tasks:         opts.Tasks,
		Dataset:       opts.Dataset,
		DatasetTags:   opts.DatasetTags,
		DatasetArgs:   opts.DatasetArgs,
		MetricTags:    opts.Metrics,
		FinetunedFrom: opts.FinetunedFrom,
		Source:        source,
	}

	applyDatasetDefaults(&p, run.Dataset)

	if p.FinetunedFrom == "" && run.Model != nil {
		if origin := strings.TrimSpace(run.Model.NameOrPath); origin != "" && !isDir(origin) {
			p.FinetunedFrom = origin
		}
	}

	if len(p.Tasks) == 0 && run.Model != nil {
		if task := TaskFromArchitectures(run.Model.Architectures); task != "" {
			p.Tasks = []string{task}
		}
	}

	if p.ModelName == "" {
		p.ModelName = defaultModelName(run)
	}

	switch source {
	case card.SourceKeras:
		p.Tags = card.AppendTagIfMissing(p.Tags, TagGeneratedFromKeras)
		if run.Keras != nil {
			switch {
			case run.Keras.History != nil:
				_, p.EvalLines, p.EvalResults = trainlog.ParseKeras(*run.Keras.History)
			case run.Keras.Records != nil:
				_, p.EvalLines, p.EvalResults = trainlog.ParseKerasRecords(run.Keras.Records)
			}
		}
		p.Hyperparameters = hyperparams.FromKeras(run.KerasModel)
	default:
		p.Tags = card.AppendTagIfMissing(p.Tags, TagGeneratedFromTrainer)
		if run.State != nil {
			_, p.EvalLines, p.EvalResults = trainlog.ParseTrainer(run.State.LogHistory)
		}
		p.Hyperparameters = hyperparams.FromTrainer(run.Args)
	}

	return card.New(p)
}

// localDatasetBuilders are loader names for local files, not Hub
// datasets, so they never become dataset tags.
var localDatasetBuilders = map[string]struct{}{
	"csv":     {},
	"json":    {},
	"pandas":  {},
	"parquet": {},
	"text":    {},
}

func applyDatasetDefaults(p *card.Params, info *harness.DatasetInfo) {
	if info != nil && (p.DatasetTags == nil || p.DatasetArgs == nil) {
		builder := strings.TrimSpace(info.Builder)
		if _, local := localDatasetBuilders[builder]; builder != "" && !local {
			if p.DatasetTags == nil {
				p.DatasetTags = []string{builder}
			}
			if p.DatasetArgs == nil {
				p.DatasetArgs = []string{info.ConfigName}
			}
		}
	}
	if p.Dataset == nil && p.DatasetTags != nil {
		p.Dataset = p.DatasetTags
	}
}

func resolveSource(s string, run *harness.Run) (card.Source, error) {
	if s != "" {
		return card.ParseSource(s)
	}
	if run.HasKerasHistory() && !run.HasTrainerState() {
		return card.SourceKeras, nil
	}
	return card.SourceTrainer, nil
}

// defaultModelName prefers the training output directory's base name;
// the run directory itself is the fallback (when loading from disk they
// are usually the same place).
func defaultModelName(run *harness.Run) string {
	if run.Args != nil && run.Args.OutputDir != "" {
		return filepath.Base(run.Args.OutputDir)
	}
	if run.Dir != "" {
		if abs, err := filepath.Abs(run.Dir); err == nil {
			return filepath.Base(abs)
		}
		return filepath.Base(run.Dir)
	}
	return ""
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
