// Package enricher fills the gaps in an existing model card.
//
// The field registry decides what is missing and how values are set;
// this package only drives the interaction: an optional Hub lookup
// seeds what it can, a huh form collects the rest from the user, and a
// preview box shows the completeness progression before the caller
// saves anything.
package enricher

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/runcard-dev/runcard/internal/apperr"
	"github.com/runcard-dev/runcard/internal/cardfile"
	"github.com/runcard-dev/runcard/internal/completeness"
	"github.com/runcard-dev/runcard/internal/hub"
	"github.com/runcard-dev/runcard/internal/registry"
)

// Config holds enrichment configuration.
type Config struct {
	RequiredOnly bool    // only prompt for required fields
	MinWeight    float64 // skip fields below this registry weight
	NoPreview    bool    // apply without the preview + confirm step

	FromHub    string // Hub model id whose metadata seeds missing fields
	HubToken   string
	HubTimeout time.Duration
}

// Change is one field the user filled in.
type Change struct {
	Key   registry.Key
	Value string
}

// Result reports what an enrichment run did to the card.
type Result struct {
	CardName string
	Changes  []Change

	// Completeness (0..1) before anything happened, after the Hub
	// seed, and after user input.
	InitialScore float64
	SeededScore  float64
	FinalScore   float64
}

// Enricher drives one enrichment run.
type Enricher struct {
	config Config

	// hubService and runForm are injection points for tests.
	hubService *hub.Service
	runForm    func(*huh.Form) error
}

// New creates an Enricher.
func New(cfg Config) *Enricher {
	return &Enricher{
		config:  cfg,
		runForm: func(form *huh.Form) error { return form.Run() },
	}
}

// SetHubService overrides the Hub lookup used for FromHub.
func (e *Enricher) SetHubService(s *hub.Service) { e.hubService = s }

// Enrich mutates f in place and reports what changed. The caller owns
// writing the card back to disk. apperr.ErrCancelled is returned when
// the user aborts the form or declines the preview.
func (e *Enricher) Enrich(f *cardfile.File) (*Result, error) {
	if f == nil {
		return nil, fmt.Errorf("card is nil")
	}

	name := cardName(f)
	res := &Result{CardName: name}

	initial := completeness.Check(f)
	res.InitialScore = initial.Overall
	logf(name, "enrich start score=%.1f%%", initial.Overall*100)

	seeded := initial
	if e.config.FromHub != "" {
		if err := e.applyHub(f, e.config.FromHub); err != nil {
			logf(name, "hub seed failed err=%v", err)
		} else {
			seeded = completeness.Check(f)
			logf(name, "hub seed ok score=%.1f%%", seeded.Overall*100)
		}
	}
	res.SeededScore = seeded.Overall

	missing := e.collectMissing(f)
	if len(missing) == 0 {
		logf(name, "nothing to enrich")
		res.FinalScore = seeded.Overall
		return res, nil
	}

	values, err := e.promptValues(missing)
	if err != nil {
		return nil, err
	}
	res.Changes = applyValues(f, missing, values)

	final := completeness.Check(f)
	res.FinalScore = final.Overall

	if !e.config.NoPreview && len(res.Changes) > 0 {
		ok, err := e.confirmSave(initial, seeded, final, res.Changes)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, apperr.ErrCancelled
		}
	}

	logf(name, "enrich ok (changes=%d score=%.1f%%)", len(res.Changes), final.Overall*100)
	return res, nil
}

// collectMissing gathers the user-fillable fields the card is still
// missing, in registry order. Fields without a SetUserValue are
// generated from run state and never prompted for.
func (e *Enricher) collectMissing(f *cardfile.File) []registry.FieldSpec {
	var fields []registry.FieldSpec
	for _, spec := range registry.Registry() {
		if spec.SetUserValue == nil {
			continue
		}
		if spec.Weight < e.config.MinWeight {
			continue
		}
		if e.config.RequiredOnly && !spec.Required {
			continue
		}
		if spec.Present != nil && spec.Present(f) {
			continue
		}
		fields = append(fields, spec)
	}
	return fields
}

// applyHub fetches the named model from the Hub and lets the registry
// fill whatever the card is missing.
func (e *Enricher) applyHub(f *cardfile.File, modelID string) error {
	svc := e.hubService
	if svc == nil {
		svc = hub.NewService(e.config.HubTimeout, e.config.HubToken)
	}
	info, err := svc.FetchCard(modelID)
	if err != nil {
		return err
	}

	src := registry.Source{Name: cardName(f), Hub: info}
	tgt := registry.Target{File: f}
	for _, spec := range registry.Registry() {
		if spec.Apply != nil {
			spec.Apply(src, tgt)
		}
	}
	return nil
}

// promptValues runs the form and returns the raw value per field.
func (e *Enricher) promptValues(missing []registry.FieldSpec) (map[registry.Key]string, error) {
	store := make(map[registry.Key]*string, len(missing))
	for _, spec := range missing {
		val := ""
		store[spec.Key] = &val
	}

	if err := e.runForm(buildForm(missing, store)); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return nil, apperr.ErrCancelled
		}
		return nil, err
	}

	values := make(map[registry.Key]string, len(missing))
	for key, ptr := range store {
		values[key] = strings.TrimSpace(*ptr)
	}
	return values, nil
}

// applyValues writes user values through the registry and returns the
// changes that stuck, in field order. A value the registry rejects is
// skipped with a log line rather than failing the whole run.
func applyValues(f *cardfile.File, missing []registry.FieldSpec, values map[registry.Key]string) []Change {
	var changes []Change
	tgt := registry.Target{File: f}
	for _, spec := range missing {
		value := values[spec.Key]
		if value == "" {
			continue
		}
		if err := spec.SetUserValue(value, tgt); err != nil {
			logf(cardName(f), "skipping %s err=%v", spec.Key, err)
			continue
		}
		logf(cardName(f), "set %s", spec.Key)
		changes = append(changes, Change{Key: spec.Key, Value: value})
	}
	return changes
}

func cardName(f *cardfile.File) string {
	if name := f.Title(); name != "" {
		return name
	}
	return f.Path
}
