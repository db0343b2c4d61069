// Package validator checks a parsed model card for structural problems:
// missing front matter or title, malformed model-index entries,
// non-numeric metric values and leftover generation placeholders.
//
// Minimal validation reports only hard defects as errors. Strict mode
// escalates every warning to an error and additionally enforces required
// fields and a completeness threshold.
package validator

import (
	"fmt"
	"strings"

	"github.com/runcard-dev/runcard/internal/card"
	"github.com/runcard-dev/runcard/internal/cardfile"
	"github.com/runcard-dev/runcard/internal/completeness"
	"github.com/runcard-dev/runcard/internal/registry"
)

// ValidationOptions controls how picky Validate is.
type ValidationOptions struct {
	// Strict escalates warnings to errors and enforces required fields.
	Strict bool

	// MinCompletenessScore fails strict validation when the weighted
	// completeness score falls below it. Zero disables the threshold.
	MinCompletenessScore float64
}

// ValidationResult collects everything Validate found.
type ValidationResult struct {
	CardName string
	Valid    bool
	Errors   []string
	Warnings []string

	CompletenessScore float64
	MissingRequired   []registry.Key
	MissingOptional   []registry.Key

	// SectionResults maps each registry section heading to its outcome.
	SectionResults map[string]SectionResult
}

// SectionResult is the validation outcome for one prose section.
type SectionResult struct {
	Section     string
	Present     bool
	Placeholder bool
	Errors      []string
	Warnings    []string
}

// Validate checks the parsed card against the structural rules and the
// field registry. Valid is true when no errors were collected.
func Validate(f *cardfile.File, opts ValidationOptions) ValidationResult {
	res := ValidationResult{SectionResults: map[string]SectionResult{}}

	if f == nil {
		res.Errors = append(res.Errors, "card is nil")
		return res
	}

	res.CardName = f.Title()

	errorf := func(format string, args ...any) {
		res.Errors = append(res.Errors, fmt.Sprintf(format, args...))
	}
	warnf := func(format string, args ...any) {
		msg := fmt.Sprintf(format, args...)
		if opts.Strict {
			res.Errors = append(res.Errors, msg)
		} else {
			res.Warnings = append(res.Warnings, msg)
		}
	}

	if f.Header == nil {
		errorf("card missing front matter")
	}
	if res.CardName == "" {
		errorf("card missing title heading")
	}

	validateModelIndex(f, errorf, warnf)
	validateSections(f, &res, opts.Strict)

	if strings.Contains(f.Body, strings.TrimSpace(card.AutogeneratedTrainerComment)) ||
		strings.Contains(f.Body, strings.TrimSpace(card.AutogeneratedKerasComment)) {
		warnf("card still carries the auto-generation comment; proofread and remove it")
	}

	comp := completeness.Check(f)
	res.CompletenessScore = comp.Overall
	res.MissingRequired = comp.MissingRequired
	res.MissingOptional = comp.MissingOptional

	if opts.Strict {
		for _, key := range comp.MissingRequired {
			errorf("required field missing: %s", key)
		}
		if opts.MinCompletenessScore > 0 && comp.Overall < opts.MinCompletenessScore {
			errorf("completeness score %.2f below minimum %.2f", comp.Overall, opts.MinCompletenessScore)
		}
	}

	res.Valid = len(res.Errors) == 0
	return res
}

// validateModelIndex checks the model-index entries in the front matter.
// An entry without a name breaks hub indexing and is always an error; an
// incomplete result or a non-numeric metric value only degrades it and
// starts out as a warning.
func validateModelIndex(f *cardfile.File, errorf, warnf func(string, ...any)) {
	if f.Header == nil {
		return
	}
	entries := f.Meta.ModelIndex
	if len(entries) == 0 {
		warnf("model-index not present")
		return
	}
	for i, entry := range entries {
		if entry.Name == "" {
			errorf("model-index[%d]: name is required", i)
		}
		for j, result := range entry.Results {
			if result.Task == nil || result.Dataset == nil || len(result.Metrics) == 0 {
				warnf("model-index[%d].results[%d]: not all of task, dataset and metrics are present", i, j)
			}
			for k, m := range result.Metrics {
				if m.Name == "" || m.Type == "" {
					warnf("model-index[%d].results[%d].metrics[%d]: name and type are required", i, j, k)
				}
				if !isNumeric(m.Value) {
					warnf("model-index[%d].results[%d]: metric %q value is not numeric", i, j, m.Name)
				}
			}
		}
	}
}

// validateSections walks the registry's prose sections and records a
// per-section outcome. A missing required section and a section still
// carrying the placeholder text both surface as findings.
func validateSections(f *cardfile.File, res *ValidationResult, strict bool) {
	for _, spec := range registry.Registry() {
		heading := registry.Heading(spec.Key)
		if heading == "" {
			continue
		}

		sr := SectionResult{Section: heading}
		_, sr.Present = f.Section(heading)
		sr.Placeholder = sr.Present && f.IsPlaceholder(heading)

		var msg string
		switch {
		case !sr.Present && spec.Required:
			msg = fmt.Sprintf("required section missing: %s", heading)
		case sr.Placeholder:
			msg = fmt.Sprintf("section %q still reads %q", heading, card.MoreInfoNeeded)
		}
		if msg != "" {
			if strict {
				sr.Errors = append(sr.Errors, msg)
				res.Errors = append(res.Errors, msg)
			} else {
				sr.Warnings = append(sr.Warnings, msg)
				res.Warnings = append(res.Warnings, msg)
			}
		}

		res.SectionResults[heading] = sr
	}
}

func isNumeric(v any) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return true
	default:
		return false
	}
}
