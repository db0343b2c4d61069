// Package completeness scores a parsed model card against the field
// registry.
//
// The card has two layers with different failure modes, so the score is
// split: header fields (front matter plus the title) are weighted
// earned/max like a checklist, while prose sections get their own
// filled-count with placeholder and missing headings reported by name.
package completeness

import (
	"github.com/runcard-dev/runcard/internal/cardfile"
	"github.com/runcard-dev/runcard/internal/registry"
)

type Report struct {
	CardName string

	// Weighted score across both layers, 0..1.
	Overall float64

	// Header fields (front matter + title).
	Score  float64 // 0..1
	Passed int
	Total  int

	MissingRequired []registry.Key
	MissingOptional []registry.Key

	// Prose sections.
	Sections SectionsReport
}

type SectionsReport struct {
	Score  float64 // 0..1
	Filled int
	Total  int

	// Headings that exist but still carry the generated placeholder.
	PlaceholderSections []string
	// Headings absent from the body entirely.
	MissingSections []string
}

func Check(f *cardfile.File) Report {
	var (
		earned, max float64
		passed      int
		total       int
		missingReq  []registry.Key
		missingOpt  []registry.Key
	)
	var (
		secEarned, secMax float64
		secFilled         int
		secTotal          int
		placeholder       []string
		missing           []string
	)

	for _, spec := range registry.Registry() {
		if spec.Weight <= 0 {
			continue
		}

		if heading := registry.Heading(spec.Key); heading != "" {
			secTotal++
			secMax += spec.Weight

			if spec.Present != nil && spec.Present(f) {
				secFilled++
				secEarned += spec.Weight
				continue
			}
			exists := false
			if f != nil {
				_, exists = f.Section(heading)
			}
			if exists {
				placeholder = append(placeholder, heading)
			} else {
				missing = append(missing, heading)
			}
			continue
		}

		total++
		max += spec.Weight

		ok := false
		if spec.Present != nil {
			ok = spec.Present(f)
		}

		if ok {
			passed++
			earned += spec.Weight
			continue
		}

		if spec.Required {
			missingReq = append(missingReq, spec.Key)
		} else {
			missingOpt = append(missingOpt, spec.Key)
		}
	}

	score := 0.0
	if max > 0 {
		score = earned / max
	}
	secScore := 0.0
	if secMax > 0 {
		secScore = secEarned / secMax
	}
	overall := 0.0
	if max+secMax > 0 {
		overall = (earned + secEarned) / (max + secMax)
	}

	name := ""
	if f != nil {
		name = f.Title()
	}

	return Report{
		CardName:        name,
		Overall:         overall,
		Score:           score,
		Passed:          passed,
		Total:           total,
		MissingRequired: missingReq,
		MissingOptional: missingOpt,
		Sections: SectionsReport{
			Score:               secScore,
			Filled:              secFilled,
			Total:               secTotal,
			PlaceholderSections: placeholder,
			MissingSections:     missing,
		},
	}
}
