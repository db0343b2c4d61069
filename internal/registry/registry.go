// Package registry is the single source of truth for the card fields
// runcard cares about.
//
// Each FieldSpec defines how a field contributes to completeness, how its
// presence is detected in a parsed card, how it can be filled from Hub
// metadata, and how user-provided values are set during enrichment. The
// check, validate and enrich commands all iterate this registry instead
// of hard-coding field lists.
package registry

import (
	"fmt"
	"strings"

	"github.com/runcard-dev/runcard/internal/card"
	"github.com/runcard-dev/runcard/internal/cardfile"
	"github.com/runcard-dev/runcard/internal/hub"
)

// Key identifies a card field (or pseudo-field) we want to populate/check.
type Key string

func (k Key) String() string { return string(k) }

const (
	// Front matter header keys
	HeaderLanguage   Key = "card.header.language"
	HeaderLicense    Key = "card.header.license"
	HeaderTags       Key = "card.header.tags"
	HeaderDatasets   Key = "card.header.datasets"
	HeaderMetrics    Key = "card.header.metrics"
	HeaderModelIndex Key = "card.header.model-index"

	// Body structure
	BodyTitle Key = "card.body.title"

	// Prose sections
	SectionDescription     Key = "card.section.model-description"
	SectionIntendedUses    Key = "card.section.intended-uses"
	SectionTrainingData    Key = "card.section.training-data"
	SectionProcedure       Key = "card.section.training-procedure"
	SectionHyperparameters Key = "card.section.training-hyperparameters"
	SectionResults         Key = "card.section.training-results"
	SectionVersions        Key = "card.section.framework-versions"
)

// Section headings as rendered in generated cards.
const (
	HeadingDescription     = "Model description"
	HeadingIntendedUses    = "Intended uses & limitations"
	HeadingTrainingData    = "Training and evaluation data"
	HeadingProcedure       = "Training procedure"
	HeadingHyperparameters = "Training hyperparameters"
	HeadingResults         = "Training results"
	HeadingVersions        = "Framework versions"
)

// Source is everything FieldSpecs can read from.
type Source struct {
	Name string        // run/card name, for logging only
	Hub  *hub.CardInfo // base model metadata fetched from the Hub
}

// Target is the card FieldSpecs are allowed to mutate.
type Target struct {
	File *cardfile.File
}

// FieldSpec is a first-class definition of a field:
// - how it contributes to completeness
// - how it is filled from Hub metadata when missing
// - how its presence is detected
// - how user-provided values are set
//
// A nil Apply means the field has no Hub source; a nil SetUserValue
// means the field is generated from training state and never set by
// hand.
type FieldSpec struct {
	Key      Key
	Weight   float64
	Required bool

	Apply        func(src Source, tgt Target)
	Present      func(f *cardfile.File) bool
	SetUserValue func(value string, tgt Target) error
}

// Registry returns all known FieldSpecs. It is the single source of
// truth for what fields the check, validate and enrich commands care
// about.
func Registry() []FieldSpec {
	specs := []FieldSpec{
		{
			Key:      BodyTitle,
			Weight:   1.0,
			Required: true,
			Present: func(f *cardfile.File) bool {
				ok := f != nil && f.Title() != ""
				logf(fileName(f), "present %s ok=%t", BodyTitle, ok)
				return ok
			},
		},
		{
			Key:      HeaderLanguage,
			Weight:   0.5,
			Required: false,
			Apply: func(src Source, tgt Target) {
				if tgt.File == nil || len(tgt.File.Meta.Language) > 0 {
					return
				}
				if src.Hub == nil || len(src.Hub.Language) == 0 {
					return
				}
				langs := normalizeStrings(src.Hub.Language)
				if len(langs) == 0 {
					return
				}
				tgt.File.Meta.Language = langs
				setHeaderKey(tgt.File, "language", langs)
				logf(src.Name, "apply %s set=%s", HeaderLanguage, summarizeValue(langs))
			},
			Present: func(f *cardfile.File) bool {
				ok := f != nil && len(f.Meta.Language) > 0
				logf(fileName(f), "present %s ok=%t", HeaderLanguage, ok)
				return ok
			},
			SetUserValue: func(value string, tgt Target) error {
				langs := splitList(value)
				if len(langs) == 0 {
					return fmt.Errorf("language value is empty")
				}
				tgt.File.Meta.Language = langs
				setHeaderKey(tgt.File, "language", langs)
				return nil
			},
		},
		{
			Key:      HeaderLicense,
			Weight:   1.0,
			Required: true,
			Apply: func(src Source, tgt Target) {
				if tgt.File == nil || tgt.File.Meta.License != "" {
					return
				}
				if src.Hub == nil {
					return
				}
				lic := strings.TrimSpace(src.Hub.License)
				if lic == "" {
					return
				}
				tgt.File.Meta.License = lic
				setHeaderKey(tgt.File, "license", lic)
				logf(src.Name, "apply %s set=%s", HeaderLicense, summarizeValue(lic))
			},
			Present: func(f *cardfile.File) bool {
				ok := f != nil && strings.TrimSpace(f.Meta.License) != ""
				logf(fileName(f), "present %s ok=%t", HeaderLicense, ok)
				return ok
			},
			SetUserValue: func(value string, tgt Target) error {
				lic := strings.TrimSpace(value)
				if lic == "" {
					return fmt.Errorf("license value is empty")
				}
				tgt.File.Meta.License = lic
				setHeaderKey(tgt.File, "license", lic)
				return nil
			},
		},
		{
			Key:      HeaderTags,
			Weight:   0.5,
			Required: false,
			Apply: func(src Source, tgt Target) {
				if tgt.File == nil || len(tgt.File.Meta.Tags) > 0 {
					return
				}
				if src.Hub == nil || len(src.Hub.Tags) == 0 {
					return
				}
				tags := normalizeStrings(src.Hub.Tags)
				if len(tags) == 0 {
					return
				}
				tgt.File.Meta.Tags = tags
				setHeaderKey(tgt.File, "tags", tags)
				logf(src.Name, "apply %s set=%s", HeaderTags, summarizeValue(tags))
			},
			Present: func(f *cardfile.File) bool {
				ok := f != nil && len(f.Meta.Tags) > 0
				logf(fileName(f), "present %s ok=%t", HeaderTags, ok)
				return ok
			},
			SetUserValue: func(value string, tgt Target) error {
				tags := splitList(value)
				if len(tags) == 0 {
					return fmt.Errorf("tags value is empty")
				}
				tgt.File.Meta.Tags = tags
				setHeaderKey(tgt.File, "tags", tags)
				return nil
			},
		},
		{
			Key:      HeaderDatasets,
			Weight:   0.5,
			Required: false,
			Apply: func(src Source, tgt Target) {
				if tgt.File == nil || len(tgt.File.Meta.Datasets) > 0 {
					return
				}
				if src.Hub == nil || len(src.Hub.Datasets) == 0 {
					return
				}
				ds := normalizeStrings(src.Hub.Datasets)
				if len(ds) == 0 {
					return
				}
				tgt.File.Meta.Datasets = ds
				setHeaderKey(tgt.File, "datasets", ds)
				logf(src.Name, "apply %s set=%s", HeaderDatasets, summarizeValue(ds))
			},
			Present: func(f *cardfile.File) bool {
				ok := f != nil && len(f.Meta.Datasets) > 0
				logf(fileName(f), "present %s ok=%t", HeaderDatasets, ok)
				return ok
			},
			SetUserValue: func(value string, tgt Target) error {
				ds := splitList(value)
				if len(ds) == 0 {
					return fmt.Errorf("datasets value is empty")
				}
				tgt.File.Meta.Datasets = ds
				setHeaderKey(tgt.File, "datasets", ds)
				return nil
			},
		},
		{
			Key:      HeaderMetrics,
			Weight:   0.5,
			Required: false,
			Present: func(f *cardfile.File) bool {
				ok := f != nil && len(f.Meta.Metrics) > 0
				logf(fileName(f), "present %s ok=%t", HeaderMetrics, ok)
				return ok
			},
			SetUserValue: func(value string, tgt Target) error {
				metrics := splitList(value)
				if len(metrics) == 0 {
					return fmt.Errorf("metrics value is empty")
				}
				tgt.File.Meta.Metrics = metrics
				setHeaderKey(tgt.File, "metrics", metrics)
				return nil
			},
		},
		{
			Key:      HeaderModelIndex,
			Weight:   1.0,
			Required: true,
			Present: func(f *cardfile.File) bool {
				ok := f != nil && len(f.Meta.ModelIndex) > 0
				logf(fileName(f), "present %s ok=%t", HeaderModelIndex, ok)
				return ok
			},
		},
	}

	specs = append(specs,
		sectionSpec(SectionDescription, HeadingDescription, 1.0, true, true),
		sectionSpec(SectionIntendedUses, HeadingIntendedUses, 1.0, false, true),
		sectionSpec(SectionTrainingData, HeadingTrainingData, 1.0, false, true),
		sectionSpec(SectionProcedure, HeadingProcedure, 1.0, true, false),
		sectionSpec(SectionHyperparameters, HeadingHyperparameters, 1.0, true, false),
		sectionSpec(SectionResults, HeadingResults, 0.5, false, false),
		sectionSpec(SectionVersions, HeadingVersions, 0.5, false, false),
	)

	return specs
}

// Lookup returns the spec for a key.
func Lookup(key Key) (FieldSpec, bool) {
	for _, spec := range Registry() {
		if spec.Key == key {
			return spec, true
		}
	}
	return FieldSpec{}, false
}

// Heading returns the rendered section heading for a section key,
// or "" for non-section keys.
func Heading(key Key) string {
	switch key {
	case SectionDescription:
		return HeadingDescription
	case SectionIntendedUses:
		return HeadingIntendedUses
	case SectionTrainingData:
		return HeadingTrainingData
	case SectionProcedure:
		return HeadingProcedure
	case SectionHyperparameters:
		return HeadingHyperparameters
	case SectionResults:
		return HeadingResults
	case SectionVersions:
		return HeadingVersions
	default:
		return ""
	}
}

// sectionSpec builds a FieldSpec for one prose section. A section counts
// as present when it exists and no longer carries the generated
// placeholder. Editable sections get a SetUserValue that patches the
// body in place.
func sectionSpec(key Key, heading string, weight float64, required, editable bool) FieldSpec {
	spec := FieldSpec{
		Key:      key,
		Weight:   weight,
		Required: required,
		Present: func(f *cardfile.File) bool {
			ok := false
			if f != nil {
				_, exists := f.Section(heading)
				ok = exists && !f.IsPlaceholder(heading)
			}
			logf(fileName(f), "present %s ok=%t", key, ok)
			return ok
		},
	}
	if editable {
		spec.SetUserValue = func(value string, tgt Target) error {
			content := strings.TrimSpace(value)
			if content == "" {
				return fmt.Errorf("section content is empty")
			}
			setSection(tgt.File, heading, content)
			return nil
		}
	}
	return spec
}

// canonicalHeaderOrder is the key order generated headers use; enriched
// keys slot into the same order instead of appending at the end.
var canonicalHeaderOrder = []string{"language", "license", "tags", "datasets", "metrics", "base_model", "model-index"}

func setHeaderKey(f *cardfile.File, name string, value any) {
	if f.Header == nil {
		f.Header = card.NewFields()
	}
	f.Header.Set(name, value)
	f.Header = CanonicalizeHeader(f.Header)
}

// CanonicalizeHeader returns a copy of the header mapping with the known
// keys first, in generation order, and everything else after them in the
// order they appeared.
func CanonicalizeHeader(h *card.Fields) *card.Fields {
	out := card.NewFields()
	for _, name := range canonicalHeaderOrder {
		if v, ok := h.Get(name); ok {
			out.Set(name, v)
		}
	}
	for _, name := range h.Names() {
		if !out.Has(name) {
			v, _ := h.Get(name)
			out.Set(name, v)
		}
	}
	return out
}

// setSection replaces the section content, appending the section at the
// end of the body when the heading does not exist yet.
func setSection(f *cardfile.File, heading, content string) {
	if body, ok := cardfile.ReplaceSection(f.Body, heading, content); ok {
		f.Body = body
		return
	}
	body := strings.TrimRight(f.Body, "\n")
	f.Body = body + "\n\n## " + heading + "\n\n" + strings.TrimSpace(content) + "\n"
}

func fileName(f *cardfile.File) string {
	if f == nil {
		return ""
	}
	return f.Title()
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	return normalizeStrings(parts)
}

func normalizeStrings(in []string) []string {
	out := make([]string, 0, len(in))
	seen := map[string]struct{}{}
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
