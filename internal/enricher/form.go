package enricher

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/runcard-dev/runcard/internal/registry"
	"github.com/runcard-dev/runcard/internal/ui"
)

// prompt holds the display metadata for one enrichable field. The
// registry owns the semantics; what the form shows lives here.
type prompt struct {
	placeholder string
	textarea    bool
	multi       bool // comma-separated list
	suggestions []string
}

var prompts = map[registry.Key]prompt{
	registry.HeaderLanguage: {placeholder: "en, de", multi: true},
	registry.HeaderLicense: {
		placeholder: "apache-2.0",
		suggestions: []string{"apache-2.0", "mit", "cc-by-4.0", "cc-by-sa-4.0", "openrail", "bigscience-bloom-rail-1.0"},
	},
	registry.HeaderTags:     {placeholder: "text-classification, bert", multi: true},
	registry.HeaderDatasets: {placeholder: "glue", multi: true},
	registry.HeaderMetrics:  {placeholder: "accuracy, f1", multi: true},

	registry.SectionDescription:  {textarea: true},
	registry.SectionIntendedUses: {textarea: true},
	registry.SectionTrainingData: {textarea: true},
}

// buildForm assembles the huh form for the missing fields: an intro
// note, then one group per field writing into store.
func buildForm(missing []registry.FieldSpec, store map[registry.Key]*string) *huh.Form {
	groups := []*huh.Group{
		huh.NewGroup(
			huh.NewNote().
				Title("Card enrichment").
				Description("Fill in the missing fields.\nOptional fields can be left empty.").
				Next(true).
				NextLabel("Start"),
		),
	}
	for _, spec := range missing {
		groups = append(groups, huh.NewGroup(fieldInput(spec, store[spec.Key])))
	}
	return huh.NewForm(groups...)
}

func fieldInput(spec registry.FieldSpec, value *string) huh.Field {
	p := prompts[spec.Key]

	validate := func(s string) error {
		if spec.Required && strings.TrimSpace(s) == "" {
			return fmt.Errorf("this field is required")
		}
		return nil
	}

	if p.textarea {
		return huh.NewText().
			Title(fieldTitle(spec)).
			Description(fieldDescription(spec, p)).
			Placeholder(p.placeholder).
			Lines(5).
			CharLimit(2000).
			Value(value).
			Validate(validate)
	}

	input := huh.NewInput().
		Title(fieldTitle(spec)).
		Description(fieldDescription(spec, p)).
		Placeholder(p.placeholder).
		Value(value).
		Validate(validate)
	if len(p.suggestions) > 0 {
		input = input.Suggestions(p.suggestions)
	}
	return input
}

// fieldTitle labels the input with the section heading where one
// exists, the bare key name otherwise.
func fieldTitle(spec registry.FieldSpec) string {
	title := registry.Heading(spec.Key)
	if title == "" {
		title = displayName(spec.Key)
	}
	if spec.Required {
		title += ui.Error.Render(" [required]")
	}
	return title
}

func fieldDescription(spec registry.FieldSpec, p prompt) string {
	var parts []string
	if p.multi {
		parts = append(parts, "Comma-separated values")
	}
	if !spec.Required {
		parts = append(parts, "Leave empty to skip")
	}
	if len(parts) == 0 {
		return ""
	}
	return ui.Muted.Render(strings.Join(parts, " • "))
}

// displayName turns "card.header.license" into "License".
func displayName(key registry.Key) string {
	s := string(key)
	if i := strings.LastIndex(s, "."); i >= 0 {
		s = s[i+1:]
	}
	s = strings.ReplaceAll(s, "-", " ")
	if s == "" {
		return string(key)
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
