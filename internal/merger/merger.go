// Package merger refreshes an existing model card from a freshly
// generated one without losing hand-written prose.
//
// The fresh card defines the generated parts: the header, the preamble
// (title, provenance sentence, evaluation results) and the training
// sections. User-editable sections keep their existing content unless
// they still carry the generation placeholder; sections the registry
// does not know about are left untouched.
package merger

import (
	"fmt"
	"strings"

	"github.com/runcard-dev/runcard/internal/card"
	"github.com/runcard-dev/runcard/internal/cardfile"
	"github.com/runcard-dev/runcard/internal/registry"
)

// UpdateResult describes what Merge changed.
type UpdateResult struct {
	// UpdatedSections lists the level-2 headings that were replaced or
	// appended from the fresh card.
	UpdatedSections []string

	// PreservedSections lists the editable headings whose hand-written
	// content was kept.
	PreservedSections []string

	// HeaderChanged reports whether the merged front matter differs
	// from the existing one.
	HeaderChanged bool
}

// Merge combines an existing card with a freshly generated one. The
// returned file carries the existing card's path and a body where the
// generated sections come from fresh and the edited prose from existing.
func Merge(existing, fresh *cardfile.File) (*cardfile.File, *UpdateResult, error) {
	if existing == nil {
		return nil, nil, fmt.Errorf("existing card is nil")
	}
	if fresh == nil {
		return nil, nil, fmt.Errorf("fresh card is nil")
	}

	result := &UpdateResult{}

	header := mergeHeader(existing.Header, fresh.Header)
	changed, err := headerChanged(existing.Header, header)
	if err != nil {
		return nil, nil, fmt.Errorf("compare headers: %w", err)
	}
	result.HeaderChanged = changed
	if changed {
		logf(existing, "header refreshed")
	}

	body := mergeBody(existing, fresh, result)

	text := body
	if header != nil && header.Len() > 0 {
		rendered, err := cardfile.RenderHeader(header)
		if err != nil {
			return nil, nil, fmt.Errorf("render header: %w", err)
		}
		text = rendered + body
	}

	// Re-parse so Header, Meta and Body are consistent views of the
	// merged text.
	merged, err := cardfile.Parse(text)
	if err != nil {
		return nil, nil, fmt.Errorf("merged card: %w", err)
	}
	merged.Path = existing.Path
	return merged, result, nil
}

// mergeHeader regenerates the front matter: keys the fresh card produces
// win, keys only the existing card has (license, user additions) are
// carried over, and the result uses the canonical key order.
func mergeHeader(existing, fresh *card.Fields) *card.Fields {
	if fresh == nil && existing == nil {
		return nil
	}
	merged := card.NewFields()
	for _, name := range fresh.Names() {
		v, _ := fresh.Get(name)
		merged.Set(name, v)
	}
	for _, name := range existing.Names() {
		if merged.Has(name) {
			continue
		}
		v, _ := existing.Get(name)
		merged.Set(name, v)
	}
	return registry.CanonicalizeHeader(merged)
}

func headerChanged(existing, merged *card.Fields) (bool, error) {
	if existing == nil && merged == nil {
		return false, nil
	}
	if existing == nil || merged == nil {
		return true, nil
	}
	before, err := cardfile.RenderHeader(existing)
	if err != nil {
		return false, err
	}
	after, err := cardfile.RenderHeader(merged)
	if err != nil {
		return false, err
	}
	return before != after, nil
}

// mergeBody splices the fresh preamble onto the existing sections, then
// walks the fresh level-2 sections deciding replace, append or keep.
func mergeBody(existing, fresh *cardfile.File, result *UpdateResult) string {
	preamble := freshPreamble(existing.Body, fresh.Body)
	_, rest := splitPreamble(existing.Body)

	for _, sec := range fresh.Sections() {
		heading := sec.Heading

		if _, ok := existing.Section(heading); !ok {
			rest = strings.TrimRight(rest, "\n") + "\n\n## " + heading + "\n\n" + strings.TrimSpace(sec.Content) + "\n"
			result.UpdatedSections = append(result.UpdatedSections, heading)
			logf(existing, "section %q appended", heading)
			continue
		}

		if editableSection(heading) && !existing.IsPlaceholder(heading) {
			result.PreservedSections = append(result.PreservedSections, heading)
			logf(existing, "section %q preserved", heading)
			continue
		}

		rest, _ = cardfile.ReplaceSection(rest, heading, sec.Content)
		result.UpdatedSections = append(result.UpdatedSections, heading)
		logf(existing, "section %q refreshed", heading)
	}

	return preamble + rest
}

// freshPreamble returns the generated preamble, dropping the
// auto-generation comment again when the existing card no longer has it:
// a proofread card must not get the notice back on update.
func freshPreamble(existingBody, freshBody string) string {
	pre, _ := splitPreamble(freshBody)
	if hasAutogeneratedComment(existingBody) {
		return pre
	}
	pre = strings.Replace(pre, card.AutogeneratedTrainerComment, "", 1)
	pre = strings.Replace(pre, card.AutogeneratedKerasComment, "", 1)
	return pre
}

func hasAutogeneratedComment(body string) bool {
	return strings.Contains(body, strings.TrimSpace(card.AutogeneratedTrainerComment)) ||
		strings.Contains(body, strings.TrimSpace(card.AutogeneratedKerasComment))
}

// splitPreamble cuts the body at the first level-2 heading.
func splitPreamble(body string) (preamble, rest string) {
	offset := 0
	for _, line := range strings.SplitAfter(body, "\n") {
		if strings.HasPrefix(line, "## ") {
			return body[:offset], body[offset:]
		}
		offset += len(line)
	}
	return body, ""
}

// editableSection reports whether the registry treats the heading as
// user territory (enrichable prose rather than generated content).
func editableSection(heading string) bool {
	for _, spec := range registry.Registry() {
		if registry.Heading(spec.Key) == heading {
			return spec.SetUserValue != nil
		}
	}
	return false
}
