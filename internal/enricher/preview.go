package enricher

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/runcard-dev/runcard/internal/completeness"
	"github.com/runcard-dev/runcard/internal/ui"
)

// BuildPreview renders the changed fields and the completeness
// progression into a lipgloss box.
func BuildPreview(initial, seeded, final completeness.Report, changes []Change) string {
	var sb strings.Builder

	sb.WriteString(ui.Bold.Render("Preview changes"))
	sb.WriteString("\n\n")

	if len(changes) > 0 {
		sb.WriteString(ui.Primary.Render("Card fields:"))
		sb.WriteString("\n")
		for _, c := range changes {
			sb.WriteString(fmt.Sprintf("  %s %s: %s\n",
				ui.Success.Render("✓"),
				ui.Secondary.Render(displayName(c.Key)),
				ui.Dim.Render(truncateValue(c.Value, 60))))
		}
		sb.WriteString("\n")
	}

	sb.WriteString(ui.Primary.Render("Completeness:"))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("  Initial:          %s\n", scoreStyle(initial.Overall)))
	if seeded.Overall != initial.Overall {
		sb.WriteString(fmt.Sprintf("  After Hub seed:   %s\n", scoreStyle(seeded.Overall)))
	}
	sb.WriteString(fmt.Sprintf("  After enrichment: %s (%d/%d fields, %d/%d sections)\n",
		scoreStyle(final.Overall),
		final.Passed, final.Total,
		final.Sections.Filled, final.Sections.Total))

	return ui.Box.Render(sb.String())
}

// confirmSave prints the preview and asks whether to keep the changes.
func (e *Enricher) confirmSave(initial, seeded, final completeness.Report, changes []Change) (bool, error) {
	fmt.Println(BuildPreview(initial, seeded, final, changes))

	var confirm bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Save changes?").
				Description("Write the enriched card back to disk.").
				Affirmative("Yes").
				Negative("No").
				Value(&confirm),
		),
	)
	if err := e.runForm(form); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, err
	}
	return confirm, nil
}

func scoreStyle(score float64) string {
	percentage := fmt.Sprintf("%.1f%%", score*100)
	if score >= 0.8 {
		return ui.Success.Render(percentage)
	}
	if score >= 0.5 {
		return ui.Warning.Render(percentage)
	}
	return ui.Error.Render(percentage)
}

func truncateValue(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
