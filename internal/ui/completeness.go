package ui

import (
	"fmt"
	"io"
	"strings"

	"charm.land/lipgloss/v2"
)

// CompletenessReport mirrors the structure from internal/completeness
// to avoid circular imports
type CompletenessReport struct {
	CardName        string
	Score           float64
	Passed          int
	Total           int
	MissingRequired []FieldKey
	MissingOptional []FieldKey
	Sections        *SectionsReport
}

// SectionsReport mirrors the card body section scoring
type SectionsReport struct {
	Score               float64
	Filled              int
	Total               int
	PlaceholderSections []string
	MissingSections     []string
}

// FieldKey represents a field identifier
type FieldKey interface {
	String() string
}

// CompletenessUI provides a rich UI for the check command
type CompletenessUI struct {
	writer io.Writer
	quiet  bool
}

// NewCompletenessUI creates a new UI handler for the check command
func NewCompletenessUI(w io.Writer, quiet bool) *CompletenessUI {
	return &CompletenessUI{
		writer: w,
		quiet:  quiet,
	}
}

// PrintReport renders a beautiful completeness report
func (c *CompletenessUI) PrintReport(report CompletenessReport) {
	if c.quiet {
		return
	}

	var output strings.Builder

	// Header
	output.WriteString(Success.Bold(true).Render("Model Card Completeness Report"))
	output.WriteString("\n\n")

	// Header fields score section
	output.WriteString(c.renderHeaderScore(report))
	output.WriteString("\n\n")

	// Missing Fields Section
	if len(report.MissingRequired) > 0 || len(report.MissingOptional) > 0 {
		output.WriteString(c.renderMissingFields(report))
		output.WriteString("\n\n")
	}

	// Body sections score
	if report.Sections != nil {
		output.WriteString(c.renderSectionScores(report.Sections))
		output.WriteString("\n")
	}

	// Wrap in box
	boxed := SuccessBox.Render(output.String())
	fmt.Fprintln(c.writer, boxed)
}

// renderHeaderScore creates the card header score visualization with progress bar
func (c *CompletenessUI) renderHeaderScore(report CompletenessReport) string {
	var sb strings.Builder

	sb.WriteString(SectionHeader.Render("Card Header"))
	sb.WriteString("\n")

	// Show card name if available
	if report.CardName != "" {
		sb.WriteString(FormatKeyValue("Name", Highlight.Render(report.CardName)))
		sb.WriteString("\n")
	}

	sb.WriteString(FormatKeyValue("Score", c.renderProgressBar(report.Score, 40)+" "+c.renderScorePercentage(report.Score)))
	sb.WriteString("\n")
	sb.WriteString(Dim.Render(fmt.Sprintf("(%d/%d fields present)", report.Passed, report.Total)))

	return sb.String()
}

// renderMissingFields creates the missing fields section with expandable groups
func (c *CompletenessUI) renderMissingFields(report CompletenessReport) string {
	var sb strings.Builder

	// Required Fields
	if len(report.MissingRequired) > 0 {
		sb.WriteString(Error.Render(fmt.Sprintf("▼ Required Fields (%d missing)", len(report.MissingRequired))))
		sb.WriteString("\n")
		for _, field := range report.MissingRequired {
			sb.WriteString("  ")
			sb.WriteString(GetCrossMark())
			sb.WriteString(" ")
			sb.WriteString(field.String())
			sb.WriteString("\n")
		}
	}

	// Optional Fields
	if len(report.MissingOptional) > 0 {
		if len(report.MissingRequired) > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(Warning.Render(fmt.Sprintf("▼ Optional Fields (%d missing)", len(report.MissingOptional))))
		sb.WriteString("\n")
		for _, field := range report.MissingOptional {
			sb.WriteString("  ")
			sb.WriteString(GetWarnMark())
			sb.WriteString(" ")
			sb.WriteString(Dim.Render(field.String()))
			sb.WriteString("\n")
		}
	}

	return strings.TrimRight(sb.String(), "\n")
}

// renderSectionScores creates the card body section
func (c *CompletenessUI) renderSectionScores(sections *SectionsReport) string {
	var sb strings.Builder

	sb.WriteString(SectionHeader.Render("Card Body"))
	sb.WriteString("\n")

	sb.WriteString(FormatKeyValue("Score", c.renderProgressBar(sections.Score, 40)+" "+c.renderScorePercentage(sections.Score)))
	sb.WriteString("\n")
	sb.WriteString(Dim.Render(fmt.Sprintf("(%d/%d sections filled)", sections.Filled, sections.Total)))
	sb.WriteString("\n")

	if len(sections.PlaceholderSections) > 0 {
		sb.WriteString("\n")
		sb.WriteString(Warning.Render(fmt.Sprintf("▼ Placeholder Sections (%d)", len(sections.PlaceholderSections))))
		sb.WriteString("\n")
		for _, name := range sections.PlaceholderSections {
			sb.WriteString("  ")
			sb.WriteString(GetWarnMark())
			sb.WriteString(" ")
			sb.WriteString(Dim.Render(name))
			sb.WriteString("\n")
		}
	}

	if len(sections.MissingSections) > 0 {
		sb.WriteString("\n")
		sb.WriteString(Error.Render(fmt.Sprintf("▼ Missing Sections (%d)", len(sections.MissingSections))))
		sb.WriteString("\n")
		for _, name := range sections.MissingSections {
			sb.WriteString("  ")
			sb.WriteString(GetCrossMark())
			sb.WriteString(" ")
			sb.WriteString(name)
			sb.WriteString("\n")
		}
	}

	return strings.TrimRight(sb.String(), "\n")
}

// renderProgressBar creates a visual progress bar
func (c *CompletenessUI) renderProgressBar(score float64, width int) string {
	filled := int(score * float64(width))
	empty := width - filled

	bar := strings.Repeat("█", filled) + strings.Repeat("░", empty)

	// Color the bar based on score
	var style lipgloss.Style
	if score >= 0.8 {
		style = lipgloss.NewStyle().Foreground(ColorSuccess)
	} else if score >= 0.5 {
		style = lipgloss.NewStyle().Foreground(ColorWarning)
	} else {
		style = lipgloss.NewStyle().Foreground(ColorError)
	}

	return style.Render(bar)
}

// renderScorePercentage formats the score as a percentage
func (c *CompletenessUI) renderScorePercentage(score float64) string {
	percentage := score * 100
	formatted := fmt.Sprintf("%.1f%%", percentage)

	if score >= 0.8 {
		return Success.Render(formatted)
	} else if score >= 0.5 {
		return Warning.Render(formatted)
	}
	return Error.Render(formatted)
}

// formatFieldKeys formats field keys as a comma-separated string
func (c *CompletenessUI) formatFieldKeys(keys []FieldKey) string {
	if len(keys) == 0 {
		return ""
	}
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = k.String()
	}
	return strings.Join(names, ", ")
}

// PrintSimpleReport prints a minimal text report (fallback for quiet mode or issues)
func (c *CompletenessUI) PrintSimpleReport(report CompletenessReport) {
	fmt.Fprintf(c.writer, "Header score: %.1f%% (%d/%d)\n", report.Score*100, report.Passed, report.Total)

	if len(report.MissingRequired) > 0 {
		fmt.Fprintf(c.writer, "Missing required: %s\n", c.formatFieldKeys(report.MissingRequired))
	}
	if len(report.MissingOptional) > 0 {
		fmt.Fprintf(c.writer, "Missing optional: %s\n", c.formatFieldKeys(report.MissingOptional))
	}

	if report.Sections != nil {
		fmt.Fprintf(c.writer, "Body score: %.1f%% (%d/%d sections)\n",
			report.Sections.Score*100, report.Sections.Filled, report.Sections.Total)
	}
}
