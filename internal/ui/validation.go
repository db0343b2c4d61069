package ui

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// ValidationReport mirrors the structure from internal/validator
// to avoid circular imports
type ValidationReport struct {
	CardName          string
	Valid             bool
	Errors            []string
	Warnings          []string
	CompletenessScore float64
	MissingRequired   []FieldKey
	MissingOptional   []FieldKey
	SectionResults    map[string]SectionValidationResult
}

// SectionValidationResult mirrors the per-section validation result
type SectionValidationResult struct {
	Section     string
	Present     bool
	Placeholder bool
	Errors      []string
	Warnings    []string
}

// ValidationUI provides a rich UI for the validation command
type ValidationUI struct {
	writer io.Writer
	quiet  bool
}

// NewValidationUI creates a new UI handler for the validation command
func NewValidationUI(w io.Writer, quiet bool) *ValidationUI {
	return &ValidationUI{
		writer: w,
		quiet:  quiet,
	}
}

// PrintReport renders a beautiful validation report
func (v *ValidationUI) PrintReport(report ValidationReport) {
	if v.quiet {
		return
	}

	var output strings.Builder

	// Header with validation status
	if report.Valid {
		output.WriteString(Success.Bold(true).Render("✓ Validation Passed"))
	} else {
		output.WriteString(Error.Bold(true).Render("✗ Validation Failed"))
	}
	output.WriteString("\n\n")

	// Card header section
	output.WriteString(v.renderCardValidation(report))

	// Errors Section
	if len(report.Errors) > 0 {
		output.WriteString("\n\n")
		output.WriteString(v.renderErrors(report.Errors))
	}

	// Warnings Section
	if len(report.Warnings) > 0 {
		output.WriteString("\n\n")
		output.WriteString(v.renderWarnings(report.Warnings))
	}

	// Section results
	if len(report.SectionResults) > 0 {
		output.WriteString("\n\n")
		output.WriteString(v.renderSectionValidation(report.SectionResults))
	}

	// Wrap in appropriate box based on validation status
	var boxed string
	if report.Valid {
		boxed = SuccessBox.Render(output.String())
	} else {
		boxed = ErrorBox.Render(output.String())
	}
	fmt.Fprintln(v.writer, boxed)
}

// renderCardValidation creates the card header validation section
func (v *ValidationUI) renderCardValidation(report ValidationReport) string {
	var sb strings.Builder

	sb.WriteString(SectionHeader.Render("Model Card"))
	sb.WriteString("\n")

	// Show card name if available
	if report.CardName != "" {
		sb.WriteString(FormatKeyValue("Name", Highlight.Render(report.CardName)))
		sb.WriteString("\n")
	}

	// Completeness score
	scoreBar := v.renderProgressBar(report.CompletenessScore, 40)
	scorePercent := v.renderScorePercentage(report.CompletenessScore)
	sb.WriteString(FormatKeyValue("Completeness", scoreBar+" "+scorePercent))
	sb.WriteString("\n")

	// Missing fields summary
	totalMissing := len(report.MissingRequired) + len(report.MissingOptional)
	if totalMissing > 0 {
		sb.WriteString(Dim.Render(fmt.Sprintf("(%d required, %d optional missing)", len(report.MissingRequired), len(report.MissingOptional))))
	} else {
		sb.WriteString(Dim.Render("(all fields present)"))
	}

	return sb.String()
}

// renderErrors creates the errors section
func (v *ValidationUI) renderErrors(errors []string) string {
	var sb strings.Builder

	sb.WriteString(Error.Render(fmt.Sprintf("▼ Errors (%d)", len(errors))))
	sb.WriteString("\n")
	for _, err := range errors {
		sb.WriteString("  ")
		sb.WriteString(GetCrossMark())
		sb.WriteString(" ")
		sb.WriteString(err)
		sb.WriteString("\n")
	}

	return strings.TrimRight(sb.String(), "\n")
}

// renderWarnings creates the warnings section
func (v *ValidationUI) renderWarnings(warnings []string) string {
	var sb strings.Builder

	sb.WriteString(Warning.Render(fmt.Sprintf("▼ Warnings (%d)", len(warnings))))
	sb.WriteString("\n")
	for _, warn := range warnings {
		sb.WriteString("  ")
		sb.WriteString(GetWarnMark())
		sb.WriteString(" ")
		sb.WriteString(Dim.Render(warn))
		sb.WriteString("\n")
	}

	return strings.TrimRight(sb.String(), "\n")
}

// renderSectionValidation creates the card sections breakdown
func (v *ValidationUI) renderSectionValidation(sections map[string]SectionValidationResult) string {
	var sb strings.Builder

	sb.WriteString(SectionHeader.Render("Card Sections"))
	sb.WriteString("\n")

	// Stable output order for the map
	names := make([]string, 0, len(sections))
	for name := range sections {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		result := sections[name]

		sb.WriteString(FormatKeyValue("Section", Highlight.Render(name)))
		sb.WriteString("\n")
		sb.WriteString(FormatKeyValue("Status", v.renderSectionStatus(result)))
		sb.WriteString("\n")

		// Section-specific errors
		if len(result.Errors) > 0 {
			sb.WriteString("\n")
			sb.WriteString(Error.Render(fmt.Sprintf("▼ Errors (%d)", len(result.Errors))))
			sb.WriteString("\n")
			for _, err := range result.Errors {
				sb.WriteString("  ")
				sb.WriteString(GetCrossMark())
				sb.WriteString(" ")
				sb.WriteString(err)
				sb.WriteString("\n")
			}
		}

		// Section-specific warnings
		if len(result.Warnings) > 0 {
			sb.WriteString("\n")
			sb.WriteString(Warning.Render(fmt.Sprintf("▼ Warnings (%d)", len(result.Warnings))))
			sb.WriteString("\n")
			for _, warn := range result.Warnings {
				sb.WriteString("  ")
				sb.WriteString(GetWarnMark())
				sb.WriteString(" ")
				sb.WriteString(Dim.Render(warn))
				sb.WriteString("\n")
			}
		}

		sb.WriteString("\n")
	}

	return strings.TrimRight(sb.String(), "\n")
}

// renderSectionStatus formats a section's fill state with an icon
func (v *ValidationUI) renderSectionStatus(result SectionValidationResult) string {
	switch {
	case !result.Present:
		return GetCrossMark() + " " + Error.Render("missing")
	case result.Placeholder:
		return GetWarnMark() + " " + Warning.Render("placeholder")
	default:
		return GetCheckMark() + " " + Success.Render("filled")
	}
}

// renderProgressBar creates a visual progress bar (same as completeness)
func (v *ValidationUI) renderProgressBar(score float64, width int) string {
	filled := int(score * float64(width))
	empty := width - filled

	bar := strings.Repeat("█", filled) + strings.Repeat("░", empty)

	// Color the bar based on score
	if score >= 0.8 {
		return Success.Render(bar)
	} else if score >= 0.5 {
		return Warning.Render(bar)
	}
	return Error.Render(bar)
}

// renderScorePercentage formats the score as a percentage (same as completeness)
func (v *ValidationUI) renderScorePercentage(score float64) string {
	percentage := score * 100
	formatted := fmt.Sprintf("%.1f%%", percentage)

	if score >= 0.8 {
		return Success.Render(formatted)
	} else if score >= 0.5 {
		return Warning.Render(formatted)
	}
	return Error.Render(formatted)
}

// PrintSimpleReport prints a minimal text report
func (v *ValidationUI) PrintSimpleReport(report ValidationReport) {
	if report.Valid {
		fmt.Fprintf(v.writer, "%s Validation passed\n", GetCheckMark())
	} else {
		fmt.Fprintf(v.writer, "%s Validation failed\n", GetCrossMark())
	}

	fmt.Fprintf(v.writer, "Completeness: %.1f%%\n", report.CompletenessScore*100)
	fmt.Fprintf(v.writer, "Errors: %d, Warnings: %d\n", len(report.Errors), len(report.Warnings))

	if len(report.SectionResults) > 0 {
		fmt.Fprintf(v.writer, "Sections: %d\n", len(report.SectionResults))
	}
}
