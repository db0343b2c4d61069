package validator

import "fmt"

// PrintReport writes the validation findings to the configured logger
// writer. If no logger writer is configured, it produces no output.
func PrintReport(r ValidationResult) {
	if r.Valid {
		logf("✅ validation passed")
	} else {
		logf("❌ validation failed")
	}

	if len(r.Errors) > 0 {
		logf("errors (%d):", len(r.Errors))
		for _, err := range r.Errors {
			logf("  • %s", err)
		}
	}

	if len(r.Warnings) > 0 {
		logf("warnings (%d):", len(r.Warnings))
		for _, warn := range r.Warnings {
			logf("  • %s", warn)
		}
	}

	logf("completeness score: %.1f%% (%d required, %d optional missing)",
		r.CompletenessScore*100,
		len(r.MissingRequired),
		len(r.MissingOptional))
}

// FormatSummary returns a one-line summary of the validation result.
// This is useful for command output.
func FormatSummary(r ValidationResult) string {
	status := "✅ PASSED"
	if !r.Valid {
		status = "❌ FAILED"
	}
	return fmt.Sprintf("Validation: %s | Score: %.1f%% | Errors: %d | Warnings: %d",
		status,
		r.CompletenessScore*100,
		len(r.Errors),
		len(r.Warnings))
}
