package completeness

import (
	"strings"

	"github.com/runcard-dev/runcard/internal/registry"
)

// PrintReport writes the report to the configured logger writer.
// If no logger writer is configured, it produces no output.
func PrintReport(r Report) {
	logf("overall score=%.1f%%", r.Overall*100)
	logf("header score=%.1f%% (%d/%d)", r.Score*100, r.Passed, r.Total)

	if len(r.MissingRequired) > 0 {
		logf("missing required: %s", joinKeys(r.MissingRequired))
	}
	if len(r.MissingOptional) > 0 {
		logf("missing optional: %s", joinKeys(r.MissingOptional))
	}

	logf("body score=%.1f%% (%d/%d sections)", r.Sections.Score*100, r.Sections.Filled, r.Sections.Total)
	if len(r.Sections.PlaceholderSections) > 0 {
		logf("placeholder sections: %s", strings.Join(r.Sections.PlaceholderSections, ", "))
	}
	if len(r.Sections.MissingSections) > 0 {
		logf("missing sections: %s", strings.Join(r.Sections.MissingSections, ", "))
	}
}

func joinKeys(keys []registry.Key) string {
	if len(keys) == 0 {
		return ""
	}
	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(k.String())
	}
	return b.String()
}
