package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/runcard-dev/runcard/internal/completeness"
	"github.com/runcard-dev/runcard/internal/registry"
	"github.com/runcard-dev/runcard/internal/ui"
	"github.com/runcard-dev/runcard/internal/validator"
	pubvalidator "github.com/runcard-dev/runcard/pkg/runcard/validator"
)

var (
	validateStrict   bool
	validateMinScore float64
	validateLogLevel string
)

var validateCmd = &cobra.Command{
	Use:   "validate <card.md>",
	Short: "Validate an existing model card",
	Long: "Checks that a model card is structurally sound: YAML front matter parses, the model-index " +
		"entries are complete, metric values are numeric and no generation placeholders remain. " +
		"Strict mode escalates warnings and enforces required fields.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		// Get log level from viper (respects config file)
		level := strings.ToLower(strings.TrimSpace(viper.GetString("validate.log-level")))
		if level == "" {
			level = "standard"
		}
		switch level {
		case "quiet", "standard", "debug":
			// ok
		default:
			return fmt.Errorf("invalid --log-level %q (expected quiet|standard|debug)", level)
		}

		// Wire internal package logging based on log level.
		if level != "quiet" {
			lw := cmd.ErrOrStderr()
			validator.SetLogger(lw)
			if level == "debug" {
				registry.SetLogger(lw)
				completeness.SetLogger(lw)
			}
		}

		opts := pubvalidator.Options{
			Strict:               viper.GetBool("validate.strict"),
			MinCompletenessScore: viper.GetFloat64("validate.min-score"),
		}

		result, err := pubvalidator.ValidateFile(args[0], opts)
		if err != nil {
			return fmt.Errorf("failed to read card: %w", err)
		}

		valUI := ui.NewValidationUI(cmd.OutOrStdout(), level == "quiet")
		valUI.PrintReport(validationReport(result))

		if !result.Valid {
			return fmt.Errorf("validation failed")
		}
		return nil
	},
}

// validationReport converts the validator result into the UI's mirror
// structure.
func validationReport(res pubvalidator.Result) ui.ValidationReport {
	report := ui.ValidationReport{
		CardName:          res.CardName,
		Valid:             res.Valid,
		Errors:            res.Errors,
		Warnings:          res.Warnings,
		CompletenessScore: res.CompletenessScore,
		MissingRequired:   fieldKeys(res.MissingRequired),
		MissingOptional:   fieldKeys(res.MissingOptional),
		SectionResults:    map[string]ui.SectionValidationResult{},
	}
	for heading, sr := range res.SectionResults {
		report.SectionResults[heading] = ui.SectionValidationResult{
			Section:     sr.Section,
			Present:     sr.Present,
			Placeholder: sr.Placeholder,
			Errors:      sr.Errors,
			Warnings:    sr.Warnings,
		}
	}
	return report
}

func fieldKeys(keys []registry.Key) []ui.FieldKey {
	out := make([]ui.FieldKey, len(keys))
	for i, k := range keys {
		out[i] = k
	}
	return out
}

func init() {
	validateCmd.Flags().BoolVar(&validateStrict, "strict", false, "Strict mode: fail on missing required fields and warnings")
	validateCmd.Flags().Float64Var(&validateMinScore, "min-score", 0.0, "Minimum completeness score in strict mode (0.0-1.0)")
	validateCmd.Flags().StringVar(&validateLogLevel, "log-level", "standard", "Log level: quiet|standard|debug")

	// Bind flags to viper for config file support
	viper.BindPFlag("validate.strict", validateCmd.Flags().Lookup("strict"))
	viper.BindPFlag("validate.min-score", validateCmd.Flags().Lookup("min-score"))
	viper.BindPFlag("validate.log-level", validateCmd.Flags().Lookup("log-level"))
}
