package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/runcard-dev/runcard/internal/cardfile"
	"github.com/runcard-dev/runcard/internal/completeness"
	"github.com/runcard-dev/runcard/internal/registry"
	"github.com/runcard-dev/runcard/internal/ui"
)

var (
	checkPlainSummary bool
	checkLogLevel     string
)

var checkCmd = &cobra.Command{
	Use:   "check <card.md>",
	Short: "Compute a completeness score for a model card",
	Long: "Reads a model card and scores it against the field registry: weighted front-matter fields " +
		"on one side, prose sections on the other. Placeholder sections count as missing.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		// Get log level from viper (respects config file and CLI flag)
		level := strings.ToLower(strings.TrimSpace(viper.GetString("check.log-level")))
		if level == "" {
			level = "standard"
		}
		switch level {
		case "quiet", "standard", "debug":
			// ok
		default:
			return fmt.Errorf("invalid --log-level %q (expected quiet|standard|debug)", level)
		}

		if level == "debug" {
			lw := cmd.ErrOrStderr()
			completeness.SetLogger(lw)
			registry.SetLogger(lw)
		}

		f, err := cardfile.Read(args[0])
		if err != nil {
			return fmt.Errorf("failed to read card: %w", err)
		}

		res := completeness.Check(f)

		// If plain-summary requested, print a machine-readable summary (no styling)
		if viper.GetBool("check.plain-summary") {
			fmt.Fprintf(cmd.OutOrStdout(), "Card: %s | Score: %.1f%% | Fields: %d/%d | Sections: %d/%d\n",
				res.CardName, res.Overall*100, res.Passed, res.Total,
				res.Sections.Filled, res.Sections.Total)
			return nil
		}

		checkUI := ui.NewCompletenessUI(cmd.OutOrStdout(), level == "quiet")
		checkUI.PrintReport(completenessReport(res))
		return nil
	},
}

// completenessReport converts the completeness result into the UI's
// mirror structure.
func completenessReport(res completeness.Report) ui.CompletenessReport {
	return ui.CompletenessReport{
		CardName:        res.CardName,
		Score:           res.Score,
		Passed:          res.Passed,
		Total:           res.Total,
		MissingRequired: fieldKeys(res.MissingRequired),
		MissingOptional: fieldKeys(res.MissingOptional),
		Sections: &ui.SectionsReport{
			Score:               res.Sections.Score,
			Filled:              res.Sections.Filled,
			Total:               res.Sections.Total,
			PlaceholderSections: res.Sections.PlaceholderSections,
			MissingSections:     res.Sections.MissingSections,
		},
	}
}

func init() {
	checkCmd.Flags().BoolVar(&checkPlainSummary, "plain-summary", false, "Print a one-line machine-readable summary")
	checkCmd.Flags().StringVar(&checkLogLevel, "log-level", "", "Log level: quiet|standard|debug")

	// Bind flags to viper for config file support
	viper.BindPFlag("check.plain-summary", checkCmd.Flags().Lookup("plain-summary"))
	viper.BindPFlag("check.log-level", checkCmd.Flags().Lookup("log-level"))
}
