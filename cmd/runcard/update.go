package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/runcard-dev/runcard/internal/card"
	"github.com/runcard-dev/runcard/internal/cardfile"
	"github.com/runcard-dev/runcard/internal/merger"
	"github.com/runcard-dev/runcard/internal/registry"
	"github.com/runcard-dev/runcard/internal/ui"
	"github.com/runcard-dev/runcard/pkg/runcard/generator"
)

var (
	updateSource   string
	updateOutput   string
	updateLogLevel string
)

// updateCmd represents the update command
var updateCmd = &cobra.Command{
	Use:   "update <card.md> [runDir]",
	Short: "Refresh the generated parts of an existing card",
	Long: `Regenerates a card from run state and merges it under the existing one: generated
tables, hyperparameters and header fields are refreshed while hand-edited prose sections
are preserved. The run directory defaults to the card's own directory.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		// Get log level from viper (respects config file)
		level := strings.ToLower(strings.TrimSpace(viper.GetString("update.log-level")))
		if level == "" {
			level = "standard"
		}
		switch level {
		case "quiet", "standard", "debug":
			// ok
		default:
			return fmt.Errorf("invalid --log-level %q (expected quiet|standard|debug)", level)
		}
		quiet := level == "quiet"

		if level != "quiet" {
			lw := cmd.ErrOrStderr()
			merger.SetLogger(lw)
			card.SetLogger(lw)
			if level == "debug" {
				registry.SetLogger(lw)
			}
		}

		cardPath := args[0]
		runDir := filepath.Dir(cardPath)
		if len(args) == 2 {
			runDir = args[1]
		}

		updateUI := ui.NewUpdateUI(cmd.OutOrStdout(), quiet)
		updateUI.StartWorkflow()

		updateUI.StartReadingCard(cardPath)
		existing, err := cardfile.Read(cardPath)
		if err != nil {
			updateUI.Stop()
			return fmt.Errorf("failed to read card: %w", err)
		}
		updateUI.CompleteReadingCard(len(existing.Sections()))

		updateUI.StartLoadingRun(runDir)
		cards, err := generator.Build([]string{runDir}, generator.Options{
			Source: viper.GetString("update.source"),
		})
		if err != nil {
			updateUI.Stop()
			return err
		}
		framework := "Trainer"
		if cards[0].Summary.Source() == card.SourceKeras {
			framework = "Keras"
		}
		updateUI.CompleteLoadingRun(framework)

		updateUI.StartMerging()
		fresh, err := cardfile.Parse(cards[0].Markdown)
		if err != nil {
			updateUI.Stop()
			return fmt.Errorf("parse regenerated card: %w", err)
		}
		merged, result, err := merger.Merge(existing, fresh)
		if err != nil {
			updateUI.Stop()
			return err
		}
		updateUI.CompleteMerging(len(result.UpdatedSections), len(result.PreservedSections))

		outPath := viper.GetString("update.output")
		if outPath == "" {
			outPath = cardPath
		}

		updateUI.StartWriting(outPath)
		contents, err := merged.Render()
		if err != nil {
			updateUI.Stop()
			return fmt.Errorf("render card: %w", err)
		}
		if err := cardfile.Write(outPath, contents); err != nil {
			updateUI.Stop()
			return fmt.Errorf("failed to write card: %w", err)
		}
		updateUI.CompleteWriting()
		updateUI.Stop()

		updateUI.PrintSummary(ui.UpdateSummary{
			UpdatedSections:   result.UpdatedSections,
			PreservedSections: result.PreservedSections,
			HeaderChanged:     result.HeaderChanged,
		}, outPath)
		return nil
	},
}

func init() {
	updateCmd.Flags().StringVarP(&updateSource, "source", "s", "", "Run source: trainer|keras (default: detect)")
	updateCmd.Flags().StringVarP(&updateOutput, "output", "o", "", "Output file path (default: overwrite input)")
	updateCmd.Flags().StringVar(&updateLogLevel, "log-level", "", "Log level: quiet|standard|debug")

	// Bind flags to viper for config file support
	viper.BindPFlag("update.source", updateCmd.Flags().Lookup("source"))
	viper.BindPFlag("update.output", updateCmd.Flags().Lookup("output"))
	viper.BindPFlag("update.log-level", updateCmd.Flags().Lookup("log-level"))
}
