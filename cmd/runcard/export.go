package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/runcard-dev/runcard/internal/cardfile"
	"github.com/runcard-dev/runcard/internal/export"
	"github.com/runcard-dev/runcard/internal/ui"
	"github.com/runcard-dev/runcard/pkg/runcard/generator"
)

var (
	exportOutput      string
	exportFormat      string
	exportSpecVersion string
	exportLogLevel    string
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export <runDir|card.md>",
	Short: "Export a model card as a CycloneDX BOM",
	Long: "Builds a CycloneDX BOM whose metadata component carries the model card: task, datasets, " +
		"evaluation metrics and hyperparameters. Takes either an existing card file or a run " +
		"directory, in which case the card is generated in memory first.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		// Get log level from viper (respects config file)
		level := strings.ToLower(strings.TrimSpace(viper.GetString("export.log-level")))
		if level == "" {
			level = "standard"
		}
		switch level {
		case "quiet", "standard", "debug":
			// ok
		default:
			return fmt.Errorf("invalid --log-level %q (expected quiet|standard|debug)", level)
		}

		if level != "quiet" {
			export.SetLogger(cmd.ErrOrStderr())
		}

		f, baseDir, err := loadExportCard(args[0])
		if err != nil {
			return err
		}

		bom, err := export.Build(f, export.Options{ToolVersion: version})
		if err != nil {
			return fmt.Errorf("build BOM: %w", err)
		}

		format := viper.GetString("export.format")
		outPath := viper.GetString("export.output")
		if outPath == "" {
			name := "bom.json"
			if strings.EqualFold(format, "xml") {
				name = "bom.xml"
			}
			outPath = filepath.Join(baseDir, name)
		}

		spec := strings.TrimSpace(viper.GetString("export.spec"))
		if err := export.WriteBOM(bom, outPath, format, spec); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}

		if level != "quiet" {
			fmt.Fprintf(cmd.OutOrStdout(), "%s BOM written to %s\n", ui.GetCheckMark(), ui.Highlight.Render(outPath))
		}
		return nil
	},
}

// loadExportCard resolves the export input: a run directory is turned
// into an in-memory card, a file is read as one. The returned dir is
// where the BOM lands by default.
func loadExportCard(input string) (*cardfile.File, string, error) {
	info, err := os.Stat(input)
	if err != nil {
		return nil, "", err
	}

	if info.IsDir() {
		cards, err := generator.Build([]string{input}, generator.Options{})
		if err != nil {
			return nil, "", err
		}
		f, err := cardfile.Parse(cards[0].Markdown)
		if err != nil {
			return nil, "", err
		}
		return f, input, nil
	}

	f, err := cardfile.Read(input)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read card: %w", err)
	}
	return f, filepath.Dir(input), nil
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file path (default: bom.json next to the input)")
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "auto", "Output BOM format: json|xml|auto")
	exportCmd.Flags().StringVar(&exportSpecVersion, "spec", "", "CycloneDX spec version for output (e.g., 1.5, 1.6)")
	exportCmd.Flags().StringVar(&exportLogLevel, "log-level", "", "Log level: quiet|standard|debug")

	// Bind flags to viper for config file support
	viper.BindPFlag("export.output", exportCmd.Flags().Lookup("output"))
	viper.BindPFlag("export.format", exportCmd.Flags().Lookup("format"))
	viper.BindPFlag("export.spec", exportCmd.Flags().Lookup("spec"))
	viper.BindPFlag("export.log-level", exportCmd.Flags().Lookup("log-level"))
}
