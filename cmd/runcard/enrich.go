package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/runcard-dev/runcard/internal/cardfile"
	"github.com/runcard-dev/runcard/internal/completeness"
	"github.com/runcard-dev/runcard/internal/enricher"
	"github.com/runcard-dev/runcard/internal/hub"
	"github.com/runcard-dev/runcard/internal/merger"
	"github.com/runcard-dev/runcard/internal/registry"
	"github.com/runcard-dev/runcard/internal/ui"
	"github.com/runcard-dev/runcard/pkg/runcard/generator"
)

var (
	enrichOutput       string
	enrichFromRun      string
	enrichFromHub      string
	enrichHubToken     string
	enrichHubTimeout   int
	enrichRequiredOnly bool
	enrichMinWeight    float64
	enrichNoPreview    bool
	enrichLogLevel     string
)

// enrichCmd represents the enrich command
var enrichCmd = &cobra.Command{
	Use:   "enrich <card.md>",
	Short: "Fill in a card's missing fields interactively",
	Long: `Walks the missing fields of an existing model card (license, language, placeholder
sections, ...) through interactive prompts and writes the result back. --from re-derives
the generated parts from run state first; --from-hub seeds missing header fields from a
model already on the Hub.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		// Validate log level
		level := strings.ToLower(strings.TrimSpace(viper.GetString("enrich.log-level")))
		if level == "" {
			level = "standard"
		}
		switch level {
		case "quiet", "standard", "debug":
			// ok
		default:
			return fmt.Errorf("invalid --log-level %q (expected quiet|standard|debug)", level)
		}

		// Wire internal package logging
		if level != "quiet" {
			lw := cmd.ErrOrStderr()
			enricher.SetLogger(lw)
			completeness.SetLogger(lw)
			hub.SetLogger(lw)
			if level == "debug" {
				registry.SetLogger(lw)
				merger.SetLogger(lw)
			}
		}

		// Read existing card
		f, err := cardfile.Read(args[0])
		if err != nil {
			return fmt.Errorf("failed to read card: %w", err)
		}

		// Re-derive the generated parts from run state before prompting
		if fromRun := viper.GetString("enrich.from"); fromRun != "" {
			f, err = rederive(f, fromRun)
			if err != nil {
				return fmt.Errorf("re-derive from %s: %w", fromRun, err)
			}
		}

		timeout := viper.GetInt("enrich.hub-timeout")
		if timeout <= 0 {
			timeout = 10
		}

		e := enricher.New(enricher.Config{
			RequiredOnly: viper.GetBool("enrich.required-only"),
			MinWeight:    viper.GetFloat64("enrich.min-weight"),
			NoPreview:    viper.GetBool("enrich.no-preview"),
			FromHub:      viper.GetString("enrich.from-hub"),
			HubToken:     viper.GetString("enrich.hub-token"),
			HubTimeout:   time.Duration(timeout) * time.Second,
		})

		result, err := e.Enrich(f)
		if err != nil {
			return err
		}

		// Determine output path (overwrite input by default)
		outPath := viper.GetString("enrich.output")
		if outPath == "" {
			outPath = args[0]
		}

		contents, err := f.Render()
		if err != nil {
			return fmt.Errorf("render card: %w", err)
		}
		if err := cardfile.Write(outPath, contents); err != nil {
			return fmt.Errorf("failed to write card: %w", err)
		}

		if level != "quiet" {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s Enriched card saved to %s\n", ui.GetCheckMark(), ui.Highlight.Render(outPath))
			fmt.Fprintf(out, "%s\n", ui.Dim.Render(fmt.Sprintf("%d field(s) filled, completeness %.1f%% → %.1f%%",
				len(result.Changes), result.InitialScore*100, result.FinalScore*100)))
		}
		return nil
	},
}

// rederive regenerates the card from run state and merges it under the
// existing one, so hand-written prose survives but generated tables and
// header fields are fresh before the prompts start.
func rederive(existing *cardfile.File, runDir string) (*cardfile.File, error) {
	cards, err := generator.Build([]string{runDir}, generator.Options{})
	if err != nil {
		return nil, err
	}
	fresh, err := cardfile.Parse(cards[0].Markdown)
	if err != nil {
		return nil, err
	}
	merged, _, err := merger.Merge(existing, fresh)
	if err != nil {
		return nil, err
	}
	return merged, nil
}

func init() {
	enrichCmd.Flags().StringVarP(&enrichOutput, "output", "o", "", "Output file path (default: overwrite input)")
	enrichCmd.Flags().StringVar(&enrichFromRun, "from", "", "Run directory to re-derive generated fields from before prompting")
	enrichCmd.Flags().StringVar(&enrichFromHub, "from-hub", "", "Hub model id whose metadata seeds missing fields")
	enrichCmd.Flags().StringVar(&enrichHubToken, "hub-token", "", "Hub access token (for --from-hub)")
	enrichCmd.Flags().IntVar(&enrichHubTimeout, "hub-timeout", 10, "Hub request timeout in seconds (for --from-hub)")
	enrichCmd.Flags().BoolVar(&enrichRequiredOnly, "required-only", false, "Only prompt for required fields")
	enrichCmd.Flags().Float64Var(&enrichMinWeight, "min-weight", 0.0, "Only prompt for fields with weight >= this value")
	enrichCmd.Flags().BoolVar(&enrichNoPreview, "no-preview", false, "Apply changes without the preview + confirm step")
	enrichCmd.Flags().StringVar(&enrichLogLevel, "log-level", "standard", "Log level: quiet|standard|debug")

	// Bind flags to viper for config file support
	viper.BindPFlag("enrich.output", enrichCmd.Flags().Lookup("output"))
	viper.BindPFlag("enrich.from", enrichCmd.Flags().Lookup("from"))
	viper.BindPFlag("enrich.from-hub", enrichCmd.Flags().Lookup("from-hub"))
	viper.BindPFlag("enrich.hub-token", enrichCmd.Flags().Lookup("hub-token"))
	viper.BindPFlag("enrich.hub-timeout", enrichCmd.Flags().Lookup("hub-timeout"))
	viper.BindPFlag("enrich.required-only", enrichCmd.Flags().Lookup("required-only"))
	viper.BindPFlag("enrich.min-weight", enrichCmd.Flags().Lookup("min-weight"))
	viper.BindPFlag("enrich.no-preview", enrichCmd.Flags().Lookup("no-preview"))
	viper.BindPFlag("enrich.log-level", enrichCmd.Flags().Lookup("log-level"))
}
