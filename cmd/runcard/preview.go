package cmd

import (
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/runcard-dev/runcard/internal/cardfile"
)

var (
	previewWidth int
	previewPlain bool
)

// previewCmd represents the preview command
var previewCmd = &cobra.Command{
	Use:   "preview <card.md>",
	Short: "Render a model card in the terminal",
	Long:  "Renders a model card's markdown in the terminal. The YAML front matter is shown as-is above the rendered body.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := cardfile.Read(args[0])
		if err != nil {
			return fmt.Errorf("failed to read card: %w", err)
		}

		if viper.GetBool("preview.plain") {
			contents, err := f.Render()
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), contents)
			return nil
		}

		if f.Header != nil {
			header, err := cardfile.RenderHeader(f.Header)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), header)
		}

		renderer, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(viper.GetInt("preview.width")),
		)
		if err != nil {
			return err
		}
		rendered, err := renderer.Render(f.Body)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), rendered)
		return nil
	},
}

func init() {
	previewCmd.Flags().IntVar(&previewWidth, "width", 100, "Word wrap width for the rendered body")
	previewCmd.Flags().BoolVar(&previewPlain, "plain", false, "Print the raw card without terminal rendering")

	// Bind flags to viper for config file support
	viper.BindPFlag("preview.width", previewCmd.Flags().Lookup("width"))
	viper.BindPFlag("preview.plain", previewCmd.Flags().Lookup("plain"))
}
