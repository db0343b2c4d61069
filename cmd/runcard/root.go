package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/runcard-dev/runcard/internal/ui"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "runcard",
	Short: "Write Hugging Face model cards from training-run state",
	Long:  longDescription,

	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		ui.Init(noColor)
		initUIAndBanner(cmd)
	},

	// When invoked without a subcommand, show help (with banner) instead of
	// printing a plain usage output.
	RunE: func(cmd *cobra.Command, args []string) error {
		initUIAndBanner(cmd)
		return cmd.Help()
	},
}

var (
	cfgFile  string
	noColor  bool
	noBanner bool
	version  string
)

// SetVersion sets the version for the CLI
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// GetRootCmd returns the root command for use with fang
func GetRootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.runcard.yaml or ./config/defaults.yaml)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&noBanner, "no-banner", false, "Disable ASCII art banner in help output")

	// Ensure `--help` (and help subcommands) show the banner consistently.
	defaultHelp := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		initUIAndBanner(cmd)
		defaultHelp(cmd, args)
	})

	// Add subcommands
	rootCmd.AddCommand(generateCmd, validateCmd, checkCmd, enrichCmd, exportCmd, updateCmd, previewCmd)
}

func initConfig() {
	// Environment variable support (e.g., RUNCARD_GENERATE_LICENSE).
	// Dots become underscores: generate.license -> RUNCARD_GENERATE_LICENSE
	viper.SetEnvPrefix("RUNCARD")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.SetConfigType("yaml")
		viper.AddConfigPath(home)
		viper.AddConfigPath("./config")

		// Try .runcard first, then defaults.yaml
		viper.SetConfigName(".runcard")
	}

	err := viper.ReadInConfig()

	notFound := &viper.ConfigFileNotFoundError{}
	if err != nil && cfgFile == "" && errors.As(err, notFound) {
		viper.SetConfigName("defaults")
		err = viper.ReadInConfig()
	}

	switch {
	case err != nil && !errors.As(err, notFound):
		cobra.CheckErr(err)
	case err != nil && errors.As(err, notFound):
		// The config file is optional, we shouldn't exit when it is not found
	default:
		configMsg := ui.Dim.Render("Using config file: ") + ui.Secondary.Render(viper.ConfigFileUsed())
		fmt.Fprintln(os.Stderr, configMsg)
	}
}

const longDescription = "Model card writer for training runs. Reads the state a Trainer or Keras " +
	"callback left on disk and turns it into a Hugging Face model card, ready to proofread and publish."

func initUIAndBanner(cmd *cobra.Command) {
	if cmd == nil || noBanner {
		return
	}
	cmd.Root().Long = ui.RenderGradientBanner(ui.BannerASCII) + "\n" + longDescription
}
