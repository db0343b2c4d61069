package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/runcard-dev/runcard/internal/apperr"
	"github.com/runcard-dev/runcard/internal/card"
	"github.com/runcard-dev/runcard/internal/cardfile"
	"github.com/runcard-dev/runcard/internal/harness"
	"github.com/runcard-dev/runcard/internal/registry"
	"github.com/runcard-dev/runcard/internal/scanner"
	"github.com/runcard-dev/runcard/internal/ui"
	"github.com/runcard-dev/runcard/pkg/runcard/generator"
)

var (
	generateSource        string
	generateModelName     string
	generateLanguage      []string
	generateLicense       string
	generateTags          []string
	generateTasks         []string
	generateDatasets      []string
	generateDatasetTags   []string
	generateDatasetArgs   []string
	generateMetrics       []string
	generateFinetunedFrom string
	generateOutput        string

	generateScan        bool
	generateInteractive bool
	generateForce       bool
	generateLogLevel    string
)

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:   "generate [runDir...]",
	Short: "Generate model cards from training runs on disk",
	Long: "Generate a model card from the state a training run left on disk (trainer_state.json, " +
		"training_args.json, keras_history.json, ...). Pass run directories directly, or use --scan " +
		"to discover them under a tree and --interactive to pick from the scan results.",
	RunE: runGenerate,
}

func runGenerate(cmd *cobra.Command, args []string) error {
	// Resolve effective log level (from config, env, or flag).
	level := strings.ToLower(strings.TrimSpace(viper.GetString("generate.log-level")))
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

	// Wire internal package logging
	if level != "quiet" {
		lw := cmd.ErrOrStderr()
		card.SetLogger(lw)
		scanner.SetLogger(lw)
		if level == "debug" {
			registry.SetLogger(lw)
		}
	}

	source := strings.ToLower(strings.TrimSpace(viper.GetString("generate.source")))
	if source != "" {
		if _, err := card.ParseSource(source); err != nil {
			return err
		}
	}

	scanMode := viper.GetBool("generate.scan")
	interactiveMode := viper.GetBool("generate.interactive")
	if interactiveMode {
		scanMode = true
	}

	if !scanMode && len(args) == 0 {
		return fmt.Errorf("provide at least one run directory, or use --scan to discover runs")
	}
	if scanMode && len(args) > 1 {
		return fmt.Errorf("--scan takes at most one root directory, got %d", len(args))
	}

	output := viper.GetString("generate.output")
	opts := generator.Options{
		Source:        source,
		ModelName:     viper.GetString("generate.model-name"),
		Language:      sliceOrNil(viper.GetStringSlice("generate.language")),
		License:       viper.GetString("generate.license"),
		Tags:          sliceOrNil(viper.GetStringSlice("generate.tags")),
		Tasks:         sliceOrNil(viper.GetStringSlice("generate.tasks")),
		Dataset:       sliceOrNil(viper.GetStringSlice("generate.datasets")),
		DatasetTags:   sliceOrNil(viper.GetStringSlice("generate.dataset-tags")),
		DatasetArgs:   sliceOrNil(viper.GetStringSlice("generate.dataset-args")),
		Metrics:       sliceOrNil(viper.GetStringSlice("generate.metrics")),
		FinetunedFrom: viper.GetString("generate.finetuned-from"),
	}

	genUI := ui.NewGenerateUI(cmd.OutOrStdout(), quiet)

	if scanMode {
		root := "."
		if len(args) == 1 {
			root = args[0]
		}
		return runScanMode(genUI, root, output, interactiveMode, opts)
	}
	return runDirMode(genUI, args, output, opts)
}

// sliceOrNil keeps "flag not given" distinguishable from "given empty":
// the generator only fills defaults for nil slices.
func sliceOrNil(vs []string) []string {
	if len(vs) == 0 {
		return nil
	}
	return vs
}

// runDirMode builds cards for explicitly named run directories. The
// first run that fails sinks the build, matching how explicit inputs
// should behave.
func runDirMode(genUI *ui.GenerateUI, runDirs []string, output string, opts generator.Options) error {
	targets, err := resolveTargets(runDirs, output)
	if err != nil {
		return err
	}
	if err := confirmOverwrite(targets); err != nil {
		return err
	}

	names := make([]string, len(runDirs))
	for i, dir := range runDirs {
		names[i] = filepath.Base(dir)
	}
	genUI.StartWorkflow(names, false)

	current := 0
	opts.OnProgress = func(evt generator.ProgressEvent) {
		switch evt.Type {
		case generator.EventLoadStart:
			current = evt.Index
			genUI.StartRunProcessing(evt.Index, filepath.Base(evt.RunDir))
		case generator.EventLoadComplete:
			genUI.UpdateRunProcessing(current, "assembling summary...")
		case generator.EventSummaryComplete:
			genUI.UpdateRunProcessing(current, "rendering card...")
		case generator.EventRunComplete:
			genUI.CompleteRunProcessing(evt.Index, evt.ModelName)
		case generator.EventError:
			genUI.FailRunProcessing(current, evt.Error.Error())
		}
	}

	cards, err := generator.Build(runDirs, opts)
	if err != nil {
		genUI.FinishWorkflow()
		return err
	}

	return writeCards(genUI, cards, targets, output)
}

// runScanMode discovers runs under root first, then builds cards for
// them. A broken run is skipped rather than failing the whole scan.
func runScanMode(genUI *ui.GenerateUI, root, output string, interactive bool, opts generator.Options) error {
	discoveries, err := scanner.Scan(root)
	if err != nil {
		return err
	}

	if interactive {
		discoveries, err = selectRuns(discoveries)
		if err != nil {
			return err
		}
	}

	if len(discoveries) == 0 {
		genUI.PrintNoRunsFound()
		return nil
	}

	runDirs := make([]string, len(discoveries))
	for i, d := range discoveries {
		runDirs[i] = d.Path
	}
	targets, err := resolveTargets(runDirs, output)
	if err != nil {
		return err
	}
	if err := confirmOverwrite(targets); err != nil {
		return err
	}

	genUI.StartWorkflow(nil, true)
	genUI.StartScanning(root)
	genUI.CompleteScanningWithResults(len(discoveries))

	genUI.StartLoading(discoveries[0].Name)
	opts.OnProgress = func(evt generator.ProgressEvent) {
		switch evt.Type {
		case generator.EventLoadStart:
			genUI.UpdateLoadingStatus(fmt.Sprintf("%d/%d: %s", evt.Index+1, evt.Total, filepath.Base(evt.RunDir)))
		case generator.EventError:
			genUI.UpdateLoadingStatus(fmt.Sprintf("skipped %s: %v", filepath.Base(evt.RunDir), evt.Error))
		}
	}

	cards, err := generator.BuildFromDiscoveries(discoveries, opts)
	if err != nil {
		genUI.FinishWorkflow()
		return err
	}
	genUI.CompleteLoading()

	genUI.StartAssembling()
	hyperparams := 0
	for _, gc := range cards {
		if hp := gc.Summary.Hyperparameters(); hp != nil {
			hyperparams += hp.Len()
		}
	}
	genUI.CompleteAssembling(hyperparams)

	if len(cards) == 0 {
		genUI.FinishWorkflow()
		genUI.PrintNoRunsFound()
		return nil
	}

	return writeCards(genUI, cards, targets, output)
}

// selectRuns shows the interactive selector over scan results. Run state
// is peeked at first, behind a progress line, to surface step and epoch
// counts next to each run.
func selectRuns(discoveries []scanner.Discovery) ([]scanner.Discovery, error) {
	items := make([]ui.RunItem, len(discoveries))
	err := ui.PeekRuns("Reading run state", len(discoveries), func(i int) string {
		d := discoveries[i]
		item := ui.RunItem{Name: d.Name, Dir: d.Path, Framework: "Trainer"}
		if d.Source == scanner.SourceKeras {
			item.Framework = "Keras"
		}
		if run, err := harness.LoadRun(d.Path); err == nil && run.State != nil {
			item.Steps = run.State.GlobalStep
			item.Epochs = run.State.Epoch
		}
		items[i] = item
		return d.Name
	})
	if err != nil {
		return nil, err
	}

	selected, err := ui.RunRunSelector(items)
	if err != nil {
		return nil, err
	}

	byPath := make(map[string]scanner.Discovery, len(discoveries))
	for _, d := range discoveries {
		byPath[d.Path] = d
	}
	picked := make([]scanner.Discovery, 0, len(selected))
	for _, dir := range selected {
		if d, ok := byPath[dir]; ok {
			picked = append(picked, d)
		}
	}
	return picked, nil
}

// resolveTargets maps each run directory to the card path it will be
// written to: README.md inside the run itself, or mirrored under the
// --output directory. An --output ending in .md names the file directly
// and only works for a single run.
func resolveTargets(runDirs []string, output string) (map[string]string, error) {
	targets := make(map[string]string, len(runDirs))
	if output != "" && strings.HasSuffix(strings.ToLower(output), ".md") {
		if len(runDirs) != 1 {
			return nil, fmt.Errorf("--output %s names a single file but %d runs were given", output, len(runDirs))
		}
		targets[runDirs[0]] = output
		return targets, nil
	}
	for _, dir := range runDirs {
		if output == "" {
			targets[dir] = filepath.Join(dir, "README.md")
		} else {
			targets[dir] = filepath.Join(output, filepath.Base(dir), "README.md")
		}
	}
	return targets, nil
}

// confirmOverwrite asks before clobbering existing cards. --force skips
// the question entirely.
func confirmOverwrite(targets map[string]string) error {
	if viper.GetBool("generate.force") {
		return nil
	}
	var existing []string
	for _, path := range targets {
		if _, err := os.Stat(path); err == nil {
			existing = append(existing, path)
		}
	}
	if len(existing) == 0 {
		return nil
	}

	var confirm bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Overwrite %d existing card(s)?", len(existing))).
				Description(strings.Join(existing, "\n")).
				Affirmative("Overwrite").
				Negative("Cancel").
				Value(&confirm),
		),
	)
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return apperr.ErrCancelled
		}
		return err
	}
	if !confirm {
		return apperr.ErrCancelled
	}
	return nil
}

func writeCards(genUI *ui.GenerateUI, cards []generator.GeneratedCard, targets map[string]string, output string) error {
	genUI.StartWriting()

	written := 0
	for _, gc := range cards {
		path, ok := targets[gc.RunDir]
		if !ok {
			path = filepath.Join(gc.RunDir, "README.md")
		}
		if err := cardfile.Write(path, gc.Markdown); err != nil {
			genUI.FinishWorkflow()
			return fmt.Errorf("write card for %s: %w", gc.RunDir, err)
		}
		written++
	}

	outDir := output
	if outDir == "" {
		outDir = "run directories"
	}
	genUI.CompleteWriting(outDir, written)
	genUI.FinishWorkflow()
	genUI.PrintSummary(written, outDir, "markdown")
	return nil
}

func init() {
	generateCmd.Flags().StringVarP(&generateSource, "source", "s", "", "Run source: trainer|keras (default: detect per run)")
	generateCmd.Flags().StringVar(&generateModelName, "model-name", "", "Model name for the card title (default: training output dir)")
	generateCmd.Flags().StringSliceVar(&generateLanguage, "language", nil, "Card language tag(s), e.g. en")
	generateCmd.Flags().StringVar(&generateLicense, "license", "", "SPDX license identifier, e.g. apache-2.0")
	generateCmd.Flags().StringSliceVar(&generateTags, "tags", nil, "Extra card tags")
	generateCmd.Flags().StringSliceVar(&generateTasks, "tasks", nil, "Task tag(s), e.g. text-classification (default: from architectures)")
	generateCmd.Flags().StringSliceVar(&generateDatasets, "datasets", nil, "Dataset display name(s)")
	generateCmd.Flags().StringSliceVar(&generateDatasetTags, "dataset-tags", nil, "Dataset hub id(s) (default: from dataset_info.json)")
	generateCmd.Flags().StringSliceVar(&generateDatasetArgs, "dataset-args", nil, "Dataset config name(s)")
	generateCmd.Flags().StringSliceVar(&generateMetrics, "metrics", nil, "Extra metric tag(s) for the card header")
	generateCmd.Flags().StringVar(&generateFinetunedFrom, "finetuned-from", "", "Base model id (default: from config.json)")
	generateCmd.Flags().StringVarP(&generateOutput, "output", "o", "", "Output directory, or a .md file for a single run (default: README.md in each run dir)")
	generateCmd.Flags().BoolVar(&generateScan, "scan", false, "Scan the given directory (default .) for training runs")
	generateCmd.Flags().BoolVar(&generateInteractive, "interactive", false, "Pick runs from scan results interactively (implies --scan)")
	generateCmd.Flags().BoolVarP(&generateForce, "force", "f", false, "Overwrite existing cards without asking")
	generateCmd.Flags().StringVar(&generateLogLevel, "log-level", "", "Log level: quiet|standard|debug")

	// Bind all flags to viper for config file support
	viper.BindPFlag("generate.source", generateCmd.Flags().Lookup("source"))
	viper.BindPFlag("generate.model-name", generateCmd.Flags().Lookup("model-name"))
	viper.BindPFlag("generate.language", generateCmd.Flags().Lookup("language"))
	viper.BindPFlag("generate.license", generateCmd.Flags().Lookup("license"))
	viper.BindPFlag("generate.tags", generateCmd.Flags().Lookup("tags"))
	viper.BindPFlag("generate.tasks", generateCmd.Flags().Lookup("tasks"))
	viper.BindPFlag("generate.datasets", generateCmd.Flags().Lookup("datasets"))
	viper.BindPFlag("generate.dataset-tags", generateCmd.Flags().Lookup("dataset-tags"))
	viper.BindPFlag("generate.dataset-args", generateCmd.Flags().Lookup("dataset-args"))
	viper.BindPFlag("generate.metrics", generateCmd.Flags().Lookup("metrics"))
	viper.BindPFlag("generate.finetuned-from", generateCmd.Flags().Lookup("finetuned-from"))
	viper.BindPFlag("generate.output", generateCmd.Flags().Lookup("output"))
	viper.BindPFlag("generate.scan", generateCmd.Flags().Lookup("scan"))
	viper.BindPFlag("generate.interactive", generateCmd.Flags().Lookup("interactive"))
	viper.BindPFlag("generate.force", generateCmd.Flags().Lookup("force"))
	viper.BindPFlag("generate.log-level", generateCmd.Flags().Lookup("log-level"))
}
