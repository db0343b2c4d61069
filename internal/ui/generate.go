package ui

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// GenerateUI provides a rich UI for the generate command
type GenerateUI struct {
	writer     io.Writer
	quiet      bool
	workflow   *Workflow
	startTime  time.Time
	currentRun string
}

// NewGenerateUI creates a new UI handler for the generate command
func NewGenerateUI(w io.Writer, quiet bool) *GenerateUI {
	return &GenerateUI{
		writer:    w,
		quiet:     quiet,
		startTime: time.Now(), // Initialize start time immediately
	}
}

// StartWorkflow initializes and displays the workflow for generation
func (g *GenerateUI) StartWorkflow(runNames []string, scanMode bool) {
	if g.quiet {
		return
	}

	g.startTime = time.Now()

	if scanMode {
		g.workflow = NewWorkflow(g.writer, "Generating model card")
		g.workflow.AddTask("Scanning for training runs")
		g.workflow.AddTask("Loading run state")
		g.workflow.AddTask("Assembling card summary")
		g.workflow.AddTask("Writing model cards")
	} else {
		g.workflow = NewWorkflow(g.writer, "Generating model card")
		for _, name := range runNames {
			g.workflow.AddTask(fmt.Sprintf("Processing %s", name))
		}
		g.workflow.AddTask("Writing model cards")
	}

	g.workflow.Start()
}

// StartScanning marks the scanning step as running
func (g *GenerateUI) StartScanning(path string) {
	if g.quiet || g.workflow == nil {
		return
	}
	g.workflow.StartTask(0, Dim.Render(path))
}

// CompleteScanningWithResults marks scanning as complete with results
func (g *GenerateUI) CompleteScanningWithResults(count int) {
	if g.quiet || g.workflow == nil {
		return
	}
	g.workflow.CompleteTask(0, fmt.Sprintf("found %d run(s)", count))
}

// StartLoading marks the state loading step as running
func (g *GenerateUI) StartLoading(runName string) {
	if g.quiet || g.workflow == nil {
		return
	}
	g.currentRun = runName
	g.workflow.StartTask(1, Dim.Render(runName))
}

// UpdateLoadingStatus updates the message during state loading
func (g *GenerateUI) UpdateLoadingStatus(message string) {
	if g.quiet || g.workflow == nil {
		return
	}
	g.workflow.UpdateMessage(1, Dim.Render(message))
}

// CompleteLoading marks state loading as complete
func (g *GenerateUI) CompleteLoading() {
	if g.quiet || g.workflow == nil {
		return
	}
	g.workflow.CompleteTask(1, "run state loaded")
}

// StartAssembling marks the summary assembly step as running
func (g *GenerateUI) StartAssembling() {
	if g.quiet || g.workflow == nil {
		return
	}
	g.workflow.StartTask(2, "")
}

// CompleteAssembling marks summary assembly as complete
func (g *GenerateUI) CompleteAssembling(hyperparamCount int) {
	if g.quiet || g.workflow == nil {
		return
	}
	g.workflow.CompleteTask(2, fmt.Sprintf("%d hyperparameter(s)", hyperparamCount))
}

// StartWriting marks the writing step as running
func (g *GenerateUI) StartWriting() {
	if g.quiet || g.workflow == nil {
		return
	}
	taskIdx := 3
	if g.workflow != nil && len(g.workflow.tasks) > 0 {
		taskIdx = len(g.workflow.tasks) - 1
	}
	g.workflow.StartTask(taskIdx, "")
}

// CompleteWriting marks writing as complete
func (g *GenerateUI) CompleteWriting(outputDir string, count int) {
	if g.quiet || g.workflow == nil {
		return
	}
	taskIdx := 3
	if g.workflow != nil && len(g.workflow.tasks) > 0 {
		taskIdx = len(g.workflow.tasks) - 1
	}
	g.workflow.CompleteTask(taskIdx, fmt.Sprintf("%d file(s) → %s", count, outputDir))
}

// For run-dir mode: process individual runs

// StartRunProcessing marks a run as being processed (for run-dir mode)
func (g *GenerateUI) StartRunProcessing(idx int, runName string) {
	if g.quiet || g.workflow == nil {
		return
	}
	g.currentRun = runName
	g.workflow.StartTask(idx, "loading run state...")
}

// UpdateRunProcessing updates the status of a run being processed
func (g *GenerateUI) UpdateRunProcessing(idx int, status string) {
	if g.quiet || g.workflow == nil {
		return
	}
	g.workflow.UpdateMessage(idx, Dim.Render(status))
}

// CompleteRunProcessing marks a run as processed
func (g *GenerateUI) CompleteRunProcessing(idx int, details string) {
	if g.quiet || g.workflow == nil {
		return
	}
	g.workflow.CompleteTask(idx, details)
}

// FailRunProcessing marks a run as failed
func (g *GenerateUI) FailRunProcessing(idx int, err string) {
	if g.quiet || g.workflow == nil {
		return
	}
	g.workflow.FailTask(idx, err)
}

// FinishWorkflow completes the workflow display
func (g *GenerateUI) FinishWorkflow() {
	if g.quiet || g.workflow == nil {
		return
	}
	g.workflow.Stop()
}

// PrintSummary prints a final summary
func (g *GenerateUI) PrintSummary(filesWritten int, outputDir, format string) {
	if g.quiet {
		return
	}

	elapsed := time.Since(g.startTime)

	fmt.Fprintln(g.writer)

	// Summary box
	var summary strings.Builder
	summary.WriteString(Success.Bold(true).Render("Generation Complete"))
	summary.WriteString("\n\n")
	summary.WriteString(FormatKeyValue("Files written", fmt.Sprintf("%d", filesWritten)))
	summary.WriteString("\n")
	summary.WriteString(FormatKeyValue("Output directory", outputDir))
	summary.WriteString("\n")
	summary.WriteString(FormatKeyValue("Format", format))
	summary.WriteString("\n")
	summary.WriteString(FormatKeyValue("Duration", elapsed.Round(time.Millisecond).String()))

	fmt.Fprintln(g.writer, SuccessBox.Render(summary.String()))
}

// PrintNoRunsFound prints a message when no training runs are found
func (g *GenerateUI) PrintNoRunsFound() {
	if g.quiet {
		return
	}

	msg := "No training runs detected; no model cards written."
	fmt.Fprintln(g.writer, Warning.Render(GetWarnMark()+" "+msg))
}

// LogStep prints a simple log message (non-workflow mode)
func (g *GenerateUI) LogStep(icon, message string) {
	if g.quiet {
		return
	}

	var iconStyled string
	switch icon {
	case "success":
		iconStyled = GetCheckMark()
	case "error":
		iconStyled = GetCrossMark()
	case "warning":
		iconStyled = GetWarnMark()
	case "info":
		iconStyled = GetInfoMark()
	default:
		iconStyled = Secondary.Render("→")
	}

	fmt.Fprintf(g.writer, "%s %s\n", iconStyled, message)
}

// LogRunStep logs a step for a specific training run
func (g *GenerateUI) LogRunStep(runName, action, detail string) {
	if g.quiet {
		return
	}

	runStyled := Highlight.Render(runName)
	actionStyled := action
	if detail != "" {
		actionStyled += " " + Dim.Render(detail)
	}

	fmt.Fprintf(g.writer, "%s %s %s\n", Secondary.Render("→"), runStyled, actionStyled)
}
