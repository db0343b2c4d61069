package ui

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// UpdateSummary mirrors the merge result from internal/merger
// to avoid circular imports
type UpdateSummary struct {
	UpdatedSections   []string
	PreservedSections []string
	HeaderChanged     bool
}

// UpdateUI provides a rich UI for the update command
type UpdateUI struct {
	writer    io.Writer
	quiet     bool
	workflow  *Workflow
	startTime time.Time
}

// NewUpdateUI creates a new UI handler for the update command
func NewUpdateUI(w io.Writer, quiet bool) *UpdateUI {
	return &UpdateUI{
		writer:    w,
		quiet:     quiet,
		startTime: time.Now(),
	}
}

// StartWorkflow initializes and displays the workflow for updating a card
func (u *UpdateUI) StartWorkflow() {
	if u.quiet {
		return
	}

	u.startTime = time.Now()

	u.workflow = NewWorkflow(u.writer, "Updating model card")
	u.workflow.AddTask("Reading model card")
	u.workflow.AddTask("Loading training run")
	u.workflow.AddTask("Merging card sections")
	u.workflow.AddTask("Writing output")

	u.workflow.Start()
}

// StartReadingCard marks the card reading step as running
func (u *UpdateUI) StartReadingCard(path string) {
	if u.quiet || u.workflow == nil {
		return
	}
	u.workflow.StartTask(0, Dim.Render(path))
}

// CompleteReadingCard marks card reading as complete
func (u *UpdateUI) CompleteReadingCard(sectionCount int) {
	if u.quiet || u.workflow == nil {
		return
	}
	u.workflow.CompleteTask(0, fmt.Sprintf("%d sections parsed", sectionCount))
}

// StartLoadingRun marks the run loading step as running
func (u *UpdateUI) StartLoadingRun(dir string) {
	if u.quiet || u.workflow == nil {
		return
	}
	u.workflow.StartTask(1, Dim.Render(dir))
}

// CompleteLoadingRun marks run loading as complete
func (u *UpdateUI) CompleteLoadingRun(framework string) {
	if u.quiet || u.workflow == nil {
		return
	}
	u.workflow.CompleteTask(1, fmt.Sprintf("%s state loaded", framework))
}

// StartMerging marks the merge step as running
func (u *UpdateUI) StartMerging() {
	if u.quiet || u.workflow == nil {
		return
	}
	u.workflow.StartTask(2, "Refreshing generated sections")
}

// CompleteMerging marks merging as complete
func (u *UpdateUI) CompleteMerging(updated, preserved int) {
	if u.quiet || u.workflow == nil {
		return
	}
	u.workflow.CompleteTask(2, fmt.Sprintf("%d updated, %d preserved", updated, preserved))
}

// StartWriting marks the writing step as running
func (u *UpdateUI) StartWriting(path string) {
	if u.quiet || u.workflow == nil {
		return
	}
	u.workflow.StartTask(3, Dim.Render(path))
}

// CompleteWriting marks writing as complete
func (u *UpdateUI) CompleteWriting() {
	if u.quiet || u.workflow == nil {
		return
	}
	u.workflow.CompleteTask(3, "File written successfully")
}

// Stop stops the workflow
func (u *UpdateUI) Stop() {
	if u.workflow != nil {
		u.workflow.Stop()
	}
}

// PrintSummary displays the update summary with styled output
func (u *UpdateUI) PrintSummary(result UpdateSummary, outputPath string) {
	if u.quiet {
		return
	}

	// Stop workflow before printing summary
	u.Stop()

	var output strings.Builder

	// Header
	output.WriteString(Success.Bold(true).Render("✓ Update Completed Successfully"))
	output.WriteString("\n\n")

	// Summary section
	output.WriteString(SectionHeader.Render("Summary"))
	output.WriteString("\n\n")

	// Updated sections
	if len(result.UpdatedSections) > 0 {
		output.WriteString(fmt.Sprintf("  %s   %s\n",
			Muted.Render("Updated Sections:"),
			Bold.Render(fmt.Sprintf("%d", len(result.UpdatedSections)))))
		for _, section := range result.UpdatedSections {
			output.WriteString(fmt.Sprintf("    %s %s\n",
				GetBullet(),
				Dim.Render(truncateName(section, 50))))
		}
		output.WriteString("\n")
	}

	// Preserved sections
	if len(result.PreservedSections) > 0 {
		output.WriteString(fmt.Sprintf("  %s %s\n",
			Muted.Render("Preserved Sections:"),
			Bold.Render(fmt.Sprintf("%d", len(result.PreservedSections)))))
		for _, section := range result.PreservedSections {
			output.WriteString(fmt.Sprintf("    %s %s\n",
				GetBullet(),
				Dim.Render(truncateName(section, 50))))
		}
		output.WriteString("\n")
	}

	// Header refresh
	if result.HeaderChanged {
		output.WriteString(fmt.Sprintf("  %s %s\n",
			Muted.Render("Card Header:"),
			Success.Render("refreshed")))
		output.WriteString("\n")
	}

	// Timing
	duration := time.Since(u.startTime)
	output.WriteString(fmt.Sprintf("  %s %s\n",
		Muted.Render("Duration:"),
		Dim.Render(formatDuration(duration))))

	// Output file
	output.WriteString("\n")
	output.WriteString(fmt.Sprintf("  %s %s\n",
		Muted.Render("Output:"),
		Success.Render(outputPath)))

	// Wrap in success box
	boxed := SuccessBox.Render(output.String())
	fmt.Fprintln(u.writer, "\n"+boxed)
}

// PrintError displays an error message
func (u *UpdateUI) PrintError(err error) {
	if u.quiet {
		return
	}

	// Stop workflow if running
	u.Stop()

	var output strings.Builder
	output.WriteString(Error.Bold(true).Render("✗ Update Failed"))
	output.WriteString("\n\n")
	output.WriteString(err.Error())

	boxed := ErrorBox.Render(output.String())
	fmt.Fprintln(u.writer, "\n"+boxed)
}

// formatDuration formats a duration in a human-readable way
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return fmt.Sprintf("%.1fm", d.Minutes())
}

// truncateName truncates a section name to a maximum length
func truncateName(name string, maxLen int) string {
	if len(name) <= maxLen {
		return name
	}
	return name[:maxLen-3] + "..."
}
