package ui

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const frameInterval = 80 * time.Millisecond

type taskState int

const (
	taskPending taskState = iota
	taskRunning
	taskDone
	taskFailed
)

// task is one line of the workflow display.
type task struct {
	name   string
	state  taskState
	note   string // shown while running, or the error after a failure
	result string // shown after the arrow once done
}

// Workflow renders a task list that repaints in place while the tasks
// run. It writes plain ANSI (cursor-up + erase-line) rather than
// running a bubbletea program, so it can share the terminal with
// ordinary prints from the surrounding command.
type Workflow struct {
	mu      sync.Mutex
	w       io.Writer
	title   string
	tasks   []task
	frame   int
	painted int // lines on screen from the previous paint

	running bool
	stop    chan struct{}
	done    chan struct{}
}

// NewWorkflow creates an empty workflow writing to w.
func NewWorkflow(w io.Writer, title string) *Workflow {
	return &Workflow{w: w, title: title}
}

// AddTask appends a pending task and returns its index.
func (wf *Workflow) AddTask(name string) int {
	wf.mu.Lock()
	defer wf.mu.Unlock()
	wf.tasks = append(wf.tasks, task{name: name})
	return len(wf.tasks) - 1
}

// StartTask marks a task as running, with an optional note after the name.
func (wf *Workflow) StartTask(idx int, note string) {
	wf.set(idx, func(t *task) {
		t.state = taskRunning
		t.note = note
	})
}

// UpdateMessage replaces the running note of a task.
func (wf *Workflow) UpdateMessage(idx int, note string) {
	wf.set(idx, func(t *task) { t.note = note })
}

// CompleteTask marks a task as done; result is shown after the arrow.
func (wf *Workflow) CompleteTask(idx int, result string) {
	wf.set(idx, func(t *task) {
		t.state = taskDone
		t.note = ""
		t.result = result
	})
}

// FailTask marks a task as failed and keeps the error text on its line.
func (wf *Workflow) FailTask(idx int, errMsg string) {
	wf.set(idx, func(t *task) {
		t.state = taskFailed
		t.note = errMsg
	})
}

func (wf *Workflow) set(idx int, change func(*task)) {
	wf.mu.Lock()
	defer wf.mu.Unlock()
	if idx < 0 || idx >= len(wf.tasks) {
		return
	}
	change(&wf.tasks[idx])
}

// Start begins repainting on a ticker until Stop is called.
func (wf *Workflow) Start() {
	wf.mu.Lock()
	if wf.running {
		wf.mu.Unlock()
		return
	}
	wf.running = true
	wf.stop = make(chan struct{})
	wf.done = make(chan struct{})
	wf.mu.Unlock()

	go func() {
		defer close(wf.done)
		ticker := time.NewTicker(frameInterval)
		defer ticker.Stop()
		for {
			select {
			case <-wf.stop:
				return
			case <-ticker.C:
				wf.mu.Lock()
				wf.frame = (wf.frame + 1) % len(spinnerFrames)
				wf.paint(false)
				wf.mu.Unlock()
			}
		}
	}()
}

// Stop ends the animation and paints the final state. The ticker
// goroutine is waited out first so the last paint cannot interleave
// with an animation frame.
func (wf *Workflow) Stop() {
	wf.mu.Lock()
	if !wf.running {
		wf.mu.Unlock()
		return
	}
	wf.running = false
	wf.mu.Unlock()

	close(wf.stop)
	<-wf.done

	wf.mu.Lock()
	wf.paint(true)
	wf.mu.Unlock()
}

// paint rewrites the whole block in place. Callers hold wf.mu.
func (wf *Workflow) paint(final bool) {
	var b strings.Builder
	for i := 0; i < wf.painted; i++ {
		b.WriteString("\033[A\033[K")
	}

	lines := 0
	if wf.title != "" {
		b.WriteString(Title.Render(wf.title))
		b.WriteString("\n")
		lines++
	}
	for _, t := range wf.tasks {
		b.WriteString(wf.taskLine(t, final))
		b.WriteString("\n")
		lines++
	}

	wf.painted = lines
	fmt.Fprint(wf.w, b.String())
}

func (wf *Workflow) taskLine(t task, final bool) string {
	var icon string
	var name styleWrapper

	switch t.state {
	case taskRunning:
		if final {
			// A task still running at Stop never finished; show it as
			// it would have looked before starting.
			icon, name = Muted.Render("○"), StepPending
		} else {
			icon, name = Secondary.Render(spinnerFrames[wf.frame]), StepRunning
		}
	case taskDone:
		icon, name = GetCheckMark(), StepComplete
	case taskFailed:
		icon, name = GetCrossMark(), StepFailed
	default:
		icon, name = Muted.Render("○"), StepPending
	}

	line := icon + " " + name.Render(t.name)
	switch {
	case t.state == taskFailed && t.note != "":
		line += " " + Error.Render("→ "+t.note)
	case t.state == taskDone && t.result != "":
		line += " " + Dim.Render("→ "+t.result)
	case t.state == taskRunning && !final && t.note != "":
		line += " " + Secondary.Render(t.note)
	}
	return line
}
