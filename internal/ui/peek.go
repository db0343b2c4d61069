package ui

import (
	"fmt"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/runcard-dev/runcard/internal/apperr"
)

// peekModel shows a one-line spinner while a caller-supplied function
// works through a fixed number of items. The work runs inside the
// program as one command per item, so the display stays live without
// goroutine plumbing on the calling side.
type peekModel struct {
	spinner spinner.Model
	title   string
	label   string // item most recently handled
	index   int    // items handled so far
	total   int
	work    func(i int) string

	cancelled bool
	quitting  bool
}

type peekStepMsg struct {
	index int
	label string
}

type peekDoneMsg struct{}

func newPeekModel(title string, total int, work func(i int) string) peekModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(ColorSecondary)

	return peekModel{
		spinner: s,
		title:   title,
		total:   total,
		work:    work,
	}
}

func (m peekModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.step(0))
}

// step wraps one item's work in a command so Update sees a message per
// item and can keep the spinner animating between them.
func (m peekModel) step(i int) tea.Cmd {
	work := m.work
	total := m.total
	return func() tea.Msg {
		if i >= total {
			return peekDoneMsg{}
		}
		return peekStepMsg{index: i, label: work(i)}
	}
}

func (m peekModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.cancelled = true
			m.quitting = true
			return m, tea.Quit
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case peekStepMsg:
		m.index = msg.index + 1
		m.label = msg.label
		return m, m.step(m.index)

	case peekDoneMsg:
		m.quitting = true
		return m, tea.Quit
	}

	return m, nil
}

func (m peekModel) View() tea.View {
	if m.quitting {
		return tea.NewView("")
	}

	line := fmt.Sprintf("%s %s %s",
		m.spinner.View(),
		m.title,
		Dim.Render(fmt.Sprintf("%d/%d", m.index, m.total)))
	if m.label != "" {
		line += " " + Secondary.Render(m.label)
	}
	return tea.NewView(line)
}

// PeekRuns calls fn once per item behind a one-line progress display;
// fn returns the label to show for the item it just handled. Cancelling
// the display (esc, q, ctrl+c) returns apperr.ErrCancelled and leaves
// the remaining items untouched.
func PeekRuns(title string, total int, fn func(i int) string) error {
	if total == 0 {
		return nil
	}

	p := tea.NewProgram(newPeekModel(title, total, fn))
	m, err := p.Run()
	if err != nil {
		return err
	}
	if m.(peekModel).cancelled {
		return apperr.ErrCancelled
	}
	return nil
}
