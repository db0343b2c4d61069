package ui

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/list"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/runcard-dev/runcard/internal/apperr"
)

// RunItem describes one discovered training run. The caller scans the
// filesystem and hands the results in as plain data; the selector never
// touches the disk itself.
type RunItem struct {
	Name      string
	Dir       string
	Framework string // "Trainer" or "Keras"
	Steps     int
	Epochs    float64
}

// runItem represents a training run in the list
type runItem struct {
	run      RunItem
	selected bool
}

func (i runItem) Title() string {
	var checkbox string
	if i.selected {
		checkbox = Success.Render("[✓] ")
	} else {
		checkbox = Dim.Render("[ ] ")
	}
	return checkbox + i.run.Name
}

func (i runItem) Description() string {
	return fmt.Sprintf("%s Steps: %s · Epochs: %g",
		Dim.Render(fmt.Sprintf("%s ·", i.run.Framework)),
		Dim.Render(formatNumber(i.run.Steps)),
		i.run.Epochs,
	)
}

func (i runItem) FilterValue() string { return i.run.Name }

// runSelectorModel is the Bubble Tea model for the interactive selector
type runSelectorModel struct {
	textInput textinput.Model
	list      list.Model
	runs      []RunItem

	filteredItems []list.Item
	selected      map[string]bool
	filterQuery   string
	quitting      bool
	confirmed     bool
	width         int
	height        int
}

// NewRunSelector creates a new interactive run selector over the given runs
func NewRunSelector(runs []RunItem) *runSelectorModel {
	ti := textinput.New()
	ti.Placeholder = "Filter training runs..."
	ti.Focus()
	ti.CharLimit = 156
	ti.SetWidth(50)

	delegate := list.NewDefaultDelegate()
	delegate.SetHeight(3)
	delegate.SetSpacing(0)

	// Customize delegate styles
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(ColorHighlight).
		BorderForeground(ColorPrimary)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(ColorTextDim).
		BorderForeground(ColorPrimary)

	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = "Select Runs"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(false) // We handle our own filtering
	l.SetShowHelp(true)
	l.Styles.Title = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true).
		Padding(0, 0, 1, 0)

	m := &runSelectorModel{
		textInput: ti,
		list:      l,
		runs:      runs,
		selected:  make(map[string]bool),
		width:     80,
		height:    24,
	}
	m.applyFilter("")
	return m
}

// Init initializes the model
func (m *runSelectorModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages
func (m *runSelectorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Don't match space when typing in text input
		if m.textInput.Focused() {
			switch msg.String() {
			case "ctrl+c", "esc":
				m.quitting = true
				return m, tea.Quit
			case "enter":
				if m.textInput.Value() != "" {
					// Unfocus text input and focus list
					m.textInput.Blur()
					return m, nil
				}
			case "down", "up":
				// If we have items, switch to list navigation
				if len(m.filteredItems) > 0 {
					m.textInput.Blur()
					var cmd tea.Cmd
					m.list, cmd = m.list.Update(msg)
					return m, cmd
				}
			default:
				// Update text input and re-filter locally
				var cmd tea.Cmd
				m.textInput, cmd = m.textInput.Update(msg)

				query := m.textInput.Value()
				if query != m.filterQuery {
					m.filterQuery = query
					m.applyFilter(query)
				}
				cmds = append(cmds, cmd)
				return m, tea.Batch(cmds...)
			}
		} else {
			// List is focused
			switch msg.String() {
			case "ctrl+c", "esc":
				m.quitting = true
				return m, tea.Quit
			case "enter":
				m.confirmed = true
				m.quitting = true
				return m, tea.Quit
			case "s":
				// Toggle selection
				if i, ok := m.list.SelectedItem().(runItem); ok {
					m.selected[i.run.Dir] = !m.selected[i.run.Dir]
					m.updateItemSelection(i.run.Dir, m.selected[i.run.Dir])
				}
				return m, nil
			case "/", "i":
				// Focus back on filter input
				m.textInput.Focus()
				return m, textinput.Blink
			default:
				// Let list handle other keys (arrow keys, etc.)
				var cmd tea.Cmd
				m.list, cmd = m.list.Update(msg)
				return m, cmd
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width-4, msg.Height-10)
		return m, nil
	}

	// Update list
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// View renders the model
func (m *runSelectorModel) View() tea.View {
	if m.quitting {
		return tea.NewView("")
	}

	var b strings.Builder

	// Title
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorPrimary).
		Padding(1, 0)
	b.WriteString(titleStyle.Render("Training Run Selector"))
	b.WriteString("\n\n")

	// Filter input
	filterLabel := Dim.Render("Filter: ")
	b.WriteString(filterLabel)
	b.WriteString(m.textInput.View())
	b.WriteString("\n\n")

	// List of runs
	b.WriteString(m.list.View())
	b.WriteString("\n\n")

	// Selected runs
	var selectedDirs []string
	for dir, selected := range m.selected {
		if selected {
			selectedDirs = append(selectedDirs, dir)
		}
	}

	if len(selectedDirs) > 0 {
		b.WriteString(fmt.Sprintf("%s %s\n",
			Success.Render("Selected:"),
			Highlight.Render(fmt.Sprintf("%d run(s)", len(selectedDirs)))))
	}

	// Help text
	helpStyle := lipgloss.NewStyle().Foreground(ColorTextDim)
	if m.textInput.Focused() {
		b.WriteString(helpStyle.Render("↑/↓: move to list · enter: finish filter · esc: cancel"))
	} else {
		b.WriteString(helpStyle.Render("s: select · ↑/↓: navigate · enter: confirm · /: filter · esc: cancel"))
	}

	return tea.NewView(b.String())
}

// applyFilter rebuilds the visible items from the query
func (m *runSelectorModel) applyFilter(query string) {
	query = strings.ToLower(strings.TrimSpace(query))

	var items []list.Item
	for _, run := range m.runs {
		if query != "" && !strings.Contains(strings.ToLower(run.Name), query) {
			continue
		}
		items = append(items, runItem{
			run:      run,
			selected: m.selected[run.Dir],
		})
	}
	m.filteredItems = items
	m.list.SetItems(items)
}

// updateItemSelection updates the selected state of an item
func (m *runSelectorModel) updateItemSelection(dir string, selected bool) {
	for i, item := range m.filteredItems {
		if ri, ok := item.(runItem); ok && ri.run.Dir == dir {
			m.filteredItems[i] = runItem{
				run:      ri.run,
				selected: selected,
			}
			break
		}
	}
	m.list.SetItems(m.filteredItems)
}

// GetSelectedRuns returns the list of selected run directories
func (m *runSelectorModel) GetSelectedRuns() []string {
	var dirs []string
	for dir, selected := range m.selected {
		if selected {
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

// WasConfirmed returns true if the user confirmed the selection
func (m *runSelectorModel) WasConfirmed() bool {
	return m.confirmed
}

// RunRunSelector runs the interactive run selector and returns selected run directories
func RunRunSelector(runs []RunItem) ([]string, error) {
	p := tea.NewProgram(NewRunSelector(runs))
	m, err := p.Run()
	if err != nil {
		return nil, err
	}

	model := m.(*runSelectorModel)
	if !model.WasConfirmed() {
		return nil, apperr.ErrCancelled
	}

	return model.GetSelectedRuns(), nil
}

// formatNumber formats a number with commas for thousands
func formatNumber(n int) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}

	str := fmt.Sprintf("%d", n)
	var result []rune
	for i, r := range str {
		if i > 0 && (len(str)-i)%3 == 0 {
			result = append(result, ',')
		}
		result = append(result, r)
	}
	return string(result)
}
