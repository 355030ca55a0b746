package tasklist

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskflow/internal/keys"
	"github.com/nhle/taskflow/internal/model"
	"github.com/nhle/taskflow/internal/theme"
)

// AddTaskMsg requests creation of a task with the given title.
type AddTaskMsg struct {
	Title string
}

// ToggleTaskMsg requests a status flip for the given task.
type ToggleTaskMsg struct {
	TaskID string
}

// DeleteTaskMsg requests deletion of the given task.
type DeleteTaskMsg struct {
	TaskID string
}

// RefreshMsg requests a full reload from the remote service.
type RefreshMsg struct{}

// LogoutMsg requests ending the current session.
type LogoutMsg struct{}

// Model is the remote task list view component.
type Model struct {
	list     list.Model
	keys     *keys.KeyMap
	addMode  bool
	addInput textinput.Model
	addBusy  bool
	width    int
	height   int
}

// New creates a new task list model.
func New(k *keys.KeyMap, width, height int) Model {
	delegate := ItemDelegate{}
	l := list.New([]list.Item{}, delegate, width, height-2)
	l.Title = "Tasks"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	ai := textinput.New()
	ai.Placeholder = "new task title..."
	ai.Prompt = "+ "
	ai.Width = width - 4

	return Model{
		list:     l,
		keys:     k,
		addInput: ai,
		width:    width,
		height:   height,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// SetTasks replaces the rendered task list.
func (m *Model) SetTasks(tasks []model.Task) tea.Cmd {
	items := make([]list.Item, len(tasks))
	for i, task := range tasks {
		items[i] = TaskItem{Task: task}
	}
	return m.list.SetItems(items)
}

// SetAddBusy marks the add control as having an outstanding request.
// While busy, submitting the add input is ignored.
func (m *Model) SetAddBusy(busy bool) {
	m.addBusy = busy
}

// InputActive reports whether the add bar currently owns the keyboard.
func (m Model) InputActive() bool {
	return m.addMode
}

// SelectedTaskID returns the ID of the focused task, if any.
func (m Model) SelectedTaskID() (string, bool) {
	item, ok := m.list.SelectedItem().(TaskItem)
	if !ok {
		return "", false
	}
	return item.Task.ID, true
}

// Update handles messages for the task list view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if m.addMode {
			return m.handleAddKeys(keyMsg)
		}
		return m.handleNormalKeys(keyMsg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// handleAddKeys processes key input while the add bar is focused.
func (m Model) handleAddKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		if m.addBusy {
			return m, nil
		}
		title := m.addInput.Value()
		m.addMode = false
		m.addInput.Reset()
		return m, func() tea.Msg {
			return AddTaskMsg{Title: title}
		}

	case "esc":
		m.addMode = false
		m.addInput.Reset()
		return m, nil
	}

	var cmd tea.Cmd
	m.addInput, cmd = m.addInput.Update(msg)
	return m, cmd
}

// handleNormalKeys processes key input in normal mode.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Add):
		m.addMode = true
		m.addInput.Reset()
		return m, m.addInput.Focus()

	case key.Matches(msg, m.keys.Toggle):
		id, ok := m.SelectedTaskID()
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg {
			return ToggleTaskMsg{TaskID: id}
		}

	case key.Matches(msg, m.keys.Delete):
		id, ok := m.SelectedTaskID()
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg {
			return DeleteTaskMsg{TaskID: id}
		}

	case key.Matches(msg, m.keys.Refresh):
		return m, func() tea.Msg {
			return RefreshMsg{}
		}

	case key.Matches(msg, m.keys.Logout):
		return m, func() tea.Msg {
			return LogoutMsg{}
		}
	}

	// Delegate to the list for navigation keys (up/down/pgup/pgdn)
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the task list view.
func (m Model) View() string {
	if m.addMode {
		addBar := lipgloss.NewStyle().
			Foreground(theme.ColorWhite).
			Padding(0, 1).
			Render(m.addInput.View())
		return lipgloss.JoinVertical(lipgloss.Left, addBar, m.list.View())
	}

	if len(m.list.Items()) == 0 {
		return m.renderEmptyState()
	}

	return m.list.View()
}

// renderEmptyState shows guidance text when no tasks exist.
func (m Model) renderEmptyState() string {
	style := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray)

	return style.Render("No tasks yet.\n\nPress a to add your first task.")
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
	m.addInput.Width = width - 4
}
