package todolist

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskflow/internal/keys"
	"github.com/nhle/taskflow/internal/model"
	"github.com/nhle/taskflow/internal/theme"
	"github.com/nhle/taskflow/internal/todo"
)

// AddTodoMsg requests creation of a todo with the given text.
type AddTodoMsg struct {
	Text string
}

// ToggleTodoMsg requests a completed flip for the given todo.
type ToggleTodoMsg struct {
	TodoID string
}

// DeleteTodoMsg requests deletion of the given todo.
type DeleteTodoMsg struct {
	TodoID string
}

// FilterChangedMsg announces a new active filter mode.
type FilterChangedMsg struct {
	Mode model.FilterMode
}

// ClearCompletedMsg requests removal of all completed todos.
type ClearCompletedMsg struct{}

// ClearAllMsg requests removal of every todo. It is only emitted
// after the user confirms the prompt.
type ClearAllMsg struct{}

// TodoItem wraps a model.TodoItem so it can be used in a bubbles/list.
type TodoItem struct {
	Item model.TodoItem
}

// FilterValue returns the string used for fuzzy filtering.
func (i TodoItem) FilterValue() string { return i.Item.Text }

// itemDelegate renders todo rows.
type itemDelegate struct{}

func (d itemDelegate) Height() int  { return 1 }
func (d itemDelegate) Spacing() int { return 0 }

func (d itemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ti, ok := item.(TodoItem)
	if !ok {
		return
	}

	prefix := "[ ]"
	text := ti.Item.Text
	if ti.Item.Completed {
		prefix = "[x]"
		text = theme.DimmedStyle.Render(text)
	}

	line := prefix + " " + text

	if index == m.Index() {
		line = theme.SelectedItemStyle.Render(line)
	} else {
		line = theme.ListItemStyle.Render(line)
	}

	fmt.Fprint(w, line)
}

// Model is the local todo list view component.
type Model struct {
	list         list.Model
	keys         *keys.KeyMap
	filter       model.FilterMode
	counts       todo.Counts
	addMode      bool
	addInput     textinput.Model
	confirmClear bool
	width        int
	height       int
}

// New creates a new todo list model.
func New(k *keys.KeyMap, width, height int) Model {
	l := list.New([]list.Item{}, itemDelegate{}, width, height-3)
	l.Title = "Todos"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	ai := textinput.New()
	ai.Placeholder = "what needs to be done?"
	ai.Prompt = "+ "
	ai.Width = width - 4

	return Model{
		list:     l,
		keys:     k,
		filter:   model.FilterAll,
		addInput: ai,
		width:    width,
		height:   height,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// SetItems replaces the rendered todo list and count tallies. The
// caller supplies items already projected through the active filter.
func (m *Model) SetItems(items []model.TodoItem, counts todo.Counts) tea.Cmd {
	listItems := make([]list.Item, len(items))
	for i, item := range items {
		listItems[i] = TodoItem{Item: item}
	}
	m.counts = counts
	return m.list.SetItems(listItems)
}

// InputActive reports whether the add bar or the clear-all prompt
// currently owns the keyboard.
func (m Model) InputActive() bool {
	return m.addMode || m.confirmClear
}

// Filter returns the active filter mode.
func (m Model) Filter() model.FilterMode {
	return m.filter
}

// selectedTodoID returns the ID of the focused todo, if any.
func (m Model) selectedTodoID() (string, bool) {
	item, ok := m.list.SelectedItem().(TodoItem)
	if !ok {
		return "", false
	}
	return item.Item.ID, true
}

// Update handles messages for the todo list view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if m.confirmClear {
			return m.handleConfirmKeys(keyMsg)
		}
		if m.addMode {
			return m.handleAddKeys(keyMsg)
		}
		return m.handleNormalKeys(keyMsg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// handleConfirmKeys processes the clear-all confirmation prompt.
func (m Model) handleConfirmKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "y", "enter":
		m.confirmClear = false
		return m, func() tea.Msg { return ClearAllMsg{} }
	default:
		m.confirmClear = false
		return m, nil
	}
}

// handleAddKeys processes key input while the add bar is focused.
func (m Model) handleAddKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		text := m.addInput.Value()
		m.addMode = false
		m.addInput.Reset()
		return m, func() tea.Msg {
			return AddTodoMsg{Text: text}
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
		id, ok := m.selectedTodoID()
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg {
			return ToggleTodoMsg{TodoID: id}
		}

	case key.Matches(msg, m.keys.Delete):
		id, ok := m.selectedTodoID()
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg {
			return DeleteTodoMsg{TodoID: id}
		}

	case key.Matches(msg, m.keys.FilterAll):
		return m.setFilter(model.FilterAll)

	case key.Matches(msg, m.keys.FilterActive):
		return m.setFilter(model.FilterActive)

	case key.Matches(msg, m.keys.FilterCompleted):
		return m.setFilter(model.FilterCompleted)

	case key.Matches(msg, m.keys.ClearCompleted):
		return m, func() tea.Msg { return ClearCompletedMsg{} }

	case key.Matches(msg, m.keys.ClearAll):
		if m.counts.Total == 0 {
			return m, nil
		}
		m.confirmClear = true
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// setFilter switches the active filter and announces the change so
// the owner can push the re-projected items.
func (m Model) setFilter(mode model.FilterMode) (Model, tea.Cmd) {
	if m.filter == mode {
		return m, nil
	}
	m.filter = mode
	return m, func() tea.Msg {
		return FilterChangedMsg{Mode: mode}
	}
}

// View renders the todo list view.
func (m Model) View() string {
	header := m.renderFilterBar()

	if m.confirmClear {
		prompt := theme.ErrorStyle.Render(
			fmt.Sprintf("Delete all %d todos? y confirm, any other key cancels", m.counts.Total),
		)
		return lipgloss.JoinVertical(lipgloss.Left, header, prompt, m.list.View())
	}

	if m.addMode {
		addBar := lipgloss.NewStyle().
			Foreground(theme.ColorWhite).
			Padding(0, 1).
			Render(m.addInput.View())
		return lipgloss.JoinVertical(lipgloss.Left, header, addBar, m.list.View())
	}

	if len(m.list.Items()) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, header, m.renderEmptyState())
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, m.list.View())
}

// renderFilterBar shows the filter tabs and item tallies.
func (m Model) renderFilterBar() string {
	tabs := lipgloss.JoinHorizontal(
		lipgloss.Top,
		theme.FilterStyle(m.filter == model.FilterAll).Render(" 1:all "),
		theme.FilterStyle(m.filter == model.FilterActive).Render(" 2:active "),
		theme.FilterStyle(m.filter == model.FilterCompleted).Render(" 3:completed "),
	)

	tally := theme.HelpStyle.Render(
		fmt.Sprintf("%d active / %d done", m.counts.Active, m.counts.Completed),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, tabs, "  ", tally)
}

// renderEmptyState shows guidance text when the filter yields nothing.
func (m Model) renderEmptyState() string {
	style := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height - 3).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray)

	if m.counts.Total > 0 {
		return style.Render("Nothing matches this filter.")
	}
	return style.Render("No todos yet.\n\nPress a to add one.")
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-3)
	m.addInput.Width = width - 4
}
