package landing

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskflow/internal/theme"
)

// LoginChosenMsg is dispatched when the user picks sign in.
type LoginChosenMsg struct{}

// SignupChosenMsg is dispatched when the user picks sign up.
type SignupChosenMsg struct{}

// TodosChosenMsg is dispatched when the user picks the local todo list.
type TodosChosenMsg struct{}

// Model is the welcome screen shown before authentication.
type Model struct {
	width  int
	height int
}

// New creates a new landing model.
func New(width, height int) Model {
	return Model{width: width, height: height}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the landing view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "l", "enter":
		return m, func() tea.Msg { return LoginChosenMsg{} }
	case "s":
		return m, func() tea.Msg { return SignupChosenMsg{} }
	case "t":
		return m, func() tea.Msg { return TodosChosenMsg{} }
	}

	return m, nil
}

// View renders the welcome screen.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorBlue).
		MarginBottom(1)

	bulletStyle := lipgloss.NewStyle().
		Foreground(theme.ColorWhite)

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		titleStyle.Render("TaskFlow"),
		bulletStyle.Render("Organize your work from the terminal."),
		"",
		bulletStyle.Render("  • Keep a synced task list on your account"),
		bulletStyle.Render("  • Track quick local todos, no account needed"),
		bulletStyle.Render("  • Everything a keystroke away"),
		"",
		theme.HelpStyle.Render("l sign in  •  s create account  •  t local todos  •  q quit"),
	)

	panel := theme.PanelStyle.Render(content)

	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(panel)
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
