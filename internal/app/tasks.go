package app

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/taskflow/internal/api"
	"github.com/nhle/taskflow/internal/tasks"
)

// taskOpDoneMsg is sent after any remote task operation settles.
type taskOpDoneMsg struct {
	add bool
	err error
}

// refreshTasks reloads the full list from the service.
func (m *Model) refreshTasks() tea.Cmd {
	ctl := m.tasks
	return func() tea.Msg {
		return taskOpDoneMsg{err: ctl.Refresh(context.Background())}
	}
}

// addTask creates a task remotely.
func (m *Model) addTask(title string) tea.Cmd {
	ctl := m.tasks
	return func() tea.Msg {
		_, err := ctl.Add(context.Background(), title)
		return taskOpDoneMsg{add: true, err: err}
	}
}

// toggleTask flips a task's status remotely.
func (m *Model) toggleTask(id string) tea.Cmd {
	ctl := m.tasks
	return func() tea.Msg {
		return taskOpDoneMsg{err: ctl.Toggle(context.Background(), id)}
	}
}

// deleteTask removes a task remotely.
func (m *Model) deleteTask(id string) tea.Cmd {
	ctl := m.tasks
	return func() tea.Msg {
		return taskOpDoneMsg{err: ctl.Remove(context.Background(), id)}
	}
}

// handleTaskOpDone refreshes the rendered list after an operation and
// surfaces its error state. An expired session drops back to the
// landing view.
func (m Model) handleTaskOpDone(msg taskOpDoneMsg) (tea.Model, tea.Cmd) {
	if msg.add {
		m.taskList.SetAddBusy(false)
	}

	// A duplicate invocation was ignored; nothing changed.
	if errors.Is(msg.err, tasks.ErrInFlight) {
		return m, nil
	}

	if api.IsUnauthorized(msg.err) {
		m.session.Logout()
		m.currentView = ViewLanding
		m.errMsg = "session expired, please sign in again"
		return m, nil
	}

	m.errMsg = m.tasks.ErrorMessage()
	return m, m.taskList.SetTasks(m.tasks.Tasks())
}
