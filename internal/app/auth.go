package app

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/taskflow/internal/api"
	"github.com/nhle/taskflow/internal/ui/authform"
)

// authResultMsg carries the outcome of a login or signup attempt.
type authResultMsg struct {
	signup bool
	err    error
}

// authenticate runs the login or signup against the session store.
func (m *Model) authenticate(msg authform.SubmitMsg) tea.Cmd {
	sess := m.session
	return func() tea.Msg {
		var err error
		if msg.Signup {
			err = sess.Signup(context.Background(), msg.Email, msg.Password)
		} else {
			err = sess.Login(context.Background(), msg.Email, msg.Password)
		}
		return authResultMsg{signup: msg.Signup, err: err}
	}
}

// handleAuthResult routes an auth outcome: success lands on the task
// list, failure re-opens the form with a message.
func (m Model) handleAuthResult(msg authResultMsg) (tea.Model, tea.Cmd) {
	m.authBusy = false

	if msg.err != nil {
		return m, m.authView.SetError(authErrorMessage(msg))
	}

	m.currentView = ViewTasks
	m.errMsg = ""
	return m, m.refreshTasks()
}

// authErrorMessage translates an auth failure into user-facing text.
func authErrorMessage(msg authResultMsg) string {
	if msg.signup && api.IsConflict(msg.err) {
		return "an account with this email already exists"
	}
	if !msg.signup && api.IsUnauthorized(msg.err) {
		return "invalid email or password"
	}
	return msg.err.Error()
}
