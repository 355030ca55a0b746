package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/taskflow/internal/keys"
	"github.com/nhle/taskflow/internal/session"
	"github.com/nhle/taskflow/internal/tasks"
	"github.com/nhle/taskflow/internal/todo"
	"github.com/nhle/taskflow/internal/ui"
	"github.com/nhle/taskflow/internal/ui/authform"
	helpview "github.com/nhle/taskflow/internal/ui/help"
	"github.com/nhle/taskflow/internal/ui/landing"
	"github.com/nhle/taskflow/internal/ui/tasklist"
	"github.com/nhle/taskflow/internal/ui/todolist"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewLanding ViewState = iota
	ViewAuth
	ViewTasks
	ViewTodos
	ViewHelp
)

// Model is the root Bubble Tea model that manages view routing,
// layout, and access to the session and controllers.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	keys         *keys.KeyMap
	session      *session.Store
	tasks        *tasks.Controller
	todos        *todo.Controller
	landingView  landing.Model
	authView     authform.Model
	taskList     tasklist.Model
	todoList     todolist.Model
	helpView     helpview.Model
	ready        bool
	authBusy     bool
	errMsg       string
}

// New creates the root application model. A restored authenticated
// session opens straight onto the task list.
func New(sess *session.Store, taskCtl *tasks.Controller, todoCtl *todo.Controller) Model {
	k := keys.DefaultKeyMap()

	m := Model{
		currentView: ViewLanding,
		keys:        k,
		session:     sess,
		tasks:       taskCtl,
		todos:       todoCtl,
		landingView: landing.New(80, 24),
		authView:    authform.New(80, 24),
		taskList:    tasklist.New(k, 80, 24),
		todoList:    todolist.New(k, 80, 24),
		helpView:    helpview.New(k, 80, 24),
	}

	if sess.Snapshot().Authenticated {
		m.currentView = ViewTasks
	}

	m.taskList.SetTasks(taskCtl.Tasks())
	m.pushTodos()

	return m
}

// Init returns the initial commands.
func (m Model) Init() tea.Cmd {
	if m.currentView == ViewTasks {
		return m.refreshTasks()
	}
	return nil
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		contentWidth := m.layout.ContentWidth()
		contentHeight := m.layout.ContentHeight()
		m.landingView.SetSize(contentWidth, contentHeight)
		m.authView.SetSize(contentWidth, contentHeight)
		m.taskList.SetSize(contentWidth, contentHeight)
		m.todoList.SetSize(contentWidth, contentHeight)
		m.helpView.SetSize(contentWidth, contentHeight)
		// Forward to the active view so huh forms can calculate their layout.
		return m.updateActiveView(msg)

	case landing.LoginChosenMsg:
		m.currentView = ViewAuth
		m.errMsg = ""
		return m, m.authView.StartLogin()

	case landing.SignupChosenMsg:
		m.currentView = ViewAuth
		m.errMsg = ""
		return m, m.authView.StartSignup()

	case landing.TodosChosenMsg:
		m.currentView = ViewTodos
		return m, nil

	case authform.SubmitMsg:
		if m.authBusy {
			return m, nil
		}
		m.authBusy = true
		return m, m.authenticate(msg)

	case authform.CancelMsg:
		m.currentView = ViewLanding
		return m, nil

	case authResultMsg:
		return m.handleAuthResult(msg)

	case tasklist.AddTaskMsg:
		m.taskList.SetAddBusy(true)
		return m, m.addTask(msg.Title)

	case tasklist.ToggleTaskMsg:
		return m, m.toggleTask(msg.TaskID)

	case tasklist.DeleteTaskMsg:
		return m, m.deleteTask(msg.TaskID)

	case tasklist.RefreshMsg:
		return m, m.refreshTasks()

	case tasklist.LogoutMsg:
		m.session.Logout()
		m.currentView = ViewLanding
		m.errMsg = ""
		return m, nil

	case taskOpDoneMsg:
		return m.handleTaskOpDone(msg)

	case todolist.AddTodoMsg:
		m.todos.Add(msg.Text)
		return m, m.pushTodos()

	case todolist.ToggleTodoMsg:
		m.todos.Toggle(msg.TodoID)
		return m, m.pushTodos()

	case todolist.DeleteTodoMsg:
		m.todos.Remove(msg.TodoID)
		return m, m.pushTodos()

	case todolist.FilterChangedMsg:
		return m, m.pushTodos()

	case todolist.ClearCompletedMsg:
		m.todos.ClearCompleted()
		return m, m.pushTodos()

	case todolist.ClearAllMsg:
		m.todos.ClearAll()
		return m, m.pushTodos()

	case tea.KeyMsg:
		if model, cmd, handled := m.handleGlobalKeys(msg); handled {
			return model, cmd
		}
	}

	return m.updateActiveView(msg)
}

// handleGlobalKeys processes keys that work across views. Keys are
// not intercepted while a text input or form has focus.
func (m Model) handleGlobalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit, true
	}

	if m.inputFocused() {
		return m, nil, false
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit, true

	case "?":
		if m.currentView == ViewHelp {
			m.currentView = m.previousView
			return m, nil, true
		}
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return m, nil, true

	case "tab":
		switch m.currentView {
		case ViewTasks:
			m.currentView = ViewTodos
			return m, nil, true
		case ViewTodos:
			if m.session.Snapshot().Authenticated {
				m.currentView = ViewTasks
				return m, m.refreshTasks(), true
			}
			m.currentView = ViewLanding
			return m, nil, true
		}

	case "esc":
		switch m.currentView {
		case ViewHelp:
			m.currentView = m.previousView
			return m, nil, true
		case ViewTodos:
			if !m.session.Snapshot().Authenticated {
				m.currentView = ViewLanding
				return m, nil, true
			}
		}
	}

	return m, nil, false
}

// inputFocused reports whether the active view owns the keyboard.
func (m Model) inputFocused() bool {
	switch m.currentView {
	case ViewAuth:
		return true
	case ViewTasks:
		return m.taskList.InputActive()
	case ViewTodos:
		return m.todoList.InputActive()
	}
	return false
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewLanding:
		m.landingView, cmd = m.landingView.Update(msg)
	case ViewAuth:
		m.authView, cmd = m.authView.Update(msg)
	case ViewTasks:
		m.taskList, cmd = m.taskList.Update(msg)
	case ViewTodos:
		m.todoList, cmd = m.todoList.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	}

	return m, cmd
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.layout.RenderHeader("TaskFlow", m.accountStatus())
	content := m.renderContent()
	statusBar := m.layout.RenderStatusBar(m.statusLine())

	return m.layout.RenderWithFrame(header, content, statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewLanding:
		return m.landingView.View()
	case ViewAuth:
		return m.authView.View()
	case ViewTasks:
		return m.taskList.View()
	case ViewTodos:
		return m.todoList.View()
	case ViewHelp:
		return m.helpView.View()
	default:
		return ""
	}
}

// accountStatus returns the header's right-hand account summary.
func (m Model) accountStatus() string {
	sess := m.session.Snapshot()
	if sess.Authenticated && sess.User != nil {
		return sess.User.Email
	}
	return "not signed in"
}

// statusLine returns the status bar content: the most recent error
// when present, otherwise keyboard hints for the active view.
func (m Model) statusLine() string {
	if m.errMsg != "" {
		return m.errMsg
	}

	switch m.currentView {
	case ViewLanding:
		return "l sign in | s sign up | t todos | q quit"
	case ViewAuth:
		if m.authBusy {
			return "signing in..."
		}
		return "enter submit | esc cancel"
	case ViewTasks:
		return "a add | space toggle | d delete | r refresh | tab todos | L log out | ? help"
	case ViewTodos:
		return "a add | space toggle | d delete | 1/2/3 filter | c clear done | C clear all | ? help"
	case ViewHelp:
		return "? close help | esc back"
	default:
		return ""
	}
}
