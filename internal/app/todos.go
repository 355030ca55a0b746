package app

import (
	tea "github.com/charmbracelet/bubbletea"
)

// pushTodos re-projects the todo list through the active filter and
// hands the result to the view. Todo mutations are synchronous, so
// this runs right after each one.
func (m *Model) pushTodos() tea.Cmd {
	items := m.todos.Items(m.todoList.Filter())
	return m.todoList.SetItems(items, m.todos.Counts())
}
