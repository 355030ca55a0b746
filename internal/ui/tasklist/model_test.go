package tasklist

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/taskflow/internal/keys"
	"github.com/nhle/taskflow/internal/model"
)

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestModel(t *testing.T, tasks ...model.Task) Model {
	t.Helper()
	m := New(keys.DefaultKeyMap(), 80, 24)
	m.SetTasks(tasks)
	return m
}

func runCmd(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	require.NotNil(t, cmd)
	return cmd()
}

func sampleTask(id, title, status string) model.Task {
	return model.Task{ID: id, Title: title, Status: status, UpdatedAt: time.Now()}
}

func TestAddFlow_EmitsAddTaskMsg(t *testing.T) {
	m := newTestModel(t)

	m, _ = m.Update(keyRunes("a"))
	assert.True(t, m.InputActive())

	for _, r := range "write report" {
		m, _ = m.Update(keyRunes(string(r)))
	}
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	added, ok := runCmd(t, cmd).(AddTaskMsg)
	require.True(t, ok)
	assert.Equal(t, "write report", added.Title)
	assert.False(t, m.InputActive())
}

func TestAddFlow_BusySwallowsSubmit(t *testing.T) {
	m := newTestModel(t)
	m.SetAddBusy(true)

	m, _ = m.Update(keyRunes("a"))
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd, "submit is ignored while a create is outstanding")
	assert.True(t, m.InputActive(), "the input stays open")
}

func TestAddFlow_EscCancels(t *testing.T) {
	m := newTestModel(t)

	m, _ = m.Update(keyRunes("a"))
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})

	assert.Nil(t, cmd)
	assert.False(t, m.InputActive())
}

func TestToggleAndDelete_TargetSelectedTask(t *testing.T) {
	m := newTestModel(t,
		sampleTask("t1", "first", model.StatusPending),
		sampleTask("t2", "second", model.StatusCompleted),
	)

	m, cmd := m.Update(keyRunes("x"))
	toggled, ok := runCmd(t, cmd).(ToggleTaskMsg)
	require.True(t, ok)
	assert.Equal(t, "t1", toggled.TaskID)

	m, cmd = m.Update(keyRunes("d"))
	deleted, ok := runCmd(t, cmd).(DeleteTaskMsg)
	require.True(t, ok)
	assert.Equal(t, "t1", deleted.TaskID)
}

func TestActionKeys_NoOpOnEmptyList(t *testing.T) {
	m := newTestModel(t)

	m, cmd := m.Update(keyRunes("x"))
	assert.Nil(t, cmd)

	m, cmd = m.Update(keyRunes("d"))
	assert.Nil(t, cmd)
}

func TestRefreshAndLogoutKeys(t *testing.T) {
	m := newTestModel(t)

	m, cmd := m.Update(keyRunes("r"))
	_, ok := runCmd(t, cmd).(RefreshMsg)
	assert.True(t, ok)

	m, cmd = m.Update(keyRunes("L"))
	_, ok = runCmd(t, cmd).(LogoutMsg)
	assert.True(t, ok)
}
