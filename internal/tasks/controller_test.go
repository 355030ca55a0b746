package tasks

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/taskflow/internal/api"
	"github.com/nhle/taskflow/internal/model"
	"github.com/nhle/taskflow/tests/testutil"
)

// mockAPI is a scriptable API with optional blocking for concurrency
// tests.
type mockAPI struct {
	mu          sync.Mutex
	listResult  []model.Task
	listErr     error
	createTask  *model.Task
	createErr   error
	updateTask  *model.Task
	updateErr   error
	deleteErr   error
	createCalls int
	deleteCalls int
	block       chan struct{}
}

func (m *mockAPI) ListTasks(_ context.Context) ([]model.Task, error) {
	return m.listResult, m.listErr
}

func (m *mockAPI) CreateTask(_ context.Context, title string) (*model.Task, error) {
	m.mu.Lock()
	m.createCalls++
	block := m.block
	m.mu.Unlock()

	if block != nil {
		<-block
	}
	if m.createErr != nil {
		return nil, m.createErr
	}
	if m.createTask != nil {
		return m.createTask, nil
	}
	return &model.Task{ID: "new", Title: title, Status: model.StatusPending}, nil
}

func (m *mockAPI) UpdateTask(_ context.Context, id string, upd api.TaskUpdate) (*model.Task, error) {
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	if m.updateTask != nil {
		return m.updateTask, nil
	}
	t := model.Task{ID: id}
	if upd.Title != nil {
		t.Title = *upd.Title
	}
	if upd.Status != nil {
		t.Status = *upd.Status
	}
	return &t, nil
}

func (m *mockAPI) DeleteTask(_ context.Context, _ string) error {
	m.mu.Lock()
	m.deleteCalls++
	m.mu.Unlock()
	return m.deleteErr
}

func task(id, title, status string) model.Task {
	return model.Task{ID: id, Title: title, Status: status}
}

func TestRefresh_ReplacesListWholesale(t *testing.T) {
	m := &mockAPI{listResult: []model.Task{
		task("t2", "newer", model.StatusPending),
		task("t1", "older", model.StatusCompleted),
	}}
	c := NewController(m, nil)

	require.NoError(t, c.Refresh(context.Background()))

	got := c.Tasks()
	require.Len(t, got, 2)
	assert.Equal(t, "t2", got[0].ID)
	assert.Empty(t, c.ErrorMessage())
}

func TestRefresh_NilResponseBecomesEmptyList(t *testing.T) {
	m := &mockAPI{listResult: nil}
	c := NewController(m, nil)

	require.NoError(t, c.Refresh(context.Background()))

	assert.NotNil(t, c.Tasks())
	assert.Empty(t, c.Tasks())
}

func TestRefresh_FailureKeepsPreviousList(t *testing.T) {
	m := &mockAPI{listResult: []model.Task{task("t1", "a", model.StatusPending)}}
	c := NewController(m, nil)
	require.NoError(t, c.Refresh(context.Background()))

	m.listErr = &api.HTTPError{Status: 500, Message: "boom"}
	err := c.Refresh(context.Background())

	require.Error(t, err)
	assert.Len(t, c.Tasks(), 1, "failed refresh must not drop local state")
	assert.Equal(t, "boom", c.ErrorMessage())
}

func TestAdd_PrependsServerTask(t *testing.T) {
	m := &mockAPI{
		listResult: []model.Task{task("t1", "existing", model.StatusPending)},
		createTask: &model.Task{ID: "t2", Title: "created", Status: model.StatusPending},
	}
	c := NewController(m, nil)
	require.NoError(t, c.Refresh(context.Background()))

	created, err := c.Add(context.Background(), "  created  ")

	require.NoError(t, err)
	assert.Equal(t, "t2", created.ID)
	got := c.Tasks()
	require.Len(t, got, 2)
	assert.Equal(t, "t2", got[0].ID, "new task goes first")
}

func TestAdd_EmptyTitleRejectedWithoutRequest(t *testing.T) {
	m := &mockAPI{}
	c := NewController(m, nil)

	_, err := c.Add(context.Background(), "   ")

	var valErr *api.ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, 0, m.createCalls)
	assert.NotEmpty(t, c.ErrorMessage())
}

func TestAdd_SecondCallWhileInFlightIsRejected(t *testing.T) {
	m := &mockAPI{block: make(chan struct{})}
	c := NewController(m, nil)

	done := make(chan error, 1)
	go func() {
		_, err := c.Add(context.Background(), "first")
		done <- err
	}()

	// Wait for the first Add to reserve its key.
	require.Eventually(t, func() bool {
		return c.Busy("add")
	}, time.Second, time.Millisecond)

	_, err := c.Add(context.Background(), "second")
	assert.ErrorIs(t, err, ErrInFlight)

	close(m.block)
	require.NoError(t, <-done)

	assert.Equal(t, 1, m.createCalls, "only the first Add reaches the service")
	assert.Empty(t, c.ErrorMessage(), "the guard is not a user-facing failure")
	assert.False(t, c.Busy("add"))
}

func TestRemove_DropsItemOnlyAfterServerSuccess(t *testing.T) {
	m := &mockAPI{listResult: []model.Task{
		task("t1", "a", model.StatusPending),
		task("t2", "b", model.StatusPending),
	}}
	c := NewController(m, nil)
	require.NoError(t, c.Refresh(context.Background()))

	require.NoError(t, c.Remove(context.Background(), "t1"))

	got := c.Tasks()
	require.Len(t, got, 1)
	assert.Equal(t, "t2", got[0].ID)
}

func TestRemove_FailureKeepsItem(t *testing.T) {
	m := &mockAPI{listResult: []model.Task{task("t1", "a", model.StatusPending)}}
	c := NewController(m, nil)
	require.NoError(t, c.Refresh(context.Background()))

	m.deleteErr = &api.HTTPError{Status: 500, Message: "boom"}
	err := c.Remove(context.Background(), "t1")

	require.Error(t, err)
	assert.Len(t, c.Tasks(), 1)
	assert.Equal(t, "boom", c.ErrorMessage())
}

func TestToggle_FlipsStatusBothWays(t *testing.T) {
	m := &mockAPI{listResult: []model.Task{task("t1", "a", model.StatusPending)}}
	c := NewController(m, nil)
	require.NoError(t, c.Refresh(context.Background()))

	require.NoError(t, c.Toggle(context.Background(), "t1"))
	assert.Equal(t, model.StatusCompleted, c.Tasks()[0].Status)

	require.NoError(t, c.Toggle(context.Background(), "t1"))
	assert.Equal(t, model.StatusPending, c.Tasks()[0].Status)
}

func TestToggle_UnknownIDIsNotFound(t *testing.T) {
	m := &mockAPI{}
	c := NewController(m, nil)

	err := c.Toggle(context.Background(), "ghost")

	assert.True(t, api.IsNotFound(err))
	assert.NotEmpty(t, c.ErrorMessage())
}

func TestToggle_FailureKeepsStatus(t *testing.T) {
	m := &mockAPI{listResult: []model.Task{task("t1", "a", model.StatusPending)}}
	c := NewController(m, nil)
	require.NoError(t, c.Refresh(context.Background()))

	m.updateErr = errors.New("service down")
	err := c.Toggle(context.Background(), "t1")

	require.Error(t, err)
	assert.Equal(t, model.StatusPending, c.Tasks()[0].Status)
}

func TestErrorMessage_ClearedByNextSuccessfulOperation(t *testing.T) {
	m := &mockAPI{listErr: errors.New("down")}
	c := NewController(m, nil)

	require.Error(t, c.Refresh(context.Background()))
	require.NotEmpty(t, c.ErrorMessage())

	m.listErr = nil
	require.NoError(t, c.Refresh(context.Background()))
	assert.Empty(t, c.ErrorMessage())
}

func TestLifecycle_AddToggleToggleRemove(t *testing.T) {
	m := &mockAPI{
		createTask: &model.Task{ID: "t1", Title: "errand", Status: model.StatusPending},
	}
	c := NewController(m, nil)

	_, err := c.Add(context.Background(), "errand")
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, c.Tasks()[0].Status)

	require.NoError(t, c.Toggle(context.Background(), "t1"))
	assert.Equal(t, model.StatusCompleted, c.Tasks()[0].Status)

	require.NoError(t, c.Toggle(context.Background(), "t1"))
	assert.Equal(t, model.StatusPending, c.Tasks()[0].Status)

	require.NoError(t, c.Remove(context.Background(), "t1"))
	assert.Empty(t, c.Tasks())
	assert.Empty(t, c.ErrorMessage())
}

func TestController_SeedsFromCacheSnapshot(t *testing.T) {
	cache := testutil.NewTestCache(t)

	seed := []model.Task{
		{ID: "t1", Title: "cached", Status: model.StatusPending,
			CreatedAt: time.Now(), UpdatedAt: time.Now()},
	}
	require.NoError(t, cache.ReplaceTasks(context.Background(), seed))

	c := NewController(&mockAPI{}, cache)

	got := c.Tasks()
	require.Len(t, got, 1)
	assert.Equal(t, "t1", got[0].ID)
	assert.Equal(t, "cached", got[0].Title)
}
