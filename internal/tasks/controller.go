// Package tasks manages the in-memory remote task list and mediates
// between UI actions and the API client.
package tasks

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/nhle/taskflow/internal/api"
	"github.com/nhle/taskflow/internal/logging"
	"github.com/nhle/taskflow/internal/model"
	"github.com/nhle/taskflow/internal/store"
)

// ErrInFlight signals that the same operation is already outstanding.
// It is a guard signal for the UI (which disables the control), not a
// user-facing failure, and is never recorded as the error message.
var ErrInFlight = errors.New("operation already in flight")

// API is the slice of the API client the controller needs.
type API interface {
	ListTasks(ctx context.Context) ([]model.Task, error)
	CreateTask(ctx context.Context, title string) (*model.Task, error)
	UpdateTask(ctx context.Context, id string, upd api.TaskUpdate) (*model.Task, error)
	DeleteTask(ctx context.Context, id string) error
}

// Controller holds the ordered task list for the current session.
// Local state changes only after server confirmation: a created task
// is prepended once the server has assigned it an ID, and removals
// and status flips apply only after the request succeeds.
//
// Every remote operation is guarded by a per-operation-key in-flight
// set ("add", "remove/<id>", "toggle/<id>") so overlapping
// invocations of the same action cannot race.
type Controller struct {
	mu       sync.Mutex
	api      API
	cache    *store.TaskCache
	tasks    []model.Task
	inflight map[string]struct{}
	errMsg   string
}

// NewController creates a controller. cache may be nil; when present,
// its snapshot seeds the list so the previous session's tasks render
// before the first refresh, and successful operations write through.
func NewController(a API, cache *store.TaskCache) *Controller {
	c := &Controller{
		api:      a,
		cache:    cache,
		inflight: make(map[string]struct{}),
	}

	if cache != nil {
		cached, err := cache.GetTasks(context.Background())
		if err != nil {
			logger := logging.Get()
			logger.Warn().Err(err).Msg("seeding from task cache")
		} else {
			c.tasks = cached
		}
	}

	return c
}

// Tasks returns a copy of the current task list.
func (c *Controller) Tasks() []model.Task {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.Task, len(c.tasks))
	copy(out, c.tasks)
	return out
}

// ErrorMessage returns the message from the most recent failed
// operation, or "" when the last operation succeeded.
func (c *Controller) ErrorMessage() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errMsg
}

// Busy reports whether the operation with the given key is in flight.
// The key for Add is "add".
func (c *Controller) Busy(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.inflight[key]
	return ok
}

// Refresh fetches the full list from the service and replaces local
// state wholesale. A nil response becomes an empty list.
func (c *Controller) Refresh(ctx context.Context) error {
	c.clearError()

	fetched, err := c.api.ListTasks(ctx)
	if err != nil {
		c.fail(err)
		return err
	}
	if fetched == nil {
		fetched = []model.Task{}
	}

	c.mu.Lock()
	c.tasks = fetched
	c.mu.Unlock()

	c.writeSnapshot(ctx, fetched)
	return nil
}

// Add creates a task with the given title and prepends the
// server-assigned result. A second Add while one is outstanding
// returns ErrInFlight without sending anything.
func (c *Controller) Add(ctx context.Context, title string) (*model.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		err := &api.ValidationError{Message: "task title cannot be empty"}
		c.clearError()
		c.fail(err)
		return nil, err
	}

	if !c.begin("add") {
		return nil, ErrInFlight
	}
	defer c.end("add")

	c.clearError()

	created, err := c.api.CreateTask(ctx, title)
	if err != nil {
		c.fail(err)
		return nil, err
	}

	c.mu.Lock()
	c.tasks = append([]model.Task{*created}, c.tasks...)
	c.mu.Unlock()

	if c.cache != nil {
		if err := c.cache.UpsertTask(ctx, *created); err != nil {
			logger := logging.Get()
			logger.Warn().Err(err).Msg("caching created task")
		}
	}

	return created, nil
}

// Remove deletes a task remotely, then drops it from local state. On
// failure the item remains.
func (c *Controller) Remove(ctx context.Context, id string) error {
	if !c.begin("remove/" + id) {
		return ErrInFlight
	}
	defer c.end("remove/" + id)

	c.clearError()

	if err := c.api.DeleteTask(ctx, id); err != nil {
		c.fail(err)
		return err
	}

	c.mu.Lock()
	kept := c.tasks[:0:0]
	for _, t := range c.tasks {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	c.tasks = kept
	c.mu.Unlock()

	if c.cache != nil {
		if err := c.cache.DeleteTask(ctx, id); err != nil {
			logger := logging.Get()
			logger.Warn().Err(err).Msg("removing cached task")
		}
	}

	return nil
}

// Toggle flips a task between pending and completed. The update
// carries the unchanged title as well, so the service's unspecified
// partial-update semantics cannot clear it. On success the flip is
// applied to the local copy; the server's returned body is only
// logged, so a divergent server computation would go unnoticed here.
func (c *Controller) Toggle(ctx context.Context, id string) error {
	if !c.begin("toggle/" + id) {
		return ErrInFlight
	}
	defer c.end("toggle/" + id)

	c.clearError()

	c.mu.Lock()
	var current *model.Task
	for i := range c.tasks {
		if c.tasks[i].ID == id {
			current = &c.tasks[i]
			break
		}
	}
	if current == nil {
		c.mu.Unlock()
		err := &api.NotFoundError{ID: id}
		c.fail(err)
		return err
	}
	title := current.Title
	newStatus := model.ToggledStatus(current.Status)
	c.mu.Unlock()

	updated, err := c.api.UpdateTask(ctx, id, api.TaskUpdate{
		Title:  &title,
		Status: &newStatus,
	})
	if err != nil {
		c.fail(err)
		return err
	}

	logger := logging.Get()
	logger.Debug().
		Str("id", id).
		Str("local_status", newStatus).
		Str("server_status", updated.Status).
		Msg("task toggled")

	c.mu.Lock()
	for i := range c.tasks {
		if c.tasks[i].ID == id {
			c.tasks[i].Status = newStatus
			break
		}
	}
	snapshot := make([]model.Task, len(c.tasks))
	copy(snapshot, c.tasks)
	c.mu.Unlock()

	c.writeSnapshot(ctx, snapshot)
	return nil
}

// begin reserves the in-flight key, reporting false when already held.
func (c *Controller) begin(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.inflight[key]; ok {
		return false
	}
	c.inflight[key] = struct{}{}
	return true
}

// end releases the in-flight key.
func (c *Controller) end(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.inflight, key)
}

// clearError wipes the previous error message before a new attempt.
func (c *Controller) clearError() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errMsg = ""
}

// fail records a human-readable message for the status bar.
func (c *Controller) fail(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errMsg = err.Error()
}

// writeSnapshot replaces the cache contents, best effort.
func (c *Controller) writeSnapshot(ctx context.Context, tasks []model.Task) {
	if c.cache == nil {
		return
	}
	if err := c.cache.ReplaceTasks(ctx, tasks); err != nil {
		logger := logging.Get()
		logger.Warn().Err(err).Msg("writing task cache snapshot")
	}
}
