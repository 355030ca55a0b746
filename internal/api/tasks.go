package api

import (
	"context"
	"net/url"

	"github.com/nhle/taskflow/internal/model"
)

// createTaskRequest is the body for task creation.
type createTaskRequest struct {
	Title string `json:"title"`
}

// TaskUpdate carries the partial fields of a task update. Nil fields
// are omitted from the request body.
type TaskUpdate struct {
	Title  *string `json:"title,omitempty"`
	Status *string `json:"status,omitempty"`
}

// ListTasks fetches the full task list for the current session,
// newest first.
func (c *Client) ListTasks(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	if err := c.get(ctx, "/tasks", &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// CreateTask creates a task with the given title and returns the
// server-assigned task.
func (c *Client) CreateTask(ctx context.Context, title string) (*model.Task, error) {
	var task model.Task
	err := c.post(ctx, "/tasks", createTaskRequest{Title: title}, &task)
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// UpdateTask applies a partial update to the task with the given ID
// and returns the server's copy.
func (c *Client) UpdateTask(ctx context.Context, id string, upd TaskUpdate) (*model.Task, error) {
	var task model.Task
	err := c.put(ctx, "/tasks/"+url.PathEscape(id), upd, &task)
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// DeleteTask deletes the task with the given ID.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.delete(ctx, "/tasks/"+url.PathEscape(id))
}
