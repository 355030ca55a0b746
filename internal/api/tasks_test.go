package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListTasks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tasks", r.URL.Path)
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"id": "t2", "title": "newer", "status": "pending"},
			{"id": "t1", "title": "older", "status": "completed"}
		]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	tasks, err := c.ListTasks(context.Background())

	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "t2", tasks[0].ID)
	assert.Equal(t, "completed", tasks[1].Status)
}

func TestCreateTask(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "buy milk", body["title"])

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id": "t1", "title": "buy milk", "status": "pending"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	task, err := c.CreateTask(context.Background(), "buy milk")

	require.NoError(t, err)
	assert.Equal(t, "t1", task.ID)
	assert.Equal(t, "pending", task.Status)
}

func TestUpdateTask_OmitsNilFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/tasks/t1", r.URL.Path)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "completed", body["status"])
		assert.NotContains(t, body, "title")

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id": "t1", "title": "buy milk", "status": "completed"}`))
	}))
	defer srv.Close()

	status := "completed"
	c := NewClient(srv.URL, nil)
	task, err := c.UpdateTask(context.Background(), "t1", TaskUpdate{Status: &status})

	require.NoError(t, err)
	assert.Equal(t, "completed", task.Status)
}

func TestDeleteTask(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/tasks/t%2F1", r.URL.EscapedPath())
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	err := c.DeleteTask(context.Background(), "t/1")

	require.NoError(t, err)
}
