package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToggledStatus(t *testing.T) {
	assert.Equal(t, StatusCompleted, ToggledStatus(StatusPending))
	assert.Equal(t, StatusPending, ToggledStatus(StatusCompleted))

	// Anything unexpected flips toward completed.
	assert.Equal(t, StatusCompleted, ToggledStatus("weird"))
}

func TestTaskCompleted(t *testing.T) {
	assert.False(t, Task{Status: StatusPending}.Completed())
	assert.True(t, Task{Status: StatusCompleted}.Completed())
}

func TestTodoItemMatches(t *testing.T) {
	open := TodoItem{Completed: false}
	done := TodoItem{Completed: true}

	assert.True(t, open.Matches(FilterAll))
	assert.True(t, done.Matches(FilterAll))
	assert.True(t, open.Matches(FilterActive))
	assert.False(t, done.Matches(FilterActive))
	assert.False(t, open.Matches(FilterCompleted))
	assert.True(t, done.Matches(FilterCompleted))
}
