package model

import "time"

// FilterMode selects which local todo items a projection returns.
type FilterMode string

const (
	FilterAll       FilterMode = "all"
	FilterActive    FilterMode = "active"
	FilterCompleted FilterMode = "completed"
)

// TodoItem is a local task item, fully owned by the client and never
// synchronized remotely. IDs are client-generated.
type TodoItem struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"created_at"`
}

// Matches reports whether the item belongs to the given filter mode.
func (t TodoItem) Matches(mode FilterMode) bool {
	switch mode {
	case FilterActive:
		return !t.Completed
	case FilterCompleted:
		return t.Completed
	default:
		return true
	}
}
