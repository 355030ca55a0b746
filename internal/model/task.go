package model

import "time"

// Task status constants. The remote service only ever reports these
// two values.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
)

// Task is a work item owned by the remote service. The client holds a
// cached, possibly stale copy; the ID is server-assigned and immutable.
type Task struct {
	ID          string    `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Status      string    `json:"status" db:"status"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// Completed reports whether the task status is completed.
func (t Task) Completed() bool {
	return t.Status == StatusCompleted
}

// ToggledStatus returns the opposite of the given two-value status.
func ToggledStatus(status string) string {
	if status == StatusCompleted {
		return StatusPending
	}
	return StatusCompleted
}
