// Package todo manages the local todo list: no network, no session,
// write-through persistence to a JSON file.
package todo

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nhle/taskflow/internal/logging"
	"github.com/nhle/taskflow/internal/model"
)

// Counts holds the derived item tallies. They are computed from the
// list on demand, never stored, so they cannot diverge from it.
type Counts struct {
	Total     int
	Active    int
	Completed int
}

// Controller owns the local todo list. Mutations run synchronously
// inside the UI update cycle and persist before returning.
type Controller struct {
	storage *Storage
	items   []model.TodoItem
}

// NewController creates a controller seeded from storage.
func NewController(storage *Storage) *Controller {
	return &Controller{
		storage: storage,
		items:   storage.Load(),
	}
}

// Add creates an item from text and prepends it. Empty or
// whitespace-only text is ignored and returns nil.
func (c *Controller) Add(text string) *model.TodoItem {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	item := model.TodoItem{
		ID:        uuid.New().String(),
		Text:      text,
		Completed: false,
		CreatedAt: time.Now(),
	}
	c.items = append([]model.TodoItem{item}, c.items...)
	c.save()

	return &item
}

// Toggle flips the completed flag of the matching item. It reports
// whether an item matched; an unknown ID is a no-op.
func (c *Controller) Toggle(id string) bool {
	for i := range c.items {
		if c.items[i].ID == id {
			c.items[i].Completed = !c.items[i].Completed
			c.save()
			return true
		}
	}
	return false
}

// Remove deletes the matching item. An unknown ID is a no-op.
func (c *Controller) Remove(id string) bool {
	for i := range c.items {
		if c.items[i].ID == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			c.save()
			return true
		}
	}
	return false
}

// ClearCompleted removes every completed item, returning how many
// were removed.
func (c *Controller) ClearCompleted() int {
	kept := c.items[:0:0]
	for _, item := range c.items {
		if !item.Completed {
			kept = append(kept, item)
		}
	}

	removed := len(c.items) - len(kept)
	if removed > 0 {
		c.items = kept
		c.save()
	}
	return removed
}

// ClearAll removes every item, returning how many were removed. The
// UI gates this behind an explicit confirmation step.
func (c *Controller) ClearAll() int {
	removed := len(c.items)
	if removed > 0 {
		c.items = nil
		c.save()
	}
	return removed
}

// Items returns the items matching the filter mode, in list order.
// It is a pure projection and never mutates stored state.
func (c *Controller) Items(mode model.FilterMode) []model.TodoItem {
	var out []model.TodoItem
	for _, item := range c.items {
		if item.Matches(mode) {
			out = append(out, item)
		}
	}
	return out
}

// Counts returns the derived total/active/completed tallies.
func (c *Controller) Counts() Counts {
	counts := Counts{Total: len(c.items)}
	for _, item := range c.items {
		if item.Completed {
			counts.Completed++
		} else {
			counts.Active++
		}
	}
	return counts
}

// save writes the list through to storage.
func (c *Controller) save() {
	if err := c.storage.Save(c.items); err != nil {
		logger := logging.Get()
		logger.Warn().Err(err).Msg("persisting todo list")
	}
}
