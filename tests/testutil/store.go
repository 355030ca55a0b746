package testutil

import (
	"testing"

	"github.com/nhle/taskflow/internal/store"
)

// NewTestCache creates an in-memory TaskCache with all migrations
// applied. It automatically closes the cache when the test completes.
func NewTestCache(t *testing.T) *store.TaskCache {
	t.Helper()

	c, err := store.NewTaskCache(":memory:")
	if err != nil {
		t.Fatalf("creating test cache: %v", err)
	}

	t.Cleanup(func() {
		if err := c.Close(); err != nil {
			t.Errorf("closing test cache: %v", err)
		}
	})

	return c
}
