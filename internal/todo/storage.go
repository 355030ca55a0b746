package todo

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nhle/taskflow/internal/logging"
	"github.com/nhle/taskflow/internal/model"
)

// Storage persists the todo list as a JSON array on disk. Date fields
// are RFC3339 strings and are rehydrated on load.
type Storage struct {
	path string
}

// NewStorage creates a Storage for the given file path. The file does
// not need to exist; it is created on first write.
func NewStorage(path string) *Storage {
	return &Storage{path: path}
}

// Load reads the persisted items. A missing file yields an empty
// list; so does a corrupt one — parse failures are logged and
// swallowed rather than propagated, the previous behavior being
// unrecoverable anyway.
func (s *Storage) Load() []model.TodoItem {
	content, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger := logging.Get()
			logger.Warn().Err(err).Msg("reading todo file")
		}
		return nil
	}

	var items []model.TodoItem
	if err := json.Unmarshal(content, &items); err != nil {
		logger := logging.Get()
		logger.Warn().Err(err).Msg("discarding corrupt todo file")
		return nil
	}

	return items
}

// Save writes the full item list, via a temp file and rename so a
// crash mid-write cannot corrupt the previous contents.
func (s *Storage) Save(items []model.TodoItem) error {
	if items == nil {
		items = []model.TodoItem{}
	}

	content, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling todo items: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating todo directory: %w", err)
	}

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, content, 0o600); err != nil {
		return fmt.Errorf("writing temp todo file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp todo file: %w", err)
	}

	return nil
}
