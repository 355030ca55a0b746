// Package store caches the last fetched remote task list in a local
// SQLite database, so a previous session's tasks can render before
// the first refresh completes. The remote service stays the source of
// truth; the cache is overwritten wholesale on every refresh.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/nhle/taskflow/internal/model"
)

// TaskCache is a SQLite-backed snapshot of the remote task list.
type TaskCache struct {
	db *sqlx.DB
}

// NewTaskCache opens (or creates) a SQLite database at dbPath,
// enables WAL mode, and runs any pending schema migrations.
func NewTaskCache(dbPath string) (*TaskCache, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	c := &TaskCache{db: db}
	if err := c.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return c, nil
}

// Close closes the underlying database connection.
func (c *TaskCache) Close() error {
	return c.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (c *TaskCache) runMigrations() error {
	currentVersion := 0

	var tableCount int
	err := c.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = c.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := c.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// ReplaceTasks replaces the entire cached snapshot with the given
// list, stamping every row with the same fetch time.
func (c *TaskCache) ReplaceTasks(ctx context.Context, tasks []model.Task) error {
	tx, err := c.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM tasks"); err != nil {
		return fmt.Errorf("clearing task cache: %w", err)
	}

	const query = `
		INSERT INTO tasks (id, title, description, status, created_at, updated_at, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	stmt, err := tx.PreparexContext(ctx, query)
	if err != nil {
		return fmt.Errorf("preparing insert statement: %w", err)
	}
	defer stmt.Close()

	fetchedAt := time.Now().UTC()
	for _, t := range tasks {
		_, err = stmt.ExecContext(ctx,
			t.ID, t.Title, t.Description, t.Status,
			t.CreatedAt.UTC(), t.UpdatedAt.UTC(), fetchedAt,
		)
		if err != nil {
			return fmt.Errorf("caching task %s: %w", t.ID, err)
		}
	}

	return tx.Commit()
}

// UpsertTask inserts or replaces a single cached task.
func (c *TaskCache) UpsertTask(ctx context.Context, t model.Task) error {
	_, err := c.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO tasks (id, title, description, status, created_at, updated_at, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Title, t.Description, t.Status,
		t.CreatedAt.UTC(), t.UpdatedAt.UTC(), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("upserting task %s: %w", t.ID, err)
	}
	return nil
}

// DeleteTask removes a task from the cache by ID.
func (c *TaskCache) DeleteTask(ctx context.Context, id string) error {
	_, err := c.db.ExecContext(ctx, "DELETE FROM tasks WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting cached task %s: %w", id, err)
	}
	return nil
}

// GetTasks retrieves the cached snapshot, newest first to match the
// server's list order.
func (c *TaskCache) GetTasks(ctx context.Context) ([]model.Task, error) {
	rows, err := c.db.QueryxContext(ctx,
		"SELECT id, title, description, status, created_at, updated_at FROM tasks ORDER BY created_at DESC",
	)
	if err != nil {
		return nil, fmt.Errorf("querying cached tasks: %w", err)
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		var t model.Task
		err := rows.Scan(
			&t.ID, &t.Title, &t.Description, &t.Status,
			&t.CreatedAt, &t.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning cached task row: %w", err)
		}
		tasks = append(tasks, t)
	}

	return tasks, rows.Err()
}
