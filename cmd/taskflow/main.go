package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/taskflow/internal/api"
	"github.com/nhle/taskflow/internal/app"
	"github.com/nhle/taskflow/internal/credential"
	"github.com/nhle/taskflow/internal/logging"
	"github.com/nhle/taskflow/internal/model"
	"github.com/nhle/taskflow/internal/session"
	"github.com/nhle/taskflow/internal/store"
	"github.com/nhle/taskflow/internal/tasks"
	"github.com/nhle/taskflow/internal/todo"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "taskflow:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := model.LoadConfig(model.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	// The TUI owns stdout, so logs go to a file.
	if err := logging.Init(filepath.Join(cfg.DataDir, "taskflow.log"), cfg.LogLevel); err != nil {
		return fmt.Errorf("initializing logging: %w", err)
	}
	defer logging.Close()

	creds := credential.NewKeyring(cfg.DataDir)

	// The client reads its token through the session store, which in
	// turn authenticates through the client.
	var sess *session.Store
	client := api.NewClient(cfg.API.BaseURL, api.TokenFunc(func() string {
		if sess == nil {
			return ""
		}
		return sess.Token()
	}))
	if cfg.API.TimeoutSec > 0 {
		client.SetTimeout(time.Duration(cfg.API.TimeoutSec) * time.Second)
	}

	sess = session.NewStore(client, creds, filepath.Join(cfg.DataDir, "session.json"))

	// The task cache is best effort; without it the list just starts
	// empty until the first refresh.
	var cache *store.TaskCache
	cache, err = store.NewTaskCache(filepath.Join(cfg.DataDir, "tasks.db"))
	if err != nil {
		logger := logging.Get()
		logger.Warn().Err(err).Msg("opening task cache")
		cache = nil
	} else {
		defer cache.Close()
	}

	taskCtl := tasks.NewController(client, cache)
	todoCtl := todo.NewController(todo.NewStorage(filepath.Join(cfg.DataDir, "todos.json")))

	p := tea.NewProgram(app.New(sess, taskCtl, todoCtl), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running program: %w", err)
	}

	return nil
}
