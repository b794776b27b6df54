package main

import (
	"fmt"
	"os"

	"github.com/taskkeeper/logbook/internal/config"
	"github.com/taskkeeper/logbook/internal/db"
	"github.com/taskkeeper/logbook/internal/localstore"
	"github.com/taskkeeper/logbook/internal/logging"
	"github.com/taskkeeper/logbook/internal/task"
	"github.com/taskkeeper/logbook/internal/ui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	store, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}

	logger := logging.New(cfg.Logging, cfg.LogFile(), false)

	app, err := ui.NewApp(store, cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()
	return app.Execute()
}

// openStore selects the persistence backend from config. Callers hold a
// task.Store either way and never learn which backend serves them.
func openStore(cfg *config.Config) (task.Store, error) {
	switch cfg.Storage.Backend {
	case config.BackendFile:
		return localstore.New(cfg.Storage.DataDir)
	default:
		if err := os.MkdirAll(cfg.Storage.DataDir, 0o755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
		return db.New(cfg.Storage.DBPath, cfg.Profile.UserID)
	}
}
