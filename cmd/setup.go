package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"devpet/internal/config"
	"devpet/internal/game"
	"devpet/internal/notify"
	"devpet/internal/store"
)

const (
	configFile   = "config.yaml"
	sqliteFile   = "devpet.db"
	logFile      = "devpet.log"
	closeTimeout = 5 * time.Second
)

// loadConfig reads the tuning file and applies flag overrides on top.
func loadConfig() (config.Config, error) {
	dir := dataDir
	if dir == "" {
		def, err := store.DefaultDir()
		if err != nil {
			return config.Config{}, err
		}
		dir = def
	}

	path := configPath
	if path == "" {
		path = filepath.Join(dir, configFile)
	}
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}

	if cfg.Store.Dir == "" || dataDir != "" {
		cfg.Store.Dir = dir
	}
	if storeKind != "" {
		cfg.Store.Backend = storeKind
	}
	if dsn != "" {
		cfg.Store.DSN = dsn
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// openGateway builds the configured backend. The returned func releases it.
func openGateway(cfg config.Store) (store.Gateway, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Backend {
	case config.BackendMemory:
		return store.NewMemory(), noop, nil
	case config.BackendSQLite:
		if err := os.MkdirAll(cfg.Dir, 0755); err != nil {
			return nil, nil, fmt.Errorf("create state directory: %w", err)
		}
		db, err := store.OpenSQLite(filepath.Join(cfg.Dir, sqliteFile))
		if err != nil {
			return nil, nil, err
		}
		return db, db.Close, nil
	case config.BackendPostgres:
		pg, err := store.OpenPostgres(cfg.DSN)
		if err != nil {
			return nil, nil, err
		}
		return pg, pg.Close, nil
	case config.BackendFile:
		f, err := store.NewFile(cfg.Dir)
		if err != nil {
			return nil, nil, err
		}
		return f, noop, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}

// openEngine loads the saved pet. The returned func flushes pending saves
// and closes the backend; call it exactly once.
func openEngine(ctx context.Context, cfg config.Config, sink notify.Sink) (*game.Engine, func(), error) {
	gw, closeGateway, err := openGateway(cfg.Store)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s store: %w", cfg.Store.Backend, err)
	}

	engine := game.Load(ctx, gw, game.Options{
		Config: cfg,
		Sink:   sink,
		Writer: store.NewWriter(gw, cfg.Store.Debounce),
	})

	shutdown := func() {
		ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
		defer cancel()
		if err := engine.Close(ctx); err != nil {
			logrus.WithError(err).Error("Failed to flush state on exit")
		}
		if err := closeGateway(); err != nil {
			logrus.WithError(err).Error("Failed to close store")
		}
	}
	return engine, shutdown, nil
}

// logToFile sends logrus output to <dir>/devpet.log while the terminal UI
// owns the screen. The returned func restores stderr.
func logToFile(dir string) (func(), error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create state directory: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(dir, logFile), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	logrus.SetOutput(f)
	return func() {
		logrus.SetOutput(os.Stderr)
		if err := f.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
			fmt.Fprintln(os.Stderr, "close log file:", err)
		}
	}, nil
}
