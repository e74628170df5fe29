package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/ziadkadry99/campusmap/internal/auth"
	"github.com/ziadkadry99/campusmap/internal/config"
	"github.com/ziadkadry99/campusmap/internal/db"
	"github.com/ziadkadry99/campusmap/internal/directory"
	"github.com/ziadkadry99/campusmap/internal/logging"
	"github.com/ziadkadry99/campusmap/internal/session"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `campusmap init` to create a config file", err)
	}
	if verbose {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// newLogger builds the process logger. It always writes to stderr so that
// stdout stays free for the MCP protocol.
func newLogger(cfg *config.Config) (*logging.Logger, error) {
	return logging.New(logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: os.Stderr})
}

func httpClient(cfg *config.Config) *http.Client {
	return &http.Client{Timeout: cfg.Data.FetchTimeout}
}

// loadDirectory loads the location directory named by the config.
func loadDirectory(ctx context.Context, cfg *config.Config) (*directory.Directory, error) {
	dir, err := directory.Load(ctx, httpClient(cfg), cfg.Data.Locations)
	if err != nil {
		return nil, fmt.Errorf("loading locations from %s: %w", cfg.Data.Locations, err)
	}
	return dir, nil
}

func userSource(cfg *config.Config) auth.UserSource {
	return auth.FileUsers{Location: cfg.Data.Users, Client: httpClient(cfg)}
}

// openSessions creates the session manager. The returned close func releases
// the database of the sqlite backend.
func openSessions(cfg *config.Config) (*session.Manager, func() error, error) {
	switch cfg.Session.Backend {
	case config.BackendSQLite:
		database, err := db.Open(cfg.Session.DBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("opening session database: %w", err)
		}
		return session.NewManager(session.NewSQLStore(database)), database.Close, nil
	default:
		return session.NewManager(session.NewMemoryStore()), func() error { return nil }, nil
	}
}
