// Package backend selects and constructs the storage backend from
// configuration.
package backend

import (
	"fmt"
	"log/slog"

	"tripsplit/internal/config"
	"tripsplit/internal/storage"
)

// Type identifies a storage backend implementation.
type Type string

const (
	SQLiteBackend   Type = "sqlite"
	PostgresBackend Type = "postgres"
	MemoryBackend   Type = "memory"
)

func (t Type) String() string { return string(t) }

func (t Type) IsValid() bool {
	switch t {
	case SQLiteBackend, PostgresBackend, MemoryBackend:
		return true
	default:
		return false
	}
}

// Open builds the store named by cfg.DataBackend. The caller owns the
// returned store and must Close it.
func Open(cfg *config.Config) (storage.Store, error) {
	backendType := Type(cfg.DataBackend)
	if !backendType.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", cfg.DataBackend)
	}

	switch backendType {
	case SQLiteBackend:
		store, err := storage.NewSQLiteStore(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize sqlite store: %w", err)
		}
		slog.Info("Initialized SQLite backend", "db_path", cfg.SQLiteDBPath)
		return store, nil

	case PostgresBackend:
		store, err := storage.NewPostgresStore(cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("initialize postgres store: %w", err)
		}
		slog.Info("Initialized Postgres backend")
		return store, nil

	case MemoryBackend:
		slog.Info("Initialized memory backend")
		return storage.NewMemoryStore(), nil

	default:
		return nil, fmt.Errorf("unsupported backend type: %s", backendType)
	}
}
