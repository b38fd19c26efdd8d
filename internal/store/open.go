package store

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"

	"gohan-planner/internal/config"
)

// NewBackendFromConfig picks the backend named by cfg.StoreBackend. db is only
// used by the sqlite backend and may be nil otherwise.
func NewBackendFromConfig(ctx context.Context, cfg *config.Config, db *sql.DB) (Backend, error) {
	switch cfg.StoreBackend {
	case config.StoreSQLite:
		if db == nil {
			return nil, fmt.Errorf("sqlite store requires an open database")
		}
		return NewSQLiteBackend(db), nil
	case config.StoreRedis:
		return NewRedisBackend(ctx, cfg.RedisURL)
	case config.StoreFile:
		return NewFileBackend(filepath.Join(cfg.DataDir, "records"))
	case config.StoreMemory:
		return NewMemoryBackend(), nil
	case config.StoreNone:
		return Unavailable{}, nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}
