package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/carlosrabelo/nicswitch/core/domain/entities"
	"github.com/carlosrabelo/nicswitch/core/domain/ports"
	"github.com/carlosrabelo/nicswitch/core/infrastructure/store/migrations"
)

const (
	BackendAuto     = "auto"
	BackendRegistry = "registry"
	BackendSQLite   = "sqlite"

	appDirName = "nicswitch"
	dbFileName = "nicswitch.db"
)

// Store is a selection store that holds resources until closed
type Store interface {
	ports.SelectionStore
	Close() error
}

// Open creates the selection store configured by cfg
func Open(ctx context.Context, cfg entities.StoreConfig) (Store, error) {
	backend := cfg.Backend
	if backend == "" || backend == BackendAuto {
		backend = defaultBackend()
	}

	switch backend {
	case BackendRegistry:
		s, err := NewRegistryStore(cfg.RegistryKey)
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendSQLite:
		s, err := openSQLite(ctx, cfg.Path)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown store backend: %s", cfg.Backend)
	}
}

func openSQLite(ctx context.Context, path string) (*SelectionStore, error) {
	if path == "" {
		var err error
		if path, err = DefaultPath(); err != nil {
			return nil, err
		}
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("%w: creating %s: %w", entities.ErrPersistenceFailure, filepath.Dir(path), err)
		}
	}

	db, err := NewDB(path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %w", entities.ErrPersistenceFailure, path, err)
	}
	if err := migrations.Run(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %w", entities.ErrPersistenceFailure, err)
	}
	zap.S().Debugw("selection store opened", "backend", BackendSQLite, "path", path)
	return NewSelectionStore(db), nil
}

// DefaultPath returns the per-user database location
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolving user config dir: %w", err)
	}
	return filepath.Join(dir, appDirName, dbFileName), nil
}
