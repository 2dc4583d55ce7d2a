package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/carlosrabelo/nicswitch/core/domain/entities"
)

// SelectionStore keeps the last adapter selection in a single SQLite row.
type SelectionStore struct {
	db *sql.DB
}

// NewSelectionStore creates a new selection store.
func NewSelectionStore(db *sql.DB) *SelectionStore {
	return &SelectionStore{db: db}
}

// Load returns the stored names, or empty strings when nothing was saved yet.
func (s *SelectionStore) Load(ctx context.Context) (string, string, error) {
	var nameA, nameB string
	err := s.db.QueryRowContext(ctx, queryGetSelection).Scan(&nameA, &nameB)
	if errors.Is(err, sql.ErrNoRows) {
		return "", "", nil
	}
	if err != nil {
		return "", "", fmt.Errorf("%w: reading selection: %w", entities.ErrPersistenceFailure, err)
	}
	return nameA, nameB, nil
}

// Save overwrites the stored selection.
func (s *SelectionStore) Save(ctx context.Context, nameA, nameB string) error {
	if _, err := s.db.ExecContext(ctx, queryUpsertSelection, nameA, nameB); err != nil {
		return fmt.Errorf("%w: writing selection: %w", entities.ErrPersistenceFailure, err)
	}
	return nil
}

func (s *SelectionStore) Close() error {
	return s.db.Close()
}
