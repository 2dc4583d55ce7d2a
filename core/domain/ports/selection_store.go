package ports

import "context"

// SelectionStore persists the last selected adapter pair per user
type SelectionStore interface {
	// Load returns empty strings for unset values; only storage faults are errors
	Load(ctx context.Context) (nameA, nameB string, err error)
	Save(ctx context.Context, nameA, nameB string) error
}
