package ports

import (
	"context"

	"github.com/carlosrabelo/nicswitch/core/domain/entities"
)

// AdapterDirectory defines the port for enumerating adapters and reading their state.
// Implementations must not change adapter state.
type AdapterDirectory interface {
	// ListNames returns adapters with a non-empty connection name, in enumeration order
	ListNames(ctx context.Context) ([]string, error)
	// IsConnected reports whether the named adapter is connected.
	// The error wraps entities.ErrAdapterNotFound when the name is unknown.
	IsConnected(ctx context.Context, name string) (bool, error)
	// List returns every adapter with its state from a single query
	List(ctx context.Context) ([]entities.Adapter, error)
}
