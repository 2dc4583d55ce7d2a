package ports

import "context"

// AdapterController defines the port for changing adapter state.
// Both calls block until the action completed and the settle delay elapsed.
type AdapterController interface {
	Enable(ctx context.Context, name string) error
	Disable(ctx context.Context, name string) error
}
