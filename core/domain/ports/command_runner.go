package ports

import (
	"context"

	"github.com/carlosrabelo/nicswitch/core/domain/entities"
)

// CommandRunner defines the port for executing driver commands on a host
type CommandRunner interface {
	Connect(ctx context.Context) error
	Disconnect()
	IsConnected() bool
	// Run executes the command and returns its standard output.
	// A non-zero exit status is an error.
	Run(ctx context.Context, cmd entities.Command) (string, error)
}
