package iproute

import (
	"context"
	"strings"

	"github.com/carlosrabelo/nicswitch/core/domain/entities"
	"github.com/carlosrabelo/nicswitch/core/domain/ports"
)

// DriverName is the canonical platform identifier
const DriverName = "iproute"

// Driver manages Linux links through iproute2.
type Driver struct{}

// New creates a new iproute driver instance.
func New() *Driver {
	return &Driver{}
}

// Name returns the canonical platform identifier.
func (d *Driver) Name() string {
	return DriverName
}

// Detect inspects the host to determine whether it is running Linux.
func (d *Driver) Detect(ctx context.Context, runner ports.CommandRunner) (bool, error) {
	if !runner.IsConnected() {
		if err := runner.Connect(ctx); err != nil {
			return false, err
		}
	}
	output, err := runner.Run(ctx, entities.Command{Name: "uname", Args: []string{"-s"}})
	if err != nil {
		return false, nil
	}
	return strings.Contains(strings.ToLower(output), "linux"), nil
}

func (d *Driver) ListCommand() entities.Command {
	return entities.Command{Name: "ip", Args: []string{"-o", "link", "show"}}
}

func (d *Driver) ParseAdapters(output string) ([]entities.Adapter, error) {
	return parseLinks(output)
}

func (d *Driver) EnableCommand(name string) entities.Command {
	return linkSetCommand(name, "up")
}

func (d *Driver) DisableCommand(name string) entities.Command {
	return linkSetCommand(name, "down")
}

func linkSetCommand(name, state string) entities.Command {
	return entities.Command{
		Name:     "ip",
		Args:     []string{"link", "set", "dev", name, state},
		Elevated: true,
	}
}
