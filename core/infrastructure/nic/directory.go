package nic

import (
	"context"
	"fmt"
	"time"

	"github.com/carlosrabelo/nicswitch/core/domain/entities"
	"github.com/carlosrabelo/nicswitch/core/domain/ports"
	"github.com/carlosrabelo/nicswitch/core/platform"
)

// Directory answers adapter queries by running the driver's list command
type Directory struct {
	driver  platform.AdapterDriver
	runner  ports.CommandRunner
	timeout time.Duration
}

// NewDirectory creates a directory backed by a platform driver and a command runner.
// Each query is bounded by the action timeout of cfg.
func NewDirectory(driver platform.AdapterDriver, runner ports.CommandRunner, cfg entities.HostConfig) *Directory {
	return &Directory{driver: driver, runner: runner, timeout: cfg.ActionTimeout}
}

// List returns every adapter with a connection name and its current state
func (d *Directory) List(ctx context.Context) ([]entities.Adapter, error) {
	output, err := runBounded(ctx, d.runner, d.driver.ListCommand(), d.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to list adapters: %w", err)
	}
	adapters, err := d.driver.ParseAdapters(output)
	if err != nil {
		return nil, fmt.Errorf("failed to parse adapter list: %w", err)
	}
	return adapters, nil
}

func (d *Directory) ListNames(ctx context.Context) ([]string, error) {
	adapters, err := d.List(ctx)
	if err != nil {
		return nil, err
	}
	return entities.AdapterNames(adapters), nil
}

func (d *Directory) IsConnected(ctx context.Context, name string) (bool, error) {
	adapters, err := d.List(ctx)
	if err != nil {
		return false, err
	}
	for _, a := range adapters {
		if a.Name == name {
			return a.IsConnected(), nil
		}
	}
	return false, fmt.Errorf("%w: %s", entities.ErrAdapterNotFound, name)
}
