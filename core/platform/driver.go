package platform

import (
	"context"
	"fmt"
	"strings"

	"github.com/carlosrabelo/nicswitch/core/domain/entities"
	"github.com/carlosrabelo/nicswitch/core/domain/ports"
	"github.com/carlosrabelo/nicswitch/core/platform/iproute"
	"github.com/carlosrabelo/nicswitch/core/platform/netsh"
)

// AdapterDriver defines the behaviour required to manage adapters on an operating system
// through its command-line tools.
type AdapterDriver interface {
	Name() string
	Detect(ctx context.Context, runner ports.CommandRunner) (bool, error)

	// ListCommand returns the query that enumerates adapters with their state
	ListCommand() entities.Command
	// ParseAdapters turns the ListCommand output into adapters, in enumeration order
	ParseAdapters(output string) ([]entities.Adapter, error)

	EnableCommand(name string) entities.Command
	DisableCommand(name string) entities.Command
}

var registry = []AdapterDriver{
	netsh.New(),
	iproute.New(),
}

// Get returns a driver by normalized platform name.
func Get(name string) (AdapterDriver, error) {
	normalized := normalizeName(name)
	for _, driver := range registry {
		if driver.Name() == normalized {
			return driver, nil
		}
	}
	return nil, fmt.Errorf("unknown adapter platform: %s", name)
}

// Available returns all registered drivers.
func Available() []AdapterDriver {
	out := make([]AdapterDriver, len(registry))
	copy(out, registry)
	return out
}

// Default returns the driver matching a GOOS value for local execution.
func Default(goos string) (AdapterDriver, error) {
	switch goos {
	case "windows":
		return Get(netsh.DriverName)
	case "linux":
		return Get(iproute.DriverName)
	default:
		return nil, fmt.Errorf("no adapter platform available for %s", goos)
	}
}

// Detect tries all registered drivers until one matches.
func Detect(ctx context.Context, runner ports.CommandRunner) (AdapterDriver, error) {
	var lastErr error
	for _, driver := range registry {
		matched, err := driver.Detect(ctx, runner)
		if err != nil {
			lastErr = err
			continue
		}
		if matched {
			return driver, nil
		}
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return nil, fmt.Errorf("unable to detect adapter platform")
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
