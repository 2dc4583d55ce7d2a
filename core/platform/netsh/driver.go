package netsh

import (
	"context"
	"strings"

	"github.com/carlosrabelo/nicswitch/core/domain/entities"
	"github.com/carlosrabelo/nicswitch/core/domain/ports"
)

// DriverName is the canonical platform identifier
const DriverName = "netsh"

// wmiQuery lists adapters that have a connection name as "<NetConnectionStatus>|<NetConnectionID>"
const wmiQuery = `Get-CimInstance -ClassName Win32_NetworkAdapter -Filter 'NetConnectionID IS NOT NULL' | ` +
	`ForEach-Object { '{0}|{1}' -f $_.NetConnectionStatus, $_.NetConnectionID }`

// Driver manages Windows adapters through WMI and netsh.
type Driver struct{}

// New creates a new netsh driver instance.
func New() *Driver {
	return &Driver{}
}

// Name returns the canonical platform identifier.
func (d *Driver) Name() string {
	return DriverName
}

// Detect inspects the host to determine whether it is running Windows.
func (d *Driver) Detect(ctx context.Context, runner ports.CommandRunner) (bool, error) {
	if !runner.IsConnected() {
		if err := runner.Connect(ctx); err != nil {
			return false, err
		}
	}
	output, err := runner.Run(ctx, entities.Command{Name: "cmd", Args: []string{"/c", "ver"}})
	if err != nil {
		return false, nil
	}
	return strings.Contains(strings.ToLower(output), "windows"), nil
}

// ListCommand returns the WMI query wrapped in a PowerShell invocation.
func (d *Driver) ListCommand() entities.Command {
	return entities.Command{
		Name: "powershell",
		Args: []string{"-NoProfile", "-NonInteractive", "-Command", wmiQuery},
	}
}

// ParseAdapters parses the output of ListCommand.
func (d *Driver) ParseAdapters(output string) ([]entities.Adapter, error) {
	return parseWMIAdapters(output), nil
}

// EnableCommand returns the netsh invocation that enables an adapter.
func (d *Driver) EnableCommand(name string) entities.Command {
	return setInterfaceCommand(name, "enable")
}

// DisableCommand returns the netsh invocation that disables an adapter.
func (d *Driver) DisableCommand(name string) entities.Command {
	return setInterfaceCommand(name, "disable")
}

func setInterfaceCommand(name, action string) entities.Command {
	return entities.Command{
		Name:     "netsh",
		Args:     []string{"interface", "set", "interface", name, action},
		Elevated: true,
	}
}
