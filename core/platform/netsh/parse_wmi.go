package netsh

import (
	"strconv"
	"strings"

	"github.com/carlosrabelo/nicswitch/core/domain/entities"
)

// netConnectionStatusConnected is the Win32_NetworkAdapter NetConnectionStatus value for "Connected"
const netConnectionStatusConnected = 2

func parseWMIAdapters(output string) []entities.Adapter {
	adapters := make([]entities.Adapter, 0)
	seen := make(map[string]bool)
	for _, line := range strings.Split(output, "\n") {
		trimmed := strings.TrimRight(line, "\r")
		if strings.TrimSpace(trimmed) == "" {
			continue
		}
		statusField, name, found := strings.Cut(trimmed, "|")
		if !found {
			continue
		}
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		adapters = append(adapters, entities.Adapter{
			Name:  name,
			State: entities.StateFromConnected(isConnectedStatus(statusField)),
		})
	}
	return adapters
}

func isConnectedStatus(field string) bool {
	status, err := strconv.Atoi(strings.TrimSpace(field))
	if err != nil {
		return false
	}
	return status == netConnectionStatusConnected
}
