package entities

// AdapterState is the link state of an adapter as reported by the platform
type AdapterState string

const (
	AdapterConnected    AdapterState = "connected"
	AdapterNotConnected AdapterState = "not_connected"
	// AdapterUnknown is only produced by status refreshes whose query failed
	AdapterUnknown AdapterState = "unknown"
)

// Adapter is a network interface identified by its connection name
type Adapter struct {
	Name  string       `json:"name"`
	State AdapterState `json:"state"`
}

// StateFromConnected maps a directory answer to an AdapterState
func StateFromConnected(connected bool) AdapterState {
	if connected {
		return AdapterConnected
	}
	return AdapterNotConnected
}

// IsConnected reports whether the adapter was seen connected
func (a Adapter) IsConnected() bool {
	return a.State == AdapterConnected
}

// AdapterNames returns the names of the given adapters, preserving order
func AdapterNames(adapters []Adapter) []string {
	names := make([]string, 0, len(adapters))
	for _, a := range adapters {
		names = append(names, a.Name)
	}
	return names
}
