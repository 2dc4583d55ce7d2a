package iproute

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/carlosrabelo/nicswitch/core/domain/entities"
)

// linkLine matches one-line `ip -o link show` records:
// "2: enp3s0: <BROADCAST,MULTICAST,UP,LOWER_UP> mtu 1500 ... state UP mode DEFAULT ..."
var linkLine = regexp.MustCompile(`^\d+:\s+([^:]+):\s+<([^>]*)>(.*)$`)

var operState = regexp.MustCompile(`\bstate\s+(\S+)`)

func parseLinks(output string) ([]entities.Adapter, error) {
	adapters := make([]entities.Adapter, 0)
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		m := linkLine.FindStringSubmatch(line)
		if m == nil {
			return nil, fmt.Errorf("unexpected ip link output: %q", line)
		}
		if hasFlag(m[2], "LOOPBACK") {
			continue
		}

		name := strings.TrimSpace(m[1])
		if idx := strings.Index(name, "@"); idx >= 0 {
			name = name[:idx]
		}

		connected := false
		if s := operState.FindStringSubmatch(m[3]); s != nil {
			connected = s[1] == "UP"
		}
		adapters = append(adapters, entities.Adapter{
			Name:  name,
			State: entities.StateFromConnected(connected),
		})
	}
	return adapters, nil
}

func hasFlag(flags, flag string) bool {
	for _, f := range strings.Split(flags, ",") {
		if f == flag {
			return true
		}
	}
	return false
}
