package iproute

import (
	"reflect"
	"testing"

	"github.com/carlosrabelo/nicswitch/core/domain/entities"
)

const sampleLinks = `1: lo: <LOOPBACK,UP,LOWER_UP> mtu 65536 qdisc noqueue state UNKNOWN mode DEFAULT group default qlen 1000\    link/loopback 00:00:00:00:00:00 brd 00:00:00:00:00:00
2: enp3s0: <NO-CARRIER,BROADCAST,MULTICAST,UP> mtu 1500 qdisc fq_codel state DOWN mode DEFAULT group default qlen 1000\    link/ether 3c:7c:3f:00:00:01 brd ff:ff:ff:ff:ff:ff
3: wlp2s0: <BROADCAST,MULTICAST,UP,LOWER_UP> mtu 1500 qdisc noqueue state UP mode DORMANT group default qlen 1000\    link/ether 70:9c:d1:00:00:02 brd ff:ff:ff:ff:ff:ff
4: veth1a2b@if3: <BROADCAST,MULTICAST> mtu 1500 qdisc noop state DOWN mode DEFAULT group default qlen 1000\    link/ether 02:42:ac:00:00:03 brd ff:ff:ff:ff:ff:ff link-netnsid 0
`

func TestParseLinks(t *testing.T) {
	got, err := parseLinks(sampleLinks)
	if err != nil {
		t.Fatalf("parseLinks() error = %v", err)
	}

	expected := []entities.Adapter{
		{Name: "enp3s0", State: entities.AdapterNotConnected},
		{Name: "wlp2s0", State: entities.AdapterConnected},
		{Name: "veth1a2b", State: entities.AdapterNotConnected},
	}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("parseLinks() = %+v, want %+v", got, expected)
	}
}

func TestParseLinks_Empty(t *testing.T) {
	got, err := parseLinks("\n")
	if err != nil {
		t.Fatalf("parseLinks() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Expected no adapters, got %+v", got)
	}
}

func TestParseLinks_Malformed(t *testing.T) {
	if _, err := parseLinks("Device \"foo\" does not exist.\n"); err == nil {
		t.Error("Expected error for unexpected output")
	}
}

func TestParseLinks_MissingState(t *testing.T) {
	got, err := parseLinks("5: tun0: <POINTOPOINT,UP> mtu 1500 qdisc noop\n")
	if err != nil {
		t.Fatalf("parseLinks() error = %v", err)
	}
	if len(got) != 1 || got[0].State != entities.AdapterNotConnected {
		t.Errorf("Expected tun0 to be not connected, got %+v", got)
	}
}

func TestDriverCommands(t *testing.T) {
	d := New()

	tests := []struct {
		name     string
		cmd      entities.Command
		expected []string
	}{
		{"enable", d.EnableCommand("enp3s0"), []string{"link", "set", "dev", "enp3s0", "up"}},
		{"disable", d.DisableCommand("wlp2s0"), []string{"link", "set", "dev", "wlp2s0", "down"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.cmd.Name != "ip" || !tt.cmd.Elevated {
				t.Errorf("Unexpected command %+v", tt.cmd)
			}
			if !reflect.DeepEqual(tt.cmd.Args, tt.expected) {
				t.Errorf("args = %v, want %v", tt.cmd.Args, tt.expected)
			}
		})
	}

	if d.ListCommand().Elevated {
		t.Error("Listing must not require elevation")
	}
}
