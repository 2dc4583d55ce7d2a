package nic

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/carlosrabelo/nicswitch/core/domain/entities"
	"github.com/carlosrabelo/nicswitch/core/platform"
	"github.com/carlosrabelo/nicswitch/core/platform/iproute"
	"github.com/carlosrabelo/nicswitch/core/platform/netsh"
)

type mockRunner struct {
	connected  bool
	connectErr error
	output     string
	runErr     error
	commands   []entities.Command
	deadlines  []bool
}

func (m *mockRunner) Connect(ctx context.Context) error {
	if m.connectErr != nil {
		return m.connectErr
	}
	m.connected = true
	return nil
}

func (m *mockRunner) Disconnect()       { m.connected = false }
func (m *mockRunner) IsConnected() bool { return m.connected }

func (m *mockRunner) Run(ctx context.Context, cmd entities.Command) (string, error) {
	m.commands = append(m.commands, cmd)
	_, hasDeadline := ctx.Deadline()
	m.deadlines = append(m.deadlines, hasDeadline)
	return m.output, m.runErr
}

func netshDriver(t *testing.T) platform.AdapterDriver {
	t.Helper()
	d, err := platform.Get(netsh.DriverName)
	if err != nil {
		t.Fatalf("platform.Get() error = %v", err)
	}
	return d
}

func TestDirectory_List(t *testing.T) {
	runner := &mockRunner{output: "2|Wi-Fi\r\n7|Ethernet\r\n"}
	dir := NewDirectory(netshDriver(t), runner, entities.HostConfig{})

	adapters, err := dir.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	expected := []entities.Adapter{
		{Name: "Wi-Fi", State: entities.AdapterConnected},
		{Name: "Ethernet", State: entities.AdapterNotConnected},
	}
	if !reflect.DeepEqual(adapters, expected) {
		t.Errorf("List() = %+v, want %+v", adapters, expected)
	}
	if !runner.connected {
		t.Error("Expected directory to connect the runner")
	}
	if runner.commands[0].Elevated {
		t.Error("Listing must not be elevated")
	}
}

func TestDirectory_QueryTimeout(t *testing.T) {
	runner := &mockRunner{output: "2|Wi-Fi\n"}
	dir := NewDirectory(netshDriver(t), runner, entities.HostConfig{ActionTimeout: time.Minute})

	if _, err := dir.IsConnected(context.Background(), "Wi-Fi"); err != nil {
		t.Fatalf("IsConnected() error = %v", err)
	}
	if !runner.deadlines[0] {
		t.Error("Expected the adapter query to run with the action timeout")
	}

	unbounded := &mockRunner{output: "2|Wi-Fi\n"}
	dir = NewDirectory(netshDriver(t), unbounded, entities.HostConfig{})
	if _, err := dir.List(context.Background()); err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if unbounded.deadlines[0] {
		t.Error("Expected no deadline when action_timeout is zero")
	}
}

func TestDirectory_ListNames(t *testing.T) {
	runner := &mockRunner{output: "2|Wi-Fi\n7|Ethernet\n"}
	dir := NewDirectory(netshDriver(t), runner, entities.HostConfig{})

	names, err := dir.ListNames(context.Background())
	if err != nil {
		t.Fatalf("ListNames() error = %v", err)
	}
	if !reflect.DeepEqual(names, []string{"Wi-Fi", "Ethernet"}) {
		t.Errorf("ListNames() = %v", names)
	}
}

func TestDirectory_IsConnected(t *testing.T) {
	runner := &mockRunner{output: "2|Wi-Fi\n7|Ethernet\n"}
	dir := NewDirectory(netshDriver(t), runner, entities.HostConfig{})

	tests := []struct {
		name     string
		expected bool
		wantErr  error
	}{
		{"Wi-Fi", true, nil},
		{"Ethernet", false, nil},
		{"Bluetooth", false, entities.ErrAdapterNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := dir.IsConnected(context.Background(), tt.name)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("IsConnected() error = %v", err)
			}
			if got != tt.expected {
				t.Errorf("IsConnected(%s) = %v, want %v", tt.name, got, tt.expected)
			}
		})
	}
}

func TestDirectory_Errors(t *testing.T) {
	t.Run("run failure", func(t *testing.T) {
		runner := &mockRunner{runErr: errors.New("exit status 1")}
		dir := NewDirectory(netshDriver(t), runner, entities.HostConfig{})
		if _, err := dir.ListNames(context.Background()); err == nil {
			t.Error("Expected error")
		}
	})

	t.Run("connect failure", func(t *testing.T) {
		runner := &mockRunner{connectErr: errors.New("connection refused")}
		dir := NewDirectory(netshDriver(t), runner, entities.HostConfig{})
		if _, err := dir.IsConnected(context.Background(), "Wi-Fi"); err == nil {
			t.Error("Expected error")
		}
	})

	t.Run("parse failure", func(t *testing.T) {
		runner := &mockRunner{output: "Cannot find device \"eth9\"\n"}
		driver, _ := platform.Get(iproute.DriverName)
		dir := NewDirectory(driver, runner, entities.HostConfig{})
		if _, err := dir.List(context.Background()); err == nil {
			t.Error("Expected parse error")
		}
	})
}

func newTestController(t *testing.T, runner *mockRunner, cfg entities.HostConfig) (*Controller, *[]time.Duration) {
	t.Helper()
	c := NewController(netshDriver(t), runner, cfg)
	var slept []time.Duration
	c.sleep = func(ctx context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}
	return c, &slept
}

func TestController_EnableDisable(t *testing.T) {
	runner := &mockRunner{}
	c, slept := newTestController(t, runner, entities.HostConfig{SettleDelay: time.Second, ActionTimeout: time.Minute})

	if err := c.Disable(context.Background(), "Wi-Fi"); err != nil {
		t.Fatalf("Disable() error = %v", err)
	}
	if err := c.Enable(context.Background(), "Ethernet 2"); err != nil {
		t.Fatalf("Enable() error = %v", err)
	}

	if len(runner.commands) != 2 {
		t.Fatalf("Expected 2 commands, got %d", len(runner.commands))
	}
	if got := runner.commands[0].String(); got != "netsh interface set interface Wi-Fi disable" {
		t.Errorf("Unexpected disable command: %s", got)
	}
	if got := runner.commands[1].String(); got != `netsh interface set interface "Ethernet 2" enable` {
		t.Errorf("Unexpected enable command: %s", got)
	}
	for i, cmd := range runner.commands {
		if !cmd.Elevated {
			t.Errorf("Command %d should be elevated", i)
		}
		if !runner.deadlines[i] {
			t.Errorf("Command %d should run with the action timeout", i)
		}
	}
	if !reflect.DeepEqual(*slept, []time.Duration{time.Second, time.Second}) {
		t.Errorf("Expected settle delay after each action, got %v", *slept)
	}
}

func TestController_NoTimeout(t *testing.T) {
	runner := &mockRunner{}
	c, _ := newTestController(t, runner, entities.HostConfig{})

	if err := c.Enable(context.Background(), "Wi-Fi"); err != nil {
		t.Fatalf("Enable() error = %v", err)
	}
	if runner.deadlines[0] {
		t.Error("Expected no deadline when action_timeout is zero")
	}
}

func TestController_Failure(t *testing.T) {
	runner := &mockRunner{runErr: errors.New("exit status 1: The requested operation requires elevation")}
	c, slept := newTestController(t, runner, entities.HostConfig{SettleDelay: time.Second})

	err := c.Disable(context.Background(), "Wi-Fi")
	if err == nil {
		t.Fatal("Expected error")
	}
	if !strings.Contains(err.Error(), "disable") {
		t.Errorf("Expected action in error, got %v", err)
	}
	if len(*slept) != 0 {
		t.Error("No settle delay expected after a failed action")
	}
}

func TestController_InterruptedSettleDelay(t *testing.T) {
	runner := &mockRunner{}
	c := NewController(netshDriver(t), runner, entities.HostConfig{SettleDelay: time.Hour})

	ctx, cancel := context.WithCancel(context.Background())
	c.sleep = func(ctx context.Context, d time.Duration) error {
		cancel()
		return sleepContext(ctx, d)
	}

	if err := c.Disable(ctx, "Wi-Fi"); err != nil {
		t.Errorf("Expected completed action to succeed despite the interrupted delay, got %v", err)
	}
	if len(runner.commands) != 1 {
		t.Errorf("Expected the disable command to run once, got %d", len(runner.commands))
	}
}

func TestController_Sandbox(t *testing.T) {
	runner := &mockRunner{}
	c, slept := newTestController(t, runner, entities.HostConfig{Sandbox: true, SettleDelay: time.Second})

	if err := c.Disable(context.Background(), "Wi-Fi"); err != nil {
		t.Fatalf("Disable() error = %v", err)
	}
	if len(runner.commands) != 0 {
		t.Errorf("Sandbox must not run commands, got %+v", runner.commands)
	}
	if len(*slept) != 0 {
		t.Error("Sandbox must not wait for the settle delay")
	}
}

func TestSleepContext(t *testing.T) {
	if err := sleepContext(context.Background(), 0); err != nil {
		t.Errorf("Expected nil for zero delay, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := sleepContext(ctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestResolveDriver(t *testing.T) {
	driver, err := resolveDriver(context.Background(), entities.HostConfig{Platform: "iproute"}, &mockRunner{})
	if err != nil || driver.Name() != "iproute" {
		t.Errorf("resolveDriver(iproute) = %v, %v", driver, err)
	}

	if _, err := resolveDriver(context.Background(), entities.HostConfig{Platform: "ifconfig"}, &mockRunner{}); err == nil {
		t.Error("Expected error for unknown platform")
	}

	runner := &mockRunner{output: "Linux\n"}
	driver, err = resolveDriver(context.Background(), entities.HostConfig{Platform: "auto", Transport: "ssh", Target: "10.0.0.1"}, runner)
	if err != nil {
		t.Fatalf("resolveDriver(auto, ssh) error = %v", err)
	}
	if driver.Name() != "iproute" {
		t.Errorf("Expected iproute to be detected, got %s", driver.Name())
	}
}

func TestOpen_SNMP(t *testing.T) {
	dir, ctrl, err := Open(context.Background(), entities.HostConfig{Platform: "snmp", Target: "10.0.0.1"})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if dir == nil || ctrl == nil {
		t.Fatal("Expected directory and controller")
	}
}
