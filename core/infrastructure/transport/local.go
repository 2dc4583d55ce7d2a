package transport

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"go.uber.org/zap"

	"github.com/carlosrabelo/nicswitch/core/domain/entities"
)

// LocalRunner executes commands on this machine
type LocalRunner struct {
	elevate   bool
	connected bool
}

// NewLocalRunner creates a runner for the local host
func NewLocalRunner(cfg entities.HostConfig) *LocalRunner {
	return &LocalRunner{elevate: cfg.Elevate}
}

// Connect is a no-op for local execution
func (lr *LocalRunner) Connect(ctx context.Context) error {
	lr.connected = true
	return nil
}

func (lr *LocalRunner) Disconnect() {
	lr.connected = false
}

func (lr *LocalRunner) IsConnected() bool {
	return lr.connected
}

// Run starts the command, waits for it and returns its standard output.
// Elevated commands go through the platform elevation mechanism when elevation is enabled.
func (lr *LocalRunner) Run(ctx context.Context, cmd entities.Command) (string, error) {
	name, args := cmd.Name, cmd.Args
	if cmd.Elevated && lr.elevate {
		name, args = elevate(cmd)
	}

	zap.S().Debugw("running command", "command", cmd.String(), "elevated", cmd.Elevated && lr.elevate)

	c := exec.CommandContext(ctx, name, args...)
	hideWindow(c)
	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	if err := c.Run(); err != nil {
		if ctx.Err() != nil {
			return stdout.String(), fmt.Errorf("%s: %w", cmd.String(), ctx.Err())
		}
		return stdout.String(), commandError(cmd, err, failureOutput(stderr.String(), stdout.String()))
	}
	return stdout.String(), nil
}

// failureOutput picks the text explaining a failed command. netsh reports its errors on stdout.
func failureOutput(stderr, stdout string) string {
	if strings.TrimSpace(stderr) != "" {
		return stderr
	}
	return stdout
}

func commandError(cmd entities.Command, err error, stderr string) error {
	stderr = strings.TrimSpace(stderr)
	if stderr == "" {
		return fmt.Errorf("%s: %w", cmd.String(), err)
	}
	return fmt.Errorf("%s: %w: %s", cmd.String(), err, stderr)
}

// runAsArgs builds a PowerShell script that starts the command through the UAC prompt
// without a window, waits for it and exits with its exit code.
// A declined prompt leaves no process and exits 1.
func runAsArgs(cmd entities.Command) []string {
	quoted := make([]string, 0, len(cmd.Args))
	for _, arg := range cmd.Args {
		quoted = append(quoted, quoteWindowsArg(arg))
	}
	script := fmt.Sprintf(
		"$ErrorActionPreference = 'Stop'; "+
			"$p = Start-Process -FilePath %s -ArgumentList %s -Verb RunAs -WindowStyle Hidden -Wait -PassThru; "+
			"if (-not $p) { exit 1 }; exit $p.ExitCode",
		psQuote(cmd.Name), psQuote(strings.Join(quoted, " ")),
	)
	return []string{"-NoProfile", "-NonInteractive", "-Command", script}
}

func sudoArgs(cmd entities.Command) []string {
	return append([]string{"-n", cmd.Name}, cmd.Args...)
}

func quoteWindowsArg(arg string) string {
	if arg != "" && !strings.ContainsAny(arg, " \t\"") {
		return arg
	}
	return `"` + strings.ReplaceAll(arg, `"`, `\"`) + `"`
}

// psQuote wraps a value in a PowerShell single-quoted string literal
func psQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
