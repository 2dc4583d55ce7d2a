package transport

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ziutek/telnet"
	"go.uber.org/zap"

	"github.com/carlosrabelo/nicswitch/core/domain/entities"
)

const (
	DefaultTimeout = 30 * time.Second
	BufferSize     = 4096
	PromptLogin    = "login:"
	PromptPassword = "Password:"
	exitMarker     = "__NICSWITCH_RC__"

	defaultTelnetPort = 23
)

var exitMarkerLine = regexp.MustCompile(exitMarker + `(\d+)`)

// TelnetRunner executes commands at the shell prompt of a Telnet session
type TelnetRunner struct {
	conn         *telnet.Conn
	config       entities.HostConfig
	authSequence []entities.AuthPrompt
}

// NewTelnetRunner creates a new Telnet runner with the given configuration
func NewTelnetRunner(cfg entities.HostConfig) *TelnetRunner {
	return &TelnetRunner{config: cfg}
}

// SetAuthSequence overrides the default login:/Password: exchange
func (tr *TelnetRunner) SetAuthSequence(prompts []entities.AuthPrompt) {
	tr.authSequence = prompts
}

// Connect dials the host, logs in and synchronises with the shell
func (tr *TelnetRunner) Connect(ctx context.Context) error {
	if tr.conn != nil {
		return nil
	}
	conn, err := telnet.Dial("tcp", remoteAddr(tr.config, defaultTelnetPort))
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", tr.config.Target, err)
	}
	tr.conn = conn
	zap.S().Debugw("connected via Telnet", "target", tr.config.Target)

	prompts := tr.authSequence
	if len(prompts) == 0 {
		prompts = []entities.AuthPrompt{
			{WaitFor: PromptLogin, SendCmd: tr.config.Username + "\n"},
			{WaitFor: PromptPassword, SendCmd: tr.config.Password + "\n"},
		}
	}

	for _, p := range prompts {
		output, err := tr.readUntil(ctx, func(s string) bool { return strings.Contains(s, p.WaitFor) })
		if err != nil {
			tr.Disconnect()
			return fmt.Errorf("failed to wait for %s: %w, output: %s", p.WaitFor, err, output)
		}
		if p.SendCmd != "" {
			if _, err := tr.conn.Write([]byte(p.SendCmd)); err != nil {
				tr.Disconnect()
				return fmt.Errorf("failed to answer %s: %w", p.WaitFor, err)
			}
		}
	}

	if _, rc, err := tr.exec(ctx, "true"); err != nil || rc != 0 {
		tr.Disconnect()
		if err == nil {
			err = fmt.Errorf("exit status %d", rc)
		}
		return fmt.Errorf("login to %s failed: %w", tr.config.Target, err)
	}
	return nil
}

// readUntil reads from the Telnet connection until done reports true for the accumulated output
func (tr *TelnetRunner) readUntil(ctx context.Context, done func(string) bool) (string, error) {
	deadline := time.Now().Add(DefaultTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	tr.conn.SetReadDeadline(deadline)

	buffer := make([]byte, BufferSize)
	var output strings.Builder
	output.Grow(BufferSize)
	for {
		if err := ctx.Err(); err != nil {
			return output.String(), err
		}
		n, err := tr.conn.Read(buffer)
		if n > 0 {
			output.Write(buffer[:n])
			if done(output.String()) {
				return output.String(), nil
			}
		}
		if err != nil {
			return output.String(), fmt.Errorf("read error: %w", err)
		}
	}
}

func (tr *TelnetRunner) Disconnect() {
	if tr.conn != nil {
		tr.conn.Close()
		zap.S().Debugw("disconnected", "target", tr.config.Target)
		tr.conn = nil
	}
}

func (tr *TelnetRunner) IsConnected() bool {
	return tr.conn != nil
}

// Run sends the command line followed by an exit-code marker and returns the output in between
func (tr *TelnetRunner) Run(ctx context.Context, cmd entities.Command) (string, error) {
	if !tr.IsConnected() {
		if err := tr.Connect(ctx); err != nil {
			return "", err
		}
	}
	line := remoteCommandLine(cmd, tr.config.Elevate)
	zap.S().Debugw("running remote command", "target", tr.config.Target, "command", line)

	output, rc, err := tr.exec(ctx, line)
	if err != nil {
		tr.Disconnect()
		return "", fmt.Errorf("error executing %s: %w", cmd.String(), err)
	}
	if rc != 0 {
		return output, commandError(cmd, fmt.Errorf("exit status %d", rc), output)
	}
	return output, nil
}

func (tr *TelnetRunner) exec(ctx context.Context, line string) (string, int, error) {
	if _, err := tr.conn.Write([]byte(line + "; echo " + exitMarker + "$?\n")); err != nil {
		return "", 0, err
	}
	raw, err := tr.readUntil(ctx, exitMarkerLine.MatchString)
	if err != nil {
		return "", 0, err
	}
	output, rc, ok := parseMarkedOutput(raw)
	if !ok {
		return "", 0, fmt.Errorf("missing exit status in output")
	}
	return output, rc, nil
}

// parseMarkedOutput extracts the command output and exit code from a raw shell transcript.
// The echoed command line and anything before it are dropped.
func parseMarkedOutput(raw string) (string, int, bool) {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	loc := exitMarkerLine.FindStringSubmatchIndex(raw)
	if loc == nil {
		return "", 0, false
	}
	rc, err := strconv.Atoi(raw[loc[2]:loc[3]])
	if err != nil {
		return "", 0, false
	}

	body := raw[:loc[0]]
	if idx := strings.LastIndex(body, exitMarker+"$?"); idx >= 0 {
		body = body[idx:]
		if nl := strings.Index(body, "\n"); nl >= 0 {
			body = body[nl+1:]
		} else {
			body = ""
		}
	}
	return strings.TrimSpace(body), rc, true
}
