package transport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"

	"go.uber.org/zap"
	"golang.org/x/crypto/ssh"

	"github.com/carlosrabelo/nicswitch/core/domain/entities"
)

const defaultSSHPort = 22

// SSHRunner executes commands on a remote host, one SSH session per command
type SSHRunner struct {
	config entities.HostConfig
	client *ssh.Client
}

// NewSSHRunner creates a new SSH runner with the given configuration
func NewSSHRunner(cfg entities.HostConfig) *SSHRunner {
	return &SSHRunner{config: cfg}
}

func (sr *SSHRunner) Connect(ctx context.Context) error {
	if sr.IsConnected() {
		return nil
	}
	addr := remoteAddr(sr.config, defaultSSHPort)
	sshConfig := &ssh.ClientConfig{
		User:            sr.config.Username,
		Auth:            []ssh.AuthMethod{ssh.Password(sr.config.Password)},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         DefaultTimeout,
	}

	dialer := &net.Dialer{Timeout: DefaultTimeout}
	rawConn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to connect to %s via SSH: %w", sr.config.Target, err)
	}

	clientConn, chans, reqs, err := ssh.NewClientConn(rawConn, addr, sshConfig)
	if err != nil {
		rawConn.Close()
		return fmt.Errorf("failed to establish SSH client connection to %s: %w", sr.config.Target, err)
	}

	sr.client = ssh.NewClient(clientConn, chans, reqs)
	zap.S().Debugw("connected via SSH", "target", sr.config.Target)
	return nil
}

func (sr *SSHRunner) Disconnect() {
	if sr.client != nil {
		sr.client.Close()
		zap.S().Debugw("disconnected", "target", sr.config.Target)
		sr.client = nil
	}
}

func (sr *SSHRunner) IsConnected() bool {
	return sr.client != nil
}

// Run executes the command in a fresh session. A non-zero exit status is an error.
func (sr *SSHRunner) Run(ctx context.Context, cmd entities.Command) (string, error) {
	if !sr.IsConnected() {
		if err := sr.Connect(ctx); err != nil {
			return "", err
		}
	}

	session, err := sr.client.NewSession()
	if err != nil {
		return "", fmt.Errorf("failed to create SSH session for %s: %w", sr.config.Target, err)
	}
	defer session.Close()

	var stdout, stderr bytes.Buffer
	session.Stdout = &stdout
	session.Stderr = &stderr

	line := remoteCommandLine(cmd, sr.config.Elevate)
	zap.S().Debugw("running remote command", "target", sr.config.Target, "command", line)

	done := make(chan error, 1)
	go func() { done <- session.Run(line) }()

	select {
	case <-ctx.Done():
		_ = session.Signal(ssh.SIGKILL)
		return "", fmt.Errorf("%s: %w", cmd.String(), ctx.Err())
	case err := <-done:
		if err != nil {
			var exitErr *ssh.ExitError
			if errors.As(err, &exitErr) {
				return stdout.String(), commandError(cmd, fmt.Errorf("exit status %d", exitErr.ExitStatus()), failureOutput(stderr.String(), stdout.String()))
			}
			return stdout.String(), commandError(cmd, err, stderr.String())
		}
	}
	return stdout.String(), nil
}

// remoteCommandLine renders a command for a remote shell, prefixed with sudo when it needs elevation
func remoteCommandLine(cmd entities.Command, elevate bool) string {
	line := cmd.String()
	if cmd.Elevated && elevate {
		line = "sudo -n " + line
	}
	return line
}

func remoteAddr(cfg entities.HostConfig, defaultPort int) string {
	port := cfg.Port
	if port == 0 {
		port = defaultPort
	}
	return net.JoinHostPort(cfg.Target, strconv.Itoa(port))
}
