package nic

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/carlosrabelo/nicswitch/core/domain/entities"
	"github.com/carlosrabelo/nicswitch/core/domain/ports"
	"github.com/carlosrabelo/nicswitch/core/platform"
)

// Controller changes adapter state through the driver's enable/disable commands.
// Each action is bounded by the action timeout and followed by the settle delay.
// An interrupted settle delay does not fail an action that already completed.
type Controller struct {
	driver        platform.AdapterDriver
	runner        ports.CommandRunner
	settleDelay   time.Duration
	actionTimeout time.Duration
	sandbox       bool
	sleep         func(ctx context.Context, d time.Duration) error
}

// NewController creates a controller using the timing and sandbox settings of cfg
func NewController(driver platform.AdapterDriver, runner ports.CommandRunner, cfg entities.HostConfig) *Controller {
	return &Controller{
		driver:        driver,
		runner:        runner,
		settleDelay:   cfg.SettleDelay,
		actionTimeout: cfg.ActionTimeout,
		sandbox:       cfg.Sandbox,
		sleep:         sleepContext,
	}
}

func (c *Controller) Enable(ctx context.Context, name string) error {
	return c.apply(ctx, "enable", c.driver.EnableCommand(name))
}

func (c *Controller) Disable(ctx context.Context, name string) error {
	return c.apply(ctx, "disable", c.driver.DisableCommand(name))
}

func (c *Controller) apply(ctx context.Context, action string, cmd entities.Command) error {
	if c.sandbox {
		zap.S().Infow("dry-run: skipping command", "action", action, "command", cmd.String())
		return nil
	}

	if err := c.run(ctx, cmd); err != nil {
		return fmt.Errorf("failed to %s adapter: %w", action, err)
	}
	zap.S().Debugw("adapter action completed", "action", action, "command", cmd.String())

	if err := c.sleep(ctx, c.settleDelay); err != nil {
		zap.S().Debugw("settle delay interrupted", "action", action, "error", err)
	}
	return nil
}

func (c *Controller) run(ctx context.Context, cmd entities.Command) error {
	_, err := runBounded(ctx, c.runner, cmd, c.actionTimeout)
	return err
}

// runBounded connects the runner if needed and runs cmd, giving up after timeout when it is positive
func runBounded(ctx context.Context, runner ports.CommandRunner, cmd entities.Command, timeout time.Duration) (string, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	if !runner.IsConnected() {
		if err := runner.Connect(ctx); err != nil {
			return "", err
		}
	}
	return runner.Run(ctx, cmd)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
