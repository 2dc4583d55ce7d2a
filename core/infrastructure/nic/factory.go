package nic

import (
	"context"
	"fmt"
	"runtime"

	"go.uber.org/zap"

	"github.com/carlosrabelo/nicswitch/core/domain/entities"
	"github.com/carlosrabelo/nicswitch/core/domain/ports"
	"github.com/carlosrabelo/nicswitch/core/infrastructure/transport"
	"github.com/carlosrabelo/nicswitch/core/platform"
	"github.com/carlosrabelo/nicswitch/core/platform/snmp"
)

// Open resolves the platform and transport configured in cfg and returns the matching
// directory and controller
func Open(ctx context.Context, cfg entities.HostConfig) (ports.AdapterDirectory, ports.AdapterController, error) {
	if cfg.Platform == snmp.DriverName {
		device := snmp.NewDevice(cfg)
		return device, device, nil
	}

	runner := transport.Get(cfg)
	driver, err := resolveDriver(ctx, cfg, runner)
	if err != nil {
		return nil, nil, err
	}
	zap.S().Debugw("adapter platform selected", "platform", driver.Name(), "transport", cfg.Transport)

	return NewDirectory(driver, runner, cfg), NewController(driver, runner, cfg), nil
}

func resolveDriver(ctx context.Context, cfg entities.HostConfig, runner ports.CommandRunner) (platform.AdapterDriver, error) {
	if cfg.Platform != "" && cfg.Platform != "auto" {
		return platform.Get(cfg.Platform)
	}
	if !cfg.IsRemote() {
		return platform.Default(runtime.GOOS)
	}
	driver, err := platform.Detect(ctx, runner)
	if err != nil {
		return nil, fmt.Errorf("failed to detect platform on %s: %w", cfg.Target, err)
	}
	return driver, nil
}
