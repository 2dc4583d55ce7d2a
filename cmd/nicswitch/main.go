package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"

	"github.com/carlosrabelo/nicswitch/core/domain/entities"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	rootCmd, cleanup := newRootCommand(openApp)
	err := rootCmd.ExecuteContext(ctx)
	cleanup()
	if err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, entities.ToggleFailure(err).String())
		cancel()
		os.Exit(1)
	}
}

func versionString() string {
	return fmt.Sprintf("nicswitch %s (built %s)", version, buildTime)
}
