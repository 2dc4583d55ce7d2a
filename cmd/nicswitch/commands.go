package main

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/carlosrabelo/nicswitch/core/domain/entities"
	"github.com/carlosrabelo/nicswitch/core/infrastructure/server"
)

func newListCommand(get func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List adapters and their connection state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			adapters, err := get().svc.Adapters(cmd.Context())
			if err != nil {
				return err
			}
			printAdapters(cmd.OutOrStdout(), adapters)
			return nil
		},
	}
}

func newStatusCommand(get func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status [INTERFACE1 INTERFACE2]",
		Short: "Show the state of the selected adapters",
		Args:  pairArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sel, err := selectionFromArgs(cmd, get(), args)
			if err != nil {
				return err
			}
			printAdapters(cmd.OutOrStdout(), get().svc.Status(cmd.Context(), sel.Interface1, sel.Interface2))
			return nil
		},
	}
}

func newSelectCommand(get func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "select INTERFACE1 INTERFACE2",
		Short: "Remember the pair of adapters to toggle",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sel := entities.Selection{Interface1: args[0], Interface2: args[1]}
			if err := get().svc.SaveSelection(cmd.Context(), sel); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Selected: %s, %s\n", sel.Interface1, sel.Interface2)
			return nil
		},
	}
}

func newSwitchCommand(get func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "switch [INTERFACE1 INTERFACE2]",
		Short: "Disable the active adapter of the pair and enable the other",
		Long: `Disable the active adapter of the pair and enable the other.

Only the state of INTERFACE1 decides the direction: when it is connected it is
disabled and INTERFACE2 enabled, otherwise INTERFACE2 is disabled and INTERFACE1
enabled. Without arguments the stored selection is used.`,
		Args: pairArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := get().svc
			var result entities.ToggleResult
			if len(args) == 2 {
				result = svc.Switch(cmd.Context(), entities.Selection{Interface1: args[0], Interface2: args[1]})
			} else {
				result = svc.SwitchStored(cmd.Context())
			}
			if !result.Success() {
				return result.Err
			}
			printResult(cmd.OutOrStdout(), result)
			return nil
		},
	}
}

func newWatchCommand(get func() *app) *cobra.Command {
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "watch [INTERFACE1 INTERFACE2]",
		Short: "Print the state of the selected adapters periodically",
		Args:  pairArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			sel, err := selectionFromArgs(cmd, a, args)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("interval") {
				interval = a.cfg.RefreshInterval
			}
			out := cmd.OutOrStdout()
			return a.svc.Watch(cmd.Context(), interval, []string{sel.Interface1, sel.Interface2}, func(adapters []entities.Adapter) {
				printStatusLine(out, time.Now(), adapters)
			})
		},
	}

	registerNamedFlags(cmd, "Watch", func(fs *pflag.FlagSet) {
		fs.DurationVar(&interval, "interval", 5*time.Second, "Refresh interval (overrides refresh_interval)")
	})
	return cmd
}

func newServeCommand(get func() *app) *cobra.Command {
	var address, mode string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the local HTTP API",
		Example: `  # Serve on the default address
  nicswitch serve

  # Listen on all interfaces with verbose gin logging
  nicswitch serve --server-address 0.0.0.0:8642 --server-mode debug`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			serverCfg := a.cfg.Server
			if cmd.Flags().Changed("server-address") {
				serverCfg.Address = address
			}
			if cmd.Flags().Changed("server-mode") {
				serverCfg.Mode = mode
			}
			switch serverCfg.Mode {
			case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
			default:
				return fmt.Errorf("invalid server mode %q: must be debug, release or test", serverCfg.Mode)
			}

			h := server.NewHandler(a.svc)
			srv := server.NewServer(serverCfg, h.Register)
			return srv.Start(cmd.Context())
		},
	}

	registerNamedFlags(cmd, "Server", func(fs *pflag.FlagSet) {
		fs.StringVar(&address, "server-address", "127.0.0.1:8642", "Address the HTTP API listens on (overrides server.address)")
		fs.StringVar(&mode, "server-mode", "release", "Gin mode: debug, release or test (overrides server.mode)")
	})
	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), versionString())
		},
	}
}

// pairArgs accepts either no adapter names or exactly two
func pairArgs(cmd *cobra.Command, args []string) error {
	if len(args) != 0 && len(args) != 2 {
		return fmt.Errorf("expected two adapter names or none, got %d", len(args))
	}
	return nil
}

func selectionFromArgs(cmd *cobra.Command, a *app, args []string) (entities.Selection, error) {
	if len(args) == 2 {
		sel := entities.Selection{Interface1: args[0], Interface2: args[1]}
		return sel, sel.Validate()
	}
	sel, err := a.svc.RestoreSelection(cmd.Context())
	if err != nil {
		return entities.Selection{}, err
	}
	return sel, sel.Validate()
}
