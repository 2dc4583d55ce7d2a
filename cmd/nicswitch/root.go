package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/jzelinskie/cobrautil/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/carlosrabelo/nicswitch/core/application/services"
	"github.com/carlosrabelo/nicswitch/core/infrastructure/config"
	"github.com/carlosrabelo/nicswitch/core/infrastructure/nic"
	"github.com/carlosrabelo/nicswitch/core/infrastructure/store"
	"github.com/carlosrabelo/nicswitch/core/infrastructure/transport"
	"github.com/carlosrabelo/nicswitch/pkg/logger"
)

type options struct {
	configPath string
	logLevel   string
	logFormat  string
	dryRun     bool

	platform  string
	transport string
	target    string
}

// app holds everything a command needs once configuration is loaded
type app struct {
	cfg   *config.Config
	svc   *services.SwitcherApplicationService
	close func()
}

type appOpener func(ctx context.Context, cfg *config.Config) (*app, error)

func openApp(ctx context.Context, cfg *config.Config) (*app, error) {
	directory, controller, err := nic.Open(ctx, cfg.HostConfig)
	if err != nil {
		return nil, err
	}
	selectionStore, err := store.Open(ctx, cfg.Store)
	if err != nil {
		transport.CloseAll()
		return nil, err
	}

	return &app{
		cfg: cfg,
		svc: services.NewSwitcherApplicationService(directory, controller, selectionStore),
		close: func() {
			transport.CloseAll()
			if err := selectionStore.Close(); err != nil {
				zap.S().Warnw("failed to close selection store", "error", err)
			}
		},
	}, nil
}

// needsApp reports whether cmd talks to adapters or the selection store.
// Version, help and shell completion work without configuration.
func needsApp(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "version", "help", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
			return false
		}
	}
	return true
}

// newRootCommand builds the command tree. The returned cleanup releases what the last
// command opened and must run after Execute, whether it failed or not.
func newRootCommand(open appOpener) (*cobra.Command, func()) {
	opts := &options{}
	var rt *app
	var syncLogger func()

	rootCmd := &cobra.Command{
		Use:           "nicswitch",
		Short:         "Toggle which of two network adapters is active",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !needsApp(cmd) {
				return nil
			}
			switch opts.logFormat {
			case "console", "json":
			default:
				return fmt.Errorf("invalid log-format: %s", opts.logFormat)
			}

			l := logger.Init(opts.logFormat, opts.logLevel)
			undo := zap.ReplaceGlobals(l)
			syncLogger = func() {
				_ = l.Sync()
				undo()
			}

			cfg, err := config.Load(opts.configPath, opts.dryRun)
			if err != nil {
				return err
			}
			if err := applyOverrides(cmd.Flags(), opts, cfg); err != nil {
				return err
			}
			zap.S().Debugw("using configuration", "file", cfg.Path, "platform", cfg.Platform,
				"transport", cfg.Transport, "target", cfg.Target, "sandbox", cfg.Sandbox)

			rt, err = open(cmd.Context(), cfg)
			return err
		},
	}

	cleanup := func() {
		if rt != nil {
			rt.close()
			rt = nil
		}
		if syncLogger != nil {
			syncLogger()
			syncLogger = nil
		}
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "YAML configuration file (default: search ./, user and global config dirs)")
	flags.StringVar(&opts.logLevel, "log-level", "info", "Log level: debug, info, warn or error")
	flags.StringVar(&opts.logFormat, "log-format", "console", "Log format: console or json")
	flags.BoolVar(&opts.dryRun, "dry-run", false, "Log adapter actions instead of executing them")
	flags.StringVar(&opts.platform, "platform", "", "Adapter platform: netsh, iproute, snmp or auto (overrides config)")
	flags.StringVar(&opts.transport, "transport", "", "Command transport: local, ssh or telnet (overrides config)")
	flags.StringVar(&opts.target, "target", "", "Remote host for ssh, telnet or snmp (overrides config)")

	get := func() *app { return rt }
	rootCmd.AddCommand(
		newListCommand(get),
		newStatusCommand(get),
		newSelectCommand(get),
		newSwitchCommand(get),
		newWatchCommand(get),
		newServeCommand(get),
		newVersionCommand(),
	)

	return rootCmd, cleanup
}

func applyOverrides(flags *pflag.FlagSet, opts *options, cfg *config.Config) error {
	changed := false
	if flags.Changed("platform") {
		cfg.Platform = opts.platform
		changed = true
	}
	if flags.Changed("transport") {
		cfg.Transport = opts.transport
		changed = true
	}
	if flags.Changed("target") {
		cfg.Target = opts.target
		changed = true
	}
	if !changed {
		return nil
	}
	return cfg.Validate()
}

// registerNamedFlags groups command flags under a colored heading in the help output
func registerNamedFlags(cmd *cobra.Command, title string, register func(fs *pflag.FlagSet)) {
	nfs := cobrautil.NewNamedFlagSets(cmd)
	register(nfs.FlagSet(color.New(color.FgBlue, color.Bold).Sprint(title)))
	nfs.AddFlagSets(cmd)
}
