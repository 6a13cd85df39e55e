package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/mrhapile/classkit/config"
	"github.com/mrhapile/classkit/fluid"
	"github.com/mrhapile/classkit/logging"
)

// app is the state shared by subcommands once the root command has loaded
// the configuration.
type app struct {
	configPath string
	logLevel   string

	cfg    config.Config
	logger *slog.Logger
	store  fluid.Store
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "classkit",
		Short: "Decorate classes and WebAssembly plugins",
		Long: `classkit builds decorator classes that wrap a component, forward every
operation they do not override, and compose into chains.

It runs the registered behavior specs and calls stored plugins through
offset decorators.`,
		// Errors are ours to report, usage only helps on flag mistakes
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "path to classkit YAML config")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	root.AddCommand(newTestCmd(a))
	root.AddCommand(newCallCmd(a))
	root.AddCommand(newOpsCmd(a))
	root.AddCommand(newPluginsCmd(a))
	return root
}

func (a *app) load(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}

	logger, err := logging.New(cmd.ErrOrStderr(), cfg.Log.Level)
	if err != nil {
		return err
	}

	store, err := fluid.NewStore(cfg.Store.Kind, cfg.Store.Path)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logger
	a.store = store
	return nil
}
