package main

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/chazu/minbounds/pkg/config"
	"github.com/chazu/minbounds/pkg/meshio"
)

type rootOptions struct {
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "minbounds",
		Short:         "Orient a solid to minimize its bounding box",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to a YAML config file")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "debug, info, warn or error (default info)")

	cmd.AddCommand(newOrientCmd(opts), newHullCmd(opts))
	return cmd
}

// resolve loads the config file if one was given, applies flags over it and
// validates the result.
func (o *rootOptions) resolve(flags config.Flags) (config.Config, error) {
	var cfg config.Config
	if o.configPath != "" {
		var err error
		cfg, err = config.Load(o.configPath)
		if err != nil {
			return config.Config{}, err
		}
	}
	flags.LogLevel = o.logLevel
	cfg.Resolve(flags)
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// newLogger writes text logs at the configured level. Validate has already
// checked the level.
func newLogger(w io.Writer, cfg config.Config) *slog.Logger {
	lvl, _ := cfg.Level()
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}

func newLoader(cfg config.Config) meshio.Loader {
	return meshio.Loader{Engine: cfg.NewEngine(), Kernel: cfg.NewKernel()}
}
