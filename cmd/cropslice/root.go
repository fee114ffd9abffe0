package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/frudas24/cropslice/internal/config"
)

// globalOptions are the persistent flags shared by every subcommand.
type globalOptions struct {
	configFile string
}

// newRootCmd builds the command tree.
func newRootCmd() *cobra.Command {
	opts := &globalOptions{}
	root := &cobra.Command{
		Use:   "cropslice",
		Short: "Interactive crop rectangle server and gesture replayer",
		Long: `cropslice keeps a crop rectangle over an image and lets a browser resize
and move it by dragging corners, edges, or the whole region.

Examples:
  cropslice serve --config cropslice.yaml
  cropslice replay drag.yaml --image photo.jpg --out crop.png`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.configFile, "config", "", "YAML config file")
	root.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(newServeCmd(opts), newReplayCmd(opts))
	return root
}

// loadConfig reads configuration with --log-level bound over the file and env
// layers, and builds the stderr logger.
func (o *globalOptions) loadConfig(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	loader := config.NewLoader()
	if err := loader.Viper().BindPFlag("log_level", cmd.Root().PersistentFlags().Lookup("log-level")); err != nil {
		return nil, nil, err
	}
	cfg, err := loader.Load(o.configFile)
	if err != nil {
		return nil, nil, err
	}
	logger, err := newLogger(cmd.ErrOrStderr(), cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	if used := loader.ConfigFileUsed(); used != "" {
		logger.Debug("config file loaded", "path", used)
	}
	return cfg, logger, nil
}

// newLogger returns a text logger at the named level and installs it as the default.
func newLogger(w io.Writer, level string) (*slog.Logger, error) {
	lvl, err := config.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)
	return logger, nil
}
