package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/frudas24/cropslice/internal/app"
	"github.com/frudas24/cropslice/internal/config"
	"github.com/frudas24/cropslice/internal/extract"
	"github.com/frudas24/cropslice/internal/session"
)

// newServeCmd builds the serve subcommand.
func newServeCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the crop UI server",
		Long: `Start the HTTP server that hosts the crop UI.

Endpoints:
  POST /login, /logout  - session auth
  GET  /api/state       - current crop state
  GET  /api/crop        - final crop region as png, jpeg, or webp
  GET  /ws/control      - pointer and ratio control websocket
  GET  /mjpeg/preview   - rendered preview stream
  GET  /metrics         - Prometheus metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := opts.loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := cfg.ValidateServe(); err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, *cfg, logger)
		},
	}
}

// run wires the application and blocks until ctx is done.
func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	logStartup(cfg, logger)

	var src image.Image
	if cfg.ImagePath != "" {
		img, err := extract.Open(cfg.ImagePath)
		if err != nil {
			return err
		}
		src = img
		logger.Info("source image loaded", "path", cfg.ImagePath, "size", img.Bounds().Size())
	}

	engineOpts := cfg.EngineOptions()
	engineOpts.Logger = logger.With("component", "engine")
	sess, err := session.New(cfg.UIPassword, src, cfg.ViewWidth, cfg.ViewHeight, engineOpts)
	if err != nil {
		return err
	}
	if r := cfg.Ratio(); r != nil {
		if err := sess.SetAspectRatio(r); err != nil {
			return err
		}
	}

	appInstance, err := app.New(cfg, sess, logger)
	if err != nil {
		return err
	}
	appCtx, cancelApp := context.WithCancel(ctx)
	defer cancelApp()
	appInstance.Start(appCtx)

	mux := http.NewServeMux()
	appInstance.RegisterRoutes(mux, "")
	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen %s: %w", cfg.ListenAddr, err)
		}
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// logStartup reports the env file and connection info.
func logStartup(cfg config.Config, logger *slog.Logger) {
	envPath := filepath.Join(cfg.DataDir, ".env")
	if info, err := os.Stat(envPath); err == nil && !info.IsDir() {
		logger.Info("env check: ok", "path", envPath)
	} else {
		logger.Info("env check: missing", "path", envPath)
	}
	if cfg.ImagePath == "" {
		logger.Warn("image_path not set; serving a blank image")
	}

	host, port, err := net.SplitHostPort(cfg.ListenAddr)
	if err != nil {
		logger.Info("listening", "addr", cfg.ListenAddr)
		return
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	logger.Info("listening", "addr", cfg.ListenAddr, "url", "http://"+net.JoinHostPort(host, port))
}
