// Package app wires HTTP, the control websocket, and the preview stream together.
package app

import (
	"context"
	"errors"
	"log/slog"

	"github.com/frudas24/cropslice/internal/config"
	"github.com/frudas24/cropslice/internal/control"
	"github.com/frudas24/cropslice/internal/mjpeg"
	"github.com/frudas24/cropslice/internal/preview"
	"github.com/frudas24/cropslice/internal/session"
)

// App coordinates the HTTP API, the control websocket, and the preview.
type App struct {
	cfg           config.Config
	log           *slog.Logger
	session       *session.Session
	control       *control.Server
	previewStream *mjpeg.Stream
	preview       *preview.Preview
}

// New creates a new application with its dependencies wired.
func New(cfg config.Config, sess *session.Session, logger *slog.Logger) (*App, error) {
	if sess == nil {
		return nil, errors.New("session is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	app := &App{
		cfg:     cfg,
		log:     logger,
		session: sess,
		control: control.NewServer(sess, logger.With("component", "control")),
	}

	if cfg.PreviewEnabled {
		app.previewStream = mjpeg.NewStream(cfg.PreviewInterval())
		app.preview = preview.New(app.previewStream, sess.Frame, cfg.PreviewQuality, logger.With("component", "preview"))
		sess.OnChange(app.preview.Invalidate)
	}

	return app, nil
}

// Start runs background work until ctx is done.
func (a *App) Start(ctx context.Context) {
	if a.preview == nil {
		return
	}
	go a.preview.Run(ctx, a.cfg.PreviewInterval())
}

// Control returns the control websocket handler.
func (a *App) Control() *control.Server {
	return a.control
}

// PreviewStream returns the MJPEG stream, or nil when the preview is disabled.
func (a *App) PreviewStream() *mjpeg.Stream {
	return a.previewStream
}
