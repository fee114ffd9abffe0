package app

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/frudas24/cropslice/internal/extract"
	"github.com/frudas24/cropslice/internal/geom"
	"github.com/frudas24/cropslice/internal/session"
	"github.com/frudas24/cropslice/internal/web"
)

// RegisterRoutes wires API and static handlers onto the mux.
func (a *App) RegisterRoutes(mux *http.ServeMux, staticDir string) {
	if staticDir == "" {
		staticDir = filepath.Join("internal", "web", "static")
	}

	mux.HandleFunc("/login", a.handleLogin)
	mux.HandleFunc("/logout", a.handleLogout)
	mux.HandleFunc("/api/state", a.handleState)
	mux.HandleFunc("/api/crop", a.handleCrop)
	mux.Handle("/ws/control", a.Control())
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/favicon.ico", handleFavicon)
	if stream := a.PreviewStream(); stream != nil {
		mux.HandleFunc("/mjpeg/preview", stream.Handler)
	}

	mux.Handle("/", a.staticFileServer(staticDir))
}

type loginRequest struct {
	Password string `json:"password"`
}

type stateResponse struct {
	session.State
	Authenticated bool `json:"authenticated"`
	Preview       bool `json:"preview"`
}

// handleLogin authenticates the session.
func (a *App) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	if !a.session.Authenticate(req.Password) {
		a.log.Warn("login failed", "remote", r.RemoteAddr)
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}

// handleLogout clears authentication state.
func (a *App) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	a.session.Logout()
	_ = json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}

// handleState returns the current crop state.
func (a *App) handleState(w http.ResponseWriter, _ *http.Request) {
	if !a.requireAuth(w) {
		return
	}
	resp := stateResponse{
		State:         a.session.Snapshot(),
		Authenticated: true,
		Preview:       a.previewStream != nil,
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

// handleCrop encodes the final crop region of the source image. The format
// query parameter selects the encoder by extension and defaults to png.
func (a *App) handleCrop(w http.ResponseWriter, r *http.Request) {
	if !a.requireAuth(w) {
		return
	}
	name := r.URL.Query().Get("format")
	if name == "" {
		name = string(extract.PNG)
	}
	format, err := extract.FormatFromPath("crop." + name)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	img, err := a.session.Crop()
	switch {
	case errors.Is(err, session.ErrNoImage):
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	case errors.Is(err, extract.ErrEmptyRegion), errors.Is(err, geom.ErrInvalidConfig):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	case err != nil:
		a.log.Error("crop failed", "err", err)
		http.Error(w, "crop failed", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := extract.Encode(&buf, img, format, extract.DefaultOptions()); err != nil {
		a.log.Error("crop encode failed", "format", format, "err", err)
		http.Error(w, "encode failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/"+string(format))
	_, _ = w.Write(buf.Bytes())
}

// requireAuth returns false and writes an error if the session is not authenticated.
func (a *App) requireAuth(w http.ResponseWriter) bool {
	if !a.session.IsAuthenticated() {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return false
	}
	return true
}

// staticFileServer returns a handler for static assets, preferring disk then embed.
func (a *App) staticFileServer(staticDir string) http.Handler {
	if staticDir != "" {
		if info, err := os.Stat(staticDir); err == nil && info.IsDir() {
			return http.FileServer(http.Dir(staticDir))
		}
	}

	embedded, err := web.StaticFS()
	if err != nil {
		a.log.Warn("static assets unavailable", "err", err)
		return http.NotFoundHandler()
	}
	return http.FileServer(http.FS(embedded))
}

// handleFavicon avoids noisy 404s for the default browser request.
func handleFavicon(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}
