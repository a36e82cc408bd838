// Package bridge exposes the shell to an out-of-process display layer over
// HTTP: commands and queries as JSON, bus events as a websocket stream.
package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/bnema/multitab/internal/domain/entity"
	"github.com/bnema/multitab/internal/logging"
)

const shutdownTimeout = 5 * time.Second

// Commands is the shell surface the bridge dispatches to.
type Commands interface {
	CreateTab(ctx context.Context, input string) entity.TabID
	SwitchTab(ctx context.Context, id entity.TabID)
	CloseTab(ctx context.Context, id entity.TabID)
	Navigate(ctx context.Context, id entity.TabID, input string)
	GoBack(ctx context.Context, id entity.TabID)
	GoForward(ctx context.Context, id entity.TabID)
	Reload(ctx context.Context, id entity.TabID)
	GetAllTabs(ctx context.Context) []entity.TabSnapshot
	ActiveTab(ctx context.Context) entity.TabID
	GetDownloads(ctx context.Context) []entity.DownloadView
	OpenDownload(ctx context.Context, id entity.DownloadID)
	ShowInFolder(ctx context.Context, id entity.DownloadID)
	RemoveDownload(ctx context.Context, id entity.DownloadID)
	ClearCompleted(ctx context.Context)
	CancelDownload(ctx context.Context, id entity.DownloadID)
}

// Server serves the bridge endpoints.
type Server struct {
	router   *mux.Router
	commands Commands
	hub      *Hub
	upgrader websocket.Upgrader
	baseCtx  context.Context
	started  time.Time
}

// NewServer creates a bridge over commands, streaming what hub receives.
// baseCtx carries the logger used by request handlers.
func NewServer(baseCtx context.Context, commands Commands, hub *Hub) *Server {
	s := &Server{
		router:   mux.NewRouter(),
		commands: commands,
		hub:      hub,
		baseCtx:  logging.WithComponent(baseCtx, "bridge"),
		started:  time.Now(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     sameHostOrigin,
		},
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.HandleFunc("/events", s.handleEvents).Methods(http.MethodGet)
	s.router.HandleFunc("/tabs", s.handleTabs).Methods(http.MethodGet)
	s.router.HandleFunc("/downloads", s.handleDownloads).Methods(http.MethodGet)
	s.router.HandleFunc("/commands", s.handleCommand).Methods(http.MethodPost)
	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("bridge listen %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	log := logging.FromContext(s.baseCtx)

	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return s.baseCtx },
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	log.Info().Str("addr", ln.Addr().String()).Msg("bridge listening")

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("bridge serve: %w", err)
	case <-ctx.Done():
	}

	s.hub.CloseAll()
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("bridge shutdown: %w", err)
	}
	log.Info().Msg("bridge stopped")
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, map[string]any{
		"status":  "healthy",
		"clients": s.hub.ClientCount(),
		"uptime":  time.Since(s.started).Round(time.Second).String(),
	})
}

func (s *Server) handleTabs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	writeJSON(ctx, w, http.StatusOK, TabListing{
		Active: s.commands.ActiveTab(ctx),
		Tabs:   s.commands.GetAllTabs(ctx),
	})
}

// TabListing is the GET /tabs reply.
type TabListing struct {
	Active entity.TabID         `json:"active"`
	Tabs   []entity.TabSnapshot `json:"tabs"`
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.FromContext(ctx).Debug().Err(err).Msg("bridge: failed to write response")
	}
}

func writeError(ctx context.Context, w http.ResponseWriter, status int, msg string) {
	writeJSON(ctx, w, status, map[string]any{"ok": false, "error": msg})
}

// sameHostOrigin accepts clients without an Origin header (native display
// layers) and browser pages served from the bridge's own host.
func sameHostOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return u.Host == r.Host
}
