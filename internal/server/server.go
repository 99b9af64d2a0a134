// Package server provides the HTTP surface of ddnsd: the dynamic-DNS update
// endpoint plus health and Prometheus metrics endpoints.
package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"gitlab.bluewillows.net/root/ddnsd/internal/config"
	"gitlab.bluewillows.net/root/ddnsd/pkg/provider"
)

// Updater is the core contract the server renders over HTTP. It is
// satisfied by the reconciler.
type Updater interface {
	Update(ctx context.Context, settings provider.Settings, host, ip string) (*provider.UpdateResult, error)
}

// Server handles inbound dynamic-DNS update requests.
type Server struct {
	cfg     *config.Config
	updater Updater
	mux     *http.ServeMux
	server  *http.Server
	logger  *slog.Logger
}

// Option is a functional option for configuring the Server.
type Option func(*Server)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates a new Server for the given configuration and update core.
func New(cfg *config.Config, updater Updater, opts ...Option) *Server {
	s := &Server{
		cfg:     cfg,
		updater: updater,
		mux:     http.NewServeMux(),
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.mux.Handle("GET /ddns/{provider}/{host}/{ip}", s.accessLog("/ddns", http.HandlerFunc(s.handleUpdate)))
	s.mux.Handle("GET /health", s.accessLog("/health", http.HandlerFunc(s.handleHealth)))
	s.mux.Handle("GET /metrics", promhttp.Handler())
}

// Handler returns the server's root handler, useful for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Start starts listening in a goroutine.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:              s.cfg.Addr(),
		Handler:           s.mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		s.logger.Info("server listening",
			slog.String("addr", s.cfg.Addr()),
			slog.String("endpoint", "GET /ddns/{provider}/{host}/{ip}"),
		)
		if err := s.server.ListenAndServe(); err != http.ErrServerClosed {
			s.logger.Error("server error", slog.String("error", err.Error()))
		}
	}()

	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
