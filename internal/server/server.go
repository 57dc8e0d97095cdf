package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/iksnae/workflow-recorder/internal"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// ShutdownTimeout bounds graceful shutdown
const ShutdownTimeout = 30 * time.Second

// Deps are the collaborators the HTTP surface is built from
type Deps struct {
	Controller      *internal.Controller
	Archive         *internal.Archive // nil disables the /api/workflows routes
	Metrics         *internal.Metrics
	Hub             *Hub
	Logger          zerolog.Logger
	CORSAllowOrigin string
}

// Server exposes the recorder to the browser extension over HTTP
type Server struct {
	deps    Deps
	address string
	server  *http.Server
}

// New creates a server listening on address
func New(address string, deps Deps) *Server {
	if deps.Hub == nil {
		deps.Hub = NewHub()
	}
	return &Server{deps: deps, address: address}
}

// Handler returns the full route tree with middleware applied
func (s *Server) Handler() http.Handler {
	return withRequestLog(s.deps.Logger, withCORS(s.deps.CORSAllowOrigin, s.setupRoutes()))
}

func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	if s.deps.Metrics != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(s.deps.Metrics.Registry(), promhttp.HandlerOpts{}))
	}
	mux.HandleFunc("POST /api/messages", s.handleMessage)
	mux.HandleFunc("POST /api/tabs", s.handleTab)
	mux.HandleFunc("GET /api/stream", s.deps.Hub.HandleWS)
	mux.HandleFunc("GET /api/workflows", s.handleListWorkflows)
	mux.HandleFunc("GET /api/workflows/{id}", s.handleGetWorkflow)
	mux.HandleFunc("DELETE /api/workflows/{id}", s.handleDeleteWorkflow)
	mux.HandleFunc("GET /api/workflows/{id}/export", s.handleExportWorkflow)
	return mux
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.address, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.server = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.deps.Logger.Info().Str("addr", ln.Addr().String()).Msg("workflow recorder listening")
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.deps.Logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()

	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	s.deps.Logger.Info().Msg("server exited")
	return nil
}
