package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/agbru/wordcount/internal/logging"
	"github.com/agbru/wordcount/internal/metrics"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 2 * time.Second
)

// Server serves a metrics recorder on /metrics.
type Server struct {
	httpServer *http.Server
	listener   net.Listener
	logger     logging.Logger
}

// New creates a server for recorder listening on addr. Listening starts
// with Start.
func New(addr string, recorder *metrics.Recorder, logger logging.Logger) *Server {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", SecurityMiddleware(recorder.Handler()))
	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: readHeaderTimeout,
		},
		logger: logger,
	}
}

// Start binds the listener and serves in the background. Bind errors are
// returned synchronously.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	s.listener = ln
	s.logger.Info("metrics endpoint listening", logging.String("addr", ln.Addr().String()))

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("metrics server stopped", err)
		}
	}()
	return nil
}

// Addr returns the bound address, or the configured one before Start.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.httpServer.Addr
}

// Shutdown stops the server, waiting briefly for in-flight scrapes.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}
