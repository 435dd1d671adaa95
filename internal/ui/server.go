package ui

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/thep200/github-code-crawler/cfg"
	"github.com/thep200/github-code-crawler/internal/state"
	"github.com/thep200/github-code-crawler/pkg/log"
)

// Server represents the UI web server
type Server struct {
	Logger log.Logger
	Config *cfg.Config
	Store  state.Store
	server *http.Server
	port   int
}

// NewServer creates a new UI server
func NewServer(logger log.Logger, config *cfg.Config, store state.Store, port int) (*Server, error) {
	if store == nil {
		return nil, fmt.Errorf("ui server needs a state store")
	}
	return &Server{
		Logger: logger,
		Config: config,
		Store:  store,
		port:   port,
	}, nil
}

// Start initializes and starts the HTTP server
func (s *Server) Start() error {
	mux := http.NewServeMux()
	NewHandler(s.Logger, s.Config, s.Store).RegisterRoutes(mux)

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.Logger.Info(context.Background(), "Starting UI server on port %d", s.port)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		s.Logger.Info(ctx, "Shutting down UI server")
		return s.server.Shutdown(ctx)
	}
	return nil
}
