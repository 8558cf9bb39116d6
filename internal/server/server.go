package server

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/itsyashbisht/tripsage-client-sub000/internal/app/session"
	"github.com/itsyashbisht/tripsage-client-sub000/internal/pkg/config"
)

// Server holds the dependencies for the HTTP server. There is no local
// database; all durable state lives behind the upstream API, so the only
// stateful dependency is the per-visitor session registry.
type Server struct {
	cfg      *config.Config
	logger   *zap.Logger
	sessions *session.Manager
	router   http.Handler
}

// New creates a new Server instance with all dependencies
func New(cfg *config.Config, logger *zap.Logger) (*Server, error) {
	return &Server{
		cfg:      cfg,
		logger:   logger,
		sessions: session.NewManager(cfg, logger),
	}, nil
}

// HTTPServer creates and configures the HTTP server
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         ":" + s.cfg.ServerPort,
		Handler:      s.router,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// SetRouter sets the HTTP router/handler
func (s *Server) SetRouter(router http.Handler) {
	s.router = router
}

// Sessions returns the per-visitor session registry
func (s *Server) Sessions() *session.Manager {
	return s.sessions
}

// GetLogger returns the logger instance
func (s *Server) GetLogger() *zap.Logger {
	return s.logger
}

// GetConfig returns the configuration
func (s *Server) GetConfig() *config.Config {
	return s.cfg
}
