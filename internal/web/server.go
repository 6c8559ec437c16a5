package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/kozaktomas/koya-pay/internal/config"
	"github.com/kozaktomas/koya-pay/internal/constants"
	"github.com/kozaktomas/koya-pay/internal/shell"
	"github.com/kozaktomas/koya-pay/internal/web/middleware"
	"go.uber.org/zap"
)

// Server represents the local web server exposing the navigation shell
type Server struct {
	config     *config.Config
	router     *chi.Mux
	httpServer *http.Server
	shell      *shell.Shell
	logger     *zap.Logger
}

// NewServer creates a new web server
func NewServer(cfg *config.Config, sh *shell.Shell, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.Koya.Timeout
	if timeout <= 0 {
		timeout = constants.DefaultRequestTimeout
	}
	r := chi.NewRouter()

	s := &Server{
		config: cfg,
		router: r,
		shell:  sh,
		logger: logger.With(zap.String("component", "web")),
	}

	// Set up middleware stack
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.Logger(s.logger))
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(2 * timeout))
	r.Use(middleware.CORS(cfg.Web.AllowedOrigins))
	r.Use(middleware.SecurityHeaders())

	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Web.Host, cfg.Web.Port),
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2*timeout + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info("starting web server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server and disposes the mounted screen
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down web server")

	err := s.httpServer.Shutdown(ctx)
	s.shell.Close()
	if err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}
	return nil
}

// Router returns the chi router for testing
func (s *Server) Router() *chi.Mux {
	return s.router
}
