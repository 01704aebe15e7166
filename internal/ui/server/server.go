package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/netprobe/netprobe-ui/internal/apiclient"
	"github.com/netprobe/netprobe-ui/internal/config"
	"github.com/netprobe/netprobe-ui/internal/logger"
	"github.com/netprobe/netprobe-ui/internal/ui/handlers"
	"github.com/netprobe/netprobe-ui/internal/ui/middleware"
	"github.com/netprobe/netprobe-ui/internal/ui/navigation"
	"github.com/netprobe/netprobe-ui/internal/ui/views"
)

const (
	// ServerShutdownTimeout is the timeout for graceful server shutdown
	ServerShutdownTimeout = 10 * time.Second
)

type Server struct {
	router    *chi.Mux
	config    *config.Config
	logger    *slog.Logger
	apiClient *apiclient.Client
	table     *navigation.Table
}

// NewServer builds the router: middleware, health check, navigation table and the /ui-api endpoints.
func NewServer(cfg *config.Config, logger *slog.Logger, apiClient *apiclient.Client, table *navigation.Table) (*Server, error) {
	s := &Server{
		router:    chi.NewRouter(),
		config:    cfg,
		logger:    logger,
		apiClient: apiClient,
		table:     table,
	}

	s.setupMiddleware()
	if err := s.registerRoutes(); err != nil {
		return nil, err
	}
	return s, nil
}

// Router returns the configured handler.
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) setupMiddleware() {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(logger.RequestLogging(s.logger))
	s.router.Use(chimiddleware.Recoverer)
	// REQUEST_TIMEOUT is validated to be shorter than WRITE_TIMEOUT so the 504 can still be written
	s.router.Use(chimiddleware.Timeout(s.config.RequestTimeout))
	s.router.Use(middleware.SecurityHeaders(s.config.Environment))
}

func (s *Server) registerRoutes() error {
	handlerService := &handlers.HandlerService{
		ApiClient: s.apiClient,
	}

	corsMiddleware, err := middleware.NewCORS(s.config.AllowedOrigins)
	if err != nil {
		return fmt.Errorf("failed to create CORS middleware: %w", err)
	}

	s.router.Get("/health/live", handlerService.LivenessHandler)

	// Static assets (stylesheet and view script)
	s.router.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(views.Static()))))

	s.router.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(s.config.RateLimitRPS, s.config.RateLimitBurst))

		s.table.Mount(r)

		// UI API endpoints (used by the views to reach the remote API)
		r.Group(func(r chi.Router) {
			r.Use(middleware.CORS(corsMiddleware))
			r.HandleFunc("/ui-api/*", handlerService.UIAPIHandler)
		})
	})

	return nil
}

// Start serves on the configured address until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Addr())
	if err != nil {
		return fmt.Errorf("server failed to start: %w", err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Start with a caller-supplied listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	server := &http.Server{
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("UI server listening",
			slog.String("address", ln.Addr().String()),
			slog.String("api_base_url", s.apiClient.Config().BaseURL),
		)
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info("Shutting down UI server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), ServerShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("Server forced to shutdown", slog.String("error", err.Error()))
			return err
		}
		return nil
	})

	return g.Wait()
}
