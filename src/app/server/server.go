// Package server provides HTTP server initialization and lifecycle management.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"marketplace/src/app/http/handler"
	"marketplace/src/app/middleware"
	"marketplace/src/core/domain"
	"marketplace/src/core/ports"
	"marketplace/src/core/usecase"
	"marketplace/src/infra/config"
)

// Dependencies are the adapters the server's services run on.
// Cache may be nil; Publisher must be set.
type Dependencies struct {
	Ads        ports.ClassifiedAdRepository
	Users      ports.UserProfileRepository
	Currencies domain.CurrencyLookup
	Publisher  ports.EventPublisher
	Cache      ports.ClassifiedAdCache
}

// Server wraps the HTTP server and its dependencies.
type Server struct {
	cfg    *config.Config
	log    *slog.Logger
	router *gin.Engine
	http   *http.Server

	// Handlers
	healthHandler *handler.HealthHandler
	adHandler     *handler.ClassifiedAdHandler
	userHandler   *handler.UserProfileHandler
}

// New creates a new Server with all dependencies wired up.
func New(cfg *config.Config, log *slog.Logger, deps Dependencies) *Server {
	// Set Gin mode based on log level
	if cfg.Log.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create router without default middleware
	router := gin.New()

	// Create services
	healthService := usecase.NewHealthService(log, map[string]ports.ExternalService{
		"ads_store":   deps.Ads,
		"users_store": deps.Users,
		"publisher":   deps.Publisher,
		"cache":       deps.Cache,
	})
	adService := usecase.NewClassifiedAdService(deps.Ads, deps.Currencies, deps.Publisher, deps.Cache, log)
	userService := usecase.NewUserProfileService(deps.Users, deps.Publisher, log)

	s := &Server{
		cfg:           cfg,
		log:           log,
		router:        router,
		healthHandler: handler.NewHealthHandler(healthService),
		adHandler:     handler.NewClassifiedAdHandler(adService),
		userHandler:   handler.NewUserProfileHandler(userService),
	}

	s.setupMiddleware()
	s.setupRoutes()
	s.setupHTTPServer()

	return s
}

// setupMiddleware configures global middleware.
func (s *Server) setupMiddleware() {
	// Order matters: Recovery should be first to catch all panics
	s.router.Use(middleware.Recovery(s.log))
	s.router.Use(middleware.RequestID())
	s.router.Use(middleware.CORS())
	s.router.Use(middleware.Logging(s.log))
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	// Health check endpoints (no auth required)
	s.router.GET("/health", s.healthHandler.Health)
	s.router.GET("/health/detailed", s.healthHandler.DetailedHealth)

	// API v1 routes
	v1 := s.router.Group("/v1")
	{
		ads := v1.Group("/ads")
		ads.POST("", s.adHandler.Create)
		ads.GET("/:id", s.adHandler.Get)
		ads.PUT("/:id/title", s.adHandler.SetTitle)
		ads.PUT("/:id/text", s.adHandler.UpdateText)
		ads.PUT("/:id/price", s.adHandler.UpdatePrice)
		ads.PUT("/:id/publish", s.adHandler.RequestToPublish)

		users := v1.Group("/users")
		users.POST("", s.userHandler.Register)
		users.GET("/:id", s.userHandler.Get)
		users.PUT("/:id/full-name", s.userHandler.UpdateFullName)
		users.PUT("/:id/display-name", s.userHandler.UpdateDisplayName)
	}

	// Handle 404
	s.router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": gin.H{
				"code":       "NOT_FOUND",
				"message":    "The requested resource was not found",
				"request_id": middleware.GetRequestID(c),
			},
		})
	})
}

// setupHTTPServer configures the underlying HTTP server.
func (s *Server) setupHTTPServer() {
	s.http = &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}
}

// Run starts the HTTP server and blocks until shutdown.
// It handles graceful shutdown on SIGINT/SIGTERM.
func (s *Server) Run() error {
	// Channel to receive shutdown signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Channel to receive server errors
	errCh := make(chan error, 1)

	// Start server in goroutine
	go func() {
		s.log.Info("starting HTTP server",
			"addr", s.cfg.Server.Addr(),
		)
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("server error: %w", err)
		}
	}()

	// Wait for shutdown signal or error
	select {
	case sig := <-quit:
		s.log.Info("received shutdown signal", "signal", sig.String())
	case err := <-errCh:
		return err
	}

	// Graceful shutdown
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	s.log.Info("shutting down server", "timeout", s.cfg.Server.ShutdownTimeout)

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := s.http.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	s.log.Info("server stopped gracefully")
	return nil
}

// Router returns the Gin router for testing.
func (s *Server) Router() *gin.Engine {
	return s.router
}
