// Package server assembles the asrd HTTP server: middleware chain, health
// and metrics surfaces, and the v1 API.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/eledoranda/sagemaker-nemo-asr-parakeet/internal/api/middleware"
	"github.com/eledoranda/sagemaker-nemo-asr-parakeet/internal/api/v1/routes"
)

// Config holds server configuration
type Config struct {
	Port            string
	ShutdownTimeout time.Duration
}

// DefaultConfig returns the default server configuration
func DefaultConfig() Config {
	return Config{
		Port:            "8080",
		ShutdownTimeout: 15 * time.Second,
	}
}

// Server is the asrd HTTP server
type Server struct {
	engine *gin.Engine
	http   *http.Server
	logger *slog.Logger
	config Config
}

// New builds the server with the full middleware chain and registered
// routes.
func New(container *routes.ServiceContainer, logger *slog.Logger, config Config) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(middleware.RequestID())
	engine.Use(middleware.StructuredLogging(logger))
	engine.Use(middleware.Metrics())
	engine.Use(middleware.ErrorHandler(logger))
	engine.Use(middleware.CORS(middleware.DefaultCORSConfig()))

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	routes.RegisterRoutes(engine, container)

	return &Server{
		engine: engine,
		logger: logger,
		config: config,
		http: &http.Server{
			Addr:              ":" + config.Port,
			Handler:           engine,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Engine exposes the underlying router, mainly for tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Run starts the server and blocks until an interrupt, then drains
// in-flight requests before returning.
func (s *Server) Run() error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", s.http.Addr)
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		s.logger.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()
	return s.http.Shutdown(ctx)
}
