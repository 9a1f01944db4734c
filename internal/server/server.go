// Package server assembles the bridge daemon: sandbox store, dispatcher,
// HTTP and websocket surfaces, and the monitoring endpoint.
package server

import (
	"context"
	"errors"
	"net"
	nethttp "net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	apihttp "github.com/sandboxfs/bridge/internal/api/http"
	"github.com/sandboxfs/bridge/internal/api/middleware"
	apiws "github.com/sandboxfs/bridge/internal/api/ws"
	"github.com/sandboxfs/bridge/internal/bridge"
	"github.com/sandboxfs/bridge/internal/infrastructure/config"
	"github.com/sandboxfs/bridge/internal/infrastructure/logging"
	"github.com/sandboxfs/bridge/internal/infrastructure/monitoring"
	"github.com/sandboxfs/bridge/internal/vfs"
)

// Version is the daemon version reported by the root endpoint.
const Version = "1.0.0"

// Server wraps the HTTP server and its dependencies.
type Server struct {
	cfg        *config.Config
	logger     *logging.Logger
	sandbox    *vfs.Sandbox
	metrics    *monitoring.Metrics
	dispatcher *bridge.Dispatcher
	httpServer *nethttp.Server
}

// New assembles a daemon from configuration.
func New(cfg *config.Config) (*Server, error) {
	logger, err := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
		OutputPaths: []string{"stdout"},
	})
	if err != nil {
		return nil, err
	}

	sandbox, err := vfs.Open(vfs.Options{
		Root:   cfg.Sandbox.Root,
		Origin: cfg.Sandbox.Origin,
		Quota:  cfg.Sandbox.QuotaBytes,
		Logger: logger.Named("sandbox"),
	})
	if err != nil {
		return nil, err
	}

	metrics := monitoring.NewMetrics()
	dispatcher := bridge.NewDispatcher(sandbox, logger.Named("bridge")).WithMetrics(metrics)

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}))
	}

	handlers := apihttp.NewHandlers(dispatcher, Version)
	wsHandler := apiws.NewHandler(dispatcher, logger, metrics)

	router.GET("/", handlers.Root)
	router.GET("/health", handlers.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.POST("/execute", handlers.Execute)
		v1.GET("/tree", handlers.Tree)
		v1.GET("/usage", handlers.Usage)
		v1.GET("/stats", handlers.Stats)
		v1.GET("/stream", wsHandler.HandleConnection)
	}

	return &Server{
		cfg:        cfg,
		logger:     logger,
		sandbox:    sandbox,
		metrics:    metrics,
		dispatcher: dispatcher,
		httpServer: &nethttp.Server{
			Addr:              net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}, nil
}

// Dispatcher exposes the operation dispatcher, for in-process consumers.
func (s *Server) Dispatcher() *bridge.Dispatcher {
	return s.dispatcher
}

// Run serves until the listener fails or Shutdown is called.
func (s *Server) Run() error {
	s.logger.Info("bridge daemon listening",
		zap.String("addr", s.httpServer.Addr),
		zap.String("version", Version),
	)
	err := s.httpServer.ListenAndServe()
	if errors.Is(err, nethttp.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests, then releases the sandbox store.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down")

	err := s.httpServer.Shutdown(ctx)
	if cerr := s.sandbox.Close(); err == nil {
		err = cerr
	}
	s.metrics.Close()
	_ = s.logger.Sync()
	return err
}
