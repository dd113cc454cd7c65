package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jackzampolin/isbnscan/internal/api"
	"github.com/jackzampolin/isbnscan/internal/config"
	"github.com/jackzampolin/isbnscan/internal/extract"
	"github.com/jackzampolin/isbnscan/internal/home"
	"github.com/jackzampolin/isbnscan/internal/metrics"
	"github.com/jackzampolin/isbnscan/internal/scan"
	"github.com/jackzampolin/isbnscan/internal/server/endpoints"
	"github.com/jackzampolin/isbnscan/internal/svcctx"
)

// DefaultMaxBodyBytes limits request bodies when no config is given.
const DefaultMaxBodyBytes = 4 << 20

// Server is the isbnscan HTTP server.
type Server struct {
	httpServer *http.Server
	configMgr  *config.Manager
	logger     *slog.Logger

	// services holds all core services for context enrichment
	services *svcctx.Services

	// endpoints registry for HTTP routes
	endpointRegistry *api.Registry

	maxBodyBytes atomic.Int64

	mu       sync.RWMutex
	running  bool
	listener net.Listener
}

// Config holds server configuration.
type Config struct {
	// Host is the address to bind to (default: 127.0.0.1)
	Host string
	// Port is the port to listen on (default: 8280)
	Port string
	// MaxBodyBytes limits request bodies (default: 4 MiB)
	MaxBodyBytes int64
	// ScanWorkers sizes the batch extraction pool (default: one per CPU)
	ScanWorkers int
	// ScanQueueSize sizes the batch extraction queue (default: 2x workers)
	ScanQueueSize int
	// ConfigManager provides configuration with hot-reload support.
	// When set, it overrides the fields above.
	ConfigManager *config.Manager
	// Metrics records extraction outcomes (default: a fresh recorder)
	Metrics *metrics.Recorder
	// Home is the isbnscan home directory
	Home *home.Dir
	// Logger is the structured logger to use
	Logger *slog.Logger
}

// New creates a new Server with the given configuration.
func New(cfg Config) (*Server, error) {
	if cfg.ConfigManager != nil {
		c := cfg.ConfigManager.Get()
		cfg.Host = c.Server.Host
		cfg.Port = c.Server.Port
		cfg.MaxBodyBytes = c.Server.MaxBodyBytes
		cfg.ScanWorkers = c.Scan.Workers
		cfg.ScanQueueSize = c.Scan.QueueSize
	}
	if cfg.Host == "" {
		cfg.Host = "127.0.0.1"
	}
	if cfg.Port == "" {
		cfg.Port = "8280"
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if cfg.ScanWorkers < 0 || cfg.ScanQueueSize < 0 {
		return nil, fmt.Errorf("%w: scan workers and queue size must not be negative", config.ErrInvalidConfig)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.NewRecorder(0)
	}

	extractor := extract.New()
	pool := scan.NewPool(scan.PoolConfig{
		Name:        "http-batch",
		Source:      "http",
		Logger:      cfg.Logger,
		WorkerCount: cfg.ScanWorkers,
		QueueSize:   cfg.ScanQueueSize,
		Extractor:   extractor,
		Recorder:    cfg.Metrics,
	})

	s := &Server{
		configMgr: cfg.ConfigManager,
		logger:    cfg.Logger,
		services: &svcctx.Services{
			Extractor: extractor,
			ScanPool:  pool,
			Metrics:   cfg.Metrics,
			ConfigMgr: cfg.ConfigManager,
			Logger:    cfg.Logger,
			Home:      cfg.Home,
		},
	}
	s.maxBodyBytes.Store(cfg.MaxBodyBytes)

	// Body limit follows config hot reload; listen address and pool size need a restart.
	if cfg.ConfigManager != nil {
		cfg.ConfigManager.OnChange(func(c *config.Config) {
			s.maxBodyBytes.Store(c.Server.MaxBodyBytes)
			s.logger.Info("server config reloaded", "max_body_bytes", c.Server.MaxBodyBytes)
		})
	}

	// Create endpoint registry and register all endpoints
	s.endpointRegistry = api.NewRegistry()
	for _, ep := range endpoints.All() {
		s.endpointRegistry.Register(ep)
	}

	// Set up HTTP server
	mux := http.NewServeMux()
	s.endpointRegistry.RegisterRoutes(mux, s.requireInit)

	s.httpServer = &http.Server{
		Addr:         net.JoinHostPort(cfg.Host, cfg.Port),
		Handler:      s.withRequestID(s.withServices(s.limitBody(mux))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	return s, nil
}

// Start starts the server.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.New("server already running")
	}

	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}
	s.listener = ln
	s.services.StartedAt = time.Now()
	s.running = true
	s.mu.Unlock()

	// Start HTTP server in goroutine
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "addr", ln.Addr().String())
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for context cancellation or error
	select {
	case <-ctx.Done():
		s.logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			_ = s.shutdown()
			return fmt.Errorf("HTTP server error: %w", err)
		}
	}

	return s.shutdown()
}

// shutdown performs graceful shutdown of the HTTP server.
func (s *Server) shutdown() error {
	s.logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
	}

	s.setNotRunning()
	s.logger.Info("server stopped")
	return nil
}

func (s *Server) setNotRunning() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}

// IsRunning returns whether the server is currently running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Addr returns the server's listen address. Once started, this is the
// bound address, so port "0" resolves to the real port.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.httpServer.Addr
}

// Metrics returns the server's metrics recorder.
func (s *Server) Metrics() *metrics.Recorder {
	return s.services.Metrics
}

// Handler returns the fully wrapped HTTP handler, for use with httptest.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Endpoints returns the endpoint registry.
func (s *Server) Endpoints() *api.Registry {
	return s.endpointRegistry
}

// requireInit is middleware that ensures the server is fully initialized.
// Returns 503 Service Unavailable until Start has bound the listener.
func (s *Server) requireInit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.IsRunning() {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"error":"server not fully initialized"}`))
			return
		}
		next(w, r)
	}
}
