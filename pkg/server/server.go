package server

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"meridian-hq/hermes/pkg/audit"
	"meridian-hq/hermes/pkg/breaker"
	"meridian-hq/hermes/pkg/config"
	"meridian-hq/hermes/pkg/health"
	"meridian-hq/hermes/pkg/limits/ratelimit"
	"meridian-hq/hermes/pkg/providerfactory"
	"meridian-hq/hermes/pkg/proxy/handlers"
	"meridian-hq/hermes/pkg/proxy/middleware"
	"meridian-hq/hermes/pkg/router"
	"meridian-hq/hermes/pkg/telemetry/metrics"
	"meridian-hq/hermes/pkg/tenant"
)

// Deps carries the wired components the server exposes over HTTP.
type Deps struct {
	Manager   *providerfactory.Manager
	Tracker   *health.Tracker
	Breakers  *breaker.Set
	Registry  *tenant.Registry
	Limiter   *ratelimit.Limiter
	Router    *router.Router
	Collector *metrics.Collector
	Recorder  *audit.Recorder
	Version   string
}

// Server is the gateway's HTTP server.
type Server struct {
	config     *config.Config
	deps       Deps
	httpServer *http.Server
	logger     *slog.Logger

	mu        sync.Mutex
	isRunning bool
}

// New creates the gateway server.
func New(cfg *config.Config, deps Deps) *Server {
	return &Server{
		config: cfg,
		deps:   deps,
		logger: slog.Default().With("component", "server"),
	}
}

// Start starts listening and blocks until the listener stops. A clean
// Shutdown surfaces as a nil error.
func (s *Server) Start() error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}
	s.isRunning = true

	s.httpServer = &http.Server{
		Addr:           s.config.Server.ListenAddress,
		Handler:        s.Handler(),
		ReadTimeout:    s.config.Server.ReadTimeout,
		WriteTimeout:   s.config.Server.WriteTimeout,
		IdleTimeout:    s.config.Server.IdleTimeout,
		MaxHeaderBytes: s.config.Server.MaxHeaderBytes,
	}
	s.mu.Unlock()

	s.logger.Info("gateway listening",
		"address", s.config.Server.ListenAddress,
		"tls_enabled", s.config.Server.TLS.Enabled,
	)

	var err error
	if s.config.Server.TLS.Enabled {
		s.httpServer.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		err = s.httpServer.ListenAndServeTLS(
			s.config.Server.TLS.CertFile,
			s.config.Server.TLS.KeyFile,
		)
	} else {
		err = s.httpServer.ListenAndServe()
	}
	if err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests within the configured grace period
// and then closes the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.httpServer
	s.isRunning = false
	s.mu.Unlock()

	if srv == nil {
		return nil
	}

	s.logger.Info("draining in-flight requests",
		"grace", s.config.Server.ShutdownTimeout.String(),
	)

	shutdownCtx, cancel := context.WithTimeout(ctx, s.config.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("forced shutdown after grace period: %w", err)
	}
	return nil
}

// Handler builds the full route table with the middleware chain
// applied. Exposed for end-to-end tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	chat := handlers.NewChatHandler(s.deps.Registry, s.deps.Limiter, s.deps.Router, handlers.ChatHandlerOptions{
		MaxBodyBytes: s.config.Server.MaxBodyBytes,
		Collector:    s.deps.Collector,
		Recorder:     s.deps.Recorder,
	})
	hh := handlers.NewHealthHandler(s.deps.Manager, s.deps.Tracker, s.deps.Breakers, s.deps.Registry, s.deps.Version)

	mux.Handle("/v1/chat/completions", chat)
	mux.HandleFunc("/health", hh.Liveness)
	mux.HandleFunc("/health/detailed", hh.Detailed)
	mux.HandleFunc("/v1/health/providers", hh.Providers)

	if s.deps.Collector != nil && (s.config.Telemetry.Metrics.Enabled == nil || *s.config.Telemetry.Metrics.Enabled) {
		mux.Handle(s.config.Telemetry.Metrics.Path, s.deps.Collector.Handler())
	}

	var handler http.Handler = mux
	handler = middleware.CORS(s.config.Server.CORS)(handler)
	handler = middleware.Logging(handler)
	handler = middleware.RequestID(handler)
	handler = middleware.Recovery(handler)
	return handler
}

// IsRunning reports whether the server is accepting connections.
func (s *Server) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRunning
}
