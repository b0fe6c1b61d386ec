/*
Copyright © 2025 Webtoolbox Authors.

Released under MIT license.
*/

// Package httpserver provides a wrapper around http.Server with predefined
// middleware chain (request ID, logging, recovery, metrics, rate limiting,
// response caching) and a chi router with health-check and Prometheus endpoints.
package httpserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/webtoolbox/toolbox/httpserver/middleware"
	"github.com/webtoolbox/toolbox/log"
	"github.com/webtoolbox/toolbox/ratelimit"
	"github.com/webtoolbox/toolbox/respcache"
	"github.com/webtoolbox/toolbox/service"
)

// systemEndpoints is a list of endpoints which are not involved in metrics collecting,
// rate limiting, and response caching.
var systemEndpoints = []string{"/metrics", "/healthz"}

// APIVersion is a type alias for API version.
type APIVersion = int

// APIRoute is a type alias for single API route.
type APIRoute = func(router chi.Router)

// Opts represents options for creating HTTPServer.
type Opts struct {
	// ServiceNameInURL is a prefix for API routes (e.g. "toolbox" gives "/api/toolbox/v1").
	ServiceNameInURL string

	// APIRoutes is a map of API versions to their route configuration functions.
	APIRoutes map[APIVersion]APIRoute

	// ErrorDomain is used for error response formatting.
	ErrorDomain string

	// HealthCheck is a function that performs health check logic.
	HealthCheck HealthCheck

	// MetricsHandler is a custom handler for the /metrics endpoint (e.g., Prometheus handler).
	MetricsHandler http.Handler

	// MetricsNamespace is prepended to the names of the HTTP request metrics.
	MetricsNamespace string

	// RateLimiter, when not nil, enables per-client rate limiting of API requests.
	RateLimiter *ratelimit.SlidingWindowLogLimiter

	// RateLimitOpts configures the rate limiting middleware (client identity
	// strategy, global throughput guard).
	RateLimitOpts middleware.RateLimitOpts

	// ResponseCache, when not nil, enables caching of successful API responses.
	ResponseCache *respcache.Cache

	// ResponseCacheOpts configures the response caching middleware (excluded routes).
	ResponseCacheOpts middleware.ResponseCacheOpts
}

// HTTPServer represents a wrapper around http.Server with additional fields and methods.
// It implements service.Unit and service.MetricsRegisterer interfaces.
type HTTPServer struct {
	URL             string
	HTTPServer      *http.Server
	HTTPRouter      chi.Router
	Logger          log.FieldLogger
	ShutdownTimeout time.Duration

	listener           net.Listener
	port               int32
	httpServerDone     atomic.Value
	httpRequestMetrics *middleware.HTTPRequestMetricsCollector
}

var _ service.Unit = (*HTTPServer)(nil)
var _ service.MetricsRegisterer = (*HTTPServer)(nil)

// New creates a new HTTPServer with predefined logging, metrics collecting,
// recovering after panics, rate limiting, response caching,
// and health-checking functionality.
func New(cfg *Config, logger log.FieldLogger, opts Opts) (*HTTPServer, error) {
	httpRequestMetrics := middleware.NewHTTPRequestMetricsCollectorWithOpts(
		middleware.HTTPRequestMetricsCollectorOpts{Namespace: opts.MetricsNamespace})

	router := chi.NewRouter()
	applyDefaultMiddlewaresToRouter(router, cfg, logger, opts, httpRequestMetrics)
	configureRouter(router, logger, opts)

	httpServer := &http.Server{
		Addr:              cfg.Address,
		WriteTimeout:      time.Duration(cfg.Timeouts.Write),
		ReadTimeout:       time.Duration(cfg.Timeouts.Read),
		ReadHeaderTimeout: time.Duration(cfg.Timeouts.ReadHeader),
		IdleTimeout:       time.Duration(cfg.Timeouts.Idle),
		Handler:           router,
	}

	return &HTTPServer{
		URL:                "http://" + cfg.Address,
		HTTPServer:         httpServer,
		HTTPRouter:         router,
		Logger:             logger,
		ShutdownTimeout:    time.Duration(cfg.Timeouts.Shutdown),
		httpRequestMetrics: httpRequestMetrics,
	}, nil
}

// Start starts application HTTP server in a blocking way.
// It's supposed that this method will be called in a separate goroutine.
// If a fatal error occurs, it will be sent to the fatalError channel.
func (s *HTTPServer) Start(fatalError chan<- error) {
	done := make(chan struct{})
	defer close(done)
	s.httpServerDone.Store(done)

	logger := s.Logger.With(
		log.String("address", s.HTTPServer.Addr),
		log.Duration("write_timeout", s.HTTPServer.WriteTimeout),
		log.Duration("read_timeout", s.HTTPServer.ReadTimeout),
		log.Duration("read_header_timeout", s.HTTPServer.ReadHeaderTimeout),
		log.Duration("idle_timeout", s.HTTPServer.IdleTimeout),
		log.Duration("shutdown_timeout", s.ShutdownTimeout),
	)

	logger.Info("starting application HTTP server...")

	var err error
	if s.listener == nil {
		if s.listener, err = net.Listen("tcp", s.HTTPServer.Addr); err != nil {
			logger.Error("application HTTP server error", log.Error(err))
			fatalError <- err
			return
		}
	}

	if _, portStr, splitErr := net.SplitHostPort(s.listener.Addr().String()); splitErr == nil {
		if port, parseErr := strconv.ParseInt(portStr, 10, 32); parseErr == nil {
			atomic.StoreInt32(&s.port, int32(port))
		}
	}

	if err = s.HTTPServer.Serve(s.listener); err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			logger.Info("application HTTP server closed")
			return
		}
		logger.Error("application HTTP server error", log.Error(err))
		fatalError <- err
		return
	}
}

// Stop stops application HTTP server (gracefully or not).
func (s *HTTPServer) Stop(gracefully bool) error {
	if !gracefully {
		s.Logger.Info("closing application HTTP server...")
		if err := s.HTTPServer.Close(); err != nil {
			s.Logger.Error("application HTTP server closing error", log.Error(err))
			return err
		}
		s.waitServerDone()
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.ShutdownTimeout)
	defer cancel()

	s.Logger.Info("shutting down application HTTP server...", log.Duration("timeout", s.ShutdownTimeout))
	if err := s.HTTPServer.Shutdown(ctx); err != nil {
		s.Logger.Error("application HTTP server shutting down error", log.Error(err))
		return err
	}
	s.Logger.Info("application HTTP server shut down")

	s.waitServerDone()
	return nil
}

func (s *HTTPServer) waitServerDone() {
	if done, ok := s.httpServerDone.Load().(chan struct{}); ok && done != nil {
		<-done // Wait for the listener to be closed.
	}
}

// MustRegisterMetrics registers metrics in Prometheus client and panics if any error occurs.
func (s *HTTPServer) MustRegisterMetrics() {
	s.httpRequestMetrics.MustRegister()
}

// UnregisterMetrics unregisters metrics in Prometheus client.
func (s *HTTPServer) UnregisterMetrics() {
	s.httpRequestMetrics.Unregister()
}

// GetPort returns the port the server is listening on.
// It is assigned after Start() when the address is configured with a dynamic port.
func (s *HTTPServer) GetPort() int {
	return int(atomic.LoadInt32(&s.port))
}
