/*
Copyright © 2025 Webtoolbox Authors.

Released under MIT license.
*/

// Command toolbox runs the toolbox HTTP service: a set of small utility
// endpoints (hashing, encoding, generators, proxies) behind per-client
// rate limiting and response caching.
package main

import (
	"context"
	"flag"
	"fmt"
	golog "log"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/webtoolbox/toolbox/config"
	"github.com/webtoolbox/toolbox/handlers"
	"github.com/webtoolbox/toolbox/httpclient"
	"github.com/webtoolbox/toolbox/httpserver"
	"github.com/webtoolbox/toolbox/httpserver/middleware"
	"github.com/webtoolbox/toolbox/log"
	"github.com/webtoolbox/toolbox/lrucache"
	"github.com/webtoolbox/toolbox/profserver"
	"github.com/webtoolbox/toolbox/ratelimit"
	"github.com/webtoolbox/toolbox/respcache"
	"github.com/webtoolbox/toolbox/service"
)

const (
	serviceNameInURL = "toolbox"
	errorDomain      = "Toolbox"
	metricsNamespace = "toolbox"
	envVarsPrefix    = "toolbox"
)

func main() {
	configPath := flag.String("config", "config.yml", "path to the configuration file")
	flag.Parse()

	if err := runApp(*configPath); err != nil {
		golog.Fatal(err)
	}
}

func runApp(configPath string) error {
	cfg, err := loadAppConfig(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, loggerClose := log.NewLogger(cfg.Log)
	defer loggerClose()

	rateLimitMetrics := ratelimit.NewPrometheusMetrics()
	rateLimitMetrics.MustRegister()
	defer rateLimitMetrics.Unregister()

	rateLimiter, err := ratelimit.NewSlidingWindowLogLimiterFromConfig(cfg.RateLimit, rateLimitMetrics)
	if err != nil {
		return fmt.Errorf("create rate limiter: %w", err)
	}
	rateLimitOpts := middleware.RateLimitOpts{
		GetClientID: middleware.NewClientIDFunc(cfg.RateLimit.TrustProxyHeaders),
	}
	if cfg.RateLimit.Global.MaxRequests > 0 {
		rateLimitOpts.GlobalGuard = middleware.NewGlobalGuard(
			cfg.RateLimit.Global.MaxRequests, time.Duration(cfg.RateLimit.Global.Window))
	}

	var responseCache *respcache.Cache
	var responseCacheOpts middleware.ResponseCacheOpts
	if cfg.ResponseCache.Enabled {
		cacheMetrics := lrucache.NewPrometheusMetricsWithOpts(
			lrucache.PrometheusMetricsOpts{Namespace: metricsNamespace})
		cacheMetrics.MustRegister()
		defer cacheMetrics.Unregister()

		if responseCache, err = respcache.NewFromConfig(cfg.ResponseCache, cacheMetrics); err != nil {
			return fmt.Errorf("create response cache: %w", err)
		}
		defer responseCache.Clear()

		responseCacheOpts.ExcludedRoutes = append(
			responseCacheOpts.ExcludedRoutes, handlers.NoCacheRoutePatterns...)
		responseCacheOpts.ExcludedRoutes = append(
			responseCacheOpts.ExcludedRoutes, cfg.ResponseCache.ExcludedRoutes...)
	}

	catFactClient, err := httpclient.New(cfg.HTTPClient)
	if err != nil {
		return fmt.Errorf("create outbound HTTP client: %w", err)
	}

	httpServer, err := httpserver.New(cfg.Server, logger, httpserver.Opts{
		ServiceNameInURL: serviceNameInURL,
		ErrorDomain:      errorDomain,
		MetricsNamespace: metricsNamespace,
		APIRoutes: map[httpserver.APIVersion]httpserver.APIRoute{
			1: func(router chi.Router) {
				handlers.RegisterRoutes(router, handlers.RoutesOpts{
					ErrorDomain:   errorDomain,
					CatFactClient: catFactClient,
				})
			},
		},
		HealthCheck: func() (httpserver.HealthCheckResult, error) {
			return map[httpserver.HealthCheckComponentName]httpserver.HealthCheckStatus{
				"rate-limiter":   httpserver.HealthCheckStatusOK,
				"response-cache": httpserver.HealthCheckStatusOK,
			}, nil
		},
		RateLimiter:       rateLimiter,
		RateLimitOpts:     rateLimitOpts,
		ResponseCache:     responseCache,
		ResponseCacheOpts: responseCacheOpts,
	})
	if err != nil {
		return fmt.Errorf("create HTTP server: %w", err)
	}

	serviceUnits := []service.Unit{httpServer}

	serviceUnits = append(serviceUnits, service.NewWorkerUnit(service.NewPeriodicWorker(
		service.WorkerFunc(func(ctx context.Context) error {
			rateLimiter.Sweep()
			return nil
		}), time.Duration(cfg.RateLimit.SweepInterval), logger)))

	if responseCache != nil {
		serviceUnits = append(serviceUnits, service.NewWorkerUnit(service.NewPeriodicWorker(
			service.WorkerFunc(func(ctx context.Context) error {
				responseCache.Cleanup()
				return nil
			}), time.Duration(cfg.ResponseCache.CleanupInterval), logger)))
	}

	if cfg.ProfServer.Enabled {
		serviceUnits = append(serviceUnits, profserver.New(cfg.ProfServer, logger))
	}

	return service.New(logger, service.NewCompositeUnit(serviceUnits...)).Start()
}

func loadAppConfig(path string) (*AppConfig, error) {
	dataType := config.DataTypeYAML
	if strings.HasSuffix(path, ".json") {
		dataType = config.DataTypeJSON
	}
	cfg := NewAppConfig()
	if err := config.NewDefaultLoader(envVarsPrefix).LoadFromFile(path, dataType, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// AppConfig is the aggregated configuration of the whole service.
type AppConfig struct {
	Server        *httpserver.Config `mapstructure:"server" yaml:"server" json:"server"`
	ProfServer    *profserver.Config `mapstructure:"profServer" yaml:"profServer" json:"profServer"`
	Log           *log.Config        `mapstructure:"log" yaml:"log" json:"log"`
	RateLimit     *ratelimit.Config  `mapstructure:"rateLimit" yaml:"rateLimit" json:"rateLimit"`
	ResponseCache *respcache.Config  `mapstructure:"responseCache" yaml:"responseCache" json:"responseCache"`
	HTTPClient    *httpclient.Config `mapstructure:"httpClient" yaml:"httpClient" json:"httpClient"`
}

// NewAppConfig creates a new AppConfig with all sections initialized.
func NewAppConfig() *AppConfig {
	return &AppConfig{
		Server:        httpserver.NewConfig(),
		ProfServer:    profserver.NewConfig(),
		Log:           log.NewConfig(),
		RateLimit:     ratelimit.NewConfig(),
		ResponseCache: respcache.NewConfig(),
		HTTPClient:    httpclient.NewConfig(),
	}
}

// SetProviderDefaults is a part of config.Config interface.
func (c *AppConfig) SetProviderDefaults(dp config.DataProvider) {
	config.CallSetProviderDefaultsForFields(c, dp)
}

// Set is a part of config.Config interface.
func (c *AppConfig) Set(dp config.DataProvider) error {
	return config.CallSetForFields(c, dp)
}
