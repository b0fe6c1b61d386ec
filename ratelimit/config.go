/*
Copyright © 2025 Webtoolbox Authors.

Released under MIT license.
*/

package ratelimit

import (
	"fmt"
	"time"

	"github.com/webtoolbox/toolbox/config"
)

const cfgDefaultKeyPrefix = "rateLimit"

const (
	cfgKeyWindow            = "window"
	cfgKeyMaxRequests       = "maxRequests"
	cfgKeyMaxClients        = "maxClients"
	cfgKeyTrustProxyHeaders = "trustProxyHeaders"
	cfgKeySweepInterval     = "sweepInterval"
	cfgKeyGlobalMaxRequests = "global.maxRequests"
	cfgKeyGlobalWindow      = "global.window"
)

// Default values.
const (
	DefaultWindow      = time.Minute * 15
	DefaultMaxRequests = 100
	DefaultMaxClients  = 10000

	DefaultSweepInterval = time.Minute

	DefaultGlobalWindow = time.Second
)

// GlobalConfig is a configuration for the optional service-wide throughput guard.
// The guard is disabled when MaxRequests is 0.
type GlobalConfig struct {
	MaxRequests int                 `mapstructure:"maxRequests" yaml:"maxRequests" json:"maxRequests"`
	Window      config.TimeDuration `mapstructure:"window" yaml:"window" json:"window"`
}

// Config represents a set of configuration parameters for rate limiting.
type Config struct {
	// Window is the length of the sliding window.
	Window config.TimeDuration `mapstructure:"window" yaml:"window" json:"window"`

	// MaxRequests is the maximum number of requests a client may make within the window.
	MaxRequests int `mapstructure:"maxRequests" yaml:"maxRequests" json:"maxRequests"`

	// MaxClients bounds the number of clients tracked at the same time.
	MaxClients int `mapstructure:"maxClients" yaml:"maxClients" json:"maxClients"`

	// TrustProxyHeaders makes client identification use X-Forwarded-For/X-Real-IP.
	// Enable only when the service sits behind a trusted reverse proxy.
	TrustProxyHeaders bool `mapstructure:"trustProxyHeaders" yaml:"trustProxyHeaders" json:"trustProxyHeaders"`

	// SweepInterval is how often idle client windows are removed in the background.
	SweepInterval config.TimeDuration `mapstructure:"sweepInterval" yaml:"sweepInterval" json:"sweepInterval"`

	// Global configures the service-wide throughput guard.
	Global GlobalConfig `mapstructure:"global" yaml:"global" json:"global"`

	keyPrefix string
}

var _ config.Config = (*Config)(nil)
var _ config.KeyPrefixProvider = (*Config)(nil)

// ConfigOption is a type for functional options for the Config.
type ConfigOption func(*configOptions)

type configOptions struct {
	keyPrefix string
}

// WithKeyPrefix returns a ConfigOption that sets a key prefix for parsing configuration parameters.
func WithKeyPrefix(keyPrefix string) ConfigOption {
	return func(o *configOptions) {
		o.keyPrefix = keyPrefix
	}
}

// NewConfig creates a new instance of the Config.
func NewConfig(options ...ConfigOption) *Config {
	opts := configOptions{keyPrefix: cfgDefaultKeyPrefix}
	for _, opt := range options {
		opt(&opts)
	}
	return &Config{keyPrefix: opts.keyPrefix}
}

// NewDefaultConfig creates a new instance of the Config with default values.
func NewDefaultConfig(options ...ConfigOption) *Config {
	opts := configOptions{keyPrefix: cfgDefaultKeyPrefix}
	for _, opt := range options {
		opt(&opts)
	}
	return &Config{
		keyPrefix:     opts.keyPrefix,
		Window:        config.TimeDuration(DefaultWindow),
		MaxRequests:   DefaultMaxRequests,
		MaxClients:    DefaultMaxClients,
		SweepInterval: config.TimeDuration(DefaultSweepInterval),
		Global:        GlobalConfig{Window: config.TimeDuration(DefaultGlobalWindow)},
	}
}

// KeyPrefix returns a key prefix with which all configuration parameters should be presented.
// Implements config.KeyPrefixProvider interface.
func (c *Config) KeyPrefix() string {
	if c.keyPrefix == "" {
		return cfgDefaultKeyPrefix
	}
	return c.keyPrefix
}

// SetProviderDefaults sets default configuration values for rate limiting in config.DataProvider.
// Implements config.Config interface.
func (c *Config) SetProviderDefaults(dp config.DataProvider) {
	dp.SetDefault(cfgKeyWindow, DefaultWindow.String())
	dp.SetDefault(cfgKeyMaxRequests, DefaultMaxRequests)
	dp.SetDefault(cfgKeyMaxClients, DefaultMaxClients)
	dp.SetDefault(cfgKeySweepInterval, DefaultSweepInterval.String())
	dp.SetDefault(cfgKeyGlobalWindow, DefaultGlobalWindow.String())
}

// Set sets rate limiting configuration values from config.DataProvider.
// Implements config.Config interface.
func (c *Config) Set(dp config.DataProvider) error {
	var err error

	var window time.Duration
	if window, err = dp.GetDuration(cfgKeyWindow); err != nil {
		return err
	}
	if window <= 0 {
		return dp.WrapKeyErr(cfgKeyWindow, fmt.Errorf("should be positive"))
	}
	c.Window = config.TimeDuration(window)

	if c.MaxRequests, err = dp.GetInt(cfgKeyMaxRequests); err != nil {
		return err
	}
	if c.MaxRequests <= 0 {
		return dp.WrapKeyErr(cfgKeyMaxRequests, fmt.Errorf("should be positive"))
	}

	if c.MaxClients, err = dp.GetInt(cfgKeyMaxClients); err != nil {
		return err
	}
	if c.MaxClients <= 0 {
		return dp.WrapKeyErr(cfgKeyMaxClients, fmt.Errorf("should be positive"))
	}

	if c.TrustProxyHeaders, err = dp.GetBool(cfgKeyTrustProxyHeaders); err != nil {
		return err
	}

	var sweepInterval time.Duration
	if sweepInterval, err = dp.GetDuration(cfgKeySweepInterval); err != nil {
		return err
	}
	if sweepInterval <= 0 {
		return dp.WrapKeyErr(cfgKeySweepInterval, fmt.Errorf("should be positive"))
	}
	c.SweepInterval = config.TimeDuration(sweepInterval)

	return c.setGlobalConfig(dp)
}

func (c *Config) setGlobalConfig(dp config.DataProvider) error {
	var err error

	if c.Global.MaxRequests, err = dp.GetInt(cfgKeyGlobalMaxRequests); err != nil {
		return err
	}
	if c.Global.MaxRequests < 0 {
		return dp.WrapKeyErr(cfgKeyGlobalMaxRequests, fmt.Errorf("should be >= 0 (0 disables the guard)"))
	}

	var globalWindow time.Duration
	if globalWindow, err = dp.GetDuration(cfgKeyGlobalWindow); err != nil {
		return err
	}
	if globalWindow <= 0 {
		return dp.WrapKeyErr(cfgKeyGlobalWindow, fmt.Errorf("should be positive"))
	}
	c.Global.Window = config.TimeDuration(globalWindow)

	return nil
}
