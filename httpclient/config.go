/*
Copyright © 2025 Webtoolbox Authors.

Released under MIT license.
*/

package httpclient

import (
	"fmt"
	"time"

	"github.com/webtoolbox/toolbox/config"
)

const cfgDefaultKeyPrefix = "httpClient"

const (
	cfgKeyClientTimeout               = "timeout"
	cfgKeyClientLogEnabled            = "log.enabled"
	cfgKeyClientLogMode               = "log.mode"
	cfgKeyClientRateLimitsEnabled     = "rateLimits.enabled"
	cfgKeyClientRateLimitsLimit       = "rateLimits.limit"
	cfgKeyClientRateLimitsBurst       = "rateLimits.burst"
	cfgKeyClientRateLimitsWaitTimeout = "rateLimits.waitTimeout"
)

// Default configuration values for the HTTP client.
const (
	DefaultTimeout = 10 * time.Second
)

// Config represents a set of configuration parameters for the outbound HTTP client.
type Config struct {
	// Timeout is the total request timeout, covering the whole round trip.
	Timeout config.TimeDuration `mapstructure:"timeout" yaml:"timeout" json:"timeout"`

	// Log is a configuration for logging of outgoing requests.
	Log ClientLogConfig `mapstructure:"log" yaml:"log" json:"log"`

	// RateLimits is a configuration for client-side rate limiting of outgoing requests.
	RateLimits ClientRateLimitConfig `mapstructure:"rateLimits" yaml:"rateLimits" json:"rateLimits"`

	keyPrefix string
}

var _ config.Config = (*Config)(nil)
var _ config.KeyPrefixProvider = (*Config)(nil)

// ClientLogConfig represents configuration parameters for logging of outgoing requests.
type ClientLogConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled" json:"enabled"`
	Mode    string `mapstructure:"mode" yaml:"mode" json:"mode"`
}

// ClientRateLimitConfig represents configuration parameters
// for client-side rate limiting of outgoing requests.
type ClientRateLimitConfig struct {
	Enabled     bool                `mapstructure:"enabled" yaml:"enabled" json:"enabled"`
	Limit       int                 `mapstructure:"limit" yaml:"limit" json:"limit"`
	Burst       int                 `mapstructure:"burst" yaml:"burst" json:"burst"`
	WaitTimeout config.TimeDuration `mapstructure:"waitTimeout" yaml:"waitTimeout" json:"waitTimeout"`
}

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
		keyPrefix: opts.keyPrefix,
		Timeout:   config.TimeDuration(DefaultTimeout),
		Log:       ClientLogConfig{Mode: string(LoggingModeAll)},
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

// SetProviderDefaults sets default configuration values for the HTTP client in config.DataProvider.
// Implements config.Config interface.
func (c *Config) SetProviderDefaults(dp config.DataProvider) {
	dp.SetDefault(cfgKeyClientTimeout, DefaultTimeout.String())
	dp.SetDefault(cfgKeyClientLogEnabled, false)
	dp.SetDefault(cfgKeyClientLogMode, string(LoggingModeAll))
	dp.SetDefault(cfgKeyClientRateLimitsEnabled, false)
}

// Set sets HTTP client configuration values from config.DataProvider.
// Implements config.Config interface.
func (c *Config) Set(dp config.DataProvider) error {
	var err error

	var timeout time.Duration
	if timeout, err = dp.GetDuration(cfgKeyClientTimeout); err != nil {
		return err
	}
	if timeout < 0 {
		return dp.WrapKeyErr(cfgKeyClientTimeout, fmt.Errorf("must be non-negative"))
	}
	c.Timeout = config.TimeDuration(timeout)

	if c.Log.Enabled, err = dp.GetBool(cfgKeyClientLogEnabled); err != nil {
		return err
	}
	if c.Log.Mode, err = dp.GetString(cfgKeyClientLogMode); err != nil {
		return err
	}
	if !LoggingMode(c.Log.Mode).IsValid() {
		return dp.WrapKeyErr(cfgKeyClientLogMode, fmt.Errorf("must be one of: [none, all, failed]"))
	}

	if c.RateLimits.Enabled, err = dp.GetBool(cfgKeyClientRateLimitsEnabled); err != nil {
		return err
	}
	if c.RateLimits.Enabled {
		if c.RateLimits.Limit, err = dp.GetInt(cfgKeyClientRateLimitsLimit); err != nil {
			return err
		}
		if c.RateLimits.Limit <= 0 {
			return dp.WrapKeyErr(cfgKeyClientRateLimitsLimit, fmt.Errorf("must be positive"))
		}
		if c.RateLimits.Burst, err = dp.GetInt(cfgKeyClientRateLimitsBurst); err != nil {
			return err
		}
		if c.RateLimits.Burst < 0 {
			return dp.WrapKeyErr(cfgKeyClientRateLimitsBurst, fmt.Errorf("must be non-negative"))
		}
		var waitTimeout time.Duration
		if waitTimeout, err = dp.GetDuration(cfgKeyClientRateLimitsWaitTimeout); err != nil {
			return err
		}
		if waitTimeout < 0 {
			return dp.WrapKeyErr(cfgKeyClientRateLimitsWaitTimeout, fmt.Errorf("must be non-negative"))
		}
		c.RateLimits.WaitTimeout = config.TimeDuration(waitTimeout)
	}

	return nil
}
