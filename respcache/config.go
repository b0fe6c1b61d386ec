/*
Copyright © 2025 Webtoolbox Authors.

Released under MIT license.
*/

package respcache

import (
	"fmt"
	"time"

	"github.com/webtoolbox/toolbox/config"
)

const cfgDefaultKeyPrefix = "responseCache"

const (
	cfgKeyEnabled         = "enabled"
	cfgKeyTTL             = "ttl"
	cfgKeyMaxEntries      = "maxEntries"
	cfgKeyCleanupInterval = "cleanupInterval"
	cfgKeyExcludedRoutes  = "excludedRoutes"
)

// Default values.
const (
	DefaultTTL        = time.Minute * 5
	DefaultMaxEntries = 10000

	DefaultCleanupInterval = time.Minute
)

// Config represents a set of configuration parameters for response caching.
type Config struct {
	// Enabled toggles response caching as a whole.
	Enabled bool `mapstructure:"enabled" yaml:"enabled" json:"enabled"`

	// TTL is how long a stored response stays servable.
	TTL config.TimeDuration `mapstructure:"ttl" yaml:"ttl" json:"ttl"`

	// MaxEntries bounds the number of stored responses.
	MaxEntries int `mapstructure:"maxEntries" yaml:"maxEntries" json:"maxEntries"`

	// CleanupInterval is how often expired entries are removed in the background.
	CleanupInterval config.TimeDuration `mapstructure:"cleanupInterval" yaml:"cleanupInterval" json:"cleanupInterval"`

	// ExcludedRoutes lists glob patterns of route paths that are never cached,
	// e.g. routes with inherently random responses.
	ExcludedRoutes []string `mapstructure:"excludedRoutes" yaml:"excludedRoutes" json:"excludedRoutes"`

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
		keyPrefix:       opts.keyPrefix,
		Enabled:         true,
		TTL:             config.TimeDuration(DefaultTTL),
		MaxEntries:      DefaultMaxEntries,
		CleanupInterval: config.TimeDuration(DefaultCleanupInterval),
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

// SetProviderDefaults sets default configuration values for response caching in config.DataProvider.
// Implements config.Config interface.
func (c *Config) SetProviderDefaults(dp config.DataProvider) {
	dp.SetDefault(cfgKeyEnabled, true)
	dp.SetDefault(cfgKeyTTL, DefaultTTL.String())
	dp.SetDefault(cfgKeyMaxEntries, DefaultMaxEntries)
	dp.SetDefault(cfgKeyCleanupInterval, DefaultCleanupInterval.String())
}

// Set sets response caching configuration values from config.DataProvider.
// Implements config.Config interface.
func (c *Config) Set(dp config.DataProvider) error {
	var err error

	if c.Enabled, err = dp.GetBool(cfgKeyEnabled); err != nil {
		return err
	}

	var ttl time.Duration
	if ttl, err = dp.GetDuration(cfgKeyTTL); err != nil {
		return err
	}
	if ttl <= 0 {
		return dp.WrapKeyErr(cfgKeyTTL, fmt.Errorf("should be positive"))
	}
	c.TTL = config.TimeDuration(ttl)

	if c.MaxEntries, err = dp.GetInt(cfgKeyMaxEntries); err != nil {
		return err
	}
	if c.MaxEntries <= 0 {
		return dp.WrapKeyErr(cfgKeyMaxEntries, fmt.Errorf("should be positive"))
	}

	var cleanupInterval time.Duration
	if cleanupInterval, err = dp.GetDuration(cfgKeyCleanupInterval); err != nil {
		return err
	}
	if cleanupInterval <= 0 {
		return dp.WrapKeyErr(cfgKeyCleanupInterval, fmt.Errorf("should be positive"))
	}
	c.CleanupInterval = config.TimeDuration(cleanupInterval)

	if c.ExcludedRoutes, err = dp.GetStringSlice(cfgKeyExcludedRoutes); err != nil {
		return err
	}

	return nil
}
