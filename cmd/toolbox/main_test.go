/*
Copyright © 2025 Webtoolbox Authors.

Released under MIT license.
*/

package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadAppConfig(t *testing.T) {
	cfgData := `
server:
  address: ":8888"
  timeouts:
    shutdown: 10s
log:
  level: warn
rateLimit:
  window: 30s
  maxRequests: 5
responseCache:
  ttl: 1m
  excludedRoutes:
    - "*/custom/no-cache"
httpClient:
  timeout: 3s
`
	cfgPath := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfgData), 0600))

	cfg, err := loadAppConfig(cfgPath)
	require.NoError(t, err)

	require.Equal(t, ":8888", cfg.Server.Address)
	require.Equal(t, time.Second*10, time.Duration(cfg.Server.Timeouts.Shutdown))
	require.Equal(t, time.Second*30, time.Duration(cfg.RateLimit.Window))
	require.Equal(t, 5, cfg.RateLimit.MaxRequests)
	require.Equal(t, time.Minute, time.Duration(cfg.ResponseCache.TTL))
	require.Equal(t, []string{"*/custom/no-cache"}, cfg.ResponseCache.ExcludedRoutes)
	require.Equal(t, time.Second*3, time.Duration(cfg.HTTPClient.Timeout))

	// Untouched sections keep their defaults.
	require.False(t, cfg.ProfServer.Enabled)
	require.True(t, cfg.ResponseCache.Enabled)
	require.Equal(t, 10000, cfg.RateLimit.MaxClients)
}

func TestLoadAppConfigMissingFile(t *testing.T) {
	_, err := loadAppConfig(filepath.Join(t.TempDir(), "nope.yml"))
	require.Error(t, err)
}
