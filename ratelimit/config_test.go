/*
Copyright © 2025 Webtoolbox Authors.

Released under MIT license.
*/

package ratelimit

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/webtoolbox/toolbox/config"
)

func TestConfigSet(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg := NewConfig()
		err := config.NewDefaultLoader("toolbox").LoadFromReader(bytes.NewBufferString("{}"), config.DataTypeYAML, cfg)
		require.NoError(t, err)
		require.Equal(t, config.TimeDuration(time.Minute*15), cfg.Window)
		require.Equal(t, 100, cfg.MaxRequests)
		require.Equal(t, 10000, cfg.MaxClients)
		require.False(t, cfg.TrustProxyHeaders)
		require.Equal(t, config.TimeDuration(time.Minute), cfg.SweepInterval)
		require.Equal(t, 0, cfg.Global.MaxRequests)
	})

	t.Run("full yaml", func(t *testing.T) {
		cfgData := bytes.NewBufferString(`
rateLimit:
  window: 1m
  maxRequests: 10
  maxClients: 500
  trustProxyHeaders: true
  sweepInterval: 30s
  global:
    maxRequests: 1000
    window: 2s
`)
		cfg := NewConfig()
		err := config.NewDefaultLoader("toolbox").LoadFromReader(cfgData, config.DataTypeYAML, cfg)
		require.NoError(t, err)
		require.Equal(t, config.TimeDuration(time.Minute), cfg.Window)
		require.Equal(t, 10, cfg.MaxRequests)
		require.Equal(t, 500, cfg.MaxClients)
		require.True(t, cfg.TrustProxyHeaders)
		require.Equal(t, config.TimeDuration(time.Second*30), cfg.SweepInterval)
		require.Equal(t, 1000, cfg.Global.MaxRequests)
		require.Equal(t, config.TimeDuration(time.Second*2), cfg.Global.Window)
	})

	t.Run("non-positive window", func(t *testing.T) {
		cfg := NewConfig()
		err := config.NewDefaultLoader("toolbox").LoadFromReader(
			bytes.NewBufferString("rateLimit:\n  window: 0s\n"), config.DataTypeYAML, cfg)
		require.Error(t, err)
		require.Contains(t, err.Error(), "rateLimit.window")
	})

	t.Run("non-positive maxRequests", func(t *testing.T) {
		cfg := NewConfig()
		err := config.NewDefaultLoader("toolbox").LoadFromReader(
			bytes.NewBufferString("rateLimit:\n  maxRequests: -1\n"), config.DataTypeYAML, cfg)
		require.Error(t, err)
		require.Contains(t, err.Error(), "rateLimit.maxRequests")
	})
}
