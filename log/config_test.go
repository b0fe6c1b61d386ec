/*
Copyright © 2025 Webtoolbox Authors.

Released under MIT license.
*/

package log

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/webtoolbox/toolbox/config"
)

func TestConfigSet(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg := NewConfig()
		err := config.NewDefaultLoader("toolbox").LoadFromReader(bytes.NewBufferString("{}"), config.DataTypeYAML, cfg)
		require.NoError(t, err)
		require.Equal(t, LevelInfo, cfg.Level)
		require.Equal(t, FormatJSON, cfg.Format)
		require.Equal(t, OutputStdout, cfg.Output)
		require.Equal(t, config.BytesCount(DefaultFileRotationMaxSizeBytes), cfg.File.Rotation.MaxSize)
	})

	t.Run("full yaml", func(t *testing.T) {
		cfgData := bytes.NewBufferString(`
log:
  level: warn
  format: text
  output: file
  file:
    path: /var/log/toolbox.log
    rotation:
      compress: true
      maxSize: 100M
      maxBackups: 5
`)
		cfg := NewConfig()
		err := config.NewDefaultLoader("toolbox").LoadFromReader(cfgData, config.DataTypeYAML, cfg)
		require.NoError(t, err)
		require.Equal(t, LevelWarn, cfg.Level)
		require.Equal(t, FormatText, cfg.Format)
		require.Equal(t, OutputFile, cfg.Output)
		require.Equal(t, "/var/log/toolbox.log", cfg.File.Path)
		require.True(t, cfg.File.Rotation.Compress)
		require.Equal(t, config.BytesCount(100*1024*1024), cfg.File.Rotation.MaxSize)
		require.Equal(t, 5, cfg.File.Rotation.MaxBackups)
	})

	t.Run("file output requires path", func(t *testing.T) {
		cfg := NewConfig()
		err := config.NewDefaultLoader("toolbox").LoadFromReader(
			bytes.NewBufferString("log:\n  output: file\n"), config.DataTypeYAML, cfg)
		require.Error(t, err)
		require.Contains(t, err.Error(), "log.file.path")
	})

	t.Run("unknown level", func(t *testing.T) {
		cfg := NewConfig()
		err := config.NewDefaultLoader("toolbox").LoadFromReader(
			bytes.NewBufferString("log:\n  level: verbose\n"), config.DataTypeYAML, cfg)
		require.Error(t, err)
	})
}
