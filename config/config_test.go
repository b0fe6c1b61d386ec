/*
Copyright © 2025 Webtoolbox Authors.

Released under MIT license.
*/

package config

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

type testSectionConfig struct {
	Endpoint string
	Limit    int

	keyPrefix string
}

func (c *testSectionConfig) KeyPrefix() string {
	return c.keyPrefix
}

func (c *testSectionConfig) SetProviderDefaults(dp DataProvider) {
	dp.SetDefault("endpoint", "localhost")
	dp.SetDefault("limit", 100)
}

func (c *testSectionConfig) Set(dp DataProvider) (err error) {
	if c.Endpoint, err = dp.GetString("endpoint"); err != nil {
		return err
	}
	if c.Limit, err = dp.GetInt("limit"); err != nil {
		return err
	}
	return nil
}

type testAppConfig struct {
	Section1   *testSectionConfig
	Section2   *testSectionConfig
	NilSection *testSectionConfig
	NilConfig  Config
	Verbose    bool
}

func (c *testAppConfig) SetProviderDefaults(dp DataProvider) {
	CallSetProviderDefaultsForFields(c, dp)
}

func (c *testAppConfig) Set(dp DataProvider) (err error) {
	if err = CallSetForFields(c, dp); err != nil {
		return err
	}
	if c.Verbose, err = dp.GetBool("verbose"); err != nil {
		return err
	}
	return nil
}

func TestCallHelpersForFields(t *testing.T) {
	const yamlData = `
verbose: true
endpoint: "example.com"
limit: 42
section2:
  endpoint: "other.example.com"
`

	cfg := &testAppConfig{
		Section1: &testSectionConfig{},
		Section2: &testSectionConfig{keyPrefix: "section2"},
	}
	err := NewDefaultLoader("").LoadFromReader(bytes.NewReader([]byte(yamlData)), DataTypeYAML, cfg)
	require.NoError(t, err)

	require.Nil(t, cfg.NilSection)
	require.Nil(t, cfg.NilConfig)
	require.True(t, cfg.Verbose)

	// Section without a key prefix reads top-level keys.
	require.Equal(t, "example.com", cfg.Section1.Endpoint)
	require.Equal(t, 42, cfg.Section1.Limit)

	// Prefixed section reads its own subtree, defaults fill the gaps.
	require.Equal(t, "other.example.com", cfg.Section2.Endpoint)
	require.Equal(t, 100, cfg.Section2.Limit)
}
