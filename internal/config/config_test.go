// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tablescan/internal/parallel"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tablescan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, parallel.DefaultWorkers, cfg.Defaults.Workers)
	assert.Equal(t, "text", cfg.Defaults.Format)
	assert.Equal(t, "csv", cfg.Defaults.TableFormat)
	assert.False(t, cfg.Defaults.Debug)

	// Built-in smoke profile is always present.
	smoke := cfg.GetProfile("smoke")
	require.NotNil(t, smoke)
	assert.True(t, smoke.TestMode)
	assert.Equal(t, 1, smoke.Workers)
}

func TestLoadConfigFromFile(t *testing.T) {
	path := writeConfig(t, `
defaults:
  workers: 6
  format: json
  table_format: markdown
  no_color: true
profiles:
  nightly:
    workers: 8
    format: csv
    description: Full nightly batch
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 6, cfg.Defaults.Workers)
	assert.Equal(t, "json", cfg.Defaults.Format)
	assert.Equal(t, "markdown", cfg.Defaults.TableFormat)
	assert.True(t, cfg.Defaults.NoColor)

	nightly := cfg.GetProfile("nightly")
	require.NotNil(t, nightly)
	assert.Equal(t, 8, nightly.Workers)
	assert.Equal(t, "Full nightly batch", nightly.Description)
}

func TestLoadConfigInvalidWorkers(t *testing.T) {
	path := writeConfig(t, "defaults:\n  workers: 99\n")
	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "workers")
}

func TestLoadConfigInvalidFormat(t *testing.T) {
	path := writeConfig(t, "defaults:\n  format: parquet\n")
	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "format")
}

func TestLoadConfigInvalidProfile(t *testing.T) {
	path := writeConfig(t, "profiles:\n  bad:\n    workers: -2\n")
	_, err := LoadConfig(path)
	require.Error(t, err)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadConfigMalformedYAML(t *testing.T) {
	path := writeConfig(t, "defaults: [not a map")
	_, err := LoadConfig(path)
	require.Error(t, err)
}

func TestApplyProfile(t *testing.T) {
	path := writeConfig(t, `
profiles:
  fast:
    workers: 8
    format: json
    debug: true
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	require.NoError(t, cfg.ApplyProfile("fast"))
	assert.Equal(t, 8, cfg.Defaults.Workers)
	assert.Equal(t, "json", cfg.Defaults.Format)
	assert.True(t, cfg.Defaults.Debug)
	// Unset profile values leave defaults alone.
	assert.Equal(t, "csv", cfg.Defaults.TableFormat)
}

func TestApplyProfileUnknown(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	err = cfg.ApplyProfile("missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing")
}

func TestListProfiles(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Contains(t, cfg.ListProfiles(), "smoke")
}
