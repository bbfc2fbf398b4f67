package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vverrors "github.com/opsforge/vaultvars/internal/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vaultvars.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Parallel()

	cfg := &Config{Path: filepath.Join(t.TempDir(), "absent.yaml")}
	require.NoError(t, cfg.Load())

	assert.Equal(t, "vault", cfg.Definition.Store.Type)
	assert.Empty(t, cfg.Definition.Root)
}

func TestLoadFullDefinition(t *testing.T) {
	t.Parallel()

	cfg := &Config{Path: writeConfig(t, `
version: 0
store:
  type: vault
  address: https://vault.example.com:8200
  kv_version: 2
root: kv/inventory
inventory: inventory.yaml
metrics: true
`)}
	require.NoError(t, cfg.Load())

	assert.Equal(t, "vault", cfg.Definition.Store.Type)
	assert.Equal(t, "https://vault.example.com:8200", cfg.Definition.Store.Config["address"])
	assert.Equal(t, 2, cfg.Definition.Store.Config["kv_version"])
	assert.Equal(t, "kv/inventory", cfg.Definition.Root)
	assert.Equal(t, "inventory.yaml", cfg.Definition.Inventory)
	assert.True(t, cfg.Definition.Metrics)
}

func TestLoadEmptyStoreTypeDefaultsToVault(t *testing.T) {
	t.Parallel()

	cfg := &Config{Path: writeConfig(t, "root: kv/inventory\n")}
	require.NoError(t, cfg.Load())

	assert.Equal(t, "vault", cfg.Definition.Store.Type)
}

func TestLoadRejectsUnknownVersion(t *testing.T) {
	t.Parallel()

	cfg := &Config{Path: writeConfig(t, "version: 7\n")}
	err := cfg.Load()

	var configErr vverrors.ConfigError
	require.ErrorAs(t, err, &configErr)
	assert.Equal(t, "version", configErr.Field)
}

func TestLoadRejectsInvalidYAML(t *testing.T) {
	t.Parallel()

	cfg := &Config{Path: writeConfig(t, "store: [broken\n")}
	err := cfg.Load()

	var configErr vverrors.ConfigError
	assert.ErrorAs(t, err, &configErr)
}
