package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "en", cfg.Language)
	assert.Equal(t, "1.0.0-rc4", cfg.SchemaVersion)
	assert.Equal(t, "0.0.1", cfg.Version)
	assert.Equal(t, "ReproNim", cfg.Context.Org)
	assert.Equal(t, "reproschema", cfg.Context.Repo)
	assert.Equal(t, "schemas", cfg.Output.Dir)
}

func TestLoad(t *testing.T) {
	t.Run("missing config", func(t *testing.T) {
		_, err := Load(t.TempDir())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "config file not found")
	})

	t.Run("partial config merges with defaults", func(t *testing.T) {
		base := t.TempDir()
		dir := filepath.Join(base, DefaultConfigDir)
		require.NoError(t, os.MkdirAll(dir, 0755))
		content := "language: fr\ncontext:\n  org: MyLab\n"
		require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultConfigFile), []byte(content), 0644))

		cfg, err := Load(base)
		require.NoError(t, err)
		assert.Equal(t, "fr", cfg.Language)
		assert.Equal(t, "MyLab", cfg.Context.Org)
		// Untouched values keep their defaults.
		assert.Equal(t, "1.0.0-rc4", cfg.SchemaVersion)
		assert.Equal(t, "reproschema", cfg.Context.Repo)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		base := t.TempDir()
		dir := filepath.Join(base, DefaultConfigDir)
		require.NoError(t, os.MkdirAll(dir, 0755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultConfigFile), []byte("language: [unclosed"), 0644))

		_, err := Load(base)
		require.Error(t, err)
	})

	t.Run("env override", func(t *testing.T) {
		base := t.TempDir()
		require.NoError(t, WriteDefault(base))
		t.Setenv("REPROSCHEMA_LANG", "de")

		cfg, err := Load(base)
		require.NoError(t, err)
		assert.Equal(t, "de", cfg.Language)
	})
}

func TestWriteDefault(t *testing.T) {
	base := t.TempDir()
	require.NoError(t, WriteDefault(base))

	assert.True(t, Exists(base))

	// A second init must not clobber an existing config.
	err := WriteDefault(base)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestRegistryPath(t *testing.T) {
	cfg := Default()
	assert.Equal(t, filepath.Join("/ws", DefaultConfigDir, DefaultRegistryFile), cfg.RegistryPath("/ws"))

	cfg.Registry.Path = "/elsewhere/reg.db"
	assert.Equal(t, "/elsewhere/reg.db", cfg.RegistryPath("/ws"))
}
