package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigCreatesDefault(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lanshare.yaml")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.BindAddress)
	assert.Equal(t, int64(1<<30), cfg.Storage.MaxUploadBytes)
	assert.Equal(t, 3, cfg.Security.MinAccessCodeLength)
	assert.Equal(t, ModeDevelopment, cfg.Mode)

	// The default file is written on first run.
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lanshare.yaml")
	content := []byte(`
server:
  port: 8080
  bindAddress: 127.0.0.1
storage:
  storeDirectory: ./files
security:
  minAccessCodeLength: 6
`)
	require.NoError(t, os.WriteFile(path, content, 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "127.0.0.1:8080", cfg.GetServerAddr())
	assert.Equal(t, 6, cfg.Security.MinAccessCodeLength)
	// Unset fields keep defaults.
	assert.Equal(t, "1G", cfg.Server.BodyLimit)
	// Relative paths resolve against the config file location.
	assert.Equal(t, filepath.Join(dir, "files"), cfg.Storage.StoreDirectory)
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("STORE_DIR", "/tmp/lanshare-test-store")
	t.Setenv("APP_ENV", ModeProduction)

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "lanshare.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "/tmp/lanshare-test-store", cfg.Storage.StoreDirectory)
	assert.True(t, cfg.IsProduction())
}

func TestEnsureDirectories(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.Storage.StoreDirectory = filepath.Join(dir, "store")

	require.NoError(t, cfg.EnsureDirectories())

	for _, p := range []string{
		cfg.Storage.StoreDirectory,
		filepath.Join(cfg.Storage.StoreDirectory, "public"),
	} {
		st, err := os.Stat(p)
		require.NoError(t, err)
		assert.True(t, st.IsDir())
	}
}
