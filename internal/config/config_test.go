package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jrsteele09/go-news-portal/internal/config"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	t.Setenv("PORTAL_CONFIG_DIR", "/tmp/portal-test")
	c := config.FromFile(config.FileConfig{})

	require.Equal(t, "http://localhost:8000/api/", c.GetAPIBaseURL())
	require.Equal(t, 15*time.Second, c.GetRequestTimeout())
	require.Equal(t, config.StorageFile, c.GetStorageBackend())
	require.Equal(t, "/tmp/portal-test/session.json", c.GetSessionFile())
	require.Equal(t, "DEV", c.GetEnv())
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
log_level: debug
api:
  base_url: https://news.example.com/api
  timeout: 3s
storage:
  backend: bolt
  bolt_path: /var/lib/portal/session.db
`), 0o600))

	c, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, "https://news.example.com/api/", c.GetAPIBaseURL())
	require.Equal(t, 3*time.Second, c.GetRequestTimeout())
	require.Equal(t, config.StorageBolt, c.GetStorageBackend())
	require.Equal(t, "/var/lib/portal/session.db", c.GetBoltPath())
	require.Equal(t, "debug", c.GetLogLevel())

	t.Setenv("PORTAL_STORAGE", "redis")
	t.Setenv("PORTAL_API_URL", "http://127.0.0.1:9000/api/")
	require.Equal(t, config.StorageRedis, c.GetStorageBackend())
	require.Equal(t, "http://127.0.0.1:9000/api/", c.GetAPIBaseURL())
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api: [unterminated"), 0o600))

	_, err := config.Load(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "parsing")
}

func TestUnknownBackendFallsBackToFile(t *testing.T) {
	t.Setenv("PORTAL_STORAGE", "floppy")
	require.Equal(t, config.StorageFile, config.FromFile(config.FileConfig{}).GetStorageBackend())
}
