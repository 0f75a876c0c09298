package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/yt-audio-go/internal/domain"
)

func writeConfig(t *testing.T, body string) string {
	tmpDir, err := os.MkdirTemp("", "config-test-*")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(tmpDir) })

	path := filepath.Join(tmpDir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadConfig_File(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
download:
  dir: /tmp/music
  default_format: flac
backend:
  kind: delegated
  bridge_url: http://127.0.0.1:7777
http:
  timeout: 45s
  max_idle_conns_per_host: 2
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "/tmp/music", cfg.Download.Dir)
	assert.Equal(t, "flac", cfg.Download.DefaultFormat)
	assert.Equal(t, domain.BackendDelegated, cfg.Backend.Kind)
	assert.Equal(t, 45*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, 2, cfg.HTTP.MaxIdleConnsPerHost)
	assert.Equal(t, "yt-audio-go/1.0", cfg.HTTP.UserAgent)
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 9090\n")
	t.Setenv("YTAUDIO_SERVER_PORT", "9191")
	t.Setenv("YTAUDIO_DOWNLOAD_DIR", "/srv/audio")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 9191, cfg.Server.Port)
	assert.Equal(t, "/srv/audio", cfg.Download.Dir)
}

func TestLoadConfig_ExpandsHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	path := writeConfig(t, "store:\n  database_path: ~/yt/settings.db\n")
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "yt", "settings.db"), cfg.Store.DatabasePath)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"port", "server:\n  port: 70000\n"},
		{"backend", "backend:\n  kind: magic\n"},
		{"bridge", "backend:\n  kind: delegated\n"},
		{"format", "download:\n  default_format: ogg\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.body))
			assert.ErrorContains(t, err, "invalid configuration")
		})
	}
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "config-save-*")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	cfg := domain.DefaultConfig()
	cfg.Server.Port = 8181
	cfg.Download.Dir = filepath.Join(tmpDir, "music")
	cfg.HTTP.Timeout = 90 * time.Second

	path := filepath.Join(tmpDir, "nested", "config.yaml")
	require.NoError(t, SaveConfig(cfg, path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 8181, loaded.Server.Port)
	assert.Equal(t, cfg.Download.Dir, loaded.Download.Dir)
	assert.Equal(t, 90*time.Second, loaded.HTTP.Timeout)
}
