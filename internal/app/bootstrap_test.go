package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/yt-audio-go/internal/domain"
	"github.com/yourusername/yt-audio-go/internal/infrastructure"
	"go.uber.org/zap"
)

func testConfig(t *testing.T) *domain.Config {
	tmpDir, err := os.MkdirTemp("", "bootstrap-test-*")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(tmpDir) })

	cfg := domain.DefaultConfig()
	cfg.Download.Dir = filepath.Join(tmpDir, "downloads")
	cfg.Download.LogsDir = filepath.Join(tmpDir, "logs")
	cfg.Sidecar.DataDir = tmpDir
	cfg.Store.DatabasePath = filepath.Join(tmpDir, "settings.db")
	cfg.Notification.Enabled = false
	return cfg
}

func TestBootstrap_Native(t *testing.T) {
	cfg := testConfig(t)

	c, err := Bootstrap(cfg, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, "native", c.Backend.Name())
	assert.IsType(t, &infrastructure.SQLiteConfigStore{}, c.Store)
	assert.Equal(t, cfg.Download.Dir, c.Downloads.DownloadPath())

	// settings written through one container survive a restart
	require.NoError(t, c.Gate.SetBypass(true))
	require.NoError(t, c.Close())

	c2, err := Bootstrap(cfg, zap.NewNop())
	require.NoError(t, err)
	defer c2.Close()
	assert.True(t, c2.Gate.Snapshot().BypassEnabled)
}

func TestBootstrap_Delegated(t *testing.T) {
	cfg := testConfig(t)
	cfg.Backend.Kind = domain.BackendDelegated
	cfg.Backend.BridgeURL = "http://127.0.0.1:9"

	c, err := Bootstrap(cfg, zap.NewNop())
	require.NoError(t, err)
	defer c.Close()

	assert.Equal(t, "delegated", c.Backend.Name())
}

func TestBootstrap_FallsBackToMemoryStore(t *testing.T) {
	cfg := testConfig(t)
	blocker := filepath.Join(cfg.Sidecar.DataDir, "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))
	cfg.Store.DatabasePath = filepath.Join(blocker, "settings.db")

	c, err := Bootstrap(cfg, zap.NewNop())
	require.NoError(t, err)
	defer c.Close()

	assert.IsType(t, &infrastructure.MemoryConfigStore{}, c.Store)
	assert.Equal(t, domain.GateOpen, c.Gate.Status())
}

func TestBootstrap_UnknownBackend(t *testing.T) {
	cfg := testConfig(t)
	cfg.Backend.Kind = "carrier-pigeon"

	_, err := Bootstrap(cfg, zap.NewNop())
	assert.ErrorContains(t, err, "unknown backend kind")
}
