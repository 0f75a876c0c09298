//go:build integration && !windows

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/yourusername/yt-audio-go/api"
	"github.com/yourusername/yt-audio-go/internal/app"
	"github.com/yourusername/yt-audio-go/internal/domain"
)

// fakeYTDLP mimics yt-dlp: it records its arguments, prints progress and
// honours a few magic URLs
const fakeYTDLP = `#!/bin/sh
printf '%s\n' "$@" > "$(dirname "$0")/last-args"
for last; do :; done
case "$last" in
  *fail*)
    echo "ERROR: [generic] Unsupported URL: $last" >&2
    exit 1 ;;
  *slow*)
    exec sleep 30 ;;
esac
if [ "$1" = "--version" ]; then
  echo "2024.08.06"
  exit 0
fi
if [ "$1" = "--dump-json" ]; then
  echo '{"title":"Talk","uploader":"Someone","duration":61.9,"thumbnail":"https://img/t.jpg"}'
  exit 0
fi
echo "[info] Testing video: Downloading webpage"
echo "[download] Destination: /tmp/song.webm"
echo "[download]   0.2% of 3.00MiB at 1.00MiB/s ETA 00:03"
echo "[download]  50.0% of 3.00MiB at 1.00MiB/s ETA 00:01"
echo "[download] 100% of 3.00MiB in 00:00:03"
echo "[ExtractAudio] Destination: /tmp/song.mp3"
`

func setupContainer(t *testing.T) (*app.Container, string) {
	tmpDir, err := os.MkdirTemp("", "integration-*")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(tmpDir) })

	binDir := filepath.Join(tmpDir, "fake-bin")
	require.NoError(t, os.MkdirAll(binDir, 0755))
	script := filepath.Join(binDir, "yt-dlp")
	require.NoError(t, os.WriteFile(script, []byte(fakeYTDLP), 0755))

	cfg := domain.DefaultConfig()
	cfg.Download.Dir = filepath.Join(tmpDir, "downloads")
	cfg.Download.LogsDir = filepath.Join(tmpDir, "logs")
	cfg.Sidecar.DataDir = tmpDir
	cfg.Sidecar.YTDLPBinary = script
	cfg.Sidecar.FFmpegBinary = filepath.Join(tmpDir, "no-ffmpeg", "ffmpeg")
	cfg.Store.DatabasePath = filepath.Join(tmpDir, "settings.db")
	cfg.Notification.Enabled = false

	c, err := app.Bootstrap(cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })

	require.NoError(t, c.Settings.SaveAntiBanConfig(domain.AntiBanConfig{RotateUserAgent: true}))
	return c, binDir
}

func TestNativeDownload_EndToEnd(t *testing.T) {
	c, binDir := setupContainer(t)
	events, unsubscribe := c.Events.Subscribe()
	defer unsubscribe()

	result, err := c.Downloads.StartDownload(context.Background(), domain.DownloadRequest{
		URL:    "https://example.com/video",
		Format: domain.FormatMP3,
	})
	require.NoError(t, err)

	assert.Equal(t, "song", result.Title)
	assert.Equal(t, filepath.Join(c.Config.Download.Dir, "song.mp3"), result.OutputPath)
	assert.Equal(t, uint32(1), c.Gate.Count())

	raw, err := os.ReadFile(filepath.Join(binDir, "last-args"))
	require.NoError(t, err)
	args := strings.Split(strings.TrimSpace(string(raw)), "\n")
	assert.Equal(t, []string{"--extract-audio", "--audio-format", "mp3", "--output"}, args[:4])
	assert.Contains(t, args, "--user-agent")
	assert.NotContains(t, args, "--ffmpeg-location")
	assert.Equal(t, "https://example.com/video", args[len(args)-1])

	var progress []float64
	for len(events) > 0 {
		ev := <-events
		if p, ok := ev.Payload.(domain.ProgressPayload); ok {
			progress = append(progress, p.Progress)
		}
	}
	assert.Equal(t, []float64{50, 100, 100}, progress)

	transcript, err := os.ReadFile(filepath.Join(c.Config.Download.LogsDir, "ytdlp-"+time.Now().Format("20060102")+".log"))
	require.NoError(t, err)
	assert.Contains(t, string(transcript), "SUCCESS")
	assert.Contains(t, string(transcript), "=== END ===")
}

func TestNativeDownload_Failure(t *testing.T) {
	c, _ := setupContainer(t)

	_, err := c.Downloads.StartDownload(context.Background(), domain.DownloadRequest{URL: "https://example.com/fail"})
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindDownloadFailed))
	assert.Contains(t, err.Error(), "Unsupported URL")
	assert.Equal(t, uint32(0), c.Gate.Count())
}

func TestNativeDownload_Cancel(t *testing.T) {
	c, _ := setupContainer(t)

	errCh := make(chan error, 1)
	go func() {
		_, err := c.Downloads.StartDownload(context.Background(), domain.DownloadRequest{ID: "slow-1", URL: "https://example.com/slow"})
		errCh <- err
	}()

	require.Eventually(t, func() bool {
		return len(c.Downloads.ActiveDownloads()) == 1
	}, 5*time.Second, 20*time.Millisecond)
	time.Sleep(200 * time.Millisecond)
	require.NoError(t, c.Downloads.Cancel("slow-1"))

	select {
	case err := <-errCh:
		assert.True(t, domain.IsKind(err, domain.KindCancelled))
	case <-time.After(10 * time.Second):
		t.Fatal("yt-dlp was not killed")
	}
}

func TestNativeInfoAndVersion(t *testing.T) {
	c, _ := setupContainer(t)

	info, err := c.Downloads.GetVideoInfo(context.Background(), "https://example.com/video")
	require.NoError(t, err)
	assert.Equal(t, "Talk", info.Title)
	require.NotNil(t, info.Duration)
	assert.Equal(t, uint64(61), *info.Duration)

	version, err := c.Downloads.Version(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2024.08.06", version)
}

func TestAPI_DownloadOverHTTP(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := setupContainer(t)
	server := httptest.NewServer(api.SetupRouter(c))
	defer server.Close()

	body, _ := json.Marshal(map[string]string{"url": "https://example.com/video", "format": "flac"})
	resp, err := http.Post(server.URL+"/api/v1/downloads", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result domain.DownloadResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, filepath.Join(c.Config.Download.Dir, "song.flac"), result.OutputPath)

	resp2, err := http.Get(server.URL + "/api/v1/safety-gate")
	require.NoError(t, err)
	defer resp2.Body.Close()
	var snap domain.GateSnapshot
	require.NoError(t, json.NewDecoder(resp2.Body).Decode(&snap))
	assert.Equal(t, uint32(1), snap.Count)
}
