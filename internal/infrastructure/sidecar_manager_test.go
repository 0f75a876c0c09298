package infrastructure

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/yt-audio-go/internal/domain"
	"go.uber.org/zap"
)

// recordingEmitter captures emitted events
type recordingEmitter struct {
	mu     sync.Mutex
	events []Event
}

func (r *recordingEmitter) Emit(name string, payload interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Event{Name: name, Payload: payload})
}

func (r *recordingEmitter) byName(name string) []interface{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []interface{}
	for _, e := range r.events {
		if e.Name == name {
			out = append(out, e.Payload)
		}
	}
	return out
}

func newTestSidecarManager(t *testing.T, goos string) (*SidecarManager, *recordingEmitter) {
	t.Helper()
	events := &recordingEmitter{}
	m := NewSidecarManager(domain.SidecarConfig{
		DataDir:     filepath.Join(t.TempDir(), "data"),
		ResourceDir: filepath.Join(t.TempDir(), "resources"),
	}, http.DefaultClient, events, zap.NewNop())
	m.goos = goos
	m.goarch = "amd64"
	m.lookPath = func(string) (string, error) { return "", errors.New("not found") }
	return m, events
}

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"), 0755))
}

func TestSidecarManager_PathResolution(t *testing.T) {
	m, _ := newTestSidecarManager(t, "linux")
	name := "yt-dlp-x86_64-unknown-linux-gnu"

	p, err := m.Path(domain.SidecarYTDLP)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(m.BinDir(), name), p, "falls back to the install location")
	assert.False(t, m.IsAvailable(domain.SidecarYTDLP))

	bundled := filepath.Join(m.resourceDir, "bin", name)
	touch(t, bundled)
	p, err = m.Path(domain.SidecarYTDLP)
	require.NoError(t, err)
	assert.Equal(t, bundled, p)

	installed := filepath.Join(m.BinDir(), name)
	touch(t, installed)
	p, err = m.Path(domain.SidecarYTDLP)
	require.NoError(t, err)
	assert.Equal(t, installed, p, "installed copy wins over the bundled one")
	assert.True(t, m.Status(context.Background()).YTDLP)
}

func TestSidecarManager_PathLookup(t *testing.T) {
	m, _ := newTestSidecarManager(t, "linux")
	m.lookPath = func(name string) (string, error) {
		if name == "ffmpeg" {
			return "/usr/bin/ffmpeg", nil
		}
		return "", errors.New("not found")
	}

	p, err := m.Path(domain.SidecarFFmpeg)
	require.NoError(t, err)
	assert.Equal(t, "/usr/bin/ffmpeg", p)
}

func TestSidecarManager_Override(t *testing.T) {
	m, _ := newTestSidecarManager(t, "linux")
	m.overrides[domain.SidecarYTDLP] = "/opt/yt-dlp"
	p, err := m.Path(domain.SidecarYTDLP)
	require.NoError(t, err)
	assert.Equal(t, "/opt/yt-dlp", p)

	m.overrides[domain.SidecarYTDLP] = "yt-dlp-custom"
	_, err = m.Path(domain.SidecarYTDLP)
	assert.True(t, domain.IsKind(err, domain.KindSidecarNotFound))
}

func TestSidecarManager_FFmpegDir(t *testing.T) {
	m, _ := newTestSidecarManager(t, "linux")
	_, ok := m.FFmpegDir()
	assert.False(t, ok)

	touch(t, filepath.Join(m.BinDir(), "ffmpeg"))
	dir, ok := m.FFmpegDir()
	assert.True(t, ok)
	assert.Equal(t, m.BinDir(), dir)
}

func TestSidecarManager_InstallYTDLP(t *testing.T) {
	body := bytes.Repeat([]byte("x"), 4096)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(body)
	}))
	defer srv.Close()

	m, events := newTestSidecarManager(t, "linux")
	m.urls[domain.SidecarYTDLP] = srv.URL

	require.NoError(t, m.Install(context.Background(), domain.SidecarYTDLP))

	dest := filepath.Join(m.BinDir(), "yt-dlp-x86_64-unknown-linux-gnu")
	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, body, data)

	info, err := os.Stat(dest)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0755), info.Mode().Perm())
	assert.NoFileExists(t, dest+".tmp")

	setup := events.byName(domain.EventSetupProgress)
	require.NotEmpty(t, setup)
	last := setup[len(setup)-1].(domain.SetupProgressPayload)
	assert.Equal(t, domain.SetupProgressPayload{Type: "yt-dlp", Progress: 100, Status: "Complete"}, last)
}

func TestSidecarManager_InstallHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	m, _ := newTestSidecarManager(t, "linux")
	m.urls[domain.SidecarYTDLP] = srv.URL

	err := m.Install(context.Background(), domain.SidecarYTDLP)
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindSidecarError))
	assert.Contains(t, err.Error(), "HTTP 404")
}

func TestSidecarManager_InstallFFmpegFromZip(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("ffmpeg-7.0/bin/ffmpeg")
	require.NoError(t, err)
	w.Write([]byte("ffmpeg-binary"))
	w, err = zw.Create("ffmpeg-7.0/README.txt")
	require.NoError(t, err)
	w.Write([]byte("readme"))
	require.NoError(t, zw.Close())

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(buf.Bytes())
	}))
	defer srv.Close()

	m, _ := newTestSidecarManager(t, "darwin")
	m.urls[domain.SidecarFFmpeg] = srv.URL

	require.NoError(t, m.Install(context.Background(), domain.SidecarFFmpeg))

	data, err := os.ReadFile(filepath.Join(m.BinDir(), "ffmpeg"))
	require.NoError(t, err)
	assert.Equal(t, "ffmpeg-binary", string(data))
	assert.NoFileExists(t, filepath.Join(m.BinDir(), "ffmpeg.zip"))
}

func TestSidecarManager_FFmpegUnsupportedOnLinux(t *testing.T) {
	m, _ := newTestSidecarManager(t, "linux")
	err := m.Install(context.Background(), domain.SidecarFFmpeg)
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindUnsupportedPlatform))
}

func TestSidecarManager_InstallAllSkipsAvailableFFmpeg(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("bin"))
	}))
	defer srv.Close()

	m, events := newTestSidecarManager(t, "linux")
	m.urls[domain.SidecarYTDLP] = srv.URL
	touch(t, filepath.Join(m.BinDir(), "ffmpeg"))

	require.NoError(t, m.InstallAll(context.Background()))
	assert.True(t, m.Status(context.Background()).YTDLP)
	assert.Contains(t, events.byName(domain.EventSetupProgress),
		domain.SetupProgressPayload{Type: "ffmpeg", Progress: 100, Status: "Already installed"})
}
