package infrastructure

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/yourusername/yt-audio-go/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// SidecarManager locates and installs the yt-dlp and ffmpeg binaries
type SidecarManager struct {
	dataDir     string
	resourceDir string
	overrides   map[domain.SidecarType]string
	client      *http.Client
	events      domain.EventEmitter
	logger      *zap.Logger

	goos     string
	goarch   string
	urls     map[domain.SidecarType]string
	lookPath func(string) (string, error)
}

// NewSidecarManager creates a manager for the configured directories
func NewSidecarManager(cfg domain.SidecarConfig, client *http.Client, events domain.EventEmitter, logger *zap.Logger) *SidecarManager {
	return &SidecarManager{
		dataDir:     cfg.DataDir,
		resourceDir: cfg.ResourceDir,
		overrides: map[domain.SidecarType]string{
			domain.SidecarYTDLP:  cfg.YTDLPBinary,
			domain.SidecarFFmpeg: cfg.FFmpegBinary,
		},
		client:   client,
		events:   events,
		logger:   logger,
		goos:     runtime.GOOS,
		goarch:   runtime.GOARCH,
		urls:     make(map[domain.SidecarType]string),
		lookPath: exec.LookPath,
	}
}

// BinDir is where installed sidecars live
func (m *SidecarManager) BinDir() string {
	return filepath.Join(m.dataDir, "bin")
}

// Path resolves the sidecar binary. When nothing is installed it returns the
// path an install would write to.
func (m *SidecarManager) Path(sidecar domain.SidecarType) (string, error) {
	if override := m.overrides[sidecar]; override != "" {
		if strings.ContainsAny(override, `/\`) {
			return override, nil
		}
		p, err := m.lookPath(override)
		if err != nil {
			return "", domain.WrapError(domain.KindSidecarNotFound, err, "%s is not on PATH", override)
		}
		return p, nil
	}

	name, err := sidecar.BinaryName(m.goos, m.goarch)
	if err != nil {
		return "", err
	}

	candidates := []string{filepath.Join(m.BinDir(), name)}
	if m.resourceDir != "" {
		candidates = append(candidates, filepath.Join(m.resourceDir, "bin", name))
	}
	for _, candidate := range candidates {
		if fileExists(candidate) {
			return candidate, nil
		}
	}

	if p, err := m.lookPath(string(sidecar)); err == nil {
		return p, nil
	}

	return candidates[0], nil
}

// IsAvailable reports whether the sidecar resolves to an existing file
func (m *SidecarManager) IsAvailable(sidecar domain.SidecarType) bool {
	p, err := m.Path(sidecar)
	return err == nil && fileExists(p)
}

// Status reports the availability of both sidecars
func (m *SidecarManager) Status(ctx context.Context) domain.SidecarStatus {
	return domain.SidecarStatus{
		YTDLP:  m.IsAvailable(domain.SidecarYTDLP),
		FFmpeg: m.IsAvailable(domain.SidecarFFmpeg),
	}
}

// FFmpegDir returns the directory of an available ffmpeg binary
func (m *SidecarManager) FFmpegDir() (string, bool) {
	p, err := m.Path(domain.SidecarFFmpeg)
	if err != nil || !fileExists(p) {
		return "", false
	}
	return filepath.Dir(p), true
}

// InstallAll installs yt-dlp and, if missing, ffmpeg. Both installs run to
// completion and the first error is returned.
func (m *SidecarManager) InstallAll(ctx context.Context) error {
	var g errgroup.Group
	g.Go(func() error {
		return m.Install(ctx, domain.SidecarYTDLP)
	})
	g.Go(func() error {
		if m.IsAvailable(domain.SidecarFFmpeg) {
			m.logger.Info("FFmpeg already available, skipping install")
			m.emitSetup(domain.SidecarFFmpeg, 100, "Already installed")
			return nil
		}
		return m.Install(ctx, domain.SidecarFFmpeg)
	})
	return g.Wait()
}

// Install downloads one sidecar into BinDir
func (m *SidecarManager) Install(ctx context.Context, sidecar domain.SidecarType) error {
	url, err := m.downloadURL(sidecar)
	if err != nil {
		return err
	}
	name, err := sidecar.BinaryName(m.goos, m.goarch)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(m.BinDir(), 0755); err != nil {
		return domain.WrapError(domain.KindIOError, err, "failed to create %s: %v", m.BinDir(), err)
	}

	dest := filepath.Join(m.BinDir(), name)
	m.logger.Info("Installing sidecar",
		zap.String("sidecar", string(sidecar)),
		zap.String("url", url),
		zap.String("dest", dest))

	switch sidecar {
	case domain.SidecarFFmpeg:
		archive := dest + ".zip"
		defer os.Remove(archive)
		if err := m.download(ctx, sidecar, url, archive); err != nil {
			return err
		}
		if err := extractFromZip(archive, name, dest); err != nil {
			return err
		}
	default:
		if err := m.download(ctx, sidecar, url, dest); err != nil {
			return err
		}
	}

	if m.goos != "windows" {
		if err := os.Chmod(dest, 0755); err != nil {
			return domain.WrapError(domain.KindIOError, err, "failed to make %s executable: %v", dest, err)
		}
	}

	m.emitSetup(sidecar, 100, "Complete")
	m.logger.Info("Sidecar installed", zap.String("sidecar", string(sidecar)), zap.String("path", dest))
	return nil
}

func (m *SidecarManager) downloadURL(sidecar domain.SidecarType) (string, error) {
	if u := m.urls[sidecar]; u != "" {
		return u, nil
	}
	return sidecar.DownloadURL(m.goos)
}

// download streams url to dest through a temp file
func (m *SidecarManager) download(ctx context.Context, sidecar domain.SidecarType, url, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return domain.WrapError(domain.KindSidecarError, err, "invalid download URL: %v", err)
	}

	resp, err := m.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return domain.WrapError(domain.KindCancelled, ctx.Err(), "")
		}
		return domain.WrapError(domain.KindSidecarError, err, "failed to download %s: %v", sidecar, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return domain.NewError(domain.KindSidecarError, "HTTP %d", resp.StatusCode)
	}

	tmp := dest + ".tmp"
	file, err := os.Create(tmp)
	if err != nil {
		return domain.WrapError(domain.KindIOError, err, "failed to create %s: %v", tmp, err)
	}

	progress := &progressWriter{
		total: resp.ContentLength,
		onPercent: func(pct int) {
			m.emitSetup(sidecar, float64(pct), fmt.Sprintf("Downloading %s: %d%%", sidecar, pct))
		},
	}
	_, copyErr := io.Copy(io.MultiWriter(file, progress), resp.Body)
	closeErr := file.Close()
	if copyErr != nil || closeErr != nil {
		os.Remove(tmp)
		if ctx.Err() != nil {
			return domain.WrapError(domain.KindCancelled, ctx.Err(), "")
		}
		if copyErr == nil {
			copyErr = closeErr
		}
		return domain.WrapError(domain.KindSidecarError, copyErr, "failed to download %s: %v", sidecar, copyErr)
	}

	if err := os.Rename(tmp, dest); err != nil {
		os.Remove(tmp)
		return domain.WrapError(domain.KindIOError, err, "failed to move %s into place: %v", sidecar, err)
	}
	return nil
}

func (m *SidecarManager) emitSetup(sidecar domain.SidecarType, progress float64, status string) {
	if m.events == nil {
		return
	}
	m.events.Emit(domain.EventSetupProgress, domain.SetupProgressPayload{
		Type:     string(sidecar),
		Progress: progress,
		Status:   status,
	})
}

// progressWriter reports whole-percent changes of a download of known size
type progressWriter struct {
	total     int64
	written   int64
	last      int
	onPercent func(int)
}

func (p *progressWriter) Write(b []byte) (int, error) {
	p.written += int64(len(b))
	if p.total > 0 {
		pct := int(p.written * 100 / p.total)
		if pct > p.last && pct < 100 {
			p.last = pct
			p.onPercent(pct)
		}
	}
	return len(b), nil
}

// extractFromZip copies the entry whose base name is name to dest
func extractFromZip(archive, name, dest string) error {
	r, err := zip.OpenReader(archive)
	if err != nil {
		return domain.WrapError(domain.KindSidecarError, err, "failed to open archive: %v", err)
	}
	defer r.Close()

	for _, f := range r.File {
		if f.FileInfo().IsDir() || path.Base(f.Name) != name {
			continue
		}

		src, err := f.Open()
		if err != nil {
			return domain.WrapError(domain.KindSidecarError, err, "failed to read %s from archive: %v", name, err)
		}
		defer src.Close()

		out, err := os.OpenFile(dest, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0755)
		if err != nil {
			return domain.WrapError(domain.KindIOError, err, "failed to create %s: %v", dest, err)
		}
		if _, err := io.Copy(out, src); err != nil {
			out.Close()
			return domain.WrapError(domain.KindIOError, err, "failed to extract %s: %v", name, err)
		}
		return out.Close()
	}

	return domain.NewError(domain.KindSidecarError, "%s not found in archive", name)
}

// fileExists checks if a file exists
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
