package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/yourusername/yt-audio-go/internal/domain"
	"go.uber.org/zap"
)

// DelegatedBackend implements domain.DownloadBackend by forwarding requests to
// a host bridge that owns its own yt-dlp runtime
type DelegatedBackend struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// NewDelegatedBackend creates a backend talking to the bridge at baseURL
func NewDelegatedBackend(baseURL string, client *http.Client, logger *zap.Logger) *DelegatedBackend {
	return &DelegatedBackend{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		logger:  logger,
	}
}

type bridgeDownloadRequest struct {
	URL       string `json:"url"`
	Format    string `json:"format"`
	Quality   string `json:"quality"`
	OutputDir string `json:"outputDir"`
}

type bridgeDownloadResponse struct {
	Success  bool   `json:"success"`
	Output   string `json:"output"`
	ExitCode int    `json:"exitCode"`
}

type bridgeInfoResponse struct {
	Title     string   `json:"title"`
	Duration  *float64 `json:"duration"`
	Uploader  *string  `json:"uploader"`
	Thumbnail *string  `json:"thumbnail"`
	URL       string   `json:"url"`
}

// Name returns the backend kind
func (b *DelegatedBackend) Name() string {
	return domain.BackendDelegated
}

// Download asks the bridge to fetch the job
func (b *DelegatedBackend) Download(ctx context.Context, job *domain.DownloadJob, events domain.EventEmitter) (*domain.DownloadResult, error) {
	domain.EmitLog(events, domain.LogLevelInfo, "Starting download: "+job.URL)

	req := bridgeDownloadRequest{
		URL:       job.URL,
		Format:    string(job.Format),
		Quality:   "0",
		OutputDir: job.OutputDir,
	}
	var resp bridgeDownloadResponse
	if err := b.post(ctx, "/download", req, &resp); err != nil {
		return nil, err
	}

	if !resp.Success {
		msg := strings.TrimSpace(resp.Output)
		if msg == "" {
			msg = "Unknown error"
		}
		return nil, domain.NewError(domain.KindDownloadFailed, "%s", msg)
	}

	title := ExtractTitle(strings.Split(resp.Output, "\n"))
	return &domain.DownloadResult{
		Title:      title,
		OutputPath: job.OutputDir,
	}, nil
}

// ExtractInfo asks the bridge for metadata. Proxy settings are owned by the host.
func (b *DelegatedBackend) ExtractInfo(ctx context.Context, url string, _ domain.ProxyConfig) (*domain.DownloadResult, error) {
	var resp bridgeInfoResponse
	if err := b.post(ctx, "/extract-info", map[string]string{"url": url}, &resp); err != nil {
		return nil, err
	}

	result := &domain.DownloadResult{
		Title:         resp.Title,
		Artist:        resp.Uploader,
		ThumbnailPath: resp.Thumbnail,
	}
	if resp.Duration != nil && *resp.Duration >= 0 {
		secs := uint64(*resp.Duration)
		result.Duration = &secs
	}
	return result, nil
}

// Version returns the bridge's yt-dlp version
func (b *DelegatedBackend) Version(ctx context.Context) (string, error) {
	var resp struct {
		Version string `json:"version"`
	}
	if err := b.post(ctx, "/version", struct{}{}, &resp); err != nil {
		return "", err
	}
	return resp.Version, nil
}

// Update asks the bridge to update its yt-dlp
func (b *DelegatedBackend) Update(ctx context.Context, channel string) (*domain.UpdateResult, error) {
	if channel == "" {
		channel = "stable"
	}
	var resp domain.UpdateResult
	if err := b.post(ctx, "/update", map[string]string{"channel": channel}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SidecarStatus reports both sidecars available; the host manages them
func (b *DelegatedBackend) SidecarStatus(ctx context.Context) domain.SidecarStatus {
	return domain.SidecarStatus{YTDLP: true, FFmpeg: true}
}

func (b *DelegatedBackend) post(ctx context.Context, path string, in, out interface{}) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to encode bridge request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return domain.WrapError(domain.KindSidecarError, err, "invalid bridge URL: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	b.logger.Debug("Calling host bridge", zap.String("path", path))

	resp, err := b.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return domain.WrapError(domain.KindCancelled, ctx.Err(), "")
		}
		return domain.WrapError(domain.KindSidecarError, err, "host bridge unavailable: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return domain.NewError(domain.KindDownloadFailed, "host bridge returned HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return domain.WrapError(domain.KindDownloadFailed, err, "invalid bridge response: %v", err)
	}
	return nil
}
