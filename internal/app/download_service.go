package app

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/yt-audio-go/internal/domain"
	"go.uber.org/zap"
)

// Notifier sends desktop notifications about download outcomes
type Notifier interface {
	NotifyDownloadCompleted(title string)
	NotifyDownloadFailed(url string, err error)
	NotifyGateWarning(count uint32)
}

// DownloadService coordinates a download: validation, the safety gate, the
// anti-ban delay, the backend run and bookkeeping of the result
type DownloadService struct {
	backend  domain.DownloadBackend
	gate     *SafetyGateService
	settings *SettingsService
	events   domain.EventEmitter
	notifier Notifier
	logger   *zap.Logger
	sleep    func(ctx context.Context, d time.Duration) error

	defaultFormat domain.AudioFormat

	active map[string]context.CancelFunc
	mu     sync.Mutex
}

// NewDownloadService creates a new download service
func NewDownloadService(
	backend domain.DownloadBackend,
	gate *SafetyGateService,
	settings *SettingsService,
	events domain.EventEmitter,
	notifier Notifier,
	logger *zap.Logger,
) *DownloadService {
	if events == nil {
		events = domain.NopEmitter{}
	}
	return &DownloadService{
		backend:  backend,
		gate:     gate,
		settings: settings,
		events:   events,
		notifier: notifier,
		logger:   logger,
		sleep:    sleepContext,

		defaultFormat: domain.FormatMP3,
		active:   make(map[string]context.CancelFunc),
	}
}

// SetDefaultFormat sets the format used when a request names none
func (s *DownloadService) SetDefaultFormat(format domain.AudioFormat) {
	s.defaultFormat = format
}

// StartDownload runs a download to completion and returns its result
func (s *DownloadService) StartDownload(ctx context.Context, req domain.DownloadRequest) (*domain.DownloadResult, error) {
	result, err := s.startDownload(ctx, req)
	if err != nil {
		s.logger.Error("Download failed",
			zap.String("id", req.ID),
			zap.String("url", req.URL),
			zap.Error(err))
		domain.EmitLog(s.events, domain.LogLevelError, err.Error())
		if s.notifier != nil && !domain.IsKind(err, domain.KindCancelled) {
			s.notifier.NotifyDownloadFailed(req.URL, err)
		}
		return nil, err
	}
	return result, nil
}

func (s *DownloadService) startDownload(ctx context.Context, req domain.DownloadRequest) (*domain.DownloadResult, error) {
	// Validating
	if err := domain.ValidateURL(req.URL); err != nil {
		return nil, err
	}
	format := s.defaultFormat
	if req.Format != "" {
		f, err := domain.ParseAudioFormat(string(req.Format))
		if err != nil {
			return nil, err
		}
		format = f
	}

	// GateCheck
	gate := s.gate.Load()
	switch gate.Status() {
	case domain.GateLocked:
		return nil, domain.NewError(domain.KindGateLocked, "%d/%d", gate.DailyCount, domain.DailyLimit)
	case domain.GateWarning:
		domain.EmitLog(s.events, domain.LogLevelWarn,
			fmt.Sprintf("Approaching daily limit: %d/%d downloads today", gate.DailyCount, domain.DailyLimit))
	}

	id := req.ID
	if id == "" {
		id = uuid.New().String()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if err := s.register(id, cancel); err != nil {
		return nil, err
	}
	defer s.unregister(id)

	s.logger.Info("Processing download",
		zap.String("id", id),
		zap.String("url", req.URL),
		zap.String("format", string(format)),
		zap.String("backend", s.backend.Name()))

	// Delaying
	antiBan := s.settings.LoadAntiBanConfig()
	if delay := antiBan.RandomDelay(); delay > 0 {
		if err := s.sleep(ctx, delay); err != nil {
			return nil, domain.WrapError(domain.KindCancelled, err, "%v", err)
		}
		domain.EmitLog(s.events, domain.LogLevelInfo, "Applied random delay for IP protection")
	}

	outputDir, err := s.settings.EnsureDownloadDir()
	if err != nil {
		return nil, err
	}

	job := &domain.DownloadJob{
		ID:        id,
		URL:       req.URL,
		Format:    format,
		OutputDir: outputDir,
		Proxy:     s.settings.LoadProxyConfig(),
		AntiBan:   antiBan,
	}

	result, err := s.backend.Download(ctx, job, s.events)
	if err != nil {
		return nil, err
	}

	// Finalizing
	count, err := s.gate.RecordDownload()
	if err != nil {
		s.logger.Error("Failed to record download", zap.String("id", id), zap.Error(err))
	} else if count == domain.WarningThreshold && s.notifier != nil {
		s.notifier.NotifyGateWarning(count)
	}

	domain.EmitProgress(s.events, 100, "Complete!")

	s.logger.Info("Download completed",
		zap.String("id", id),
		zap.String("title", result.Title),
		zap.String("file", result.OutputPath),
		zap.Uint32("daily_count", count))

	if s.notifier != nil {
		s.notifier.NotifyDownloadCompleted(result.Title)
	}
	return result, nil
}

// GetVideoInfo fetches metadata without downloading or touching the gate
func (s *DownloadService) GetVideoInfo(ctx context.Context, url string) (*domain.DownloadResult, error) {
	if err := domain.ValidateURL(url); err != nil {
		return nil, err
	}
	return s.backend.ExtractInfo(ctx, url, s.settings.LoadProxyConfig())
}

// Cancel stops an active download
func (s *DownloadService) Cancel(id string) error {
	s.mu.Lock()
	cancel, ok := s.active[id]
	s.mu.Unlock()

	if !ok {
		return fmt.Errorf("download not active: %s", id)
	}
	cancel()
	s.logger.Info("Download cancelled", zap.String("id", id))
	return nil
}

// ActiveDownloads lists the IDs of running downloads
func (s *DownloadService) ActiveDownloads() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(s.active))
	for id := range s.active {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// DownloadPath returns the directory downloads will be written to
func (s *DownloadService) DownloadPath() string {
	return s.settings.ResolveDownloadDir()
}

// Version returns the backend's yt-dlp version
func (s *DownloadService) Version(ctx context.Context) (string, error) {
	return s.backend.Version(ctx)
}

// Update self-updates yt-dlp to the given channel
func (s *DownloadService) Update(ctx context.Context, channel string) (*domain.UpdateResult, error) {
	if channel == "" {
		channel = "stable"
	}
	return s.backend.Update(ctx, channel)
}

// SidecarStatus reports which helper binaries the backend can use
func (s *DownloadService) SidecarStatus(ctx context.Context) domain.SidecarStatus {
	return s.backend.SidecarStatus(ctx)
}

// BackendName returns the active backend's name
func (s *DownloadService) BackendName() string {
	return s.backend.Name()
}

func (s *DownloadService) register(id string, cancel context.CancelFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.active[id]; exists {
		return fmt.Errorf("download already active: %s", id)
	}
	s.active[id] = cancel
	return nil
}

func (s *DownloadService) unregister(id string) {
	s.mu.Lock()
	delete(s.active, id)
	s.mu.Unlock()
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
