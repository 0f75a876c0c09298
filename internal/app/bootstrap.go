package app

import (
	"fmt"
	"net/http"

	"github.com/yourusername/yt-audio-go/internal/domain"
	"github.com/yourusername/yt-audio-go/internal/infrastructure"
	"github.com/yourusername/yt-audio-go/pkg/logger"
	"go.uber.org/zap"
)

// eventBufferSize is the per-subscriber event channel capacity
const eventBufferSize = 256

// Container holds the wired application services shared by the server and
// the CLI
type Container struct {
	Config     *domain.Config
	Logger     *zap.Logger
	HTTPClient *http.Client
	Events     *infrastructure.EventBus
	Store      domain.ConfigStore
	Sidecars   *infrastructure.SidecarManager
	Backend    domain.DownloadBackend
	Gate       *SafetyGateService
	Settings   *SettingsService
	Downloads  *DownloadService
	Notifier   *infrastructure.NotificationService

	transcript *logger.DailyFile
}

// Bootstrap builds every service from the configuration
func Bootstrap(cfg *domain.Config, log *zap.Logger) (*Container, error) {
	client := infrastructure.NewHTTPClient(cfg.HTTP)
	events := infrastructure.NewEventBus(log, eventBufferSize)

	var store domain.ConfigStore
	sqliteStore, err := infrastructure.NewSQLiteConfigStore(cfg.Store.DatabasePath)
	if err != nil {
		log.Warn("Failed to open settings database, settings will not persist",
			zap.String("path", cfg.Store.DatabasePath),
			zap.Error(err))
		store = infrastructure.NewMemoryConfigStore()
	} else {
		store = sqliteStore
	}

	sidecars := infrastructure.NewSidecarManager(cfg.Sidecar, client, events, log)
	transcript := logger.NewDailyFile(cfg.Download.LogsDir, "ytdlp")

	var backend domain.DownloadBackend
	switch cfg.Backend.Kind {
	case domain.BackendNative, "":
		backend = infrastructure.NewNativeBackend(sidecars, infrastructure.NewExecRunner(), transcript, log)
	case domain.BackendDelegated:
		backend = infrastructure.NewDelegatedBackend(cfg.Backend.BridgeURL, client, log)
	default:
		store.Close()
		transcript.Close()
		return nil, fmt.Errorf("unknown backend kind: %s", cfg.Backend.Kind)
	}

	format, err := domain.ParseAudioFormat(cfg.Download.DefaultFormat)
	if err != nil {
		format = domain.FormatMP3
	}

	notifier := infrastructure.NewNotificationService(&cfg.Notification, log)
	gate := NewSafetyGateService(store, nil, log)
	settings := NewSettingsService(store, cfg.Download.Dir, log)
	downloads := NewDownloadService(backend, gate, settings, events, notifier, log)
	downloads.SetDefaultFormat(format)

	log.Info("Application initialized",
		zap.String("backend", backend.Name()),
		zap.String("store", cfg.Store.DatabasePath))

	return &Container{
		Config:     cfg,
		Logger:     log,
		HTTPClient: client,
		Events:     events,
		Store:      store,
		Sidecars:   sidecars,
		Backend:    backend,
		Gate:       gate,
		Settings:   settings,
		Downloads:  downloads,
		Notifier:   notifier,
		transcript: transcript,
	}, nil
}

// Close releases the settings store and the transcript file
func (c *Container) Close() error {
	var firstErr error
	if err := c.Store.Close(); err != nil {
		firstErr = err
	}
	if err := c.transcript.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	c.HTTPClient.CloseIdleConnections()
	return firstErr
}
