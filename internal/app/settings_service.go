package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/yourusername/yt-audio-go/internal/domain"
	"go.uber.org/zap"
)

// SettingsService reads and writes the user-editable settings: proxy,
// anti-ban behaviour and download directory
type SettingsService struct {
	store      domain.ConfigStore
	defaultDir string
	logger     *zap.Logger
}

// NewSettingsService creates a settings service. defaultDir is used when no
// download path has been stored.
func NewSettingsService(store domain.ConfigStore, defaultDir string, logger *zap.Logger) *SettingsService {
	return &SettingsService{store: store, defaultDir: defaultDir, logger: logger}
}

// LoadProxyConfig returns the stored proxy or a direct connection
func (s *SettingsService) LoadProxyConfig() domain.ProxyConfig {
	cfg := domain.DefaultProxyConfig()
	if !loadJSON(s.store, s.logger, domain.ProxyNamespace, domain.ProxyKey, &cfg) || !cfg.ProxyType.Valid() {
		return domain.DefaultProxyConfig()
	}
	return cfg
}

// SaveProxyConfig persists the proxy
func (s *SettingsService) SaveProxyConfig(cfg domain.ProxyConfig) error {
	if cfg.ProxyType == "" {
		cfg.ProxyType = domain.ProxyNone
	}
	if !cfg.ProxyType.Valid() {
		return fmt.Errorf("unknown proxy type: %q", cfg.ProxyType)
	}
	if err := saveJSON(s.store, domain.ProxyNamespace, domain.ProxyKey, cfg); err != nil {
		return err
	}
	s.logger.Info("Proxy config saved",
		zap.String("type", string(cfg.ProxyType)),
		zap.String("proxy", cfg.Redacted()))
	return nil
}

// ImportProxies parses a proxy list; nothing is persisted
func (s *SettingsService) ImportProxies(text string) []domain.ProxyConfig {
	proxies := domain.ParseProxyList(text)
	s.logger.Info("Proxies imported", zap.Int("count", len(proxies)))
	return proxies
}

// LoadAntiBanConfig returns the stored anti-ban settings or the defaults
func (s *SettingsService) LoadAntiBanConfig() domain.AntiBanConfig {
	cfg := domain.DefaultAntiBanConfig()
	if !loadJSON(s.store, s.logger, domain.AntiBanNamespace, domain.AntiBanKey, &cfg) {
		return domain.DefaultAntiBanConfig()
	}
	return cfg
}

// SaveAntiBanConfig validates and persists anti-ban settings
func (s *SettingsService) SaveAntiBanConfig(cfg domain.AntiBanConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	return saveJSON(s.store, domain.AntiBanNamespace, domain.AntiBanKey, cfg)
}

// StoredDownloadPath returns the persisted download path, or ""
func (s *SettingsService) StoredDownloadPath() string {
	var path string
	if !loadJSON(s.store, s.logger, domain.SettingsNamespace, domain.DownloadPathKey, &path) {
		return ""
	}
	return path
}

// SetDownloadPath stores path after checking it is an existing directory
func (s *SettingsService) SetDownloadPath(path string) error {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return domain.NewError(domain.KindIOError, "Directory does not exist: %s", path)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return domain.WrapError(domain.KindIOError, err, "%v", err)
	}
	if err := saveJSON(s.store, domain.SettingsNamespace, domain.DownloadPathKey, abs); err != nil {
		return err
	}
	s.logger.Info("Download path saved", zap.String("path", abs))
	return nil
}

// ResolveDownloadDir picks the output directory: the stored path if it still
// exists, then the configured default, then ~/Downloads
func (s *SettingsService) ResolveDownloadDir() string {
	if stored := s.StoredDownloadPath(); stored != "" && isDir(stored) {
		return stored
	}
	if s.defaultDir != "" {
		return s.defaultDir
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, "Downloads")
	}
	return "."
}

// EnsureDownloadDir resolves the output directory and creates it if needed
func (s *SettingsService) EnsureDownloadDir() (string, error) {
	dir := s.ResolveDownloadDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", domain.WrapError(domain.KindIOError, err, "failed to create %s: %v", dir, err)
	}
	return dir, nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
