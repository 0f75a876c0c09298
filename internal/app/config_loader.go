package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"github.com/yourusername/yt-audio-go/internal/domain"
)

// LoadConfig loads configuration from file and environment
func LoadConfig(configPath string) (*domain.Config, error) {
	config := domain.DefaultConfig()

	v := viper.New()
	v.SetConfigType("yaml")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath("./configs")
		v.AddConfigPath("$HOME/.yt-audio")
	}

	v.SetEnvPrefix("YTAUDIO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvKeys(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config = expandPaths(config)

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// bindEnvKeys registers every key so AutomaticEnv overrides apply on Unmarshal
// even when no config file mentions them
func bindEnvKeys(v *viper.Viper) {
	keys := []string{
		"server.host", "server.port",
		"download.dir", "download.default_format", "download.logs_dir",
		"sidecar.data_dir", "sidecar.resource_dir", "sidecar.ytdlp_binary", "sidecar.ffmpeg_binary",
		"backend.kind", "backend.bridge_url",
		"store.database_path",
		"http.timeout", "http.max_idle_conns_per_host", "http.user_agent",
		"notification.enabled", "notification.method",
		"logging.level", "logging.format", "logging.output_path",
	}
	for _, key := range keys {
		_ = v.BindEnv(key)
	}
}

// expandPaths expands environment variables in path configurations
func expandPaths(config *domain.Config) *domain.Config {
	config.Download.Dir = expandPath(config.Download.Dir)
	config.Download.LogsDir = expandPath(config.Download.LogsDir)
	config.Sidecar.DataDir = expandPath(config.Sidecar.DataDir)
	config.Sidecar.ResourceDir = expandPath(config.Sidecar.ResourceDir)
	config.Sidecar.YTDLPBinary = expandPath(config.Sidecar.YTDLPBinary)
	config.Sidecar.FFmpegBinary = expandPath(config.Sidecar.FFmpegBinary)
	config.Store.DatabasePath = expandPath(config.Store.DatabasePath)

	if config.Logging.OutputPath != "stdout" && config.Logging.OutputPath != "stderr" {
		config.Logging.OutputPath = expandPath(config.Logging.OutputPath)
	}

	return config
}

// expandPath expands environment variables and ~ in paths
func expandPath(path string) string {
	if path == "" {
		return path
	}

	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}

	return os.ExpandEnv(path)
}

// validateConfig validates the configuration
func validateConfig(config *domain.Config) error {
	if config.Server.Port < 1 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}

	if config.Sidecar.DataDir == "" {
		return fmt.Errorf("sidecar data directory not configured")
	}

	if config.Store.DatabasePath == "" {
		return fmt.Errorf("store database path not configured")
	}

	switch config.Backend.Kind {
	case domain.BackendNative:
	case domain.BackendDelegated:
		if config.Backend.BridgeURL == "" {
			return fmt.Errorf("delegated backend requires backend.bridge_url")
		}
	default:
		return fmt.Errorf("unknown backend kind: %q", config.Backend.Kind)
	}

	if config.HTTP.Timeout <= 0 {
		return fmt.Errorf("http timeout must be positive")
	}

	if config.HTTP.MaxIdleConnsPerHost < 1 {
		config.HTTP.MaxIdleConnsPerHost = 1
	}

	if _, err := domain.ParseAudioFormat(config.Download.DefaultFormat); err != nil {
		return fmt.Errorf("invalid default format: %q", config.Download.DefaultFormat)
	}

	if config.Logging.Level == "" {
		config.Logging.Level = "info"
	}

	return nil
}

// SaveConfig saves configuration to file
func SaveConfig(config *domain.Config, path string) error {
	v := viper.New()
	v.SetConfigType("yaml")

	values := map[string]interface{}{
		"server.host":                  config.Server.Host,
		"server.port":                  config.Server.Port,
		"download.dir":                 config.Download.Dir,
		"download.default_format":      config.Download.DefaultFormat,
		"download.logs_dir":            config.Download.LogsDir,
		"sidecar.data_dir":             config.Sidecar.DataDir,
		"sidecar.resource_dir":         config.Sidecar.ResourceDir,
		"sidecar.ytdlp_binary":         config.Sidecar.YTDLPBinary,
		"sidecar.ffmpeg_binary":        config.Sidecar.FFmpegBinary,
		"backend.kind":                 config.Backend.Kind,
		"backend.bridge_url":           config.Backend.BridgeURL,
		"store.database_path":          config.Store.DatabasePath,
		"http.timeout":                 config.HTTP.Timeout.String(),
		"http.max_idle_conns_per_host": config.HTTP.MaxIdleConnsPerHost,
		"http.user_agent":              config.HTTP.UserAgent,
		"notification.enabled":         config.Notification.Enabled,
		"notification.method":          config.Notification.Method,
		"logging.level":                config.Logging.Level,
		"logging.format":               config.Logging.Format,
		"logging.output_path":          config.Logging.OutputPath,
	}
	for key, value := range values {
		v.Set(key, value)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
