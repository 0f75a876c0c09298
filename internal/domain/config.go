package domain

import "time"

// Backend kinds
const (
	BackendNative    = "native"
	BackendDelegated = "delegated"
)

// Config represents the application configuration
type Config struct {
	Server       ServerConfig       `mapstructure:"server"`
	Download     DownloadConfig     `mapstructure:"download"`
	Sidecar      SidecarConfig      `mapstructure:"sidecar"`
	Backend      BackendConfig      `mapstructure:"backend"`
	Store        StoreConfig        `mapstructure:"store"`
	HTTP         HTTPConfig         `mapstructure:"http"`
	Notification NotificationConfig `mapstructure:"notification"`
	Logging      LoggingConfig      `mapstructure:"logging"`
}

// ServerConfig contains server-related configuration
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// DownloadConfig contains download-related configuration
type DownloadConfig struct {
	Dir           string `mapstructure:"dir"`            // used when no download path is stored
	DefaultFormat string `mapstructure:"default_format"` // mp3 or flac
	LogsDir       string `mapstructure:"logs_dir"`       // raw yt-dlp transcripts
}

// SidecarConfig locates the yt-dlp and ffmpeg binaries
type SidecarConfig struct {
	DataDir      string `mapstructure:"data_dir"`     // installs go to <data_dir>/bin
	ResourceDir  string `mapstructure:"resource_dir"` // bundled binaries under <resource_dir>/bin
	YTDLPBinary  string `mapstructure:"ytdlp_binary"` // explicit override
	FFmpegBinary string `mapstructure:"ffmpeg_binary"`
}

// BackendConfig selects the download capability
type BackendConfig struct {
	Kind      string `mapstructure:"kind"`       // native or delegated
	BridgeURL string `mapstructure:"bridge_url"` // host bridge for the delegated backend
}

// StoreConfig contains settings persistence configuration
type StoreConfig struct {
	DatabasePath string `mapstructure:"database_path"`
}

// HTTPConfig tunes the shared outbound HTTP client
type HTTPConfig struct {
	Timeout             time.Duration `mapstructure:"timeout"`
	MaxIdleConnsPerHost int           `mapstructure:"max_idle_conns_per_host"`
	UserAgent           string        `mapstructure:"user_agent"`
}

// NotificationConfig contains notification-related configuration
type NotificationConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Method  string `mapstructure:"method"` // osascript, notify-send, or empty for auto
}

// LoggingConfig contains logging-related configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"`       // debug, info, warn, error
	Format     string `mapstructure:"format"`      // json, console
	OutputPath string `mapstructure:"output_path"` // stdout, stderr, or file path
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "localhost",
			Port: 8080,
		},
		Download: DownloadConfig{
			Dir:           "$HOME/Downloads",
			DefaultFormat: string(FormatMP3),
			LogsDir:       "$HOME/.yt-audio/logs",
		},
		Sidecar: SidecarConfig{
			DataDir: "$HOME/.yt-audio",
		},
		Backend: BackendConfig{
			Kind: BackendNative,
		},
		Store: StoreConfig{
			DatabasePath: "$HOME/.yt-audio/settings.db",
		},
		HTTP: HTTPConfig{
			Timeout:             300 * time.Second,
			MaxIdleConnsPerHost: 5,
			UserAgent:           "yt-audio-go/1.0",
		},
		Notification: NotificationConfig{
			Enabled: true,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "console",
			OutputPath: "stdout",
		},
	}
}
