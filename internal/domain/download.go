package domain

import (
	"context"
	"fmt"
	"strings"
)

// AudioFormat is the target container for extracted audio
type AudioFormat string

const (
	FormatMP3  AudioFormat = "mp3"
	FormatFLAC AudioFormat = "flac"
)

// ParseAudioFormat accepts mp3 or flac, case-insensitively
func ParseAudioFormat(s string) (AudioFormat, error) {
	switch AudioFormat(strings.ToLower(strings.TrimSpace(s))) {
	case FormatMP3:
		return FormatMP3, nil
	case FormatFLAC:
		return FormatFLAC, nil
	default:
		return "", NewError(KindInvalidURL, "unsupported format %q", s)
	}
}

// Extension returns the file extension produced for the format
func (f AudioFormat) Extension() string {
	return string(f)
}

// QualityArgs returns the yt-dlp quality flags for the format
func (f AudioFormat) QualityArgs() []string {
	return []string{"--audio-quality", "0"}
}

// DownloadRequest is a caller's request to fetch audio from a URL
type DownloadRequest struct {
	ID     string      `json:"id,omitempty"`
	URL    string      `json:"url"`
	Format AudioFormat `json:"format"`
}

// DownloadJob is a validated request with all settings resolved
type DownloadJob struct {
	ID        string
	URL       string
	Format    AudioFormat
	OutputDir string
	Proxy     ProxyConfig
	AntiBan   AntiBanConfig
}

// DownloadResult describes a finished download or fetched metadata
type DownloadResult struct {
	Title         string  `json:"title"`
	Artist        *string `json:"artist"`
	Album         *string `json:"album"`
	Duration      *uint64 `json:"duration"`
	ThumbnailPath *string `json:"thumbnailPath"`
	OutputPath    string  `json:"outputPath"`
}

// UpdateResult is the outcome of a yt-dlp self-update
type UpdateResult struct {
	Success bool   `json:"success"`
	Version string `json:"version"`
	Message string `json:"message"`
}

// SidecarStatus reports which helper binaries are available
type SidecarStatus struct {
	YTDLP  bool `json:"ytdlp"`
	FFmpeg bool `json:"ffmpeg"`
}

// DownloadBackend is the platform capability that actually fetches media.
// The native implementation spawns yt-dlp locally while the delegated one
// forwards to a host bridge.
type DownloadBackend interface {
	Name() string
	Download(ctx context.Context, job *DownloadJob, events EventEmitter) (*DownloadResult, error)
	ExtractInfo(ctx context.Context, url string, proxy ProxyConfig) (*DownloadResult, error)
	Version(ctx context.Context) (string, error)
	Update(ctx context.Context, channel string) (*UpdateResult, error)
	SidecarStatus(ctx context.Context) SidecarStatus
}

// ValidateURL accepts only http and https URLs
func ValidateURL(url string) error {
	if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
		return nil
	}
	return NewError(KindInvalidURL, "%s", url)
}

// SanitizeFilename replaces characters that are illegal in file names with '_'
func SanitizeFilename(name string) string {
	return filenameReplacer.Replace(name)
}

var filenameReplacer = strings.NewReplacer(
	"/", "_", "\\", "_", ":", "_", "*", "_", "?", "_",
	"\"", "_", "<", "_", ">", "_", "|", "_",
)

// OutputTemplate is the yt-dlp output template for a directory
func OutputTemplate(dir string) string {
	return fmt.Sprintf("%s/%%(title)s.%%(ext)s", strings.TrimRight(dir, "/\\"))
}
