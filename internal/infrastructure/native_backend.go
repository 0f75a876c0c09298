package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/yourusername/yt-audio-go/internal/domain"
	"github.com/yourusername/yt-audio-go/pkg/logger"
	"go.uber.org/zap"
)

// NativeBackend implements domain.DownloadBackend by running yt-dlp locally
type NativeBackend struct {
	sidecars   *SidecarManager
	runner     ProcessRunner
	transcript *logger.DailyFile
	logger     *zap.Logger
}

// NewNativeBackend creates a backend. transcript may be nil.
func NewNativeBackend(sidecars *SidecarManager, runner ProcessRunner, transcript *logger.DailyFile, logger *zap.Logger) *NativeBackend {
	return &NativeBackend{
		sidecars:   sidecars,
		runner:     runner,
		transcript: transcript,
		logger:     logger,
	}
}

// Name returns the backend kind
func (b *NativeBackend) Name() string {
	return domain.BackendNative
}

// BuildArgs assembles the yt-dlp arguments for a job. The URL is always last.
func (b *NativeBackend) BuildArgs(job *domain.DownloadJob, events domain.EventEmitter) []string {
	args := []string{
		"--extract-audio",
		"--audio-format", string(job.Format),
		"--output", domain.OutputTemplate(job.OutputDir),
		"--no-playlist",
		"--newline",
		"--no-colors",
	}
	args = append(args, job.Format.QualityArgs()...)

	if proxyArgs := job.Proxy.YTDLPArgs(); len(proxyArgs) > 0 {
		args = append(args, proxyArgs...)
		domain.EmitLog(events, domain.LogLevelInfo, "Using proxy: "+job.Proxy.Address())
	}

	if uaArgs := job.AntiBan.UserAgentArgs(); len(uaArgs) > 0 {
		args = append(args, uaArgs...)
		domain.EmitLog(events, domain.LogLevelInfo, "Using rotated User-Agent")
	}

	if dir, ok := b.sidecars.FFmpegDir(); ok {
		args = append(args, "--ffmpeg-location", dir)
		domain.EmitLog(events, domain.LogLevelInfo, "FFmpeg location: "+dir)
	}

	return append(args, job.URL)
}

// Download runs yt-dlp for the job and streams progress to events
func (b *NativeBackend) Download(ctx context.Context, job *domain.DownloadJob, events domain.EventEmitter) (*domain.DownloadResult, error) {
	ytdlp, err := b.sidecars.Path(domain.SidecarYTDLP)
	if err != nil {
		return nil, domain.WrapError(domain.KindSidecarError, err, "failed to locate yt-dlp: %v", err)
	}

	domain.EmitLog(events, domain.LogLevelInfo, "Starting download: "+job.URL)
	args := b.BuildArgs(job, events)

	cmdLine := CommandLine(ytdlp, args...)
	b.logger.Info("Running yt-dlp",
		zap.String("id", job.ID),
		zap.String("command", cmdLine))
	b.writeHeader(job.ID, cmdLine)

	var stdoutLines, stderrLines []string
	var throttle progressThrottle

	onStdout := func(line string) {
		stdoutLines = append(stdoutLines, line)
		b.writeLine(line)
		if p, ok := ParseProgress(line); ok && throttle.Allow(p) {
			domain.EmitProgress(events, p, fmt.Sprintf("Downloading: %.1f%%", p))
		}
	}
	onStderr := func(line string) {
		stderrLines = append(stderrLines, line)
		b.writeLine(line)
	}

	code, err := b.runner.Run(ctx, ytdlp, args, onStdout, onStderr)
	if err != nil {
		runErr := b.classifyRunError(ctx, err)
		b.writeFooter(false, runErr.Error())
		return nil, runErr
	}

	if code != 0 {
		msg := lastNonEmpty(stderrLines)
		if msg == "" {
			msg = fmt.Sprintf("Process exited with code %d", code)
		}
		b.writeFooter(false, msg)
		return nil, domain.NewError(domain.KindDownloadFailed, "%s", msg)
	}

	title := ExtractTitle(stdoutLines)
	output := filepath.Join(job.OutputDir, domain.SanitizeFilename(title)+"."+job.Format.Extension())
	b.writeFooter(true, "Downloaded: "+output)

	return &domain.DownloadResult{
		Title:      title,
		OutputPath: output,
	}, nil
}

// videoInfo is the subset of yt-dlp's --dump-json output that is used
type videoInfo struct {
	Title     *string  `json:"title"`
	Uploader  *string  `json:"uploader"`
	Album     *string  `json:"album"`
	Duration  *float64 `json:"duration"`
	Thumbnail *string  `json:"thumbnail"`
}

// ExtractInfo fetches metadata without downloading
func (b *NativeBackend) ExtractInfo(ctx context.Context, url string, proxy domain.ProxyConfig) (*domain.DownloadResult, error) {
	ytdlp, err := b.sidecars.Path(domain.SidecarYTDLP)
	if err != nil {
		return nil, domain.WrapError(domain.KindSidecarError, err, "failed to locate yt-dlp: %v", err)
	}

	args := []string{"--dump-json", "--skip-download"}
	args = append(args, proxy.YTDLPArgs()...)
	args = append(args, url)

	b.logger.Debug("Fetching video info", zap.String("command", CommandLine(ytdlp, args...)))

	var stdout bytes.Buffer
	var stderrLines []string
	code, err := b.runner.Run(ctx, ytdlp, args,
		func(line string) {
			stdout.WriteString(line)
			stdout.WriteByte('\n')
		},
		func(line string) { stderrLines = append(stderrLines, line) },
	)
	if err != nil {
		return nil, b.classifyRunError(ctx, err)
	}

	var info videoInfo
	decodeErr := json.NewDecoder(&stdout).Decode(&info)
	if decodeErr == nil && info.Title == nil {
		decodeErr = errors.New("missing field `title`")
	}
	if decodeErr != nil {
		if code != 0 {
			if msg := lastNonEmpty(stderrLines); msg != "" {
				return nil, domain.NewError(domain.KindDownloadFailed, "%s", msg)
			}
		}
		return nil, domain.WrapError(domain.KindDownloadFailed, decodeErr, "Failed to parse video info: %v", decodeErr)
	}

	result := &domain.DownloadResult{
		Title:         *info.Title,
		Artist:        info.Uploader,
		Album:         info.Album,
		ThumbnailPath: info.Thumbnail,
	}
	if info.Duration != nil {
		secs := uint64(0)
		if *info.Duration > 0 {
			secs = uint64(*info.Duration)
		}
		result.Duration = &secs
	}
	return result, nil
}

// Version returns the output of yt-dlp --version
func (b *NativeBackend) Version(ctx context.Context) (string, error) {
	lines, code, err := b.runSimple(ctx, "--version")
	if err != nil {
		return "", err
	}
	if code != 0 || len(lines) == 0 {
		return "", domain.NewError(domain.KindSidecarError, "yt-dlp --version exited with code %d", code)
	}
	return strings.TrimSpace(lines[0]), nil
}

// Update runs yt-dlp's self-updater against a release channel
func (b *NativeBackend) Update(ctx context.Context, channel string) (*domain.UpdateResult, error) {
	if channel == "" {
		channel = "stable"
	}
	lines, code, err := b.runSimple(ctx, "--update-to", channel)
	if err != nil {
		return nil, err
	}

	result := &domain.UpdateResult{
		Success: code == 0,
		Message: lastNonEmpty(lines),
	}
	if result.Success {
		if v, err := b.Version(ctx); err == nil {
			result.Version = v
		}
	}
	return result, nil
}

// SidecarStatus reports local binary availability
func (b *NativeBackend) SidecarStatus(ctx context.Context) domain.SidecarStatus {
	return b.sidecars.Status(ctx)
}

// runSimple runs yt-dlp and collects stdout and stderr together
func (b *NativeBackend) runSimple(ctx context.Context, args ...string) ([]string, int, error) {
	ytdlp, err := b.sidecars.Path(domain.SidecarYTDLP)
	if err != nil {
		return nil, -1, domain.WrapError(domain.KindSidecarError, err, "failed to locate yt-dlp: %v", err)
	}

	var stdout, stderr []string
	code, err := b.runner.Run(ctx, ytdlp, args,
		func(line string) { stdout = append(stdout, line) },
		func(line string) { stderr = append(stderr, line) },
	)
	if err != nil {
		return nil, -1, b.classifyRunError(ctx, err)
	}
	return append(stdout, stderr...), code, nil
}

func (b *NativeBackend) classifyRunError(ctx context.Context, err error) error {
	if ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return domain.WrapError(domain.KindCancelled, err, "")
	}
	var spawnErr *SpawnError
	if errors.As(err, &spawnErr) {
		return domain.WrapError(domain.KindSidecarError, err, "failed to spawn yt-dlp: %v", spawnErr.Err)
	}
	return domain.WrapError(domain.KindDownloadFailed, err, "%v", err)
}

func (b *NativeBackend) writeHeader(id, cmdLine string) {
	if b.transcript == nil {
		return
	}
	b.transcript.Printf("\n=== [%s] Download: %s ===\n", time.Now().Format("2006-01-02 15:04:05"), id)
	b.transcript.Printf("$ %s\n", cmdLine)
}

func (b *NativeBackend) writeLine(line string) {
	if b.transcript == nil {
		return
	}
	b.transcript.Printf("%s\n", line)
}

func (b *NativeBackend) writeFooter(success bool, message string) {
	if b.transcript == nil {
		return
	}
	status := "SUCCESS"
	if !success {
		status = "FAILED"
	}
	b.transcript.Printf("[%s] %s: %s\n", time.Now().Format("2006-01-02 15:04:05"), status, message)
	b.transcript.Printf("=== END ===\n\n")
}
