package infrastructure

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/yourusername/yt-audio-go/internal/domain"
	"go.uber.org/zap"
)

// NotificationService sends desktop notifications about download outcomes
type NotificationService struct {
	config *domain.NotificationConfig
	logger *zap.Logger
	run    func(name string, args ...string) error
}

// NewNotificationService creates a new notification service
func NewNotificationService(config *domain.NotificationConfig, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		config: config,
		logger: logger,
		run: func(name string, args ...string) error {
			return exec.Command(name, args...).Run()
		},
	}
}

// method returns the configured method, or the native one for this OS
func (n *NotificationService) method() string {
	if n.config.Method != "" {
		return n.config.Method
	}
	switch runtime.GOOS {
	case "darwin":
		return "osascript"
	case "linux":
		return "notify-send"
	default:
		return ""
	}
}

// Send sends a notification
func (n *NotificationService) Send(title, message string) error {
	if !n.config.Enabled {
		n.logger.Debug("Notifications disabled, skipping",
			zap.String("title", title),
			zap.String("message", message))
		return nil
	}

	method := n.method()
	var err error
	switch method {
	case "osascript":
		script := fmt.Sprintf(`display notification "%s" with title "%s"`, appleScriptQuote(message), appleScriptQuote(title))
		err = n.run("osascript", "-e", script)
	case "notify-send":
		err = n.run("notify-send", title, message)
	default:
		n.logger.Debug("No notification method for platform", zap.String("method", method))
		return nil
	}

	if err != nil {
		n.logger.Warn("Failed to send notification",
			zap.String("method", method),
			zap.Error(err))
		return err
	}

	n.logger.Debug("Notification sent",
		zap.String("title", title),
		zap.String("message", message))
	return nil
}

// NotifyDownloadCompleted sends notification when a download completes
func (n *NotificationService) NotifyDownloadCompleted(title string) {
	n.Send("Download Completed", truncateString(title, 60))
}

// NotifyDownloadFailed sends notification when a download fails
func (n *NotificationService) NotifyDownloadFailed(url string, err error) {
	n.Send("Download Failed", fmt.Sprintf("%s: %s", truncateString(url, 40), truncateString(err.Error(), 80)))
}

// NotifyGateWarning sends notification when the daily count enters the warning band
func (n *NotificationService) NotifyGateWarning(count uint32) {
	n.Send("Approaching Daily Limit", fmt.Sprintf("%d of %d downloads used today", count, domain.DailyLimit))
}

func appleScriptQuote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}

// truncateString truncates a string to the specified length
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
