package infrastructure

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yourusername/yt-audio-go/internal/domain"
	"go.uber.org/zap"
)

type recordedCommand struct {
	name string
	args []string
}

func newTestNotifier(cfg domain.NotificationConfig, runErr error) (*NotificationService, *[]recordedCommand) {
	var calls []recordedCommand
	n := NewNotificationService(&cfg, zap.NewNop())
	n.run = func(name string, args ...string) error {
		calls = append(calls, recordedCommand{name, args})
		return runErr
	}
	return n, &calls
}

func TestNotificationService_Disabled(t *testing.T) {
	n, calls := newTestNotifier(domain.NotificationConfig{Enabled: false, Method: "notify-send"}, nil)
	assert.NoError(t, n.Send("t", "m"))
	assert.Empty(t, *calls)
}

func TestNotificationService_NotifySend(t *testing.T) {
	n, calls := newTestNotifier(domain.NotificationConfig{Enabled: true, Method: "notify-send"}, nil)
	n.NotifyDownloadCompleted("My Song")
	assert.Equal(t, []recordedCommand{{"notify-send", []string{"Download Completed", "My Song"}}}, *calls)
}

func TestNotificationService_OSAScriptQuotes(t *testing.T) {
	n, calls := newTestNotifier(domain.NotificationConfig{Enabled: true, Method: "osascript"}, nil)
	n.Send(`Say "hi"`, `a\b`)
	assert.Equal(t, `display notification "a\\b" with title "Say \"hi\""`, (*calls)[0].args[1])
}

func TestNotificationService_ReportsFailure(t *testing.T) {
	n, _ := newTestNotifier(domain.NotificationConfig{Enabled: true, Method: "notify-send"}, errors.New("missing"))
	assert.Error(t, n.Send("t", "m"))
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "abc", truncateString("abc", 5))
	assert.Equal(t, "ab...", truncateString("abcdef", 2))
}
