package domain

// Event names delivered to subscribers
const (
	EventDownloadLog      = "download-log"
	EventDownloadProgress = "download-progress"
	EventSetupProgress    = "setup-progress"
)

// Log levels carried by download-log events
const (
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

// EventEmitter delivers events to the UI. Emission is best-effort.
type EventEmitter interface {
	Emit(event string, payload interface{})
}

// LogPayload is the payload of a download-log event
type LogPayload struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// ProgressPayload is the payload of a download-progress event
type ProgressPayload struct {
	Progress float64 `json:"progress"`
	Status   string  `json:"status"`
}

// SetupProgressPayload is the payload of a setup-progress event
type SetupProgressPayload struct {
	Type     string  `json:"type"`
	Progress float64 `json:"progress"`
	Status   string  `json:"status"`
}

// EmitLog is a shorthand for emitting a download-log event
func EmitLog(e EventEmitter, level, message string) {
	if e == nil {
		return
	}
	e.Emit(EventDownloadLog, LogPayload{Level: level, Message: message})
}

// EmitProgress is a shorthand for emitting a download-progress event
func EmitProgress(e EventEmitter, progress float64, status string) {
	if e == nil {
		return
	}
	e.Emit(EventDownloadProgress, ProgressPayload{Progress: progress, Status: status})
}

// NopEmitter discards all events
type NopEmitter struct{}

// Emit does nothing
func (NopEmitter) Emit(string, interface{}) {}
