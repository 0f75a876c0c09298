package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures surfaced to callers
type ErrorKind string

const (
	KindInvalidURL          ErrorKind = "invalid_url"
	KindGateLocked          ErrorKind = "gate_locked"
	KindSidecarNotFound     ErrorKind = "sidecar_not_found"
	KindSidecarError        ErrorKind = "sidecar_error"
	KindDownloadFailed      ErrorKind = "download_failed"
	KindIOError             ErrorKind = "io_error"
	KindCancelled           ErrorKind = "cancelled"
	KindUnsupportedPlatform ErrorKind = "unsupported_platform"
	// KindInternal marks failures with no more specific kind, such as a
	// recovered handler panic
	KindInternal ErrorKind = "internal"
)

// ErrKeyNotFound is returned by a ConfigStore when no value exists for a key
var ErrKeyNotFound = errors.New("key not found")

// Error is the typed error returned by download and sidecar operations
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindInvalidURL:
		return "Invalid URL: " + e.Message
	case KindGateLocked:
		return "Safety gate locked: daily limit reached"
	case KindSidecarNotFound:
		return "Sidecar not found: " + e.Message
	case KindSidecarError:
		return "Sidecar error: " + e.Message
	case KindDownloadFailed:
		return "Download failed: " + e.Message
	case KindIOError:
		return "IO error: " + e.Message
	case KindCancelled:
		return "Download cancelled"
	case KindUnsupportedPlatform:
		return "Unsupported platform: " + e.Message
	default:
		return e.Message
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a typed error with a formatted message
func NewError(kind ErrorKind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WrapError creates a typed error that keeps the underlying cause
func WrapError(kind ErrorKind, err error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf returns the kind of the first typed error in err's chain, or "" if none
func KindOf(err error) ErrorKind {
	var typed *Error
	if errors.As(err, &typed) {
		return typed.Kind
	}
	return ""
}

// IsKind reports whether err carries the given kind
func IsKind(err error, kind ErrorKind) bool {
	return err != nil && KindOf(err) == kind
}
