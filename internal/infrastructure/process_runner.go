package infrastructure

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// ProcessRunner spawns an external command and streams its output line by line.
// Lines from one stream are delivered in order on a single goroutine. Run
// returns the exit code once both streams are drained.
type ProcessRunner interface {
	Run(ctx context.Context, binary string, args []string, onStdout, onStderr func(line string)) (int, error)
}

// SpawnError reports that the process could not be started
type SpawnError struct {
	Binary string
	Err    error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("failed to start %s: %v", e.Binary, e.Err)
}

func (e *SpawnError) Unwrap() error {
	return e.Err
}

// ExecRunner runs commands with os/exec. Cancelling ctx kills the whole
// process group so ffmpeg children spawned by yt-dlp go down too.
type ExecRunner struct {
	waitDelay time.Duration
}

// NewExecRunner creates a runner that waits up to 5s for pipes after a kill
func NewExecRunner() *ExecRunner {
	return &ExecRunner{waitDelay: 5 * time.Second}
}

// Run implements ProcessRunner
func (r *ExecRunner) Run(ctx context.Context, binary string, args []string, onStdout, onStderr func(line string)) (int, error) {
	cmd := exec.CommandContext(ctx, binary, args...)
	configureProcess(cmd)
	cmd.WaitDelay = r.waitDelay

	stdout := &lineWriter{fn: onStdout}
	stderr := &lineWriter{fn: onStderr}
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Start(); err != nil {
		return -1, &SpawnError{Binary: binary, Err: err}
	}

	err := cmd.Wait()
	stdout.Flush()
	stderr.Flush()

	if ctxErr := ctx.Err(); ctxErr != nil {
		return -1, ctxErr
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode(), nil
		}
		if errors.Is(err, exec.ErrWaitDelay) && cmd.ProcessState != nil {
			return cmd.ProcessState.ExitCode(), nil
		}
		return -1, err
	}
	return 0, nil
}

// lineWriter splits written bytes into lines and hands each to fn
type lineWriter struct {
	buf []byte
	fn  func(string)
}

func (w *lineWriter) Write(p []byte) (int, error) {
	w.buf = append(w.buf, p...)
	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		line := strings.TrimRight(string(w.buf[:i]), "\r")
		w.buf = w.buf[i+1:]
		w.emit(line)
	}
	return len(p), nil
}

// Flush delivers a trailing line that had no newline
func (w *lineWriter) Flush() {
	if len(w.buf) == 0 {
		return
	}
	line := strings.TrimRight(string(w.buf), "\r")
	w.buf = nil
	w.emit(line)
}

func (w *lineWriter) emit(line string) {
	if w.fn != nil {
		w.fn(line)
	}
}
