package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// DailyFile appends raw text to <dir>/<prefix>-YYYYMMDD.log, moving to a new
// file when the local date changes. It is used for yt-dlp transcripts, which
// are kept out of the structured log.
type DailyFile struct {
	dir    string
	prefix string
	now    func() time.Time

	mu          sync.Mutex
	file        *os.File
	currentDate string
}

// NewDailyFile creates a writer rooted at dir. The directory is created lazily.
func NewDailyFile(dir, prefix string) *DailyFile {
	return &DailyFile{dir: dir, prefix: prefix, now: time.Now}
}

// Write implements io.Writer
func (d *DailyFile) Write(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.rotate(); err != nil {
		return 0, err
	}
	return d.file.Write(p)
}

// Printf writes a formatted line
func (d *DailyFile) Printf(format string, args ...interface{}) {
	fmt.Fprintf(d, format, args...)
}

// Path returns the file path for the current date
func (d *DailyFile) Path() string {
	return d.pathFor(d.now().Format("20060102"))
}

// Close closes the current file
func (d *DailyFile) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.file == nil {
		return nil
	}
	err := d.file.Close()
	d.file = nil
	return err
}

func (d *DailyFile) pathFor(date string) string {
	return filepath.Join(d.dir, fmt.Sprintf("%s-%s.log", d.prefix, date))
}

func (d *DailyFile) rotate() error {
	date := d.now().Format("20060102")
	if d.file != nil && date == d.currentDate {
		return nil
	}

	if err := os.MkdirAll(d.dir, 0755); err != nil {
		return fmt.Errorf("failed to create logs directory: %w", err)
	}
	file, err := os.OpenFile(d.pathFor(date), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	if d.file != nil {
		d.file.Close()
	}
	d.file = file
	d.currentDate = date
	return nil
}
