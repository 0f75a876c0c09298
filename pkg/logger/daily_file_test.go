package logger

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDailyFile_WritesAndRotates(t *testing.T) {
	dir := t.TempDir()
	f := NewDailyFile(filepath.Join(dir, "logs"), "download")
	defer f.Close()

	current := time.Date(2026, 10, 18, 23, 59, 0, 0, time.Local)
	f.now = func() time.Time { return current }

	f.Printf("first %d\n", 1)
	assert.Equal(t, filepath.Join(dir, "logs", "download-20261018.log"), f.Path())

	current = current.Add(2 * time.Minute)
	f.Printf("second\n")

	first, err := os.ReadFile(filepath.Join(dir, "logs", "download-20261018.log"))
	require.NoError(t, err)
	assert.Equal(t, "first 1\n", string(first))

	second, err := os.ReadFile(filepath.Join(dir, "logs", "download-20261019.log"))
	require.NoError(t, err)
	assert.Equal(t, "second\n", string(second))
}

func TestNew_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "app.log")
	log, err := New(Config{Level: "debug", Format: "json", OutputPath: path})
	require.NoError(t, err)

	log.Info("hello")
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
}
