package infrastructure

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseProgress(t *testing.T) {
	tests := []struct {
		line string
		want float64
		ok   bool
	}{
		{"[download]  45.2% of 3.50MiB at 1.00MiB/s ETA 00:02", 45.2, true},
		{"[download] 100% of 3.50MiB in 00:03", 100, true},
		{"[download]   0.0% of ~1.00MiB", 0, true},
		{"[download] Destination: song.webm", 0, false},
		{"[info] Writing metadata", 0, false},
		{"45.2%", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, ok := ParseProgress(tt.line)
			assert.Equal(t, tt.ok, ok)
			assert.InDelta(t, tt.want, got, 0.0001)
		})
	}
}

func TestProgressThrottle(t *testing.T) {
	var throttle progressThrottle
	var emitted []float64
	for _, p := range []float64{0.1, 0.4, 0.5, 0.7, 1.0, 1.2, 50, 98.6, 99.0, 99.1, 99.1, 100} {
		if throttle.Allow(p) {
			emitted = append(emitted, p)
		}
	}
	assert.Equal(t, []float64{0.5, 1.0, 50, 98.6, 99.0, 99.1, 99.1, 100}, emitted)
}

func TestExtractTitle(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  string
	}{
		{
			name:  "destination with path",
			lines: []string{"[youtube] abc: Downloading webpage", "[download] Destination: /music/My Song.webm", "[download] 100%"},
			want:  "My Song",
		},
		{
			name:  "bare destination",
			lines: []string{"[download] Destination: song.mp3"},
			want:  "song",
		},
		{
			name:  "destination wins over info",
			lines: []string{"[info] Other title. more", "[download] Destination: real.m4a"},
			want:  "real",
		},
		{
			name:  "info fallback skips urls",
			lines: []string{"[info] Downloading from https://x", "[info] Cool Track. Extra text"},
			want:  "Cool Track",
		},
		{
			name:  "unknown",
			lines: []string{"[youtube] abc: Downloading webpage"},
			want:  "Unknown",
		},
		{
			name:  "empty",
			lines: nil,
			want:  "Unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractTitle(tt.lines))
		})
	}
}

func TestLastNonEmpty(t *testing.T) {
	assert.Equal(t, "ERROR: boom", lastNonEmpty([]string{"WARNING: x", "ERROR: boom", "  ", ""}))
	assert.Equal(t, "", lastNonEmpty(nil))
}
