package infrastructure

import (
	"math"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

var progressRegex = regexp.MustCompile(`\[download\]\s+(\d+\.?\d*)%`)

// ParseProgress extracts the percentage from a yt-dlp progress line
func ParseProgress(line string) (float64, bool) {
	m := progressRegex.FindStringSubmatch(line)
	if m == nil {
		return 0, false
	}
	p, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return p, true
}

// progressThrottle suppresses progress updates smaller than half a point.
// Values of 99 and above always pass.
type progressThrottle struct {
	last float64
}

func (t *progressThrottle) Allow(p float64) bool {
	if math.Abs(p-t.last) >= 0.5 || p >= 99 {
		t.last = p
		return true
	}
	return false
}

// ExtractTitle finds the media title in captured yt-dlp stdout. It prefers the
// download destination, then the first [info] line, then "Unknown".
func ExtractTitle(lines []string) string {
	const destination = "[download] Destination:"
	for _, line := range lines {
		idx := strings.Index(line, destination)
		if idx < 0 {
			continue
		}
		path := strings.TrimSpace(line[idx+len(destination):])
		base := filepath.Base(path)
		if title := strings.TrimSuffix(base, filepath.Ext(base)); title != "" && base != "." {
			return title
		}
	}

	for _, line := range lines {
		idx := strings.Index(line, "[info]")
		if idx < 0 || strings.Contains(line, "http") {
			continue
		}
		rest := strings.TrimSpace(line[idx+len("[info]"):])
		title, _, _ := strings.Cut(rest, ".")
		if title = strings.TrimSpace(title); title != "" {
			return title
		}
	}

	return "Unknown"
}

func lastNonEmpty(lines []string) string {
	for i := len(lines) - 1; i >= 0; i-- {
		if s := strings.TrimSpace(lines[i]); s != "" {
			return s
		}
	}
	return ""
}
