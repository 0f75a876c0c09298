package domain

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// AntiBanConfig controls User-Agent rotation and pre-download delays
type AntiBanConfig struct {
	RotateUserAgent bool   `json:"rotate_user_agent"`
	EnableDelays    bool   `json:"enable_delays"`
	MinDelaySecs    uint32 `json:"min_delay_secs"`
	MaxDelaySecs    uint32 `json:"max_delay_secs"`
}

// DefaultAntiBanConfig returns rotation and delays enabled with a 1-5s window
func DefaultAntiBanConfig() AntiBanConfig {
	return AntiBanConfig{
		RotateUserAgent: true,
		EnableDelays:    true,
		MinDelaySecs:    1,
		MaxDelaySecs:    5,
	}
}

var userAgents = []string{
	// Chrome on Windows
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36",
	// Chrome on macOS
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36",
	// Chrome on Linux
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36",
	// Firefox on Windows
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:125.0) Gecko/20100101 Firefox/125.0",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:124.0) Gecko/20100101 Firefox/124.0",
	// Firefox on macOS
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 14.4; rv:125.0) Gecko/20100101 Firefox/125.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 14.3; rv:124.0) Gecko/20100101 Firefox/124.0",
	// Firefox on Linux
	"Mozilla/5.0 (X11; Linux x86_64; rv:125.0) Gecko/20100101 Firefox/125.0",
	"Mozilla/5.0 (X11; Ubuntu; Linux x86_64; rv:124.0) Gecko/20100101 Firefox/124.0",
	// Edge
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36 Edg/124.0.0.0",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36 Edg/123.0.0.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36 Edg/124.0.0.0",
	// Safari
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4.1 Safari/605.1.15",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.3 Safari/605.1.15",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.2.1 Safari/605.1.15",
	// Opera
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36 OPR/110.0.0.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36 OPR/109.0.0.0",
	// Brave
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36 Brave/124",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36 Brave/123",
}

// UserAgents returns a copy of the rotation pool
func UserAgents() []string {
	out := make([]string, len(userAgents))
	copy(out, userAgents)
	return out
}

// RandomUserAgent picks a User-Agent uniformly from the pool
func RandomUserAgent() string {
	return userAgents[rand.IntN(len(userAgents))]
}

// Validate rejects an inverted delay window
func (c AntiBanConfig) Validate() error {
	if c.MinDelaySecs > c.MaxDelaySecs {
		return fmt.Errorf("min delay (%ds) cannot exceed max delay (%ds)", c.MinDelaySecs, c.MaxDelaySecs)
	}
	return nil
}

// RandomDelay picks a whole-second delay in [min, max]. It is zero when delays
// are off or min is 0.
func (c AntiBanConfig) RandomDelay() time.Duration {
	if !c.EnableDelays || c.MinDelaySecs == 0 {
		return 0
	}
	lo, hi := c.MinDelaySecs, c.MaxDelaySecs
	if hi < lo {
		hi = lo
	}
	secs := lo + uint32(rand.Int64N(int64(hi-lo)+1))
	return time.Duration(secs) * time.Second
}

// UserAgent returns a random pool entry when rotation is on, otherwise the
// first entry of the pool.
func (c AntiBanConfig) UserAgent() string {
	if !c.RotateUserAgent {
		return userAgents[0]
	}
	return RandomUserAgent()
}

// UserAgentArgs returns the yt-dlp flags for a rotated User-Agent
func (c AntiBanConfig) UserAgentArgs() []string {
	if !c.RotateUserAgent {
		return nil
	}
	return []string{"--user-agent", c.UserAgent()}
}
