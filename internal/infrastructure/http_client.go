package infrastructure

import (
	"net/http"
	"time"

	"github.com/yourusername/yt-audio-go/internal/domain"
)

// NewHTTPClient builds the single outbound client shared by the sidecar
// installer and the delegated backend
func NewHTTPClient(cfg domain.HTTPConfig) *http.Client {
	tr := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		MaxIdleConnsPerHost:   cfg.MaxIdleConnsPerHost,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &http.Client{
		Transport: &userAgentTransport{base: tr, userAgent: cfg.UserAgent},
		Timeout:   cfg.Timeout,
	}
}

// userAgentTransport sets a default User-Agent on requests that lack one
type userAgentTransport struct {
	base      http.RoundTripper
	userAgent string
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.userAgent != "" && req.Header.Get("User-Agent") == "" {
		req = req.Clone(req.Context())
		req.Header.Set("User-Agent", t.userAgent)
	}
	return t.base.RoundTrip(req)
}
