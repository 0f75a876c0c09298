package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// ProxyType is the scheme of an outbound proxy
type ProxyType string

const (
	ProxyNone   ProxyType = "none"
	ProxyHTTP   ProxyType = "http"
	ProxySocks5 ProxyType = "socks5"
)

// Valid reports whether t is a known proxy type
func (t ProxyType) Valid() bool {
	switch t {
	case ProxyNone, ProxyHTTP, ProxySocks5:
		return true
	}
	return false
}

// ProxyAuth holds optional proxy credentials
type ProxyAuth struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ProxyConfig describes how yt-dlp should reach the network
type ProxyConfig struct {
	ProxyType ProxyType  `json:"proxy_type"`
	Host      string     `json:"host"`
	Port      uint16     `json:"port"`
	Auth      *ProxyAuth `json:"auth"`
}

// DefaultProxyConfig returns a direct connection
func DefaultProxyConfig() ProxyConfig {
	return ProxyConfig{ProxyType: ProxyNone}
}

// IsEnabled reports whether the proxy should be applied
func (p ProxyConfig) IsEnabled() bool {
	return p.ProxyType != ProxyNone && p.ProxyType != "" && p.Host != "" && p.Port > 0
}

func (p ProxyConfig) hasAuth() bool {
	return p.Auth != nil && (p.Auth.Username != "" || p.Auth.Password != "")
}

// URL renders scheme://[user:pass@]host:port, or "" when disabled
func (p ProxyConfig) URL() string {
	if !p.IsEnabled() {
		return ""
	}
	if p.hasAuth() {
		return fmt.Sprintf("%s://%s:%s@%s:%d", p.ProxyType, p.Auth.Username, p.Auth.Password, p.Host, p.Port)
	}
	return fmt.Sprintf("%s://%s:%d", p.ProxyType, p.Host, p.Port)
}

// Redacted renders the URL with the password masked
func (p ProxyConfig) Redacted() string {
	if !p.IsEnabled() {
		return ""
	}
	if p.hasAuth() {
		return fmt.Sprintf("%s://%s:***@%s:%d", p.ProxyType, p.Auth.Username, p.Host, p.Port)
	}
	return p.URL()
}

// Address returns host:port
func (p ProxyConfig) Address() string {
	return fmt.Sprintf("%s:%d", p.Host, p.Port)
}

// YTDLPArgs returns the --proxy flag pair, or nil when disabled
func (p ProxyConfig) YTDLPArgs() []string {
	if !p.IsEnabled() {
		return nil
	}
	return []string{"--proxy", p.URL()}
}

// ParseProxyList parses one proxy per line. Blank lines and # comments are
// skipped and malformed lines are dropped.
func ParseProxyList(text string) []ProxyConfig {
	var proxies []ProxyConfig
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if p, ok := parseProxyLine(line); ok {
			proxies = append(proxies, p)
		}
	}
	return proxies
}

func parseProxyLine(line string) (ProxyConfig, bool) {
	proxyType := ProxyHTTP
	rest := line
	switch {
	case strings.HasPrefix(rest, "socks5://"):
		proxyType = ProxySocks5
		rest = strings.TrimPrefix(rest, "socks5://")
	case strings.HasPrefix(rest, "http://"):
		rest = strings.TrimPrefix(rest, "http://")
	}

	var auth *ProxyAuth
	if at := strings.LastIndex(rest, "@"); at >= 0 {
		creds := rest[:at]
		rest = rest[at+1:]
		user, pass, ok := strings.Cut(creds, ":")
		if !ok {
			return ProxyConfig{}, false
		}
		auth = &ProxyAuth{Username: user, Password: pass}
	}

	colon := strings.LastIndex(rest, ":")
	if colon < 0 {
		return ProxyConfig{}, false
	}
	port, err := strconv.ParseUint(rest[colon+1:], 10, 16)
	if err != nil {
		return ProxyConfig{}, false
	}

	return ProxyConfig{
		ProxyType: proxyType,
		Host:      rest[:colon],
		Port:      uint16(port),
		Auth:      auth,
	}, true
}
