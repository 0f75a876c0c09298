package infrastructure

import (
	"net/url"
	"strings"
)

// ShellEscape quotes s for display in a shell command line. exec.Command does
// not need it; it is only used for logs and transcripts.
func ShellEscape(s string) string {
	if s == "" {
		return "''"
	}
	if !strings.ContainsFunc(s, isShellSpecialChar) {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'"'"'`) + "'"
}

// CommandLine renders binary and args as a copy-pasteable command line with
// proxy credentials masked
func CommandLine(binary string, args ...string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, ShellEscape(binary))

	maskNext := false
	for _, arg := range args {
		if maskNext {
			arg = redactURLPassword(arg)
			maskNext = false
		}
		if arg == "--proxy" {
			maskNext = true
		}
		parts = append(parts, ShellEscape(arg))
	}
	return strings.Join(parts, " ")
}

func redactURLPassword(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	if _, ok := u.User.Password(); !ok {
		return raw
	}
	return strings.Replace(raw, u.User.String()+"@", u.User.Username()+":***@", 1)
}

func isShellSpecialChar(c rune) bool {
	switch c {
	case ' ', '\t', '\'', '"', '$', '`', '\\', '!', '*', '?', '[', ']',
		'(', ')', '{', '}', '|', ';', '<', '>', '&', '~', '#', '%', '\n', '\r':
		return true
	default:
		return false
	}
}
