package core

import (
	"net/url"
	"regexp"
	"strings"
)

const redacted = "[REDACTED]"

var (
	bearerTokenRe = regexp.MustCompile(`(?i)(bearer\s+)[A-Za-z0-9\-\._~\+\/]+=*`)
	kvSecretRe    = regexp.MustCompile(
		`(?i)(api[_-]?key|token|secret|password|pwd|access_token|refresh_token)\s*[:=]\s*["']?[^"'\s&]+["']?`,
	)
	jwtRe = regexp.MustCompile(`\b(eyJ[A-Za-z0-9_\-]+\.eyJ[A-Za-z0-9_\-]+\.[A-Za-z0-9_\-]+)\b`)
)

// sensitiveNames mark a header or query parameter as secret when they appear
// as a whole segment of its name.
var sensitiveNames = []string{
	"authorization", "token", "cookie", "auth", "key", "apikey",
	"secret", "password", "passwd", "pwd", "session", "credential", "signature",
}

// RedactString scrubs bearer tokens, JWTs and key=value secrets from s and
// truncates it for logging.
func RedactString(s string) string {
	const maxLen = 256
	s = strings.TrimSpace(s)
	s = jwtRe.ReplaceAllString(s, "[JWT_REDACTED]")
	s = bearerTokenRe.ReplaceAllString(s, "$1"+redacted)
	s = kvSecretRe.ReplaceAllString(s, "$1="+redacted)
	if len(s) > maxLen {
		s = s[:maxLen] + "…"
	}
	return s
}

func isSensitiveName(name string) bool {
	segments := strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return r == '-' || r == '_' || r == '.'
	})
	for _, segment := range segments {
		for _, sensitive := range sensitiveNames {
			if segment == sensitive {
				return true
			}
		}
	}
	return false
}

// RedactHeaders returns a copy of headers safe to log. Authorization keeps
// its scheme; other sensitive headers are replaced entirely.
func RedactHeaders(headers map[string]string) map[string]string {
	if len(headers) == 0 {
		return headers
	}
	out := make(map[string]string, len(headers))
	for k, v := range headers {
		switch {
		case strings.EqualFold(k, "authorization") || strings.EqualFold(k, "proxy-authorization"):
			out[k] = RedactString(v)
		case isSensitiveName(k):
			out[k] = redacted
		default:
			out[k] = RedactString(v)
		}
	}
	return out
}

// RedactURL drops userinfo and masks sensitive query parameters. Strings
// that do not parse as a URL go through RedactString.
func RedactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return RedactString(raw)
	}
	if u.User != nil {
		u.User = url.User(redacted)
	}
	if u.RawQuery != "" {
		query := u.Query()
		for name := range query {
			if isSensitiveName(name) {
				query[name] = []string{redacted}
			}
		}
		u.RawQuery = query.Encode()
	}
	return u.String()
}
