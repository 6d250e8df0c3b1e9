package sanitizer

import (
	"net/url"
	"strings"
)

// NormalizeLocation returns an http(s) URL with a lower-cased host when the
// input is one, and the whitespace-normalized text otherwise ("Zoom",
// a street address).
func NormalizeLocation(input string) string {
	s := TrimAndNormalize(input)
	if s == "" {
		return ""
	}

	lower := strings.ToLower(s)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		return s
	}

	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return s
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)

	return u.String()
}

// JoinURL appends a single path segment to base, escaping it.
func JoinURL(base, segment string) string {
	base = strings.TrimSpace(base)
	segment = strings.Trim(strings.TrimSpace(segment), "/")
	if base == "" || segment == "" {
		return ""
	}

	return strings.TrimSuffix(base, "/") + "/" + url.PathEscape(segment)
}
