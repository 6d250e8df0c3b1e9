package sanitizer

import (
	"net/mail"
	"regexp"
	"strings"
)

type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

var (
	reUsername      = regexp.MustCompile(`[^a-z0-9._\-]+`)
	reTrimSeparator = regexp.MustCompile(`^[._\-]+|[._\-]+$`)
)

func trimAndLower(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NormalizeEmail accepts a bare address or "Name <addr>" and returns the
// lower-cased address, or "" when it does not parse.
func NormalizeEmail(input string) string {
	s := strings.TrimSpace(input)
	if s == "" {
		return ""
	}

	addr, err := mail.ParseAddress(s)
	if err != nil {
		return ""
	}

	return trimAndLower(addr.Address)
}

// NormalizeUsername keeps only characters that are safe in a URL path segment.
func NormalizeUsername(input string) string {
	p := Pipeline{
		trimAndLower,
		func(s string) string { return reUsername.ReplaceAllString(s, "-") },
		func(s string) string { return reTrimSeparator.ReplaceAllString(s, "") },
	}
	return p.Apply(input)
}
