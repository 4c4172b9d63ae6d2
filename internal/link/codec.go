package link

import (
	"encoding/base64"
	"net/url"
	"regexp"
	"strings"
)

// Alphabet selects the base64 character set for DecodeBase64IfValid.
type Alphabet int

const (
	StdAlphabet Alphabet = iota
	URLAlphabet
)

var (
	b64StdPattern = regexp.MustCompile(`^[A-Za-z0-9+/]+={0,2}$`)
	b64URLPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+={0,2}$`)
)

// DecodeBase64IfValid decodes s if and only if it is syntactically valid
// base64 in the selected alphabet. It is a probe, not a decoder: any
// character outside the alphabet (or a decode failure) yields "" rather
// than an error, so callers can tell "not base64" apart from real input
// without branching on errors. Surrounding whitespace is ignored.
func DecodeBase64IfValid(s string, alphabet Alphabet) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	pattern := b64StdPattern
	enc := base64.RawStdEncoding
	if alphabet == URLAlphabet {
		pattern = b64URLPattern
		enc = base64.RawURLEncoding
	}
	if !pattern.MatchString(s) {
		return ""
	}

	// Raw encodings tolerate the unpadded forms common in scraped links.
	decoded, err := enc.DecodeString(strings.TrimRight(s, "="))
	if err != nil {
		return ""
	}
	return string(decoded)
}

// SubstrBefore returns the part of s before the first occurrence of sep,
// or s itself when sep is absent.
func SubstrBefore(s, sep string) string {
	if i := strings.Index(s, sep); i >= 0 {
		return s[:i]
	}
	return s
}

// SubstrAfter returns the part of s after the first occurrence of sep,
// or "" when sep is absent.
func SubstrAfter(s, sep string) string {
	if i := strings.Index(s, sep); i >= 0 {
		return s[i+len(sep):]
	}
	return ""
}

func queryValue(q url.Values, key, def string) string {
	if _, ok := q[key]; ok {
		return q.Get(key)
	}
	return def
}
