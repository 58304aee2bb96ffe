package finding

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"sort"
	"strings"
)

// maxFingerprintPaths bounds how many endpoint paths feed the
// fingerprint so that findings spanning many URLs keep a stable key.
const maxFingerprintPaths = 3

// NormalizeTitle lowercases a title and collapses punctuation so that
// "SQL Injection in /search" and "sql injection (/search)" normalize to
// the same token sequence.
func NormalizeTitle(title string) string {
	return strings.Join(TitleTokens(title), " ")
}

// TitleTokens splits a title into lowercase alphanumeric tokens for
// similarity matching.
func TitleTokens(title string) []string {
	lower := strings.ToLower(title)
	return strings.FieldsFunc(lower, func(r rune) bool {
		return !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9')
	})
}

// EndpointPath reduces a target URL to its host and path, dropping the
// scheme, query string, and fragment. Invalid URLs fall back to a
// best-effort strip at the first "?" or "#".
func EndpointPath(target string) string {
	u, err := url.Parse(strings.TrimSpace(target))
	if err != nil || (u.Host == "" && u.Path == "") {
		s := target
		if i := strings.IndexAny(s, "?#"); i >= 0 {
			s = s[:i]
		}
		return strings.TrimSuffix(strings.TrimSpace(s), "/")
	}
	p := u.Host + u.Path
	return strings.TrimSuffix(p, "/")
}

// ComputeFingerprint derives the stable identity hash for a finding
// from its normalized title, category, and affected endpoint paths.
// Query strings and timestamps never feed the hash, so re-scans of the
// same issue produce the same fingerprint.
func ComputeFingerprint(title, category string, targets []string) string {
	paths := make([]string, 0, len(targets))
	for _, t := range targets {
		if p := EndpointPath(t); p != "" {
			paths = append(paths, p)
		}
	}
	sort.Strings(paths)
	if len(paths) > maxFingerprintPaths {
		paths = paths[:maxFingerprintPaths]
	}

	parts := append([]string{NormalizeTitle(title), category}, paths...)
	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:8])
}
