package normalize

import (
	"regexp"
	"strings"
)

var (
	cveStrict = regexp.MustCompile(`^CVE-\d{4}-\d{4,}$`)
	cweStrict = regexp.MustCompile(`^CWE-\d{1,5}$`)

	cveLoose = regexp.MustCompile(`(?i)\bCVE-\d{4}-\d{4,}\b`)
	cweLoose = regexp.MustCompile(`(?i)\bCWE-\d{1,5}\b`)
)

// validCVE reports whether id is a well-formed CVE identifier after
// uppercasing, returning the canonical form.
func validCVE(id string) (string, bool) {
	id = strings.ToUpper(strings.TrimSpace(id))
	return id, cveStrict.MatchString(id)
}

// validCWE reports whether id is a well-formed CWE identifier after
// uppercasing, returning the canonical form.
func validCWE(id string) (string, bool) {
	id = strings.ToUpper(strings.TrimSpace(id))
	return id, cweStrict.MatchString(id)
}

// extractCVE scans free text for the first CVE identifier.
func extractCVE(text string) string {
	return strings.ToUpper(cveLoose.FindString(text))
}

// extractCWE scans free text for the first CWE identifier.
func extractCWE(text string) string {
	return strings.ToUpper(cweLoose.FindString(text))
}
