package finding

import "strings"

// Severity represents the canonical severity level of a finding.
// All values are lowercase strings, independent of any scanner's
// native vocabulary.
type Severity string

const (
	// Critical represents immediate system compromise (RCE, auth bypass).
	Critical Severity = "critical"

	// High represents significant impact requiring prompt fix (SQLi, stored XSS).
	High Severity = "high"

	// Medium represents moderate impact (reflected XSS, CSRF).
	Medium Severity = "medium"

	// Low represents limited impact (verbose errors, minor info leak).
	Low Severity = "low"

	// Info represents informational findings with no direct security impact.
	Info Severity = "info"
)

// IsValid reports whether s is a recognized severity level.
func (s Severity) IsValid() bool {
	switch s {
	case Critical, High, Medium, Low, Info:
		return true
	}
	return false
}

// Score returns a numeric score for sorting and comparison.
// Critical=5, High=4, Medium=3, Low=2, Info=1, Unknown=0.
func (s Severity) Score() int {
	switch s {
	case Critical:
		return 5
	case High:
		return 4
	case Medium:
		return 3
	case Low:
		return 2
	case Info:
		return 1
	default:
		return 0
	}
}

// String returns the severity as a string.
func (s Severity) String() string {
	return string(s)
}

// MaxSeverity returns the more severe of a and b.
func MaxSeverity(a, b Severity) Severity {
	if b.Score() > a.Score() {
		return b
	}
	return a
}

// ParseSeverity maps a scanner-native severity string onto the canonical
// scale. Matching is case-insensitive and tolerates common aliases
// ("informational", "moderate", "severe"). Unknown or empty input yields
// (Info, false) so a missing severity never fails a batch.
func ParseSeverity(raw string) (Severity, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "critical", "crit":
		return Critical, true
	case "high", "severe":
		return High, true
	case "medium", "moderate", "med":
		return Medium, true
	case "low", "minor":
		return Low, true
	case "info", "informational", "information", "note", "none":
		return Info, true
	default:
		return Info, false
	}
}

// Confidence reflects scanner certainty in a finding. It is lowered
// automatically when fields are inferred rather than reported.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Score returns a numeric score for comparison. High=3, Medium=2, Low=1.
func (c Confidence) Score() int {
	switch c {
	case ConfidenceHigh:
		return 3
	case ConfidenceMedium:
		return 2
	case ConfidenceLow:
		return 1
	default:
		return 0
	}
}

// Lower returns the confidence one step down, bottoming out at low.
func (c Confidence) Lower() Confidence {
	switch c {
	case ConfidenceHigh:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// MaxConfidence returns the higher of a and b.
func MaxConfidence(a, b Confidence) Confidence {
	if b.Score() > a.Score() {
		return b
	}
	return a
}

// ParseConfidence maps a scanner-native confidence string onto the
// canonical scale. Unknown input yields (ConfidenceLow, false).
func ParseConfidence(raw string) (Confidence, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "high", "confirmed", "certain":
		return ConfidenceHigh, true
	case "medium", "firm", "tentative":
		return ConfidenceMedium, true
	case "low":
		return ConfidenceLow, true
	default:
		return ConfidenceLow, false
	}
}
