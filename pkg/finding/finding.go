package finding

import (
	"sort"
	"time"
)

// Evidence is a single source-attributed evidence snippet. Evidence is
// unioned on merge and never dropped.
type Evidence struct {
	Source string `json:"source"`
	Detail string `json:"detail"`
}

// Finding is the canonical unit of risk produced by the normalizer,
// merged by the deduplicator, and annotated by the prioritizer.
// After prioritization a Finding is read-only.
type Finding struct {
	// Fingerprint is a stable identity hash derived from the normalized
	// title, category, and affected endpoint paths (query strings and
	// timestamps excluded).
	Fingerprint string `json:"fingerprint"`

	Title           string `json:"title"`
	NormalizedTitle string `json:"normalized_title"`

	Severity   Severity   `json:"severity"`
	Confidence Confidence `json:"confidence"`

	// Sources is the sorted set of originating scanner identifiers.
	// It grows on merge.
	Sources []string `json:"sources"`

	// Category is the normalized vulnerability class, e.g. "sql-injection",
	// "xss", "misconfiguration", "information-disclosure", "auth-bypass".
	Category   string  `json:"category"`
	CWEID      string  `json:"cwe_id,omitempty"`
	CVEID      string  `json:"cve_id,omitempty"`
	CVSSScore  float64 `json:"cvss_score,omitempty"`
	CVSSVector string  `json:"cvss_vector,omitempty"`

	// AffectedTargets is the sorted set of implicated URLs/endpoints.
	AffectedTargets []string `json:"affected_targets"`

	Evidence []Evidence `json:"evidence,omitempty"`

	// IsFalsePositive marks findings matched by a benign pattern rule.
	// False positives stay visible but are excluded from blocker
	// determination and baseline matching.
	IsFalsePositive     bool   `json:"is_false_positive,omitempty"`
	FalsePositiveReason string `json:"false_positive_reason,omitempty"`

	Priority              Priority   `json:"priority,omitempty"`
	IsBlocker             bool       `json:"is_blocker,omitempty"`
	RemediationComplexity Complexity `json:"remediation_complexity,omitempty"`
	EstimatedEffort       Effort     `json:"estimated_effort,omitempty"`

	// NeedsReview flags findings whose category was absent from the
	// remediation lookup table.
	NeedsReview bool `json:"needs_review,omitempty"`

	FirstSeen time.Time `json:"first_seen"`
	LastSeen  time.Time `json:"last_seen"`

	// Status is only meaningful on persisted baseline entries.
	Status Status `json:"status,omitempty"`
}

// Clone returns a deep copy of f.
func (f Finding) Clone() Finding {
	c := f
	if f.Sources != nil {
		c.Sources = make([]string, len(f.Sources))
		copy(c.Sources, f.Sources)
	}
	if f.AffectedTargets != nil {
		c.AffectedTargets = make([]string, len(f.AffectedTargets))
		copy(c.AffectedTargets, f.AffectedTargets)
	}
	if f.Evidence != nil {
		c.Evidence = make([]Evidence, len(f.Evidence))
		copy(c.Evidence, f.Evidence)
	}
	return c
}

// AddSource inserts src into the sorted source set.
func (f *Finding) AddSource(src string) {
	f.Sources = insertSorted(f.Sources, src)
}

// AddTarget inserts target into the sorted target set.
func (f *Finding) AddTarget(target string) {
	f.AffectedTargets = insertSorted(f.AffectedTargets, target)
}

// HasSource reports whether src is in the source set.
func (f *Finding) HasSource(src string) bool {
	i := sort.SearchStrings(f.Sources, src)
	return i < len(f.Sources) && f.Sources[i] == src
}

// insertSorted inserts s into a sorted slice, keeping it sorted and
// duplicate-free. Sorted sets keep serialized output deterministic.
func insertSorted(set []string, s string) []string {
	if s == "" {
		return set
	}
	i := sort.SearchStrings(set, s)
	if i < len(set) && set[i] == s {
		return set
	}
	set = append(set, "")
	copy(set[i+1:], set[i:])
	set[i] = s
	return set
}
