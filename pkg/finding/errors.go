package finding

import "errors"

// Sentinel errors for pipeline failure modes.
// Callers should use errors.Is() to check for these.
var (
	// ErrInputFormat indicates the entire input batch is unparseable.
	// This is the only hard failure in the pipeline; no partial result
	// is returned alongside it.
	ErrInputFormat = errors.New("finding: input batch unparseable")

	// ErrEmptyBatch indicates an input batch with no records at all.
	ErrEmptyBatch = errors.New("finding: empty input batch")
)

// WarningKind identifies a recovered, per-record degradation. Warnings
// never abort a run; the caller always receives a best-effort result
// plus the warning list.
type WarningKind string

const (
	// WarnRecordSkipped marks a record missing both title and category.
	// The record is excluded from output.
	WarnRecordSkipped WarningKind = "record_skipped"

	// WarnUnknownSeverity marks a record whose severity vocabulary was
	// not recognized; the finding defaulted to info with low confidence.
	WarnUnknownSeverity WarningKind = "unknown_severity"

	// WarnMalformedCVE marks a CVE identifier that failed validation
	// and was discarded.
	WarnMalformedCVE WarningKind = "malformed_cve"

	// WarnMalformedCWE marks a CWE identifier that failed validation
	// and was discarded.
	WarnMalformedCWE WarningKind = "malformed_cwe"

	// WarnUnknownCategory marks a category absent from the remediation
	// lookup table; the finding got medium complexity, unspecified
	// effort, and NeedsReview.
	WarnUnknownCategory WarningKind = "unknown_category"

	// WarnSourceFailed marks a source whose entire batch could not be
	// normalized while other sources succeeded. The run continues with
	// the remaining sources.
	WarnSourceFailed WarningKind = "source_failed"
)

// Warning records a single recovered degradation.
type Warning struct {
	Kind   WarningKind `json:"kind"`
	Source string      `json:"source,omitempty"`
	Detail string      `json:"detail"`
}

// CountWarnings returns the number of warnings of the given kind.
func CountWarnings(warnings []Warning, kind WarningKind) int {
	n := 0
	for _, w := range warnings {
		if w.Kind == kind {
			n++
		}
	}
	return n
}
