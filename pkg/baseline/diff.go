package baseline

import (
	"time"

	"github.com/vulndelta/vulndelta/pkg/dedup"
	"github.com/vulndelta/vulndelta/pkg/finding"
)

// SeverityChange records a matched finding whose severity moved between
// the baseline and the current scan.
type SeverityChange struct {
	Finding  finding.Finding  `json:"finding"`
	Previous finding.Severity `json:"previous_severity"`
}

// DeltaReport partitions every current and baseline finding into
// exactly one change category.
type DeltaReport struct {
	GeneratedAt       time.Time         `json:"generated_at"`
	New               []finding.Finding `json:"new"`
	Fixed             []finding.Finding `json:"fixed"`
	Regressions       []finding.Finding `json:"regressions"`
	SeverityIncreased []SeverityChange  `json:"severity_increased"`
	SeverityDecreased []SeverityChange  `json:"severity_decreased"`
	Unchanged         []finding.Finding `json:"unchanged"`
	Stats             DeltaStats        `json:"stats"`
}

// DeltaStats aggregates per-category counts. NetChange is new minus
// fixed: positive means risk grew since the baseline.
type DeltaStats struct {
	NewCount        int `json:"new_count"`
	FixedCount      int `json:"fixed_count"`
	RegressionCount int `json:"regression_count"`
	IncreasedCount  int `json:"severity_increased_count"`
	DecreasedCount  int `json:"severity_decreased_count"`
	UnchangedCount  int `json:"unchanged_count"`
	NetChange       int `json:"net_change"`
}

// HasRegressions reports whether any previously fixed finding came back.
func (r *DeltaReport) HasRegressions() bool {
	return len(r.Regressions) > 0
}

// Diff classifies current findings against a prior snapshot. Matching
// reuses the deduplicator's similarity rules so the comparison is
// symmetric with how findings were merged in the first place. False
// positives on either side stay out of the report. A baseline entry
// recorded as fixed whose equivalent reappears is a regression, and
// regression takes precedence over any severity change on the same
// pair.
func Diff(current []finding.Finding, base *Snapshot, now time.Time) *DeltaReport {
	report := &DeltaReport{GeneratedAt: now.UTC()}

	cur := withoutFalsePositives(current)
	var prior []finding.Finding
	if base != nil {
		prior = withoutFalsePositives(base.Findings)
	}

	matched := make([]bool, len(cur))
	for _, old := range prior {
		idx := matchUnclaimed(old, cur, matched)
		if idx < 0 {
			if old.Status == finding.StatusFixed {
				// Stayed fixed: nothing changed about it.
				report.Unchanged = append(report.Unchanged, old)
			} else {
				report.Fixed = append(report.Fixed, old)
			}
			continue
		}
		matched[idx] = true
		got := cur[idx]
		switch {
		case old.Status == finding.StatusFixed:
			report.Regressions = append(report.Regressions, got)
		case got.Severity.Score() > old.Severity.Score():
			report.SeverityIncreased = append(report.SeverityIncreased, SeverityChange{Finding: got, Previous: old.Severity})
		case got.Severity.Score() < old.Severity.Score():
			report.SeverityDecreased = append(report.SeverityDecreased, SeverityChange{Finding: got, Previous: old.Severity})
		default:
			report.Unchanged = append(report.Unchanged, got)
		}
	}

	for i, f := range cur {
		if !matched[i] {
			report.New = append(report.New, f)
		}
	}

	report.Stats = DeltaStats{
		NewCount:        len(report.New),
		FixedCount:      len(report.Fixed),
		RegressionCount: len(report.Regressions),
		IncreasedCount:  len(report.SeverityIncreased),
		DecreasedCount:  len(report.SeverityDecreased),
		UnchangedCount:  len(report.Unchanged),
	}
	report.Stats.NetChange = report.Stats.NewCount - report.Stats.FixedCount
	return report
}

// matchIndex returns the index of the first finding in candidates that
// refers to the same issue as f, or -1.
func matchIndex(f finding.Finding, candidates []finding.Finding) int {
	for i := range candidates {
		if dedup.SameIssue(&f, &candidates[i]) {
			return i
		}
	}
	return -1
}

// matchUnclaimed is matchIndex restricted to candidates not yet paired
// with a baseline entry, keeping the classification a partition.
func matchUnclaimed(f finding.Finding, candidates []finding.Finding, claimed []bool) int {
	for i := range candidates {
		if claimed[i] {
			continue
		}
		if dedup.SameIssue(&f, &candidates[i]) {
			return i
		}
	}
	return -1
}

func withoutFalsePositives(in []finding.Finding) []finding.Finding {
	out := make([]finding.Finding, 0, len(in))
	for _, f := range in {
		if !f.IsFalsePositive {
			out = append(out, f)
		}
	}
	return out
}
