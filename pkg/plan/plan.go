// Package plan turns prioritized findings into an ordered remediation
// plan. Pure and idempotent: identical input always yields an identical
// plan.
package plan

import (
	"sort"

	"github.com/vulndelta/vulndelta/pkg/finding"
)

// Plan buckets findings by how soon they must be addressed.
type Plan struct {
	ImmediateAction []finding.Finding `json:"immediate_action"`
	ShortTerm       []finding.Finding `json:"short_term"`
	MediumTerm      []finding.Finding `json:"medium_term"`
	LongTerm        []finding.Finding `json:"long_term"`
}

// Total returns the number of findings across all buckets.
func (p *Plan) Total() int {
	return len(p.ImmediateAction) + len(p.ShortTerm) + len(p.MediumTerm) + len(p.LongTerm)
}

// Build groups findings by priority tier and orders each bucket by
// severity descending, CVSS score descending with missing scores last,
// then first-seen ascending. Fingerprint breaks any remaining tie so
// the plan is stable across runs.
func Build(findings []finding.Finding) *Plan {
	p := &Plan{}
	for _, f := range findings {
		switch f.Priority {
		case finding.PriorityBlocker:
			p.ImmediateAction = append(p.ImmediateAction, f)
		case finding.PriorityUrgent:
			p.ShortTerm = append(p.ShortTerm, f)
		case finding.PriorityHigh:
			p.MediumTerm = append(p.MediumTerm, f)
		default:
			p.LongTerm = append(p.LongTerm, f)
		}
	}
	sortBucket(p.ImmediateAction)
	sortBucket(p.ShortTerm)
	sortBucket(p.MediumTerm)
	sortBucket(p.LongTerm)
	return p
}

func sortBucket(bucket []finding.Finding) {
	sort.SliceStable(bucket, func(i, j int) bool {
		a, b := bucket[i], bucket[j]
		if a.Severity.Score() != b.Severity.Score() {
			return a.Severity.Score() > b.Severity.Score()
		}
		if a.CVSSScore != b.CVSSScore {
			// Zero means no score was reported; those sort last.
			if a.CVSSScore == 0 {
				return false
			}
			if b.CVSSScore == 0 {
				return true
			}
			return a.CVSSScore > b.CVSSScore
		}
		if !a.FirstSeen.Equal(b.FirstSeen) {
			return a.FirstSeen.Before(b.FirstSeen)
		}
		return a.Fingerprint < b.Fingerprint
	})
}
