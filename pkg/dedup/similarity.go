package dedup

import (
	"strings"

	"github.com/spaolacci/murmur3"

	"github.com/vulndelta/vulndelta/pkg/finding"
)

// JaccardThreshold is the minimum normalized-title token-set
// similarity for two findings to be considered the same issue.
const JaccardThreshold = 0.6

// tokenSet splits an already-normalized title into its token set.
func tokenSet(normalizedTitle string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range strings.Fields(normalizedTitle) {
		set[tok] = struct{}{}
	}
	return set
}

// jaccard computes |a ∩ b| / |a ∪ b| over two token sets.
// Two empty sets have similarity 0, not 1: findings with no usable
// title must never merge on title evidence alone.
func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	intersection := 0
	for tok := range a {
		if _, ok := b[tok]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	return float64(intersection) / float64(union)
}

// simhash computes a 64-bit locality-sensitive hash over a title's
// token set. Used only as a cheap pre-filter: hash equality is
// confirmed against the actual token sets before short-circuiting,
// since distinct sets can collide.
func simhash(normalizedTitle string) uint64 {
	var v [64]int
	for tok := range tokenSet(normalizedTitle) {
		h := murmur3.Sum64([]byte(tok))
		for i := 0; i < 64; i++ {
			if (h>>i)&1 == 1 {
				v[i]++
			} else {
				v[i]--
			}
		}
	}
	var fp uint64
	for i := 0; i < 64; i++ {
		if v[i] > 0 {
			fp |= 1 << i
		}
	}
	return fp
}

// titleSimilarity returns the Jaccard similarity of two normalized
// titles. Simhash equality gates a fast path for reordered-token
// titles; a confirming set comparison keeps hash collisions from
// merging unrelated findings.
func titleSimilarity(a, b string) float64 {
	if a == b {
		return 1
	}
	sa, sb := tokenSet(a), tokenSet(b)
	if len(sa) > 0 && simhash(a) == simhash(b) && equalSets(sa, sb) {
		return 1
	}
	return jaccard(sa, sb)
}

func equalSets(a, b map[string]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for tok := range a {
		if _, ok := b[tok]; !ok {
			return false
		}
	}
	return true
}

// targetsOverlap reports whether two findings share at least one
// endpoint path (query strings excluded). Findings with no targets on
// either side count as overlapping so host-wide issues can merge.
func targetsOverlap(a, b []string) bool {
	if len(a) == 0 || len(b) == 0 {
		return true
	}
	paths := make(map[string]struct{}, len(a))
	for _, t := range a {
		paths[finding.EndpointPath(t)] = struct{}{}
	}
	for _, t := range b {
		if _, ok := paths[finding.EndpointPath(t)]; ok {
			return true
		}
	}
	return false
}

// SameIssue reports whether a and b identify the same underlying
// vulnerability. The baseline differ reuses this so current-to-baseline
// matching stays symmetric with how findings were merged.
func SameIssue(a, b *finding.Finding) bool {
	if a.Fingerprint != "" && a.Fingerprint == b.Fingerprint {
		return true
	}
	if a.CVEID != "" && a.CVEID == b.CVEID {
		return true
	}
	return a.Category == b.Category &&
		targetsOverlap(a.AffectedTargets, b.AffectedTargets) &&
		titleSimilarity(a.NormalizedTitle, b.NormalizedTitle) >= JaccardThreshold
}
