// Package dedup clusters canonical finding stubs from multiple
// scanners into unique findings with merged evidence.
//
// Clustering is deterministic and order-dependent: callers
// present findings in a stable order (CVE-bearing sources first) and
// repeated runs on identical input produce identical output. Clusters
// live in an index-addressed slice with CVE and fingerprint lookup
// maps, keeping the tie-break logic in one place.
package dedup

import (
	"fmt"

	"github.com/vulndelta/vulndelta/pkg/finding"
)

// Deduplicate merges duplicate findings reported by different sources.
// It returns the unique findings and the number of duplicates removed;
// removed + len(unique) == len(input) always holds.
//
// A merge can widen a cluster's target set: a CVE-routed member brings
// its endpoints along, which may put the cluster in range of a finding
// that was rejected for lack of target overlap earlier in the pass.
// The pass therefore repeats until it merges nothing, so the result is
// a fixpoint and deduplicating it again is a no-op. Every pass is
// deterministic, which makes the fixpoint deterministic too.
func Deduplicate(in []finding.Finding) ([]finding.Finding, int) {
	unique, removed := dedupPass(in)
	for removed > 0 {
		next, n := dedupPass(unique)
		if n == 0 {
			break
		}
		unique = next
		removed += n
	}
	return unique, removed
}

func dedupPass(in []finding.Finding) ([]finding.Finding, int) {
	clusters := make([]finding.Finding, 0, len(in))
	sizes := make([]int, 0, len(in))
	byCVE := make(map[string]int)
	byFingerprint := make(map[string]int)
	removed := 0

	for i := range in {
		f := in[i].Clone()

		// Rule 1: exact CVE match.
		if f.CVEID != "" {
			if idx, ok := byCVE[f.CVEID]; ok {
				merge(&clusters[idx], &f)
				sizes[idx]++
				removed++
				continue
			}
		}

		// Identical fingerprints are the same issue by construction.
		if idx, ok := byFingerprint[f.Fingerprint]; ok {
			merge(&clusters[idx], &f)
			sizes[idx]++
			registerCVE(byCVE, clusters, idx)
			removed++
			continue
		}

		// Rule 2: same category, overlapping endpoints, similar title.
		// When several clusters qualify, prefer the one with more
		// members, then the lowest cluster index.
		best := -1
		for idx := range clusters {
			c := &clusters[idx]
			if c.Category != f.Category {
				continue
			}
			if !targetsOverlap(c.AffectedTargets, f.AffectedTargets) {
				continue
			}
			if titleSimilarity(c.NormalizedTitle, f.NormalizedTitle) < JaccardThreshold {
				continue
			}
			if best == -1 || sizes[idx] > sizes[best] {
				best = idx
			}
		}
		if best >= 0 {
			merge(&clusters[best], &f)
			sizes[best]++
			registerCVE(byCVE, clusters, best)
			removed++
			continue
		}

		// Rule 3: start a new cluster.
		clusters = append(clusters, f)
		sizes = append(sizes, 1)
		idx := len(clusters) - 1
		byFingerprint[f.Fingerprint] = idx
		registerCVE(byCVE, clusters, idx)
	}

	return clusters, removed
}

// registerCVE records a cluster's CVE in the lookup index once the
// cluster has one. First registration wins; rule 1 routes all later
// holders of that CVE into the same cluster.
func registerCVE(byCVE map[string]int, clusters []finding.Finding, idx int) {
	if cve := clusters[idx].CVEID; cve != "" {
		if _, ok := byCVE[cve]; !ok {
			byCVE[cve] = idx
		}
	}
}

// merge folds src into the cluster representative dst. The cluster
// keeps its identity (title, fingerprint); severity and confidence
// take the maximum, sets union, evidence is never dropped, and the
// earliest FirstSeen wins.
func merge(dst *finding.Finding, src *finding.Finding) {
	dst.Severity = finding.MaxSeverity(dst.Severity, src.Severity)
	dst.Confidence = finding.MaxConfidence(dst.Confidence, src.Confidence)

	for _, s := range src.Sources {
		dst.AddSource(s)
	}
	for _, t := range src.AffectedTargets {
		dst.AddTarget(t)
	}
	for _, ev := range src.Evidence {
		if !hasEvidence(dst.Evidence, ev) {
			dst.Evidence = append(dst.Evidence, ev)
		}
	}

	// Keep all known identifiers; on conflict the cluster's value wins
	// and the discarded one is preserved as evidence.
	switch {
	case dst.CVEID == "":
		dst.CVEID = src.CVEID
	case src.CVEID != "" && src.CVEID != dst.CVEID:
		dst.Evidence = append(dst.Evidence, finding.Evidence{
			Source: firstSource(src),
			Detail: fmt.Sprintf("conflicting CVE %s reported for the same issue", src.CVEID),
		})
	}
	if dst.CWEID == "" {
		dst.CWEID = src.CWEID
	}
	if src.CVSSScore > dst.CVSSScore {
		dst.CVSSScore = src.CVSSScore
		dst.CVSSVector = src.CVSSVector
	}

	if src.FirstSeen.Before(dst.FirstSeen) {
		dst.FirstSeen = src.FirstSeen
	}
	if src.LastSeen.After(dst.LastSeen) {
		dst.LastSeen = src.LastSeen
	}

	// A cluster is only a false positive if every member is.
	if !src.IsFalsePositive {
		dst.IsFalsePositive = false
		dst.FalsePositiveReason = ""
	}
}

func hasEvidence(evs []finding.Evidence, ev finding.Evidence) bool {
	for _, e := range evs {
		if e == ev {
			return true
		}
	}
	return false
}

func firstSource(f *finding.Finding) string {
	if len(f.Sources) > 0 {
		return f.Sources[0]
	}
	return ""
}
