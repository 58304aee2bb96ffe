package dedup

import (
	"testing"
	"time"

	"github.com/vulndelta/vulndelta/pkg/finding"
)

func stub(title, category string, sev finding.Severity, source string, targets ...string) finding.Finding {
	f := finding.Finding{
		Title:           title,
		NormalizedTitle: finding.NormalizeTitle(title),
		Severity:        sev,
		Confidence:      finding.ConfidenceMedium,
		Category:        category,
		FirstSeen:       time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		LastSeen:        time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	f.AddSource(source)
	for _, t := range targets {
		f.AddTarget(t)
	}
	f.Fingerprint = finding.ComputeFingerprint(title, category, targets)
	return f
}

// Cross-scanner merge: a fuzzy-title SQLi from one scanner and a
// CVE-bearing report of the same endpoint from another collapse into a
// single critical finding with both sources.
func TestDeduplicateCrossScannerMerge(t *testing.T) {
	t.Parallel()

	a := stub("SQL Injection in /search", finding.CategorySQLInjection,
		finding.High, "scanner-a", "https://example.com/search")
	b := stub("SQL Injection in /search (error-based)", finding.CategorySQLInjection,
		finding.Critical, "scanner-b", "https://example.com/search?q=x")
	b.CVEID = "CVE-2023-1234"

	unique, removed := Deduplicate([]finding.Finding{b, a})
	if removed != 1 || len(unique) != 1 {
		t.Fatalf("got %d unique, %d removed; want 1, 1", len(unique), removed)
	}

	f := unique[0]
	if f.Severity != finding.Critical {
		t.Errorf("Severity = %q, want critical", f.Severity)
	}
	if len(f.Sources) != 2 || f.Sources[0] != "scanner-a" || f.Sources[1] != "scanner-b" {
		t.Errorf("Sources = %v, want [scanner-a scanner-b]", f.Sources)
	}
	if f.CVEID != "CVE-2023-1234" {
		t.Errorf("CVEID = %q, want CVE-2023-1234", f.CVEID)
	}
}

func TestDeduplicateCVEMatch(t *testing.T) {
	t.Parallel()

	a := stub("Struts OGNL Injection", finding.CategoryInjectionRCE,
		finding.Critical, "nuclei", "https://example.com/upload")
	a.CVEID = "CVE-2017-5638"
	b := stub("Apache Struts2 Remote Code Execution", finding.CategoryInjectionRCE,
		finding.High, "zap", "https://example.com/other")
	b.CVEID = "CVE-2017-5638"

	// Different titles and endpoints: only the CVE links them.
	unique, removed := Deduplicate([]finding.Finding{a, b})
	if removed != 1 || len(unique) != 1 {
		t.Fatalf("got %d unique, %d removed; want 1, 1", len(unique), removed)
	}
	if len(unique[0].AffectedTargets) != 2 {
		t.Errorf("AffectedTargets = %v, want both endpoints", unique[0].AffectedTargets)
	}
}

func TestDeduplicateDistinctStayDistinct(t *testing.T) {
	t.Parallel()

	in := []finding.Finding{
		stub("SQL Injection in /search", finding.CategorySQLInjection, finding.High, "zap", "/search"),
		stub("Reflected XSS in /profile", finding.CategoryXSS, finding.Medium, "zap", "/profile"),
		stub("Missing X-Frame-Options", finding.CategoryMissingHeader, finding.Low, "zap", "/"),
	}
	unique, removed := Deduplicate(in)
	if removed != 0 || len(unique) != 3 {
		t.Fatalf("got %d unique, %d removed; want 3, 0", len(unique), removed)
	}
}

// Same category and similar title but disjoint endpoints must not merge.
func TestDeduplicateDisjointEndpoints(t *testing.T) {
	t.Parallel()

	in := []finding.Finding{
		stub("SQL Injection in query parameter", finding.CategorySQLInjection, finding.High, "zap", "/search"),
		stub("SQL Injection in query parameter", finding.CategorySQLInjection, finding.High, "zap", "/login"),
	}
	unique, removed := Deduplicate(in)
	if removed != 0 || len(unique) != 2 {
		t.Fatalf("got %d unique, %d removed; want 2, 0", len(unique), removed)
	}
}

func TestDeduplicateConservation(t *testing.T) {
	t.Parallel()

	in := []finding.Finding{
		stub("SQL Injection in /search", finding.CategorySQLInjection, finding.High, "zap", "/search"),
		stub("SQL Injection in /search (verified)", finding.CategorySQLInjection, finding.Critical, "nuclei", "/search"),
		stub("Reflected XSS in /profile", finding.CategoryXSS, finding.Medium, "zap", "/profile"),
		stub("Missing X-Frame-Options", finding.CategoryMissingHeader, finding.Low, "zap", "/"),
		stub("Missing X-Frame-Options", finding.CategoryMissingHeader, finding.Low, "nuclei", "/"),
	}
	unique, removed := Deduplicate(in)
	if removed+len(unique) != len(in) {
		t.Fatalf("conservation violated: removed %d + unique %d != input %d",
			removed, len(unique), len(in))
	}
}

func TestDeduplicateMergeKeepsEarliestFirstSeen(t *testing.T) {
	t.Parallel()

	early := stub("Missing X-Frame-Options", finding.CategoryMissingHeader, finding.Low, "zap", "/")
	early.FirstSeen = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	late := stub("Missing X-Frame-Options", finding.CategoryMissingHeader, finding.Low, "nuclei", "/")
	late.FirstSeen = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	late.LastSeen = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	unique, _ := Deduplicate([]finding.Finding{late, early})
	if len(unique) != 1 {
		t.Fatalf("expected single cluster, got %d", len(unique))
	}
	if !unique[0].FirstSeen.Equal(early.FirstSeen) {
		t.Errorf("FirstSeen = %v, want earliest %v", unique[0].FirstSeen, early.FirstSeen)
	}
	if !unique[0].LastSeen.Equal(late.LastSeen) {
		t.Errorf("LastSeen = %v, want latest %v", unique[0].LastSeen, late.LastSeen)
	}
}

// A cluster stays a false positive only while every member is one.
func TestDeduplicateFalsePositiveUnion(t *testing.T) {
	t.Parallel()

	fp := stub("Missing X-Frame-Options", finding.CategoryMissingHeader, finding.Low, "zap", "/api/v1")
	fp.IsFalsePositive = true
	fp.FalsePositiveReason = "API endpoint"
	real := stub("Missing X-Frame-Options", finding.CategoryMissingHeader, finding.Low, "nuclei", "/api/v1")

	unique, _ := Deduplicate([]finding.Finding{fp, real})
	if len(unique) != 1 {
		t.Fatalf("expected single cluster, got %d", len(unique))
	}
	if unique[0].IsFalsePositive {
		t.Error("cluster flagged false positive although one member is real")
	}
}

// Larger clusters win ties, then the lowest index.
func TestDeduplicateTieBreakClusterSize(t *testing.T) {
	t.Parallel()

	// Two clusters below the merge threshold of each other, with a probe
	// equally similar to both; the first cluster grows to two members
	// before the probe arrives.
	c1a := stub("Checkout Error Message Disclosure", finding.CategoryInfoDisclosure, finding.Low, "zap", "/checkout")
	c1b := stub("Checkout Error Message Disclosure", finding.CategoryInfoDisclosure, finding.Low, "nuclei", "/checkout")
	c2 := stub("Checkout Error Trace Leak", finding.CategoryInfoDisclosure, finding.Low, "zap", "/checkout")
	probe := stub("Checkout Error Message Trace", finding.CategoryInfoDisclosure, finding.Low, "custom", "/checkout")

	unique, removed := Deduplicate([]finding.Finding{c1a, c2, c1b, probe})
	if removed != 2 || len(unique) != 2 {
		t.Fatalf("got %d unique, %d removed; want 2, 2", len(unique), removed)
	}
	// The probe joined the two-member cluster, which keeps index 0.
	if !unique[0].HasSource("custom") {
		t.Errorf("probe merged into %v, want the larger cluster first", unique[0].Sources)
	}
}

// A CVE-routed merge can bring new endpoints into a cluster, putting
// it in range of a finding rejected earlier for lack of overlap. The
// two surviving clusters must still collapse within a single call.
func TestDeduplicateTransitiveTargetWidening(t *testing.T) {
	t.Parallel()

	a := stub("SQL Injection in /a", finding.CategorySQLInjection, finding.High, "zap", "https://example.com/a")
	a.CVEID = "CVE-2020-1111"
	// Similar title, disjoint endpoint: no merge with a on its own.
	b := stub("SQL Injection in /b", finding.CategorySQLInjection, finding.High, "nuclei", "https://example.com/b")
	// Same CVE as a, but reported on b's endpoint.
	c := stub("Known SQLi CVE Report", finding.CategorySQLInjection, finding.Critical, "custom", "https://example.com/b")
	c.CVEID = "CVE-2020-1111"

	unique, removed := Deduplicate([]finding.Finding{a, b, c})
	if removed != 2 || len(unique) != 1 {
		t.Fatalf("got %d unique, %d removed; want 1, 2", len(unique), removed)
	}
	f := unique[0]
	if f.Severity != finding.Critical {
		t.Errorf("Severity = %q, want critical", f.Severity)
	}
	if len(f.AffectedTargets) != 2 {
		t.Errorf("AffectedTargets = %v, want both endpoints", f.AffectedTargets)
	}
	if len(f.Sources) != 3 {
		t.Errorf("Sources = %v, want all three scanners", f.Sources)
	}

	// The output is a fixpoint.
	again, n := Deduplicate(unique)
	if n != 0 || len(again) != 1 {
		t.Errorf("second call: got %d unique, %d removed; want 1, 0", len(again), n)
	}
}

func TestDeduplicateEvidenceNeverDropped(t *testing.T) {
	t.Parallel()

	a := stub("SQL Injection in /search", finding.CategorySQLInjection, finding.High, "zap", "/search")
	a.Evidence = []finding.Evidence{{Source: "zap", Detail: "SQL syntax error"}}
	b := stub("SQL Injection in /search (verified)", finding.CategorySQLInjection, finding.High, "nuclei", "/search")
	b.Evidence = []finding.Evidence{{Source: "nuclei", Detail: "time-based probe delayed 5s"}}

	unique, _ := Deduplicate([]finding.Finding{a, b})
	if len(unique) != 1 {
		t.Fatalf("expected single cluster, got %d", len(unique))
	}
	if len(unique[0].Evidence) != 2 {
		t.Errorf("Evidence = %v, want both snippets", unique[0].Evidence)
	}
}

func TestDeduplicateEmptyInput(t *testing.T) {
	t.Parallel()

	unique, removed := Deduplicate(nil)
	if len(unique) != 0 || removed != 0 {
		t.Errorf("got %d unique, %d removed; want 0, 0", len(unique), removed)
	}
}
