// Package finding provides the canonical vulnerability finding types
// shared across all vulndelta pipeline stages.
//
// Every scanner adapter normalizes into the same Finding shape, so the
// deduplicator, prioritizer, baseline differ, and remediation planner
// operate on a single model instead of per-scanner variants.
//
// Usage:
//
//	f := finding.Finding{
//	    Title:    "SQL Injection in /search",
//	    Severity: finding.High,
//	    Category: "sql-injection",
//	}
//	f.NormalizedTitle = finding.NormalizeTitle(f.Title)
//	f.Fingerprint = finding.ComputeFingerprint(f.Title, f.Category, f.AffectedTargets)
package finding
