// Package normalize converts raw per-scanner records into canonical
// finding stubs. Each source gets an adapter for its native record
// shape and severity vocabulary; everything downstream of this package
// sees only the canonical model.
package normalize

import (
	"fmt"
	"strings"
	"time"

	"github.com/vulndelta/vulndelta/pkg/finding"
)

// Config configures a Normalizer. The zero value is usable: built-in
// false-positive rules and the real clock.
type Config struct {
	// Rules is the false-positive rule set. Nil means DefaultRules();
	// an empty non-nil slice disables false-positive marking.
	Rules []Rule

	// Now supplies timestamps for FirstSeen/LastSeen. Nil means
	// time.Now. Tests inject a fixed clock for determinism.
	Now func() time.Time
}

// Normalizer converts raw scanner records into canonical findings.
type Normalizer struct {
	adapters map[string]Adapter
	rules    []Rule
	now      func() time.Time
}

// New creates a Normalizer with adapters for the known sources ("zap",
// "nuclei") plus a generic fallback for everything else.
func New(cfg Config) *Normalizer {
	rules := cfg.Rules
	if rules == nil {
		rules = DefaultRules()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	n := &Normalizer{
		adapters: make(map[string]Adapter),
		rules:    rules,
		now:      now,
	}
	n.Register(&zapAdapter{})
	n.Register(&nucleiAdapter{})
	return n
}

// Register adds or replaces the adapter for its source ID.
func (n *Normalizer) Register(a Adapter) {
	n.adapters[a.Source()] = a
}

// Normalize converts one source's raw records into canonical finding
// stubs. Individual malformed records are skipped with a counted
// warning; only an empty or totally unparseable batch returns
// finding.ErrInputFormat.
func (n *Normalizer) Normalize(sourceID string, records [][]byte) ([]finding.Finding, []finding.Warning, error) {
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("%w: %w: source %q delivered no records", finding.ErrInputFormat, finding.ErrEmptyBatch, sourceID)
	}

	adapter, ok := n.adapters[sourceID]
	if !ok {
		adapter = &genericAdapter{source: sourceID}
	}

	findings := make([]finding.Finding, 0, len(records))
	var warnings []finding.Warning
	parseFailures := 0

	for i, raw := range records {
		rec, err := adapter.Convert(raw)
		if err != nil {
			parseFailures++
			warnings = append(warnings, finding.Warning{
				Kind:   finding.WarnRecordSkipped,
				Source: sourceID,
				Detail: fmt.Sprintf("record %d: unparseable: %v", i, err),
			})
			continue
		}

		f, ok := n.normalizeRecord(sourceID, rec, &warnings)
		if !ok {
			continue
		}
		findings = append(findings, f)
	}

	if parseFailures == len(records) {
		return nil, nil, fmt.Errorf("%w: source %q: all %d records unparseable",
			finding.ErrInputFormat, sourceID, len(records))
	}

	return findings, warnings, nil
}

// normalizeRecord builds one canonical finding from a neutral record.
// Returns ok=false when the record cannot be normalized at all.
func (n *Normalizer) normalizeRecord(sourceID string, rec Record, warnings *[]finding.Warning) (finding.Finding, bool) {
	title := strings.TrimSpace(rec.Title)
	if title == "" && strings.TrimSpace(rec.Category) == "" {
		*warnings = append(*warnings, finding.Warning{
			Kind:   finding.WarnRecordSkipped,
			Source: sourceID,
			Detail: "record has neither title nor category",
		})
		return finding.Finding{}, false
	}

	now := n.now().UTC()
	f := finding.Finding{
		Title:      title,
		CVSSScore:  rec.CVSSScore,
		CVSSVector: rec.CVSSVector,
		FirstSeen:  now,
		LastSeen:   now,
	}
	f.AddSource(sourceID)
	for _, t := range rec.Targets {
		f.AddTarget(strings.TrimSpace(t))
	}

	// Confidence starts from the scanner's own vocabulary; absent
	// confidence defaults to medium.
	inferred := rec.Inferred
	if rec.Confidence == "" {
		f.Confidence = finding.ConfidenceMedium
	} else {
		conf, ok := finding.ParseConfidence(rec.Confidence)
		f.Confidence = conf
		if !ok {
			inferred = true
		}
	}

	// Severity: unknown or missing maps to info with low confidence,
	// never a batch failure.
	sev, ok := finding.ParseSeverity(rec.Severity)
	f.Severity = sev
	if !ok {
		f.Confidence = finding.ConfidenceLow
		if rec.Severity != "" {
			*warnings = append(*warnings, finding.Warning{
				Kind:   finding.WarnUnknownSeverity,
				Source: sourceID,
				Detail: fmt.Sprintf("%q: unrecognized severity %q", title, rec.Severity),
			})
		}
	}

	// CWE: validate the reported identifier, then fall back to pattern
	// extraction from the record text.
	if rec.CWE != "" {
		if cwe, valid := validCWE(rec.CWE); valid {
			f.CWEID = cwe
		} else {
			*warnings = append(*warnings, finding.Warning{
				Kind:   finding.WarnMalformedCWE,
				Source: sourceID,
				Detail: fmt.Sprintf("%q: discarded malformed CWE %q", title, rec.CWE),
			})
		}
	}
	if f.CWEID == "" {
		f.CWEID = extractCWE(title + " " + rec.Description)
	}

	// CVE: same treatment.
	if rec.CVE != "" {
		if cve, valid := validCVE(rec.CVE); valid {
			f.CVEID = cve
		} else {
			*warnings = append(*warnings, finding.Warning{
				Kind:   finding.WarnMalformedCVE,
				Source: sourceID,
				Detail: fmt.Sprintf("%q: discarded malformed CVE %q", title, rec.CVE),
			})
		}
	}
	if f.CVEID == "" {
		f.CVEID = extractCVE(title + " " + rec.Description)
	}

	category, categoryInferred := canonicalCategory(&rec, f.CWEID)
	f.Category = category
	if categoryInferred {
		inferred = true
	}
	if f.Title == "" {
		f.Title = f.Category
		inferred = true
	}

	if inferred {
		f.Confidence = f.Confidence.Lower()
	}

	f.NormalizedTitle = finding.NormalizeTitle(f.Title)
	f.Fingerprint = finding.ComputeFingerprint(f.Title, f.Category, f.AffectedTargets)

	if rec.Evidence != "" {
		f.Evidence = append(f.Evidence, finding.Evidence{
			Source: sourceID,
			Detail: rec.Evidence,
		})
	}

	for i := range n.rules {
		if n.rules[i].Matches(&f) {
			f.IsFalsePositive = true
			f.FalsePositiveReason = n.rules[i].Reason
			break
		}
	}

	return f, true
}
