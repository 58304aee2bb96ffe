// Package prioritize assigns action-timeline priorities and remediation
// estimates to deduplicated findings. The ladder is a declarative,
// ordered rule table evaluated top-down per finding; the first matching
// rule wins, so each rule can be tested on its own.
package prioritize

import (
	"strings"

	"github.com/vulndelta/vulndelta/pkg/finding"
)

// Rule maps a predicate over a finding onto a priority tier.
type Rule struct {
	Name     string
	Priority finding.Priority
	Matches  func(f finding.Finding) bool
}

// Categories that make a critical finding deployment-blocking on their own.
var blockerCategories = map[string]bool{
	finding.CategoryInjectionRCE: true,
	finding.CategorySQLInjection: true,
	finding.CategoryAuthBypass:   true,
}

// Title keywords that escalate a critical finding to blocker even when
// the category or CVSS score alone would not.
var blockerKeywords = []string{
	"remote code execution",
	"rce",
	"authentication bypass",
	"account takeover",
	"arbitrary file write",
	"unauthenticated access",
}

const blockerCVSSScore = 9.0

// DefaultRules returns the standard priority ladder. Order matters.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name:     "critical-exploitable",
			Priority: finding.PriorityBlocker,
			Matches: func(f finding.Finding) bool {
				if f.Severity != finding.Critical || f.IsFalsePositive {
					return false
				}
				return blockerCategories[f.Category] ||
					f.CVSSScore >= blockerCVSSScore ||
					titleHasBlockerKeyword(f.Title)
			},
		},
		{
			Name:     "critical-other",
			Priority: finding.PriorityUrgent,
			Matches: func(f finding.Finding) bool {
				return f.Severity == finding.Critical
			},
		},
		{
			Name:     "high-client-side",
			Priority: finding.PriorityUrgent,
			Matches: func(f finding.Finding) bool {
				return f.Severity == finding.High &&
					(f.Category == finding.CategoryXSS || f.Category == finding.CategoryCSRF)
			},
		},
		{
			Name:     "high-other",
			Priority: finding.PriorityHigh,
			Matches: func(f finding.Finding) bool {
				return f.Severity == finding.High
			},
		},
		{
			Name:     "misconfiguration",
			Priority: finding.PriorityHigh,
			Matches: func(f finding.Finding) bool {
				return f.Category == finding.CategoryMisconfig
			},
		},
		{
			Name:     "medium",
			Priority: finding.PriorityMedium,
			Matches: func(f finding.Finding) bool {
				return f.Severity == finding.Medium
			},
		},
		{
			// Low-severity header and cookie hygiene goes straight to
			// the backlog: worth tracking, never worth a sprint slot.
			Name:     "low-hygiene",
			Priority: finding.PriorityBacklog,
			Matches: func(f finding.Finding) bool {
				return f.Severity == finding.Low &&
					(f.Category == finding.CategoryMissingHeader || f.Category == finding.CategoryCookieFlags)
			},
		},
		{
			Name:     "low",
			Priority: finding.PriorityLow,
			Matches: func(f finding.Finding) bool {
				return f.Severity == finding.Low
			},
		},
	}
}

func titleHasBlockerKeyword(title string) bool {
	t := strings.ToLower(title)
	for _, kw := range blockerKeywords {
		if strings.Contains(t, kw) {
			return true
		}
	}
	return false
}

// Config controls rule and effort-table selection. Zero value uses the
// defaults.
type Config struct {
	Rules   []Rule
	Efforts EffortTable
}

// Prioritizer annotates findings with priority, blocker flag, and
// remediation estimates. Pure: no I/O, no shared state.
type Prioritizer struct {
	rules   []Rule
	efforts EffortTable
}

// New builds a Prioritizer from cfg, falling back to DefaultRules and
// DefaultEffortTable where unset.
func New(cfg Config) *Prioritizer {
	rules := cfg.Rules
	if rules == nil {
		rules = DefaultRules()
	}
	efforts := cfg.Efforts
	if efforts == nil {
		efforts = DefaultEffortTable()
	}
	return &Prioritizer{rules: rules, efforts: efforts}
}

// Prioritize annotates every finding in order and returns the annotated
// slice alongside warnings for categories missing from the effort table.
// The input slice is not modified; cardinality is preserved.
func (p *Prioritizer) Prioritize(in []finding.Finding) ([]finding.Finding, []finding.Warning) {
	out := make([]finding.Finding, 0, len(in))
	var warnings []finding.Warning
	for _, f := range in {
		annotated := f.Clone()
		annotated.Priority = p.classify(f)
		annotated.IsBlocker = annotated.Priority == finding.PriorityBlocker

		entry, ok := p.efforts.Lookup(f.Category)
		annotated.RemediationComplexity = entry.Complexity
		annotated.EstimatedEffort = entry.Effort
		if !ok {
			annotated.NeedsReview = true
			warnings = append(warnings, finding.Warning{
				Kind:   finding.WarnUnknownCategory,
				Source: firstSource(f),
				Detail: "no remediation estimate for category " + f.Category,
			})
		}
		out = append(out, annotated)
	}
	return out, warnings
}

func (p *Prioritizer) classify(f finding.Finding) finding.Priority {
	for _, rule := range p.rules {
		if rule.Matches(f) {
			return rule.Priority
		}
	}
	return finding.PriorityBacklog
}

func firstSource(f finding.Finding) string {
	if len(f.Sources) > 0 {
		return f.Sources[0]
	}
	return ""
}
