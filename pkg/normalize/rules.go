package normalize

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vulndelta/vulndelta/pkg/finding"
)

// Rule marks findings as false positives without removing them. All
// non-empty conditions must hold (AND across fields, any-of within a
// list). Rules are explicit configuration passed into the Normalizer,
// never process-wide state.
type Rule struct {
	Name           string   `yaml:"name" json:"name"`
	Reason         string   `yaml:"reason" json:"reason"`
	Categories     []string `yaml:"categories,omitempty" json:"categories,omitempty"`
	TitleContains  []string `yaml:"title_contains,omitempty" json:"title_contains,omitempty"`
	TitleRegex     string   `yaml:"title_regex,omitempty" json:"title_regex,omitempty"`
	TargetContains []string `yaml:"target_contains,omitempty" json:"target_contains,omitempty"`
	Sources        []string `yaml:"sources,omitempty" json:"sources,omitempty"`

	titleRE *regexp.Regexp
}

// Compile validates the rule and prepares its regex. Must be called
// before Matches; LoadRules and ParseRules compile for you.
func (r *Rule) Compile() error {
	if r.Name == "" {
		return fmt.Errorf("rule missing name")
	}
	if r.TitleRegex != "" {
		re, err := regexp.Compile(r.TitleRegex)
		if err != nil {
			return fmt.Errorf("rule %q: bad title_regex: %w", r.Name, err)
		}
		r.titleRE = re
	}
	return nil
}

// Matches reports whether f matches every condition the rule sets.
func (r *Rule) Matches(f *finding.Finding) bool {
	if len(r.Categories) > 0 && !containsString(r.Categories, f.Category) {
		return false
	}
	if len(r.Sources) > 0 {
		matched := false
		for _, src := range r.Sources {
			if f.HasSource(src) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	if len(r.TitleContains) > 0 && !anySubstring(f.Title, r.TitleContains) {
		return false
	}
	if r.titleRE != nil && !r.titleRE.MatchString(f.Title) {
		return false
	}
	if len(r.TargetContains) > 0 {
		matched := false
		for _, t := range f.AffectedTargets {
			if anySubstring(t, r.TargetContains) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

// ruleFile is the YAML document shape for a false-positive rule set.
type ruleFile struct {
	Rules []Rule `yaml:"rules"`
}

// LoadRules reads and compiles a YAML rule file.
func LoadRules(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rule file: %w", err)
	}
	return ParseRules(data)
}

// ParseRules parses and compiles YAML rule data.
func ParseRules(data []byte) ([]Rule, error) {
	var file ruleFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing rules: %w", err)
	}
	for i := range file.Rules {
		if err := file.Rules[i].Compile(); err != nil {
			return nil, err
		}
	}
	return file.Rules, nil
}

// DefaultRules returns the built-in benign-pattern rules. Callers can
// extend or replace them entirely via Config.
func DefaultRules() []Rule {
	rules := []Rule{
		{
			Name:           "api-missing-framing-header",
			Reason:         "API endpoints return no HTML; framing headers do not apply",
			Categories:     []string{finding.CategoryMissingHeader},
			TargetContains: []string{"/api/", "/rest/", "/graphql"},
		},
		{
			Name:          "infrastructure-vendor-cookies",
			Reason:        "cookie set by infrastructure vendor, not the application",
			Categories:    []string{finding.CategoryCookieFlags},
			TitleContains: []string{"cloudflare", "cf_bm", "awsalb", "akamai", "incap"},
		},
		{
			Name:          "health-endpoint-info",
			Reason:        "health endpoints intentionally expose status details",
			Categories:    []string{finding.CategoryInfoDisclosure},
			TargetContains: []string{
				"/health", "/healthz", "/ready", "/live", "/ping",
			},
		},
	}
	for i := range rules {
		// Built-in rules always compile.
		_ = rules[i].Compile()
	}
	return rules
}

func containsString(set []string, s string) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}

func anySubstring(s string, subs []string) bool {
	s = strings.ToLower(s)
	for _, sub := range subs {
		if strings.Contains(s, strings.ToLower(sub)) {
			return true
		}
	}
	return false
}
