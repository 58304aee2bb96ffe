package prioritize

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/vulndelta/vulndelta/pkg/finding"
)

// Estimate is a remediation cost for one vulnerability category.
type Estimate struct {
	Complexity finding.Complexity `yaml:"complexity"`
	Effort     finding.Effort     `yaml:"effort"`
}

// EffortTable maps canonical categories to remediation estimates.
type EffortTable map[string]Estimate

// Lookup returns the estimate for category. A category absent from the
// table yields medium complexity with unspecified effort and ok=false
// so callers can flag the finding for manual review.
func (t EffortTable) Lookup(category string) (Estimate, bool) {
	if est, ok := t[category]; ok {
		return est, true
	}
	return Estimate{
		Complexity: finding.ComplexityMedium,
		Effort:     finding.EffortUnspecified,
	}, false
}

// DefaultEffortTable returns the built-in category cost table. Header
// and config hygiene is cheap; injection and auth flaws assume code
// changes plus regression testing.
func DefaultEffortTable() EffortTable {
	return EffortTable{
		finding.CategoryMissingHeader:   {Complexity: finding.ComplexityLow, Effort: finding.Effort1h},
		finding.CategoryCookieFlags:     {Complexity: finding.ComplexityLow, Effort: finding.Effort1h},
		finding.CategoryMisconfig:       {Complexity: finding.ComplexityLow, Effort: finding.Effort1h},
		finding.CategoryInfoDisclosure:  {Complexity: finding.ComplexityLow, Effort: finding.Effort4h},
		finding.CategoryOpenRedirect:    {Complexity: finding.ComplexityLow, Effort: finding.Effort4h},
		finding.CategoryWeakCrypto:      {Complexity: finding.ComplexityMedium, Effort: finding.Effort4h},
		finding.CategoryXSS:             {Complexity: finding.ComplexityMedium, Effort: finding.Effort4h},
		finding.CategoryCSRF:            {Complexity: finding.ComplexityMedium, Effort: finding.Effort4h},
		finding.CategoryPathTraversal:   {Complexity: finding.ComplexityMedium, Effort: finding.Effort1d},
		finding.CategoryXXE:             {Complexity: finding.ComplexityHigh, Effort: finding.Effort1d},
		finding.CategorySSRF:            {Complexity: finding.ComplexityHigh, Effort: finding.Effort1d},
		finding.CategorySQLInjection:    {Complexity: finding.ComplexityHigh, Effort: finding.Effort1d},
		finding.CategoryAuthBypass:      {Complexity: finding.ComplexityHigh, Effort: finding.Effort3d},
		finding.CategoryInjectionRCE:    {Complexity: finding.ComplexityHigh, Effort: finding.Effort3d},
		finding.CategoryDeserialization: {Complexity: finding.ComplexityHigh, Effort: finding.Effort3d},
		finding.CategoryOutdatedSoft:    {Complexity: finding.ComplexityMedium, Effort: finding.Effort1w},
	}
}

// LoadEffortTable reads a YAML effort table from path.
func LoadEffortTable(path string) (EffortTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open effort table: %w", err)
	}
	defer f.Close()
	return ParseEffortTable(f)
}

// ParseEffortTable decodes a YAML document mapping category slugs to
// estimates and validates every entry.
func ParseEffortTable(r io.Reader) (EffortTable, error) {
	var table EffortTable
	if err := yaml.NewDecoder(r).Decode(&table); err != nil {
		return nil, fmt.Errorf("parse effort table: %w", err)
	}
	for cat, est := range table {
		if err := est.validate(); err != nil {
			return nil, fmt.Errorf("effort table entry %q: %w", cat, err)
		}
	}
	return table, nil
}

func (e Estimate) validate() error {
	switch e.Complexity {
	case finding.ComplexityLow, finding.ComplexityMedium, finding.ComplexityHigh:
	default:
		return fmt.Errorf("unknown complexity %q", e.Complexity)
	}
	switch e.Effort {
	case finding.Effort1h, finding.Effort4h, finding.Effort1d,
		finding.Effort3d, finding.Effort1w, finding.EffortUnspecified:
	default:
		return fmt.Errorf("unknown effort %q", e.Effort)
	}
	return nil
}
