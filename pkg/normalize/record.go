package normalize

import (
	"github.com/vulndelta/vulndelta/pkg/jsonutil"
)

// Record is the scanner-neutral intermediate shape an adapter produces
// from one raw scanner record. Severity and confidence stay in the
// source's native vocabulary; the normalizer maps them onto the
// canonical scales.
type Record struct {
	Title       string
	Severity    string
	Confidence  string
	Category    string
	Targets     []string
	Description string
	Evidence    string
	CWE         string
	CVE         string
	CVSSScore   float64
	CVSSVector  string

	// Inferred is set when the adapter had to derive fields (e.g. the
	// category from the title). It lowers the finding's confidence.
	Inferred bool
}

// Adapter converts one source's raw records into the neutral Record
// shape. Adapters are registered on the Normalizer by source ID.
type Adapter interface {
	// Source returns the scanner identifier this adapter handles.
	Source() string

	// Convert parses a single raw record. A parse failure is a
	// per-record error; it never aborts the batch.
	Convert(raw []byte) (Record, error)
}

// genericAdapter handles sources without a dedicated adapter. It
// accepts the loose cross-scanner JSON shape used by aggregated report
// documents. Findings from unknown sources carry Inferred so their
// confidence drops one step.
type genericAdapter struct {
	source string
}

type genericRecord struct {
	Title       string   `json:"title"`
	Name        string   `json:"name"`
	Severity    string   `json:"severity"`
	Risk        string   `json:"risk"`
	Confidence  string   `json:"confidence"`
	Category    string   `json:"category"`
	Type        string   `json:"vulnerability_type"`
	Description string   `json:"description"`
	Evidence    string   `json:"evidence"`
	URL         string   `json:"url"`
	URLs        []string `json:"affected_urls"`
	CWEID       string   `json:"cwe_id"`
	CVEID       string   `json:"cve_id"`
	CVSSScore   float64  `json:"cvss_score"`
	CVSSVector  string   `json:"cvss_vector"`
}

func (a *genericAdapter) Source() string { return a.source }

func (a *genericAdapter) Convert(raw []byte) (Record, error) {
	var r genericRecord
	if err := jsonutil.Unmarshal(raw, &r); err != nil {
		return Record{}, err
	}

	title := r.Title
	if title == "" {
		title = r.Name
	}
	severity := r.Severity
	if severity == "" {
		severity = r.Risk
	}
	category := r.Category
	if category == "" {
		category = r.Type
	}
	targets := r.URLs
	if r.URL != "" {
		targets = append(targets, r.URL)
	}

	return Record{
		Title:       title,
		Severity:    severity,
		Confidence:  r.Confidence,
		Category:    category,
		Targets:     targets,
		Description: r.Description,
		Evidence:    r.Evidence,
		CWE:         r.CWEID,
		CVE:         r.CVEID,
		CVSSScore:   r.CVSSScore,
		CVSSVector:  r.CVSSVector,
		Inferred:    true,
	}, nil
}
