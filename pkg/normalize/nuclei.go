package normalize

import (
	"strings"

	"github.com/vulndelta/vulndelta/pkg/jsonutil"
)

// nucleiAdapter converts nuclei JSONL result records into the neutral
// Record shape.
type nucleiAdapter struct{}

// nucleiResult mirrors the subset of a nuclei JSON result line used
// for normalization. classification cve-id/cwe-id are arrays in recent
// nuclei versions.
type nucleiResult struct {
	TemplateID string `json:"template-id"`
	Info       struct {
		Name           string `json:"name"`
		Severity       string `json:"severity"`
		Description    string `json:"description"`
		Tags           any    `json:"tags"`
		Classification struct {
			CVEID       []string `json:"cve-id"`
			CWEID       []string `json:"cwe-id"`
			CVSSMetrics string   `json:"cvss-metrics"`
			CVSSScore   float64  `json:"cvss-score"`
		} `json:"classification"`
	} `json:"info"`
	Type             string   `json:"type"`
	Host             string   `json:"host"`
	MatchedAt        string   `json:"matched-at"`
	MatcherName      string   `json:"matcher-name"`
	ExtractedResults []string `json:"extracted-results"`
}

func (a *nucleiAdapter) Source() string { return "nuclei" }

func (a *nucleiAdapter) Convert(raw []byte) (Record, error) {
	var res nucleiResult
	if err := jsonutil.Unmarshal(raw, &res); err != nil {
		return Record{}, err
	}

	title := res.Info.Name
	if title == "" {
		title = res.TemplateID
	}

	var targets []string
	if res.MatchedAt != "" {
		targets = append(targets, res.MatchedAt)
	} else if res.Host != "" {
		targets = append(targets, res.Host)
	}

	cls := res.Info.Classification
	var cve string
	if len(cls.CVEID) > 0 {
		cve = strings.ToUpper(cls.CVEID[0])
	}
	var cwe string
	if len(cls.CWEID) > 0 {
		cwe = strings.ToUpper(cls.CWEID[0])
	}

	evidence := res.MatcherName
	if len(res.ExtractedResults) > 0 {
		evidence = strings.Join(res.ExtractedResults, "; ")
	}

	return Record{
		Title:       title,
		Severity:    res.Info.Severity,
		Description: res.Info.Description,
		Targets:     targets,
		Evidence:    evidence,
		CVE:         cve,
		CWE:         cwe,
		CVSSScore:   cls.CVSSScore,
		CVSSVector:  cls.CVSSMetrics,
		// Template matches carry no per-result confidence field; the
		// normalizer defaults template hits to high confidence since a
		// matcher either fired or it did not.
		Confidence: "high",
	}, nil
}
