package normalize

import (
	"strings"

	"github.com/vulndelta/vulndelta/pkg/jsonutil"
)

// zapAdapter converts OWASP ZAP alert records (the alerts array of a
// ZAP JSON export) into the neutral Record shape.
type zapAdapter struct{}

// zapAlert mirrors the subset of a ZAP alert used for normalization.
// ZAP exports risk and confidence both as names ("High") and as
// numeric codes ("3"); cweid arrives as a string.
type zapAlert struct {
	Alert      string `json:"alert"`
	Name       string `json:"name"`
	Risk       string `json:"risk"`
	RiskCode   string `json:"riskcode"`
	Confidence string `json:"confidence"`
	Desc       string `json:"desc"`
	URI        string `json:"uri"`
	URL        string `json:"url"`
	Param      string `json:"param"`
	Evidence   string `json:"evidence"`
	CWEID      string `json:"cweid"`
	WASCID     string `json:"wascid"`
	Solution   string `json:"solution"`
	Instances  []struct {
		URI      string `json:"uri"`
		Method   string `json:"method"`
		Param    string `json:"param"`
		Evidence string `json:"evidence"`
	} `json:"instances"`
}

// zapRiskNames maps ZAP numeric risk codes to severity names.
// ZAP has no critical level; escalation to critical happens via
// CVSS or category rules downstream.
var zapRiskNames = map[string]string{
	"3": "high",
	"2": "medium",
	"1": "low",
	"0": "info",
}

// zapConfidenceNames maps ZAP numeric confidence codes. Code 4 is
// ZAP's "user confirmed".
var zapConfidenceNames = map[string]string{
	"4": "confirmed",
	"3": "high",
	"2": "medium",
	"1": "low",
	"0": "low", // false-positive code, kept low rather than dropped
}

func (a *zapAdapter) Source() string { return "zap" }

func (a *zapAdapter) Convert(raw []byte) (Record, error) {
	var alert zapAlert
	if err := jsonutil.Unmarshal(raw, &alert); err != nil {
		return Record{}, err
	}

	title := alert.Alert
	if title == "" {
		title = alert.Name
	}

	risk := alert.Risk
	if risk == "" {
		risk = alert.RiskCode
	}
	if name, ok := zapRiskNames[risk]; ok {
		risk = name
	}

	confidence := alert.Confidence
	if name, ok := zapConfidenceNames[confidence]; ok {
		confidence = name
	}

	var targets []string
	if alert.URI != "" {
		targets = append(targets, alert.URI)
	} else if alert.URL != "" {
		targets = append(targets, alert.URL)
	}
	evidence := alert.Evidence
	for _, inst := range alert.Instances {
		if inst.URI != "" {
			targets = append(targets, inst.URI)
		}
		if evidence == "" && inst.Evidence != "" {
			evidence = inst.Evidence
		}
	}

	cwe := alert.CWEID
	if cwe != "" && !strings.HasPrefix(strings.ToUpper(cwe), "CWE-") {
		cwe = "CWE-" + cwe
	}

	return Record{
		Title:       title,
		Severity:    risk,
		Confidence:  confidence,
		Targets:     targets,
		Description: alert.Desc,
		Evidence:    evidence,
		CWE:         cwe,
		// ZAP reports no explicit category; the normalizer infers one
		// from the alert title and CWE.
	}, nil
}
