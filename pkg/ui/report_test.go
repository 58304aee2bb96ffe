package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/vulndelta/vulndelta/pkg/baseline"
	"github.com/vulndelta/vulndelta/pkg/finding"
	"github.com/vulndelta/vulndelta/pkg/plan"
)

func sample() finding.Finding {
	f := finding.Finding{
		Title:    "SQL Injection in /search",
		Severity: finding.Critical,
		Category: finding.CategorySQLInjection,
		Priority: finding.PriorityBlocker,
	}
	f.AddSource("zap")
	f.AddSource("nuclei")
	return f
}

func TestFormatFinding(t *testing.T) {
	line := FormatFinding(sample())
	for _, want := range []string{"critical", "sql-injection", "SQL Injection in /search", "blocker", "nuclei, zap"} {
		if !strings.Contains(line, want) {
			t.Errorf("line %q missing %q", line, want)
		}
	}
}

func TestFormatFindingFalsePositive(t *testing.T) {
	f := sample()
	f.IsFalsePositive = true
	if !strings.Contains(FormatFinding(f), "[false positive]") {
		t.Error("false positive marker missing")
	}
}

func TestPrintDeltaSummary(t *testing.T) {
	report := baseline.Diff(
		[]finding.Finding{sample()},
		&baseline.Snapshot{Version: baseline.Version},
		time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
	)
	var buf strings.Builder
	PrintDeltaSummary(&buf, report)
	out := buf.String()
	for _, want := range []string{"Baseline Comparison", "New:", "Net change:", "+1", "New Findings"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintPlan(t *testing.T) {
	f := sample()
	f.EstimatedEffort = finding.Effort1d
	p := plan.Build([]finding.Finding{f})

	var buf strings.Builder
	PrintPlan(&buf, p)
	out := buf.String()
	for _, want := range []string{"Remediation Plan", "Immediate Action", "~1d"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintPlanEmpty(t *testing.T) {
	var buf strings.Builder
	PrintPlan(&buf, plan.Build(nil))
	if !strings.Contains(buf.String(), "nothing to remediate") {
		t.Errorf("empty plan output = %q", buf.String())
	}
}

func TestPrintWarnings(t *testing.T) {
	var buf strings.Builder
	PrintWarnings(&buf, nil)
	if buf.Len() != 0 {
		t.Errorf("output for no warnings: %q", buf.String())
	}

	PrintWarnings(&buf, []finding.Warning{
		{Kind: finding.WarnRecordSkipped, Source: "zap", Detail: "record missing title and category"},
	})
	out := buf.String()
	if !strings.Contains(out, "record_skipped") || !strings.Contains(out, "[zap]") {
		t.Errorf("output = %q", out)
	}
}
