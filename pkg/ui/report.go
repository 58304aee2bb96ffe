// Package ui renders findings, delta reports, and remediation plans
// for terminal output.
package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vulndelta/vulndelta/pkg/baseline"
	"github.com/vulndelta/vulndelta/pkg/finding"
	"github.com/vulndelta/vulndelta/pkg/plan"
)

// FormatFinding renders one finding as a single line.
// Output: [severity] [category] title [priority] (sources)
func FormatFinding(f finding.Finding) string {
	var parts []string
	parts = append(parts, badge(SeverityStyle(f.Severity), string(f.Severity)))
	if f.Category != "" {
		parts = append(parts, badge(CategoryStyle, f.Category))
	}
	parts = append(parts, ValueStyle.Render(f.Title))
	if f.Priority != "" {
		parts = append(parts, badge(PriorityStyle(f.Priority), string(f.Priority)))
	}
	if len(f.Sources) > 0 {
		parts = append(parts, MutedStyle.Render("("+strings.Join(f.Sources, ", ")+")"))
	}
	if f.IsFalsePositive {
		parts = append(parts, MutedStyle.Render("[false positive]"))
	}
	return strings.Join(parts, " ")
}

func badge(style lipgloss.Style, s string) string {
	return BracketStyle.Render("[") + style.Render(s) + BracketStyle.Render("]")
}

// PrintFindings writes one line per finding.
func PrintFindings(w io.Writer, findings []finding.Finding) {
	for _, f := range findings {
		fmt.Fprintln(w, FormatFinding(f))
	}
}

// PrintDeltaSummary writes a human-readable summary of a delta report.
func PrintDeltaSummary(w io.Writer, report *baseline.DeltaReport) {
	fmt.Fprintln(w, SectionStyle.Render("Baseline Comparison"))
	fmt.Fprintln(w)

	row := func(label string, count int, style func(...string) string) {
		fmt.Fprintf(w, "  %s %s\n", LabelStyle.Render(label+":"), style(fmt.Sprintf("%d", count)))
	}
	row("New", report.Stats.NewCount, NewStyle.Render)
	row("Fixed", report.Stats.FixedCount, FixedStyle.Render)
	row("Regressions", report.Stats.RegressionCount, NewStyle.Render)
	row("Severity up", report.Stats.IncreasedCount, NewStyle.Render)
	row("Severity down", report.Stats.DecreasedCount, FixedStyle.Render)
	row("Unchanged", report.Stats.UnchangedCount, MutedStyle.Render)

	net := fmt.Sprintf("%+d", report.Stats.NetChange)
	netStyle := FixedStyle
	if report.Stats.NetChange > 0 {
		netStyle = NewStyle
	}
	fmt.Fprintf(w, "  %s %s\n", LabelStyle.Render("Net change:"), netStyle.Render(net))

	if report.HasRegressions() {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "  "+RegressionStyle.Render("REGRESSION")+" previously fixed findings reappeared:")
		for _, f := range report.Regressions {
			fmt.Fprintln(w, "    "+FormatFinding(f))
		}
	}
	if len(report.New) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, SectionStyle.Render("New Findings"))
		for _, f := range report.New {
			fmt.Fprintln(w, "  "+FormatFinding(f))
		}
	}
}

var planBuckets = []struct {
	label  string
	pick   func(*plan.Plan) []finding.Finding
	window string
}{
	{"Immediate Action", func(p *plan.Plan) []finding.Finding { return p.ImmediateAction }, "before deploy"},
	{"Short Term", func(p *plan.Plan) []finding.Finding { return p.ShortTerm }, "this week"},
	{"Medium Term", func(p *plan.Plan) []finding.Finding { return p.MediumTerm }, "this sprint"},
	{"Long Term", func(p *plan.Plan) []finding.Finding { return p.LongTerm }, "backlog"},
}

// PrintPlan writes the remediation plan grouped by bucket.
func PrintPlan(w io.Writer, p *plan.Plan) {
	fmt.Fprintln(w, SectionStyle.Render("Remediation Plan"))
	for _, bucket := range planBuckets {
		items := bucket.pick(p)
		if len(items) == 0 {
			continue
		}
		fmt.Fprintln(w)
		fmt.Fprintf(w, "  %s %s\n",
			ValueStyle.Render(bucket.label),
			MutedStyle.Render("("+bucket.window+", "+fmt.Sprintf("%d", len(items))+" findings)"))
		for _, f := range items {
			line := "    " + FormatFinding(f)
			if f.EstimatedEffort != "" && f.EstimatedEffort != finding.EffortUnspecified {
				line += " " + MutedStyle.Render("~"+string(f.EstimatedEffort))
			}
			fmt.Fprintln(w, line)
		}
	}
	if p.Total() == 0 {
		fmt.Fprintln(w, MutedStyle.Render("  nothing to remediate"))
	}
}

// PrintWarnings writes recovered degradations, grouped by kind.
func PrintWarnings(w io.Writer, warnings []finding.Warning) {
	if len(warnings) == 0 {
		return
	}
	fmt.Fprintln(w, SectionStyle.Render(fmt.Sprintf("Warnings (%d)", len(warnings))))
	for _, warning := range warnings {
		src := ""
		if warning.Source != "" {
			src = " [" + warning.Source + "]"
		}
		fmt.Fprintf(w, "  %s%s %s\n",
			MutedStyle.Render(string(warning.Kind)),
			MutedStyle.Render(src),
			warning.Detail)
	}
}
