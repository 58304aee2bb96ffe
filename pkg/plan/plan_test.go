package plan

import (
	"reflect"
	"testing"
	"time"

	"github.com/vulndelta/vulndelta/pkg/finding"
)

func prioritized(title string, sev finding.Severity, prio finding.Priority, cvss float64, firstSeen time.Time) finding.Finding {
	return finding.Finding{
		Fingerprint: finding.ComputeFingerprint(title, "test", nil),
		Title:       title,
		Severity:    sev,
		Priority:    prio,
		IsBlocker:   prio == finding.PriorityBlocker,
		CVSSScore:   cvss,
		FirstSeen:   firstSeen,
	}
}

var day = time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

func TestBuildBuckets(t *testing.T) {
	t.Parallel()

	in := []finding.Finding{
		prioritized("sqli", finding.Critical, finding.PriorityBlocker, 9.8, day),
		prioritized("xss", finding.High, finding.PriorityUrgent, 7.2, day),
		prioritized("ssrf", finding.High, finding.PriorityHigh, 0, day),
		prioritized("cipher", finding.Medium, finding.PriorityMedium, 0, day),
		prioritized("banner", finding.Low, finding.PriorityLow, 0, day),
		prioritized("note", finding.Info, finding.PriorityBacklog, 0, day),
	}
	p := Build(in)

	if len(p.ImmediateAction) != 1 || p.ImmediateAction[0].Title != "sqli" {
		t.Errorf("ImmediateAction = %+v", p.ImmediateAction)
	}
	if len(p.ShortTerm) != 1 || p.ShortTerm[0].Title != "xss" {
		t.Errorf("ShortTerm = %+v", p.ShortTerm)
	}
	if len(p.MediumTerm) != 1 || p.MediumTerm[0].Title != "ssrf" {
		t.Errorf("MediumTerm = %+v", p.MediumTerm)
	}
	if len(p.LongTerm) != 3 {
		t.Errorf("LongTerm = %+v, want medium, low, and backlog entries", p.LongTerm)
	}
	if p.Total() != len(in) {
		t.Errorf("Total() = %d, want %d", p.Total(), len(in))
	}
}

func TestBucketOrdering(t *testing.T) {
	t.Parallel()

	older := day.AddDate(0, -1, 0)
	in := []finding.Finding{
		prioritized("no-score", finding.Critical, finding.PriorityBlocker, 0, day),
		prioritized("late-low-cvss", finding.Critical, finding.PriorityBlocker, 9.1, day),
		prioritized("high-cvss", finding.Critical, finding.PriorityBlocker, 9.8, day),
		prioritized("early-low-cvss", finding.Critical, finding.PriorityBlocker, 9.1, older),
	}
	p := Build(in)

	want := []string{"high-cvss", "early-low-cvss", "late-low-cvss", "no-score"}
	var got []string
	for _, f := range p.ImmediateAction {
		got = append(got, f.Title)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
}

func TestMixedSeverityInLongTerm(t *testing.T) {
	t.Parallel()

	in := []finding.Finding{
		prioritized("info-note", finding.Info, finding.PriorityBacklog, 0, day),
		prioritized("medium-issue", finding.Medium, finding.PriorityMedium, 0, day),
		prioritized("low-issue", finding.Low, finding.PriorityLow, 0, day),
	}
	p := Build(in)

	want := []string{"medium-issue", "low-issue", "info-note"}
	for i, title := range want {
		if p.LongTerm[i].Title != title {
			t.Errorf("LongTerm[%d] = %q, want %q", i, p.LongTerm[i].Title, title)
		}
	}
}

func TestBuildIdempotent(t *testing.T) {
	t.Parallel()

	in := []finding.Finding{
		prioritized("a", finding.High, finding.PriorityHigh, 7.0, day),
		prioritized("b", finding.High, finding.PriorityHigh, 7.0, day),
		prioritized("c", finding.Medium, finding.PriorityMedium, 0, day),
	}
	first := Build(in)
	for i := 0; i < 10; i++ {
		if got := Build(in); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d diverged", i)
		}
	}
}

func TestBuildEmpty(t *testing.T) {
	t.Parallel()

	p := Build(nil)
	if p.Total() != 0 {
		t.Errorf("Total() = %d, want 0", p.Total())
	}
}
