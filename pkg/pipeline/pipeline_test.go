package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vulndelta/vulndelta/pkg/finding"
)

var testClock = func() time.Time {
	return time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
}

var zapSQLi = []byte(`{
	"alert": "SQL Injection in /search",
	"risk": "High",
	"confidence": "High",
	"uri": "https://example.com/search?q=1",
	"cweid": "89",
	"evidence": "SQL syntax error near 'OR 1=1'"
}`)

var zapHeader = []byte(`{
	"alert": "X-Frame-Options Header Not Set",
	"riskcode": "1",
	"confidence": "2",
	"uri": "https://example.com/"
}`)

var nucleiSQLi = []byte(`{
	"template-id": "sqli-error-based",
	"info": {
		"name": "SQL Injection in /search (error-based)",
		"severity": "critical",
		"classification": {
			"cve-id": ["CVE-2023-1234"],
			"cwe-id": ["CWE-89"],
			"cvss-score": 9.8
		}
	},
	"matched-at": "https://example.com/search?q=x"
}`)

func testInputs() []Input {
	return []Input{
		{SourceID: "zap", Records: [][]byte{zapSQLi, zapHeader}},
		{SourceID: "nuclei", Records: [][]byte{nucleiSQLi}},
	}
}

func TestRunEndToEnd(t *testing.T) {
	t.Parallel()

	p := New(Options{Now: testClock})
	result, err := p.Run(context.Background(), testInputs())
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.NotEmpty(t, result.ScanID)
	assert.Equal(t, testClock(), result.GeneratedAt)

	// The two SQL injection reports merge across scanners.
	require.Len(t, result.Findings, 2)
	assert.Equal(t, 1, result.DuplicatesRemoved)

	var sqli *finding.Finding
	for i := range result.Findings {
		if result.Findings[i].Category == finding.CategorySQLInjection {
			sqli = &result.Findings[i]
		}
	}
	require.NotNil(t, sqli, "merged SQL injection finding missing")
	assert.Equal(t, finding.Critical, sqli.Severity)
	assert.Equal(t, []string{"nuclei", "zap"}, sqli.Sources)
	assert.Equal(t, "CVE-2023-1234", sqli.CVEID)
	assert.Equal(t, finding.PriorityBlocker, sqli.Priority)
	assert.True(t, sqli.IsBlocker)

	require.NotNil(t, result.Plan)
	assert.Equal(t, 2, result.Plan.Total())
	require.Len(t, result.Plan.ImmediateAction, 1)
	assert.Equal(t, 1, result.BlockerCount())
}

func TestRunDeterministicAcrossRuns(t *testing.T) {
	t.Parallel()

	p := New(Options{Now: testClock})
	first, err := p.Run(context.Background(), testInputs())
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		got, err := p.Run(context.Background(), testInputs())
		require.NoError(t, err)
		assert.Equal(t, first.Findings, got.Findings, "run %d", i)
		assert.Equal(t, first.Plan, got.Plan, "run %d", i)
		assert.Equal(t, first.DuplicatesRemoved, got.DuplicatesRemoved, "run %d", i)
	}
}

func TestRunPartialSourceFailure(t *testing.T) {
	t.Parallel()

	inputs := []Input{
		{SourceID: "zap", Records: [][]byte{zapHeader}},
		{SourceID: "broken", Records: [][]byte{[]byte("not json at all")}},
	}
	p := New(Options{Now: testClock})
	result, err := p.Run(context.Background(), inputs)
	require.NoError(t, err)
	require.Len(t, result.Findings, 1)
	assert.Equal(t, 1, finding.CountWarnings(result.Warnings, finding.WarnSourceFailed))
}

func TestRunAllSourcesFailed(t *testing.T) {
	t.Parallel()

	inputs := []Input{
		{SourceID: "a", Records: [][]byte{[]byte("garbage")}},
		{SourceID: "b", Records: nil},
	}
	p := New(Options{Now: testClock})
	result, err := p.Run(context.Background(), inputs)
	assert.Nil(t, result)
	assert.True(t, errors.Is(err, finding.ErrInputFormat))
}

// Invoking a run with nothing to aggregate is an input error, matching
// the exit-code contract for empty or unreadable input.
func TestRunNoInputs(t *testing.T) {
	t.Parallel()

	p := New(Options{Now: testClock})
	result, err := p.Run(context.Background(), nil)
	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, errors.Is(err, finding.ErrInputFormat))
	assert.True(t, errors.Is(err, finding.ErrEmptyBatch))
}

func TestRunCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := New(Options{Now: testClock})
	_, err := p.Run(ctx, testInputs())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunMetrics(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	p := New(Options{Now: testClock, Metrics: NewMetrics(reg)})
	_, err := p.Run(context.Background(), testInputs())
	require.NoError(t, err)

	m := p.metrics
	assert.Equal(t, 2.0, testutil.ToFloat64(m.findingsTotal.WithLabelValues("zap")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.findingsTotal.WithLabelValues("nuclei")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.duplicatesRemoved))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.blockersTotal))
}
