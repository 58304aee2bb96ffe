// Package pipeline orchestrates the full aggregation pass: per-source
// normalization, cross-source deduplication, prioritization, and plan
// building. Sources normalize concurrently; deduplication runs as a
// single ordered pass over the combined stubs because cluster
// assignment is order-sensitive.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vulndelta/vulndelta/pkg/dedup"
	"github.com/vulndelta/vulndelta/pkg/finding"
	"github.com/vulndelta/vulndelta/pkg/normalize"
	"github.com/vulndelta/vulndelta/pkg/plan"
	"github.com/vulndelta/vulndelta/pkg/prioritize"
)

// Input is one scanner's raw output batch.
type Input struct {
	SourceID string
	Records  [][]byte
}

// Options configures a Pipeline. The zero value uses default rules,
// the default effort table, slog.Default(), and no metrics.
type Options struct {
	// FPRules overrides the built-in false-positive rule set.
	FPRules []normalize.Rule

	// Efforts overrides the built-in remediation effort table.
	Efforts prioritize.EffortTable

	// PriorityRules overrides the built-in priority ladder.
	PriorityRules []prioritize.Rule

	// Logger for structured logging (default: slog.Default()).
	Logger *slog.Logger

	// Metrics receives per-run counters when non-nil.
	Metrics *Metrics

	// Now supplies timestamps; defaults to time.Now. Injected so runs
	// are reproducible in tests.
	Now func() time.Time
}

// Result is the outcome of one aggregation run.
type Result struct {
	ScanID            string            `json:"scan_id"`
	GeneratedAt       time.Time         `json:"generated_at"`
	Findings          []finding.Finding `json:"findings"`
	Plan              *plan.Plan        `json:"plan"`
	Warnings          []finding.Warning `json:"warnings"`
	DuplicatesRemoved int               `json:"duplicates_removed"`
}

// BlockerCount returns how many findings block deployment.
func (r *Result) BlockerCount() int {
	n := 0
	for _, f := range r.Findings {
		if f.IsBlocker {
			n++
		}
	}
	return n
}

// Pipeline runs aggregation passes. Safe for concurrent use; each Run
// is independent.
type Pipeline struct {
	normalizer  *normalize.Normalizer
	prioritizer *prioritize.Prioritizer
	logger      *slog.Logger
	metrics     *Metrics
	now         func() time.Time
}

// New builds a Pipeline from opts.
func New(opts Options) *Pipeline {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Pipeline{
		normalizer:  normalize.New(normalize.Config{Rules: opts.FPRules, Now: now}),
		prioritizer: prioritize.New(prioritize.Config{Rules: opts.PriorityRules, Efforts: opts.Efforts}),
		logger:      logger,
		metrics:     opts.Metrics,
		now:         now,
	}
}

// Run executes one aggregation pass over the given source batches.
// Sources normalize concurrently; a source whose whole batch is
// unparseable degrades to a warning unless every source fails, in
// which case ErrInputFormat is returned with no partial result. A run
// with no inputs at all is an input error, not an empty success.
func (p *Pipeline) Run(ctx context.Context, inputs []Input) (*Result, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("%w: %w: no source batches supplied", finding.ErrInputFormat, finding.ErrEmptyBatch)
	}

	scanID := uuid.New().String()
	start := p.now()
	logger := p.logger.With(slog.String("scan_id", scanID))

	type sourceResult struct {
		findings []finding.Finding
		warnings []finding.Warning
		err      error
	}
	results := make([]sourceResult, len(inputs))

	var wg sync.WaitGroup
	for i, in := range inputs {
		wg.Add(1)
		go func(i int, in Input) {
			defer wg.Done()
			f, w, err := p.normalizer.Normalize(in.SourceID, in.Records)
			results[i] = sourceResult{findings: f, warnings: w, err: err}
		}(i, in)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var stubs []finding.Finding
	var warnings []finding.Warning
	failed := 0
	for i, res := range results {
		if res.err != nil {
			failed++
			logger.Warn("source batch failed",
				slog.String("source", inputs[i].SourceID),
				slog.String("error", res.err.Error()))
			warnings = append(warnings, finding.Warning{
				Kind:   finding.WarnSourceFailed,
				Source: inputs[i].SourceID,
				Detail: res.err.Error(),
			})
			continue
		}
		stubs = append(stubs, res.findings...)
		warnings = append(warnings, res.warnings...)
		if p.metrics != nil {
			p.metrics.findingsTotal.WithLabelValues(inputs[i].SourceID).Add(float64(len(res.findings)))
		}
	}
	if failed == len(inputs) {
		return nil, fmt.Errorf("%w: all %d sources failed", finding.ErrInputFormat, failed)
	}

	// Deduplication is order-sensitive: CVE-bearing stubs go first so
	// exact-identifier clusters form before fuzzy title matching runs.
	unique, removed := dedup.Deduplicate(orderForClustering(stubs))
	prioritized, prioWarnings := p.prioritizer.Prioritize(unique)
	warnings = append(warnings, prioWarnings...)

	result := &Result{
		ScanID:            scanID,
		GeneratedAt:       start.UTC(),
		Findings:          prioritized,
		Plan:              plan.Build(prioritized),
		Warnings:          warnings,
		DuplicatesRemoved: removed,
	}

	if p.metrics != nil {
		p.metrics.duplicatesRemoved.Add(float64(removed))
		p.metrics.blockersTotal.Add(float64(result.BlockerCount()))
		for _, w := range warnings {
			p.metrics.warningsTotal.WithLabelValues(string(w.Kind)).Inc()
		}
	}
	logger.Info("aggregation complete",
		slog.Int("sources", len(inputs)),
		slog.Int("stubs", len(stubs)),
		slog.Int("unique", len(unique)),
		slog.Int("duplicates_removed", removed),
		slog.Int("blockers", result.BlockerCount()),
		slog.Int("warnings", len(warnings)))
	return result, nil
}

// orderForClustering stable-partitions stubs so records carrying a CVE
// come first. Relative order within each half is preserved, keeping
// repeated runs on identical input byte-identical.
func orderForClustering(stubs []finding.Finding) []finding.Finding {
	out := make([]finding.Finding, 0, len(stubs))
	for _, f := range stubs {
		if f.CVEID != "" {
			out = append(out, f)
		}
	}
	for _, f := range stubs {
		if f.CVEID == "" {
			out = append(out, f)
		}
	}
	return out
}
