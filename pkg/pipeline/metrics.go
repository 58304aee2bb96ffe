package pipeline

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the pipeline's Prometheus instruments. Register them
// on a custom registry rather than the default one so embedding
// applications stay in control of their metric namespace.
type Metrics struct {
	findingsTotal     *prometheus.CounterVec
	duplicatesRemoved prometheus.Counter
	blockersTotal     prometheus.Counter
	warningsTotal     *prometheus.CounterVec
}

// NewMetrics creates the pipeline instruments and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		findingsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vulndelta_findings_total",
				Help: "Normalized findings produced, by source scanner",
			},
			[]string{"source"},
		),
		duplicatesRemoved: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "vulndelta_duplicates_removed_total",
				Help: "Findings merged away during deduplication",
			},
		),
		blockersTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "vulndelta_blockers_total",
				Help: "Findings classified as deployment blockers",
			},
		),
		warningsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vulndelta_warnings_total",
				Help: "Recovered per-record degradations, by kind",
			},
			[]string{"kind"},
		),
	}
	reg.MustRegister(m.findingsTotal, m.duplicatesRemoved, m.blockersTotal, m.warningsTotal)
	return m
}
