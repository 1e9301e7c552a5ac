package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the awarding engine's Prometheus metrics.
type Metrics struct {
	Outcomes       *prometheus.CounterVec
	WriteConflicts prometheus.Counter
	Triggers       *prometheus.CounterVec
}

// New creates and registers all awarding metrics.
func New() *Metrics {
	return &Metrics{
		Outcomes: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "kudos_award_outcomes_total",
			Help: "Awarding engine results by operation and outcome",
		}, []string{"operation", "outcome"}),
		WriteConflicts: promauto.NewCounter(prometheus.CounterOpts{
			Name: "kudos_ledger_write_conflicts_total",
			Help: "Ledger appends lost to a concurrent writer",
		}),
		Triggers: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "kudos_award_triggers_total",
			Help: "Trigger events handled by kind",
		}, []string{"kind"}),
	}
}

// RecordOutcome counts one engine result.
func (m *Metrics) RecordOutcome(operation, outcome string) {
	if m == nil {
		return
	}
	m.Outcomes.WithLabelValues(operation, outcome).Inc()
}

// RecordConflict counts a lost ledger write.
func (m *Metrics) RecordConflict() {
	if m == nil {
		return
	}
	m.WriteConflicts.Inc()
}

// RecordTrigger counts a handled trigger event.
func (m *Metrics) RecordTrigger(kind string) {
	if m == nil {
		return
	}
	m.Triggers.WithLabelValues(kind).Inc()
}
