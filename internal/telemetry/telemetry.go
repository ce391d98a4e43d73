// Package telemetry exports Prometheus metrics about recorded steps.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/AlonMell/rbtrace/internal/rbtree"
)

const namespace = "rbtrace"

// Metrics is a passive step observer. Pass Observe to rbtree.WithStepObserver.
type Metrics struct {
	// steps counts recorded steps.
	// Labels: category, algorithm
	steps *prometheus.CounterVec

	// cases counts fixup cases taken.
	// Labels: algorithm, case
	cases *prometheus.CounterVec

	// operations counts structural inserts and deletes.
	// Labels: op
	operations *prometheus.CounterVec

	// violations counts audits that found the tree invalid.
	violations prometheus.Counter

	nodes  prometheus.Gauge
	height prometheus.Gauge
}

// New registers the step metrics with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		steps: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "trace",
			Name:      "steps_total",
			Help:      "Total recorded steps",
		}, []string{"category", "algorithm"}),
		cases: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "fixup",
			Name:      "cases_total",
			Help:      "Total fixup cases taken",
		}, []string{"algorithm", "case"}),
		operations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tree",
			Name:      "operations_total",
			Help:      "Total structural inserts and deletes",
		}, []string{"op"}),
		violations: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tree",
			Name:      "invalid_total",
			Help:      "Total operations after which the tree failed validation",
		}),
		nodes: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "tree",
			Name:      "nodes",
			Help:      "Nodes in the most recently observed snapshot",
		}),
		height: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "tree",
			Name:      "height",
			Help:      "Height of the most recently observed snapshot",
		}),
	}
}

// Observe records s. It only reads the step.
func (m *Metrics) Observe(s rbtree.Step) {
	m.steps.WithLabelValues(string(s.Category), string(s.Algorithm)).Inc()
	if s.Meta.Case != "" {
		m.cases.WithLabelValues(string(s.Algorithm), s.Meta.Case).Inc()
	}
	switch s.Category {
	case rbtree.StepInsert, rbtree.StepDelete:
		m.operations.WithLabelValues(string(s.Meta.Op)).Inc()
	}
	if s.Meta.Error {
		m.violations.Inc()
	}
	m.nodes.Set(float64(s.Tree.Len()))
	m.height.Set(float64(s.Tree.Height()))
}
