package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds all prometheus collectors for the modeling library.
// It implements elemgraph.Recorder so a model can be constructed with
// its operation counts flowing into this registry.
type Registry struct {
	registry *prometheus.Registry

	GraphOpsTotal *prometheus.CounterVec
}

// NewRegistry creates a registry with all collectors registered
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),
	}
	r.GraphOpsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "busgraph_graph_operations_total",
			Help: "Total number of element graph operations",
		},
		[]string{"operation", "kind"},
	)
	return r
}

// RecordGraphOp implements elemgraph.Recorder
func (r *Registry) RecordGraphOp(op string, kind string) {
	r.GraphOpsTotal.WithLabelValues(op, kind).Inc()
}

// Gatherer exposes the underlying registry for scraping or inspection
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}

// OpCount returns the current count for one (operation, kind) pair.
// Used by the demo binary and tests to report fan-out activity.
func (r *Registry) OpCount(op string, kind string) float64 {
	families, err := r.registry.Gather()
	if err != nil {
		return 0
	}
	for _, family := range families {
		if family.GetName() != "busgraph_graph_operations_total" {
			continue
		}
		for _, metric := range family.GetMetric() {
			matched := 0
			for _, label := range metric.GetLabel() {
				if label.GetName() == "operation" && label.GetValue() == op {
					matched++
				}
				if label.GetName() == "kind" && label.GetValue() == kind {
					matched++
				}
			}
			if matched == 2 {
				return metric.GetCounter().GetValue()
			}
		}
	}
	return 0
}
