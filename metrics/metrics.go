// Package metrics exposes the Prometheus counters/histograms a Tracer run
// updates: how many runs happened, how long trace assembly took, and how
// many steps a run recorded.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RunsTotal counts Tracer.Run invocations, labeled by outcome
	// ("ok", "runtime_error", "parse_error").
	RunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pytracer",
		Name:      "runs_total",
		Help:      "Total Tracer.Run invocations by outcome",
	}, []string{"outcome"})

	// TraceBuildSeconds measures wall-clock time spent in assemble.Assemble.
	TraceBuildSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "pytracer",
		Name:      "trace_build_seconds",
		Help:      "Time spent assembling a trace artifact from recorded steps",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
	})

	// StepsRecorded tracks how many steps a single run produced.
	StepsRecorded = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "pytracer",
		Name:      "steps_recorded",
		Help:      "Number of steps recorded per Tracer.Run",
		Buckets:   []float64{10, 50, 100, 500, 1000, 5000, 10000},
	})
)
