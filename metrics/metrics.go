// SPDX-License-Identifier: MIT

// Package metrics exposes the run's observability counters: how many
// identifiers each stage excluded or dropped (routine data conditions that
// are never errors), how many tables were produced and how long each stage
// took. A batch run writes them once as a node-exporter textfile.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "taxatab"

// Recorder holds the run metrics on a private registry.
type Recorder struct {
	registry *prometheus.Registry

	Excluded      *prometheus.CounterVec
	Tables        *prometheus.CounterVec
	Skipped       *prometheus.CounterVec
	StageDuration *prometheus.HistogramVec
	InputShape    *prometheus.GaugeVec
}

// NewRecorder registers every metric on a fresh registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),

		Excluded: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "stage",
				Name:      "excluded_total",
				Help:      "Identifiers excluded or dropped by a stage, by reason",
			},
			[]string{"stage", "reason"},
		),

		Tables: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "output",
				Name:      "tables_total",
				Help:      "Tables produced, by kind",
			},
			[]string{"kind"},
		),

		Skipped: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "sweep",
				Name:      "skipped_total",
				Help:      "Sweep combinations skipped because a stage produced a degenerate table",
			},
			[]string{"stage"},
		),

		StageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "stage",
				Name:      "duration_seconds",
				Help:      "Stage duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"stage"},
		),

		InputShape: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "input",
				Name:      "shape",
				Help:      "Input table dimensions",
			},
			[]string{"axis"},
		),
	}
	r.registry.MustRegister(r.Excluded, r.Tables, r.Skipped, r.StageDuration, r.InputShape)

	return r
}

// Registry returns the underlying registry (for tests and custom exporters).
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// ObserveExcluded adds n excluded identifiers for stage/reason. n <= 0 is ignored.
func (r *Recorder) ObserveExcluded(stage, reason string, n int) {
	if n <= 0 {
		return
	}
	r.Excluded.WithLabelValues(stage, reason).Add(float64(n))
}

// ObserveTable counts one produced table of the given kind.
func (r *Recorder) ObserveTable(kind string) {
	r.Tables.WithLabelValues(kind).Inc()
}

// ObserveSkip counts a skipped sweep combination.
func (r *Recorder) ObserveSkip(stage string) {
	r.Skipped.WithLabelValues(stage).Inc()
}

// ObserveShape records the input table dimensions.
func (r *Recorder) ObserveShape(samples, features int) {
	r.InputShape.WithLabelValues("samples").Set(float64(samples))
	r.InputShape.WithLabelValues("features").Set(float64(features))
}

// ObserveDuration records how long a stage took.
func (r *Recorder) ObserveDuration(stage string, d time.Duration) {
	r.StageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// Time returns a func that records the elapsed time for stage when called:
//
//	defer rec.Time("rarefy")()
func (r *Recorder) Time(stage string) func() {
	start := time.Now()

	return func() { r.ObserveDuration(stage, time.Since(start)) }
}

// WriteTextfile writes all metrics in the text exposition format to path.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("metrics.WriteTextfile: %w", err)
	}

	return nil
}
