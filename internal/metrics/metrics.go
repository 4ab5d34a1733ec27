// Package metrics collects Prometheus counters and histograms for catalog
// runs. Each Recorder owns a private registry, so parallel catalogs and
// tests never collide, and a run's snapshot can be exported to a Prometheus
// textfile for the node-exporter textfile collector to pick up.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder holds the catalog engine metrics.
//
// All metrics are prefixed with "seiscat_":
//   - seiscat_files_walked_total - files seen by directory walks
//   - seiscat_records_matched_total - records extracted from matching paths
//   - seiscat_time_derive_failures_total - records kept without a timestamp
//   - seiscat_records_filtered_total{result} - filter outcomes, pass or fail
//   - seiscat_match_duration_seconds - walk+match phase duration
//   - seiscat_filter_duration_seconds - filter phase duration
//
// A nil *Recorder is valid and records nothing, so wiring stays optional.
type Recorder struct {
	registry *prometheus.Registry

	FilesWalkedTotal        prometheus.Counter
	RecordsMatchedTotal     prometheus.Counter
	TimeDeriveFailuresTotal prometheus.Counter
	RecordsFilteredTotal    *prometheus.CounterVec
	MatchDuration           prometheus.Histogram
	FilterDuration          prometheus.Histogram
}

// NewRecorder creates a recorder with its own registry.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	fac := promauto.With(reg)

	return &Recorder{
		registry: reg,

		FilesWalkedTotal: fac.NewCounter(prometheus.CounterOpts{
			Name: "seiscat_files_walked_total",
			Help: "Total number of files seen while walking catalog roots",
		}),

		RecordsMatchedTotal: fac.NewCounter(prometheus.CounterOpts{
			Name: "seiscat_records_matched_total",
			Help: "Total number of records extracted from matching paths",
		}),

		TimeDeriveFailuresTotal: fac.NewCounter(prometheus.CounterOpts{
			Name: "seiscat_time_derive_failures_total",
			Help: "Total number of records kept without a derivable timestamp",
		}),

		RecordsFilteredTotal: fac.NewCounterVec(prometheus.CounterOpts{
			Name: "seiscat_records_filtered_total",
			Help: "Total number of filter decisions",
		},
			[]string{"result"}, // "pass" or "fail"
		),

		MatchDuration: fac.NewHistogram(prometheus.HistogramOpts{
			Name:    "seiscat_match_duration_seconds",
			Help:    "Duration of the walk and match phase in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		}),

		FilterDuration: fac.NewHistogram(prometheus.HistogramOpts{
			Name:    "seiscat_filter_duration_seconds",
			Help:    "Duration of the filter phase in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		}),
	}
}

// RecordWalk records files seen by a directory walk.
func (r *Recorder) RecordWalk(files int) {
	if r == nil {
		return
	}
	r.FilesWalkedTotal.Add(float64(files))
}

// RecordMatch records a finished match phase.
func (r *Recorder) RecordMatch(records int, durationSeconds float64) {
	if r == nil {
		return
	}
	r.RecordsMatchedTotal.Add(float64(records))
	r.MatchDuration.Observe(durationSeconds)
}

// RecordDeriveFailure records a record kept without a timestamp.
func (r *Recorder) RecordDeriveFailure() {
	if r == nil {
		return
	}
	r.TimeDeriveFailuresTotal.Inc()
}

// RecordFilter records a finished filter phase.
func (r *Recorder) RecordFilter(passed, failed int, durationSeconds float64) {
	if r == nil {
		return
	}
	r.RecordsFilteredTotal.WithLabelValues("pass").Add(float64(passed))
	r.RecordsFilteredTotal.WithLabelValues("fail").Add(float64(failed))
	r.FilterDuration.Observe(durationSeconds)
}

// WriteTextfile exports the current snapshot in Prometheus text format,
// atomically replacing path.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil {
		return nil
	}
	return prometheus.WriteToTextfile(path, r.registry)
}
