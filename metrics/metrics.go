// Package metrics records pipeline progress as Prometheus metrics.
//
// Metrics:
//   - brewery_pipeline_stage_runs_total{stage, result} (Counter): completed stage runs by outcome
//   - brewery_pipeline_stage_duration_seconds{stage} (Histogram): stage run duration
//   - brewery_pipeline_artifacts_written_total{stage} (Counter): files written
//   - brewery_pipeline_artifact_bytes_written_total{stage} (Counter): bytes written
//   - brewery_pipeline_rows_total{result} (Counter): raw records kept or dropped by the transform
//   - brewery_pipeline_last_success_timestamp_seconds{stage} (Gauge)
package metrics

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/turbot/brewery-pipeline/error_helpers"
	"github.com/turbot/brewery-pipeline/events"
)

const namespace = "brewery_pipeline"

// Observer updates Prometheus collectors from stage events
type Observer struct {
	stageRuns     *prometheus.CounterVec
	stageDuration *prometheus.HistogramVec
	artifacts     *prometheus.CounterVec
	artifactBytes *prometheus.CounterVec
	rows          *prometheus.CounterVec
	lastSuccess   *prometheus.GaugeVec
}

// NewObserver creates the collectors and registers them with reg
func NewObserver(reg prometheus.Registerer) (*Observer, error) {
	o := &Observer{
		stageRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stage_runs_total",
			Help:      "Completed stage runs by outcome.",
		}, []string{"stage", "result"}),
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Stage run duration.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 4, 8),
		}, []string{"stage"}),
		artifacts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "artifacts_written_total",
			Help:      "Artifacts written by stage.",
		}, []string{"stage"}),
		artifactBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "artifact_bytes_written_total",
			Help:      "Bytes written by stage.",
		}, []string{"stage"}),
		rows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_total",
			Help:      "Raw records kept or dropped by the transform stage.",
		}, []string{"result"}),
		lastSuccess: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful run of each stage.",
		}, []string{"stage"}),
	}

	for _, c := range []prometheus.Collector{o.stageRuns, o.stageDuration, o.artifacts, o.artifactBytes, o.rows, o.lastSuccess} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return o, nil
}

func (o *Observer) Notify(_ context.Context, e events.Event) error {
	switch ev := e.(type) {
	case *events.Completed:
		o.stageRuns.WithLabelValues(ev.Stage, resultLabel(ev.Err)).Inc()
		o.stageDuration.WithLabelValues(ev.Stage).Observe(ev.Duration.Seconds())
		if ev.Err == nil {
			o.lastSuccess.WithLabelValues(ev.Stage).SetToCurrentTime()
		}
	case *events.ArtifactWritten:
		o.artifacts.WithLabelValues(ev.Stage).Inc()
		o.artifactBytes.WithLabelValues(ev.Stage).Add(float64(ev.Info.Bytes))
	case *events.RowsFiltered:
		o.rows.WithLabelValues("kept").Add(float64(ev.Kept))
		o.rows.WithLabelValues("dropped").Add(float64(ev.Dropped))
	}
	return nil
}

func resultLabel(err error) string {
	if err == nil {
		return "success"
	}
	var pe *error_helpers.PipelineError
	if errors.As(err, &pe) {
		return string(pe.Kind)
	}
	return "error"
}
