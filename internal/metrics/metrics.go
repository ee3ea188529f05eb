package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

const (
	namespace = "ffdata"
	jobName   = "ffdata_pipeline"

	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Recorder collects pipeline batch metrics on its own registry so runs do
// not leak into the process default registry.
type Recorder struct {
	registry *prometheus.Registry

	runs              *prometheus.CounterVec
	sourcePlayers     *prometheus.GaugeVec
	sourceFailures    *prometheus.CounterVec
	aggregatedPlayers prometheus.Gauge
	warnings          prometheus.Gauge
	duration          prometheus.Histogram
}

func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pipeline_runs_total",
			Help:      "Pipeline runs by outcome.",
		}, []string{"outcome"}),
		sourcePlayers: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "source_players",
			Help:      "Projections kept per source in the last run.",
		}, []string{"source"}),
		sourceFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "source_failures_total",
			Help:      "Sources dropped from a run by reason.",
		}, []string{"source", "reason"}),
		aggregatedPlayers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "aggregated_players",
			Help:      "Players in the last exported consensus list.",
		}),
		warnings: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "validation_warnings",
			Help:      "Validation warnings raised in the last run.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pipeline_duration_seconds",
			Help:      "Wall time of a pipeline run.",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600},
		}),
	}

	r.registry.MustRegister(r.runs, r.sourcePlayers, r.sourceFailures, r.aggregatedPlayers, r.warnings, r.duration)
	return r
}

func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

func (r *Recorder) RecordSource(source string, players int) {
	r.sourcePlayers.WithLabelValues(source).Set(float64(players))
}

func (r *Recorder) RecordSourceFailure(source, reason string) {
	r.sourceFailures.WithLabelValues(source, reason).Inc()
}

func (r *Recorder) RecordRun(outcome string, players, warnings int, elapsed time.Duration) {
	r.runs.WithLabelValues(outcome).Inc()
	r.duration.Observe(elapsed.Seconds())
	if outcome == OutcomeSuccess {
		r.aggregatedPlayers.Set(float64(players))
		r.warnings.Set(float64(warnings))
	}
}

// Push sends the registry to a Prometheus Pushgateway, grouped by season.
func (r *Recorder) Push(ctx context.Context, gatewayURL string, season int) error {
	err := push.New(gatewayURL, jobName).
		Gatherer(r.registry).
		Grouping("season", fmt.Sprint(season)).
		PushContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to push metrics: %w", err)
	}
	return nil
}
