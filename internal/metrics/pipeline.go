package metrics

import (
	"errors"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-sampler/internal/failure"
	"github.com/goodnatureofminers/blockinsight7000-sampler/internal/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	pipelineCyclesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "blockinsight7000",
		Subsystem: "pipeline",
		Name:      "cycles_total",
		Help:      "Count of sampling cycles by outcome.",
	}, []string{"pipeline", "status"})

	pipelineCycleDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "blockinsight7000",
		Subsystem: "pipeline",
		Name:      "cycle_duration_seconds",
		Help:      "Duration of a sampling cycle.",
		Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
	}, []string{"pipeline", "status"})

	pipelineStageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "blockinsight7000",
		Subsystem: "pipeline",
		Name:      "stage_duration_seconds",
		Help:      "Duration of a single cycle stage.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"pipeline", "stage", "status"})

	pipelineStageFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "blockinsight7000",
		Subsystem: "pipeline",
		Name:      "stage_failures_total",
		Help:      "Count of abandoned cycles by failing stage and error kind.",
	}, []string{"pipeline", "stage", "kind"})

	pipelineRecordsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "blockinsight7000",
		Subsystem: "pipeline",
		Name:      "records_total",
		Help:      "Count of persisted records, split into inserted and already stored.",
	}, []string{"pipeline", "result"})

	pipelineLastSuccess = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "blockinsight7000",
		Subsystem: "pipeline",
		Name:      "last_success_timestamp_seconds",
		Help:      "Unix time of the last successful cycle.",
	}, []string{"pipeline"})
)

// Pipeline tracks metrics for one sampling pipeline.
type Pipeline struct {
	pipeline model.Pipeline
}

// NewPipeline constructs a Pipeline collector.
func NewPipeline(pipeline model.Pipeline) *Pipeline {
	if pipeline == "" {
		pipeline = "unknown"
	}
	return &Pipeline{pipeline: pipeline}
}

// ObserveCycle records the outcome and duration of a whole cycle.
func (m Pipeline) ObserveCycle(err error, started time.Time) {
	status := cycleStatus(err)
	pipelineCyclesTotal.WithLabelValues(string(m.pipeline), status).Inc()
	pipelineCycleDuration.WithLabelValues(string(m.pipeline), status).Observe(time.Since(started).Seconds())
	if err == nil {
		pipelineLastSuccess.WithLabelValues(string(m.pipeline)).SetToCurrentTime()
	}
}

// ObserveStage records the duration of a stage and, on failure, its error kind.
func (m Pipeline) ObserveStage(stage failure.Stage, err error, started time.Time) {
	status := "success"
	if err != nil {
		status = "error"
		pipelineStageFailuresTotal.WithLabelValues(string(m.pipeline), string(stage), failure.Kind(err)).Inc()
	}
	pipelineStageDuration.WithLabelValues(string(m.pipeline), string(stage), status).
		Observe(time.Since(started).Seconds())
}

// ObserveRecord counts a persisted record.
func (m Pipeline) ObserveRecord(inserted bool) {
	result := "duplicate"
	if inserted {
		result = "inserted"
	}
	pipelineRecordsTotal.WithLabelValues(string(m.pipeline), result).Inc()
}

func cycleStatus(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, failure.ErrNoSnapshot):
		return "empty"
	default:
		return "error"
	}
}
