package metrics

import (
	"time"

	"github.com/goodnatureofminers/blockinsight7000-sampler/internal/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	repositoryOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "blockinsight7000",
		Subsystem: "repository",
		Name:      "operations_total",
		Help:      "Count of repository operations.",
	}, []string{"backend", "operation", "pipeline", "status"})
	repositoryOperationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "blockinsight7000",
		Subsystem: "repository",
		Name:      "operation_duration_seconds",
		Help:      "Duration of repository operations.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 15, 20, 30},
	}, []string{"backend", "operation", "pipeline", "status"})
)

// Repository tracks metrics for storage operations of one backend.
type Repository struct {
	backend string
}

// NewRepository creates a Repository metrics collector for backend.
func NewRepository(backend string) *Repository {
	if backend == "" {
		backend = "unknown"
	}
	return &Repository{backend: backend}
}

// Observe records duration and status of a repository operation.
func (m Repository) Observe(operation string, pipeline model.Pipeline, err error, started time.Time) {
	status := "success"
	if err != nil {
		status = "error"
	}
	if pipeline == "" {
		pipeline = "unknown"
	}

	repositoryOperationsTotal.WithLabelValues(m.backend, operation, string(pipeline), status).Inc()
	repositoryOperationDuration.WithLabelValues(m.backend, operation, string(pipeline), status).Observe(time.Since(started).Seconds())
}
