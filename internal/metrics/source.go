package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	sourceCallsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "blockinsight7000",
		Subsystem: "source",
		Name:      "calls_total",
		Help:      "Count of calls to external data sources.",
	}, []string{"source", "operation", "status"})
	sourceCallDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "blockinsight7000",
		Subsystem: "source",
		Name:      "call_duration_seconds",
		Help:      "Duration of calls to external data sources.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"source", "operation", "status"})
)

// Source tracks metrics for calls made through one source adapter.
type Source struct {
	source string
}

// NewSource constructs a metrics collector for source calls.
func NewSource(source string) *Source {
	if source == "" {
		source = "unknown"
	}
	return &Source{source: source}
}

// Observe records a single call outcome and duration.
func (m Source) Observe(operation string, err error, started time.Time) {
	status := "success"
	if err != nil {
		status = "error"
	}

	sourceCallsTotal.WithLabelValues(m.source, operation, status).Inc()
	sourceCallDuration.WithLabelValues(m.source, operation, status).Observe(time.Since(started).Seconds())
}
