package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	apiRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "blockinsight7000",
		Subsystem: "api",
		Name:      "requests_total",
		Help:      "Count of read API requests.",
	}, []string{"route", "code"})
	apiRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "blockinsight7000",
		Subsystem: "api",
		Name:      "request_duration_seconds",
		Help:      "Duration of read API requests.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "code"})
	apiCacheTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "blockinsight7000",
		Subsystem: "api",
		Name:      "cache_lookups_total",
		Help:      "Count of response cache lookups.",
	}, []string{"result"})
)

// API tracks read API requests.
type API struct{}

// NewAPI constructs an API collector.
func NewAPI() *API {
	return &API{}
}

// ObserveRequest records a served request.
func (m API) ObserveRequest(route string, code int, started time.Time) {
	if route == "" {
		route = "unmatched"
	}
	status := strconv.Itoa(code)
	apiRequestsTotal.WithLabelValues(route, status).Inc()
	apiRequestDuration.WithLabelValues(route, status).Observe(time.Since(started).Seconds())
}

// ObserveCache records a cache hit or miss.
func (m API) ObserveCache(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	apiCacheTotal.WithLabelValues(result).Inc()
}
