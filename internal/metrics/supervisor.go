package metrics

import (
	"github.com/goodnatureofminers/blockinsight7000-sampler/internal/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	supervisorPingsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "blockinsight7000",
		Subsystem: "connection_supervisor",
		Name:      "pings_total",
		Help:      "Count of keepalive pings by outcome.",
	}, []string{"pipeline", "status"})
	supervisorReconnectsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "blockinsight7000",
		Subsystem: "connection_supervisor",
		Name:      "reconnect_attempts_total",
		Help:      "Count of reconnect attempts by outcome.",
	}, []string{"pipeline", "status"})
	supervisorConnectionUp = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "blockinsight7000",
		Subsystem: "connection_supervisor",
		Name:      "connection_up",
		Help:      "1 when the last ping or reconnect succeeded.",
	}, []string{"pipeline"})
)

// Supervisor tracks the storage connection health of one pipeline.
type Supervisor struct {
	pipeline model.Pipeline
}

// NewSupervisor constructs a Supervisor collector.
func NewSupervisor(pipeline model.Pipeline) *Supervisor {
	if pipeline == "" {
		pipeline = "unknown"
	}
	return &Supervisor{pipeline: pipeline}
}

// ObservePing records a keepalive ping.
func (m Supervisor) ObservePing(err error) {
	supervisorPingsTotal.WithLabelValues(string(m.pipeline), statusOf(err)).Inc()
	m.setUp(err == nil)
}

// ObserveReconnect records a reconnect attempt.
func (m Supervisor) ObserveReconnect(err error) {
	supervisorReconnectsTotal.WithLabelValues(string(m.pipeline), statusOf(err)).Inc()
	m.setUp(err == nil)
}

func (m Supervisor) setUp(up bool) {
	value := 0.0
	if up {
		value = 1
	}
	supervisorConnectionUp.WithLabelValues(string(m.pipeline)).Set(value)
}

func statusOf(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
