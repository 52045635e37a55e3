package observability

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Command outcomes for the commands_total counter.
const (
	OutcomeAccepted = "accepted"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

var (
	registerOnce sync.Once

	commands = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "boltwood",
			Subsystem: "protocol",
			Name:      "commands_total",
			Help:      "Protocol commands by interface, verb and outcome.",
		},
		[]string{"interface", "verb", "outcome"},
	)
	commandDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "boltwood",
			Subsystem: "protocol",
			Name:      "command_duration_seconds",
			Help:      "Round-trip duration of one protocol command.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"interface", "verb"},
	)
	transportTimeouts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "boltwood",
			Subsystem: "transport",
			Name:      "timeouts_total",
			Help:      "Reply-line reads that hit the transport timeout.",
		},
	)
	conditions = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "boltwood",
			Subsystem: "sensor",
			Name:      "conditions",
			Help:      "Latest decoded observing-conditions fields.",
		},
		[]string{"field"},
	)
	safe = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "boltwood",
			Subsystem: "sensor",
			Name:      "safe",
			Help:      "Safety monitor state: 1 safe, 0 unsafe.",
		},
	)
)

// RegisterMetrics registers all collectors with the default registry.
// Safe to call more than once.
func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(commands, commandDuration, transportTimeouts, conditions, safe)
	})
}

func RecordCommand(iface, verb, outcome string, d time.Duration) {
	commands.WithLabelValues(iface, verb, outcome).Inc()
	commandDuration.WithLabelValues(iface, verb).Observe(d.Seconds())
}

func RecordTransportTimeout() {
	transportTimeouts.Inc()
}

func RecordCondition(field string, value float64) {
	conditions.WithLabelValues(field).Set(value)
}

func RecordSafe(isSafe bool) {
	if isSafe {
		safe.Set(1)
	} else {
		safe.Set(0)
	}
}
