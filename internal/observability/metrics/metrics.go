// Package metrics registers the service's Prometheus instrumentation.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricPrefix = "ledger_"

var (
	registerOnce sync.Once

	commandsTotal  *prometheus.CounterVec
	commandLatency prometheus.Histogram

	eventsAppended *prometheus.CounterVec
	repliesTotal   prometheus.Counter

	gatewayConnections prometheus.Gauge
	exportTotal        *prometheus.CounterVec
)

// Init registers all metrics. Safe to call more than once.
func Init() {
	registerOnce.Do(func() {
		commandsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "commands_total",
				Help: "Total processed commands by type",
			},
			[]string{"type"},
		)
		commandLatency = prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "command_latency_seconds",
				Help:    "Command processing latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
		)
		eventsAppended = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "events_appended_total",
				Help: "Total events appended to the store by type",
			},
			[]string{"type"},
		)
		repliesTotal = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "replies_total",
				Help: "Total replies composed",
			},
		)
		gatewayConnections = prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: metricPrefix + "gateway_connections",
				Help: "Open chat gateway connections",
			},
		)
		exportTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "statement_export_total",
				Help: "Total statement exports by format and result",
			},
			[]string{"format", "result"},
		)

		prometheus.MustRegister(
			commandsTotal,
			commandLatency,
			eventsAppended,
			repliesTotal,
			gatewayConnections,
			exportTotal,
		)
	})
}

// IncCommand counts one processed command.
func IncCommand(commandType string) {
	if commandsTotal != nil {
		commandsTotal.WithLabelValues(commandType).Inc()
	}
}

// ObserveCommandLatency records command processing time.
func ObserveCommandLatency(d time.Duration) {
	if commandLatency != nil {
		commandLatency.Observe(d.Seconds())
	}
}

// IncEventsAppended counts an appended event.
func IncEventsAppended(eventType string) {
	if eventsAppended != nil {
		eventsAppended.WithLabelValues(eventType).Inc()
	}
}

// AddReplies counts composed replies.
func AddReplies(count int) {
	if repliesTotal != nil && count > 0 {
		repliesTotal.Add(float64(count))
	}
}

// GatewayConnected tracks an opened gateway connection.
func GatewayConnected() {
	if gatewayConnections != nil {
		gatewayConnections.Inc()
	}
}

// GatewayDisconnected tracks a closed gateway connection.
func GatewayDisconnected() {
	if gatewayConnections != nil {
		gatewayConnections.Dec()
	}
}

// IncExport counts a statement export.
func IncExport(format, result string) {
	if exportTotal != nil {
		exportTotal.WithLabelValues(format, result).Inc()
	}
}
