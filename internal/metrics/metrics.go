package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	handsStartedCounter   prometheus.Counter
	actionsCounter        *prometheus.CounterVec
	timeoutsCounter       prometheus.Counter
	commitFailuresCounter prometheus.Counter
	auditFailuresCounter  prometheus.Counter
	activeTablesGauge     prometheus.Gauge
	connectedClientsGauge prometheus.Gauge
}

func (m *metrics) HandStarted() {
	m.handsStartedCounter.Inc()
}

// Action counts a player action by name
func (m *metrics) Action(action string) {
	m.actionsCounter.WithLabelValues(action).Inc()
}

func (m *metrics) Timeout() {
	m.timeoutsCounter.Inc()
}

func (m *metrics) CommitFailed() {
	m.commitFailuresCounter.Inc()
}

func (m *metrics) AuditFailed() {
	m.auditFailuresCounter.Inc()
}

func (m *metrics) SetActiveTables(count int) {
	m.activeTablesGauge.Set(float64(count))
}

func (m *metrics) ClientConnected() {
	m.connectedClientsGauge.Inc()
}

func (m *metrics) ClientDisconnected() {
	m.connectedClientsGauge.Dec()
}

// Metrics are the server's Prometheus collectors
var Metrics = &metrics{
	handsStartedCounter: promauto.NewCounter(prometheus.CounterOpts{
		Name: "holdem_hands_started_total",
		Help: "Total number of hands dealt",
	}),
	actionsCounter: promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "holdem_actions_total",
		Help: "Total number of player actions applied, by action",
	}, []string{"action"}),
	timeoutsCounter: promauto.NewCounter(prometheus.CounterOpts{
		Name: "holdem_timeouts_total",
		Help: "Total number of players removed for not acting in time",
	}),
	commitFailuresCounter: promauto.NewCounter(prometheus.CounterOpts{
		Name: "holdem_commit_failures_total",
		Help: "Total number of table changes discarded because they could not be saved",
	}),
	auditFailuresCounter: promauto.NewCounter(prometheus.CounterOpts{
		Name: "holdem_audit_failures_total",
		Help: "Total number of table audits that found a broken invariant",
	}),
	activeTablesGauge: promauto.NewGauge(prometheus.GaugeOpts{
		Name: "holdem_active_tables",
		Help: "Count of tables with a running dealer",
	}),
	connectedClientsGauge: promauto.NewGauge(prometheus.GaugeOpts{
		Name: "holdem_connected_clients",
		Help: "Count of connected websocket clients",
	}),
}
