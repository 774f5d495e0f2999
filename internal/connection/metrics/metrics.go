package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics for the connection engine.
type Metrics struct {
	ConnectionsCreated *prometheus.CounterVec
	StatusTransitions  *prometheus.CounterVec
	OverlayFlags       *prometheus.CounterVec
	ProposalsCreated   prometheus.Counter
	ProposalsResolved  *prometheus.CounterVec
	ConflictRetries    prometheus.Counter
	OperationDuration  *prometheus.HistogramVec
}

// New creates and registers all connection engine metrics.
func New() *Metrics {
	return &Metrics{
		ConnectionsCreated: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "carelink_connections_created_total",
			Help: "Connections created, by type.",
		}, []string{"type"}),
		StatusTransitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "carelink_connection_status_transitions_total",
			Help: "Status state machine transitions, by action.",
		}, []string{"action"}),
		OverlayFlags: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "carelink_connection_overlay_flags_total",
			Help: "Overlay flag operations, by action.",
		}, []string{"action"}),
		ProposalsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "carelink_time_proposals_created_total",
			Help: "Time proposals created (including replacements).",
		}),
		ProposalsResolved: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "carelink_time_proposals_resolved_total",
			Help: "Time proposals resolved, by outcome.",
		}, []string{"outcome"}),
		ConflictRetries: promauto.NewCounter(prometheus.CounterOpts{
			Name: "carelink_connection_conflict_retries_total",
			Help: "Optimistic lock conflicts that triggered a retry.",
		}),
		OperationDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "carelink_connection_operation_duration_seconds",
			Help:    "Duration of engine operations.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
	}
}

// The helpers below are nil-safe so services can run without metrics wired
// (unit tests, CLI tooling).

// RecordConnectionCreated counts a new connection by type.
func (m *Metrics) RecordConnectionCreated(connType string) {
	if m == nil {
		return
	}
	m.ConnectionsCreated.WithLabelValues(connType).Inc()
}

// RecordStatusTransition counts a state machine transition.
func (m *Metrics) RecordStatusTransition(action string) {
	if m == nil {
		return
	}
	m.StatusTransitions.WithLabelValues(action).Inc()
}

// RecordOverlayFlag counts an overlay flag operation.
func (m *Metrics) RecordOverlayFlag(action string) {
	if m == nil {
		return
	}
	m.OverlayFlags.WithLabelValues(action).Inc()
}

// RecordProposalCreated counts a proposal creation or replacement.
func (m *Metrics) RecordProposalCreated() {
	if m == nil {
		return
	}
	m.ProposalsCreated.Inc()
}

// RecordProposalResolved counts a proposal acceptance or decline.
func (m *Metrics) RecordProposalResolved(outcome string) {
	if m == nil {
		return
	}
	m.ProposalsResolved.WithLabelValues(outcome).Inc()
}

// ObserveOperation records one completed engine operation.
func (m *Metrics) ObserveOperation(operation string, seconds float64) {
	if m == nil {
		return
	}
	m.OperationDuration.WithLabelValues(operation).Observe(seconds)
}

// RecordConflictRetry counts a stale-write retry.
func (m *Metrics) RecordConflictRetry() {
	if m == nil {
		return
	}
	m.ConflictRetries.Inc()
}
