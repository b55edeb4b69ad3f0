// Package metrics defines and registers all custom Prometheus metrics for the
// MediCare portal. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation (promauto); HTTP metrics come from echoprometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "portal"

// ── Session metrics ───────────────────────────────────────────────────────────

// SessionEventsTotal counts session lifecycle events.
// Label:
//   - kind: "login", "logout" or "forced_logout"
var SessionEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_events_total",
		Help:      "Total number of session lifecycle events, by kind.",
	},
	[]string{"kind"},
)

// SessionEventsDroppedTotal counts session events discarded because the
// worker's queue was full.
// Label:
//   - kind: "login", "logout" or "forced_logout"
var SessionEventsDroppedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_events_dropped_total",
		Help:      "Total number of session events dropped on a full worker queue, by kind.",
	},
	[]string{"kind"},
)

// SessionEventQueueDepth tracks events waiting in each notifier worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var SessionEventQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "session_event_queue_depth",
		Help:      "Current number of session events pending in each notifier worker channel.",
	},
	[]string{"worker_id"},
)

// ── Gateway metrics ───────────────────────────────────────────────────────────

// GatewayRequestsTotal counts backend calls.
// Labels:
//   - service: backend domain (e.g. "appointments")
//   - status: HTTP status code, or "error" when no response arrived
var GatewayRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "gateway_requests_total",
		Help:      "Total number of backend service calls, by service and status.",
	},
	[]string{"service", "status"},
)

// GatewayRequestDuration measures backend call latency.
var GatewayRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "gateway_request_duration_seconds",
		Help:      "Duration of backend service calls.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"service"},
)

// ── Workflow metrics ──────────────────────────────────────────────────────────

// BookingsTotal counts appointment submissions.
// Label:
//   - result: "booked", "conflict" or "error"
var BookingsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bookings_total",
		Help:      "Total number of appointment booking submissions, by result.",
	},
	[]string{"result"},
)

// WizardTransitionsTotal counts selection dialog transitions.
// Labels:
//   - flow: "booking_doctor", "booking_date", "booking_time", "user_type"
//   - action: "open", "select", "confirm", "cancel"
var WizardTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "wizard_transitions_total",
		Help:      "Total number of selection dialog transitions.",
	},
	[]string{"flow", "action"},
)

// ChatMessagesTotal counts chat widget messages.
// Label:
//   - result: "ok" or "error"
var ChatMessagesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "chat_messages_total",
		Help:      "Total number of chat messages relayed to the assistant.",
	},
	[]string{"result"},
)
