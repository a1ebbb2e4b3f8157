package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Namespace for all Gatherly metrics
const namespace = "gatherly"

// Registry is the global Prometheus registry for all metrics
var Registry = prometheus.NewRegistry()

// RegistrationsConfirmed counts successful event registrations.
var RegistrationsConfirmed = promauto.With(Registry).NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_confirmed_total",
		Help:      "Total number of confirmed event registrations",
	},
)

// RegistrationsCancelled counts soft-cancelled registrations.
var RegistrationsCancelled = promauto.With(Registry).NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_cancelled_total",
		Help:      "Total number of cancelled event registrations",
	},
)

// InvitationsSent counts invitations created, including batch sends.
var InvitationsSent = promauto.With(Registry).NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "invitations_sent_total",
		Help:      "Total number of invitations sent",
	},
)

// InvitationResponses counts invitation responses by outcome (accepted/declined).
var InvitationResponses = promauto.With(Registry).NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "invitation_responses_total",
		Help:      "Total number of invitation responses by outcome",
	},
	[]string{"response"},
)

// InvitationsExpired counts invitations transitioned to expired by the daily sweep.
var InvitationsExpired = promauto.With(Registry).NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "invitations_expired_total",
		Help:      "Total number of invitations expired by the sweep",
	},
)

// InvitationSweepDuration tracks the duration of the expiration sweep.
var InvitationSweepDuration = promauto.With(Registry).NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "invitation_sweep_duration_seconds",
		Help:      "Duration of the invitation expiration sweep",
		Buckets:   prometheus.DefBuckets,
	},
)

// NotificationsCreated counts notifications recorded by the sink.
var NotificationsCreated = promauto.With(Registry).NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_created_total",
		Help:      "Total number of notifications created",
	},
)

// NotificationsDeleted counts read notifications removed by the retention cleanup.
var NotificationsDeleted = promauto.With(Registry).NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_deleted_total",
		Help:      "Total number of notifications deleted by the retention cleanup",
	},
)

// HTTPRequestDuration tracks request latency by method, path pattern and status.
var HTTPRequestDuration = promauto.With(Registry).NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request duration in seconds",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "status"},
)

func init() {
	Registry.MustRegister(collectors.NewGoCollector())
	Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
}
