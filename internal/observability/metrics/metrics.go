package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"service", "method", "path", "status"},
	)

	// Typed as ObserverVec so MustCurryWith can reassign it.
	HTTPRequestDurationSeconds prometheus.ObserverVec = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)

	RegistrationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "registrations_total",
			Help: "Identity registrations by surface and result.",
		},
		[]string{"surface", "result"},
	)

	LoginsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "logins_total",
			Help: "Login attempts by surface and result.",
		},
		[]string{"surface", "result"},
	)

	MessagesAppendedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_appended_total",
			Help: "Messages durably appended, by surface.",
		},
		[]string{"surface"},
	)

	FriendRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "friend_requests_total",
			Help: "Friend requests by result.",
		},
		[]string{"result"},
	)

	FriendApprovalsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "friend_approvals_total",
			Help: "Approved friend requests.",
		},
	)
)

func MustRegister(serviceName string) {
	HTTPRequestsTotal = HTTPRequestsTotal.MustCurryWith(prometheus.Labels{"service": serviceName})
	HTTPRequestDurationSeconds = HTTPRequestDurationSeconds.MustCurryWith(prometheus.Labels{"service": serviceName})

	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDurationSeconds,
		RegistrationsTotal,
		LoginsTotal,
		MessagesAppendedTotal,
		FriendRequestsTotal,
		FriendApprovalsTotal,
	)
}
