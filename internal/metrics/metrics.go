package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	GuardAllowed     = "allowed"
	GuardToLogin     = "redirect_login"
	GuardToDashboard = "redirect_dashboard"

	ResultSuccess  = "success"
	ResultRejected = "rejected" // refused before reaching the backend
	ResultFailed   = "failed"
)

var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "console_http_requests_total",
			Help: "Total number of console HTTP requests",
		},
		[]string{"method", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "console_http_request_duration_seconds",
			Help:    "Duration of console HTTP requests",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2, 5, 10},
		},
		[]string{"method"},
	)

	GuardDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "console_guard_decisions_total",
			Help: "Route guard outcomes per required role",
		},
		[]string{"required_role", "decision"},
	)

	Logins = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "console_logins_total",
			Help: "Login attempts by result",
		},
		[]string{"result"},
	)

	TransferActions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "console_transfer_actions_total",
			Help: "Transfer create, accept and reject attempts by result",
		},
		[]string{"action", "result"},
	)

	MailPublishErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "console_mail_publish_errors_total",
			Help: "Mail messages that could not be queued",
		},
	)
)
