package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "onegoal_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "method", "status"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "onegoal_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	AuthRejections = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "onegoal_auth_rejections_total",
			Help: "Total number of unauthorized or forbidden requests",
		},
		[]string{"reason"},
	)
	CheckInsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "onegoal_checkins_total",
			Help: "Check-in submissions by outcome",
		},
		[]string{"outcome"},
	)
	GoalTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "onegoal_goal_transitions_total",
			Help: "Goals entering a lifecycle status",
		},
		[]string{"status"},
	)
	NotificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "onegoal_notifications_total",
			Help: "Notification deliveries by type and result",
		},
		[]string{"type", "result"},
	)
)

var registerOnce sync.Once

// Register adds all collectors to the default registry. Safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			HTTPRequestsTotal,
			HTTPRequestDuration,
			AuthRejections,
			CheckInsTotal,
			GoalTransitions,
			NotificationsTotal,
		)
	})
}
