// Package metrics exposes the prometheus collectors of the API.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	// HTTPRequests counts handled requests by method, route and status
	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "taskflow_http_requests_total",
		Help: "HTTP requests by method, route and status code.",
	}, []string{"method", "route", "status"})

	// HTTPDuration observes request latency by method and route
	HTTPDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "taskflow_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	// AuthorizationDenials counts guard denials by reason code
	AuthorizationDenials = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "taskflow_authorization_denials_total",
		Help: "Requests refused by an access rule, by reason code.",
	}, []string{"reason"})

	// InviteRedemptions counts invite redemption attempts by outcome
	InviteRedemptions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "taskflow_invite_redemptions_total",
		Help: "Invite redemption attempts by outcome.",
	}, []string{"outcome"})

	// Impersonations counts view-as requests by outcome
	Impersonations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "taskflow_impersonation_requests_total",
		Help: "View-as requests by outcome.",
	}, []string{"outcome"})

	// NotificationsDispatched counts notifications by type and result
	NotificationsDispatched = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "taskflow_notifications_dispatched_total",
		Help: "Task notifications by type and result.",
	}, []string{"type", "result"})
)

// Register adds every collector to registerer once per process. A nil
// registerer means the default registry.
func Register(registerer prometheus.Registerer) {
	registerOnce.Do(func() {
		if registerer == nil {
			registerer = prometheus.DefaultRegisterer
		}
		registerer.MustRegister(
			HTTPRequests,
			HTTPDuration,
			AuthorizationDenials,
			InviteRedemptions,
			Impersonations,
			NotificationsDispatched,
		)
	})
}
