package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	UserEventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "user_events_published_total",
			Help: "Total number of user events published by outcome",
		},
		[]string{"queue", "outcome"},
	)

	UserEventsConsumed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "user_events_consumed_total",
			Help: "Total number of user events consumed by outcome",
		},
		[]string{"queue", "outcome"},
	)

	UsersRegistered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "users_registered_total",
			Help: "Total number of users created",
		},
	)
)
