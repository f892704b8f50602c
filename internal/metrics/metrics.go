package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	NotificationsDispatched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_dispatched_total",
			Help: "Total notifications handed to the dispatch client",
		},
		[]string{"category"},
	)

	PushDeliveries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "push_deliveries_total",
			Help: "Per-subscription push delivery outcomes",
		},
		[]string{"status"},
	)

	SubscriptionsPruned = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "push_subscriptions_pruned_total",
			Help: "Subscriptions deleted after the endpoint reported gone",
		},
	)

	FanOutDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "push_fanout_duration_seconds",
			Help: "Duration of one fan-out across a recipient's devices",
		},
	)
)
