package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	eventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kotoba_events_total",
			Help: "Total number of inbound conversation events",
		},
		[]string{"type"},
	)

	activeUserQueues = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "kotoba_active_user_queues",
			Help: "Number of live per-user dispatch queues",
		},
	)
)

func recordEvent(eventType string) {
	eventsTotal.WithLabelValues(eventType).Inc()
}
