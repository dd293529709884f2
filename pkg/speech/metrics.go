package speech

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var speechRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "kotoba_speech_requests_total",
		Help: "Total number of speech backend calls",
	},
	[]string{"operation", "status"},
)

func recordSpeechRequest(operation string, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	speechRequestsTotal.WithLabelValues(operation, status).Inc()
}
