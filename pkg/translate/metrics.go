package translate

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Per-provider attempt metrics
	translationRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kotoba_translation_requests_total",
			Help: "Total number of translation attempts per engine",
		},
		[]string{"engine", "status"},
	)

	translationRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "kotoba_translation_request_duration_seconds",
			Help:    "Duration of translation attempts in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0},
		},
		[]string{"engine", "status"},
	)

	// Fallback chain metrics
	translationFallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kotoba_translation_fallbacks_total",
			Help: "Total number of times an engine failed and the chain fell through",
		},
		[]string{"engine"},
	)

	translationExhaustedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "kotoba_translation_exhausted_total",
			Help: "Total number of translations where every configured engine failed",
		},
	)

	// Token accounting
	translatedTokensTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kotoba_translated_tokens_total",
			Help: "Estimated tokens of translated output per engine",
		},
		[]string{"engine"},
	)
)

func recordAttempt(engine string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	translationRequestsTotal.WithLabelValues(engine, status).Inc()
	translationRequestDuration.WithLabelValues(engine, status).Observe(duration.Seconds())
}

func recordFallback(engine string) {
	translationFallbacksTotal.WithLabelValues(engine).Inc()
}

func recordExhausted() {
	translationExhaustedTotal.Inc()
}

func recordTokens(engine string, tokens int) {
	if tokens > 0 {
		translatedTokensTotal.WithLabelValues(engine).Add(float64(tokens))
	}
}
