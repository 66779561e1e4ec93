package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "whisperhouse_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "whisperhouse_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"method", "path"},
	)

	// Engine metrics
	SessionsConnected = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "whisperhouse_sessions_connected",
			Help: "Currently registered sessions",
		},
	)

	EventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "whisperhouse_events_total",
			Help: "Events appended to the log",
		},
		[]string{"type"},
	)

	BroadcastFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "whisperhouse_broadcast_failures_total",
			Help: "Per-connection delivery failures during fanout",
		},
	)

	AmbientTicks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "whisperhouse_ambient_ticks_total",
			Help: "Ambient generator ticks",
		},
		[]string{"emitted"}, // "true", "false", "idle"
	)

	WhispersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "whisperhouse_whispers_total",
			Help: "Whisper attempts",
		},
		[]string{"outcome"}, // "delivered" or "dropped"
	)
)
