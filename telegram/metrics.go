// Copyright (c) 2024, amarnathcjd

package telegram

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics is the dispatcher's prometheus instrumentation. Attach with
// Dispatcher.WithMetrics; a nil Metrics disables collection.
type Metrics struct {
	UpdatesReceived prometheus.Counter
	UpdatesDropped  prometheus.Counter
	PollErrors      prometheus.Counter
	// Labels: reason = no_route | handler | reply
	DispatchErrors  *prometheus.CounterVec
	HandlerDuration prometheus.Histogram
	ActiveSessions  prometheus.Gauge
}

// NewMetrics registers the dispatcher collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		UpdatesReceived: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "botgram",
			Name:      "updates_received_total",
			Help:      "Updates fetched from the Bot API.",
		}),
		UpdatesDropped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "botgram",
			Name:      "updates_dropped_total",
			Help:      "Updates dropped because their shape was not recognized.",
		}),
		PollErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "botgram",
			Name:      "poll_errors_total",
			Help:      "Failed getUpdates calls.",
		}),
		DispatchErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "botgram",
			Name:      "dispatch_errors_total",
			Help:      "Dispatches that ended in the error policy.",
		}, []string{"reason"}),
		HandlerDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "botgram",
			Name:      "handler_duration_seconds",
			Help:      "Wall time of individual handler invocations.",
			Buckets:   prometheus.DefBuckets,
		}),
		ActiveSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "botgram",
			Name:      "active_sessions",
			Help:      "Session state cells currently held in memory.",
		}),
	}
}
