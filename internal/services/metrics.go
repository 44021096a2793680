package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	callsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "nursecall_calls_created_total",
		Help: "Total number of calls raised by devices",
	})

	callsResolved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "nursecall_calls_resolved_total",
		Help: "Total number of calls resolved by nurses",
	})

	callResponseSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "nursecall_call_response_seconds",
		Help:    "Time between a call being raised and resolved",
		Buckets: prometheus.ExponentialBuckets(10, 2, 10),
	})
)
