package metrics

import (
	"errors"
	"net/http"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Package-level Prometheus collectors. They are registered via Register.
var (
	regOK atomic.Bool

	processesCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "totrackit",
			Subsystem: "processes",
			Name:      "created_total",
			Help:      "Number of processes registered.",
		}, []string{"name"},
	)
	processesCompleted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "totrackit",
			Subsystem: "processes",
			Name:      "completed_total",
			Help:      "Number of processes that reached a terminal state.",
		}, []string{"name", "status"},
	)
	processDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "totrackit",
			Subsystem: "processes",
			Name:      "duration_seconds",
			Help:      "Duration of terminal processes in seconds.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
		}, []string{"name", "status"},
	)
	processesActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "totrackit",
			Subsystem: "processes",
			Name:      "active",
			Help:      "Current number of ACTIVE processes.",
		},
	)
)

// Register registers all metrics with the provided registerer.
// It is safe to call multiple times; subsequent calls after success are no-ops.
func Register(r prometheus.Registerer) error {
	if regOK.Load() {
		return nil
	}
	cs := []prometheus.Collector{processesCreated, processesCompleted, processDuration, processesActive}
	for _, c := range cs {
		if err := r.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			return err
		}
	}
	regOK.Store(true)
	return nil
}

// Handler returns an http.Handler that serves Prometheus metrics for the DefaultGatherer.
func Handler() http.Handler { return promhttp.Handler() }

// Lightweight helpers used by the lifecycle service.
// They no-op if Register hasn't been called.

func IncCreated(name string) {
	if regOK.Load() {
		processesCreated.WithLabelValues(name).Inc()
	}
}

func IncCompleted(name, status string) {
	if regOK.Load() {
		processesCompleted.WithLabelValues(name, status).Inc()
	}
}

func ObserveDuration(name, status string, seconds float64) {
	if regOK.Load() {
		processDuration.WithLabelValues(name, status).Observe(seconds)
	}
}

func SetActive(n int64) {
	if regOK.Load() {
		processesActive.Set(float64(n))
	}
}
