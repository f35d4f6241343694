// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package metrics

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rankstuff_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds, by route pattern, method and status.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"pattern", "method", "status"},
	)

	RequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "rankstuff_requests_in_flight",
			Help: "Number of HTTP requests currently being served.",
		},
	)

	BallotsSubmitted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "rankstuff_ballots_submitted_total",
			Help: "Total ballots accepted.",
		},
	)

	PollTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rankstuff_poll_transitions_total",
			Help: "Poll status changes, by target status and trigger.",
		},
		[]string{"to", "trigger"},
	)

	ChartRefreshes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rankstuff_chart_refreshes_total",
			Help: "Chart recomputations, by outcome.",
		},
		[]string{"outcome"},
	)

	ChartRefreshDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "rankstuff_chart_refresh_duration_seconds",
			Help:    "Duration of chart recomputations.",
			Buckets: prometheus.DefBuckets,
		},
	)
)

func init() {
	prometheus.MustRegister(
		RequestDuration,
		RequestsInFlight,
		BallotsSubmitted,
		PollTransitions,
		ChartRefreshes,
		ChartRefreshDuration,
	)
}

// Transition triggers
const (
	TriggerOwner    = "owner"
	TriggerSchedule = "schedule"
)

// ObserveRequest records one finished HTTP request.
func ObserveRequest(pattern, method string, status int, elapsed time.Duration) {
	if pattern == "" {
		pattern = "unmatched"
	}
	RequestDuration.WithLabelValues(pattern, method, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

// ObserveChartRefresh records one chart recomputation and its outcome.
func ObserveChartRefresh(err error, elapsed time.Duration) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	ChartRefreshes.WithLabelValues(outcome).Inc()
	ChartRefreshDuration.Observe(elapsed.Seconds())
}

// RegisterDB exports connection pool statistics for db. Registering the
// same name twice is not an error.
func RegisterDB(db *sql.DB, name string) error {
	err := prometheus.Register(collectors.NewDBStatsCollector(db, name))
	var already prometheus.AlreadyRegisteredError
	if errors.As(err, &already) {
		return nil
	}
	return err
}

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
