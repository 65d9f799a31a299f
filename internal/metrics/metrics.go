// Package metrics defines the Prometheus collectors used by the server and
// exposes an HTTP handler for scraping.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus collectors. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge
	SearchQueriesTotal   *prometheus.CounterVec
	SearchResultsCount   prometheus.Histogram
	VaultProcessDuration prometheus.Histogram
	PublishedNotes       prometheus.Gauge
	VaultEventsTotal     *prometheus.CounterVec
}

// New creates all collectors and registers them on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests by method, route, and status.",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds.",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"method", "route"},
		),
		HTTPRequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed.",
			},
		),
		SearchQueriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vault_search_queries_total",
				Help: "Total search queries by mode (empty, tag, text).",
			},
			[]string{"mode"},
		),
		SearchResultsCount: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "vault_search_results_count",
				Help:    "Number of results returned per search query.",
				Buckets: []float64{0, 1, 5, 10, 20},
			},
		),
		VaultProcessDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "vault_process_duration_seconds",
				Help:    "Time to snapshot and process the vault.",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
			},
		),
		PublishedNotes: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "vault_published_notes",
				Help: "Number of published notes after the last processing run.",
			},
		),
		VaultEventsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vault_file_events_total",
				Help: "File system events observed in the vault by kind.",
			},
			[]string{"kind"},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HTTPRequestsInFlight,
		m.SearchQueriesTotal,
		m.SearchResultsCount,
		m.VaultProcessDuration,
		m.PublishedNotes,
		m.VaultEventsTotal,
	)
	return m
}

// Handler returns the Prometheus scrape HTTP handler.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveSearch records one search query and its result count.
func (m *Metrics) ObserveSearch(mode string, results int) {
	if m == nil {
		return
	}
	m.SearchQueriesTotal.WithLabelValues(mode).Inc()
	m.SearchResultsCount.Observe(float64(results))
}

// ObserveProcess records one vault processing run.
func (m *Metrics) ObserveProcess(d time.Duration, published int) {
	if m == nil {
		return
	}
	m.VaultProcessDuration.Observe(d.Seconds())
	m.PublishedNotes.Set(float64(published))
}

// ObserveEvent counts a vault file event.
func (m *Metrics) ObserveEvent(kind string) {
	if m == nil {
		return
	}
	m.VaultEventsTotal.WithLabelValues(kind).Inc()
}
