// Package metrics provides Prometheus metrics for monitoring.
//
// Design notes:
// - RED method for the scraping pipeline: rate, errors, duration
// - Custom registry to avoid global state conflicts
// - Consistent naming: perdue_{component}_{metric}_{unit}
// - Low cardinality labels (college names are a fixed, small set)
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the directory pipeline.
type Metrics struct {
	registry *prometheus.Registry

	// Scraper (external HTTP calls)
	ScrapeRequestsTotal *prometheus.CounterVec   // by college and outcome (success/error)
	ScrapeDuration      *prometheus.HistogramVec // per-college pipeline duration

	// Pipeline output
	PagesScrapedTotal *prometheus.CounterVec // pages stored by college
	RowsEmittedTotal  *prometheus.CounterVec // rows by college and outcome (success/not_found/invalid_argument/internal)

	// Salary join
	SalaryRowsTotal *prometheus.CounterVec // CSV rows by outcome (matched/unmatched/skipped/invalid)

	// Persistence
	UpsertDuration *prometheus.HistogramVec // batch upsert duration by table
}

// New creates a Metrics instance backed by a private registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,

		ScrapeRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "perdue_scraper_requests_total",
			Help: "Site scrape runs by college and outcome.",
		}, []string{"college", "outcome"}),

		ScrapeDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "perdue_scraper_duration_seconds",
			Help:    "Wall-clock duration of a college scrape.",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}, []string{"college"}),

		PagesScrapedTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "perdue_pipeline_pages_total",
			Help: "Pages stored by college.",
		}, []string{"college"}),

		RowsEmittedTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "perdue_pipeline_rows_total",
			Help: "Rows emitted by college and outcome.",
		}, []string{"college", "outcome"}),

		SalaryRowsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "perdue_salary_rows_total",
			Help: "Compensation CSV rows by join outcome.",
		}, []string{"outcome"}),

		UpsertDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "perdue_storage_upsert_duration_seconds",
			Help:    "Batch upsert duration by table.",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}, []string{"table"}),
	}
}

// Registry returns the private registry for exposition via promhttp.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
