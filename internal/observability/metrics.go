package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "storm_scraper"

// Metrics holds the Prometheus counters, histograms, and gauges for a scraper run.
type Metrics struct {
	SectionsExtracted prometheus.Counter
	SectionsSkipped   *prometheus.CounterVec // labels: reason={trailing_section,missing_infobox,invalid_date,malformed_enrichment}
	RowsWritten       prometheus.Counter
	PipelineRunning   prometheus.Gauge
	RunDuration       prometheus.Histogram

	// Enrichment metrics.
	EnrichRequests *prometheus.CounterVec // labels: outcome={success,malformed,error}
	LLMTokens      *prometheus.CounterVec // labels: kind={prompt,completion,total}
	EnrichDuration prometheus.Histogram

	// Geocoding metrics.
	GeocodeRequests    *prometheus.CounterVec // labels: outcome={success,error,empty}
	GeocodeCache       *prometheus.CounterVec // labels: result={hit,miss}
	GeocodeAPIDuration prometheus.Histogram
	GeocodeEnabled     prometheus.Gauge
}

// NewMetrics creates and registers all scraper metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		SectionsExtracted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sections_extracted_total",
			Help:      "Total heading blocks extracted from the season page.",
		}),
		SectionsSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sections_skipped_total",
			Help:      "Heading blocks that produced no output row, by reason.",
		}, []string{"reason"}),
		RowsWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_written_total",
			Help:      "Total storm rows assembled for output.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pipeline_running",
			Help:      "1 while a scrape is in progress, 0 otherwise.",
		}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete fetch-enrich-write run.",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600},
		}),
		EnrichRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "enrich_requests_total",
			Help:      "LLM enrichment calls by outcome.",
		}, []string{"outcome"}),
		LLMTokens: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "llm_tokens_total",
			Help:      "Tokens consumed by the LLM service, by kind.",
		}, []string{"kind"}),
		EnrichDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "enrich_duration_seconds",
			Help:      "LLM chat completion duration in seconds.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32},
		}),
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_requests_total",
			Help:      "Geocoding API requests by outcome.",
		}, []string{"outcome"}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_cache_total",
			Help:      "Geocoding cache lookups by result.",
		}, []string{"result"}),
		GeocodeAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "geocode_api_duration_seconds",
			Help:      "Mapbox API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		GeocodeEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "geocode_enabled",
			Help:      "1 when geocoding enrichment is enabled, 0 otherwise.",
		}),
	}

	prometheus.MustRegister(
		m.SectionsExtracted,
		m.SectionsSkipped,
		m.RowsWritten,
		m.PipelineRunning,
		m.RunDuration,
		m.EnrichRequests,
		m.LLMTokens,
		m.EnrichDuration,
		m.GeocodeRequests,
		m.GeocodeCache,
		m.GeocodeAPIDuration,
		m.GeocodeEnabled,
	)

	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		SectionsExtracted:  prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "sections_extracted_total"}),
		SectionsSkipped:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "sections_skipped_total"}, []string{"reason"}),
		RowsWritten:        prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "rows_written_total"}),
		PipelineRunning:    prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: "pipeline_running"}),
		RunDuration:        prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: namespace, Name: "run_duration_seconds"}),
		EnrichRequests:     prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "enrich_requests_total"}, []string{"outcome"}),
		LLMTokens:          prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "llm_tokens_total"}, []string{"kind"}),
		EnrichDuration:     prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: namespace, Name: "enrich_duration_seconds"}),
		GeocodeRequests:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "geocode_requests_total"}, []string{"outcome"}),
		GeocodeCache:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "geocode_cache_total"}, []string{"result"}),
		GeocodeAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: namespace, Name: "geocode_api_duration_seconds"}),
		GeocodeEnabled:     prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: "geocode_enabled"}),
	}
}
