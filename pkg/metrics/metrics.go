// Package metrics defines the Prometheus metric collectors used by the
// build and scoring phases and exposes an HTTP handler for scraping.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus collectors for the retrieval engine.
type Metrics struct {
	DocsIndexedTotal     prometheus.Counter
	TokensIndexedTotal   prometheus.Counter
	VocabularySize       prometheus.Gauge
	PostingsWrittenTotal prometheus.Counter
	PostingsReadTotal    prometheus.Counter
	BuildStageDuration   *prometheus.HistogramVec
	QueriesScoredTotal   prometheus.Counter
	QueryScoringDuration prometheus.Histogram
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	m := &Metrics{
		DocsIndexedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "docs_indexed_total",
				Help: "Total documents (paragraphs) indexed.",
			},
		),
		TokensIndexedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "tokens_indexed_total",
				Help: "Total token occurrences seen during the build (collection size).",
			},
		),
		VocabularySize: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "vocabulary_size",
				Help: "Number of unique terms in the lexicon.",
			},
		),
		PostingsWrittenTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "postings_written_total",
				Help: "Total postings written to the inverted file.",
			},
		),
		PostingsReadTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "postings_read_total",
				Help: "Total postings fetched from the inverted file during scoring.",
			},
		),
		BuildStageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "build_stage_duration_seconds",
				Help:    "Build phase stage latency in seconds.",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60, 300},
			},
			[]string{"stage"},
		),
		QueriesScoredTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "queries_scored_total",
				Help: "Total queries scored and ranked.",
			},
		),
		QueryScoringDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "query_scoring_duration_seconds",
				Help:    "Per-query cosine scoring latency in seconds.",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
			},
		),
	}

	prometheus.MustRegister(
		m.DocsIndexedTotal,
		m.TokensIndexedTotal,
		m.VocabularySize,
		m.PostingsWrittenTotal,
		m.PostingsReadTotal,
		m.BuildStageDuration,
		m.QueriesScoredTotal,
		m.QueryScoringDuration,
	)

	return m
}

// Handler returns the Prometheus scrape HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
