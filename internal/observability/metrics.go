package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// fetch-extract-publish pipeline.
type Metrics struct {
	FetchesTotal  *prometheus.CounterVec // labels: outcome={success,error}
	FetchDuration prometheus.Histogram

	SituationsExtracted prometheus.Counter
	RecordsDropped      *prometheus.CounterVec // labels: reason={no_location_reference,no_point,no_coordinates}
	LastCycleSituations prometheus.Gauge

	MessagesProduced prometheus.Counter
	PipelineRunning  prometheus.Gauge
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		FetchesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dgt_etl",
			Name:      "fetches_total",
			Help:      "DATEX2 payload fetch attempts by outcome.",
		}, []string{"outcome"}),
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "dgt_etl",
			Name:      "fetch_duration_seconds",
			Help:      "Duration of one fetch-extract-publish cycle.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		SituationsExtracted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dgt_etl",
			Name:      "situations_extracted_total",
			Help:      "Total situation records extracted from fetched documents.",
		}),
		RecordsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dgt_etl",
			Name:      "records_dropped_total",
			Help:      "Situation records silently dropped during extraction, by reason.",
		}, []string{"reason"}),
		LastCycleSituations: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "dgt_etl",
			Name:      "last_cycle_situations",
			Help:      "Situations extracted in the most recent successful cycle.",
		}),
		MessagesProduced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dgt_etl",
			Name:      "messages_produced_total",
			Help:      "Total messages written to the sink topic.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "dgt_etl",
			Name:      "pipeline_running",
			Help:      "1 when the pipeline is active, 0 when shut down.",
		}),
	}

	prometheus.MustRegister(
		m.FetchesTotal,
		m.FetchDuration,
		m.SituationsExtracted,
		m.RecordsDropped,
		m.LastCycleSituations,
		m.MessagesProduced,
		m.PipelineRunning,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		FetchesTotal:        prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "dgt_etl", Name: "fetches_total"}, []string{"outcome"}),
		FetchDuration:       prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "dgt_etl", Name: "fetch_duration_seconds"}),
		SituationsExtracted: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "dgt_etl", Name: "situations_extracted_total"}),
		RecordsDropped:      prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "dgt_etl", Name: "records_dropped_total"}, []string{"reason"}),
		LastCycleSituations: prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "dgt_etl", Name: "last_cycle_situations"}),
		MessagesProduced:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "dgt_etl", Name: "messages_produced_total"}),
		PipelineRunning:     prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "dgt_etl", Name: "pipeline_running"}),
	}
}
