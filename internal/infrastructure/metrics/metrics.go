package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Normalization metrics
	Normalizations      *prometheus.CounterVec
	Directions          *prometheus.CounterVec
	Categories          *prometheus.CounterVec
	AmbiguousDirections prometheus.Counter
	TransactionAmount   prometheus.Histogram

	// Receipt metrics
	ReceiptExtractions *prometheus.CounterVec
	ReceiptDuration    prometheus.Histogram

	// Store metrics
	StoreOperations *prometheus.CounterVec
	StoreErrors     *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics with the default registerer.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer creates all Prometheus metrics on reg.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		Normalizations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bachatbox_normalizations_total",
				Help: "Total normalization attempts by source and outcome",
			},
			[]string{"source", "outcome"},
		),
		Directions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bachatbox_transactions_direction_total",
				Help: "Normalized transactions by direction",
			},
			[]string{"direction"},
		),
		Categories: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bachatbox_transactions_category_total",
				Help: "Normalized transactions by category",
			},
			[]string{"category"},
		),
		AmbiguousDirections: factory.NewCounter(prometheus.CounterOpts{
			Name: "normalizer_ambiguous_direction_total",
			Help: "Messages that carried both income and expense cues",
		}),
		TransactionAmount: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "bachatbox_transaction_amount",
			Help:    "Normalized transaction amounts",
			Buckets: []float64{10, 100, 500, 1000, 5000, 10000, 100000, 1000000},
		}),

		ReceiptExtractions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bachatbox_receipt_extractions_total",
				Help: "Receipt extraction attempts by outcome",
			},
			[]string{"outcome"},
		),
		ReceiptDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "bachatbox_receipt_extraction_duration_seconds",
			Help:    "Duration of receipt extraction calls",
			Buckets: prometheus.DefBuckets,
		}),

		StoreOperations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bachatbox_store_operations_total",
				Help: "Transaction store operations by type",
			},
			[]string{"operation"},
		),
		StoreErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bachatbox_store_errors_total",
				Help: "Transaction store errors by operation",
			},
			[]string{"operation"},
		),
	}
}
