package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Chat variants.
const (
	VariantChat    = "chat"
	VariantOneShot = "oneshot"
	VariantStream  = "stream"
)

var (
	ChatTurns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_turns_total",
			Help: "Total number of answered user questions",
		},
		[]string{"variant"},
	)

	ChatFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_failures_total",
			Help: "Total number of turns that hit a failure, by kind",
		},
		[]string{"kind"},
	)

	InventoryProducts = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "chat_inventory_products",
			Help: "Number of products in the most recent inventory snapshot",
		},
	)

	InventoryFetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "chat_inventory_fetch_duration_seconds",
			Help:    "Time spent fetching the inventory table",
			Buckets: prometheus.DefBuckets,
		},
	)

	GenerationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "chat_generation_duration_seconds",
			Help:    "Time spent waiting for the generation model",
			Buckets: []float64{.25, .5, 1, 2, 4, 8, 16, 32, 64},
		},
	)
)
