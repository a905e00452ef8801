// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "cuentas"

var (
	ReceiptsParsed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "receipts_parsed_total",
		Help:      "OCR receipts run through the line parser.",
	})

	ItemsExtracted = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "receipt_items_extracted",
		Help:      "Product lines recognised per receipt.",
		Buckets:   []float64{0, 1, 2, 5, 10, 20, 50, 100},
	})

	TotalsDetected = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "receipt_totals_detected_total",
		Help:      "Receipts whose amount due was found in the text.",
	})

	RPCDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "rpc_duration_seconds",
		Help:      "Unary RPC latency by procedure and result code.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"procedure", "code"})

	AssignmentsSaved = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "assignments_saved_total",
		Help:      "Item to participant assignments persisted.",
	})
)
