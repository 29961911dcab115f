package ingestion

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// rowsAccepted counts rows persisted per channel
	rowsAccepted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ingestion_rows_accepted_total",
		Help: "Total number of export rows accepted by channel",
	}, []string{"channel"})

	// rowsRejected counts rows skipped as malformed per channel
	rowsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ingestion_rows_rejected_total",
		Help: "Total number of export rows rejected by channel",
	}, []string{"channel"})

	// batchDuration tracks end-to-end batch duration per channel
	batchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ingestion_batch_duration_seconds",
		Help:    "Time taken to ingest one uploaded file by channel",
		Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
	}, []string{"channel"})

	// batchFailures counts batches aborted before commit
	batchFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ingestion_batch_failures_total",
		Help: "Total number of ingestion batches that failed by channel",
	}, []string{"channel"})
)
