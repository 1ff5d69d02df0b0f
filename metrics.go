package bigquerystorage

import "github.com/prometheus/client_golang/prometheus/promauto"
import "github.com/prometheus/client_golang/prometheus"

var sessionsCreated = promauto.NewCounter(prometheus.CounterOpts{
	Name: "bigquery_storage_sessions_created_total",
	Help: "Number of read sessions negotiated with the storage service",
})

var streamsOpened = promauto.NewCounter(prometheus.CounterOpts{
	Name: "bigquery_storage_streams_opened_total",
	Help: "Number of row streams opened",
})

var recordBatches = promauto.NewCounter(prometheus.CounterOpts{
	Name: "bigquery_storage_record_batches_total",
	Help: "Number of Arrow record batches received across all streams",
})

var batchBytes = promauto.NewCounter(prometheus.CounterOpts{
	Name: "bigquery_storage_batch_bytes_total",
	Help: "Unframed record batch bytes appended to reconstructed streams",
})
