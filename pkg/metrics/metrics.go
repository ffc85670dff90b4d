// Package metrics registers the process-wide Prometheus collectors
// for a single task run, held in a Metrics struct and registered
// against a caller-supplied registry rather than the global default
// one.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds every collector one task invocation updates.
type Metrics struct {
	FilesProcessed   prometheus.Counter
	FilesFailed      prometheus.Counter
	RecordsProcessed prometheus.Counter
	RecordsSkipped   prometheus.Counter
	NgramsAdmitted   prometheus.Counter
	BytesRead        prometheus.Counter
}

// New constructs and registers a Metrics set against reg, namespaced
// under "wimbd".
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		FilesProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "wimbd",
			Name:      "files_processed_total",
			Help:      "Number of corpus shard files fully processed.",
		}),
		FilesFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "wimbd",
			Name:      "files_failed_total",
			Help:      "Number of corpus shard files that exhausted their retries.",
		}),
		RecordsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "wimbd",
			Name:      "records_processed_total",
			Help:      "Number of records with a non-null text field tokenized.",
		}),
		RecordsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "wimbd",
			Name:      "records_skipped_total",
			Help:      "Number of records skipped for missing or null text field.",
		}),
		NgramsAdmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "wimbd",
			Name:      "ngrams_admitted_total",
			Help:      "Number of n-gram entries admitted into a local top/bottom-K heap.",
		}),
		BytesRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "wimbd",
			Name:      "bytes_read_total",
			Help:      "Number of decompressed bytes read from corpus shards.",
		}),
	}
	reg.MustRegister(
		m.FilesProcessed,
		m.FilesFailed,
		m.RecordsProcessed,
		m.RecordsSkipped,
		m.NgramsAdmitted,
		m.BytesRead,
	)
	return m
}
