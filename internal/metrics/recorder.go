package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "wordcount"

// Recorder publishes per-document pipeline metrics on a private registry.
// A nil *Recorder is valid and records nothing.
type Recorder struct {
	registry      *prometheus.Registry
	documents     *prometheus.CounterVec
	words         prometheus.Counter
	fetchDuration prometheus.Histogram
	documentBytes prometheus.Histogram
	activeWorkers prometheus.Gauge
}

// NewRecorder creates a recorder with its own registry, including the Go
// runtime and process collectors.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		documents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_total",
			Help:      "Documents processed, by outcome status.",
		}, []string{"status"}),
		words: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "words_total",
			Help:      "Words counted across successful documents.",
		}),
		fetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Time spent processing one document, fetch and count included.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
		}),
		documentBytes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "document_bytes",
			Help:      "Size of fetched document bodies.",
			Buckets:   prometheus.ExponentialBuckets(1024, 4, 10),
		}),
		activeWorkers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_workers",
			Help:      "Per-document workers currently running.",
		}),
	}
	r.registry.MustRegister(
		r.documents,
		r.words,
		r.fetchDuration,
		r.documentBytes,
		r.activeWorkers,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// WorkerStarted increments the active worker gauge.
func (r *Recorder) WorkerStarted() {
	if r == nil {
		return
	}
	r.activeWorkers.Inc()
}

// WorkerFinished decrements the active worker gauge.
func (r *Recorder) WorkerFinished() {
	if r == nil {
		return
	}
	r.activeWorkers.Dec()
}

// ObserveDocument records one finished document. words and bytes are only
// recorded for successful documents.
func (r *Recorder) ObserveDocument(status string, words, bytes int, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.documents.WithLabelValues(status).Inc()
	r.fetchDuration.Observe(elapsed.Seconds())
	if words > 0 {
		r.words.Add(float64(words))
	}
	if bytes > 0 {
		r.documentBytes.Observe(float64(bytes))
	}
}

// Registry exposes the underlying registry, mainly for tests.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// Handler returns an HTTP handler serving the registry in the Prometheus
// exposition format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}
