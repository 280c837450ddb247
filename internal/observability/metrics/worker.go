package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// WorkerMetrics covers the extraction worker. Outcomes mirror the document status a run
// leaves behind: "ready" or "failed".
type WorkerMetrics struct {
	registry *prometheus.Registry

	extractions *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	inFlight    prometheus.Gauge
	queueLag    prometheus.Histogram
}

func NewWorkerMetrics(service string) *WorkerMetrics {
	registry := prometheus.NewRegistry()
	labels := prometheus.Labels{"service": service}
	factory := promauto.With(registry)

	return &WorkerMetrics{
		registry: registry,
		extractions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "worker",
			Name:        "extractions_total",
			Help:        "Text extraction runs by outcome.",
			ConstLabels: labels,
		}, []string{"outcome"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   namespace,
			Subsystem:   "worker",
			Name:        "extraction_duration_seconds",
			Help:        "Text extraction duration in seconds by outcome.",
			Buckets:     []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 300},
			ConstLabels: labels,
		}, []string{"outcome"}),
		inFlight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Subsystem:   "worker",
			Name:        "extractions_in_flight",
			Help:        "Documents currently being extracted.",
			ConstLabels: labels,
		}),
		queueLag: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   namespace,
			Subsystem:   "worker",
			Name:        "queue_lag_seconds",
			Help:        "Delay between upload and the start of extraction.",
			Buckets:     []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300, 600},
			ConstLabels: labels,
		}),
	}
}

func (m *WorkerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Track marks one extraction as started; call the returned func with its result.
func (m *WorkerMetrics) Track() func(err error) {
	m.inFlight.Inc()
	started := time.Now()
	return func(err error) {
		m.inFlight.Dec()
		outcome := "ready"
		if err != nil {
			outcome = "failed"
		}
		m.extractions.WithLabelValues(outcome).Inc()
		m.duration.WithLabelValues(outcome).Observe(time.Since(started).Seconds())
	}
}

// ObserveQueueLag ignores negative lags caused by clock skew between api and worker hosts.
func (m *WorkerMetrics) ObserveQueueLag(lag time.Duration) {
	if lag < 0 {
		return
	}
	m.queueLag.Observe(lag.Seconds())
}
