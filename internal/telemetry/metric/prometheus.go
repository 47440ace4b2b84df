package metric

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "appcore"

// Registry holds all application metrics.
type Registry struct {
	registry *prometheus.Registry

	StorageOps      *prometheus.CounterVec
	APIRequests     *prometheus.CounterVec
	APIDuration     *prometheus.HistogramVec
	BootstrapsTotal prometheus.Counter
}

// NewRegistry creates a registry with every application metric registered.
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),
		StorageOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "ops_total",
			Help:      "Storage operations by operation and result (ok, miss, error).",
		}, []string{"op", "result"}),
		APIRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "API client requests by method and status code.",
		}, []string{"method", "status"}),
		APIDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "API client request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		BootstrapsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bootstraps_total",
			Help:      "Successful dependency bootstraps.",
		}),
	}

	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.StorageOps,
		r.APIRequests,
		r.APIDuration,
		r.BootstrapsTotal,
	)

	return r
}

// RecordStorageOp counts one storage operation.
func (r *Registry) RecordStorageOp(op, result string) {
	r.StorageOps.WithLabelValues(op, result).Inc()
}

// RecordAPIRequest counts one API request and observes its latency.
func (r *Registry) RecordAPIRequest(method, status string, seconds float64) {
	r.APIRequests.WithLabelValues(method, status).Inc()
	r.APIDuration.WithLabelValues(method).Observe(seconds)
}

// RecordBootstrap counts a completed bootstrap.
func (r *Registry) RecordBootstrap() {
	r.BootstrapsTotal.Inc()
}

// MustRegister registers additional collectors.
func (r *Registry) MustRegister(cs ...prometheus.Collector) {
	r.registry.MustRegister(cs...)
}

// Handler returns an HTTP handler serving this registry.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
