package ratelimit

import "github.com/prometheus/client_golang/prometheus"

// PrometheusRecorder is a MetricsRecorder backed by Prometheus collectors.
// It registers one counter for admissions/rejections and one histogram for
// store round-trip latency.
type PrometheusRecorder struct {
	acquires *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

// NewPrometheusRecorder registers the package's collectors with reg.
// Registering twice with the same registry panics, as usual with Prometheus;
// share one recorder across limiters instead.
func NewPrometheusRecorder(reg prometheus.Registerer) *PrometheusRecorder {
	r := &PrometheusRecorder{
		acquires: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ratelimit_acquire_total",
			Help: "Acquisition attempts, partitioned by resource and admission outcome.",
		}, []string{"resource", "allowed"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ratelimit_store_latency_seconds",
			Help:    "Counter store round-trip latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"resource"}),
	}
	reg.MustRegister(r.acquires, r.latency)
	return r
}

func (r *PrometheusRecorder) Add(name string, value float64, tags map[string]string) {
	if name != metricAcquire {
		return
	}
	r.acquires.With(prometheus.Labels{
		"resource": tags["resource"],
		"allowed":  tags["allowed"],
	}).Add(value)
}

func (r *PrometheusRecorder) Observe(name string, value float64, tags map[string]string) {
	if name != metricStoreLatency {
		return
	}
	r.latency.With(prometheus.Labels{
		"resource": tags["resource"],
	}).Observe(value)
}
