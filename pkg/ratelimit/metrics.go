package ratelimit

const (
	metricAcquire      = "ratelimit.acquire"
	metricStoreLatency = "ratelimit.store.latency"
)

// MetricsRecorder receives the package's instrumentation events. Every
// Acquire emits one "ratelimit.acquire" count tagged with the resource and
// whether the call was admitted, plus one "ratelimit.store.latency"
// observation in seconds for the store round-trip.
type MetricsRecorder interface {
	Add(name string, value float64, tags map[string]string)
	Observe(name string, value float64, tags map[string]string)
}

// NoOpRecorder is a placeholder that does nothing. It ensures we never have
// to check for a nil recorder in the hot path.
type NoOpRecorder struct{}

func (n *NoOpRecorder) Add(name string, value float64, tags map[string]string)     {}
func (n *NoOpRecorder) Observe(name string, value float64, tags map[string]string) {}
