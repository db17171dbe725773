// Package prometrics adapts Prometheus instruments to the vendor-neutral
// metric ports. Instruments live on a private registry so tests can build
// isolated instances without colliding on the process-global default.
package prometrics

import (
	"sync"

	"github.com/bookforge/catalog/internal/observability"
	"github.com/prometheus/client_golang/prometheus"
)

// Registry creates and memoises metric instruments by name. Asking twice
// for the same name returns the same underlying vector.
type Registry struct {
	mu         sync.Mutex
	reg        *prometheus.Registry
	namespace  string
	counters   map[string]*prometheus.CounterVec
	histograms map[string]*prometheus.HistogramVec
}

func New(namespace string) *Registry {
	return &Registry{
		reg:        prometheus.NewRegistry(),
		namespace:  namespace,
		counters:   make(map[string]*prometheus.CounterVec),
		histograms: make(map[string]*prometheus.HistogramVec),
	}
}

// Gatherer exposes the underlying registry for the /metrics endpoint.
func (r *Registry) Gatherer() prometheus.Gatherer { return r.reg }

func (r *Registry) Counter(name, help string, labelKeys ...string) observability.Counter {
	r.mu.Lock()
	defer r.mu.Unlock()

	cv, ok := r.counters[name]
	if !ok {
		cv = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: r.namespace, Name: name, Help: help,
		}, labelKeys)
		r.reg.MustRegister(cv)
		r.counters[name] = cv
	}
	return &counter{vec: cv}
}

func (r *Registry) Histogram(name, help string, buckets []float64, labelKeys ...string) observability.Histogram {
	r.mu.Lock()
	defer r.mu.Unlock()

	hv, ok := r.histograms[name]
	if !ok {
		if len(buckets) == 0 {
			buckets = prometheus.DefBuckets
		}
		hv = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: r.namespace, Name: name, Help: help, Buckets: buckets,
		}, labelKeys)
		r.reg.MustRegister(hv)
		r.histograms[name] = hv
	}
	return &histogram{vec: hv}
}

type counter struct{ vec *prometheus.CounterVec }

func (c *counter) Add(delta float64, labels ...observability.Label) {
	c.vec.With(toPromLabels(labels)).Add(delta)
}

func (c *counter) Bind(labels ...observability.Label) observability.BoundCounter {
	return boundCounter{metric: c.vec.With(toPromLabels(labels))}
}

type boundCounter struct{ metric prometheus.Counter }

func (c boundCounter) Add(delta float64) { c.metric.Add(delta) }

type histogram struct{ vec *prometheus.HistogramVec }

func (h *histogram) Observe(value float64, labels ...observability.Label) {
	h.vec.With(toPromLabels(labels)).Observe(value)
}

func (h *histogram) Bind(labels ...observability.Label) observability.BoundHistogram {
	return boundHistogram{metric: h.vec.With(toPromLabels(labels))}
}

type boundHistogram struct{ metric prometheus.Observer }

func (h boundHistogram) Observe(value float64) { h.metric.Observe(value) }

func toPromLabels(labels []observability.Label) prometheus.Labels {
	out := make(prometheus.Labels, len(labels))
	for _, l := range labels {
		out[l.Key] = l.Value
	}
	return out
}
