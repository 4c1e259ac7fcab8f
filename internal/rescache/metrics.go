package rescache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks cache behavior for the /metrics endpoint. A nil *Metrics is
// valid and turns every recording call into a no-op, so tests and the CLI
// can run without a registry.
type Metrics struct {
	hits         prometheus.Counter
	misses       prometheus.Counter
	evictions    prometheus.Counter
	staleServes  prometheus.Counter
	loads        prometheus.Counter
	loadFailures prometheus.Counter
}

// NewMetrics registers the cache counters with the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		hits: factory.NewCounter(prometheus.CounterOpts{
			Name: "gridsight_cache_hits_total",
			Help: "Number of fresh cache hits.",
		}),
		misses: factory.NewCounter(prometheus.CounterOpts{
			Name: "gridsight_cache_misses_total",
			Help: "Number of cache misses (expired or absent entries).",
		}),
		evictions: factory.NewCounter(prometheus.CounterOpts{
			Name: "gridsight_cache_evictions_total",
			Help: "Number of entries evicted by the capacity bound.",
		}),
		staleServes: factory.NewCounter(prometheus.CounterOpts{
			Name: "gridsight_cache_stale_serves_total",
			Help: "Number of expired entries served because a load exceeded the wait budget.",
		}),
		loads: factory.NewCounter(prometheus.CounterOpts{
			Name: "gridsight_dataset_loads_total",
			Help: "Number of completed dataset loads.",
		}),
		loadFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "gridsight_dataset_load_failures_total",
			Help: "Number of failed dataset loads.",
		}),
	}
}

func (m *Metrics) hit() {
	if m != nil {
		m.hits.Inc()
	}
}

func (m *Metrics) miss() {
	if m != nil {
		m.misses.Inc()
	}
}

func (m *Metrics) eviction() {
	if m != nil {
		m.evictions.Inc()
	}
}

func (m *Metrics) staleServe() {
	if m != nil {
		m.staleServes.Inc()
	}
}

func (m *Metrics) load() {
	if m != nil {
		m.loads.Inc()
	}
}

func (m *Metrics) loadFailure() {
	if m != nil {
		m.loadFailures.Inc()
	}
}
