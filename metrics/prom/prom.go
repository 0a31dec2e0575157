// Package prom exports cache.Metrics signals to Prometheus.
package prom

import (
	"github.com/IvanBrykalov/cachebox/cache"
	"github.com/prometheus/client_golang/prometheus"
)

// Adapter is a cache.Metrics backed by Prometheus collectors. One Adapter
// serves one cache.
type Adapter struct {
	hits     prometheus.Counter
	misses   prometheus.Counter
	evicts   *prometheus.CounterVec // by cache.EvictReason
	entries  prometheus.Gauge
	capacity prometheus.Gauge
}

// New registers the cache collectors on reg, or on the default registerer
// when reg is nil. Every series is named ns_sub_<signal> and carries labels.
//
// Give each cache its own sub or labels; registering two adapters with
// identical names on one registry panics.
func New(reg prometheus.Registerer, ns, sub string, labels prometheus.Labels) *Adapter {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	opts := func(name, help string) prometheus.Opts {
		return prometheus.Opts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        name,
			Help:        help,
			ConstLabels: labels,
		}
	}
	a := &Adapter{
		hits:   prometheus.NewCounter(prometheus.CounterOpts(opts("hits_total", "Get calls that found their id."))),
		misses: prometheus.NewCounter(prometheus.CounterOpts(opts("misses_total", "Get calls that did not find their id."))),
		evicts: prometheus.NewCounterVec(
			prometheus.CounterOpts(opts("evictions_total", "Entries dropped by the replacement policy or by Clear.")),
			[]string{"reason"},
		),
		entries:  prometheus.NewGauge(prometheus.GaugeOpts(opts("size_entries", "Resident entries after the last write."))),
		capacity: prometheus.NewGauge(prometheus.GaugeOpts(opts("size_capacity", "Allocated slots after the last write."))),
	}
	reg.MustRegister(a.hits, a.misses, a.evicts, a.entries, a.capacity)
	return a
}

func (a *Adapter) Hit()  { a.hits.Inc() }
func (a *Adapter) Miss() { a.misses.Inc() }

// Evict adds n to the series for reason r.
func (a *Adapter) Evict(r cache.EvictReason, n int) {
	a.evicts.WithLabelValues(r.String()).Add(float64(n))
}

func (a *Adapter) Size(entries, capacity int) {
	a.entries.Set(float64(entries))
	a.capacity.Set(float64(capacity))
}

var _ cache.Metrics = (*Adapter)(nil)
