// Package prometheus provides a Prometheus-based stats collector.
//
// Batch runs have no scrape endpoint, so the collector can write its registry
// to a node_exporter textfile at the end of a run.
package prometheus

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/discochess/openingweeks/internal/stats"
)

// Collector implements stats.Collector using Prometheus metrics.
type Collector struct {
	registry *prometheus.Registry
	textfile string

	mu         sync.Mutex
	counters   map[string]prometheus.Counter
	gauges     map[string]prometheus.Gauge
	histograms map[string]prometheus.Histogram
}

var (
	_ stats.Collector = (*Collector)(nil)
	_ stats.Flusher   = (*Collector)(nil)
)

// Option configures a Collector.
type Option func(*Collector)

// WithTextfile makes Flush write the registry to path in the Prometheus text
// exposition format.
func WithTextfile(path string) Option {
	return func(c *Collector) { c.textfile = path }
}

// New creates a new Prometheus collector.
// If registry is nil, a fresh registry is created.
func New(registry *prometheus.Registry, opts ...Option) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	c := &Collector{
		registry:   registry,
		counters:   make(map[string]prometheus.Counter),
		gauges:     make(map[string]prometheus.Gauge),
		histograms: make(map[string]prometheus.Histogram),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Registry returns the registry metrics are registered with.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// IncCounter increments a counter metric.
func (c *Collector) IncCounter(name string, delta int64) {
	counter := getOrCreate(c, c.counters, name, func() prometheus.Counter {
		return prometheus.NewCounter(prometheus.CounterOpts{Name: name, Help: stats.Help(name)})
	})
	counter.Add(float64(delta))
}

// SetGauge sets a gauge metric.
func (c *Collector) SetGauge(name string, value int64) {
	gauge := getOrCreate(c, c.gauges, name, func() prometheus.Gauge {
		return prometheus.NewGauge(prometheus.GaugeOpts{Name: name, Help: stats.Help(name)})
	})
	gauge.Set(float64(value))
}

// ObserveHistogram records a value in a histogram.
func (c *Collector) ObserveHistogram(name string, value float64) {
	histogram := getOrCreate(c, c.histograms, name, func() prometheus.Histogram {
		return prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    name,
			Help:    stats.Help(name),
			Buckets: bucketsFor(name),
		})
	})
	histogram.Observe(value)
}

// Flush writes the registry to the configured textfile, if any.
func (c *Collector) Flush() error {
	if c.textfile == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(c.textfile, c.registry); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}

// getOrCreate returns the metric registered under name, creating and
// registering it on first use. A metric already registered by someone else
// under the same name is reused.
func getOrCreate[M prometheus.Collector](c *Collector, metrics map[string]M, name string, create func() M) M {
	c.mu.Lock()
	defer c.mu.Unlock()

	if m, ok := metrics[name]; ok {
		return m
	}

	m := create()
	if err := c.registry.Register(m); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(M); ok {
				metrics[name] = existing
				return existing
			}
		}
		// Registration failed; the metric still works but is not exported.
	}
	metrics[name] = m
	return m
}

// ratingBuckets cover club and online ratings in 100-point steps.
var ratingBuckets = prometheus.LinearBuckets(600, 100, 22)

func bucketsFor(name string) []float64 {
	if name == stats.MetricGameRating {
		return ratingBuckets
	}
	return prometheus.DefBuckets
}
