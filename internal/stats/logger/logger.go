// Package logger provides a zap-based stats collector that keeps running
// totals and logs them once at the end of a run.
package logger

import (
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/discochess/openingweeks/internal/stats"
)

// Collector implements stats.Collector by logging metrics via zap.
type Collector struct {
	logger *zap.Logger

	mu       sync.Mutex
	counters map[string]int64
	gauges   map[string]int64
	observed map[string]int64
}

var (
	_ stats.Collector = (*Collector)(nil)
	_ stats.Flusher   = (*Collector)(nil)
)

// New creates a new logger-based collector.
// If logger is nil, a no-op logger is used.
func New(logger *zap.Logger) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Collector{
		logger:   logger,
		counters: make(map[string]int64),
		gauges:   make(map[string]int64),
		observed: make(map[string]int64),
	}
}

// IncCounter adds delta to the running total of a counter.
func (c *Collector) IncCounter(name string, delta int64) {
	c.mu.Lock()
	c.counters[name] += delta
	c.mu.Unlock()
}

// SetGauge records the latest value of a gauge.
func (c *Collector) SetGauge(name string, value int64) {
	c.mu.Lock()
	c.gauges[name] = value
	c.mu.Unlock()
}

// ObserveHistogram counts an observation and logs it at debug level.
func (c *Collector) ObserveHistogram(name string, value float64) {
	c.mu.Lock()
	c.observed[name]++
	c.mu.Unlock()

	c.logger.Debug("histogram",
		zap.String("metric", name),
		zap.Float64("value", value),
	)
}

// Counter returns the running total of a counter.
func (c *Collector) Counter(name string) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counters[name]
}

// Flush logs every counter and gauge at info level, sorted by name.
func (c *Collector) Flush() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	fields := make([]zap.Field, 0, len(c.counters)+len(c.gauges)+len(c.observed))
	for _, name := range sortedNames(c.counters) {
		fields = append(fields, zap.Int64(name, c.counters[name]))
	}
	for _, name := range sortedNames(c.gauges) {
		fields = append(fields, zap.Int64(name, c.gauges[name]))
	}
	for _, name := range sortedNames(c.observed) {
		fields = append(fields, zap.Int64(name+"_count", c.observed[name]))
	}

	c.logger.Info("run metrics", fields...)
	return nil
}

func sortedNames(m map[string]int64) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
