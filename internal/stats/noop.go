package stats

// Noop discards all metrics. It is the default for library callers that do
// not configure a collector.
type Noop struct{}

var _ Collector = Noop{}

// NewNoop returns a no-op collector.
func NewNoop() Noop {
	return Noop{}
}

func (Noop) IncCounter(string, int64)         {}
func (Noop) SetGauge(string, int64)           {}
func (Noop) ObserveHistogram(string, float64) {}
