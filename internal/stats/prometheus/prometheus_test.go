package prometheus

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/discochess/openingweeks/internal/stats"
)

func TestNew_NilRegistry(t *testing.T) {
	c := New(nil)
	if c.Registry() == nil {
		t.Fatal("Registry() should not be nil")
	}
}

func TestCollector_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(reg)

	c.IncCounter(stats.MetricRowsRead, 5)
	c.IncCounter(stats.MetricRowsRead, 3)
	c.SetGauge(stats.MetricWeeksObserved, 12)
	c.ObserveHistogram(stats.MetricGameRating, 950)
	c.ObserveHistogram(stats.MetricGameRating, 1420)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}

	found := map[string]bool{}
	for _, mf := range families {
		found[mf.GetName()] = true
		if len(mf.GetMetric()) == 0 {
			t.Errorf("%s has no metrics", mf.GetName())
			continue
		}
		m := mf.GetMetric()[0]
		switch mf.GetName() {
		case stats.MetricRowsRead:
			if v := m.GetCounter().GetValue(); v != 8 {
				t.Errorf("counter = %v, want 8", v)
			}
			if mf.GetHelp() != stats.Help(stats.MetricRowsRead) {
				t.Errorf("help = %q", mf.GetHelp())
			}
		case stats.MetricWeeksObserved:
			if v := m.GetGauge().GetValue(); v != 12 {
				t.Errorf("gauge = %v, want 12", v)
			}
		case stats.MetricGameRating:
			h := m.GetHistogram()
			if h.GetSampleCount() != 2 || h.GetSampleSum() != 2370 {
				t.Errorf("histogram count=%d sum=%v", h.GetSampleCount(), h.GetSampleSum())
			}
			if len(h.GetBucket()) < len(ratingBuckets) {
				t.Errorf("histogram has %d buckets, want %d", len(h.GetBucket()), len(ratingBuckets))
			}
		}
	}

	for _, name := range []string{stats.MetricRowsRead, stats.MetricWeeksObserved, stats.MetricGameRating} {
		if !found[name] {
			t.Errorf("%s not found in registry", name)
		}
	}
}

func TestCollector_AlreadyRegistered(t *testing.T) {
	reg := prometheus.NewRegistry()
	existing := prometheus.NewCounter(prometheus.CounterOpts{
		Name: stats.MetricGamesOther,
		Help: stats.Help(stats.MetricGamesOther),
	})
	reg.MustRegister(existing)
	existing.Add(100)

	c := New(reg)
	c.IncCounter(stats.MetricGamesOther, 5)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	for _, mf := range families {
		if mf.GetName() == stats.MetricGamesOther {
			if v := mf.GetMetric()[0].GetCounter().GetValue(); v != 105 {
				t.Errorf("counter = %v, want 105", v)
			}
		}
	}
}

func TestCollector_ConcurrentAccess(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(reg)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.IncCounter("concurrent_counter", 1)
				c.ObserveHistogram("concurrent_histogram", float64(j))
			}
		}()
	}
	wg.Wait()

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	for _, mf := range families {
		switch mf.GetName() {
		case "concurrent_counter":
			if v := mf.GetMetric()[0].GetCounter().GetValue(); v != 1000 {
				t.Errorf("counter = %v, want 1000", v)
			}
		case "concurrent_histogram":
			if n := mf.GetMetric()[0].GetHistogram().GetSampleCount(); n != 1000 {
				t.Errorf("histogram count = %v, want 1000", n)
			}
		}
	}
}

func TestCollector_FlushTextfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "openingweeks.prom")
	c := New(nil, WithTextfile(path))
	c.IncCounter(stats.MetricGamesClassified, 42)

	if err := stats.Flush(c); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.Contains(string(data), stats.MetricGamesClassified+" 42") {
		t.Errorf("textfile missing counter:\n%s", data)
	}
}

func TestCollector_FlushWithoutTextfile(t *testing.T) {
	if err := New(nil).Flush(); err != nil {
		t.Errorf("Flush() error = %v", err)
	}
}
