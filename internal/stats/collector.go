// Package stats provides a unified interface for collecting pipeline metrics.
package stats

// Metric names used throughout the pipeline.
const (
	// Input metrics.
	MetricRowsRead       = "openingweeks_rows_read_total"
	MetricRowsDropped    = "openingweeks_rows_dropped_total"
	MetricMissingRatings = "openingweeks_ratings_missing_total"

	// Classification metrics.
	MetricGamesClassified = "openingweeks_games_classified_total"
	MetricGamesOther      = "openingweeks_games_other_total"
	MetricGamesExcluded   = "openingweeks_games_excluded_total"

	// Aggregate metrics.
	MetricWeeksObserved = "openingweeks_weeks_observed"
	MetricGameRating    = "openingweeks_game_rating"
	MetricAnalyzeSecs   = "openingweeks_analyze_seconds"
)

// Help returns a description for a known metric name, or the name itself.
func Help(name string) string {
	if h, ok := help[name]; ok {
		return h
	}
	return name
}

var help = map[string]string{
	MetricRowsRead:        "Data rows read from the game log.",
	MetricRowsDropped:     "Rows dropped for an unparseable date.",
	MetricMissingRatings:  "Games whose rating was missing or not a number.",
	MetricGamesClassified: "Games matched to a catalog opening.",
	MetricGamesOther:      "Unmatched games kept under the fallback label.",
	MetricGamesExcluded:   "Unmatched games excluded from opening counts.",
	MetricWeeksObserved:   "Distinct ISO weeks in the opening count table.",
	MetricGameRating:      "Distribution of game ratings.",
	MetricAnalyzeSecs:     "Time spent classifying and aggregating.",
}

// Collector defines the interface for collecting metrics.
type Collector interface {
	// IncCounter increments a counter metric by delta.
	IncCounter(name string, delta int64)

	// SetGauge sets a gauge metric to value.
	SetGauge(name string, value int64)

	// ObserveHistogram records a value in a histogram metric.
	ObserveHistogram(name string, value float64)
}

// Flusher is implemented by collectors that buffer values and can emit them
// at the end of a run.
type Flusher interface {
	Flush() error
}

// Flush calls Flush on c if it implements Flusher.
func Flush(c Collector) error {
	if f, ok := c.(Flusher); ok {
		return f.Flush()
	}
	return nil
}
