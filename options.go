package openingweeks

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/discochess/openingweeks/internal/catalog"
	"github.com/discochess/openingweeks/internal/gamelog"
	"github.com/discochess/openingweeks/internal/stats"
	"github.com/discochess/openingweeks/internal/week"
)

// Columns names the game log columns holding date, moves and rating.
type Columns = gamelog.Columns

// DatePolicy decides what happens to rows whose date cannot be parsed.
type DatePolicy = gamelog.DatePolicy

const (
	// FailOnBadDate aborts the run at the first unparseable date.
	FailOnBadDate = gamelog.FailOnBadDate

	// DropBadDate skips rows with unparseable dates and counts them.
	DropBadDate = gamelog.DropBadDate
)

// Option configures an Analyzer.
type Option interface {
	apply(*options)
}

// options holds the analyzer configuration.
type options struct {
	catalog     *catalog.Catalog
	mode        Mode
	ratingScope RatingScope
	columns     gamelog.Columns
	dateFormat  string
	datePolicy  gamelog.DatePolicy
	stats       stats.Collector
	logger      *zap.Logger
}

// defaultOptions returns the default configuration.
func defaultOptions() options {
	return options{
		catalog:     catalog.Default(),
		mode:        Strict,
		ratingScope: AllGames,
		columns:     gamelog.DefaultColumns(),
		dateFormat:  week.DefaultFormat,
		datePolicy:  FailOnBadDate,
		stats:       stats.NewNoop(),
		logger:      zap.NewNop(),
	}
}

// optionFunc wraps a function to implement Option.
type optionFunc func(*options)

// Compile-time check that optionFunc implements Option.
var _ Option = optionFunc(nil)

func (f optionFunc) apply(o *options) { f(o) }

// WithCatalog sets the opening catalog.
// If not set, catalog.Default() is used.
func WithCatalog(c *catalog.Catalog) Option {
	return optionFunc(func(o *options) {
		o.catalog = c
	})
}

// WithCatalogFile loads the opening catalog from a YAML file.
func WithCatalogFile(path string) (Option, error) {
	c, err := catalog.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}
	return WithCatalog(c), nil
}

// WithMode sets how unmatched games are treated.
// Default is Strict.
func WithMode(m Mode) Option {
	return optionFunc(func(o *options) {
		o.mode = m
	})
}

// WithRatingScope sets which games the weekly mean rating covers.
// Default is AllGames.
func WithRatingScope(s RatingScope) Option {
	return optionFunc(func(o *options) {
		o.ratingScope = s
	})
}

// WithColumns sets the game log column names used by AnalyzeLog.
func WithColumns(c Columns) Option {
	return optionFunc(func(o *options) {
		o.columns = c
	})
}

// WithDateFormat sets the strftime date format used by AnalyzeLog.
// Default is "%d/%m/%y".
func WithDateFormat(format string) Option {
	return optionFunc(func(o *options) {
		o.dateFormat = format
	})
}

// WithDatePolicy sets the bad date policy used by AnalyzeLog.
// Default is FailOnBadDate.
func WithDatePolicy(p DatePolicy) Option {
	return optionFunc(func(o *options) {
		o.datePolicy = p
	})
}

// WithStats sets the stats collector.
// If not set, a no-op collector is used.
func WithStats(c stats.Collector) Option {
	return optionFunc(func(o *options) {
		o.stats = c
	})
}

// WithLogger sets the logger.
// If not set, a no-op logger is used.
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(o *options) {
		if l == nil {
			l = zap.NewNop()
		}
		o.logger = l
	})
}
