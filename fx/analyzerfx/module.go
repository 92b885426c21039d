// Package analyzerfx provides an fx module for an opening analyzer.
package analyzerfx

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/discochess/openingweeks"
	"github.com/discochess/openingweeks/internal/config"
	"github.com/discochess/openingweeks/internal/stats"
	"github.com/discochess/openingweeks/internal/stats/logger"
	"github.com/discochess/openingweeks/internal/stats/prometheus"
)

// Config holds configuration for the analyzer.
type Config struct {
	// ConfigFile is an optional YAML run configuration. Defaults are used
	// when empty.
	ConfigFile string

	// MetricsFile, when set, makes the module collect Prometheus metrics and
	// write them to this textfile on stop. Otherwise metrics are logged on
	// stop.
	MetricsFile string
}

// Module provides an *openingweeks.Analyzer and the stats.Collector it
// reports to. Requires a *zap.Logger and a Config to be provided.
var Module = fx.Module("openingweeks",
	fx.Provide(
		newStatsCollector,
		newAnalyzer,
	),
)

// CollectorParams holds dependencies for creating the stats collector.
type CollectorParams struct {
	fx.In

	Config    Config
	Logger    *zap.Logger
	Lifecycle fx.Lifecycle
}

func newStatsCollector(p CollectorParams) stats.Collector {
	var c stats.Collector
	if p.Config.MetricsFile != "" {
		c = prometheus.New(nil, prometheus.WithTextfile(p.Config.MetricsFile))
	} else {
		c = logger.New(p.Logger.Named("openingweeks.stats"))
	}

	p.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return stats.Flush(c)
		},
	})
	return c
}

// Params holds dependencies for creating the analyzer.
type Params struct {
	fx.In

	Config    Config
	Logger    *zap.Logger
	Collector stats.Collector
}

// Result holds the provided analyzer.
type Result struct {
	fx.Out

	Analyzer *openingweeks.Analyzer
}

func newAnalyzer(p Params) (Result, error) {
	cfg := config.Default()
	if p.Config.ConfigFile != "" {
		loaded, err := config.LoadFile(p.Config.ConfigFile)
		if err != nil {
			return Result{}, err
		}
		cfg = loaded
	}

	opts, err := cfg.AnalyzerOptions()
	if err != nil {
		return Result{}, err
	}
	opts = append(opts,
		openingweeks.WithStats(p.Collector),
		openingweeks.WithLogger(p.Logger.Named("openingweeks")),
	)

	a, err := openingweeks.New(opts...)
	if err != nil {
		return Result{}, err
	}
	return Result{Analyzer: a}, nil
}
