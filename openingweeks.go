// Package openingweeks classifies chess games by opening line and aggregates
// them into weekly counts and weekly mean ratings.
//
// Example usage:
//
//	a, err := openingweeks.New(
//	    openingweeks.WithMode(openingweeks.Permissive),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	f, _ := os.Open("games.csv")
//	defer f.Close()
//
//	rep, err := a.AnalyzeLog(ctx, f)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, w := range rep.Counts.Weeks() {
//	    fmt.Println(w, rep.Counts.Total(w), rep.MeanRating[w])
//	}
package openingweeks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/discochess/openingweeks/internal/aggregate"
	"github.com/discochess/openingweeks/internal/catalog"
	"github.com/discochess/openingweeks/internal/classify"
	"github.com/discochess/openingweeks/internal/gamelog"
	"github.com/discochess/openingweeks/internal/stats"
	"github.com/discochess/openingweeks/internal/week"
)

// Sentinel errors for well-defined error conditions.
var (
	// ErrNoCatalog indicates a nil catalog was configured.
	ErrNoCatalog = errors.New("openingweeks: no catalog provided")

	// ErrInvalidMode indicates a mode other than Strict or Permissive.
	ErrInvalidMode = errors.New("openingweeks: invalid mode")

	// ErrInvalidRatingScope indicates a scope other than AllGames or
	// CountedGames.
	ErrInvalidRatingScope = errors.New("openingweeks: invalid rating scope")
)

// Other is the label of unmatched games in permissive mode.
const Other = classify.Other

// Mode controls how games that match no catalog opening are treated.
type Mode = classify.Mode

const (
	// Strict leaves unmatched games out of the opening counts.
	Strict = classify.Strict

	// Permissive counts unmatched games under Other.
	Permissive = classify.Permissive
)

// RatingScope selects the games averaged into the weekly mean rating.
type RatingScope = aggregate.RatingScope

const (
	// AllGames averages every game with a rating, counted or not.
	AllGames = aggregate.AllGames

	// CountedGames averages only games assigned a catalog opening.
	CountedGames = aggregate.CountedGames
)

// GameRecord is one row of the game log.
type GameRecord = gamelog.Record

// Analyzer classifies games and builds weekly aggregates.
// An Analyzer holds only immutable configuration and is safe for concurrent
// use by multiple goroutines.
type Analyzer struct {
	classifier  *classify.Classifier
	ratingScope RatingScope
	columns     gamelog.Columns
	dateFormat  string
	datePolicy  gamelog.DatePolicy
	stats       stats.Collector
	logger      *zap.Logger
}

// New creates a new Analyzer with the given options.
// If no options are provided, the default catalog is used in strict mode.
func New(opts ...Option) (*Analyzer, error) {
	cfg := defaultOptions()
	for _, opt := range opts {
		opt.apply(&cfg)
	}

	if cfg.catalog == nil {
		return nil, ErrNoCatalog
	}
	if cfg.mode != Strict && cfg.mode != Permissive {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMode, cfg.mode)
	}
	if cfg.ratingScope != AllGames && cfg.ratingScope != CountedGames {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRatingScope, cfg.ratingScope)
	}
	if _, err := week.Layout(cfg.dateFormat); err != nil {
		return nil, err
	}

	a := &Analyzer{
		classifier:  classify.New(cfg.catalog, cfg.mode),
		ratingScope: cfg.ratingScope,
		columns:     cfg.columns,
		dateFormat:  cfg.dateFormat,
		datePolicy:  cfg.datePolicy,
		stats:       cfg.stats,
		logger:      cfg.logger.Named("analyzer"),
	}

	a.logger.Debug("analyzer initialized",
		zap.Stringer("mode", cfg.mode),
		zap.Stringer("ratingScope", cfg.ratingScope),
		zap.Int("openings", cfg.catalog.Len()),
		zap.String("dateFormat", cfg.dateFormat),
		zap.Stringer("onBadDate", cfg.datePolicy),
	)

	return a, nil
}

// Mode returns the classification mode.
func (a *Analyzer) Mode() Mode {
	return a.classifier.Mode()
}

// RatingScope returns the scope of the weekly mean rating.
func (a *Analyzer) RatingScope() RatingScope {
	return a.ratingScope
}

// Catalog returns the opening catalog.
func (a *Analyzer) Catalog() *catalog.Catalog {
	return a.classifier.Catalog()
}

// AnalyzeLog reads a CSV game log from r and analyzes it. Reader statistics
// are reported in Summary.
func (a *Analyzer) AnalyzeLog(ctx context.Context, r io.Reader) (*Report, error) {
	reader, err := gamelog.NewReader(
		gamelog.WithColumns(a.columns),
		gamelog.WithDateFormat(a.dateFormat),
		gamelog.WithDatePolicy(a.datePolicy),
		gamelog.WithLogger(a.logger),
	)
	if err != nil {
		return nil, fmt.Errorf("creating game log reader: %w", err)
	}

	records, readStats, err := reader.Read(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("reading game log: %w", err)
	}

	a.stats.IncCounter(stats.MetricRowsRead, int64(readStats.Rows))
	a.stats.IncCounter(stats.MetricRowsDropped, int64(readStats.DroppedRows))
	if readStats.DroppedRows > 0 {
		a.logger.Warn("dropped rows with unparseable dates",
			zap.Int("dropped", readStats.DroppedRows),
			zap.Int("rows", readStats.Rows),
		)
	}

	rep, err := a.Analyze(ctx, records)
	if err != nil {
		return nil, err
	}
	rep.Summary.Rows = readStats.Rows
	rep.Summary.DroppedRows = readStats.DroppedRows
	return rep, nil
}

// Analyze classifies records, assigns ISO weeks and aggregates them.
// Records are not modified. Analyzing the same records twice yields equal
// reports.
func (a *Analyzer) Analyze(ctx context.Context, records []GameRecord) (*Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()

	games := make([]ClassifiedGame, len(records))
	aggs := make([]aggregate.Game, len(records))
	var sum Summary
	sum.Games = len(records)

	for i, rec := range records {
		if i%checkEvery == 0 && i > 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		label, counted := a.classifier.Classify(rec.Moves)
		w := week.Of(rec.Date)

		switch {
		case !counted:
			sum.Excluded++
		case label == Other:
			sum.Other++
			sum.Counted++
		default:
			sum.Counted++
		}
		if rec.Rating == nil {
			sum.MissingRatings++
		} else {
			a.stats.ObserveHistogram(stats.MetricGameRating, *rec.Rating)
		}

		games[i] = ClassifiedGame{GameRecord: rec, Week: w, Opening: label}
		aggs[i] = aggregate.Game{Week: w, Opening: label, Rating: rec.Rating}
	}

	counts := aggregate.Count(aggs)
	sum.Weeks = len(counts.Weeks())
	rated := a.ratingScope.Filter(aggs, Other)

	rep := &Report{
		Mode:                a.classifier.Mode(),
		RatingScope:         a.ratingScope,
		Openings:            a.legend(counts),
		Counts:              counts,
		MeanRating:          aggregate.WeeklyMeanRating(rated),
		RatingStats:         aggregate.WeeklyRatingStats(rated),
		AverageGamesPerWeek: aggregate.AverageGamesPerWeek(counts),
		Summary:             sum,
		Games:               games,
	}
	rep.Colors = a.colors(rep.Openings)

	a.stats.IncCounter(stats.MetricGamesClassified, int64(sum.Counted-sum.Other))
	a.stats.IncCounter(stats.MetricGamesOther, int64(sum.Other))
	a.stats.IncCounter(stats.MetricGamesExcluded, int64(sum.Excluded))
	a.stats.IncCounter(stats.MetricMissingRatings, int64(sum.MissingRatings))
	a.stats.SetGauge(stats.MetricWeeksObserved, int64(sum.Weeks))
	a.stats.ObserveHistogram(stats.MetricAnalyzeSecs, time.Since(start).Seconds())

	a.logger.Info("analysis complete",
		zap.Int("games", sum.Games),
		zap.Int("counted", sum.Counted),
		zap.Int("excluded", sum.Excluded),
		zap.Int("other", sum.Other),
		zap.Int("weeks", sum.Weeks),
		zap.Duration("elapsed", time.Since(start)),
	)

	return rep, nil
}

// checkEvery is how many records are classified between context checks.
const checkEvery = 4096

// legend orders the observed openings by catalog declaration, with Other last.
func (a *Analyzer) legend(counts *aggregate.CountTable) []string {
	observed := make(map[string]bool)
	for _, o := range counts.Openings() {
		observed[o] = true
	}

	var out []string
	for _, label := range a.classifier.Labels() {
		if observed[label] {
			out = append(out, label)
		}
	}
	return out
}

func (a *Analyzer) colors(openings []string) map[string]string {
	out := make(map[string]string, len(openings))
	for _, o := range openings {
		if o == Other {
			out[o] = OtherColor
			continue
		}
		out[o] = a.classifier.Catalog().Color(o)
	}
	return out
}
