package openingweeks

import (
	"slices"

	"github.com/discochess/openingweeks/internal/aggregate"
)

// OtherColor is the legend color of the Other label.
const OtherColor = "#9E9E9E"

// ClassifiedGame is a game record with its derived week and label.
type ClassifiedGame struct {
	GameRecord

	// Week is the ISO-8601 week of the game date.
	Week int

	// Opening is a catalog name, Other, or empty when the game was excluded
	// in strict mode.
	Opening string
}

// Counted reports whether the game contributes to the opening counts.
func (g ClassifiedGame) Counted() bool {
	return g.Opening != ""
}

// Summary holds run totals.
type Summary struct {
	// Rows and DroppedRows are set by AnalyzeLog; Analyze leaves them zero.
	Rows        int
	DroppedRows int

	Games          int
	Counted        int
	Excluded       int
	Other          int
	MissingRatings int
	Weeks          int
}

// Report is the result of one analysis run.
type Report struct {
	Mode        Mode
	RatingScope RatingScope

	// Openings lists the labels present in Counts in legend order: catalog
	// declaration order, then Other.
	Openings []string

	// Colors maps each label in Openings to its legend color. A catalog entry
	// without a color maps to "".
	Colors map[string]string

	Counts              *aggregate.CountTable
	MeanRating          aggregate.WeeklyMean
	RatingStats         map[int]aggregate.RatingStats
	AverageGamesPerWeek float64

	Summary Summary
	Games   []ClassifiedGame
}

// Weeks returns every week with either counted games or ratings, ascending.
func (r *Report) Weeks() []int {
	seen := make(map[int]bool)
	var weeks []int
	for _, w := range r.Counts.Weeks() {
		seen[w] = true
		weeks = append(weeks, w)
	}
	for _, w := range r.MeanRating.Weeks() {
		if !seen[w] {
			weeks = append(weeks, w)
		}
	}
	slices.Sort(weeks)
	return weeks
}
