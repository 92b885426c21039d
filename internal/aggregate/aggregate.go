// Package aggregate builds weekly opening counts and rating averages from
// classified games.
//
// Every function here is pure: results depend only on the multiset of input
// games, not on their order, and inputs are never modified.
package aggregate

import (
	"slices"

	"gonum.org/v1/gonum/stat"
)

// Game is the aggregation view of a classified game.
type Game struct {
	// Week is the ISO-8601 week number.
	Week int

	// Opening is the assigned label. Empty means the game is excluded from
	// the count table but still contributes to rating averages.
	Opening string

	// Rating is nil when the rating is missing.
	Rating *float64
}

// Key identifies a cell of the count table.
type Key struct {
	Week    int
	Opening string
}

// CountTable holds game counts per (week, opening).
// Unobserved combinations read as zero.
type CountTable struct {
	cells    map[Key]int
	weeks    []int
	openings []string
}

// Count builds the count table from games with a non-empty opening.
func Count(games []Game) *CountTable {
	t := &CountTable{cells: make(map[Key]int)}
	weekSet := make(map[int]struct{})
	openingSet := make(map[string]struct{})

	for _, g := range games {
		if g.Opening == "" {
			continue
		}
		t.cells[Key{Week: g.Week, Opening: g.Opening}]++
		weekSet[g.Week] = struct{}{}
		openingSet[g.Opening] = struct{}{}
	}

	t.weeks = sortedKeys(weekSet)
	t.openings = sortedKeys(openingSet)
	return t
}

// Get returns the count for week and opening, zero if unobserved.
func (t *CountTable) Get(week int, opening string) int {
	return t.cells[Key{Week: week, Opening: opening}]
}

// Weeks returns the observed weeks in ascending order.
func (t *CountTable) Weeks() []int {
	return slices.Clone(t.weeks)
}

// Openings returns the observed openings in ascending order.
func (t *CountTable) Openings() []string {
	return slices.Clone(t.openings)
}

// Keys returns every observed (week, opening) pair, ordered by week then
// opening.
func (t *CountTable) Keys() []Key {
	keys := make([]Key, 0, len(t.cells))
	for k := range t.cells {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b Key) int {
		if a.Week != b.Week {
			return a.Week - b.Week
		}
		switch {
		case a.Opening < b.Opening:
			return -1
		case a.Opening > b.Opening:
			return 1
		}
		return 0
	})
	return keys
}

// Total returns the number of counted games in week.
func (t *CountTable) Total(week int) int {
	var n int
	for _, o := range t.openings {
		n += t.Get(week, o)
	}
	return n
}

// OpeningTotal returns the number of counted games with opening across all
// weeks.
func (t *CountTable) OpeningTotal(opening string) int {
	var n int
	for _, w := range t.weeks {
		n += t.Get(w, opening)
	}
	return n
}

// Len returns the number of counted games.
func (t *CountTable) Len() int {
	var n int
	for _, c := range t.cells {
		n += c
	}
	return n
}

// Empty reports whether no game was counted.
func (t *CountTable) Empty() bool {
	return len(t.cells) == 0
}

// Dense returns a zero-filled matrix with one row per observed week and one
// column per entry of columns. Passing nil uses Openings().
func (t *CountTable) Dense(columns []string) [][]int {
	if columns == nil {
		columns = t.openings
	}
	rows := make([][]int, len(t.weeks))
	for i, w := range t.weeks {
		row := make([]int, len(columns))
		for j, o := range columns {
			row[j] = t.Get(w, o)
		}
		rows[i] = row
	}
	return rows
}

// WeeklyMean maps week number to mean rating.
type WeeklyMean map[int]float64

// Weeks returns the weeks present in m in ascending order.
func (m WeeklyMean) Weeks() []int {
	weeks := make([]int, 0, len(m))
	for w := range m {
		weeks = append(weeks, w)
	}
	slices.Sort(weeks)
	return weeks
}

// WeeklyMeanRating returns the unweighted mean rating per week over every
// game with a rating, counted or not. Weeks without ratings have no entry.
func WeeklyMeanRating(games []Game) WeeklyMean {
	byWeek := ratingsByWeek(games)
	out := make(WeeklyMean, len(byWeek))
	for w, rs := range byWeek {
		out[w] = stat.Mean(rs, nil)
	}
	return out
}

// RatingStats summarises the ratings of one week.
type RatingStats struct {
	N      int
	Mean   float64
	StdDev float64 // Sample standard deviation; zero when N < 2.
	Min    float64
	Max    float64
}

// WeeklyRatingStats returns rating statistics per week. Weeks without ratings
// have no entry.
func WeeklyRatingStats(games []Game) map[int]RatingStats {
	byWeek := ratingsByWeek(games)
	out := make(map[int]RatingStats, len(byWeek))
	for w, rs := range byWeek {
		s := RatingStats{
			N:    len(rs),
			Mean: stat.Mean(rs, nil),
			Min:  slices.Min(rs),
			Max:  slices.Max(rs),
		}
		if len(rs) > 1 {
			s.StdDev = stat.StdDev(rs, nil)
		}
		out[w] = s
	}
	return out
}

// AverageGamesPerWeek returns the mean number of counted games over the
// observed weeks, or zero for an empty table.
func AverageGamesPerWeek(t *CountTable) float64 {
	if len(t.weeks) == 0 {
		return 0
	}
	totals := make([]float64, len(t.weeks))
	for i, w := range t.weeks {
		totals[i] = float64(t.Total(w))
	}
	return stat.Mean(totals, nil)
}

// ratingsByWeek groups ratings by week. Ratings are sorted within each week so
// that floating point sums do not depend on input order.
func ratingsByWeek(games []Game) map[int][]float64 {
	byWeek := make(map[int][]float64)
	for _, g := range games {
		if g.Rating == nil {
			continue
		}
		byWeek[g.Week] = append(byWeek[g.Week], *g.Rating)
	}
	for _, rs := range byWeek {
		slices.Sort(rs)
	}
	return byWeek
}

func sortedKeys[K int | string](set map[K]struct{}) []K {
	keys := make([]K, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
