package aggregate

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func rating(v float64) *float64 { return &v }

func sampleGames() []Game {
	return []Game{
		{Week: 5, Opening: "Italian Game", Rating: rating(1000)},
		{Week: 5, Opening: "Italian Game", Rating: rating(1100)},
		{Week: 5, Opening: "Ruy Lopez", Rating: rating(1200)},
		{Week: 6, Opening: "Ruy Lopez", Rating: rating(950)},
		{Week: 6, Opening: "", Rating: rating(1050)},
		{Week: 7, Opening: "Other", Rating: nil},
		{Week: 8, Opening: "", Rating: rating(1333.5)},
	}
}

func TestCount(t *testing.T) {
	table := Count(sampleGames())

	if diff := cmp.Diff([]int{5, 6, 7}, table.Weeks()); diff != "" {
		t.Errorf("Weeks() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Italian Game", "Other", "Ruy Lopez"}, table.Openings()); diff != "" {
		t.Errorf("Openings() mismatch (-want +got):\n%s", diff)
	}

	tests := []struct {
		week    int
		opening string
		want    int
	}{
		{5, "Italian Game", 2},
		{5, "Ruy Lopez", 1},
		{6, "Ruy Lopez", 1},
		{6, "Italian Game", 0},
		{7, "Other", 1},
		{8, "Other", 0},
		{42, "Vienna Game", 0},
	}
	for _, tt := range tests {
		if got := table.Get(tt.week, tt.opening); got != tt.want {
			t.Errorf("Get(%d, %q) = %d, want %d", tt.week, tt.opening, got, tt.want)
		}
	}

	if table.Len() != 5 {
		t.Errorf("Len() = %d, want 5", table.Len())
	}
	if table.Total(5) != 3 {
		t.Errorf("Total(5) = %d, want 3", table.Total(5))
	}
	if table.OpeningTotal("Ruy Lopez") != 2 {
		t.Errorf("OpeningTotal(Ruy Lopez) = %d, want 2", table.OpeningTotal("Ruy Lopez"))
	}
}

func TestCount_Keys(t *testing.T) {
	want := []Key{
		{5, "Italian Game"},
		{5, "Ruy Lopez"},
		{6, "Ruy Lopez"},
		{7, "Other"},
	}
	if diff := cmp.Diff(want, Count(sampleGames()).Keys()); diff != "" {
		t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
	}
}

func TestCount_Dense(t *testing.T) {
	table := Count(sampleGames())

	got := table.Dense([]string{"Ruy Lopez", "Italian Game", "Vienna Game"})
	want := [][]int{
		{1, 2, 0},
		{1, 0, 0},
		{0, 0, 0},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Dense() mismatch (-want +got):\n%s", diff)
	}

	if rows := table.Dense(nil); len(rows) != 3 || len(rows[0]) != 3 {
		t.Errorf("Dense(nil) shape = %dx%d, want 3x3", len(rows), len(rows[0]))
	}
}

func TestCount_Empty(t *testing.T) {
	table := Count(nil)
	if !table.Empty() {
		t.Error("Empty() = false for no games")
	}
	if len(table.Weeks()) != 0 || len(table.Openings()) != 0 {
		t.Error("empty table should have no weeks or openings")
	}
	if AverageGamesPerWeek(table) != 0 {
		t.Errorf("AverageGamesPerWeek() = %v, want 0", AverageGamesPerWeek(table))
	}
}

func TestCount_PermutationInvariant(t *testing.T) {
	games := sampleGames()
	for i := 0; i < 40; i++ {
		games = append(games, Game{Week: 1 + i%4, Opening: []string{"A", "B", "C"}[i%3], Rating: rating(float64(900 + i))})
	}

	want := Count(games)
	rng := rand.New(rand.NewSource(1))
	for trial := 0; trial < 20; trial++ {
		shuffled := append([]Game(nil), games...)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

		got := Count(shuffled)
		if diff := cmp.Diff(want.Keys(), got.Keys()); diff != "" {
			t.Fatalf("trial %d: Keys() differ (-want +got):\n%s", trial, diff)
		}
		for _, k := range want.Keys() {
			if want.Get(k.Week, k.Opening) != got.Get(k.Week, k.Opening) {
				t.Fatalf("trial %d: count for %v differs", trial, k)
			}
		}
		if diff := cmp.Diff(WeeklyMeanRating(games), WeeklyMeanRating(shuffled)); diff != "" {
			t.Fatalf("trial %d: WeeklyMeanRating differs (-want +got):\n%s", trial, diff)
		}
	}
}

func TestWeeklyMeanRating(t *testing.T) {
	games := []Game{
		{Week: 5, Opening: "Italian Game", Rating: rating(1000)},
		{Week: 5, Opening: "", Rating: rating(1100)},
		{Week: 5, Opening: "Other", Rating: rating(1200)},
	}

	got := WeeklyMeanRating(games)
	if diff := cmp.Diff(WeeklyMean{5: 1100}, got); diff != "" {
		t.Errorf("WeeklyMeanRating() mismatch (-want +got):\n%s", diff)
	}
}

func TestWeeklyMeanRating_MissingRatings(t *testing.T) {
	got := WeeklyMeanRating(sampleGames())

	if _, ok := got[7]; ok {
		t.Error("week 7 has no ratings and should have no entry")
	}
	want := WeeklyMean{5: 1100, 6: 1000, 8: 1333.5}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("WeeklyMeanRating() mismatch (-want +got):\n%s", diff)
	}
	for w, v := range got {
		if math.IsNaN(v) {
			t.Errorf("week %d mean is NaN", w)
		}
	}
	if diff := cmp.Diff([]int{5, 6, 8}, got.Weeks()); diff != "" {
		t.Errorf("Weeks() mismatch (-want +got):\n%s", diff)
	}
}

func TestWeeklyMeanRating_Empty(t *testing.T) {
	if got := WeeklyMeanRating(nil); len(got) != 0 {
		t.Errorf("WeeklyMeanRating(nil) = %v, want empty", got)
	}
}

func TestWeeklyRatingStats(t *testing.T) {
	got := WeeklyRatingStats(sampleGames())

	w5 := got[5]
	if w5.N != 3 || w5.Mean != 1100 || w5.Min != 1000 || w5.Max != 1200 {
		t.Errorf("week 5 stats = %+v", w5)
	}
	if w5.StdDev != 100 {
		t.Errorf("week 5 StdDev = %v, want 100", w5.StdDev)
	}
	if w8 := got[8]; w8.N != 1 || w8.StdDev != 0 {
		t.Errorf("week 8 stats = %+v, want N=1 StdDev=0", w8)
	}
	if _, ok := got[7]; ok {
		t.Error("week 7 should have no stats")
	}
}

func TestAverageGamesPerWeek(t *testing.T) {
	// Weeks 5, 6, 7 hold 3, 1 and 1 counted games.
	got := AverageGamesPerWeek(Count(sampleGames()))
	if want := 5.0 / 3.0; math.Abs(got-want) > 1e-12 {
		t.Errorf("AverageGamesPerWeek() = %v, want %v", got, want)
	}
}

func TestIdempotent(t *testing.T) {
	games := sampleGames()
	a, b := Count(games), Count(games)
	if diff := cmp.Diff(a.Dense(nil), b.Dense(nil)); diff != "" {
		t.Errorf("Count not idempotent:\n%s", diff)
	}
	if diff := cmp.Diff(WeeklyMeanRating(games), WeeklyMeanRating(games)); diff != "" {
		t.Errorf("WeeklyMeanRating not idempotent:\n%s", diff)
	}
}

func TestWeeklyMeanRating_Scope(t *testing.T) {
	games := []Game{
		{Week: 5, Opening: "Italian Game", Rating: rating(1000)},
		{Week: 5, Opening: "Ruy Lopez", Rating: rating(1200)},
		{Week: 5, Opening: "", Rating: rating(1700)},
		{Week: 5, Opening: "Other", Rating: rating(1500)},
		{Week: 6, Opening: "", Rating: rating(900)},
	}

	tests := []struct {
		scope RatingScope
		want  WeeklyMean
	}{
		{AllGames, WeeklyMean{5: 1350, 6: 900}},
		{CountedGames, WeeklyMean{5: 1100}},
	}
	for _, tt := range tests {
		t.Run(tt.scope.String(), func(t *testing.T) {
			got := WeeklyMeanRating(tt.scope.Filter(games, "Other"))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("WeeklyMeanRating() mismatch (-want +got):\n%s", diff)
			}
		})
	}

	if len(games) != 5 || games[2].Opening != "" {
		t.Error("Filter modified its input")
	}
}

func TestParseRatingScope(t *testing.T) {
	if s, err := ParseRatingScope("Counted"); err != nil || s != CountedGames {
		t.Errorf("ParseRatingScope(Counted) = %v, %v", s, err)
	}
	if s, err := ParseRatingScope("all"); err != nil || s != AllGames {
		t.Errorf("ParseRatingScope(all) = %v, %v", s, err)
	}
	if _, err := ParseRatingScope("classified"); !errors.Is(err, ErrUnknownScope) {
		t.Errorf("ParseRatingScope(classified) error = %v, want ErrUnknownScope", err)
	}
}
