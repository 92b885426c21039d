package report

import (
	"cmp"
	"math"
	"slices"

	"github.com/discochess/openingweeks"
)

// Charts holds chart-ready series. Rendering is left to the consumer.
type Charts struct {
	// Weeks are the x-axis of the stacked bar chart and the spokes of the
	// opening radial charts.
	Weeks []int `json:"weeks"`

	// Stacked has one bar series per opening in legend order.
	Stacked []BarSeries `json:"stacked"`

	// AverageGamesPerWeek is the horizontal reference line of the bar chart.
	AverageGamesPerWeek float64 `json:"average_games_per_week"`

	// Radial has one closed polar series per opening.
	Radial []RadialSeries `json:"radial"`

	// RatingRadial is the weekly mean rating, clamped to RatingRange.
	RatingRadial RadialSeries `json:"rating_radial"`
	RatingRange  Range        `json:"rating_range"`

	// Scatter has one point per counted catalog game with a rating, ordered
	// by date.
	Scatter []Point `json:"scatter"`
}

// BarSeries is one layer of the stacked bar chart.
type BarSeries struct {
	Label  string `json:"label"`
	Color  string `json:"color,omitempty"`
	Values []int  `json:"values"`
}

// RadialSeries is a closed polar line. Angles are 2πi/n for the n weeks;
// the first point is repeated at the end to close the loop.
type RadialSeries struct {
	Label  string    `json:"label"`
	Color  string    `json:"color,omitempty"`
	Weeks  []int     `json:"weeks"`
	Angles []float64 `json:"angles"`
	Values []float64 `json:"values"`
}

// Point is one game in the rating scatter plot.
type Point struct {
	Row     int     `json:"row"`
	Date    string  `json:"date"`
	Week    int     `json:"week"`
	Rating  float64 `json:"rating"`
	Opening string  `json:"opening"`
	Color   string  `json:"color,omitempty"`
}

// NewCharts derives chart series from rep. Mean ratings are clamped to
// ratingRange for display only; the report itself is not modified.
func NewCharts(rep *openingweeks.Report, ratingRange Range) Charts {
	weeks := rep.Counts.Weeks()
	rows := rep.Counts.Dense(rep.Openings)

	c := Charts{
		Weeks:               weeks,
		Stacked:             make([]BarSeries, len(rep.Openings)),
		AverageGamesPerWeek: rep.AverageGamesPerWeek,
		Radial:              make([]RadialSeries, len(rep.Openings)),
		RatingRange:         ratingRange,
	}

	for j, opening := range rep.Openings {
		counts := make([]int, len(weeks))
		values := make([]float64, len(weeks))
		for i := range weeks {
			counts[i] = rows[i][j]
			values[i] = float64(rows[i][j])
		}
		color := rep.Colors[opening]
		c.Stacked[j] = BarSeries{Label: opening, Color: color, Values: counts}
		c.Radial[j] = radial(opening, color, weeks, values)
	}

	ratingWeeks := rep.MeanRating.Weeks()
	means := make([]float64, len(ratingWeeks))
	for i, w := range ratingWeeks {
		means[i] = ratingRange.Clamp(rep.MeanRating[w])
	}
	c.RatingRadial = radial("Average rating", "#000000", ratingWeeks, means)

	c.Scatter = scatter(rep)
	return c
}

// radial closes values over evenly spaced angles. Empty input yields empty
// slices, not a single closing point.
func radial(label, color string, weeks []int, values []float64) RadialSeries {
	s := RadialSeries{
		Label:  label,
		Color:  color,
		Weeks:  weeks,
		Angles: make([]float64, 0, len(values)+1),
		Values: make([]float64, 0, len(values)+1),
	}
	n := len(values)
	if n == 0 {
		return s
	}
	for i, v := range values {
		s.Angles = append(s.Angles, 2*math.Pi*float64(i)/float64(n))
		s.Values = append(s.Values, v)
	}
	s.Angles = append(s.Angles, s.Angles[0])
	s.Values = append(s.Values, s.Values[0])
	return s
}

func scatter(rep *openingweeks.Report) []Point {
	var points []Point
	for _, g := range rep.Games {
		if !g.Counted() || g.Opening == openingweeks.Other || g.Rating == nil {
			continue
		}
		points = append(points, Point{
			Row:     g.Row,
			Date:    g.Date.Format("2006-01-02"),
			Week:    g.Week,
			Rating:  *g.Rating,
			Opening: g.Opening,
			Color:   rep.Colors[g.Opening],
		})
	}
	slices.SortStableFunc(points, func(a, b Point) int {
		return cmp.Or(cmp.Compare(a.Date, b.Date), cmp.Compare(a.Row, b.Row))
	})
	return points
}
