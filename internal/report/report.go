// Package report renders analysis results as markdown, CSV tables, chart
// series and a run manifest, and publishes them to a directory or GCS.
package report

import (
	"errors"
	"fmt"
	"time"
)

// Artifact file names, before any codec extension.
const (
	MarkdownFile = "report.md"
	CountsFile   = "counts.csv"
	RatingsFile  = "ratings.csv"
	ChartsFile   = "charts.json"
	ManifestFile = "manifest.json"
)

// ErrInvalidRange indicates a rating range with Min >= Max.
var ErrInvalidRange = errors.New("report: invalid rating range")

// Range is the display range of the rating radial chart. The zero Range
// disables clamping.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// DefaultRange is the rating display range of the original charts.
var DefaultRange = Range{Min: 800, Max: 1100}

// IsZero reports whether r disables clamping.
func (r Range) IsZero() bool {
	return r.Min == 0 && r.Max == 0
}

// Validate returns an error unless r is zero or Min < Max.
func (r Range) Validate() error {
	if r.IsZero() || r.Min < r.Max {
		return nil
	}
	return fmt.Errorf("%w: min %v must be below max %v", ErrInvalidRange, r.Min, r.Max)
}

// Clamp limits v to r. A zero Range returns v unchanged.
func (r Range) Clamp(v float64) float64 {
	if r.IsZero() {
		return v
	}
	return min(max(v, r.Min), r.Max)
}

// Meta describes the run a report belongs to.
type Meta struct {
	Title       string
	Input       string
	Generated   time.Time
	RatingRange Range
}

func (m Meta) title() string {
	if m.Title == "" {
		return "Opening weeks"
	}
	return m.Title
}
