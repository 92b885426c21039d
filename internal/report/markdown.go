package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/discochess/openingweeks"
)

// MarkdownReport writes an analysis report in Markdown format.
type MarkdownReport struct {
	w io.Writer
}

// NewMarkdownReport creates a new Markdown report writer.
func NewMarkdownReport(w io.Writer) *MarkdownReport {
	return &MarkdownReport{w: w}
}

// WriteMarkdown writes the full report: header, summary, opening counts and
// weekly ratings.
func WriteMarkdown(w io.Writer, rep *openingweeks.Report, meta Meta) {
	r := NewMarkdownReport(w)
	r.WriteHeader(meta)
	r.WriteSummary(rep)
	r.WriteCountTable(rep)
	r.WriteRatingTable(rep)
}

// WriteHeader writes the report title and run details.
func (r *MarkdownReport) WriteHeader(meta Meta) {
	fmt.Fprintf(r.w, "# %s\n\n", meta.title())
	if !meta.Generated.IsZero() {
		fmt.Fprintf(r.w, "Generated: %s\n\n", meta.Generated.UTC().Format(time.RFC3339))
	}
	if meta.Input != "" {
		fmt.Fprintf(r.w, "Input: `%s`\n\n", meta.Input)
	}
}

// WriteSummary writes the run totals.
func (r *MarkdownReport) WriteSummary(rep *openingweeks.Report) {
	s := rep.Summary
	fmt.Fprintln(r.w, "## Summary")
	fmt.Fprintln(r.w)
	fmt.Fprintf(r.w, "- **Mode:** %s\n", rep.Mode)
	if s.Rows > 0 {
		fmt.Fprintf(r.w, "- **Rows read:** %d (%d dropped for bad dates)\n", s.Rows, s.DroppedRows)
	}
	fmt.Fprintf(r.w, "- **Games analyzed:** %d\n", s.Games)
	fmt.Fprintf(r.w, "- **Counted:** %d\n", s.Counted)
	switch rep.Mode {
	case openingweeks.Strict:
		fmt.Fprintf(r.w, "- **Excluded (no catalog match):** %d\n", s.Excluded)
	case openingweeks.Permissive:
		fmt.Fprintf(r.w, "- **Counted as %s:** %d\n", openingweeks.Other, s.Other)
	}
	fmt.Fprintf(r.w, "- **Missing ratings:** %d\n", s.MissingRatings)
	switch rep.RatingScope {
	case openingweeks.CountedGames:
		fmt.Fprintln(r.w, "- **Mean rating over:** catalog openings only")
	default:
		fmt.Fprintln(r.w, "- **Mean rating over:** all games")
	}
	fmt.Fprintf(r.w, "- **Weeks:** %d\n", s.Weeks)
	fmt.Fprintf(r.w, "- **Average games per week:** %.2f\n", rep.AverageGamesPerWeek)
	fmt.Fprintln(r.w)
}

// WriteCountTable writes the week by opening count table in legend order.
func (r *MarkdownReport) WriteCountTable(rep *openingweeks.Report) {
	fmt.Fprintln(r.w, "## Openings by week")
	fmt.Fprintln(r.w)

	if rep.Counts.Empty() {
		fmt.Fprintln(r.w, "_No counted games._")
		fmt.Fprintln(r.w)
		return
	}

	fmt.Fprintf(r.w, "| Week | %s | Total |\n", strings.Join(rep.Openings, " | "))
	fmt.Fprintf(r.w, "|------|%s-------|\n", strings.Repeat("---:|", len(rep.Openings)))

	rows := rep.Counts.Dense(rep.Openings)
	for i, w := range rep.Counts.Weeks() {
		cells := make([]string, len(rows[i]))
		for j, n := range rows[i] {
			cells[j] = fmt.Sprint(n)
		}
		fmt.Fprintf(r.w, "| %d | %s | %d |\n", w, strings.Join(cells, " | "), rep.Counts.Total(w))
	}
	fmt.Fprintln(r.w)
}

// WriteRatingTable writes per-week rating statistics.
func (r *MarkdownReport) WriteRatingTable(rep *openingweeks.Report) {
	fmt.Fprintln(r.w, "## Rating by week")
	fmt.Fprintln(r.w)

	weeks := rep.MeanRating.Weeks()
	if len(weeks) == 0 {
		fmt.Fprintln(r.w, "_No ratings._")
		fmt.Fprintln(r.w)
		return
	}

	fmt.Fprintln(r.w, "| Week | Rated games | Mean | Std Dev | Min | Max |")
	fmt.Fprintln(r.w, "|------|------------:|-----:|--------:|----:|----:|")
	for _, w := range weeks {
		s := rep.RatingStats[w]
		fmt.Fprintf(r.w, "| %d | %d | %.1f | %.1f | %.0f | %.0f |\n",
			w, s.N, rep.MeanRating[w], s.StdDev, s.Min, s.Max)
	}
	fmt.Fprintln(r.w)
}
