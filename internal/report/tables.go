package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/discochess/openingweeks"
)

// WriteCountsCSV writes the dense count table: one row per counted week, one
// column per opening in legend order.
func WriteCountsCSV(w io.Writer, rep *openingweeks.Report) error {
	cw := csv.NewWriter(w)

	header := append([]string{"Week"}, rep.Openings...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	rows := rep.Counts.Dense(rep.Openings)
	for i, week := range rep.Counts.Weeks() {
		record := make([]string, 0, len(header))
		record = append(record, strconv.Itoa(week))
		for _, n := range rows[i] {
			record = append(record, strconv.Itoa(n))
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing week %d: %w", week, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteRatingsCSV writes per-week rating statistics for weeks with ratings.
func WriteRatingsCSV(w io.Writer, rep *openingweeks.Report) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"Week", "N", "Mean", "StdDev", "Min", "Max"}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, week := range rep.MeanRating.Weeks() {
		s := rep.RatingStats[week]
		record := []string{
			strconv.Itoa(week),
			strconv.Itoa(s.N),
			formatFloat(rep.MeanRating[week]),
			formatFloat(s.StdDev),
			formatFloat(s.Min),
			formatFloat(s.Max),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing week %d: %w", week, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
