// Package week parses game dates and assigns ISO-8601 week numbers.
package week

import (
	"errors"
	"fmt"
	"strings"
	"time"

	strftime "github.com/ncruces/go-strftime"
)

// DefaultFormat is the strftime format of the date column: day/month/2-digit year.
const DefaultFormat = "%d/%m/%y"

// ErrInvalidFormat indicates a date format that cannot be used for parsing.
var ErrInvalidFormat = errors.New("week: invalid date format")

// Layout validates a strftime format and returns the equivalent Go layout.
func Layout(format string) (string, error) {
	if strings.TrimSpace(format) == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidFormat)
	}
	layout, err := strftime.Layout(format)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrInvalidFormat, format, err)
	}
	return layout, nil
}

// Parse parses value using a strftime format. Surrounding whitespace is ignored.
func Parse(format, value string) (time.Time, error) {
	return strftime.Parse(format, strings.TrimSpace(value))
}

// Of returns the ISO-8601 week number of t, in [1, 53]. Week 1 is the week
// containing the first Thursday of the year; weeks run Monday to Sunday.
func Of(t time.Time) int {
	_, w := t.ISOWeek()
	return w
}
