// Package gamelog reads game records from a delimited text table.
package gamelog

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/discochess/openingweeks/internal/week"
)

// Sentinel errors for well-defined error conditions.
var (
	// ErrMissingColumn indicates a configured column is absent from the header.
	ErrMissingColumn = errors.New("gamelog: missing column")

	// ErrNoHeader indicates the input has no header row.
	ErrNoHeader = errors.New("gamelog: no header row")

	// ErrUnknownPolicy indicates an unrecognised date policy name.
	ErrUnknownPolicy = errors.New("gamelog: unknown date policy")
)

// Record is a single game row.
type Record struct {
	// Row is the 1-based data row index (the header is row 0).
	Row int

	// Date is the day the game was played.
	Date time.Time

	// Moves is the raw move field; empty when absent.
	Moves string

	// Rating is nil when the field is missing or not a number.
	Rating *float64
}

// Columns names the input fields. Matching is exact after trimming spaces.
type Columns struct {
	Date   string
	Moves  string
	Rating string
}

// DefaultColumns returns the column names used by the exported game logs.
func DefaultColumns() Columns {
	return Columns{Date: "Date", Moves: "Moves", Rating: "EloRating"}
}

// DatePolicy decides what happens to rows with an unparseable date.
type DatePolicy int

const (
	// FailOnBadDate aborts the read with a *RowError.
	FailOnBadDate DatePolicy = iota

	// DropBadDate skips the row and counts it in Stats.DroppedRows.
	DropBadDate
)

// String returns the policy name.
func (p DatePolicy) String() string {
	switch p {
	case FailOnBadDate:
		return "fail"
	case DropBadDate:
		return "drop"
	default:
		return fmt.Sprintf("DatePolicy(%d)", int(p))
	}
}

// ParseDatePolicy parses "fail" or "drop".
func ParseDatePolicy(s string) (DatePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fail":
		return FailOnBadDate, nil
	case "drop":
		return DropBadDate, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
	}
}

// RowError reports a field that could not be read.
type RowError struct {
	Row   int
	Field string
	Value string
	Err   error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: field %q: value %q: %v", e.Row, e.Field, e.Value, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// Stats counts what happened while reading.
type Stats struct {
	Rows           int // Data rows seen, including dropped ones.
	DroppedRows    int // Rows skipped for an unparseable date.
	MissingMoves   int // Rows with an empty move field.
	MissingRatings int // Rows whose rating is empty or not a number.
}

// Reader decodes game records from CSV.
type Reader struct {
	columns    Columns
	dateFormat string
	policy     DatePolicy
	comma      rune
	logger     *zap.Logger
}

// Option configures a Reader.
type Option func(*Reader)

// WithColumns sets the column names.
func WithColumns(c Columns) Option {
	return func(r *Reader) { r.columns = c }
}

// WithDateFormat sets the strftime format of the date column.
func WithDateFormat(format string) Option {
	return func(r *Reader) { r.dateFormat = format }
}

// WithDatePolicy sets the policy for unparseable dates.
func WithDatePolicy(p DatePolicy) Option {
	return func(r *Reader) { r.policy = p }
}

// WithComma sets the field delimiter. Default is ','.
func WithComma(c rune) Option {
	return func(r *Reader) { r.comma = c }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(r *Reader) { r.logger = l }
}

// NewReader creates a Reader with the given options.
func NewReader(opts ...Option) (*Reader, error) {
	r := &Reader{
		columns:    DefaultColumns(),
		dateFormat: week.DefaultFormat,
		policy:     FailOnBadDate,
		comma:      ',',
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}

	if _, err := week.Layout(r.dateFormat); err != nil {
		return nil, err
	}
	if r.columns.Date == "" || r.columns.Moves == "" || r.columns.Rating == "" {
		return nil, fmt.Errorf("%w: column names must not be empty", ErrMissingColumn)
	}
	return r, nil
}

// Read decodes every record from src. With FailOnBadDate the first bad date
// aborts the read; the returned error is a *RowError.
func (r *Reader) Read(ctx context.Context, src io.Reader) ([]Record, Stats, error) {
	var stats Stats

	cr := csv.NewReader(src)
	cr.Comma = r.comma
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, stats, ErrNoHeader
		}
		return nil, stats, fmt.Errorf("reading header: %w", err)
	}
	idx, err := r.index(header)
	if err != nil {
		return nil, stats, err
	}

	var records []Record
	for row := 1; ; row++ {
		if row%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, stats, err
			}
		}

		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, stats, fmt.Errorf("row %d: %w", row, err)
		}
		stats.Rows++

		dateRaw := field(fields, idx.date)
		date, err := week.Parse(r.dateFormat, dateRaw)
		if err != nil {
			rowErr := &RowError{Row: row, Field: r.columns.Date, Value: dateRaw, Err: err}
			if r.policy == FailOnBadDate {
				return nil, stats, rowErr
			}
			stats.DroppedRows++
			r.logger.Warn("dropping row with unparseable date",
				zap.Int("row", row),
				zap.String("value", dateRaw),
				zap.Error(err),
			)
			continue
		}

		rec := Record{
			Row:   row,
			Date:  date,
			Moves: strings.TrimSpace(field(fields, idx.moves)),
		}
		if rec.Moves == "" {
			stats.MissingMoves++
		}

		ratingRaw := strings.TrimSpace(field(fields, idx.rating))
		if v, ok := parseRating(ratingRaw); ok {
			rec.Rating = &v
		} else {
			stats.MissingRatings++
			if ratingRaw != "" {
				r.logger.Debug("ignoring non-numeric rating",
					zap.Int("row", row),
					zap.String("value", ratingRaw),
				)
			}
		}

		records = append(records, rec)
	}

	r.logger.Debug("read game log",
		zap.Int("rows", stats.Rows),
		zap.Int("dropped", stats.DroppedRows),
		zap.Int("missingRatings", stats.MissingRatings),
	)
	return records, stats, nil
}

type columnIndex struct {
	date, moves, rating int
}

func (r *Reader) index(header []string) (columnIndex, error) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, dup := pos[h]; !dup {
			pos[h] = i
		}
	}

	lookup := func(name string) (int, error) {
		i, ok := pos[name]
		if !ok {
			return 0, fmt.Errorf("%w: %q", ErrMissingColumn, name)
		}
		return i, nil
	}

	var idx columnIndex
	var err error
	if idx.date, err = lookup(r.columns.Date); err != nil {
		return idx, err
	}
	if idx.moves, err = lookup(r.columns.Moves); err != nil {
		return idx, err
	}
	if idx.rating, err = lookup(r.columns.Rating); err != nil {
		return idx, err
	}
	return idx, nil
}

// field returns fields[i], or "" for short rows.
func field(fields []string, i int) string {
	if i < len(fields) {
		return fields[i]
	}
	return ""
}

func parseRating(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
