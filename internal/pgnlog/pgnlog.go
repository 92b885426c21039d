// Package pgnlog converts PGN game collections into the CSV game log format
// read by gamelog.
package pgnlog

import (
	"bufio"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/notnil/chess"
	"go.uber.org/zap"

	"github.com/discochess/openingweeks/internal/gamelog"
	"github.com/discochess/openingweeks/internal/week"
)

// pgnDateLayout is the layout of the PGN Date tag.
const pgnDateLayout = "2006.01.02"

// Stats describes a conversion run.
type Stats struct {
	Games       int
	Written     int
	SkippedDate int // Missing or partial Date tag.
	SkippedPGN  int // Movetext that does not parse.
	SkippedUser int // Player not in the game.
	SkippedYear int // Date the output format cannot represent, such as 1950 with %y.
}

// Converter writes one game log row per PGN game.
type Converter struct {
	player     string
	columns    gamelog.Columns
	dateFormat string
	logger     *zap.Logger
}

// Option configures a Converter.
type Option func(*Converter)

// WithPlayer keeps only games played by name and records that player's
// rating. Without it every game is kept with White's rating.
func WithPlayer(name string) Option {
	return func(c *Converter) { c.player = name }
}

// WithColumns sets the header written to the game log.
func WithColumns(cols gamelog.Columns) Option {
	return func(c *Converter) { c.columns = cols }
}

// WithDateFormat sets the strftime format of the written dates.
func WithDateFormat(format string) Option {
	return func(c *Converter) { c.dateFormat = format }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Converter) { c.logger = l }
}

// New creates a Converter.
func New(opts ...Option) (*Converter, error) {
	c := &Converter{
		columns:    gamelog.DefaultColumns(),
		dateFormat: week.DefaultFormat,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if _, err := week.Layout(c.dateFormat); err != nil {
		return nil, err
	}
	return c, nil
}

// Convert reads PGN games from r and writes game log rows to w. Games that
// cannot be converted are skipped and counted.
func (c *Converter) Convert(ctx context.Context, r io.Reader, w io.Writer) (Stats, error) {
	layout, err := week.Layout(c.dateFormat)
	if err != nil {
		return Stats{}, err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{c.columns.Date, c.columns.Moves, c.columns.Rating}); err != nil {
		return Stats{}, fmt.Errorf("writing header: %w", err)
	}

	var stats Stats
	err = splitGames(r, func(pgnText string) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		stats.Games++

		row, skip := c.convertGame(pgnText, layout)
		switch skip {
		case skipDate:
			stats.SkippedDate++
			return nil
		case skipPGN:
			stats.SkippedPGN++
			return nil
		case skipPlayer:
			stats.SkippedUser++
			return nil
		case skipYear:
			stats.SkippedYear++
			return nil
		}

		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing game %d: %w", stats.Games, err)
		}
		stats.Written++
		return nil
	})
	if err != nil {
		return stats, err
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return stats, fmt.Errorf("flushing game log: %w", err)
	}

	c.logger.Info("converted PGN",
		zap.Int("games", stats.Games),
		zap.Int("written", stats.Written),
		zap.Int("skippedDate", stats.SkippedDate),
		zap.Int("skippedPGN", stats.SkippedPGN),
		zap.Int("skippedPlayer", stats.SkippedUser),
		zap.Int("skippedYear", stats.SkippedYear),
	)
	if stats.SkippedYear > 0 {
		c.logger.Warn("skipped games whose dates the date format cannot represent; use a four-digit year format such as %d/%m/%Y",
			zap.Int("games", stats.SkippedYear),
			zap.String("dateFormat", c.dateFormat),
		)
	}
	return stats, nil
}

type skipReason int

const (
	keep skipReason = iota
	skipDate
	skipPGN
	skipPlayer
	skipYear
)

func (c *Converter) convertGame(pgnText, layout string) ([]string, skipReason) {
	pgnFunc, err := chess.PGN(strings.NewReader(pgnText))
	if err != nil {
		c.logger.Debug("unparseable game", zap.Error(err))
		return nil, skipPGN
	}
	game := chess.NewGame(pgnFunc)

	date, err := time.Parse(pgnDateLayout, tag(game, "Date"))
	if err != nil {
		return nil, skipDate
	}

	ratingTag := "WhiteElo"
	if c.player != "" {
		switch c.player {
		case tag(game, "White"):
		case tag(game, "Black"):
			ratingTag = "BlackElo"
		default:
			return nil, skipPlayer
		}
	}

	// A two-digit year reads back in 1969-2068; anything else would land in
	// another year.
	formatted := date.Format(layout)
	if back, err := week.Parse(c.dateFormat, formatted); err != nil || !back.Equal(date) {
		c.logger.Debug("date not representable in output format",
			zap.String("date", date.Format(time.DateOnly)),
			zap.String("formatted", formatted),
		)
		return nil, skipYear
	}

	moves := game.Moves()
	uci := make([]string, len(moves))
	for i, m := range moves {
		uci[i] = m.String()
	}

	return []string{
		formatted,
		strings.Join(uci, " "),
		rating(tag(game, ratingTag)),
	}, keep
}

func tag(game *chess.Game, key string) string {
	if tp := game.GetTagPair(key); tp != nil {
		return tp.Value
	}
	return ""
}

// rating drops the "?" and "-" placeholders PGN uses for unknown ratings.
func rating(s string) string {
	s = strings.TrimSpace(s)
	if s == "?" || s == "-" {
		return ""
	}
	return s
}

// splitGames calls fn with the text of every game in r. A game starts at an
// [Event tag.
func splitGames(r io.Reader, fn func(string) error) error {
	scanner := bufio.NewScanner(r)
	// Increase buffer size for long lines.
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)

	var gameText strings.Builder
	inGame := false

	for scanner.Scan() {
		line := scanner.Text()

		if strings.HasPrefix(line, "[Event ") {
			if inGame && gameText.Len() > 0 {
				if err := fn(gameText.String()); err != nil {
					return err
				}
				gameText.Reset()
			}
			inGame = true
		}

		if inGame {
			gameText.WriteString(line)
			gameText.WriteString("\n")
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading PGN: %w", err)
	}

	if gameText.Len() > 0 {
		return fn(gameText.String())
	}
	return nil
}
