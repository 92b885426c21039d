package aggregate

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownScope indicates a rating scope name other than all or counted.
var ErrUnknownScope = errors.New("aggregate: unknown rating scope")

// RatingScope selects the games that contribute to rating averages.
type RatingScope int

const (
	// AllGames averages every game with a rating, whatever its label.
	AllGames RatingScope = iota

	// CountedGames averages only games labelled with a catalog opening.
	// Excluded games and games under the fallback label are skipped.
	CountedGames
)

// String returns the scope name.
func (s RatingScope) String() string {
	switch s {
	case AllGames:
		return "all"
	case CountedGames:
		return "counted"
	default:
		return fmt.Sprintf("RatingScope(%d)", int(s))
	}
}

// ParseRatingScope parses "all" or "counted" (case-insensitive).
func ParseRatingScope(s string) (RatingScope, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "all":
		return AllGames, nil
	case "counted":
		return CountedGames, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownScope, s)
	}
}

// Filter returns the games within scope. other is the fallback label, which
// CountedGames skips along with excluded games. AllGames returns games as is.
func (s RatingScope) Filter(games []Game, other string) []Game {
	if s != CountedGames {
		return games
	}
	out := make([]Game, 0, len(games))
	for _, g := range games {
		if g.Opening == "" || g.Opening == other {
			continue
		}
		out = append(out, g)
	}
	return out
}
