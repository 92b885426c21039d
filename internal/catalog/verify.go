package catalog

import (
	"fmt"

	"github.com/notnil/chess"
)

// Issue describes a catalog entry whose prefix cannot be played from the
// initial position.
type Issue struct {
	Name  string
	Ply   int // 1-based index of the offending token.
	Token string
	Err   error
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: ply %d %q: %v", i.Name, i.Ply, i.Token, i.Err)
}

// Verify replays every prefix in UCI notation and returns one issue per entry
// that contains an illegal move. Matching does not depend on legality; this is
// a sanity check for hand-written catalogs.
func Verify(c *Catalog) []Issue {
	var issues []Issue
	for _, e := range c.entries {
		game := chess.NewGame(chess.UseNotation(chess.UCINotation{}))
		for i, tok := range e.Prefix {
			if err := game.MoveStr(tok); err != nil {
				issues = append(issues, Issue{
					Name:  e.Name,
					Ply:   i + 1,
					Token: tok,
					Err:   err,
				})
				break
			}
		}
	}
	return issues
}
