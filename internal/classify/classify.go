// Package classify assigns opening labels to raw move fields.
package classify

import (
	"errors"
	"fmt"
	"strings"

	"github.com/discochess/openingweeks/internal/catalog"
)

// Other is the fallback label for unmatched games in permissive mode.
const Other = catalog.Reserved

// ErrUnknownMode indicates a mode name that is neither strict nor permissive.
var ErrUnknownMode = errors.New("classify: unknown mode")

// Mode controls what happens to games that match no catalog entry.
type Mode int

const (
	// Strict discards unmatched games from the opening counts.
	Strict Mode = iota

	// Permissive keeps unmatched games under the Other label.
	Permissive
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case Strict:
		return "strict"
	case Permissive:
		return "permissive"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode parses "strict" or "permissive" (case-insensitive).
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "strict":
		return Strict, nil
	case "permissive":
		return Permissive, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// Classifier labels move sequences using a catalog.
// A Classifier holds no mutable state and is safe for concurrent use.
type Classifier struct {
	catalog *catalog.Catalog
	mode    Mode
}

// New returns a classifier over c. A nil catalog behaves as an empty one.
func New(c *catalog.Catalog, mode Mode) *Classifier {
	if c == nil {
		c = catalog.MustNew(nil)
	}
	return &Classifier{catalog: c, mode: mode}
}

// Mode returns the classifier's mode.
func (c *Classifier) Mode() Mode {
	return c.mode
}

// Catalog returns the classifier's catalog.
func (c *Classifier) Catalog() *catalog.Catalog {
	return c.catalog
}

// Classify returns the label for a raw move field and whether the game should
// be counted. Absent or malformed fields never match and never fail.
//
//	match            -> (name, true)
//	no match, strict -> ("", false)
//	no match, permissive -> (Other, true)
func (c *Classifier) Classify(moves string) (string, bool) {
	if name, ok := c.catalog.Match(strings.Fields(moves)); ok {
		return name, true
	}
	if c.mode == Permissive {
		return Other, true
	}
	return "", false
}

// Labels returns the labels a classifier can produce in legend order:
// catalog names in declared order, followed by Other in permissive mode.
func (c *Classifier) Labels() []string {
	labels := c.catalog.Names()
	if c.mode == Permissive {
		labels = append(labels, Other)
	}
	return labels
}
