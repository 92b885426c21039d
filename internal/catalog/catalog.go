// Package catalog defines the ordered set of recognised opening lines and
// matches move sequences against it.
package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// Reserved is the label used for games that match no entry. No catalog entry
// may use it as a name.
const Reserved = "Other"

// Sentinel errors for catalog validation.
var (
	// ErrEmptyPrefix indicates an entry has no move tokens.
	ErrEmptyPrefix = errors.New("catalog: empty prefix")

	// ErrEmptyName indicates an entry has no name.
	ErrEmptyName = errors.New("catalog: empty name")

	// ErrDuplicateName indicates two entries share a name.
	ErrDuplicateName = errors.New("catalog: duplicate name")

	// ErrReservedName indicates an entry uses the reserved fallback label.
	ErrReservedName = errors.New("catalog: reserved name")
)

// Entry is a single opening rule: a move prefix in UCI notation and the name
// assigned to games that start with it.
type Entry struct {
	// Prefix is the sequence of half-move tokens, e.g. ["e2e4", "e7e5"].
	Prefix []string

	// Name is the opening name, e.g. "Italian Game".
	Name string

	// Color is an optional legend color such as "#33FF57".
	Color string
}

// Line returns the prefix as a space-separated move string.
func (e Entry) Line() string {
	return strings.Join(e.Prefix, " ")
}

// Catalog is an ordered, immutable list of opening entries.
// A Catalog is safe for concurrent use by multiple goroutines.
type Catalog struct {
	entries []Entry
}

// New validates entries and returns a catalog that preserves their order.
// The entries are copied; later changes to the argument have no effect.
// An empty list is valid and yields a catalog that matches nothing.
func New(entries []Entry) (*Catalog, error) {
	seen := make(map[string]struct{}, len(entries))
	copied := make([]Entry, 0, len(entries))

	for i, e := range entries {
		if len(e.Prefix) == 0 {
			return nil, fmt.Errorf("entry %d (%q): %w", i, e.Name, ErrEmptyPrefix)
		}
		for _, tok := range e.Prefix {
			if tok == "" {
				return nil, fmt.Errorf("entry %d (%q): %w", i, e.Name, ErrEmptyPrefix)
			}
		}
		name := strings.TrimSpace(e.Name)
		if name == "" {
			return nil, fmt.Errorf("entry %d: %w", i, ErrEmptyName)
		}
		if name == Reserved {
			return nil, fmt.Errorf("entry %d: %w: %q", i, ErrReservedName, name)
		}
		if _, ok := seen[name]; ok {
			return nil, fmt.Errorf("entry %d: %w: %q", i, ErrDuplicateName, name)
		}
		seen[name] = struct{}{}

		copied = append(copied, Entry{
			Prefix: append([]string(nil), e.Prefix...),
			Name:   name,
			Color:  e.Color,
		})
	}

	return &Catalog{entries: copied}, nil
}

// MustNew is like New but panics on invalid entries.
// Intended for package-level tables.
func MustNew(entries []Entry) *Catalog {
	c, err := New(entries)
	if err != nil {
		panic(err)
	}
	return c
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// Entries returns a copy of the entries in declared order.
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	for i, e := range c.entries {
		out[i] = Entry{
			Prefix: append([]string(nil), e.Prefix...),
			Name:   e.Name,
			Color:  e.Color,
		}
	}
	return out
}

// Names returns the entry names in declared order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.entries))
	for i, e := range c.entries {
		names[i] = e.Name
	}
	return names
}

// Has reports whether name belongs to an entry.
func (c *Catalog) Has(name string) bool {
	for _, e := range c.entries {
		if e.Name == name {
			return true
		}
	}
	return false
}

// Color returns the legend color for name, or "" if none is set.
func (c *Catalog) Color(name string) string {
	for _, e := range c.entries {
		if e.Name == name {
			return e.Color
		}
	}
	return ""
}

// Match returns the name of the first entry, in declared order, whose prefix
// equals the leading tokens of moves. Matching is exact and positional.
func (c *Catalog) Match(moves []string) (string, bool) {
	for _, e := range c.entries {
		if hasPrefix(moves, e.Prefix) {
			return e.Name, true
		}
	}
	return "", false
}

func hasPrefix(moves, prefix []string) bool {
	if len(moves) < len(prefix) {
		return false
	}
	for i, tok := range prefix {
		if moves[i] != tok {
			return false
		}
	}
	return true
}
