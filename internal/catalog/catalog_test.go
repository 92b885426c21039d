package catalog

import (
	"errors"
	"strings"
	"testing"
)

func TestDefault_Match(t *testing.T) {
	c := Default()

	tests := []struct {
		name   string
		moves  string
		want   string
		wantOK bool
	}{
		{
			name:   "italian game",
			moves:  "e2e4 e7e5 g1f3 b8c6 f1c4",
			want:   "Italian Game",
			wantOK: true,
		},
		{
			name:   "italian game with continuation",
			moves:  "e2e4 e7e5 g1f3 b8c6 f1c4 f8c5 c2c3",
			want:   "Italian Game",
			wantOK: true,
		},
		{
			name:   "prefix too short",
			moves:  "e2e4 e7e5 g1f3 b8c6",
			wantOK: false,
		},
		{
			name:   "sicilian",
			moves:  "e2e4 c7c5 g1f3 b8c6 b1c3 e7e5",
			want:   "Sicilian Defense",
			wantOK: true,
		},
		{
			name:   "queen's pawn is not tracked",
			moves:  "d2d4 d7d5 c2c4",
			wantOK: false,
		},
		{
			name:   "token mismatch in the middle",
			moves:  "e2e4 e7e5 g1f3 b8c7 f1c4",
			wantOK: false,
		},
		{
			name:   "no moves",
			moves:  "",
			wantOK: false,
		},
		{
			name:   "string prefix is not a token prefix",
			moves:  "e2e4 e7e5 g1f3 b8c6 f1c4x",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := c.Match(strings.Fields(tt.moves))
			if ok != tt.wantOK {
				t.Fatalf("Match() ok = %v, want %v", ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("Match() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMatch_FirstDeclaredWins(t *testing.T) {
	short := Entry{Prefix: []string{"e2e4", "e7e5"}, Name: "Open Game"}
	long := Entry{Prefix: []string{"e2e4", "e7e5", "g1f3"}, Name: "King's Knight"}
	moves := []string{"e2e4", "e7e5", "g1f3", "b8c6"}

	shortFirst := MustNew([]Entry{short, long})
	if got, _ := shortFirst.Match(moves); got != "Open Game" {
		t.Errorf("short first: Match() = %q, want %q", got, "Open Game")
	}

	longFirst := MustNew([]Entry{long, short})
	if got, _ := longFirst.Match(moves); got != "King's Knight" {
		t.Errorf("long first: Match() = %q, want %q", got, "King's Knight")
	}
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name    string
		entries []Entry
		wantErr error
	}{
		{
			name:    "empty prefix",
			entries: []Entry{{Name: "Nothing"}},
			wantErr: ErrEmptyPrefix,
		},
		{
			name:    "blank token",
			entries: []Entry{{Prefix: []string{"e2e4", ""}, Name: "Blank"}},
			wantErr: ErrEmptyPrefix,
		},
		{
			name:    "empty name",
			entries: []Entry{{Prefix: []string{"e2e4"}, Name: "  "}},
			wantErr: ErrEmptyName,
		},
		{
			name:    "reserved name",
			entries: []Entry{{Prefix: []string{"e2e4"}, Name: Reserved}},
			wantErr: ErrReservedName,
		},
		{
			name: "duplicate name",
			entries: []Entry{
				{Prefix: []string{"e2e4"}, Name: "King's Pawn"},
				{Prefix: []string{"e2e3"}, Name: "King's Pawn"},
			},
			wantErr: ErrDuplicateName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.entries)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("New() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNew_Empty(t *testing.T) {
	c, err := New(nil)
	if err != nil {
		t.Fatalf("New(nil) error = %v", err)
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d, want 0", c.Len())
	}
	if _, ok := c.Match([]string{"e2e4"}); ok {
		t.Error("empty catalog should match nothing")
	}
}

func TestNew_CopiesEntries(t *testing.T) {
	entries := []Entry{{Prefix: []string{"e2e4"}, Name: "King's Pawn"}}
	c := MustNew(entries)

	entries[0].Prefix[0] = "d2d4"
	entries[0].Name = "Queen's Pawn"

	if got, ok := c.Match([]string{"e2e4"}); !ok || got != "King's Pawn" {
		t.Errorf("Match() = %q, %v; catalog changed with caller's slice", got, ok)
	}
}

func TestDefault_Names(t *testing.T) {
	c := Default()
	names := c.Names()
	if len(names) != 10 {
		t.Fatalf("len(Names()) = %d, want 10", len(names))
	}
	if names[0] != "Vienna Game" || names[9] != "Sicilian Defense" {
		t.Errorf("Names() order = %v", names)
	}
	if c.Color("Italian Game") != "#33FF57" {
		t.Errorf("Color(Italian Game) = %q", c.Color("Italian Game"))
	}
	if !c.Has("Ruy Lopez") || c.Has(Reserved) {
		t.Error("Has() returned unexpected result")
	}
}

func TestDefault_DistinctColors(t *testing.T) {
	c := Default()
	seen := make(map[string]string)
	for _, e := range c.Entries() {
		if e.Color == "" {
			t.Errorf("%s has no color", e.Name)
			continue
		}
		if prev, ok := seen[e.Color]; ok {
			t.Errorf("%s and %s share color %s", prev, e.Name, e.Color)
		}
		seen[e.Color] = e.Name
	}
	if c.Color("Vienna Game") != "#FF5733" || c.Color("Four Knights Game") != "#C70039" {
		t.Errorf("Vienna = %q, Four Knights = %q", c.Color("Vienna Game"), c.Color("Four Knights Game"))
	}
}

func TestLoad(t *testing.T) {
	input := `
- prefix: "e2e4 e7e5"
  name: Open Game
  color: "#123456"
- prefix: "d2d4 d7d5"
  name: Closed Game
`
	c, err := Load(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := c.Names(); len(got) != 2 || got[0] != "Open Game" || got[1] != "Closed Game" {
		t.Errorf("Names() = %v", got)
	}
	if got, _ := c.Match([]string{"d2d4", "d7d5", "c2c4"}); got != "Closed Game" {
		t.Errorf("Match() = %q, want Closed Game", got)
	}
}

func TestLoad_UnknownField(t *testing.T) {
	input := `
- prefix: "e2e4"
  name: King's Pawn
  colour: red
`
	if _, err := Load(strings.NewReader(input)); err == nil {
		t.Error("Load() should reject unknown fields")
	}
}

func TestLoad_Empty(t *testing.T) {
	c, err := Load(strings.NewReader(""))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d, want 0", c.Len())
	}
}

func TestFileEntries_RoundTrip(t *testing.T) {
	c := Default()
	again, err := FromFileEntries(c.FileEntries())
	if err != nil {
		t.Fatalf("FromFileEntries() error = %v", err)
	}
	if again.Len() != c.Len() {
		t.Fatalf("Len() = %d, want %d", again.Len(), c.Len())
	}
	for i, e := range again.Entries() {
		if e.Line() != c.Entries()[i].Line() {
			t.Errorf("entry %d line = %q, want %q", i, e.Line(), c.Entries()[i].Line())
		}
	}
}
