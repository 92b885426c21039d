package catalog

import "strings"

// defaultLines lists the ten tracked openings. Order is significant: the
// first matching line wins. Every line has its own legend color.
var defaultLines = []struct {
	line  string
	name  string
	color string
}{
	{"e2e4 e7e5 g1f3 b8c6 b1c3", "Vienna Game", "#FF5733"},
	{"e2e4 e7e5 g1f3 b8c6 f1c4", "Italian Game", "#33FF57"},
	{"e2e4 d7d5 e4d5 d8d5 b1c3", "Scandinavian Defense", "#3357FF"},
	{"e2e4 e7e5 g1f3 d7d6 b1c3", "Philidor Defense", "#FF33A1"},
	{"e2e4 e7e5 g1f3 b8c6 d2d4", "Scotch Game", "#FFBD33"},
	{"e2e4 e7e5 g1f3 b8c6 f1b5", "Ruy Lopez", "#33FFF3"},
	{"e2e4 e7e5 g1f3 g8f6 b1c3", "Four Knights Game", "#C70039"},
	{"e2e4 e7e5 g1f3 d8f6 b1c3", "Petrov Defense", "#75FF33"},
	{"e2e4 e7e5 d2d4 e5d4 d1d4", "Center Game", "#5733FF"},
	{"e2e4 c7c5 g1f3 b8c6 b1c3", "Sicilian Defense", "#FF33FF"},
}

// Default returns the built-in catalog of ten common king's pawn openings.
func Default() *Catalog {
	entries := make([]Entry, len(defaultLines))
	for i, l := range defaultLines {
		entries[i] = Entry{
			Prefix: strings.Fields(l.line),
			Name:   l.name,
			Color:  l.color,
		}
	}
	return MustNew(entries)
}
