package catalog

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileEntry is the on-disk form of an Entry.
type FileEntry struct {
	Prefix string `yaml:"prefix"`
	Name   string `yaml:"name"`
	Color  string `yaml:"color,omitempty"`
}

// FromFileEntries converts file entries into a validated catalog.
func FromFileEntries(fes []FileEntry) (*Catalog, error) {
	entries := make([]Entry, len(fes))
	for i, fe := range fes {
		entries[i] = Entry{
			Prefix: strings.Fields(fe.Prefix),
			Name:   fe.Name,
			Color:  fe.Color,
		}
	}
	return New(entries)
}

// Load reads a YAML list of entries. Unknown keys are rejected and file order
// is preserved as match order.
func Load(r io.Reader) (*Catalog, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var fes []FileEntry
	if err := dec.Decode(&fes); err != nil {
		if errors.Is(err, io.EOF) {
			return New(nil)
		}
		return nil, fmt.Errorf("decoding catalog: %w", err)
	}
	return FromFileEntries(fes)
}

// LoadFile reads a YAML catalog from path.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}
	defer f.Close()

	c, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// FileEntries returns the catalog in its on-disk form.
func (c *Catalog) FileEntries() []FileEntry {
	out := make([]FileEntry, len(c.entries))
	for i, e := range c.entries {
		out[i] = FileEntry{Prefix: e.Line(), Name: e.Name, Color: e.Color}
	}
	return out
}
