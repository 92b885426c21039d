// Package filesource reads game logs from the local filesystem.
package filesource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/discochess/openingweeks/internal/source"
)

// Compile-time check that Source implements source.Source.
var _ source.Source = (*Source)(nil)

// Source reads files relative to a root directory. Absolute names bypass the
// root.
type Source struct {
	root string
}

// New creates a file source rooted at root. An empty root means the working
// directory. A non-empty root must be an existing directory.
func New(root string) (*Source, error) {
	if root != "" {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("stat root directory: %w", err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("%s is not a directory", root)
		}
	}
	return &Source{root: root}, nil
}

// Open opens and decompresses the named file.
func (s *Source) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if err := source.CheckContext(ctx); err != nil {
		return nil, err
	}

	f, err := os.Open(s.path(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", name, source.ErrNotFound)
		}
		return nil, fmt.Errorf("opening game log: %w", err)
	}
	return source.Decompress(f, name)
}

// Close releases any resources held by the source.
func (s *Source) Close() error {
	return nil
}

func (s *Source) path(name string) string {
	if s.root == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(s.root, name)
}
