// Package memsource provides an in-memory source for tests and embedding.
package memsource

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/discochess/openingweeks/internal/source"
)

// Compile-time check that Source implements source.Source.
var _ source.Source = (*Source)(nil)

// Source serves objects from memory. Objects are stored as given; names with
// a compression extension must hold compressed bytes.
type Source struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

// New creates an empty in-memory source.
func New() *Source {
	return &Source{objects: make(map[string][]byte)}
}

// Put stores data under name. The data is copied.
func (s *Source) Put(name string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[name] = bytes.Clone(data)
}

// Open returns the named object.
func (s *Source) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if err := source.CheckContext(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	data, ok := s.objects[name]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, source.ErrNotFound)
	}
	return source.Decompress(io.NopCloser(bytes.NewReader(data)), name)
}

// Close is a no-op for the memory source.
func (s *Source) Close() error {
	return nil
}
