// Package gcssource reads game logs from Google Cloud Storage.
package gcssource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/storage"

	"github.com/discochess/openingweeks/internal/source"
)

// Compile-time check that Source implements source.Source.
var _ source.Source = (*Source)(nil)

// Source reads objects from a single GCS bucket.
type Source struct {
	client *storage.Client
	bucket *storage.BucketHandle
	prefix string
	owned  bool
}

// Option configures a Source.
type Option func(*Source)

// WithPrefix sets a key prefix prepended to every object name.
func WithPrefix(prefix string) Option {
	return func(s *Source) {
		s.prefix = strings.TrimSuffix(prefix, "/")
		if s.prefix != "" {
			s.prefix += "/"
		}
	}
}

// WithClient uses an existing client instead of creating one. The source does
// not close a client it did not create.
func WithClient(client *storage.Client) Option {
	return func(s *Source) {
		s.client = client
	}
}

// New creates a GCS source for bucketName using application default
// credentials.
func New(ctx context.Context, bucketName string, opts ...Option) (*Source, error) {
	s := &Source{}
	for _, opt := range opts {
		opt(s)
	}

	if s.client == nil {
		client, err := storage.NewClient(ctx)
		if err != nil {
			return nil, fmt.Errorf("creating GCS client: %w", err)
		}
		s.client = client
		s.owned = true
	}
	s.bucket = s.client.Bucket(bucketName)

	return s, nil
}

// Open streams and decompresses the named object.
func (s *Source) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if err := source.CheckContext(ctx); err != nil {
		return nil, err
	}

	key := s.key(name)
	reader, err := s.bucket.Object(key).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, fmt.Errorf("%s: %w", key, source.ErrNotFound)
		}
		return nil, fmt.Errorf("creating reader: %w", err)
	}
	return source.Decompress(reader, key)
}

// Close releases the client if the source created it.
func (s *Source) Close() error {
	if !s.owned {
		return nil
	}
	return s.client.Close()
}

func (s *Source) key(name string) string {
	return s.prefix + strings.TrimPrefix(name, "/")
}
