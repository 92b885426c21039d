// Package source defines where game logs are read from. Every source
// decompresses transparently based on the object name's extension.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/discochess/openingweeks/internal/codec"
)

// ErrNotFound is returned when the named object does not exist.
var ErrNotFound = errors.New("source: object not found")

// Source opens game log objects.
type Source interface {
	// Open returns a decompressed stream for the named object. The caller
	// must close it.
	Open(ctx context.Context, name string) (io.ReadCloser, error)

	// Close releases any resources held by the source.
	Close() error
}

// Decompress wraps rc with the codec matching name. Closing the result closes
// both the decompressor and rc.
func Decompress(rc io.ReadCloser, name string) (io.ReadCloser, error) {
	c := codec.ForPath(name)
	if c.Extension() == "" {
		return rc, nil
	}
	dec, err := c.Reader(rc)
	if err != nil {
		rc.Close()
		return nil, fmt.Errorf("creating decompressor: %w", err)
	}
	return &stacked{ReadCloser: dec, under: rc}, nil
}

type stacked struct {
	io.ReadCloser
	under io.Closer
}

func (s *stacked) Close() error {
	return errors.Join(s.ReadCloser.Close(), s.under.Close())
}

// SplitBucketURI splits "scheme://bucket/key" into bucket and key.
func SplitBucketURI(uri, scheme string) (bucket, key string, err error) {
	prefix := scheme + "://"
	if !strings.HasPrefix(uri, prefix) {
		return "", "", fmt.Errorf("invalid %s path: %s (must start with %s)", scheme, uri, prefix)
	}
	bucket, key, _ = strings.Cut(strings.TrimPrefix(uri, prefix), "/")
	if bucket == "" {
		return "", "", fmt.Errorf("invalid %s path: %s (missing bucket)", scheme, uri)
	}
	return bucket, key, nil
}

// CheckContext returns ctx.Err() without blocking.
func CheckContext(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}
