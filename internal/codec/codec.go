// Package codec provides compression and decompression for input tables and
// report artifacts.
package codec

import (
	"fmt"
	"io"
	"path"
	"strings"
)

// Codec provides compression and decompression functionality.
type Codec interface {
	// Reader wraps r to decompress data read from it.
	Reader(r io.Reader) (io.ReadCloser, error)
	// Writer wraps w to compress data written to it. Closing the returned
	// writer flushes it but never closes w.
	Writer(w io.Writer) (io.WriteCloser, error)
	// Extension returns the file extension without dot (e.g., "zst", "gz").
	// Returns empty string for no compression.
	Extension() string
}

// ByName returns the codec for "zst", "gz" or "none" (also "").
func ByName(name string) (Codec, error) {
	switch strings.ToLower(strings.TrimPrefix(name, ".")) {
	case "", "none":
		return None(), nil
	case "zst", "zstd":
		return Zstd(), nil
	case "gz", "gzip":
		return Gzip(), nil
	default:
		return nil, fmt.Errorf("codec: unknown codec %q", name)
	}
}

// ForPath picks a codec from the extension of name, which may be a file path,
// object key or URL path. Unknown extensions use no compression.
func ForPath(name string) Codec {
	switch strings.ToLower(path.Ext(name)) {
	case ".zst":
		return Zstd()
	case ".gz":
		return Gzip()
	default:
		return None()
	}
}

// FileName appends the codec's extension to name.
func FileName(name string, c Codec) string {
	if ext := c.Extension(); ext != "" {
		return name + "." + ext
	}
	return name
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
