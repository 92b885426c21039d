// Package input resolves a game log location to a source and opens it.
//
// Locations are local paths, gs://bucket/object, s3://bucket/key or
// http(s) URLs. Compressed objects (.zst, .gz) are decompressed on read.
package input

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/discochess/openingweeks/internal/source"
	"github.com/discochess/openingweeks/internal/source/filesource"
	"github.com/discochess/openingweeks/internal/source/gcssource"
	"github.com/discochess/openingweeks/internal/source/httpsource"
	"github.com/discochess/openingweeks/internal/source/s3source"
)

// ErrEmptyLocation is returned by Open for an empty location.
var ErrEmptyLocation = errors.New("input: empty location")

// Scheme identifies the kind of source a location refers to.
type Scheme string

const (
	File  Scheme = "file"
	GCS   Scheme = "gs"
	S3    Scheme = "s3"
	HTTP  Scheme = "http"
	HTTPS Scheme = "https"
)

// SchemeOf returns the scheme of location. Anything without a recognised
// scheme prefix is a local path.
func SchemeOf(location string) Scheme {
	for _, s := range []Scheme{GCS, S3, HTTP, HTTPS} {
		if strings.HasPrefix(location, string(s)+"://") {
			return s
		}
	}
	return File
}

type options struct {
	s3Region   string
	s3Endpoint string
	httpClient *http.Client
	src        source.Source
}

// Option configures Open.
type Option func(*options)

// WithS3Region sets the AWS region for s3:// locations.
func WithS3Region(region string) Option {
	return func(o *options) { o.s3Region = region }
}

// WithS3Endpoint sets a custom S3-compatible endpoint for s3:// locations.
func WithS3Endpoint(endpoint string) Option {
	return func(o *options) { o.s3Endpoint = endpoint }
}

// WithHTTPClient sets the client used for http(s) locations.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) { o.httpClient = client }
}

// WithSource opens location as an object name on src instead of resolving
// it by scheme. Open does not close src.
func WithSource(src source.Source) Option {
	return func(o *options) { o.src = src }
}

// Open opens location for reading. Closing the returned stream also closes
// the underlying source.
func Open(ctx context.Context, location string, opts ...Option) (io.ReadCloser, error) {
	if location == "" {
		return nil, ErrEmptyLocation
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	if o.src != nil {
		return o.src.Open(ctx, location)
	}

	src, name, err := resolve(ctx, location, o)
	if err != nil {
		return nil, err
	}

	rc, err := src.Open(ctx, name)
	if err != nil {
		src.Close()
		return nil, err
	}
	return &owned{ReadCloser: rc, src: src}, nil
}

func resolve(ctx context.Context, location string, o options) (source.Source, string, error) {
	switch scheme := SchemeOf(location); scheme {
	case GCS:
		bucket, key, err := source.SplitBucketURI(location, string(scheme))
		if err != nil {
			return nil, "", err
		}
		src, err := gcssource.New(ctx, bucket)
		if err != nil {
			return nil, "", fmt.Errorf("creating GCS source: %w", err)
		}
		return src, key, nil

	case S3:
		bucket, key, err := source.SplitBucketURI(location, string(scheme))
		if err != nil {
			return nil, "", err
		}
		var s3opts []s3source.Option
		if o.s3Region != "" {
			s3opts = append(s3opts, s3source.WithRegion(o.s3Region))
		}
		if o.s3Endpoint != "" {
			s3opts = append(s3opts, s3source.WithEndpoint(o.s3Endpoint))
		}
		src, err := s3source.New(ctx, bucket, s3opts...)
		if err != nil {
			return nil, "", fmt.Errorf("creating S3 source: %w", err)
		}
		return src, key, nil

	case HTTP, HTTPS:
		var httpOpts []httpsource.Option
		if o.httpClient != nil {
			httpOpts = append(httpOpts, httpsource.WithHTTPClient(o.httpClient))
		}
		return httpsource.New(httpOpts...), location, nil

	default:
		src, err := filesource.New("")
		if err != nil {
			return nil, "", err
		}
		return src, location, nil
	}
}

type owned struct {
	io.ReadCloser
	src source.Source
}

func (o *owned) Close() error {
	return errors.Join(o.ReadCloser.Close(), o.src.Close())
}
