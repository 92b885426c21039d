// Package s3source reads game logs from AWS S3 or an S3-compatible service.
package s3source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/discochess/openingweeks/internal/source"
)

// Compile-time check that Source implements source.Source.
var _ source.Source = (*Source)(nil)

// Source reads objects from a single S3 bucket.
type Source struct {
	client   *s3.Client
	bucket   string
	prefix   string
	region   string
	endpoint string
}

// Option configures a Source.
type Option func(*Source) error

// WithPrefix sets a key prefix prepended to every object name.
func WithPrefix(prefix string) Option {
	return func(s *Source) error {
		s.prefix = strings.TrimSuffix(prefix, "/")
		if s.prefix != "" {
			s.prefix += "/"
		}
		return nil
	}
}

// WithRegion sets the AWS region.
func WithRegion(region string) Option {
	return func(s *Source) error {
		if region == "" {
			return errors.New("s3source: empty region")
		}
		s.region = region
		return nil
	}
}

// WithEndpoint sets a custom endpoint (for S3-compatible services like MinIO).
// Path-style addressing is enabled for custom endpoints.
func WithEndpoint(endpoint string) Option {
	return func(s *Source) error {
		if endpoint == "" {
			return errors.New("s3source: empty endpoint")
		}
		s.endpoint = endpoint
		return nil
	}
}

// New creates an S3 source for bucketName using the default AWS credential
// chain.
func New(ctx context.Context, bucketName string, opts ...Option) (*Source, error) {
	s := &Source{bucket: bucketName}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	var loadOpts []func(*config.LoadOptions) error
	if s.region != "" {
		loadOpts = append(loadOpts, config.WithRegion(s.region))
	}
	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	s.client = s3.NewFromConfig(cfg, func(o *s3.Options) {
		if s.endpoint != "" {
			o.BaseEndpoint = aws.String(s.endpoint)
			o.UsePathStyle = true
		}
	})

	return s, nil
}

// Open streams and decompresses the named object.
func (s *Source) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if err := source.CheckContext(ctx); err != nil {
		return nil, err
	}

	key := s.key(name)
	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, fmt.Errorf("%s: %w", key, source.ErrNotFound)
		}
		return nil, fmt.Errorf("reading object: %w", err)
	}
	return source.Decompress(result.Body, key)
}

// Close releases resources.
func (s *Source) Close() error {
	// S3 client doesn't need explicit closing.
	return nil
}

func (s *Source) key(name string) string {
	return s.prefix + strings.TrimPrefix(name, "/")
}
