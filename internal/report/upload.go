package report

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/discochess/openingweeks/internal/codec"
	"github.com/discochess/openingweeks/internal/source"
)

// Uploader copies a report directory to Google Cloud Storage.
type Uploader struct {
	client *storage.Client
	bucket *storage.BucketHandle
	prefix string
	logger *zap.Logger
}

// NewUploader creates a GCS uploader for a "gs://bucket/prefix" path.
// opts are passed to the storage client.
func NewUploader(ctx context.Context, gcsPath string, logger *zap.Logger, opts ...option.ClientOption) (*Uploader, error) {
	bucket, prefix, err := parseGCSPath(gcsPath)
	if err != nil {
		return nil, err
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating GCS client: %w", err)
	}

	if logger == nil {
		logger = zap.NewNop()
	}
	return &Uploader{
		client: client,
		bucket: client.Bucket(bucket),
		prefix: prefix,
		logger: logger,
	}, nil
}

// parseGCSPath parses "gs://bucket/prefix" into bucket and a prefix that is
// empty or ends in a slash.
func parseGCSPath(gcsPath string) (bucket, prefix string, err error) {
	bucket, prefix, err = source.SplitBucketURI(gcsPath, "gs")
	if err != nil {
		return "", "", err
	}
	prefix = strings.TrimSuffix(prefix, "/")
	if prefix != "" {
		prefix += "/"
	}
	return bucket, prefix, nil
}

// Upload copies the artifacts listed in m from localDir, then the manifest,
// and finally removes report artifacts under the prefix left over from
// earlier runs.
func (u *Uploader) Upload(ctx context.Context, localDir string, m *Manifest) error {
	uploaded := make(map[string]bool, len(m.Artifacts)+1)

	for _, name := range m.Artifacts {
		if err := u.uploadFile(ctx, filepath.Join(localDir, name), u.prefix+name); err != nil {
			return fmt.Errorf("uploading %s: %w", name, err)
		}
		uploaded[name] = true
	}

	if err := u.uploadFile(ctx, filepath.Join(localDir, ManifestFile), u.prefix+ManifestFile); err != nil {
		return fmt.Errorf("uploading manifest: %w", err)
	}
	uploaded[ManifestFile] = true

	if err := u.cleanStale(ctx, uploaded); err != nil {
		// Stale artifacts are harmless; the manifest lists the current ones.
		u.logger.Warn("failed to clean stale artifacts", zap.Error(err))
	}

	u.logger.Info("report uploaded",
		zap.String("bucket", u.bucket.BucketName()),
		zap.String("prefix", u.prefix),
		zap.Int("objects", len(uploaded)),
	)
	return nil
}

// cleanStale deletes report artifacts directly under the prefix that this run
// did not write, such as counts.csv.zst after a switch to gz. Objects that are
// not report artifacts and nested "directories" are never touched.
func (u *Uploader) cleanStale(ctx context.Context, current map[string]bool) error {
	it := u.bucket.Objects(ctx, &storage.Query{Prefix: u.prefix, Delimiter: "/"})

	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return fmt.Errorf("listing objects: %w", err)
		}
		if attrs.Name == "" {
			continue
		}

		name := strings.TrimPrefix(attrs.Name, u.prefix)
		if current[name] || !isArtifact(name) {
			continue
		}
		if err := u.bucket.Object(attrs.Name).Delete(ctx); err != nil {
			return fmt.Errorf("deleting stale object %s: %w", attrs.Name, err)
		}
		u.logger.Debug("deleted stale object", zap.String("object", attrs.Name))
	}

	return nil
}

// artifactNames are the files a report writes, before any codec extension.
var artifactNames = map[string]bool{
	MarkdownFile: true,
	CountsFile:   true,
	RatingsFile:  true,
	ChartsFile:   true,
	ManifestFile: true,
}

// isArtifact reports whether name is a report artifact, compressed or not.
func isArtifact(name string) bool {
	if ext := codec.ForPath(name).Extension(); ext != "" {
		name = strings.TrimSuffix(name, "."+ext)
	}
	return artifactNames[name]
}

func (u *Uploader) uploadFile(ctx context.Context, localPath, key string) error {
	file, err := os.Open(localPath)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := u.bucket.Object(key).NewWriter(ctx)
	if _, err := io.Copy(writer, file); err != nil {
		writer.Close()
		return err
	}
	return writer.Close()
}

// Close releases resources.
func (u *Uploader) Close() error {
	return u.client.Close()
}
