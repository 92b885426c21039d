package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/discochess/openingweeks"
	"github.com/discochess/openingweeks/internal/codec"
)

// Writer writes every report artifact into a directory.
type Writer struct {
	dir    string
	codec  codec.Codec
	logger *zap.Logger
}

// WriterOption configures a Writer.
type WriterOption func(*Writer)

// WithCodec compresses every artifact except the manifest.
func WithCodec(c codec.Codec) WriterOption {
	return func(w *Writer) {
		w.codec = c
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) WriterOption {
	return func(w *Writer) {
		w.logger = l
	}
}

// NewWriter creates dir if needed and returns a Writer for it.
func NewWriter(dir string, opts ...WriterOption) (*Writer, error) {
	w := &Writer{
		dir:    dir,
		codec:  codec.None(),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	return w, nil
}

// Dir returns the output directory.
func (w *Writer) Dir() string {
	return w.dir
}

// Write renders rep into the directory and writes the manifest last.
func (w *Writer) Write(rep *openingweeks.Report, meta Meta) (*Manifest, error) {
	m := NewManifest(rep, meta)
	m.Compression = "none"
	if ext := w.codec.Extension(); ext != "" {
		m.Compression = ext
	}

	artifacts := []struct {
		name  string
		write func(io.Writer) error
	}{
		{MarkdownFile, func(out io.Writer) error {
			WriteMarkdown(out, rep, meta)
			return nil
		}},
		{CountsFile, func(out io.Writer) error {
			return WriteCountsCSV(out, rep)
		}},
		{RatingsFile, func(out io.Writer) error {
			return WriteRatingsCSV(out, rep)
		}},
		{ChartsFile, func(out io.Writer) error {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(NewCharts(rep, meta.RatingRange))
		}},
	}

	for _, a := range artifacts {
		name, err := w.writeArtifact(a.name, a.write)
		if err != nil {
			return nil, fmt.Errorf("writing %s: %w", a.name, err)
		}
		m.Artifacts = append(m.Artifacts, name)
	}

	if err := WriteManifest(w.dir, m); err != nil {
		return nil, err
	}

	w.logger.Info("report written",
		zap.String("dir", w.dir),
		zap.String("runID", m.RunID),
		zap.Strings("artifacts", m.Artifacts),
	)
	return m, nil
}

func (w *Writer) writeArtifact(name string, write func(io.Writer) error) (string, error) {
	fileName := codec.FileName(name, w.codec)

	f, err := os.Create(filepath.Join(w.dir, fileName))
	if err != nil {
		return "", err
	}

	cw, err := w.codec.Writer(f)
	if err != nil {
		f.Close()
		return "", fmt.Errorf("creating compressor: %w", err)
	}

	if err := write(cw); err != nil {
		cw.Close()
		f.Close()
		return "", err
	}
	if err := errors.Join(cw.Close(), f.Close()); err != nil {
		return "", err
	}

	w.logger.Debug("artifact written", zap.String("file", fileName))
	return fileName, nil
}
