// Package config loads run configuration from an optional YAML file.
//
// Decoding is strict: an unknown key is an error, reported before any game
// data is read. Command-line flags are applied on top of the loaded values.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/discochess/openingweeks"
	"github.com/discochess/openingweeks/internal/aggregate"
	"github.com/discochess/openingweeks/internal/catalog"
	"github.com/discochess/openingweeks/internal/classify"
	"github.com/discochess/openingweeks/internal/codec"
	"github.com/discochess/openingweeks/internal/gamelog"
	"github.com/discochess/openingweeks/internal/report"
	"github.com/discochess/openingweeks/internal/week"
)

// ErrCatalogConflict is returned when both an inline catalog and a catalog
// file are configured.
var ErrCatalogConflict = errors.New("config: catalog and catalog_file are mutually exclusive")

// Config is the complete run configuration.
type Config struct {
	Mode        string              `yaml:"mode"`
	RatingMean  string              `yaml:"rating_mean"` // all | counted
	DateFormat  string              `yaml:"date_format"`
	OnBadDate   string              `yaml:"on_bad_date"`
	Columns     Columns             `yaml:"columns"`
	RatingRange RatingRange         `yaml:"rating_range"`
	Catalog     []catalog.FileEntry `yaml:"catalog"`
	CatalogFile string              `yaml:"catalog_file"`
	Output      Output              `yaml:"output"`
	S3          S3                  `yaml:"s3"`
}

// Columns names the game log columns.
type Columns struct {
	Date   string `yaml:"date"`
	Moves  string `yaml:"moves"`
	Rating string `yaml:"rating"`
}

// RatingRange is the display range of the rating radial chart.
type RatingRange struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// Output controls where and how the report is written.
type Output struct {
	Dir         string `yaml:"dir"`
	GCS         string `yaml:"gcs"`
	Compress    string `yaml:"compress"` // none | zst | gz
	MetricsFile string `yaml:"metrics_file"`
}

// S3 configures s3:// inputs.
type S3 struct {
	Region   string `yaml:"region"`
	Endpoint string `yaml:"endpoint"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cols := gamelog.DefaultColumns()
	return &Config{
		Mode:        classify.Strict.String(),
		RatingMean:  aggregate.AllGames.String(),
		DateFormat:  week.DefaultFormat,
		OnBadDate:   gamelog.FailOnBadDate.String(),
		Columns:     Columns{Date: cols.Date, Moves: cols.Moves, Rating: cols.Rating},
		RatingRange: RatingRange{Min: report.DefaultRange.Min, Max: report.DefaultRange.Max},
		Output:      Output{Dir: "report", Compress: "none"},
	}
}

// Load decodes a YAML configuration over the defaults and validates it.
// Empty input yields the defaults.
func Load(r io.Reader) (*Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile reads a YAML configuration file.
func LoadFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening config: %w", err)
	}
	defer f.Close()

	cfg, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks every field that can be checked without reading data.
func (c *Config) Validate() error {
	if _, err := classify.ParseMode(c.Mode); err != nil {
		return err
	}
	if _, err := aggregate.ParseRatingScope(c.RatingMean); err != nil {
		return err
	}
	if _, err := gamelog.ParseDatePolicy(c.OnBadDate); err != nil {
		return err
	}
	if _, err := week.Layout(c.DateFormat); err != nil {
		return err
	}
	if strings.TrimSpace(c.Columns.Date) == "" || strings.TrimSpace(c.Columns.Moves) == "" || strings.TrimSpace(c.Columns.Rating) == "" {
		return fmt.Errorf("%w: column names must not be empty", gamelog.ErrMissingColumn)
	}
	if err := c.Range().Validate(); err != nil {
		return err
	}
	if _, err := codec.ByName(c.Output.Compress); err != nil {
		return err
	}
	if len(c.Catalog) > 0 && c.CatalogFile != "" {
		return ErrCatalogConflict
	}
	if len(c.Catalog) > 0 {
		if _, err := catalog.FromFileEntries(c.Catalog); err != nil {
			return fmt.Errorf("invalid catalog: %w", err)
		}
	}
	return nil
}

// Range returns the rating display range.
func (c *Config) Range() report.Range {
	return report.Range{Min: c.RatingRange.Min, Max: c.RatingRange.Max}
}

// Codec returns the output compression codec.
func (c *Config) Codec() (codec.Codec, error) {
	return codec.ByName(c.Output.Compress)
}

// BuildCatalog returns the inline catalog, the catalog file, or the default
// catalog, in that order of preference.
func (c *Config) BuildCatalog() (*catalog.Catalog, error) {
	switch {
	case len(c.Catalog) > 0:
		return catalog.FromFileEntries(c.Catalog)
	case c.CatalogFile != "":
		return catalog.LoadFile(c.CatalogFile)
	default:
		return catalog.Default(), nil
	}
}

// AnalyzerOptions translates the configuration into analyzer options.
func (c *Config) AnalyzerOptions() ([]openingweeks.Option, error) {
	mode, err := classify.ParseMode(c.Mode)
	if err != nil {
		return nil, err
	}
	scope, err := aggregate.ParseRatingScope(c.RatingMean)
	if err != nil {
		return nil, err
	}
	policy, err := gamelog.ParseDatePolicy(c.OnBadDate)
	if err != nil {
		return nil, err
	}
	cat, err := c.BuildCatalog()
	if err != nil {
		return nil, err
	}

	return []openingweeks.Option{
		openingweeks.WithCatalog(cat),
		openingweeks.WithMode(mode),
		openingweeks.WithRatingScope(scope),
		openingweeks.WithDateFormat(c.DateFormat),
		openingweeks.WithDatePolicy(policy),
		openingweeks.WithColumns(openingweeks.Columns{
			Date:   c.Columns.Date,
			Moves:  c.Columns.Moves,
			Rating: c.Columns.Rating,
		}),
	}, nil
}
