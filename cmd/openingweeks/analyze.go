package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/discochess/openingweeks"
	"github.com/discochess/openingweeks/internal/config"
	"github.com/discochess/openingweeks/internal/input"
	"github.com/discochess/openingweeks/internal/report"
	"github.com/discochess/openingweeks/internal/stats"
	"github.com/discochess/openingweeks/internal/stats/logger"
	"github.com/discochess/openingweeks/internal/stats/prometheus"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze INPUT",
	Short: "Classify games and write the weekly report",
	Long: `Read a CSV game log, classify every game by opening and aggregate the
results per ISO week.

INPUT is a local path, gs://bucket/object, s3://bucket/key or an http(s) URL.
Names ending in .zst or .gz are decompressed on the fly.

The report directory receives:
  report.md     summary, opening counts and ratings per week
  counts.csv    week by opening count table
  ratings.csv   rating statistics per week
  charts.json   stacked bar, radial and scatter series
  manifest.json run metadata

Examples:
  # Strict mode (unmatched games are left out of the counts)
  openingweeks analyze games.csv

  # Average ratings over catalog openings only
  openingweeks analyze games.csv --rating-mean counted

  # Dates like 2024-02-01 in a column named "played"
  openingweeks analyze games.csv --date-format %Y-%m-%d --date-column played

  # Skip rows with bad dates and export Prometheus metrics
  openingweeks analyze games.csv --on-bad-date drop --metrics-file run.prom`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

var (
	mode         string
	ratingMean   string
	dateFormat   string
	onBadDate    string
	dateColumn   string
	movesColumn  string
	ratingColumn string
	ratingMin    float64
	ratingMax    float64
	outputDir    string
	outputGCS    string
	compress     string
	metricsFile  string
	s3Region     string
	s3Endpoint   string
)

func init() {
	analyzeCmd.Flags().StringVar(&mode, "mode", "strict", "unmatched games: strict (exclude) or permissive (count as Other)")
	analyzeCmd.Flags().StringVar(&ratingMean, "rating-mean", "all", "games in the weekly mean rating: all or counted (catalog openings only)")
	analyzeCmd.Flags().StringVar(&dateFormat, "date-format", "%d/%m/%y", "strftime format of the date column")
	analyzeCmd.Flags().StringVar(&onBadDate, "on-bad-date", "fail", "unparseable dates: fail or drop")
	analyzeCmd.Flags().StringVar(&dateColumn, "date-column", "Date", "name of the date column")
	analyzeCmd.Flags().StringVar(&movesColumn, "moves-column", "Moves", "name of the moves column")
	analyzeCmd.Flags().StringVar(&ratingColumn, "rating-column", "EloRating", "name of the rating column")
	analyzeCmd.Flags().Float64Var(&ratingMin, "rating-min", report.DefaultRange.Min, "lower bound of the rating chart")
	analyzeCmd.Flags().Float64Var(&ratingMax, "rating-max", report.DefaultRange.Max, "upper bound of the rating chart")
	analyzeCmd.Flags().StringVarP(&outputDir, "output", "o", "report", "output directory for the report")
	analyzeCmd.Flags().StringVar(&outputGCS, "output-gcs", "", "GCS path for the report (gs://bucket/prefix)")
	analyzeCmd.Flags().StringVar(&compress, "compress", "none", "artifact compression: none, zst, gz")
	analyzeCmd.Flags().StringVar(&metricsFile, "metrics-file", "", "write Prometheus metrics to this textfile")
	analyzeCmd.Flags().StringVar(&s3Region, "s3-region", "", "AWS region for s3:// inputs")
	analyzeCmd.Flags().StringVar(&s3Endpoint, "s3-endpoint", "", "S3-compatible endpoint for s3:// inputs")
	rootCmd.AddCommand(analyzeCmd)
}

// applyAnalyzeFlags overrides configuration values with the flags the user
// set explicitly.
func applyAnalyzeFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	set := func(name string, dst *string, v string) {
		if flags.Changed(name) {
			*dst = v
		}
	}
	set("mode", &cfg.Mode, mode)
	set("rating-mean", &cfg.RatingMean, ratingMean)
	set("date-format", &cfg.DateFormat, dateFormat)
	set("on-bad-date", &cfg.OnBadDate, onBadDate)
	set("date-column", &cfg.Columns.Date, dateColumn)
	set("moves-column", &cfg.Columns.Moves, movesColumn)
	set("rating-column", &cfg.Columns.Rating, ratingColumn)
	set("output", &cfg.Output.Dir, outputDir)
	set("output-gcs", &cfg.Output.GCS, outputGCS)
	set("compress", &cfg.Output.Compress, compress)
	set("metrics-file", &cfg.Output.MetricsFile, metricsFile)
	set("s3-region", &cfg.S3.Region, s3Region)
	set("s3-endpoint", &cfg.S3.Endpoint, s3Endpoint)
	if flags.Changed("rating-min") {
		cfg.RatingRange.Min = ratingMin
	}
	if flags.Changed("rating-max") {
		cfg.RatingRange.Max = ratingMax
	}
	return cfg.Validate()
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	location := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := applyAnalyzeFlags(cmd, cfg); err != nil {
		return err
	}

	log, err := newLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	collector := newCollector(cfg, log)
	defer func() {
		if err := stats.Flush(collector); err != nil {
			log.Warn("flushing metrics", zap.Error(err))
		}
	}()

	opts, err := cfg.AnalyzerOptions()
	if err != nil {
		return err
	}
	analyzer, err := openingweeks.New(append(opts,
		openingweeks.WithStats(collector),
		openingweeks.WithLogger(log),
	)...)
	if err != nil {
		return err
	}

	rep, err := analyzeLocation(ctx, analyzer, cfg, location)
	if err != nil {
		return err
	}

	// Write locally, or to a temp directory first when publishing to GCS.
	localOutput := cfg.Output.Dir
	if cfg.Output.GCS != "" {
		tmpDir, err := os.MkdirTemp("", "openingweeks-report-*")
		if err != nil {
			return fmt.Errorf("creating temp directory: %w", err)
		}
		defer os.RemoveAll(tmpDir)
		localOutput = tmpDir
	}

	c, err := cfg.Codec()
	if err != nil {
		return err
	}
	w, err := report.NewWriter(localOutput, report.WithCodec(c), report.WithLogger(log.Named("report")))
	if err != nil {
		return err
	}
	manifest, err := w.Write(rep, report.Meta{
		Input:       location,
		Generated:   time.Now(),
		RatingRange: cfg.Range(),
	})
	if err != nil {
		return fmt.Errorf("writing report: %w", err)
	}

	if cfg.Output.GCS != "" {
		uploader, err := report.NewUploader(ctx, cfg.Output.GCS, log.Named("upload"))
		if err != nil {
			return fmt.Errorf("creating GCS uploader: %w", err)
		}
		defer uploader.Close()

		if err := uploader.Upload(ctx, localOutput, manifest); err != nil {
			return fmt.Errorf("uploading to GCS: %w", err)
		}
	}

	destination := localOutput
	if cfg.Output.GCS != "" {
		destination = cfg.Output.GCS
	}
	printSummary(cmd.OutOrStdout(), rep, manifest, destination)
	return nil
}

func analyzeLocation(ctx context.Context, a *openingweeks.Analyzer, cfg *config.Config, location string) (*openingweeks.Report, error) {
	var inputOpts []input.Option
	if cfg.S3.Region != "" {
		inputOpts = append(inputOpts, input.WithS3Region(cfg.S3.Region))
	}
	if cfg.S3.Endpoint != "" {
		inputOpts = append(inputOpts, input.WithS3Endpoint(cfg.S3.Endpoint))
	}

	rc, err := input.Open(ctx, location, inputOpts...)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", location, err)
	}
	defer rc.Close()

	return a.AnalyzeLog(ctx, rc)
}

func newCollector(cfg *config.Config, log *zap.Logger) stats.Collector {
	if cfg.Output.MetricsFile != "" {
		return prometheus.New(nil, prometheus.WithTextfile(cfg.Output.MetricsFile))
	}
	return logger.New(log.Named("stats"))
}

func printSummary(w io.Writer, rep *openingweeks.Report, m *report.Manifest, destination string) {
	s := rep.Summary
	fmt.Fprintf(w, "Analyzed %d games (%s mode)\n", s.Games, rep.Mode)
	if s.DroppedRows > 0 {
		fmt.Fprintf(w, "  Dropped:    %d rows with bad dates\n", s.DroppedRows)
	}
	fmt.Fprintf(w, "  Counted:    %d\n", s.Counted)
	if rep.Mode == openingweeks.Strict {
		fmt.Fprintf(w, "  Excluded:   %d\n", s.Excluded)
	} else {
		fmt.Fprintf(w, "  Other:      %d\n", s.Other)
	}
	fmt.Fprintf(w, "  Weeks:      %d\n", s.Weeks)
	fmt.Fprintf(w, "  Games/week: %.2f\n", rep.AverageGamesPerWeek)
	fmt.Fprintf(w, "  Run:        %s\n", m.RunID)
	fmt.Fprintf(w, "Report written to %s\n", destination)
}
