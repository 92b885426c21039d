package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/discochess/openingweeks/internal/codec"
	"github.com/discochess/openingweeks/internal/gamelog"
	"github.com/discochess/openingweeks/internal/input"
	"github.com/discochess/openingweeks/internal/pgnlog"
)

var convertCmd = &cobra.Command{
	Use:   "convert-pgn INPUT",
	Short: "Convert a PGN collection into a CSV game log",
	Long: `Convert the games of a PGN file into the CSV game log read by analyze:
one row per game with the date, the moves in UCI notation and a rating.

Games without a complete Date tag or with unparseable movetext are skipped.
So are games the date format cannot represent: the default %d/%m/%y only
covers 1969 to 2068, so older archives need a four-digit year such as
--date-format %d/%m/%Y (pass the same format to analyze).
With --player only that player's games are kept and their rating is used;
otherwise White's rating is written.

Examples:
  openingweeks convert-pgn games.pgn --output games.csv
  openingweeks convert-pgn archive-1950s.pgn --date-format %d/%m/%Y
  openingweeks convert-pgn https://example.com/export.pgn.gz --player alice --output games.csv.zst`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

var (
	convertOutput     string
	convertPlayer     string
	convertDateFormat string
)

func init() {
	convertCmd.Flags().StringVarP(&convertOutput, "output", "o", "games.csv", "output game log (.zst and .gz are compressed)")
	convertCmd.Flags().StringVar(&convertDateFormat, "date-format", "%d/%m/%y", "strftime format of the written dates")
	convertCmd.Flags().StringVar(&convertPlayer, "player", "", "keep only games of this player and use their rating")
	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log, err := newLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cmd.Flags().Changed("date-format") {
		cfg.DateFormat = convertDateFormat
	}

	conv, err := pgnlog.New(
		pgnlog.WithPlayer(convertPlayer),
		pgnlog.WithDateFormat(cfg.DateFormat),
		pgnlog.WithColumns(gamelog.Columns{
			Date:   cfg.Columns.Date,
			Moves:  cfg.Columns.Moves,
			Rating: cfg.Columns.Rating,
		}),
		pgnlog.WithLogger(log.Named("pgnlog")),
	)
	if err != nil {
		return err
	}

	rc, err := input.Open(ctx, args[0])
	if err != nil {
		return fmt.Errorf("opening %s: %w", args[0], err)
	}
	defer rc.Close()

	f, err := os.Create(convertOutput)
	if err != nil {
		return fmt.Errorf("creating output: %w", err)
	}
	defer f.Close()

	w, err := codec.ForPath(convertOutput).Writer(f)
	if err != nil {
		return fmt.Errorf("creating compressor: %w", err)
	}

	stats, err := conv.Convert(ctx, rc, w)
	if err != nil {
		w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("flushing output: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Converted %d of %d games to %s\n", stats.Written, stats.Games, convertOutput)
	if skipped := stats.Games - stats.Written; skipped > 0 {
		fmt.Fprintf(out, "  Skipped: %d (date %d, movetext %d, player %d, year out of format range %d)\n",
			skipped, stats.SkippedDate, stats.SkippedPGN, stats.SkippedUser, stats.SkippedYear)
	}
	return nil
}
