package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/dustin/go-humanize"
	"github.com/spf13/pflag"

	"lukas8219/bloomcheck/cmd/bloomcheck/dictionary"
	"lukas8219/bloomcheck/cmd/bloomcheck/session"
	"lukas8219/bloomcheck/internal/collections"
	"lukas8219/bloomcheck/internal/config"
	"lukas8219/bloomcheck/internal/logger"
)

const (
	exitOK          = 0
	exitFailure     = 1
	exitUsage       = 2
	exitInterrupted = 130
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := config.Parse(args, stderr)
	if errors.Is(err, pflag.ErrHelp) {
		return exitOK
	}
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}

	log := logger.SetupLogger("bloomcheck", logger.Options{Debug: cfg.Debug, Output: stderr})

	family, err := collections.FamilyByName(cfg.Hash)
	if err != nil {
		log.Error("Invalid hash family", "error", err)
		return exitUsage
	}
	filter, err := collections.New(cfg.ArraySize, cfg.NumHashes,
		collections.WithHashFamily(family),
		collections.WithLogger(log),
	)
	if err != nil {
		log.Error("Failed to create bloom filter", "error", err)
		return exitUsage
	}

	lines, err := dictionary.LoadFile(ctx, cfg.DictionaryPath, filter)
	if err != nil {
		log.Error("Failed to load dictionary", "path", cfg.DictionaryPath, "error", err)
		if errors.Is(err, context.Canceled) {
			return exitInterrupted
		}
		return exitFailure
	}
	log.Info("Dictionary loaded", "path", cfg.DictionaryPath, "lines", lines, "inserted", filter.Inserted(), "fill_ratio", filter.FillRatio())

	fmt.Fprintf(stdout, "bloom filter has %d zero indices\n", filter.ZeroBits())
	fmt.Fprintf(stdout, "bloom filter holds %d bits in %s using %d %s hashes\n",
		filter.Size(), humanize.Bytes(filter.SizeInBytes()), filter.NumHashes(), family.Name())
	logSizingAdvice(log, cfg, lines)

	s := session.New(filter, stdin, stdout, session.Config{
		ItemLength: cfg.ItemLength,
		Tracked:    cfg.Tracked,
		Logger:     log,
	})
	if err := s.Run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			log.Info("Interrupted")
			return exitInterrupted
		}
		log.Error("Session failed", "error", err)
		return exitFailure
	}
	return exitOK
}

func logSizingAdvice(log *slog.Logger, cfg config.Config, lines int) {
	if lines == 0 {
		return
	}
	advice, err := collections.Advise(uint(lines), cfg.TargetRate)
	if err != nil {
		log.Debug("No sizing advice", "error", err)
		return
	}
	log.Info("Sizing advice",
		"items", humanize.Comma(int64(lines)),
		"target_rate", cfg.TargetRate,
		"array_size", advice.Size,
		"num_hashes", advice.NumHashes,
		"memory", humanize.Bytes(uint64(advice.Size+7)/8),
	)
}
