package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/domino14/dilemma/config"
	"github.com/domino14/dilemma/export"
	"github.com/domino14/dilemma/game"
	"github.com/domino14/dilemma/ranking"
	"github.com/domino14/dilemma/store"
	"github.com/domino14/dilemma/strategy"
	"github.com/domino14/dilemma/tournament"
)

const (
	matchResultsFile  = "match_results.csv"
	pairSummariesFile = "pair_results.csv"
	rankingFile       = "ranking.csv"
	summaryFile       = "summary.yaml"
)

func writeFile(dir, name string, write func(f *os.File) error) error {
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	log.Info().Str("path", path).Msg("wrote-file")
	return f.Close()
}

func writeOutputs(dir string, results []game.MatchResult, entries []ranking.Entry, summary export.Summary) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	if err := writeFile(dir, matchResultsFile, func(f *os.File) error {
		return export.WriteMatchResults(f, results)
	}); err != nil {
		return err
	}
	if err := writeFile(dir, pairSummariesFile, func(f *os.File) error {
		return export.WritePairSummaries(f, ranking.PairSummaries(results))
	}); err != nil {
		return err
	}
	if err := writeFile(dir, rankingFile, func(f *os.File) error {
		return export.WriteRanking(f, entries)
	}); err != nil {
		return err
	}
	return writeFile(dir, summaryFile, func(f *os.File) error {
		return export.WriteSummary(f, summary)
	})
}

// saveRun stores the run in the database at path. A failure to close the
// database after the write is reported like a failed write.
func saveRun(ctx context.Context, path string, run *store.Run, results []game.MatchResult) (err error) {
	db, err := store.Open(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			log.Error().Err(cerr).Str("path", path).Msg("closing store")
			if err == nil {
				err = cerr
			}
		}
	}()
	return db.SaveRun(ctx, run, results)
}

func main() {
	cfg := &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		log.Fatal().Err(err).Msg("loading config")
	}
	if cfg.Debug() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = log.Logger.WithContext(ctx)

	names := strategy.Roster()
	t, err := tournament.New(names, tournament.Options{
		Simulations: cfg.Simulations(),
		Rounds:      cfg.Rounds(),
		Threads:     cfg.Threads(),
		Seed:        cfg.Seed(),
		Payoff:      cfg.Payoff(),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("setting up tournament")
	}

	tstart := time.Now()
	results, err := t.Run(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("tournament did not finish")
	}
	elapsed := time.Since(tstart)
	entries := ranking.Rank(results)

	summary := export.Summary{
		Seed:        t.Seed(),
		Simulations: cfg.Simulations(),
		Rounds:      cfg.Rounds(),
		Strategies:  names,
		Payoff:      cfg.Payoff(),
		Matches:     len(results),
		Elapsed:     elapsed,
		Ranking:     entries,
	}

	if path := cfg.DBPath(); path != "" {
		run := &store.Run{
			Seed:        t.Seed(),
			Simulations: cfg.Simulations(),
			Rounds:      cfg.Rounds(),
			Strategies:  names,
			Payoff:      cfg.Payoff(),
		}
		if err := saveRun(ctx, path, run, results); err != nil {
			log.Fatal().Err(err).Str("path", path).Msg("saving run")
		}
		summary.RunID = run.ID
		log.Info().Str("run", run.ID).Msg("saved-run")
	}

	if err := writeOutputs(cfg.OutputDir(), results, entries, summary); err != nil {
		log.Fatal().Err(err).Msg("writing results")
	}

	title := fmt.Sprintf("final ranking (%d simulations, %d rounds, seed %d)",
		cfg.Simulations(), cfg.Rounds(), t.Seed())
	if err := export.WriteReport(os.Stdout, title, entries, results, cfg.HistogramBins()); err != nil {
		log.Fatal().Err(err).Msg("printing report")
	}
}
