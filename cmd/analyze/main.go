package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"github.com/domino14/dilemma/export"
	"github.com/domino14/dilemma/game"
	"github.com/domino14/dilemma/ranking"
	"github.com/domino14/dilemma/store"
)

var (
	dbPath   = pflag.String("db-path", "", "sqlite file written by the tournament command")
	runID    = pflag.String("run", "", "id of a stored run to re-rank")
	listRuns = pflag.Bool("list", false, "list stored runs and exit")
	pairs    = pflag.Bool("pairs", false, "also print per-pair totals")
	bins     = pflag.Int("histogram-bins", 15, "bins in the score histogram; 0 to skip it")
	debug    = pflag.Bool("debug", false, "debug logging")
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: analyze [flags] match_results.csv\n"+
		"       analyze --db-path runs.db --run <id>\n"+
		"       analyze --db-path runs.db --list\n")
	pflag.PrintDefaults()
}

func loadResults(ctx context.Context) ([]game.MatchResult, string, error) {
	if *runID != "" {
		db, err := store.Open(*dbPath)
		if err != nil {
			return nil, "", err
		}
		defer db.Close()
		results, err := db.LoadResults(ctx, *runID)
		return results, "run " + *runID, err
	}
	path := pflag.Arg(0)
	f, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()
	results, err := export.ReadMatchResults(f)
	return results, path, err
}

func printRuns(ctx context.Context) error {
	db, err := store.Open(*dbPath)
	if err != nil {
		return err
	}
	defer db.Close()
	runs, err := db.ListRuns(ctx)
	if err != nil {
		return err
	}
	for _, r := range runs {
		fmt.Printf("%s  %s  sims=%d rounds=%d seed=%d strategies=%d\n",
			r.ID, r.CreatedAt.Format(time.DateTime), r.Simulations, r.Rounds, r.Seed, len(r.Strategies))
	}
	return nil
}

func main() {
	pflag.Usage = usage
	pflag.Parse()
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	ctx := context.Background()

	if (*listRuns || *runID != "") && *dbPath == "" {
		log.Fatal().Msg("--db-path is required with --list and --run")
	}
	if *listRuns {
		if err := printRuns(ctx); err != nil {
			log.Fatal().Err(err).Msg("listing runs")
		}
		return
	}
	if *runID == "" && pflag.NArg() != 1 {
		usage()
		os.Exit(2)
	}

	results, source, err := loadResults(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("loading results")
	}
	log.Info().Int("matches", len(results)).Str("source", source).Msg("loaded-results")

	entries := ranking.Rank(results)
	if err := export.WriteReport(os.Stdout, "ranking for "+source, entries, results, *bins); err != nil {
		log.Fatal().Err(err).Msg("printing report")
	}
	if *pairs {
		fmt.Println()
		if err := export.WritePairSummaries(os.Stdout, ranking.PairSummaries(results)); err != nil {
			log.Fatal().Err(err).Msg("printing pairs")
		}
	}
}
