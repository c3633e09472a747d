package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/matryer/is"

	"github.com/domino14/dilemma/game"
	"github.com/domino14/dilemma/payoff"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveAndLoad(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	s := openTemp(t)

	results := []game.MatchResult{
		{PlayerA: "AlwaysCooperate", PlayerB: "AlwaysDefect", Simulation: 0, Rounds: 2, ScoreA: 0, ScoreB: 10},
		{PlayerA: "AlwaysCooperate", PlayerB: "TitForTat", Simulation: 0, Rounds: 2, ScoreA: 6, ScoreB: 6},
		{PlayerA: "AlwaysDefect", PlayerB: "TitForTat", Simulation: 0, Rounds: 2, ScoreA: 6, ScoreB: 1},
	}
	run := &Run{
		Seed:        18446744073709551000, // high bit set
		Simulations: 1,
		Rounds:      2,
		Strategies:  []string{"AlwaysCooperate", "AlwaysDefect", "TitForTat"},
		Payoff:      payoff.Canonical,
	}
	is.NoErr(s.SaveRun(ctx, run, results))
	is.True(run.ID != "")

	got, err := s.GetRun(ctx, run.ID)
	is.NoErr(err)
	is.Equal(got.Seed, run.Seed)
	is.Equal(got.Strategies, run.Strategies)
	is.Equal(got.Payoff, payoff.Canonical)
	is.Equal(got.CreatedAt.Unix(), run.CreatedAt.Unix())

	back, err := s.LoadResults(ctx, run.ID)
	is.NoErr(err)
	is.Equal(back, results)
}

func TestListRuns(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	s := openTemp(t)

	old := &Run{ID: "old", CreatedAt: time.Unix(1000, 0), Simulations: 1, Rounds: 1, Payoff: payoff.Canonical}
	recent := &Run{ID: "new", CreatedAt: time.Unix(2000, 0), Simulations: 1, Rounds: 1, Payoff: payoff.Canonical}
	is.NoErr(s.SaveRun(ctx, old, nil))
	is.NoErr(s.SaveRun(ctx, recent, nil))

	runs, err := s.ListRuns(ctx)
	is.NoErr(err)
	is.Equal(len(runs), 2)
	is.Equal(runs[0].ID, "new")
	is.Equal(runs[1].ID, "old")
	is.Equal(len(runs[0].Strategies), 0)

	results, err := s.LoadResults(ctx, "old")
	is.NoErr(err)
	is.Equal(len(results), 0)

	// same id twice is rejected, and is not a busy error worth retrying
	is.True(s.SaveRun(ctx, &Run{ID: "old", Payoff: payoff.Canonical}, nil) != nil)
}

func TestMissingRun(t *testing.T) {
	is := is.New(t)
	s := openTemp(t)
	_, err := s.LoadResults(context.Background(), "nope")
	is.True(errors.Is(err, ErrRunNotFound))
}
