package ranking_test

import (
	"context"
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/dilemma/game"
	"github.com/domino14/dilemma/ranking"
	"github.com/domino14/dilemma/strategy"
	"github.com/domino14/dilemma/tournament"
)

func TestThreeStrategyTournament(t *testing.T) {
	is := is.New(t)
	names := []string{strategy.AlwaysCooperateName, strategy.AlwaysDefectName, strategy.TitForTatName}
	results, err := tournament.Run(context.Background(), names, tournament.Options{Simulations: 1, Rounds: 2, Seed: 1})
	is.NoErr(err)
	is.Equal(len(results), 3)

	got := ranking.Rank(results)
	is.Equal(len(got), 3)
	is.Equal(got[0].Name, strategy.AlwaysDefectName)
	is.Equal(got[0].TotalScore, 16)
	is.Equal(got[1].Name, strategy.TitForTatName)
	is.Equal(got[1].TotalScore, 7)
	is.Equal(got[2].Name, strategy.AlwaysCooperateName)
	is.Equal(got[2].TotalScore, 6)
	for _, e := range got {
		is.Equal(e.Matches, 2)
		is.Equal(e.Average, float64(e.TotalScore)/2)
	}
}

func TestTotalsMatchIndependentRecount(t *testing.T) {
	is := is.New(t)
	results, err := tournament.Run(context.Background(), strategy.Roster(),
		tournament.Options{Simulations: 3, Rounds: 100, Seed: 2024})
	is.NoErr(err)

	totals := map[string]int{}
	counts := map[string]int{}
	for _, r := range results {
		totals[r.PlayerA] += r.ScoreA
		totals[r.PlayerB] += r.ScoreB
		counts[r.PlayerA]++
		counts[r.PlayerB]++
	}

	entries := ranking.Rank(results)
	is.Equal(len(entries), len(strategy.Roster()))
	for i, e := range entries {
		is.Equal(e.TotalScore, totals[e.Name])
		is.Equal(e.Matches, counts[e.Name])
		is.Equal(e.Matches, 3*(len(strategy.Roster())-1))
		if i > 0 {
			is.True(entries[i-1].TotalScore >= e.TotalScore)
		}
	}
}

func TestTiesBreakByName(t *testing.T) {
	is := is.New(t)
	results := []game.MatchResult{
		{PlayerA: "Zed", PlayerB: "Amy", ScoreA: 10, ScoreB: 10},
		{PlayerA: "Bob", PlayerB: "Amy", ScoreA: 3, ScoreB: 0},
	}
	got := ranking.Rank(results)
	is.Equal(got[0].Name, "Amy")
	is.Equal(got[1].Name, "Zed")
	is.Equal(got[2].Name, "Bob")
	is.Equal(got[0].Average, 5.0)

	e, ok := ranking.Lookup(got, "Zed")
	is.True(ok)
	is.Equal(e.TotalScore, 10)
	_, ok = ranking.Lookup(got, "Nobody")
	is.True(!ok)
}

func TestEmptyInput(t *testing.T) {
	is := is.New(t)
	got := ranking.Rank(nil)
	is.True(got != nil)
	is.Equal(len(got), 0)
	is.Equal(len(ranking.PairSummaries(nil)), 0)
}

func TestSpread(t *testing.T) {
	is := is.New(t)
	results := []game.MatchResult{
		{PlayerA: "A", PlayerB: "B", ScoreA: 10, ScoreB: 0},
		{PlayerA: "A", PlayerB: "B", ScoreA: 20, ScoreB: 0},
	}
	got := ranking.Rank(results)
	is.Equal(got[0].Name, "A")
	is.True(got[0].Stdev > 7.07 && got[0].Stdev < 7.08)
	is.True(got[0].CI95 > 0)
	is.Equal(got[1].Stdev, 0.0)
}

func TestPairSummaries(t *testing.T) {
	is := is.New(t)
	results := []game.MatchResult{
		{PlayerA: "A", PlayerB: "B", Simulation: 0, ScoreA: 10, ScoreB: 4},
		{PlayerA: "A", PlayerB: "C", Simulation: 0, ScoreA: 1, ScoreB: 1},
		{PlayerA: "A", PlayerB: "B", Simulation: 1, ScoreA: 11, ScoreB: 5},
	}
	got := ranking.PairSummaries(results)
	is.Equal(len(got), 2)
	is.Equal(got[0], ranking.PairSummary{
		PlayerA: "A", PlayerB: "B", Simulations: 2,
		TotalA: 21, TotalB: 9, AvgA: 10.5, AvgB: 4.5,
	})
	is.Equal(got[1].PlayerB, "C")
	is.Equal(got[1].Simulations, 1)
}
