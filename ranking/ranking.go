// Package ranking turns a tournament's match results into standings.
package ranking

import (
	"sort"

	"github.com/samber/lo"

	"github.com/domino14/dilemma/game"
	"github.com/domino14/dilemma/stats"
)

// Entry is one strategy's line in the standings.
type Entry struct {
	Name       string  `yaml:"name"`
	TotalScore int     `yaml:"total_score"`
	Matches    int     `yaml:"matches"`
	Average    float64 `yaml:"average"`
	Stdev      float64 `yaml:"stdev"`
	// CI95 is the half width of the 95% confidence interval on Average.
	CI95 float64 `yaml:"ci95"`
}

type sample struct {
	name  string
	score int
}

func samples(r game.MatchResult, _ int) []sample {
	return []sample{{r.PlayerA, r.ScoreA}, {r.PlayerB, r.ScoreB}}
}

// Rank sums each strategy's score over every match it played and sorts
// by total, highest first, breaking ties by name. It is always computed
// from the complete result set.
func Rank(results []game.MatchResult) []Entry {
	byName := lo.GroupBy(lo.FlatMap(results, samples), func(s sample) string {
		return s.name
	})
	entries := lo.MapToSlice(byName, func(name string, ss []sample) Entry {
		st := &stats.Statistic{}
		for _, s := range ss {
			st.Push(float64(s.score))
		}
		total := lo.SumBy(ss, func(s sample) int { return s.score })
		return Entry{
			Name:       name,
			TotalScore: total,
			Matches:    len(ss),
			Average:    float64(total) / float64(len(ss)),
			Stdev:      st.Stdev(),
			CI95:       st.ConfidenceHalfWidth(95),
		}
	})
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].TotalScore != entries[j].TotalScore {
			return entries[i].TotalScore > entries[j].TotalScore
		}
		return entries[i].Name < entries[j].Name
	})
	return entries
}

// Lookup finds name in the standings.
func Lookup(entries []Entry, name string) (Entry, bool) {
	return lo.Find(entries, func(e Entry) bool { return e.Name == name })
}

// PairSummary totals the simulations of one pairing.
type PairSummary struct {
	PlayerA     string  `yaml:"player_a"`
	PlayerB     string  `yaml:"player_b"`
	Simulations int     `yaml:"simulations"`
	TotalA      int     `yaml:"total_a"`
	TotalB      int     `yaml:"total_b"`
	AvgA        float64 `yaml:"avg_a"`
	AvgB        float64 `yaml:"avg_b"`
}

// PairSummaries groups results by pairing, in the order pairings first
// appear.
func PairSummaries(results []game.MatchResult) []PairSummary {
	key := func(r game.MatchResult) [2]string { return [2]string{r.PlayerA, r.PlayerB} }
	groups := lo.GroupBy(results, key)
	order := lo.Uniq(lo.Map(results, func(r game.MatchResult, _ int) [2]string { return key(r) }))

	return lo.Map(order, func(k [2]string, _ int) PairSummary {
		rs := groups[k]
		ps := PairSummary{
			PlayerA:     k[0],
			PlayerB:     k[1],
			Simulations: len(rs),
			TotalA:      lo.SumBy(rs, func(r game.MatchResult) int { return r.ScoreA }),
			TotalB:      lo.SumBy(rs, func(r game.MatchResult) int { return r.ScoreB }),
		}
		ps.AvgA = float64(ps.TotalA) / float64(ps.Simulations)
		ps.AvgB = float64(ps.TotalB) / float64(ps.Simulations)
		return ps
	})
}
