// Package game plays a single iterated Prisoner's Dilemma match between
// two strategies.
package game

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/domino14/dilemma/move"
	"github.com/domino14/dilemma/payoff"
	"github.com/domino14/dilemma/strategy"
)

// MatchResult is the final tally of one match.
type MatchResult struct {
	PlayerA    string `json:"player_a" yaml:"player_a"`
	PlayerB    string `json:"player_b" yaml:"player_b"`
	Simulation int    `json:"simulation" yaml:"simulation"`
	Rounds     int    `json:"rounds" yaml:"rounds"`
	ScoreA     int    `json:"score_a" yaml:"score_a"`
	ScoreB     int    `json:"score_b" yaml:"score_b"`
}

// Involves returns true if name played in this match.
func (r MatchResult) Involves(name string) bool {
	return r.PlayerA == name || r.PlayerB == name
}

// ScoreFor returns the score earned by name, looked up by name rather than
// by position.
func (r MatchResult) ScoreFor(name string) (int, bool) {
	switch name {
	case r.PlayerA:
		return r.ScoreA, true
	case r.PlayerB:
		return r.ScoreB, true
	}
	return 0, false
}

// Match is a fixed-length contest between two strategy instances.
type Match struct {
	Players    [2]strategy.Strategy
	Rounds     int
	Payoff     payoff.Matrix
	Simulation int
	// OnRound, if set, is called after every round is recorded.
	OnRound func(RoundOutcome)
	// Logger gets a debug line per finished match. Nil means silent.
	Logger *zerolog.Logger
}

// NewMatch sets up a match scored with the canonical payoff matrix.
func NewMatch(a, b strategy.Strategy, rounds int) *Match {
	return &Match{
		Players: [2]strategy.Strategy{a, b},
		Rounds:  rounds,
		Payoff:  payoff.Canonical,
	}
}

// Play resets both players and runs every round. Both players decide
// from the same history prefix before either move is recorded.
func (m *Match) Play() (MatchResult, *History) {
	pm := m.Payoff
	if pm == (payoff.Matrix{}) {
		pm = payoff.Canonical
	}
	a, b := m.Players[PlayerA], m.Players[PlayerB]
	a.Reset()
	b.Reset()

	h := NewHistory(m.Rounds)
	for r := 0; r < m.Rounds; r++ {
		ownA, oppA := h.Perspective(PlayerA)
		ownB, oppB := h.Perspective(PlayerB)
		mvA := a.Decide(ownA, oppA, r)
		mvB := b.Decide(ownB, oppB, r)
		if !mvA.Valid() || !mvB.Valid() {
			panic(fmt.Sprintf("invalid move in round %d: %s=%v %s=%v",
				r, a.Name(), mvA, b.Name(), mvB))
		}
		sA, sB := pm.Score(mvA, mvB)
		o := RoundOutcome{Round: r, Moves: [2]move.Move{mvA, mvB}, Scores: [2]int{sA, sB}}
		h.Append(o)
		if m.OnRound != nil {
			m.OnRound(o)
		}
	}
	totals := h.Totals()
	res := MatchResult{
		PlayerA:    a.Name(),
		PlayerB:    b.Name(),
		Simulation: m.Simulation,
		Rounds:     m.Rounds,
		ScoreA:     totals[PlayerA],
		ScoreB:     totals[PlayerB],
	}
	if m.Logger != nil {
		m.Logger.Debug().Str("a", res.PlayerA).Str("b", res.PlayerB).Int("sim", res.Simulation).
			Int("scoreA", res.ScoreA).Int("scoreB", res.ScoreB).Msg("match-over")
	}
	return res, h
}

// PlayMatch is a shortcut for playing a single match and keeping only the
// result.
func PlayMatch(a, b strategy.Strategy, rounds int, pm payoff.Matrix) MatchResult {
	m := NewMatch(a, b, rounds)
	m.Payoff = pm
	res, _ := m.Play()
	return res
}
