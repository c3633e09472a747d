package strategy

import (
	"math/rand/v2"

	"github.com/domino14/dilemma/move"
)

type AlwaysCooperate struct{}

func (*AlwaysCooperate) Name() string                             { return AlwaysCooperateName }
func (*AlwaysCooperate) Decide(_, _ []move.Move, _ int) move.Move { return move.Cooperate }
func (*AlwaysCooperate) Reset()                                   {}

type AlwaysDefect struct{}

func (*AlwaysDefect) Name() string                             { return AlwaysDefectName }
func (*AlwaysDefect) Decide(_, _ []move.Move, _ int) move.Move { return move.Defect }
func (*AlwaysDefect) Reset()                                   {}

// Random flips a fair coin.
type Random struct {
	rng *rand.Rand
}

func (*Random) Name() string { return RandomName }
func (r *Random) Decide(_, _ []move.Move, _ int) move.Move {
	return choose(r.rng, 0.5)
}
func (*Random) Reset() {}

// TitForTat cooperates first and then mirrors the opponent.
type TitForTat struct{}

func (*TitForTat) Name() string { return TitForTatName }
func (*TitForTat) Decide(_, opp []move.Move, _ int) move.Move {
	return titForTat(opp)
}
func (*TitForTat) Reset() {}

// Grudger never forgives a single defection.
type Grudger struct {
	betrayed bool
}

func (*Grudger) Name() string { return GrudgerName }

func (g *Grudger) Decide(_, opp []move.Move, _ int) move.Move {
	if g.betrayed {
		return move.Defect
	}
	if move.Count(opp, move.Defect) > 0 {
		g.betrayed = true
		return move.Defect
	}
	return move.Cooperate
}

func (g *Grudger) Reset() {
	g.betrayed = false
}

// Joss always answers a defection, and answers cooperation with
// cooperation 90% of the time.
type Joss struct {
	rng *rand.Rand
}

func (*Joss) Name() string { return JossName }

func (j *Joss) Decide(_, opp []move.Move, _ int) move.Move {
	last, ok := move.Last(opp)
	if !ok {
		return move.Cooperate
	}
	if last == move.Defect {
		return move.Defect
	}
	return choose(j.rng, 0.9)
}

func (*Joss) Reset() {}
