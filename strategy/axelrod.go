package strategy

import (
	"math"
	"math/rand/v2"

	"github.com/domino14/dilemma/move"
	"github.com/domino14/dilemma/payoff"
)

// TidemanChieruzzi plays tit for tat, but a second consecutive opponent
// defection arms a punishment counter that keeps it defecting after the
// opponent returns to cooperation.
type TidemanChieruzzi struct {
	consecutiveDefections int
	punishment            int
}

func (*TidemanChieruzzi) Name() string { return TidemanChieruzziName }

func (t *TidemanChieruzzi) Decide(_, opp []move.Move, _ int) move.Move {
	last, ok := move.Last(opp)
	if !ok {
		return move.Cooperate
	}
	if last == move.Defect {
		t.consecutiveDefections++
		if t.consecutiveDefections >= 2 {
			t.punishment = t.consecutiveDefections - 1
		}
		return move.Defect
	}
	t.consecutiveDefections = 0
	if t.punishment > 0 {
		t.punishment--
		return move.Defect
	}
	return move.Cooperate
}

func (t *TidemanChieruzzi) Reset() {
	t.consecutiveDefections = 0
	t.punishment = 0
}

// Nydegger plays tit for tat for the first three rounds, then scores the
// opponent's recent defections and looks the score up in a fixed table.
type Nydegger struct {
	window []move.Move
}

func (*Nydegger) Name() string { return NydeggerName }

func (n *Nydegger) score() int {
	a := 0
	for i, w := range []int{4, 2, 1} {
		if i < len(n.window) && n.window[i] == move.Defect {
			a += w
		}
	}
	return a
}

func (n *Nydegger) Decide(_, opp []move.Move, _ int) move.Move {
	if len(opp) <= 3 {
		return titForTat(opp)
	}
	n.window = append(n.window, opp[len(opp)-1])
	if len(n.window) > 3 {
		n.window = n.window[1:]
	}
	switch n.score() {
	case 0, 1, 6, 7:
		return move.Cooperate
	}
	return move.Defect
}

func (n *Nydegger) Reset() {
	n.window = n.window[:0]
}

// Grofman cooperates whenever both players did the same thing last round.
type Grofman struct {
	rng *rand.Rand
}

func (*Grofman) Name() string { return GrofmanName }

func (g *Grofman) Decide(own, opp []move.Move, _ int) move.Move {
	lastOwn, ok1 := move.Last(own)
	lastOpp, ok2 := move.Last(opp)
	if !ok1 || !ok2 {
		return move.Cooperate
	}
	if lastOwn == lastOpp {
		return move.Cooperate
	}
	return choose(g.rng, 2.0/7.0)
}

func (*Grofman) Reset() {}

// Shubik retaliates for every defection with a run of defections that
// gets one round longer each time.
type Shubik struct {
	revengeCounter int
	revengeLength  int
}

func NewShubik() *Shubik {
	return &Shubik{revengeLength: 1}
}

func (*Shubik) Name() string { return ShubikName }

func (s *Shubik) Decide(_, opp []move.Move, _ int) move.Move {
	if last, ok := move.Last(opp); ok && last == move.Defect {
		s.revengeLength++
		s.revengeCounter = s.revengeLength
	}
	if s.revengeCounter > 0 {
		s.revengeCounter--
		return move.Defect
	}
	return move.Cooperate
}

func (s *Shubik) Reset() {
	s.revengeCounter = 0
	s.revengeLength = 1
}

// SteinRapoport cooperates for four rounds and then plays tit for tat,
// checking every fifteen rounds whether the opponent looks random.
type SteinRapoport struct{}

func (*SteinRapoport) Name() string { return SteinRapoportName }

func (*SteinRapoport) Decide(_, opp []move.Move, _ int) move.Move {
	step := len(opp)
	if step <= 4 {
		return move.Cooperate
	}
	if step%15 == 0 && math.Abs(cooperationRate(opp)-0.5) < 0.2 {
		return move.Defect
	}
	return opp[step-1]
}

func (*SteinRapoport) Reset() {}

// Davis cooperates for ten rounds, then turns into a grudger.
type Davis struct {
	betrayed bool
}

func (*Davis) Name() string { return DavisName }

func (d *Davis) Decide(_, opp []move.Move, _ int) move.Move {
	if len(opp) <= 10 {
		return move.Cooperate
	}
	if !d.betrayed {
		d.betrayed = move.Count(opp, move.Defect) > 0
	}
	if d.betrayed {
		return move.Defect
	}
	return move.Cooperate
}

func (d *Davis) Reset() {
	d.betrayed = false
}

const graaskampWindow = 10

// Graaskamp plays tit for tat for fifty rounds, probes with a defection at
// round 51, and from round 57 on defects forever once the opponent's last
// ten moves look like coin flips.
type Graaskamp struct {
	randomDetected bool
	window         []move.Move
}

func (*Graaskamp) Name() string { return GraaskampName }

func (g *Graaskamp) Decide(_, opp []move.Move, _ int) move.Move {
	step := len(opp)
	switch {
	case step <= 50:
		return titForTat(opp)
	case step == 51:
		return move.Defect
	case step <= 56:
		return opp[step-1]
	}
	if !g.randomDetected {
		if len(g.window) >= graaskampWindow {
			g.randomDetected = math.Abs(cooperationRate(g.window)-0.5) < 0.1
		}
		g.window = append(g.window, opp[step-1])
		if len(g.window) > graaskampWindow {
			g.window = g.window[1:]
		}
	}
	if g.randomDetected {
		return move.Defect
	}
	return opp[step-1]
}

func (g *Graaskamp) Reset() {
	g.randomDetected = false
	g.window = g.window[:0]
}

// Downing estimates the opponent's cooperation probability and picks
// whichever move has the larger expected payoff against it.
type Downing struct {
	matrix       payoff.Matrix
	oppCooperate int
	oppTotal     int
}

func NewDowning() *Downing {
	return &Downing{matrix: payoff.Canonical}
}

func (*Downing) Name() string { return DowningName }

func (d *Downing) Decide(_, opp []move.Move, _ int) move.Move {
	last, ok := move.Last(opp)
	if !ok {
		return move.Cooperate
	}
	d.oppTotal++
	if last == move.Cooperate {
		d.oppCooperate++
	}
	p := float64(d.oppCooperate) / float64(d.oppTotal)
	m := d.matrix
	defectEV := float64(m.Temptation)*p + float64(m.Punishment)*(1-p)
	cooperateEV := float64(m.Reward)*p + float64(m.Sucker)*(1-p)
	if defectEV > cooperateEV {
		return move.Defect
	}
	return move.Cooperate
}

func (d *Downing) Reset() {
	d.oppCooperate = 0
	d.oppTotal = 0
}

// Feld answers defection with defection, and cooperation with a
// cooperation probability that falls toward 0.5 over a run of mutual
// goodwill.
type Feld struct {
	rng                  *rand.Rand
	consecutiveCooperate int
}

func (*Feld) Name() string { return FeldName }

func (f *Feld) Decide(_, opp []move.Move, _ int) move.Move {
	last, ok := move.Last(opp)
	if !ok {
		return move.Cooperate
	}
	if last == move.Defect {
		f.consecutiveCooperate = 0
		return move.Defect
	}
	f.consecutiveCooperate++
	run := float64(f.consecutiveCooperate)
	return choose(f.rng, run/(10+2*run))
}

func (f *Feld) Reset() {
	f.consecutiveCooperate = 0
}

// Tullock cooperates for eleven rounds, then cooperates 10% less often
// than the opponent did over its first ten moves.
type Tullock struct {
	rng          *rand.Rand
	initialPhase bool
	coopProb     float64
}

func NewTullock(rng *rand.Rand) *Tullock {
	return &Tullock{rng: rng, initialPhase: true, coopProb: 1}
}

func (*Tullock) Name() string { return TullockName }

func (t *Tullock) Decide(_, opp []move.Move, _ int) move.Move {
	if len(opp) <= 11 {
		return move.Cooperate
	}
	if t.initialPhase {
		t.coopProb = math.Max(cooperationRate(opp[:10])*0.9, 0)
		t.initialPhase = false
	}
	return choose(t.rng, t.coopProb)
}

func (t *Tullock) Reset() {
	t.initialPhase = true
	t.coopProb = 1
}

const (
	anonymousStartProb = 0.3
	anonymousMinProb   = 0.3
	anonymousMaxProb   = 0.7
)

// Anonymous cooperates with a probability that is nudged every ten rounds
// toward the opponent's recent cooperation rate.
type Anonymous struct {
	rng      *rand.Rand
	coopProb float64
}

func NewAnonymous(rng *rand.Rand) *Anonymous {
	return &Anonymous{rng: rng, coopProb: anonymousStartProb}
}

func (*Anonymous) Name() string { return AnonymousName }

func (a *Anonymous) Decide(_, opp []move.Move, _ int) move.Move {
	step := len(opp)
	if step > 0 && step%10 == 0 {
		recent := cooperationRate(opp[step-10:])
		a.coopProb = min(max(a.coopProb*0.7+recent*0.3, anonymousMinProb), anonymousMaxProb)
	}
	return choose(a.rng, a.coopProb)
}

func (a *Anonymous) Reset() {
	a.coopProb = anonymousStartProb
}
