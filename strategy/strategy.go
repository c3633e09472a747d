// Package strategy contains the decision rules that take part in a
// tournament. Every rule implements the same Strategy interface; the match
// engine never looks past it.
package strategy

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"sort"

	"lukechampine.com/frand"

	"github.com/domino14/dilemma/move"
)

var ErrUnknownStrategy = errors.New("unknown strategy")

// Strategy decides one move per round. own and opp hold the moves of
// rounds [0, round) from the strategy's own point of view; they must be
// treated as read-only. Any memory a strategy keeps is private to one
// match and cleared by Reset.
type Strategy interface {
	Name() string
	Decide(own, opp []move.Move, round int) move.Move
	Reset()
}

const (
	AlwaysCooperateName  = "AlwaysCooperate"
	AlwaysDefectName     = "AlwaysDefect"
	RandomName           = "Random"
	TitForTatName        = "TitForTat"
	GrudgerName          = "Grudger"
	JossName             = "Joss"
	TidemanChieruzziName = "TidemanChieruzzi"
	NydeggerName         = "Nydegger"
	GrofmanName          = "Grofman"
	ShubikName           = "Shubik"
	SteinRapoportName    = "SteinRapoport"
	DavisName            = "Davis"
	GraaskampName        = "Graaskamp"
	DowningName          = "Downing"
	FeldName             = "Feld"
	TullockName          = "Tullock"
	AnonymousName        = "Anonymous"
)

type registration struct {
	description string
	randomized  bool
	build       func(rng *rand.Rand) Strategy
}

var registry = map[string]registration{
	AlwaysCooperateName: {"always cooperates", false,
		func(*rand.Rand) Strategy { return &AlwaysCooperate{} }},
	AlwaysDefectName: {"always defects", false,
		func(*rand.Rand) Strategy { return &AlwaysDefect{} }},
	TitForTatName: {"cooperates first, then copies the opponent's previous move", false,
		func(*rand.Rand) Strategy { return &TitForTat{} }},
	TidemanChieruzziName: {"tit for tat that lengthens its punishment on runs of opponent defections", false,
		func(*rand.Rand) Strategy { return &TidemanChieruzzi{} }},
	NydeggerName: {"tit for tat for three rounds, then a lookup on the opponent's last three moves", false,
		func(*rand.Rand) Strategy { return &Nydegger{} }},
	GrofmanName: {"cooperates when both last moves agree, otherwise with probability 2/7", true,
		func(rng *rand.Rand) Strategy { return &Grofman{rng: rng} }},
	ShubikName: {"retaliates after each defection, one round longer every time", false,
		func(*rand.Rand) Strategy { return NewShubik() }},
	SteinRapoportName: {"cooperates four rounds, then tit for tat with a periodic randomness check", false,
		func(*rand.Rand) Strategy { return &SteinRapoport{} }},
	GrudgerName: {"cooperates until the opponent defects once, then defects forever", false,
		func(*rand.Rand) Strategy { return &Grudger{} }},
	DavisName: {"cooperates ten rounds, then defects forever if the opponent ever defected", false,
		func(*rand.Rand) Strategy { return &Davis{} }},
	GraaskampName: {"tit for tat with a probe at round 51 and a randomness detector", false,
		func(*rand.Rand) Strategy { return &Graaskamp{} }},
	DowningName: {"models the opponent's cooperation rate and maximizes expected payoff", false,
		func(*rand.Rand) Strategy { return NewDowning() }},
	FeldName: {"tit for tat whose cooperation probability decays toward 0.5", true,
		func(rng *rand.Rand) Strategy { return &Feld{rng: rng} }},
	JossName: {"tit for tat that sneaks in a defection 10% of the time", true,
		func(rng *rand.Rand) Strategy { return &Joss{rng: rng} }},
	TullockName: {"cooperates eleven rounds, then 10% less often than the opponent did", true,
		func(rng *rand.Rand) Strategy { return NewTullock(rng) }},
	AnonymousName: {"cooperates with a drifting probability kept between 0.3 and 0.7", true,
		func(rng *rand.Rand) Strategy { return NewAnonymous(rng) }},
	RandomName: {"flips a fair coin every round", true,
		func(rng *rand.Rand) Strategy { return &Random{rng: rng} }},
}

// roster is the classic line-up, in tournament order.
var roster = []string{
	TitForTatName,
	TidemanChieruzziName,
	NydeggerName,
	GrofmanName,
	ShubikName,
	SteinRapoportName,
	GrudgerName,
	DavisName,
	GraaskampName,
	DowningName,
	FeldName,
	JossName,
	TullockName,
	AnonymousName,
	RandomName,
}

// Roster returns the names of the fifteen strategies that make up a
// standard tournament.
func Roster() []string {
	out := make([]string, len(roster))
	copy(out, roster)
	return out
}

// Names returns every known strategy name, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Exists returns true if name is a registered strategy.
func Exists(name string) bool {
	_, ok := registry[name]
	return ok
}

// IsRandomized reports whether the strategy draws from its random source.
func IsRandomized(name string) bool {
	return registry[name].randomized
}

// Describe returns a one-line summary of the rule.
func Describe(name string) string {
	return registry[name].description
}

// New builds a fresh instance of the named strategy. Randomized
// strategies draw only from rng; if rng is nil they get a randomly seeded
// source of their own.
func New(name string, rng *rand.Rand) (Strategy, error) {
	reg, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
	if rng == nil && reg.randomized {
		rng = NewRand(frand.Uint64n(math.MaxUint64))
	}
	s := reg.build(rng)
	s.Reset()
	return s, nil
}

// NewRand returns a generator fully determined by seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func chance(rng *rand.Rand, p float64) bool {
	return rng.Float64() < p
}

// choose returns Cooperate with probability p.
func choose(rng *rand.Rand, p float64) move.Move {
	if chance(rng, p) {
		return move.Cooperate
	}
	return move.Defect
}

// titForTat copies the opponent's last move, cooperating on an empty
// history.
func titForTat(opp []move.Move) move.Move {
	if last, ok := move.Last(opp); ok {
		return last
	}
	return move.Cooperate
}

func cooperationRate(moves []move.Move) float64 {
	if len(moves) == 0 {
		return 0
	}
	return float64(move.Count(moves, move.Cooperate)) / float64(len(moves))
}
