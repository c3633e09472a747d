package game

import (
	"fmt"

	"github.com/domino14/dilemma/move"
)

// Sides of a match.
const (
	PlayerA = 0
	PlayerB = 1
)

// RoundOutcome is what happened in one round: the move each side made
// and the points each side got for it.
type RoundOutcome struct {
	Round  int
	Moves  [2]move.Move
	Scores [2]int
}

func (o RoundOutcome) String() string {
	return fmt.Sprintf("round %d: %v%v (%d, %d)", o.Round, o.Moves[PlayerA], o.Moves[PlayerB],
		o.Scores[PlayerA], o.Scores[PlayerB])
}

// History is the append-only record of a single match. Both players read
// the same record; Perspective relabels it for either of them.
type History struct {
	outcomes []RoundOutcome
	moves    [2][]move.Move
	totals   [2]int
}

// NewHistory allocates room for the given number of rounds up front.
func NewHistory(rounds int) *History {
	return &History{
		outcomes: make([]RoundOutcome, 0, rounds),
		moves: [2][]move.Move{
			make([]move.Move, 0, rounds),
			make([]move.Move, 0, rounds),
		},
	}
}

// Append records the next round. Rounds must be appended in order.
func (h *History) Append(o RoundOutcome) {
	if o.Round != len(h.outcomes) {
		panic(fmt.Sprintf("out of order round %d, expected %d", o.Round, len(h.outcomes)))
	}
	h.outcomes = append(h.outcomes, o)
	for side := range 2 {
		h.moves[side] = append(h.moves[side], o.Moves[side])
		h.totals[side] += o.Scores[side]
	}
}

func (h *History) Len() int {
	return len(h.outcomes)
}

func (h *History) At(i int) RoundOutcome {
	return h.outcomes[i]
}

// Outcomes returns a copy of every recorded round.
func (h *History) Outcomes() []RoundOutcome {
	out := make([]RoundOutcome, len(h.outcomes))
	copy(out, h.outcomes)
	return out
}

// Moves returns the moves played by side so far. The slice has its
// capacity clipped so that appending to it can never write into the
// history.
func (h *History) Moves(side int) []move.Move {
	n := len(h.moves[side])
	return h.moves[side][:n:n]
}

// Perspective returns the (own, opponent) move sequences as seen by side.
func (h *History) Perspective(side int) ([]move.Move, []move.Move) {
	return h.Moves(side), h.Moves(1 - side)
}

// Totals returns the accumulated score of both sides.
func (h *History) Totals() [2]int {
	return h.totals
}
