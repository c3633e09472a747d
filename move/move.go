// Package move defines the two choices available to a player in a round
// of the Prisoner's Dilemma.
package move

import (
	"fmt"
	"strings"
)

// Move is a single round's choice.
type Move uint8

const (
	Cooperate Move = iota
	Defect
)

func (m Move) String() string {
	switch m {
	case Cooperate:
		return "C"
	case Defect:
		return "D"
	}
	return fmt.Sprintf("Move(%d)", uint8(m))
}

// Valid returns true if m is one of the two known moves.
func (m Move) Valid() bool {
	return m == Cooperate || m == Defect
}

// Opposite returns the other move.
func (m Move) Opposite() Move {
	if m == Cooperate {
		return Defect
	}
	return Cooperate
}

// FromString parses a move as written in result files or on the command
// line. Both the short ("C", "D") and long forms are accepted.
func FromString(s string) (Move, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "c", "cooperate":
		return Cooperate, nil
	case "d", "defect", "betray":
		return Defect, nil
	}
	return Cooperate, fmt.Errorf("unrecognized move %q", s)
}

// Count returns how many times m appears in moves.
func Count(moves []Move, m Move) int {
	n := 0
	for _, mv := range moves {
		if mv == m {
			n++
		}
	}
	return n
}

// Last returns the final move of the sequence and false if it is empty.
func Last(moves []Move) (Move, bool) {
	if len(moves) == 0 {
		return Cooperate, false
	}
	return moves[len(moves)-1], true
}

// Sequence renders a list of moves compactly, e.g. "CCDC".
func Sequence(moves []Move) string {
	var sb strings.Builder
	sb.Grow(len(moves))
	for _, m := range moves {
		sb.WriteString(m.String())
	}
	return sb.String()
}

// ParseSequence is the inverse of Sequence.
func ParseSequence(s string) ([]Move, error) {
	moves := make([]Move, 0, len(s))
	for _, r := range s {
		m, err := FromString(string(r))
		if err != nil {
			return nil, err
		}
		moves = append(moves, m)
	}
	return moves, nil
}
