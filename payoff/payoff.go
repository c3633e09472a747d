// Package payoff holds the scoring rule of the Prisoner's Dilemma.
package payoff

import (
	"errors"
	"fmt"

	"github.com/domino14/dilemma/move"
)

var ErrNotDilemma = errors.New("payoff matrix does not describe a prisoner's dilemma")

// Matrix maps a pair of moves to a pair of scores. The four values use the
// usual names: Reward for mutual cooperation, Temptation for defecting
// against a cooperator, Sucker for cooperating against a defector and
// Punishment for mutual defection.
type Matrix struct {
	Reward     int `yaml:"reward"`
	Temptation int `yaml:"temptation"`
	Sucker     int `yaml:"sucker"`
	Punishment int `yaml:"punishment"`
}

// Canonical is the matrix from Axelrod's tournaments.
var Canonical = Matrix{Reward: 3, Temptation: 5, Sucker: 0, Punishment: 1}

// Score returns the scores for self and opponent.
func (m Matrix) Score(self, opp move.Move) (int, int) {
	switch {
	case self == move.Cooperate && opp == move.Cooperate:
		return m.Reward, m.Reward
	case self == move.Cooperate && opp == move.Defect:
		return m.Sucker, m.Temptation
	case self == move.Defect && opp == move.Cooperate:
		return m.Temptation, m.Sucker
	case self == move.Defect && opp == move.Defect:
		return m.Punishment, m.Punishment
	}
	panic(fmt.Sprintf("invalid move pair %v/%v", self, opp))
}

// Validate checks T > R > P > S and 2R > T + S, so that mutual
// cooperation pays more in total than alternating exploitation.
func (m Matrix) Validate() error {
	if !(m.Temptation > m.Reward && m.Reward > m.Punishment && m.Punishment > m.Sucker) {
		return fmt.Errorf("%w: need T > R > P > S, have T=%d R=%d P=%d S=%d",
			ErrNotDilemma, m.Temptation, m.Reward, m.Punishment, m.Sucker)
	}
	if 2*m.Reward <= m.Temptation+m.Sucker {
		return fmt.Errorf("%w: need 2R > T + S", ErrNotDilemma)
	}
	return nil
}

func (m Matrix) String() string {
	return fmt.Sprintf("R=%d T=%d S=%d P=%d", m.Reward, m.Temptation, m.Sucker, m.Punishment)
}
