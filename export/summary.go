package export

import (
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/domino14/dilemma/payoff"
	"github.com/domino14/dilemma/ranking"
)

// Summary describes a finished run and its standings.
type Summary struct {
	RunID       string          `yaml:"run_id,omitempty"`
	Seed        uint64          `yaml:"seed"`
	Simulations int             `yaml:"simulations"`
	Rounds      int             `yaml:"rounds"`
	Strategies  []string        `yaml:"strategies,flow"`
	Payoff      payoff.Matrix   `yaml:"payoff"`
	Matches     int             `yaml:"matches"`
	Elapsed     time.Duration   `yaml:"elapsed"`
	Ranking     []ranking.Entry `yaml:"ranking"`
}

func WriteSummary(w io.Writer, s Summary) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return err
	}
	return enc.Close()
}

func ReadSummary(r io.Reader) (Summary, error) {
	var s Summary
	err := yaml.NewDecoder(r).Decode(&s)
	return s, err
}
