// Package export writes tournament results to CSV and YAML, and reads
// match result files back in.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/domino14/dilemma/game"
	"github.com/domino14/dilemma/ranking"
)

var (
	MatchResultsHeader  = []string{"PlayerA", "PlayerB", "Simulation", "ScoreA", "ScoreB"}
	PairSummariesHeader = []string{"PlayerA", "PlayerB", "TotalA", "TotalB", "AvgA", "AvgB"}
	RankingHeader       = []string{"Rank", "Strategy", "TotalScore", "AvgScorePerGame"}
)

var ErrBadHeader = errors.New("unexpected csv header")

func oneDecimal(f float64) string {
	return strconv.FormatFloat(f, 'f', 1, 64)
}

func writeAll(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	return cw.Error()
}

// WriteMatchResults writes one row per simulated match.
func WriteMatchResults(w io.Writer, results []game.MatchResult) error {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, []string{
			r.PlayerA,
			r.PlayerB,
			strconv.Itoa(r.Simulation),
			strconv.Itoa(r.ScoreA),
			strconv.Itoa(r.ScoreB),
		})
	}
	return writeAll(w, MatchResultsHeader, rows)
}

// WritePairSummaries writes one row per pairing with totals and per
// simulation averages.
func WritePairSummaries(w io.Writer, pairs []ranking.PairSummary) error {
	rows := make([][]string, 0, len(pairs))
	for _, p := range pairs {
		rows = append(rows, []string{
			p.PlayerA,
			p.PlayerB,
			strconv.Itoa(p.TotalA),
			strconv.Itoa(p.TotalB),
			oneDecimal(p.AvgA),
			oneDecimal(p.AvgB),
		})
	}
	return writeAll(w, PairSummariesHeader, rows)
}

// WriteRanking writes the standings, best first, with 1-based ranks.
func WriteRanking(w io.Writer, entries []ranking.Entry) error {
	rows := make([][]string, 0, len(entries))
	for i, e := range entries {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			e.Name,
			strconv.Itoa(e.TotalScore),
			oneDecimal(e.Average),
		})
	}
	return writeAll(w, RankingHeader, rows)
}

// ReadMatchResults parses a file written by WriteMatchResults. The round
// count is not part of the file and is left at zero.
func ReadMatchResults(r io.Reader) ([]game.MatchResult, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(MatchResultsHeader)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: empty file", ErrBadHeader)
	}
	if err != nil {
		return nil, err
	}
	if strings.Join(header, ",") != strings.Join(MatchResultsHeader, ",") {
		return nil, fmt.Errorf("%w: %v", ErrBadHeader, header)
	}

	var results []game.MatchResult
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line, _ := cr.FieldPos(0)
		ints := make([]int, 3)
		for i, field := range record[2:] {
			ints[i], err = strconv.Atoi(field)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
		}
		results = append(results, game.MatchResult{
			PlayerA:    record[0],
			PlayerB:    record[1],
			Simulation: ints[0],
			ScoreA:     ints[1],
			ScoreB:     ints[2],
		})
	}
	return results, nil
}
