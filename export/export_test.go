package export

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/domino14/dilemma/game"
	"github.com/domino14/dilemma/payoff"
	"github.com/domino14/dilemma/ranking"
)

var fixture = []game.MatchResult{
	{PlayerA: "AlwaysCooperate", PlayerB: "AlwaysDefect", Simulation: 0, ScoreA: 0, ScoreB: 10},
	{PlayerA: "AlwaysCooperate", PlayerB: "TitForTat", Simulation: 0, ScoreA: 6, ScoreB: 6},
	{PlayerA: "AlwaysDefect", PlayerB: "TitForTat", Simulation: 0, ScoreA: 6, ScoreB: 1},
}

func TestWriteMatchResults(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteMatchResults(&buf, fixture))
	assert.Equal(t, "PlayerA,PlayerB,Simulation,ScoreA,ScoreB\n"+
		"AlwaysCooperate,AlwaysDefect,0,0,10\n"+
		"AlwaysCooperate,TitForTat,0,6,6\n"+
		"AlwaysDefect,TitForTat,0,6,1\n", buf.String())

	back, err := ReadMatchResults(&buf)
	require.NoError(t, err)
	assert.Equal(t, fixture, back)
}

func TestWriteRanking(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteRanking(&buf, ranking.Rank(fixture)))
	assert.Equal(t, "Rank,Strategy,TotalScore,AvgScorePerGame\n"+
		"1,AlwaysDefect,16,8.0\n"+
		"2,TitForTat,7,3.5\n"+
		"3,AlwaysCooperate,6,3.0\n", buf.String())
}

func TestWritePairSummaries(t *testing.T) {
	var buf bytes.Buffer
	pairs := []ranking.PairSummary{{PlayerA: "A", PlayerB: "B", Simulations: 4, TotalA: 10, TotalB: 3, AvgA: 2.5, AvgB: 0.75}}
	require.NoError(t, WritePairSummaries(&buf, pairs))
	assert.Equal(t, "PlayerA,PlayerB,TotalA,TotalB,AvgA,AvgB\nA,B,10,3,2.5,0.8\n", buf.String())
}

func TestReadMatchResultsErrors(t *testing.T) {
	_, err := ReadMatchResults(strings.NewReader(""))
	assert.True(t, errors.Is(err, ErrBadHeader))

	_, err = ReadMatchResults(strings.NewReader("gameID,p1score,p2score,first,x\n"))
	assert.True(t, errors.Is(err, ErrBadHeader))

	_, err = ReadMatchResults(strings.NewReader("PlayerA,PlayerB,Simulation,ScoreA,ScoreB\nA,B,0,x,1\n"))
	assert.Error(t, err)

	_, err = ReadMatchResults(strings.NewReader("PlayerA,PlayerB,Simulation,ScoreA,ScoreB\nA,B,0\n"))
	assert.Error(t, err)
}

func TestSummaryRoundTrip(t *testing.T) {
	s := Summary{
		RunID:       "abc",
		Seed:        42,
		Simulations: 1,
		Rounds:      2,
		Strategies:  []string{"AlwaysCooperate", "AlwaysDefect", "TitForTat"},
		Payoff:      payoff.Canonical,
		Matches:     3,
		Elapsed:     1500 * time.Millisecond,
		Ranking:     ranking.Rank(fixture),
	}
	var buf bytes.Buffer
	require.NoError(t, WriteSummary(&buf, s))
	assert.Contains(t, buf.String(), "strategies: [AlwaysCooperate, AlwaysDefect, TitForTat]")
	assert.Contains(t, buf.String(), "elapsed: 1.5s")

	back, err := ReadSummary(&buf)
	require.NoError(t, err)
	assert.Equal(t, s, back)
}

func TestWriteReport(t *testing.T) {
	var buf bytes.Buffer
	results := []game.MatchResult{
		{PlayerA: "A", PlayerB: "B", ScoreA: 1200, ScoreB: 700},
		{PlayerA: "A", PlayerB: "C", ScoreA: 1000, ScoreB: 1000},
		{PlayerA: "B", PlayerB: "C", ScoreA: 400, ScoreB: 1500},
	}
	require.NoError(t, WriteReport(&buf, "standings", ranking.Rank(results), results, 5))
	out := buf.String()
	assert.Contains(t, out, "=== standings ===")
	assert.Contains(t, out, "2,500")
	assert.Contains(t, out, "per-match score distribution")

	buf.Reset()
	require.NoError(t, WriteReport(&buf, "empty", nil, nil, 5))
	assert.NotContains(t, buf.String(), "distribution")
}

// shortWriter fails every write after the first ok ones.
type shortWriter struct {
	ok int
}

func (w *shortWriter) Write(p []byte) (int, error) {
	if w.ok == 0 {
		return 0, errShort
	}
	w.ok--
	return len(p), nil
}

var errShort = errors.New("short write")

func TestWriteReportPropagatesWriteErrors(t *testing.T) {
	results := []game.MatchResult{
		{PlayerA: "A", PlayerB: "B", ScoreA: 3, ScoreB: 8},
		{PlayerA: "A", PlayerB: "C", ScoreA: 5, ScoreB: 5},
	}
	entries := ranking.Rank(results)
	// title, header, then one write per standings row, then the histogram
	// heading.
	for ok := 0; ok <= 2+len(entries); ok++ {
		err := WriteReport(&shortWriter{ok: ok}, "standings", entries, results, 5)
		assert.ErrorIs(t, err, errShort, "failing after %d writes", ok)
	}
}
