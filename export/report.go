package export

import (
	"fmt"
	"io"

	"github.com/aybabtme/uniplot/histogram"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/domino14/dilemma/game"
	"github.com/domino14/dilemma/ranking"
)

// WriteReport prints the standings as a table, followed by a histogram of
// every per-match score when there are results to plot.
func WriteReport(w io.Writer, title string, entries []ranking.Entry, results []game.MatchResult, bins int) error {
	p := message.NewPrinter(language.English)
	if _, err := p.Fprintf(w, "=== %s ===\n", title); err != nil {
		return err
	}
	if _, err := p.Fprintf(w, "%4s %-20s %10s %10s %8s %8s\n", "#", "Strategy", "Total", "Avg", "Stdev", "±95%"); err != nil {
		return err
	}
	for i, e := range entries {
		if _, err := p.Fprintf(w, "%4d %-20s %10d %10.2f %8.2f %8.2f\n",
			i+1, e.Name, e.TotalScore, e.Average, e.Stdev, e.CI95); err != nil {
			return err
		}
	}
	if len(results) == 0 || bins <= 0 {
		return nil
	}
	scores := make([]float64, 0, 2*len(results))
	for _, r := range results {
		scores = append(scores, float64(r.ScoreA), float64(r.ScoreB))
	}
	if _, err := fmt.Fprint(w, "\nper-match score distribution:\n"); err != nil {
		return err
	}
	return histogram.Fprint(w, histogram.Hist(bins, scores), histogram.Linear(50))
}
