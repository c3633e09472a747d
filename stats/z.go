package stats

import "gonum.org/v1/gonum/stat/distuv"

// ZVal returns the two-tailed z value for a confidence level between 0
// and 100 percent.
func ZVal(confidence float64) float64 {
	dist := distuv.Normal{Mu: 0, Sigma: 1}
	return dist.Quantile((1 + confidence/100) / 2)
}
