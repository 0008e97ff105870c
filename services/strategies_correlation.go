package services

import "github.com/jshill103/lotto-brain/models"

// CorrelationStrategy walks the top lift-ranked pairs (highest lift first)
// and adds both members of each pair until k numbers are collected.
type CorrelationStrategy struct{}

func (CorrelationStrategy) Key() string { return models.StrategyCorrelation }

func (CorrelationStrategy) Rank(draws []models.Draw, k int, stream models.Stream) []int {
	pairs := CorrelationAnalysis(draws, stream)

	seen := make(map[int]bool, k)
	var out []int
	for _, p := range pairs {
		if len(out) >= k {
			break
		}
		out = dedupAppend(out, seen, p.A, k)
		out = dedupAppend(out, seen, p.B, k)
	}
	return out
}
