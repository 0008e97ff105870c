package services

import "github.com/jshill103/lotto-brain/models"

// PositionStrategy picks the most frequent number for each sorted position
// 1..5, skipping numbers already chosen for an earlier position, then pads
// with hot numbers if fewer than 5 were produced.
type PositionStrategy struct{}

func (PositionStrategy) Key() string { return models.StrategyPosition }

func (PositionStrategy) Rank(draws []models.Draw, k int, stream models.Stream) []int {
	byPos := PositionAnalysis(draws, stream)

	seen := make(map[int]bool, 5)
	var out []int
	for pos := 1; pos <= 5 && len(out) < k; pos++ {
		for _, stat := range byPos[pos] {
			if !seen[stat.Number] {
				seen[stat.Number] = true
				out = append(out, stat.Number)
				break
			}
		}
	}

	if len(out) < 5 {
		for _, n := range (HotStrategy{}).Rank(draws, k, stream) {
			out = dedupAppend(out, seen, n, k)
			if len(out) >= 5 {
				break
			}
		}
	}

	if len(out) > k {
		out = out[:k]
	}
	return out
}
