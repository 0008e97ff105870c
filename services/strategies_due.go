package services

import (
	"sort"

	"github.com/jshill103/lotto-brain/models"
)

// dueStrategyMinCycleCount is the cycleCount floor the "due" strategy
// itself applies, distinct from the stricter cycleCount >= 5 the
// analyzer's MostDue ranking uses for its "reliable due candidate"
// notion.
const dueStrategyMinCycleCount = 3

// DueStrategy ranks numbers with cycleCount >= 3 by descending dueScore.
type DueStrategy struct{}

func (DueStrategy) Key() string { return models.StrategyDue }

func (DueStrategy) Rank(draws []models.Draw, k int, stream models.Stream) []int {
	stats := CycleAnalysis(draws, stream)

	type cand struct {
		n        int
		dueScore float64
	}
	cands := make([]cand, 0, len(stats))
	for n, s := range stats {
		if s.CycleCount < dueStrategyMinCycleCount {
			continue
		}
		cands = append(cands, cand{n, s.DueScore})
	}
	sort.Slice(cands, func(i, j int) bool {
		if cands[i].dueScore != cands[j].dueScore {
			return cands[i].dueScore > cands[j].dueScore
		}
		return cands[i].n < cands[j].n
	})

	if len(cands) > k {
		cands = cands[:k]
	}
	out := make([]int, len(cands))
	for i, c := range cands {
		out[i] = c.n
	}
	return out
}
