package services

import (
	"sort"

	"github.com/jshill103/lotto-brain/models"
)

// finalesTopN is how many top finales (by weighted dueScore/percentage)
// feed the finales strategy's candidate pool.
const finalesTopN = 3

// FinalesStrategy picks the top-3 finales by weighted combination, then
// collects every 1..90 number whose last digit matches one of them,
// ranked by global frequency.
type FinalesStrategy struct{}

func (FinalesStrategy) Key() string { return models.StrategyFinales }

func (FinalesStrategy) Rank(draws []models.Draw, k int, stream models.Stream) []int {
	if _, ok := lastDraw(draws, stream); !ok {
		return nil
	}
	finaleStats := FinaleAnalysis(draws, stream)
	topFinales := TopFinales(finaleStats, finalesTopN)
	if len(topFinales) == 0 {
		return nil
	}
	wanted := make(map[int]bool, len(topFinales))
	for _, f := range topFinales {
		wanted[f] = true
	}

	freq := frequencyCounts(draws, stream)

	type cand struct {
		n    int
		freq int
	}
	var cands []cand
	for n := 1; n <= 90; n++ {
		if wanted[n%10] {
			cands = append(cands, cand{n, freq[n]})
		}
	}
	sort.Slice(cands, func(i, j int) bool {
		if cands[i].freq != cands[j].freq {
			return cands[i].freq > cands[j].freq
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
