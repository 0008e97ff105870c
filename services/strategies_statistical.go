package services

import (
	"sort"

	"github.com/jshill103/lotto-brain/models"
)

// StatisticalStrategy scores each number as Σ(lift-1)*2 over pairs formed
// with the last draw's numbers, plus Σ probability*5 over followers of the
// last draw, then ranks by that combined score.
type StatisticalStrategy struct{}

func (StatisticalStrategy) Key() string { return models.StrategyStatistical }

func (StatisticalStrategy) Rank(draws []models.Draw, k int, stream models.Stream) []int {
	last, ok := lastDraw(draws, stream)
	if !ok {
		return nil
	}

	pairs := CorrelationAnalysis(draws, stream)
	followers := FollowerAnalysis(draws, stream)

	score := make(map[int]float64, 90)
	for _, anchor := range last {
		for _, p := range TopPairsFor(pairs, anchor) {
			partner := pairPartner(p, anchor)
			score[partner] += (p.Lift - 1) * 2
		}
		for _, f := range followers[anchor] {
			score[f.Follower] += f.Probability * 5
		}
	}

	type cand struct {
		n     int
		score float64
	}
	cands := make([]cand, 0, len(score))
	for n, s := range score {
		if s <= 0 {
			continue
		}
		cands = append(cands, cand{n, s})
	}
	sort.Slice(cands, func(i, j int) bool {
		if cands[i].score != cands[j].score {
			return cands[i].score > cands[j].score
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
