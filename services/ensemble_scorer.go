package services

import (
	"sort"

	"github.com/jshill103/lotto-brain/models"
)

// strategyListLen is the length the ensemble requests from each
// strategy's ranked list.
const strategyListLen = 15

// neighborRedistributionTopN is how many top-scoring numbers participate in
// the tactical neighbor redistribution pass.
const neighborRedistributionTopN = 15

// neighborRedistributionFactor is the fraction of a number's score
// diffused to each of its two neighbors.
const neighborRedistributionFactor = 0.15

// synergy amplifier thresholds and multipliers.
const (
	synergyHighVotes   = 5
	synergyHighBoost   = 1.20
	synergyMidVotes    = 3
	synergyMidBoost    = 1.10
	loneWolfScoreFloor = 2.0
	loneWolfPenalty    = 0.85
)

// EnsembleScorer linearly combines the Strategy Pool's ranked candidate
// lists using the Brain's current weights, applies tactical neighbor
// redistribution and the synergy amplifier, and produces a full 1..90
// score map plus a parallel vote count map. Pure and deterministic: given
// identical inputs it returns byte-for-byte identical outputs.
type EnsembleScorer struct {
	Pool []Strategy
}

// NewEnsembleScorer builds a scorer over the given strategy pool.
func NewEnsembleScorer(pool []Strategy) *EnsembleScorer {
	return &EnsembleScorer{Pool: pool}
}

// Score runs every strategy in the pool over draws, combines their ranked
// lists with weights, and returns the resulting score and vote maps
// (both indexed 1..90). A strategy whose key has no entry in weights
// contributes nothing (weight treated as 0), so the scorer tolerates a
// brain still mid-migration as well as an entirely empty pool.
func (es *EnsembleScorer) Score(draws []models.Draw, weights map[string]float64, stream models.Stream) (scores map[int]float64, votes map[int]int) {
	scores = make(map[int]float64, 90)
	votes = make(map[int]int, 90)
	for n := 1; n <= 90; n++ {
		scores[n] = 0
		votes[n] = 0
	}

	var cycleStats map[int]models.CycleStats

	for _, strat := range es.Pool {
		w := weights[strat.Key()]
		if w <= 0 {
			continue
		}

		list := strat.Rank(draws, strategyListLen, stream)
		if len(list) == 0 {
			continue
		}

		if strat.Key() == models.StrategyDue && cycleStats == nil {
			cycleStats = CycleAnalysis(draws, stream)
		}

		for i, n := range list {
			if n < 1 || n > 90 {
				continue
			}

			var contrib float64
			switch strat.Key() {
			case models.StrategyPosition:
				contrib = w * 2.0
			case models.StrategyBalanced:
				if i < 5 {
					contrib = w * 3.0
				} else {
					contrib = w * (1.0 + 2.0*float64(strategyListLen-i)/10.0)
				}
			case models.StrategyDue:
				base := w * float64(strategyListLen-i) / float64(strategyListLen)
				due := 0.0
				if cycleStats != nil {
					due = cycleStats[n].DueScore
				}
				if due > 150 {
					due = 150
				}
				contrib = base * due / 150
			default:
				contrib = w * float64(strategyListLen-i) / float64(strategyListLen)
			}

			if !isValidNumber(contrib) {
				contrib = 0
			}
			scores[n] += contrib
			if i < 5 {
				votes[n]++
			}
		}
	}

	redistributeNeighbors(scores)
	applySynergyAmplifier(scores, votes)

	return scores, votes
}

// redistributeNeighbors identifies the top-N numbers by current score and
// diffuses a fraction of each one's score to its in-range neighbors
// (n-1, n+1), clamped at the 1/90 boundaries. Single-pass: redistributed
// amounts are computed from the pre-redistribution scores and applied once
// (no cascading).
func redistributeNeighbors(scores map[int]float64) {
	type cand struct {
		n     int
		score float64
	}
	cands := make([]cand, 0, 90)
	for n := 1; n <= 90; n++ {
		if scores[n] > 0 {
			cands = append(cands, cand{n, scores[n]})
		}
	}
	sort.Slice(cands, func(i, j int) bool {
		if cands[i].score != cands[j].score {
			return cands[i].score > cands[j].score
		}
		return cands[i].n < cands[j].n
	})
	if len(cands) > neighborRedistributionTopN {
		cands = cands[:neighborRedistributionTopN]
	}

	type delta struct {
		n     int
		added float64
	}
	var deltas []delta
	for _, c := range cands {
		amount := neighborRedistributionFactor * c.score
		if c.n-1 >= 1 {
			deltas = append(deltas, delta{c.n - 1, amount})
		}
		if c.n+1 <= 90 {
			deltas = append(deltas, delta{c.n + 1, amount})
		}
	}
	for _, d := range deltas {
		scores[d.n] += d.added
	}
}

// applySynergyAmplifier boosts numbers many strategies independently rank
// in their top 5, and penalizes numbers no strategy top-ranked that still
// accumulated a non-trivial score.
func applySynergyAmplifier(scores map[int]float64, votes map[int]int) {
	for n := 1; n <= 90; n++ {
		v := votes[n]
		switch {
		case v >= synergyHighVotes:
			scores[n] *= synergyHighBoost
		case v >= synergyMidVotes:
			scores[n] *= synergyMidBoost
		case v == 0 && scores[n] > loneWolfScoreFloor:
			scores[n] *= loneWolfPenalty
		}
		if scores[n] < 0 || !isValidNumber(scores[n]) {
			scores[n] = 0
		}
	}
}
