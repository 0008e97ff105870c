package services

import (
	"sort"

	"github.com/jshill103/lotto-brain/models"
)

// selectorCount is how many numbers the Selector picks.
const selectorCount = 5

// selectorMaxPerDecade is the decade-balance constraint: at most this many
// accepted numbers per SelectorDecade bucket on the first pass.
const selectorMaxPerDecade = 2

// confidenceCap and confidenceBase are the formula constants for a plain
// (non-hybrid) selection: min(95, avg(selected.scores)*100+40).
const (
	confidenceCap  = 95.0
	confidenceBase = 40.0
)

// HybridConfidenceCap and HybridConfidenceBase are the §4.5 constants used
// for the correlation-boosted hybrid selection: cap 97, base 42.
const (
	HybridConfidenceCap  = 97.0
	HybridConfidenceBase = 42.0
)

// Selector picks selectorCount distinct numbers from a score map under a
// decade-balance constraint.
type Selector struct{}

// Select runs the greedy decade-balanced pass over scores and returns the
// chosen numbers (ascending) plus a confidence derived from their average
// score. An empty score map (zero draws) yields an empty selection and
// zero confidence.
func (Selector) Select(scores map[int]float64) (numbers []int, confidence float64) {
	return selectWithConfidence(scores, confidenceCap, confidenceBase)
}

// SelectHybrid is identical to Select but applies the hybrid confidence
// cap and base (97 and 42).
func (Selector) SelectHybrid(scores map[int]float64) (numbers []int, confidence float64) {
	return selectWithConfidence(scores, HybridConfidenceCap, HybridConfidenceBase)
}

func selectWithConfidence(scores map[int]float64, confCap, base float64) ([]int, float64) {
	if len(scores) == 0 {
		return nil, 0
	}

	candidates := rankedCandidates(scores)
	if len(candidates) == 0 {
		return nil, 0
	}

	decadeCounts := make(map[int]int, 9)
	chosen := make(map[int]bool, selectorCount)
	var out []int

	for _, c := range candidates {
		if len(out) >= selectorCount {
			break
		}
		d := models.SelectorDecade(c.n)
		if decadeCounts[d] < selectorMaxPerDecade {
			out = append(out, c.n)
			chosen[c.n] = true
			decadeCounts[d]++
		}
	}

	if len(out) < selectorCount {
		for _, c := range candidates {
			if len(out) >= selectorCount {
				break
			}
			if !chosen[c.n] {
				out = append(out, c.n)
				chosen[c.n] = true
			}
		}
	}

	sort.Ints(out)

	if len(out) == 0 {
		return nil, 0
	}

	var sum float64
	for _, n := range out {
		sum += scores[n]
	}
	avg := sum / float64(len(out))
	confidence := avg*100 + base
	if confidence > confCap {
		confidence = confCap
	}
	if confidence < 0 {
		confidence = 0
	}
	return out, confidence
}

type scoredNumber struct {
	n     int
	score float64
}

// rankedCandidates returns numbers with a positive score, descending,
// ties broken ascending by number for determinism.
func rankedCandidates(scores map[int]float64) []scoredNumber {
	out := make([]scoredNumber, 0, len(scores))
	for n, s := range scores {
		if s > 0 {
			out = append(out, scoredNumber{n, s})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].score != out[j].score {
			return out[i].score > out[j].score
		}
		return out[i].n < out[j].n
	})
	return out
}
