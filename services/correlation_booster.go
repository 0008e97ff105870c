package services

import (
	"sort"

	"github.com/jshill103/lotto-brain/models"
)

// hybridTopCorrelated is how many top correlated winning numbers each
// predicted machine number contributes.
const hybridTopCorrelated = 10

// defaultBoostFactor is the multiplicative boost applied once per unique
// boosted winning number.
const defaultBoostFactor = 1.30

// CorrelationBooster builds a machine->winning co-occurrence matrix from
// historical draws and boosts winning-stream scores for numbers that have
// co-occurred with the predicted machine numbers, producing a hybrid
// selection.
type CorrelationBooster struct {
	BoostFactor float64
}

// NewCorrelationBooster builds a booster with the default 1.30 factor.
func NewCorrelationBooster() *CorrelationBooster {
	return &CorrelationBooster{BoostFactor: defaultBoostFactor}
}

// coOccurrenceMatrix counts, for every draw with a complete machine set,
// how many times each machine number co-occurred with each winning number.
func coOccurrenceMatrix(draws []models.Draw) map[int]map[int]int {
	m := make(map[int]map[int]int)
	for _, d := range draws {
		if d.Machine == ([5]int{}) {
			continue
		}
		for _, mn := range d.Machine {
			row, ok := m[mn]
			if !ok {
				row = make(map[int]int)
				m[mn] = row
			}
			for _, wn := range d.Winning {
				row[wn]++
			}
		}
	}
	return m
}

// correlatedWinner is one winning number correlated with a machine number,
// along with its co-occurrence count.
type correlatedWinner struct {
	Number int
	Count  int
}

// topCorrelated returns the top-n winning numbers correlated with
// machine number mn, ranked by count descending then number ascending.
func topCorrelated(matrix map[int]map[int]int, mn, n int) []correlatedWinner {
	row := matrix[mn]
	out := make([]correlatedWinner, 0, len(row))
	for w, c := range row {
		out = append(out, correlatedWinner{w, c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Number < out[j].Number
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// Boost multiplicatively boosts winningScores for numbers historically
// correlated with any of the predicted machineNumbers, each boosted at
// most once even if recommended by multiple machine numbers. Returns the
// boosted score map (a copy; winningScores is left untouched) plus a
// correlationStrength summary in [0,1] and the count of distinct boosted
// numbers.
func (cb *CorrelationBooster) Boost(draws []models.Draw, winningScores map[int]float64, machineNumbers []int) (boosted map[int]float64, correlationStrength float64, boostedCount int) {
	factor := cb.BoostFactor
	if factor <= 0 {
		factor = defaultBoostFactor
	}

	boosted = make(map[int]float64, len(winningScores))
	for n, s := range winningScores {
		boosted[n] = s
	}

	matrix := coOccurrenceMatrix(draws)

	alreadyBoosted := make(map[int]bool)
	var totalStrength float64
	var strengthSamples int

	machineDraws := 0
	for _, d := range draws {
		if d.Machine != ([5]int{}) {
			machineDraws++
		}
	}

	for _, mn := range machineNumbers {
		top := topCorrelated(matrix, mn, hybridTopCorrelated)
		if len(top) > 0 {
			// theoretical maximum for normalization: the top correlated
			// count relative to the total number of draws with a machine
			// set, clamped to [0,1].
			maxPossible := machineDraws
			if maxPossible > 0 {
				totalStrength += clampValue(float64(top[0].Count)/float64(maxPossible), 0, 1)
				strengthSamples++
			}
		}
		for _, t := range top {
			cur, ok := boosted[t.Number]
			if !ok || cur <= 0 || alreadyBoosted[t.Number] {
				continue
			}
			boosted[t.Number] *= factor
			alreadyBoosted[t.Number] = true
			boostedCount++
		}
	}

	correlationStrength = safeDiv(totalStrength, float64(strengthSamples), 0)
	return boosted, correlationStrength, boostedCount
}
