package services

import "github.com/jshill103/lotto-brain/models"

// balancedDecadeOrder is the fixed visitation order for the balanced
// strategy: decades [2,3,4,5,1,6,7,0,8] (SelectorDecade buckets).
var balancedDecadeOrder = [9]int{2, 3, 4, 5, 1, 6, 7, 0, 8}

// BalancedStrategy picks the most frequent number from each decade,
// visiting decades in the fixed order above, until k numbers are
// collected (or every decade has been visited once).
type BalancedStrategy struct{}

func (BalancedStrategy) Key() string { return models.StrategyBalanced }

func (BalancedStrategy) Rank(draws []models.Draw, k int, stream models.Stream) []int {
	if _, ok := lastDraw(draws, stream); !ok {
		return nil
	}
	freq := frequencyCounts(draws, stream)

	byDecade := make(map[int][]int, 9)
	for n := 1; n <= 90; n++ {
		d := models.SelectorDecade(n)
		byDecade[d] = append(byDecade[d], n)
	}

	seen := make(map[int]bool, k)
	var out []int
	for _, d := range balancedDecadeOrder {
		if len(out) >= k {
			break
		}
		best, bestFreq, found := 0, -1, false
		for _, n := range byDecade[d] {
			if freq[n] > bestFreq {
				best, bestFreq, found = n, freq[n], true
			}
		}
		if found {
			out = dedupAppend(out, seen, best, k)
		}
	}
	return out
}
