package services

import (
	"sort"

	"github.com/jshill103/lotto-brain/models"
)

// Strategy is one deterministic scoring strategy in the pool: given a
// chronological draw sequence it returns up to k distinct 1..90 numbers,
// most-favored first, ties broken ascending for determinism.
type Strategy interface {
	Key() string
	Rank(draws []models.Draw, k int, stream models.Stream) []int
}

// DefaultPool returns the eight recognized strategies in models.StrategyKeys
// order, wired to the external ML feature source for the lstm slot.
func DefaultPool(ml MLFeatureSource) []Strategy {
	return []Strategy{
		HotStrategy{},
		DueStrategy{},
		CorrelationStrategy{},
		PositionStrategy{},
		BalancedStrategy{},
		StatisticalStrategy{},
		FinalesStrategy{},
		MLStrategy{Source: ml},
	}
}

// dedupAppend appends n to out if it isn't already present and out has
// fewer than k elements. Returns the (possibly extended) slice.
func dedupAppend(out []int, seen map[int]bool, n, k int) []int {
	if len(out) >= k || seen[n] {
		return out
	}
	seen[n] = true
	return append(out, n)
}

func frequencyCounts(draws []models.Draw, stream models.Stream) map[int]int {
	freq := make(map[int]int, 90)
	for _, d := range draws {
		nums := d.Numbers(stream)
		if stream == models.StreamMachine && nums == ([5]int{}) {
			continue
		}
		for _, n := range nums {
			freq[n]++
		}
	}
	return freq
}

func sortByFreqDesc(freq map[int]int) []int {
	nums := make([]int, 0, len(freq))
	for n := range freq {
		nums = append(nums, n)
	}
	sort.Slice(nums, func(i, j int) bool {
		if freq[nums[i]] != freq[nums[j]] {
			return freq[nums[i]] > freq[nums[j]]
		}
		return nums[i] < nums[j]
	})
	return nums
}

func lastDraw(draws []models.Draw, stream models.Stream) ([5]int, bool) {
	for i := len(draws) - 1; i >= 0; i-- {
		nums := draws[i].Numbers(stream)
		if stream == models.StreamMachine && nums == ([5]int{}) {
			continue
		}
		return nums, true
	}
	return [5]int{}, false
}
