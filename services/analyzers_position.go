package services

import (
	"sort"

	"github.com/jshill103/lotto-brain/models"
)

// PositionAnalysis sorts each draw ascending and accumulates per-position
// (1..5) frequency counts, returning the top 10 numbers for each position.
func PositionAnalysis(draws []models.Draw, stream models.Stream) map[int][]models.PositionStat {
	var counts [5]map[int]int
	for i := range counts {
		counts[i] = make(map[int]int)
	}

	for _, d := range draws {
		nums := d.Numbers(stream)
		if stream == models.StreamMachine && nums == ([5]int{}) {
			continue
		}
		sorted := append([]int(nil), nums[:]...)
		sort.Ints(sorted)
		for pos, n := range sorted {
			counts[pos][n]++
		}
	}

	out := make(map[int][]models.PositionStat, 5)
	for pos := 0; pos < 5; pos++ {
		stats := make([]models.PositionStat, 0, len(counts[pos]))
		for n, c := range counts[pos] {
			stats = append(stats, models.PositionStat{Position: pos + 1, Number: n, Count: c})
		}
		sort.Slice(stats, func(i, j int) bool {
			if stats[i].Count != stats[j].Count {
				return stats[i].Count > stats[j].Count
			}
			return stats[i].Number < stats[j].Number
		})
		if len(stats) > 10 {
			stats = stats[:10]
		}
		out[pos+1] = stats
	}
	return out
}

// TopPerPosition returns the single most frequent number for each of the
// five sorted positions, in position order.
func TopPerPosition(byPos map[int][]models.PositionStat) [5]int {
	var out [5]int
	for pos := 1; pos <= 5; pos++ {
		if stats := byPos[pos]; len(stats) > 0 {
			out[pos-1] = stats[0].Number
		}
	}
	return out
}
