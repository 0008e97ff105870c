package services

import (
	"math"
	"sort"

	"github.com/jshill103/lotto-brain/models"
)

// minCycleCountForDue is the reliability floor for a number to qualify
// as a "most due" candidate: cycleCount >= 5.
const minCycleCountForDue = 5

// CycleAnalysis walks draws in chronological order and returns per-number
// cycle/due statistics for every number 1..90 in the requested stream.
func CycleAnalysis(draws []models.Draw, stream models.Stream) map[int]models.CycleStats {
	lastSeen := make(map[int]int, 90)
	gaps := make(map[int][]int, 90)

	for idx, d := range draws {
		nums := d.Numbers(stream)
		if stream == models.StreamMachine && nums == ([5]int{}) {
			continue
		}
		for _, n := range nums {
			if n < 1 || n > 90 {
				continue
			}
			if prev, ok := lastSeen[n]; ok {
				gaps[n] = append(gaps[n], idx-prev)
			}
			lastSeen[n] = idx
		}
	}

	totalDraws := len(draws)
	out := make(map[int]models.CycleStats, 90)
	for n := 1; n <= 90; n++ {
		g := gaps[n]
		stats := models.CycleStats{Number: n, CycleCount: len(g)}

		last, seen := lastSeen[n]
		if !seen {
			stats.DueScore = 200
			stats.CurrentGap = totalDraws
			out[n] = stats
			continue
		}
		stats.CurrentGap = totalDraws - 1 - last

		if len(g) > 0 {
			stats.AvgCycle, stats.MedianCycle, stats.MinCycle, stats.MaxCycle, stats.StdDev = cycleMoments(g)
		}

		if stats.AvgCycle > 0 {
			stats.DueScore = math.Min(200, 100*float64(stats.CurrentGap)/stats.AvgCycle)
			stats.IsOverdue = float64(stats.CurrentGap) > stats.AvgCycle
			stats.OverdueBy = float64(stats.CurrentGap) - stats.AvgCycle
		} else {
			stats.DueScore = 200
		}

		out[n] = stats
	}
	return out
}

func cycleMoments(gaps []int) (avg, median float64, min, max int, stdDev float64) {
	if len(gaps) == 0 {
		return 0, 0, 0, 0, 0
	}
	sorted := append([]int(nil), gaps...)
	sort.Ints(sorted)
	min, max = sorted[0], sorted[len(sorted)-1]

	sum := 0
	for _, g := range sorted {
		sum += g
	}
	avg = safeDiv(float64(sum), float64(len(sorted)), 0)

	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		median = float64(sorted[mid-1]+sorted[mid]) / 2
	} else {
		median = float64(sorted[mid])
	}

	var variance float64
	for _, g := range sorted {
		d := float64(g) - avg
		variance += d * d
	}
	variance = safeDiv(variance, float64(len(sorted)), 0)
	stdDev = math.Sqrt(variance)
	return
}

// MostDue ranks numbers with cycleCount >= minCycleCountForDue by
// descending dueScore, ties broken by ascending number.
func MostDue(stats map[int]models.CycleStats) []int {
	type cand struct {
		n        int
		dueScore float64
	}
	cands := make([]cand, 0, len(stats))
	for n, s := range stats {
		if s.CycleCount < minCycleCountForDue {
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
	out := make([]int, len(cands))
	for i, c := range cands {
		out[i] = c.n
	}
	return out
}
