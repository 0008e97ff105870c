package services

import (
	"math"
	"sort"

	"github.com/jshill103/lotto-brain/models"
)

// FinaleAnalysis groups numbers by last decimal digit (0..9) and computes
// per-finale count, distinct-draw appearances, current gap and a dueScore
// analogous to the per-number cycle analysis.
func FinaleAnalysis(draws []models.Draw, stream models.Stream) map[int]models.FinaleStats {
	count := make(map[int]int, 10)
	appearances := make(map[int]int, 10)
	lastSeen := make(map[int]int, 10)
	gapSums := make(map[int]float64, 10)
	gapCounts := make(map[int]int, 10)

	totalDraws := 0
	for idx, d := range draws {
		nums := d.Numbers(stream)
		if stream == models.StreamMachine && nums == ([5]int{}) {
			continue
		}
		totalDraws++
		seenThisDraw := make(map[int]bool, 5)
		for _, n := range nums {
			f := n % 10
			count[f]++
			if !seenThisDraw[f] {
				appearances[f]++
				seenThisDraw[f] = true
				if prev, ok := lastSeen[f]; ok {
					gapSums[f] += float64(idx - prev)
					gapCounts[f]++
				}
				lastSeen[f] = idx
			}
		}
	}

	totalNumbers := 0
	for _, c := range count {
		totalNumbers += c
	}

	out := make(map[int]models.FinaleStats, 10)
	for f := 0; f < 10; f++ {
		stats := models.FinaleStats{
			Finale:      f,
			Count:       count[f],
			Appearances: appearances[f],
			Percentage:  safeDiv(float64(count[f])*100, float64(totalNumbers), 0),
		}

		last, seen := lastSeen[f]
		if !seen {
			stats.DueScore = 200
			stats.CurrentGap = totalDraws
			out[f] = stats
			continue
		}
		stats.CurrentGap = totalDraws - 1 - last

		avgGap := safeDiv(gapSums[f], float64(gapCounts[f]), 0)
		if avgGap > 0 {
			stats.DueScore = math.Min(200, 100*float64(stats.CurrentGap)/avgGap)
		} else {
			stats.DueScore = 200
		}
		out[f] = stats
	}
	return out
}

// TopFinales returns the top-n finales ranked by 0.6*dueScore + 0.4*pct.
func TopFinales(stats map[int]models.FinaleStats, n int) []int {
	type cand struct {
		f     int
		score float64
	}
	cands := make([]cand, 0, len(stats))
	for f, s := range stats {
		score := 0.6*s.DueScore + 0.4*s.Percentage
		cands = append(cands, cand{f, score})
	}
	sort.Slice(cands, func(i, j int) bool {
		if cands[i].score != cands[j].score {
			return cands[i].score > cands[j].score
		}
		return cands[i].f < cands[j].f
	})
	if len(cands) > n {
		cands = cands[:n]
	}
	out := make([]int, len(cands))
	for i, c := range cands {
		out[i] = c.f
	}
	return out
}
