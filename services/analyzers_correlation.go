package services

import (
	"sort"

	"github.com/jshill103/lotto-brain/models"
)

// minPairCount and minLift are the thresholds a pair must clear to be
// reported: count >= 3 AND lift > 1.2.
const (
	minPairCount = 3
	minLift      = 1.2
)

// CorrelationAnalysis computes pairwise lift for every unordered pair of
// numbers that co-occurred in at least one draw, keeping only pairs that
// clear the count/lift thresholds.
func CorrelationAnalysis(draws []models.Draw, stream models.Stream) []models.Correlation {
	freq := make(map[int]int, 90)
	pairCount := make(map[[2]int]int)

	n := 0
	for _, d := range draws {
		nums := d.Numbers(stream)
		if stream == models.StreamMachine && nums == ([5]int{}) {
			continue
		}
		n++
		for i := range nums {
			freq[nums[i]]++
			for j := i + 1; j < len(nums); j++ {
				pairCount[pairKey(nums[i], nums[j])]++
			}
		}
	}

	out := make([]models.Correlation, 0, len(pairCount))
	for pair, count := range pairCount {
		if count < minPairCount {
			continue
		}
		fa, fb := freq[pair[0]], freq[pair[1]]
		if fa == 0 || fb == 0 || n == 0 {
			continue
		}
		lift := safeDiv(float64(count)*float64(n), float64(fa)*float64(fb), 0)
		if lift <= minLift {
			continue
		}
		out = append(out, models.Correlation{A: pair[0], B: pair[1], Count: count, Lift: lift})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Lift != out[j].Lift {
			return out[i].Lift > out[j].Lift
		}
		if out[i].A != out[j].A {
			return out[i].A < out[j].A
		}
		return out[i].B < out[j].B
	})
	return out
}

// TripleCorrelations computes co-occurrence lift for number triples the
// same way CorrelationAnalysis does for pairs, returning at most limit
// results. Reporting only: no strategy consumes triples.
func TripleCorrelations(draws []models.Draw, stream models.Stream, limit int) []models.TripleCorrelation {
	freq := make(map[int]int, 90)
	tripleCount := make(map[[3]int]int)

	n := 0
	for _, d := range draws {
		nums := d.Numbers(stream)
		if stream == models.StreamMachine && nums == ([5]int{}) {
			continue
		}
		n++
		sorted := append([]int(nil), nums[:]...)
		sort.Ints(sorted)
		for i := range sorted {
			freq[sorted[i]]++
			for j := i + 1; j < len(sorted); j++ {
				for k := j + 1; k < len(sorted); k++ {
					tripleCount[[3]int{sorted[i], sorted[j], sorted[k]}]++
				}
			}
		}
	}

	out := make([]models.TripleCorrelation, 0, len(tripleCount))
	for triple, count := range tripleCount {
		if count < minPairCount {
			continue
		}
		fa, fb, fc := freq[triple[0]], freq[triple[1]], freq[triple[2]]
		lift := safeDiv(float64(count)*float64(n)*float64(n), float64(fa)*float64(fb)*float64(fc), 0)
		if lift <= minLift {
			continue
		}
		out = append(out, models.TripleCorrelation{
			A: triple[0], B: triple[1], C: triple[2], Count: count, Lift: lift,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Lift != out[j].Lift {
			return out[i].Lift > out[j].Lift
		}
		if out[i].A != out[j].A {
			return out[i].A < out[j].A
		}
		if out[i].B != out[j].B {
			return out[i].B < out[j].B
		}
		return out[i].C < out[j].C
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func pairKey(a, b int) [2]int {
	if a > b {
		a, b = b, a
	}
	return [2]int{a, b}
}

// TopPairsFor returns, in descending-lift order, the pairs that involve n.
func TopPairsFor(pairs []models.Correlation, n int) []models.Correlation {
	var out []models.Correlation
	for _, p := range pairs {
		if p.A == n || p.B == n {
			out = append(out, p)
		}
	}
	return out
}

// pairPartner returns the member of the pair that isn't n.
func pairPartner(c models.Correlation, n int) int {
	if c.A == n {
		return c.B
	}
	return c.A
}
