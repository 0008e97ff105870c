package services

import (
	"strconv"
	"strings"

	"github.com/jshill103/lotto-brain/models"
)

// DecadeAnalysis buckets per-draw numbers into the reporting decades
// (1-9, 10-19, ..., 80-90) and returns per-bucket counts plus the
// per-draw pattern strings (bucket sequence, e.g. "2-3-3-5-8").
func DecadeAnalysis(draws []models.Draw, stream models.Stream) ([]models.DecadeDistribution, []string) {
	counts := make(map[int]int, 9)
	patterns := make([]string, 0, len(draws))

	for _, d := range draws {
		nums := d.Numbers(stream)
		if stream == models.StreamMachine && nums == ([5]int{}) {
			continue
		}
		buckets := make([]string, 0, 5)
		for _, n := range nums {
			b := models.DistributionDecade(n)
			counts[b]++
			buckets = append(buckets, strconv.Itoa(b))
		}
		patterns = append(patterns, strings.Join(buckets, "-"))
	}

	out := make([]models.DecadeDistribution, 0, 9)
	for b := 0; b < 9; b++ {
		low, high := decadeRange(b)
		out = append(out, models.DecadeDistribution{Bucket: b, Low: low, High: high, Count: counts[b]})
	}
	return out, patterns
}

func decadeRange(bucket int) (low, high int) {
	if bucket == 0 {
		return 1, 9
	}
	if bucket == 8 {
		return 80, 90
	}
	return bucket * 10, bucket*10 + 9
}
