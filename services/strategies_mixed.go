package services

import "github.com/jshill103/lotto-brain/models"

// MixedStrategy interleaves the hot and due rankings, alternating between
// the two until k distinct numbers are collected. It carries no weight key
// of its own, so it never enters the ensemble's weighted combination; the
// prediction handlers expose it as a standalone alternative selection.
type MixedStrategy struct{}

func (MixedStrategy) Key() string { return "mixed" }

func (MixedStrategy) Rank(draws []models.Draw, k int, stream models.Stream) []int {
	hot := HotStrategy{}.Rank(draws, k, stream)
	due := DueStrategy{}.Rank(draws, k, stream)

	seen := make(map[int]bool, k)
	var out []int
	for i := 0; i < len(hot) || i < len(due); i++ {
		if i < len(hot) {
			out = dedupAppend(out, seen, hot[i], k)
		}
		if i < len(due) {
			out = dedupAppend(out, seen, due[i], k)
		}
		if len(out) >= k {
			break
		}
	}
	return out
}
