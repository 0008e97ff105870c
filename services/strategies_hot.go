package services

import "github.com/jshill103/lotto-brain/models"

// HotStrategy ranks numbers by raw appearance frequency, highest first.
type HotStrategy struct{}

func (HotStrategy) Key() string { return models.StrategyHot }

func (HotStrategy) Rank(draws []models.Draw, k int, stream models.Stream) []int {
	ranked := sortByFreqDesc(frequencyCounts(draws, stream))
	if len(ranked) > k {
		ranked = ranked[:k]
	}
	return ranked
}
