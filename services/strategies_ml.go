package services

import "github.com/jshill103/lotto-brain/models"

// MLStrategy adapts an external MLFeatureSource (the out-of-scope deep
// learning module's contract) into the Strategy interface. A nil Source
// degrades to an empty ranking, same as NullMLSource.
type MLStrategy struct {
	Source MLFeatureSource
}

func (MLStrategy) Key() string { return models.StrategyLSTM }

func (m MLStrategy) Rank(draws []models.Draw, k int, stream models.Stream) []int {
	if m.Source == nil {
		return nil
	}
	return m.Source.Rank(draws, k, stream)
}
