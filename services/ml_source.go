package services

import "github.com/jshill103/lotto-brain/models"

// MLFeatureSource is the pluggable interface the out-of-scope deep-learning
// module would satisfy: given a chronological draw sequence, return a
// ranked list of up to k candidate numbers. The ensemble must tolerate an
// empty result from any implementation.
type MLFeatureSource interface {
	Rank(draws []models.Draw, k int, stream models.Stream) []int
}

// NullMLSource always returns an empty ranking. It is the Non-goal-safe
// default: the core must function identically to "no lstm feature" when
// wired to it.
type NullMLSource struct{}

// Rank implements MLFeatureSource.
func (NullMLSource) Rank(draws []models.Draw, k int, stream models.Stream) []int {
	return nil
}

// StubLSTMSource is a deterministic placeholder standing in for the real
// deep-learning module so the lstm strategy key has something to exercise
// end to end without that module existing in this repo. It ranks by the
// same recent-frequency signal as HotStrategy but over a shorter trailing
// window, giving the ensemble a distinct (not identical) candidate list.
type StubLSTMSource struct {
	// Window bounds how many of the most recent draws are considered.
	// Zero means "use the default window".
	Window int
}

const defaultLSTMWindow = 40

// Rank implements MLFeatureSource.
func (s StubLSTMSource) Rank(draws []models.Draw, k int, stream models.Stream) []int {
	window := s.Window
	if window <= 0 {
		window = defaultLSTMWindow
	}
	start := len(draws) - window
	if start < 0 {
		start = 0
	}
	recent := draws[start:]

	freq := frequencyCounts(recent, stream)
	if len(freq) == 0 {
		return nil
	}
	ranked := sortByFreqDesc(freq)
	if len(ranked) > k {
		ranked = ranked[:k]
	}
	return ranked
}
