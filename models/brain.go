package models

import "time"

// Recognized strategy keys. These are the only keys a weight map may carry;
// anything else is rejected when a persisted brain blob is loaded.
const (
	StrategyHot         = "hot"
	StrategyDue         = "due"
	StrategyCorrelation = "correlation"
	StrategyPosition    = "position"
	StrategyBalanced    = "balanced"
	StrategyStatistical = "statistical"
	StrategyFinales     = "finales"
	StrategyLSTM        = "lstm"
)

// StrategyKeys lists every recognized strategy key in a stable order.
var StrategyKeys = []string{
	StrategyHot, StrategyDue, StrategyCorrelation, StrategyPosition,
	StrategyBalanced, StrategyStatistical, StrategyFinales, StrategyLSTM,
}

// DefaultWeights is the equal-weight starting point for a freshly created
// brain, before any learning has happened.
func DefaultWeights() map[string]float64 {
	w := make(map[string]float64, len(StrategyKeys))
	even := 1.0 / float64(len(StrategyKeys))
	for _, k := range StrategyKeys {
		w[k] = even
	}
	return w
}

// AccuracyStats is the hit-rate summary kept at the global level and per
// draw type.
type AccuracyStats struct {
	TotalDraws     int     `json:"totalDraws"`
	TotalHits      int     `json:"totalHits"`
	GlobalAccuracy float64 `json:"globalAccuracy"`
}

// HistoryEntry is one bounded FIFO record of a single Learn call.
type HistoryEntry struct {
	Date        time.Time          `json:"date"`
	Draw        [5]int             `json:"draw"`
	StratScores map[string]float64 `json:"stratScores"`
	GlobalMatch int                `json:"globalMatch"`
	NewWeights  map[string]float64 `json:"newWeights"`
}

// MaxHistoryLen is the bounded FIFO length for a brain's learning history.
const MaxHistoryLen = 50

// BrainState is the full persisted state of a per-stream brain.
type BrainState struct {
	Version          int                      `json:"version"`
	LastTuned        *time.Time               `json:"lastTuned"`
	Weights          map[string]float64       `json:"weights"`
	StatsGlobal      AccuracyStats            `json:"statsGlobal"`
	StatsByType      map[int]AccuracyStats    `json:"statsByType"`
	History          []HistoryEntry           `json:"history"`
	LastAnalyzedDraw *[5]int                  `json:"lastAnalyzedDraw"`
}

// NewBrainState builds a fresh brain with default weights and no history.
func NewBrainState() *BrainState {
	return &BrainState{
		Version:     1,
		Weights:     DefaultWeights(),
		StatsByType: make(map[int]AccuracyStats),
		History:     make([]HistoryEntry, 0, MaxHistoryLen),
	}
}

// Clone deep-copies the state so callers can read it without racing the
// owning goroutine's next write.
func (b *BrainState) Clone() *BrainState {
	if b == nil {
		return NewBrainState()
	}
	out := &BrainState{
		Version:     b.Version,
		StatsGlobal: b.StatsGlobal,
		StatsByType: make(map[int]AccuracyStats, len(b.StatsByType)),
		History:     make([]HistoryEntry, len(b.History)),
		Weights:     make(map[string]float64, len(b.Weights)),
	}
	if b.LastTuned != nil {
		t := *b.LastTuned
		out.LastTuned = &t
	}
	if b.LastAnalyzedDraw != nil {
		d := *b.LastAnalyzedDraw
		out.LastAnalyzedDraw = &d
	}
	for k, v := range b.Weights {
		out.Weights[k] = v
	}
	for k, v := range b.StatsByType {
		out.StatsByType[k] = v
	}
	for i, h := range b.History {
		entry := h
		entry.StratScores = make(map[string]float64, len(h.StratScores))
		for k, v := range h.StratScores {
			entry.StratScores[k] = v
		}
		entry.NewWeights = make(map[string]float64, len(h.NewWeights))
		for k, v := range h.NewWeights {
			entry.NewWeights[k] = v
		}
		out.History[i] = entry
	}
	return out
}
