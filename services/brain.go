package services

import (
	"encoding/json"
	"math"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jshill103/lotto-brain/models"
)

// Weight tuning constants.
const (
	brainLearningRate  = 0.05
	brainHighStratHit  = 3.0
	brainLowStratHit   = 1.0
	brainWeightMin     = 0.05
	brainWeightMax     = 0.60
	strategyRankDepth  = 10
	nearMissDeltaAbs   = 1
)

// Brain holds the per-stream online-learning state: current weights,
// cumulative accuracy stats, and a bounded learning history. Reads take a
// snapshot via an atomic pointer; Learn is serialized per stream via
// learnMu so only one tuning pass runs at a time for a given stream, with
// writes applied copy-then-swap on a whole-snapshot unit of update.
type Brain struct {
	stream models.Stream
	db     *Database
	scorer *EnsembleScorer

	state   atomic.Pointer[models.BrainState]
	learnMu sync.Mutex
}

// NewBrain constructs a Brain for the given stream, loading persisted state
// from db if present (migrating missing weight keys) or starting fresh.
func NewBrain(stream models.Stream, db *Database, scorer *EnsembleScorer) *Brain {
	b := &Brain{stream: stream, db: db, scorer: scorer}

	state := models.NewBrainState()
	if db != nil {
		if blob, ok, err := db.LoadAIMemory(string(stream)); err == nil && ok {
			if loaded, migrated := loadBrainState(blob); loaded != nil {
				state = loaded
				if migrated {
					LogInfo("brain: migrated persisted weights for stream " + string(stream))
				}
			}
		} else if err != nil {
			LogWarn("brain: failed to load persisted state, using defaults: " + err.Error())
		}
	}

	b.state.Store(state)
	return b
}

// loadBrainState unmarshals a persisted blob, rejecting unrecognized
// weight keys, injecting any missing recognized keys, and renormalizing
// (rounded to 2 decimals) if anything was injected or rejected.
func loadBrainState(blob string) (state *models.BrainState, migrated bool) {
	var s models.BrainState
	if err := json.Unmarshal([]byte(blob), &s); err != nil {
		LogWarn("brain: corrupted blob, falling back to defaults: " + err.Error())
		return models.NewBrainState(), true
	}

	if s.Weights == nil {
		s.Weights = make(map[string]float64)
	}
	if s.StatsByType == nil {
		s.StatsByType = make(map[int]models.AccuracyStats)
	}

	recognized := make(map[string]bool, len(models.StrategyKeys))
	for _, k := range models.StrategyKeys {
		recognized[k] = true
	}

	changed := false
	for k := range s.Weights {
		if !recognized[k] {
			delete(s.Weights, k)
			changed = true
		}
	}
	for _, k := range models.StrategyKeys {
		if _, ok := s.Weights[k]; !ok {
			s.Weights[k] = 1.0 / float64(len(models.StrategyKeys))
			changed = true
		}
	}

	if changed {
		normalizeWeightsRounded(s.Weights, 2)
	}

	if len(s.History) > models.MaxHistoryLen {
		s.History = s.History[len(s.History)-models.MaxHistoryLen:]
	}

	return &s, changed
}

// Status returns a deep copy of the current state, safe for the caller to
// read without racing a concurrent Learn.
func (b *Brain) Status() *models.BrainState {
	return b.state.Load().Clone()
}

// Score is a thin wrapper over the Ensemble Scorer, run with the Brain's
// current weights (or an explicit override, e.g. during Learn's leakage-
// guarded recomputation).
func (b *Brain) Score(draws []models.Draw, weights map[string]float64) (scores map[int]float64, votes map[int]int) {
	if weights == nil {
		weights = b.state.Load().Weights
	}
	return b.scorer.Score(draws, weights, b.stream)
}

// Learn reconciles a newly observed actual draw against the ensemble's
// prediction, updates accuracy stats, tunes per-strategy weights, appends
// a bounded history entry, and persists the result. Learn for one stream
// never reads or writes another stream's Brain.
func (b *Brain) Learn(actualDraw [5]int, allDraws []models.Draw, drawTypeID int, hasDrawType bool) {
	b.learnMu.Lock()
	defer b.learnMu.Unlock()

	filtered := excludeMatchingDraw(allDraws, actualDraw, b.stream)

	current := b.state.Load()
	weights := cloneWeights(current.Weights)

	scores, _ := b.scorer.Score(filtered, weights, b.stream)
	top5, _ := (Selector{}).Select(scores)

	actualSet := toSet(actualDraw[:])
	globalMatch := countIntersection(top5, actualSet)

	stratScores := make(map[string]float64, len(b.scorer.Pool))
	for _, strat := range b.scorer.Pool {
		cands := strat.Rank(filtered, strategyRankDepth, b.stream)
		stratScores[strat.Key()] = scoreStrategyCandidates(cands, actualSet)
	}

	next := current.Clone()
	next.Version = current.Version + 1
	now := time.Now()
	next.LastTuned = &now
	next.LastAnalyzedDraw = &actualDraw

	next.StatsGlobal.TotalDraws++
	next.StatsGlobal.TotalHits += globalMatch
	next.StatsGlobal.GlobalAccuracy = safeDiv(float64(next.StatsGlobal.TotalHits), float64(next.StatsGlobal.TotalDraws*5), 0)

	if hasDrawType {
		st := next.StatsByType[drawTypeID]
		st.TotalDraws++
		st.TotalHits += globalMatch
		st.GlobalAccuracy = safeDiv(float64(st.TotalHits), float64(st.TotalDraws*5), 0)
		next.StatsByType[drawTypeID] = st
	}

	for _, key := range models.StrategyKeys {
		if key == models.StrategyLSTM {
			continue
		}
		next.Weights[key] = tuneWeight(weights[key], stratScores[key])
	}
	// Clamp first, then normalize. An extreme single-step adjustment can
	// still push a normalized weight fractionally outside [0.05, 0.60]
	// (e.g. one strategy at the ceiling while the rest sit at the floor);
	// there is deliberately no second clamp pass.
	normalizeWeightsRounded(next.Weights, -1)

	entry := models.HistoryEntry{
		Date:        now,
		Draw:        actualDraw,
		StratScores: stratScores,
		GlobalMatch: globalMatch,
		NewWeights:  cloneWeights(next.Weights),
	}
	next.History = append(next.History, entry)
	if len(next.History) > models.MaxHistoryLen {
		next.History = next.History[len(next.History)-models.MaxHistoryLen:]
	}

	b.state.Store(next)
	b.persist(next)
}

// tuneWeight applies the LR=0.05 adjustment and clamp for one strategy's
// weight given its hit score for the most recent learning step.
func tuneWeight(w, stratScore float64) float64 {
	switch {
	case stratScore >= brainHighStratHit:
		w += 2 * brainLearningRate
	case stratScore >= brainLowStratHit:
		w += brainLearningRate
	default:
		w -= 0.5 * brainLearningRate
	}
	return clampValue(w, brainWeightMin, brainWeightMax)
}

// scoreStrategyCandidates scores one strategy's top-10 candidates against
// the actual draw: +1.0 per exact match, +0.25 per near-miss (a candidate
// not itself an exact match but within 1 of some actual number).
func scoreStrategyCandidates(candidates []int, actualSet map[int]bool) float64 {
	var score float64
	for _, c := range candidates {
		if actualSet[c] {
			score += 1.0
			continue
		}
		if isNearMiss(c, actualSet) {
			score += 0.25
		}
	}
	return score
}

func isNearMiss(candidate int, actualSet map[int]bool) bool {
	return actualSet[candidate-nearMissDeltaAbs] || actualSet[candidate+nearMissDeltaAbs]
}

func excludeMatchingDraw(draws []models.Draw, actual [5]int, stream models.Stream) []models.Draw {
	actualSet := toSet(actual[:])
	out := make([]models.Draw, 0, len(draws))
	for _, d := range draws {
		nums := d.Numbers(stream)
		if sameSet(nums, actualSet) {
			continue
		}
		out = append(out, d)
	}
	return out
}

func sameSet(nums [5]int, set map[int]bool) bool {
	if len(set) != 5 {
		return false
	}
	for _, n := range nums {
		if !set[n] {
			return false
		}
	}
	return true
}

func toSet(nums []int) map[int]bool {
	s := make(map[int]bool, len(nums))
	for _, n := range nums {
		s[n] = true
	}
	return s
}

func countIntersection(candidates []int, set map[int]bool) int {
	n := 0
	for _, c := range candidates {
		if set[c] {
			n++
		}
	}
	return n
}

func cloneWeights(w map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(w))
	for k, v := range w {
		out[k] = v
	}
	return out
}

// normalizeWeightsRounded L1-normalizes weights in place so they sum to 1.
// If decimals >= 0 each weight is additionally rounded to that many
// decimal places before a final renormalization pass (the migration path
// rounds to 2 decimals).
func normalizeWeightsRounded(weights map[string]float64, decimals int) {
	// sums run in sorted key order so repeated runs produce identical floats
	keys := make([]string, 0, len(weights))
	for k := range weights {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sum float64
	for _, k := range keys {
		sum += weights[k]
	}
	if sum <= 0 {
		even := 1.0 / float64(len(weights))
		for k := range weights {
			weights[k] = even
		}
		return
	}
	for k, v := range weights {
		weights[k] = v / sum
	}

	if decimals >= 0 {
		factor := math.Pow(10, float64(decimals))
		var roundedSum float64
		for _, k := range keys {
			r := math.Round(weights[k]*factor) / factor
			weights[k] = r
			roundedSum += r
		}
		if roundedSum > 0 {
			for k, v := range weights {
				weights[k] = v / roundedSum
			}
		}
	}
}

func (b *Brain) persist(state *models.BrainState) {
	if b.db == nil {
		return
	}
	data, err := json.Marshal(state)
	if err != nil {
		LogError("brain: failed to marshal state for persistence: " + err.Error())
		return
	}
	go func(blob string) {
		if err := b.db.SaveAIMemory(string(b.stream), blob); err != nil {
			LogWarn("brain: persistence failed, keeping in-memory copy: " + err.Error())
		}
	}(string(data))
}
