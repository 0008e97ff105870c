package services

import (
	"sort"
	"sync"
	"time"

	"github.com/jshill103/lotto-brain/models"
)

// verificationThrottle is the minimum interval between lazy on-demand
// runs; Run(force=true) bypasses it.
const verificationThrottle = 60 * time.Second

// verificationWindowDays bounds how far back a draw is considered a
// candidate match for a pending entry.
const verificationWindowDays = 7

// attributionMin and attributionMax bound the delta between a candidate
// draw's date and the entry's prediction timestamp for attribution:
// [-24h, +72h).
const (
	attributionMin = -24 * time.Hour
	attributionMax = 72 * time.Hour
)

// VerificationService matches prior logged predictions against newly
// ingested draws and reports each attribution so the caller can dispatch
// Brain.Learn.
type VerificationService struct {
	history   *PredictionHistoryStore
	drawStore *DrawStore

	// OnVerified, if set, is invoked once per newly verified entry with
	// the matched draw, after the entry has been persisted as verified.
	// main.go wires this to dispatch Brain.Learn for the winning/machine
	// streams, keeping the verifier free of a dependency on Brain.
	OnVerified func(entry models.PredictionHistoryEntry, draw models.Draw)

	mu      sync.Mutex
	lastRun time.Time
}

// NewVerificationService wires a prediction history store and draw store.
func NewVerificationService(history *PredictionHistoryStore, drawStore *DrawStore) *VerificationService {
	return &VerificationService{history: history, drawStore: drawStore}
}

// Run reconciles pending history entries against recent draws. Throttled
// to once per verificationThrottle unless force is true. Swallows all
// errors and leaves unresolved entries pending for the next tick.
func (v *VerificationService) Run(force bool) {
	if v == nil || v.history == nil || v.drawStore == nil {
		return
	}

	v.mu.Lock()
	now := time.Now()
	if !force && now.Sub(v.lastRun) < verificationThrottle {
		v.mu.Unlock()
		return
	}
	v.lastRun = now
	v.mu.Unlock()

	allDraws := v.drawStore.GetDraws(0)
	recent := lastNDaysDraws(allDraws, now, verificationWindowDays)
	if len(recent) == 0 {
		return
	}

	entries := v.history.List()
	for i := len(entries) - 1; i >= 0; i-- {
		entry := entries[i]
		if !entry.IsVerifiable(now) {
			continue
		}

		draw, ok := earliestMatchingDraw(recent, entry)
		if !ok {
			continue
		}

		delta := draw.Date.Sub(entry.Timestamp)
		if delta < attributionMin || delta >= attributionMax {
			continue
		}

		entry.Result = computeDrawResult(entry.Predicted, draw.Winning, draw.Date)
		if len(entry.MachineNumbers) > 0 && draw.Machine != ([5]int{}) {
			entry.MachineResult = computeDrawResult(entry.MachineNumbers, draw.Machine, draw.Date)
		}
		if len(entry.HybridNumbers) > 0 && draw.Machine != ([5]int{}) {
			entry.HybridResult = computeDrawResult(entry.HybridNumbers, draw.Winning, draw.Date)
		}
		entry.Verified = true

		v.history.UpdateAt(i, entry)

		if v.OnVerified != nil {
			v.OnVerified(entry, draw)
		}
	}
}

// lastNDaysDraws returns the subslice of a chronologically ordered draw
// sequence falling within the last n days of now.
func lastNDaysDraws(draws []models.Draw, now time.Time, days int) []models.Draw {
	cutoff := now.AddDate(0, 0, -days)
	start := 0
	for start < len(draws) && draws[start].Date.Before(cutoff) {
		start++
	}
	return draws[start:]
}

// earliestMatchingDraw finds the earliest draw (by chronological order in
// recent) whose DrawTypeID matches the entry and whose date is on or after
// the entry's prediction timestamp.
func earliestMatchingDraw(recent []models.Draw, entry models.PredictionHistoryEntry) (models.Draw, bool) {
	for _, d := range recent {
		if d.DrawTypeID != entry.DrawTypeID {
			continue
		}
		if d.Date.Before(entry.Timestamp) {
			continue
		}
		return d, true
	}
	return models.Draw{}, false
}

// computeDrawResult computes exact matches and near-misses of predicted
// against actual: matches = intersection(predicted, actual); a near-miss
// is a predicted number, not itself an exact match, within 1 of some
// actual number. Matches and near-misses are disjoint by construction.
func computeDrawResult(predicted []int, actual [5]int, drawDate time.Time) *models.DrawResult {
	actualSet := toSet(actual[:])

	var matches, nearMisses []int
	for _, p := range predicted {
		if actualSet[p] {
			matches = append(matches, p)
			continue
		}
		if isNearMiss(p, actualSet) {
			nearMisses = append(nearMisses, p)
		}
	}
	sort.Ints(matches)
	sort.Ints(nearMisses)

	return &models.DrawResult{
		DrawDate:   drawDate,
		Actual:     actual,
		MatchCount: len(matches),
		Matches:    matches,
		NearMisses: nearMisses,
	}
}
