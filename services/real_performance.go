package services

import "github.com/jshill103/lotto-brain/models"

// resultFor extracts the DrawResult relevant to stream from a verified
// history entry (winning's Result, or machine's MachineResult).
func resultFor(entry models.PredictionHistoryEntry, stream models.Stream) *models.DrawResult {
	if stream == models.StreamMachine {
		return entry.MachineResult
	}
	return entry.Result
}

// WindowedAccuracy returns the hit-rate (matches / (n*5)) over the most
// recent `window` verified entries for stream, newest first (entries is
// assumed newest-first, matching PredictionHistoryStore.List's order).
func WindowedAccuracy(entries []models.PredictionHistoryEntry, stream models.Stream, window int) float64 {
	var hits, n int
	for _, e := range entries {
		if !e.Verified {
			continue
		}
		res := resultFor(e, stream)
		if res == nil {
			continue
		}
		hits += res.MatchCount
		n++
		if n >= window {
			break
		}
	}
	return safeDiv(float64(hits), float64(n*5), 0)
}

// TotalVerified counts how many entries carry a result for stream.
func TotalVerified(entries []models.PredictionHistoryEntry, stream models.Stream) int {
	n := 0
	for _, e := range entries {
		if e.Verified && resultFor(e, stream) != nil {
			n++
		}
	}
	return n
}
