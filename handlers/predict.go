package handlers

import (
	"encoding/json"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/jshill103/lotto-brain/models"
	"github.com/jshill103/lotto-brain/services"
)

// minDayOfWeekSample is the fewest day-filtered draws required before the
// day-of-week filter is honored; below this, scoring silently falls back
// to the full sequence and the response's analysis.dayOfWeekFallback
// field says so.
const minDayOfWeekSample = 10

// HandlePredict serves GET /predict?type=<id>&day=<0..6>.
func HandlePredict(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	drawTypeID := 0
	if v := r.URL.Query().Get("type"); v != "" {
		if id, err := strconv.Atoi(v); err == nil {
			drawTypeID = id
		} else if dt, ok := drawStore.DrawTypeByName(v); ok {
			drawTypeID = dt.ID
		} else {
			writeError(w, http.StatusBadRequest, "unknown draw type")
			return
		}
	}

	var dayOfWeek *int
	if v := r.URL.Query().Get("day"); v != "" {
		d, err := strconv.Atoi(v)
		if err != nil || d < 0 || d > 6 {
			writeError(w, http.StatusBadRequest, "day must be 0..6")
			return
		}
		dayOfWeek = &d
	}

	if cached, ok := predictionCache.Get(drawTypeID, dayOfWeek); ok {
		json.NewEncoder(w).Encode(cached)
		return
	}

	resp, err := buildPrediction(drawTypeID, dayOfWeek)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	predictionCache.Put(drawTypeID, dayOfWeek, resp)
	logPrediction(resp)

	json.NewEncoder(w).Encode(resp)
}

func buildPrediction(drawTypeID int, dayOfWeek *int) (*models.PredictionResponse, error) {
	if drawStore == nil || winningBrain == nil || machineBrain == nil {
		return nil, services.NewError(services.KindUnavailable, "core services not initialized", nil)
	}

	draws := drawStore.GetDraws(drawTypeID)

	fallback := false
	effective := draws
	if dayOfWeek != nil {
		filtered := filterByDayOfWeek(draws, time.Weekday(*dayOfWeek))
		if len(filtered) >= minDayOfWeekSample {
			effective = filtered
		} else {
			fallback = true
		}
	}

	winningScores, _ := winningBrain.Score(effective, nil)
	machineScores, _ := machineBrain.Score(effective, nil)

	sel := services.Selector{}
	winningNumbers, winningConf := sel.Select(winningScores)
	machineNumbers, machineConf := sel.Select(machineScores)

	boosted, corrStrength, boostedCount := booster.Boost(effective, winningScores, machineNumbers)
	hybridNumbers, hybridConf := sel.SelectHybrid(boosted)

	mostOverdue := services.MostDue(services.CycleAnalysis(effective, models.StreamWinning))
	if len(mostOverdue) > 5 {
		mostOverdue = mostOverdue[:5]
	}
	decadeSpread, _ := services.DecadeAnalysis(effective, models.StreamWinning)

	resp := &models.PredictionResponse{
		DrawTypeID:  drawTypeID,
		DayOfWeek:   dayOfWeek,
		GeneratedAt: time.Now(),
		Winning: models.StreamPrediction{
			Numbers: winningNumbers, Sum: sum(winningNumbers),
			Confidence: winningConf, Scores: winningScores,
		},
		Machine: models.StreamPrediction{
			Numbers: machineNumbers, Sum: sum(machineNumbers),
			Confidence: machineConf, Scores: machineScores,
		},
		Hybrid: models.StreamPrediction{
			Numbers: hybridNumbers, Sum: sum(hybridNumbers),
			Confidence: hybridConf, Scores: boosted,
		},
		Alternatives:  buildAlternatives(effective, winningScores),
		TopCandidates: topCandidates(winningScores, 10),
		Alerts:        buildAlerts(effective, fallback),
		Analysis: models.PredictionAnalysis{
			DayOfWeekFallback:   fallback,
			DataQuality:         services.DataQuality(ensembleScorer.Pool, effective, models.StreamWinning),
			CorrelationStrength: corrStrength,
			BoostedCount:        boostedCount,
			DrawsConsidered:     len(effective),
			TopTriples:          services.TripleCorrelations(effective, models.StreamWinning, 5),
			MostOverdue:         mostOverdue,
			PositionLeaders:     services.TopPerPosition(services.PositionAnalysis(effective, models.StreamWinning)),
			DecadeSpread:        decadeSpread,
		},
	}
	return resp, nil
}

func filterByDayOfWeek(draws []models.Draw, day time.Weekday) []models.Draw {
	out := make([]models.Draw, 0, len(draws))
	for _, d := range draws {
		if d.DayOfWeek() == day {
			out = append(out, d)
		}
	}
	return out
}

// buildAlternatives exposes the "mixed" interleave of hot and due plus a
// "contrarian" pick from the least-favored decade, in addition to the
// three canonical streams.
func buildAlternatives(draws []models.Draw, winningScores map[int]float64) []models.Alternative {
	mixed := services.MixedStrategy{}.Rank(draws, 5, models.StreamWinning)
	contrarian := leastFavoredDecadeTop(winningScores)
	return []models.Alternative{
		{Label: "mixed", Numbers: mixed},
		{Label: "contrarian", Numbers: contrarian},
	}
}

func leastFavoredDecadeTop(scores map[int]float64) []int {
	decadeTotals := make(map[int]float64, 9)
	for n, s := range scores {
		decadeTotals[models.SelectorDecade(n)] += s
	}
	worstDecade, worstScore := -1, -1.0
	for d := 0; d < 9; d++ {
		if t, ok := decadeTotals[d]; !ok || worstDecade == -1 || t < worstScore {
			worstDecade, worstScore = d, decadeTotals[d]
		}
	}
	if worstDecade == -1 {
		return nil
	}
	best, bestScore, found := 0, -1.0, false
	for n, s := range scores {
		if models.SelectorDecade(n) == worstDecade && (!found || s > bestScore) {
			best, bestScore, found = n, s, true
		}
	}
	if !found {
		return nil
	}
	return []int{best}
}

func topCandidates(scores map[int]float64, n int) []int {
	type cand struct {
		n     int
		score float64
	}
	cands := make([]cand, 0, len(scores))
	for num, s := range scores {
		if s > 0 {
			cands = append(cands, cand{num, s})
		}
	}
	sort.Slice(cands, func(i, j int) bool {
		if cands[i].score != cands[j].score {
			return cands[i].score > cands[j].score
		}
		return cands[i].n < cands[j].n
	})
	if len(cands) > n {
		cands = cands[:n]
	}
	out := make([]int, len(cands))
	for i, c := range cands {
		out[i] = c.n
	}
	return out
}

func buildAlerts(draws []models.Draw, fallback bool) []string {
	var alerts []string
	if fallback {
		alerts = append(alerts, "day-of-week filter had fewer than 10 matching draws; used full history instead")
	}
	if len(draws) == 0 {
		alerts = append(alerts, "no draw history available for this selection")
	}
	return alerts
}

func sum(nums []int) int {
	s := 0
	for _, n := range nums {
		s += n
	}
	return s
}

func logPrediction(resp *models.PredictionResponse) {
	if predictionHistory == nil {
		return
	}
	entry := models.PredictionHistoryEntry{
		Timestamp:         resp.GeneratedAt,
		DrawTypeID:        resp.DrawTypeID,
		DayOfWeek:         resp.DayOfWeek,
		Predicted:         resp.Winning.Numbers,
		Confidence:        resp.Winning.Confidence,
		Scores:            resp.Winning.Scores,
		MachineNumbers:    resp.Machine.Numbers,
		MachineConfidence: resp.Machine.Confidence,
		HybridNumbers:     resp.Hybrid.Numbers,
		HybridConfidence:  resp.Hybrid.Confidence,
	}
	predictionHistory.Append(entry)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
