package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/jshill103/lotto-brain/models"
	"github.com/jshill103/lotto-brain/services"
)

// hotVoteThreshold and warmVoteThreshold classify a submitted number's
// heat based on how many strategies top-5-ranked it this request (the same
// vote signal the synergy amplifier consumes).
const (
	hotVoteThreshold  = 3
	warmVoteThreshold = 1
)

// HandleEvaluate serves POST /evaluate.
func HandleEvaluate(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req models.EvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := validateEvaluateNumbers(req.Numbers); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if drawStore == nil || winningBrain == nil {
		writeError(w, http.StatusInternalServerError, "core services not initialized")
		return
	}

	draws := drawStore.GetDraws(req.DrawTypeID)
	if req.DayOfWeek != nil {
		if filtered := filterByDayOfWeek(draws, time.Weekday(*req.DayOfWeek)); len(filtered) >= minDayOfWeekSample {
			draws = filtered
		}
	}

	scores, votes := winningBrain.Score(draws, nil)
	predicted, _ := (services.Selector{}).Select(scores)
	predictedSet := make(map[int]bool, len(predicted))
	for _, n := range predicted {
		predictedSet[n] = true
	}

	resp := models.EvaluateResponse{
		TopCandidates: topCandidates(scores, 10),
		Analysis: models.PredictionAnalysis{
			DataQuality:     services.DataQuality(ensembleScorer.Pool, draws, models.StreamWinning),
			DrawsConsidered: len(draws),
		},
	}

	var totalScore, synergyBonus float64
	for _, n := range req.Numbers {
		score := scores[n]
		v := votes[n]
		isHot := v >= hotVoteThreshold
		isWarm := !isHot && v >= warmVoteThreshold

		resp.Numbers = append(resp.Numbers, models.EvaluatedNumber{
			Number: n, Score: score, IsHot: isHot, IsWarm: isWarm,
		})
		totalScore += score
		if predictedSet[n] {
			resp.Matches++
		}
		if isHot {
			resp.StrongMatches++
		}
		switch {
		case v >= 5:
			synergyBonus += 0.20
		case v >= 3:
			synergyBonus += 0.10
		}
	}

	resp.TotalScore = totalScore
	resp.SynergyBonus = synergyBonus

	avg := totalScore / float64(len(req.Numbers))
	confidence := avg*100 + 40
	if confidence > 95 {
		confidence = 95
	}
	if confidence < 0 {
		confidence = 0
	}
	resp.Confidence = confidence
	resp.Recommendation = recommendationFor(confidence)

	json.NewEncoder(w).Encode(resp)
}

func validateEvaluateNumbers(numbers []int) error {
	if len(numbers) != 5 {
		return services.NewError(services.KindInvalidInput, "numbers must contain exactly 5 entries", nil)
	}
	seen := make(map[int]bool, 5)
	for _, n := range numbers {
		if n < 1 || n > 90 {
			return services.NewError(services.KindInvalidInput, "numbers must be between 1 and 90", nil)
		}
		if seen[n] {
			return services.NewError(services.KindInvalidInput, "numbers must be distinct", nil)
		}
		seen[n] = true
	}
	return nil
}

func recommendationFor(confidence float64) models.Recommendation {
	switch {
	case confidence >= 80:
		return models.RecommendationExcellent
	case confidence >= 60:
		return models.RecommendationGood
	case confidence >= 40:
		return models.RecommendationAverage
	default:
		return models.RecommendationRisky
	}
}
