package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/jshill103/lotto-brain/models"
	"github.com/jshill103/lotto-brain/services"
)

const (
	brainWindowSmall = 10
	brainWindowLarge = 50
)

// HandleBrain serves GET /api/brain?stream=winning|machine.
func HandleBrain(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	streamParam := r.URL.Query().Get("stream")
	stream := models.StreamWinning
	if streamParam == string(models.StreamMachine) {
		stream = models.StreamMachine
	} else if streamParam != "" && streamParam != string(models.StreamWinning) {
		writeError(w, http.StatusBadRequest, "stream must be 'winning' or 'machine'")
		return
	}

	brain := winningBrain
	if stream == models.StreamMachine {
		brain = machineBrain
	}
	if brain == nil {
		writeError(w, http.StatusInternalServerError, "brain not initialized")
		return
	}

	var entries []models.PredictionHistoryEntry
	if predictionHistory != nil {
		entries = predictionHistory.List()
	}

	resp := models.BrainStatusResponse{
		Stream: stream,
		State:  brain.Status(),
		RealPerformance: models.RealPerformance{
			TotalVerified: services.TotalVerified(entries, stream),
			Window10:      services.WindowedAccuracy(entries, stream, brainWindowSmall),
			Window50:      services.WindowedAccuracy(entries, stream, brainWindowLarge),
		},
	}

	json.NewEncoder(w).Encode(resp)
}
