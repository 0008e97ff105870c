package handlers

import (
	"encoding/json"
	"net/http"
)

// RefreshResponse is the immediate answer to POST /refresh; the actual
// work proceeds in the background.
type RefreshResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// HandleRefresh serves POST /refresh?force_train=bool. It never blocks on
// the refresh itself: refreshFn dispatches the background work and
// reports whether a new run actually started (false plus an informational
// message when one was already in flight, which is a state conflict, not
// an HTTP error).
func HandleRefresh(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	forceTrain := r.URL.Query().Get("force_train") == "true"

	if refreshFn == nil {
		json.NewEncoder(w).Encode(RefreshResponse{Success: false, Message: "refresh not wired"})
		return
	}

	started, message := refreshFn(forceTrain)
	json.NewEncoder(w).Encode(RefreshResponse{Success: started, Message: message})
}
