package models

import "time"

// MaxPredictionHistory bounds the persisted prediction-history log.
const MaxPredictionHistory = 1000

// DrawResult is the outcome attribution computed by the Verification Loop
// for one stream of a prediction.
type DrawResult struct {
	DrawDate   time.Time `json:"drawDate"`
	Actual     [5]int    `json:"actual"`
	MatchCount int       `json:"matchCount"`
	Matches    []int     `json:"matches"`
	NearMisses []int     `json:"nearMisses"`
}

// PredictionHistoryEntry is one logged prediction, pending verification
// until a matching draw is attributed to it.
type PredictionHistoryEntry struct {
	Timestamp   time.Time          `json:"timestamp"`
	DrawTypeID  int                `json:"drawTypeId"`
	DayOfWeek   *int               `json:"dayOfWeek,omitempty"`
	Predicted   []int              `json:"predictedNumbers"`
	Confidence  float64            `json:"confidence"`
	Scores      map[int]float64    `json:"scores"`

	MachineNumbers   []int   `json:"machineNumbers,omitempty"`
	MachineConfidence float64 `json:"machineConfidence,omitempty"`
	HybridNumbers     []int   `json:"hybridNumbers,omitempty"`
	HybridConfidence  float64 `json:"hybridConfidence,omitempty"`

	Result        *DrawResult `json:"result,omitempty"`
	MachineResult *DrawResult `json:"machineResult,omitempty"`
	HybridResult  *DrawResult `json:"hybridResult,omitempty"`

	Verified bool `json:"verified"`
}

// IsVerifiable reports whether the entry is still within the 7-day
// verification window and hasn't already been verified.
func (e *PredictionHistoryEntry) IsVerifiable(now time.Time) bool {
	if e.Verified {
		return false
	}
	return now.Sub(e.Timestamp) <= 7*24*time.Hour
}
