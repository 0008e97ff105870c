package models

import "time"

// StreamPrediction is the ensemble output for a single stream (winning,
// machine, or the correlation-boosted hybrid).
type StreamPrediction struct {
	Numbers    []int           `json:"numbers"`
	Sum        int             `json:"sum"`
	Confidence float64         `json:"confidence"`
	Scores     map[int]float64 `json:"scores"`
}

// Alternative is one of the extra selections a /predict response
// surfaces alongside the three canonical streams.
type Alternative struct {
	Label   string `json:"label"`
	Numbers []int  `json:"numbers"`
}

// PredictionAnalysis carries the supplementary fields of a /predict
// response beyond the three stream predictions: whether the dayOfWeek
// filter silently fell back, the hybrid correlation summary, a
// data-quality score over how much of the strategy pool produced output,
// and the reporting analyzers' highlights.
type PredictionAnalysis struct {
	DayOfWeekFallback   bool    `json:"dayOfWeekFallback"`
	DataQuality         float64 `json:"dataQuality"`
	CorrelationStrength float64 `json:"correlationStrength"`
	BoostedCount        int     `json:"boostedCount"`
	DrawsConsidered     int     `json:"drawsConsidered"`

	TopTriples      []TripleCorrelation  `json:"topTriples,omitempty"`
	MostOverdue     []int                `json:"mostOverdue,omitempty"`
	PositionLeaders [5]int               `json:"positionLeaders"`
	DecadeSpread    []DecadeDistribution `json:"decadeSpread,omitempty"`
}

// PredictionResponse is the full answer to a /predict request: independent
// predictions for both streams plus the hybrid boost of the winning stream.
type PredictionResponse struct {
	DrawTypeID  int       `json:"drawTypeId"`
	DayOfWeek   *int      `json:"dayOfWeek,omitempty"`
	GeneratedAt time.Time `json:"generatedAt"`

	Winning StreamPrediction `json:"main"`
	Machine StreamPrediction `json:"machine"`
	Hybrid  StreamPrediction `json:"hybrid"`

	Alternatives  []Alternative `json:"alternatives"`
	TopCandidates []int         `json:"topCandidates"`
	Alerts        []string      `json:"alerts"`

	Analysis PredictionAnalysis `json:"analysis"`

	Cached  bool  `json:"cached"`
	AgeSecs int64 `json:"cacheAgeSeconds,omitempty"`
}
