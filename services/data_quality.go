package services

import "github.com/jshill103/lotto-brain/models"

// dataQualityProbeK is the candidate-list length used to probe whether a
// strategy produced any output at all for this request.
const dataQualityProbeK = 5

// DataQuality scores how much of the strategy pool actually produced a
// candidate for this request, in [0,1]. A strategy with an empty result
// (e.g. due to zero draws, or correlation/follower thresholds never
// clearing) degrades the score.
func DataQuality(pool []Strategy, draws []models.Draw, stream models.Stream) float64 {
	if len(pool) == 0 {
		return 0
	}
	produced := 0
	for _, s := range pool {
		if len(s.Rank(draws, dataQualityProbeK, stream)) > 0 {
			produced++
		}
	}
	return safeDiv(float64(produced), float64(len(pool)), 0)
}
