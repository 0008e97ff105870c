package handlers

import (
	"time"

	"github.com/jshill103/lotto-brain/services"
)

// Shared state wired once from main.go at server init.
var (
	drawStore           *services.DrawStore
	winningBrain        *services.Brain
	machineBrain        *services.Brain
	ensembleScorer      *services.EnsembleScorer
	booster             *services.CorrelationBooster
	predictionCache     *services.PredictionCache
	predictionHistory   *services.PredictionHistoryStore
	verificationService *services.VerificationService
	serverStartedAt     time.Time
	refreshFn           func(forceTrain bool) (started bool, message string)
)

// Init wires the shared services used by every handler in this package.
func Init(
	ds *services.DrawStore,
	winning *services.Brain,
	machine *services.Brain,
	scorer *services.EnsembleScorer,
	cb *services.CorrelationBooster,
	cache *services.PredictionCache,
	history *services.PredictionHistoryStore,
	verification *services.VerificationService,
	startedAt time.Time,
	refresh func(forceTrain bool) (bool, string),
) {
	drawStore = ds
	winningBrain = winning
	machineBrain = machine
	ensembleScorer = scorer
	booster = cb
	predictionCache = cache
	predictionHistory = history
	verificationService = verification
	serverStartedAt = startedAt
	refreshFn = refresh
}
