package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jshill103/lotto-brain/handlers"
	"github.com/jshill103/lotto-brain/models"
	"github.com/jshill103/lotto-brain/services"
)

func main() {
	cfg := LoadConfig()

	services.InitLogger(services.LogLevelInfo, false, os.Stdout)
	services.LogInfo(fmt.Sprintf("starting lotto-brain on port %s", cfg.Port))

	if err := services.InitDatabase(cfg.DBPath); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}
	db := services.GetDatabase()

	store := services.NewDrawStore(db)

	ml := services.StubLSTMSource{}
	pool := services.DefaultPool(ml)
	scorer := services.NewEnsembleScorer(pool)

	winningBrain := services.NewBrain(models.StreamWinning, db, scorer)
	machineBrain := services.NewBrain(models.StreamMachine, db, scorer)

	booster := services.NewCorrelationBooster()
	predictionCache := services.GetPredictionCache()
	predictionHistory := services.NewPredictionHistoryStore("data/predictions/history.json")
	verification := services.NewVerificationService(predictionHistory, store)

	// Wire the Verification Loop back into Brain training without giving
	// services/verification.go a compile-time dependency on
	// services/brain.go.
	verification.OnVerified = func(entry models.PredictionHistoryEntry, draw models.Draw) {
		allDraws := store.GetDraws(entry.DrawTypeID)
		winningBrain.Learn(draw.Winning, allDraws, entry.DrawTypeID, true)
		if draw.Machine != ([5]int{}) {
			machineBrain.Learn(draw.Machine, allDraws, entry.DrawTypeID, true)
		}
	}

	var scraper services.ResultsSource
	if cfg.UpstreamAPIURL != "" {
		scraper = services.NewUpstreamScraper(cfg.UpstreamAPIURL)
	}
	refreshService := services.NewRefreshService(db, store, scraper, predictionCache, verification)

	startedAt := time.Now()
	handlers.Init(
		store,
		winningBrain,
		machineBrain,
		scorer,
		booster,
		predictionCache,
		predictionHistory,
		verification,
		startedAt,
		refreshService.Trigger,
	)

	if cfg.RunAnalysisNow {
		services.LogInfo("RUN_ANALYSIS set, triggering an immediate refresh")
		refreshService.Trigger(true)
	}

	if cfg.RefreshInterval > 0 {
		go backgroundRefreshLoop(refreshService, cfg.RefreshInterval)
	} else {
		services.LogInfo("REFRESH_INTERVAL is 0, background refresh disabled")
	}

	http.HandleFunc("/predict", handlers.HandlePredict)
	http.HandleFunc("/evaluate", handlers.HandleEvaluate)
	http.HandleFunc("/api/brain", handlers.HandleBrain)
	http.HandleFunc("/refresh", handlers.HandleRefresh)
	http.HandleFunc("/health", handlers.HandleHealth)

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		services.LogInfo("shutting down")
		if err := db.Close(); err != nil {
			services.LogError(fmt.Sprintf("error closing database: %v", err))
		}
		os.Exit(0)
	}()

	services.LogInfo(fmt.Sprintf("server listening on :%s", cfg.Port))
	if err := http.ListenAndServe(":"+cfg.Port, nil); err != nil {
		log.Fatalf("server failed to start: %v", err)
	}
}

// backgroundRefreshLoop triggers a non-forced refresh every interval,
// relying on RefreshService.Trigger's isRefreshing guard to skip overlap.
func backgroundRefreshLoop(refreshService *services.RefreshService, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for range ticker.C {
		started, message := refreshService.Trigger(false)
		if !started {
			services.LogInfo(fmt.Sprintf("scheduled refresh skipped: %s", message))
		}
	}
}
