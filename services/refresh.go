package services

import (
	"fmt"
	"sync/atomic"
	"time"
)

// RefreshService drives the periodic background cycle: scrape upstream
// results, insert any new draws, invalidate the Draw and Prediction caches,
// then run the Verification Loop (whose OnVerified hook dispatches Brain
// training). A single isRefreshing flag prevents overlapping runs.
type RefreshService struct {
	db              *Database
	store           *DrawStore
	scraper         ResultsSource
	predictionCache *PredictionCache
	verification    *VerificationService

	isRefreshing atomic.Bool
	lastError    atomic.Value
}

// NewRefreshService wires the services a refresh cycle touches.
func NewRefreshService(db *Database, store *DrawStore, scraper ResultsSource, cache *PredictionCache, verification *VerificationService) *RefreshService {
	return &RefreshService{
		db:              db,
		store:           store,
		scraper:         scraper,
		predictionCache: cache,
		verification:    verification,
	}
}

// Trigger starts a refresh cycle in the background unless one is already
// running, returning immediately with whether it started and an
// informational message.
func (r *RefreshService) Trigger(forceTrain bool) (started bool, message string) {
	if r == nil {
		return false, "refresh service not initialized"
	}
	if !r.isRefreshing.CompareAndSwap(false, true) {
		return false, "a refresh is already in progress"
	}

	go func() {
		defer r.isRefreshing.Store(false)
		r.run(forceTrain)
	}()

	return true, "refresh started"
}

// LastError reports the error from the most recent failed cycle, if any.
func (r *RefreshService) LastError() string {
	if v := r.lastError.Load(); v != nil {
		return v.(string)
	}
	return ""
}

func (r *RefreshService) run(forceTrain bool) {
	newRows, err := r.scrapeAndStore()
	if err != nil {
		r.lastError.Store(err.Error())
		LogError(fmt.Sprintf("refresh cycle failed: %v", err))
		return
	}
	r.lastError.Store("")

	if newRows == 0 && !forceTrain {
		LogInfo("refresh cycle: no new draws, skipping downstream work")
		return
	}

	r.store.InvalidateDrawCache()
	r.predictionCache.Invalidate()

	LogInfo(fmt.Sprintf("refresh cycle: %d new draws, running verification", newRows))
	r.verification.Run(true)
}

// scrapeAndStore fetches the current and previous calendar month from the
// upstream feed (results often straddle month boundaries near the 1st) and
// inserts every row, returning how many were genuinely new.
func (r *RefreshService) scrapeAndStore() (int, error) {
	if r.scraper == nil {
		return 0, nil
	}

	now := time.Now()
	months := []string{
		now.Format("2006-01"),
		now.AddDate(0, -1, 0).Format("2006-01"),
	}

	total := 0
	for _, ym := range months {
		results, err := r.scraper.FetchMonth(ym)
		if err != nil {
			return total, err
		}
		for _, res := range results {
			drawTypeID, err := r.db.UpsertDrawType(res.DrawTypeName, res.DrawTypeCat)
			if err != nil {
				return total, err
			}
			inserted, err := r.db.InsertDraw(insertDrawParams{
				DrawTypeID: drawTypeID,
				Date:       res.Date,
				Winning:    res.Winning,
				Machine:    res.Machine,
				RawWinning: res.RawWinning,
				RawMachine: res.RawMachine,
			})
			if err != nil {
				return total, err
			}
			if inserted {
				total++
			}
		}
	}
	return total, nil
}
