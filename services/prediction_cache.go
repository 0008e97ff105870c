package services

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/jshill103/lotto-brain/models"
)

// predictionCacheTTL is how long a served prediction is reused before the
// ensemble is re-run.
const predictionCacheTTL = 10 * time.Minute

// allDaysKey is the dayOfWeek used for requests that didn't constrain by
// day of week.
const allDaysKey = -1

// predictionCacheKey identifies a cached prediction by draw type and day of
// week ("all" is represented by drawTypeID == 0 / dayOfWeek == allDaysKey).
type predictionCacheKey struct {
	DrawTypeID int
	DayOfWeek  int
}

func (k predictionCacheKey) filename() string {
	return fmt.Sprintf("draw_%d_day_%d.json", k.DrawTypeID, k.DayOfWeek)
}

// PredictionCache holds the most recently computed PredictionResponse per
// (drawType, dayOfWeek), so repeated requests within the TTL window don't
// re-run the ensemble. Last-writer-wins: a refresh that completes while a
// request is in flight simply overwrites the entry.
type PredictionCache struct {
	entries map[predictionCacheKey]*models.PredictionResponse
	mu      sync.RWMutex
	cacheDir string
}

var (
	globalPredictionCache *PredictionCache
	predictionCacheOnce   sync.Once
)

// GetPredictionCache returns the global prediction cache instance.
func GetPredictionCache() *PredictionCache {
	predictionCacheOnce.Do(func() {
		globalPredictionCache = NewPredictionCache()
	})
	return globalPredictionCache
}

// NewPredictionCache creates a prediction cache backed by cacheDir for
// crash-recovery persistence of the last served prediction per key.
func NewPredictionCache() *PredictionCache {
	pc := &PredictionCache{
		entries:  make(map[predictionCacheKey]*models.PredictionResponse),
		cacheDir: "data/cache/predictions",
	}

	if err := os.MkdirAll(pc.cacheDir, 0755); err != nil {
		LogWarn("prediction cache: failed to create cache directory: " + err.Error())
	}

	pc.loadCache()
	return pc
}

func keyFor(drawTypeID int, dayOfWeek *int) predictionCacheKey {
	dow := allDaysKey
	if dayOfWeek != nil {
		dow = *dayOfWeek
	}
	return predictionCacheKey{DrawTypeID: drawTypeID, DayOfWeek: dow}
}

// Put stores a freshly computed prediction, stamping GeneratedAt if unset,
// and persists it to disk for crash recovery.
func (pc *PredictionCache) Put(drawTypeID int, dayOfWeek *int, resp *models.PredictionResponse) {
	if pc == nil || resp == nil {
		return
	}

	if resp.GeneratedAt.IsZero() {
		resp.GeneratedAt = time.Now()
	}

	k := keyFor(drawTypeID, dayOfWeek)

	pc.mu.Lock()
	pc.entries[k] = resp
	pc.mu.Unlock()

	go pc.save(k, resp)
}

// Get returns a cached prediction for (drawTypeID, dayOfWeek) if one exists
// and is within the TTL window. The returned response has Cached and
// AgeSecs populated for the caller's benefit; the cached copy itself is
// left untouched.
func (pc *PredictionCache) Get(drawTypeID int, dayOfWeek *int) (*models.PredictionResponse, bool) {
	if pc == nil {
		return nil, false
	}

	k := keyFor(drawTypeID, dayOfWeek)

	pc.mu.RLock()
	entry, ok := pc.entries[k]
	pc.mu.RUnlock()

	if !ok {
		return nil, false
	}

	age := time.Since(entry.GeneratedAt)
	if age > predictionCacheTTL {
		return nil, false
	}

	out := *entry
	out.Cached = true
	out.AgeSecs = int64(age.Seconds())
	return &out, true
}

// Invalidate drops every cached entry, used when new draw data lands.
func (pc *PredictionCache) Invalidate() {
	if pc == nil {
		return
	}
	pc.mu.Lock()
	pc.entries = make(map[predictionCacheKey]*models.PredictionResponse)
	pc.mu.Unlock()
}

func (pc *PredictionCache) save(k predictionCacheKey, resp *models.PredictionResponse) {
	filename := filepath.Join(pc.cacheDir, k.filename())

	data, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		LogWarn("prediction cache: failed to marshal entry: " + err.Error())
		return
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		LogWarn("prediction cache: failed to write entry: " + err.Error())
	}
}

func (pc *PredictionCache) loadCache() {
	files, err := filepath.Glob(filepath.Join(pc.cacheDir, "draw_*_day_*.json"))
	if err != nil {
		LogWarn("prediction cache: failed to glob cache directory: " + err.Error())
		return
	}

	loaded := 0
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			continue
		}

		var resp models.PredictionResponse
		if err := json.Unmarshal(data, &resp); err != nil {
			continue
		}

		if time.Since(resp.GeneratedAt) > predictionCacheTTL {
			continue
		}

		dow := allDaysKey
		if resp.DayOfWeek != nil {
			dow = *resp.DayOfWeek
		}
		pc.entries[predictionCacheKey{DrawTypeID: resp.DrawTypeID, DayOfWeek: dow}] = &resp
		loaded++
	}

	if loaded > 0 {
		LogInfo(fmt.Sprintf("prediction cache: restored %d entries from disk", loaded))
	}
}
