package services

import (
	"strings"
	"sync"
	"time"

	"github.com/jshill103/lotto-brain/models"
)

// drawCacheTTL is how long the unfiltered draw list is cached before a
// background refresh is required to invalidate it.
const drawCacheTTL = time.Hour

// maxUnfilteredDraws bounds the size of the no-filter GetDraws result.
const maxUnfilteredDraws = 5000

// DrawStore is the adapter in front of the Database, providing
// chronologically ordered draw records filtered by draw type and caching
// the unfiltered list and the draw-type catalog.
type DrawStore struct {
	db *Database

	mu           sync.RWMutex
	allCache     []models.Draw
	allCachedAt  time.Time
	typesCache   []models.DrawType
	typesCached  bool
}

// NewDrawStore wraps db in a caching adapter.
func NewDrawStore(db *Database) *DrawStore {
	return &DrawStore{db: db}
}

// GetDraws returns a chronologically ordered (oldest first) draw sequence.
// With drawTypeID == 0 it returns up to maxUnfilteredDraws most recent
// draws globally, cached for drawCacheTTL. With a specific drawTypeID it
// returns the full history for that type, uncached (the adapter relies on
// SQLite's own page cache for repeat reads).
//
// On any backing-store error this returns an empty sequence; it never
// panics or propagates the error to callers.
func (s *DrawStore) GetDraws(drawTypeID int) []models.Draw {
	if s == nil || s.db == nil {
		return nil
	}

	if drawTypeID == 0 {
		s.mu.RLock()
		fresh := time.Since(s.allCachedAt) < drawCacheTTL
		cached := s.allCache
		s.mu.RUnlock()
		if fresh && cached != nil {
			return cached
		}

		rows, err := s.db.RecentDraws(0, maxUnfilteredDraws)
		if err != nil {
			LogError("draw store: " + err.Error())
			return nil
		}
		out := toModelDraws(rows)

		s.mu.Lock()
		s.allCache = out
		s.allCachedAt = time.Now()
		s.mu.Unlock()
		return out
	}

	// LIMIT -1 is unbounded in SQLite: the whole history of the type.
	rows, err := s.db.RecentDraws(drawTypeID, -1)
	if err != nil {
		LogError("draw store: " + err.Error())
		return nil
	}
	return toModelDraws(rows)
}

// InvalidateDrawCache forces the next unfiltered GetDraws to re-query the
// store. Called by the refresh cycle after new rows are ingested.
func (s *DrawStore) InvalidateDrawCache() {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.allCachedAt = time.Time{}
	s.mu.Unlock()
}

// GetDrawTypes returns the draw-type catalog, cached indefinitely once
// loaded (the catalog is a fixed reference table per the data model).
func (s *DrawStore) GetDrawTypes() []models.DrawType {
	if s == nil || s.db == nil {
		return nil
	}

	s.mu.RLock()
	if s.typesCached {
		out := s.typesCache
		s.mu.RUnlock()
		return out
	}
	s.mu.RUnlock()

	rows, err := s.db.db.Query(`SELECT id, name, category FROM draw_types ORDER BY id`)
	if err != nil {
		LogError("draw store: " + err.Error())
		return nil
	}
	defer rows.Close()

	var out []models.DrawType
	for rows.Next() {
		var dt models.DrawType
		if err := rows.Scan(&dt.ID, &dt.Name, &dt.Category); err != nil {
			LogError("draw store: " + err.Error())
			return nil
		}
		out = append(out, dt)
	}

	s.mu.Lock()
	s.typesCache = out
	s.typesCached = true
	s.mu.Unlock()
	return out
}

// DrawTypeByName resolves a draw type by name, case-insensitively.
func (s *DrawStore) DrawTypeByName(name string) (models.DrawType, bool) {
	for _, dt := range s.GetDrawTypes() {
		if strings.EqualFold(dt.Name, name) {
			return dt, true
		}
	}
	return models.DrawType{}, false
}

func toModelDraws(rows []storedDraw) []models.Draw {
	out := make([]models.Draw, 0, len(rows))
	for _, r := range rows {
		d := models.Draw{
			ID:         r.ID,
			DrawTypeID: r.DrawTypeID,
			Date:       r.Date,
			Winning:    r.Winning,
		}
		if r.HasMachine {
			d.Machine = r.Machine
		}
		out = append(out, d)
	}
	return out
}
