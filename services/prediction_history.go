package services

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/jshill103/lotto-brain/models"
)

// predictionHistoryPath is where the newest-first JSON array log lives:
// a single bounded file rather than one file per entry.
const predictionHistoryPath = "data/predictions/history.json"

// PredictionHistoryStore is the external log of served predictions the
// Verification Loop reconciles against new draws: append on serve,
// in-place update once on verification. Bounded to models.MaxPredictionHistory
// most recent entries, newest first. Readers tolerate eventual consistency;
// writers (append/update) are exclusive via mu.
type PredictionHistoryStore struct {
	mu      sync.Mutex
	path    string
	entries []models.PredictionHistoryEntry
}

// NewPredictionHistoryStore loads path (or starts empty if absent).
func NewPredictionHistoryStore(path string) *PredictionHistoryStore {
	if path == "" {
		path = predictionHistoryPath
	}
	s := &PredictionHistoryStore{path: path}
	s.load()
	return s
}

func (s *PredictionHistoryStore) load() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return
	}
	var entries []models.PredictionHistoryEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		LogWarn("prediction history: corrupted log, starting empty: " + err.Error())
		return
	}
	s.entries = entries
}

func (s *PredictionHistoryStore) saveLocked() {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		LogWarn("prediction history: failed to create directory: " + err.Error())
		return
	}
	data, err := json.MarshalIndent(s.entries, "", "  ")
	if err != nil {
		LogError("prediction history: failed to marshal log: " + err.Error())
		return
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		LogWarn("prediction history: failed to write log: " + err.Error())
	}
}

// Append prepends a new entry (newest first) and trims to
// models.MaxPredictionHistory.
func (s *PredictionHistoryStore) Append(entry models.PredictionHistoryEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = append([]models.PredictionHistoryEntry{entry}, s.entries...)
	if len(s.entries) > models.MaxPredictionHistory {
		s.entries = s.entries[:models.MaxPredictionHistory]
	}
	s.saveLocked()
}

// List returns a copy of the current entries, newest first.
func (s *PredictionHistoryStore) List() []models.PredictionHistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.PredictionHistoryEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// UpdateAt replaces the entry at index i (as returned by List) and
// persists. A verified entry is never rewritten by callers other than the
// Verification Loop itself.
func (s *PredictionHistoryStore) UpdateAt(i int, entry models.PredictionHistoryEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i < 0 || i >= len(s.entries) {
		return
	}
	s.entries[i] = entry
	s.saveLocked()
}
