package services

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/jshill103/lotto-brain/models"
)

func newTestHistory(t *testing.T) *PredictionHistoryStore {
	t.Helper()
	return NewPredictionHistoryStore(filepath.Join(t.TempDir(), "history.json"))
}

// seedDraw inserts a draw for drawType "daily" at the given date and
// returns its draw-type id.
func seedDraw(t *testing.T, db *Database, date time.Time, winning [5]int, machine []int) int {
	t.Helper()

	id, err := db.UpsertDrawType("daily", "standard")
	if err != nil {
		t.Fatalf("upsert draw type: %v", err)
	}
	if _, err := db.InsertDraw(insertDrawParams{
		DrawTypeID: id,
		Date:       date,
		Winning:    winning,
		Machine:    machine,
		RawWinning: rawFor(winning),
	}); err != nil {
		t.Fatalf("insert draw: %v", err)
	}
	return id
}

func rawFor(w [5]int) string {
	return time.Now().Format("15:04:05.000000000") + string(rune('0'+w[0]%10))
}

func TestComputeDrawResult(t *testing.T) {
	actual := [5]int{7, 15, 23, 42, 71}
	res := computeDrawResult([]int{7, 16, 23, 50, 70}, actual, baseDate)

	if res.MatchCount != 2 {
		t.Errorf("expected 2 exact matches, got %d", res.MatchCount)
	}
	wantMatches := []int{7, 23}
	for i, n := range wantMatches {
		if res.Matches[i] != n {
			t.Fatalf("matches = %v, want %v", res.Matches, wantMatches)
		}
	}
	// 16 neighbors 15, 70 neighbors 71; 50 matches nothing
	wantNear := []int{16, 70}
	if len(res.NearMisses) != 2 {
		t.Fatalf("nearMisses = %v, want %v", res.NearMisses, wantNear)
	}
	for i, n := range wantNear {
		if res.NearMisses[i] != n {
			t.Fatalf("nearMisses = %v, want %v", res.NearMisses, wantNear)
		}
	}
	// disjoint by construction
	for _, m := range res.Matches {
		for _, nm := range res.NearMisses {
			if m == nm {
				t.Errorf("%d appears as both match and near miss", m)
			}
		}
	}
}

func TestComputeDrawResult_ExactMatchNeverNearMiss(t *testing.T) {
	actual := [5]int{7, 8, 30, 40, 50}
	// 7 matches exactly even though 8 is also in the actual set
	res := computeDrawResult([]int{7}, actual, baseDate)
	if res.MatchCount != 1 || len(res.NearMisses) != 0 {
		t.Errorf("expected a pure exact match, got %+v", res)
	}
}

func TestVerification_AttributesWithinWindow(t *testing.T) {
	db := openTestDatabase(t)
	store := NewDrawStore(db)
	history := newTestHistory(t)

	now := time.Now()
	predictedAt := now.Add(-49 * time.Hour)
	drawDate := now.Add(-1 * time.Hour) // prediction + 48h

	typeID := seedDraw(t, db, drawDate, [5]int{7, 15, 23, 42, 71}, []int{3, 14, 25, 36, 47})

	history.Append(models.PredictionHistoryEntry{
		Timestamp:      predictedAt,
		DrawTypeID:     typeID,
		Predicted:      []int{7, 16, 23, 50, 70},
		MachineNumbers: []int{3, 14, 60, 61, 62},
		HybridNumbers:  []int{7, 15, 80, 81, 82},
	})

	var learned []models.PredictionHistoryEntry
	v := NewVerificationService(history, store)
	v.OnVerified = func(entry models.PredictionHistoryEntry, draw models.Draw) {
		learned = append(learned, entry)
	}

	v.Run(true)

	entries := history.List()
	if len(entries) != 1 {
		t.Fatalf("expected one entry, got %d", len(entries))
	}
	e := entries[0]
	if !e.Verified {
		t.Fatal("entry within the attribution window was not verified")
	}
	if e.Result == nil || e.Result.MatchCount != 2 {
		t.Errorf("unexpected winning result: %+v", e.Result)
	}
	if e.MachineResult == nil || e.MachineResult.MatchCount != 2 {
		t.Errorf("unexpected machine result: %+v", e.MachineResult)
	}
	if e.HybridResult == nil || e.HybridResult.MatchCount != 2 {
		t.Errorf("unexpected hybrid result: %+v", e.HybridResult)
	}
	if len(learned) != 1 {
		t.Errorf("expected OnVerified once, got %d", len(learned))
	}
}

func TestVerification_DrawTooLateNotAttributed(t *testing.T) {
	db := openTestDatabase(t)
	store := NewDrawStore(db)
	history := newTestHistory(t)

	now := time.Now()
	predictedAt := now.Add(-100 * time.Hour)
	drawDate := now.Add(-4 * time.Hour) // prediction + 96h, outside [-24h, +72h)

	typeID := seedDraw(t, db, drawDate, [5]int{7, 15, 23, 42, 71}, nil)

	history.Append(models.PredictionHistoryEntry{
		Timestamp:  predictedAt,
		DrawTypeID: typeID,
		Predicted:  []int{7, 16, 23, 50, 70},
	})

	v := NewVerificationService(history, store)
	v.Run(true)

	if history.List()[0].Verified {
		t.Error("entry was verified by a draw outside the attribution window")
	}
}

func TestVerification_WrongDrawTypeNotAttributed(t *testing.T) {
	db := openTestDatabase(t)
	store := NewDrawStore(db)
	history := newTestHistory(t)

	now := time.Now()
	typeID := seedDraw(t, db, now.Add(-1*time.Hour), [5]int{7, 15, 23, 42, 71}, nil)

	history.Append(models.PredictionHistoryEntry{
		Timestamp:  now.Add(-10 * time.Hour),
		DrawTypeID: typeID + 1,
		Predicted:  []int{7, 16, 23, 50, 70},
	})

	v := NewVerificationService(history, store)
	v.Run(true)

	if history.List()[0].Verified {
		t.Error("entry was verified against a draw of a different type")
	}
}

func TestVerification_VerifiedEntryNeverRewritten(t *testing.T) {
	db := openTestDatabase(t)
	store := NewDrawStore(db)
	history := newTestHistory(t)

	now := time.Now()
	typeID := seedDraw(t, db, now.Add(-1*time.Hour), [5]int{7, 15, 23, 42, 71}, nil)

	history.Append(models.PredictionHistoryEntry{
		Timestamp:  now.Add(-10 * time.Hour),
		DrawTypeID: typeID,
		Predicted:  []int{7, 16, 23, 50, 70},
	})

	v := NewVerificationService(history, store)
	calls := 0
	v.OnVerified = func(models.PredictionHistoryEntry, models.Draw) { calls++ }

	v.Run(true)
	v.Run(true)

	if calls != 1 {
		t.Errorf("expected a single verification, got %d", calls)
	}
}

func TestVerification_Throttled(t *testing.T) {
	db := openTestDatabase(t)
	store := NewDrawStore(db)
	history := newTestHistory(t)

	now := time.Now()
	typeID := seedDraw(t, db, now.Add(-1*time.Hour), [5]int{7, 15, 23, 42, 71}, nil)

	v := NewVerificationService(history, store)
	v.Run(false) // consumes the throttle slot, nothing to verify yet

	history.Append(models.PredictionHistoryEntry{
		Timestamp:  now.Add(-10 * time.Hour),
		DrawTypeID: typeID,
		Predicted:  []int{7, 16, 23, 50, 70},
	})

	v.Run(false)
	if history.List()[0].Verified {
		t.Error("throttled run still performed verification")
	}

	v.Run(true)
	if !history.List()[0].Verified {
		t.Error("forced run did not bypass the throttle")
	}
}

func TestIsVerifiable(t *testing.T) {
	now := time.Now()
	e := models.PredictionHistoryEntry{Timestamp: now.Add(-48 * time.Hour)}
	if !e.IsVerifiable(now) {
		t.Error("recent pending entry should be verifiable")
	}
	e.Verified = true
	if e.IsVerifiable(now) {
		t.Error("verified entry must not be verifiable again")
	}
	old := models.PredictionHistoryEntry{Timestamp: now.Add(-8 * 24 * time.Hour)}
	if old.IsVerifiable(now) {
		t.Error("entry older than 7 days must not be verifiable")
	}
}

func TestLastNDaysDraws(t *testing.T) {
	now := time.Now()
	draws := []models.Draw{
		{Date: now.AddDate(0, 0, -10)},
		{Date: now.AddDate(0, 0, -5)},
		{Date: now.AddDate(0, 0, -1)},
	}
	recent := lastNDaysDraws(draws, now, 7)
	if len(recent) != 2 {
		t.Errorf("expected 2 draws within 7 days, got %d", len(recent))
	}
}
