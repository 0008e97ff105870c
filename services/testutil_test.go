package services

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/jshill103/lotto-brain/models"
)

// baseDate anchors synthetic draw sequences; individual tests that care
// about real wall-clock proximity (verification windows) build their own
// dates relative to time.Now instead.
var baseDate = time.Date(2025, time.March, 1, 20, 0, 0, 0, time.UTC)

func drawAt(i int, winning [5]int) models.Draw {
	return models.Draw{
		ID:         i + 1,
		DrawTypeID: 1,
		Date:       baseDate.AddDate(0, 0, i),
		Winning:    winning,
	}
}

func drawWithMachine(i int, winning, machine [5]int) models.Draw {
	d := drawAt(i, winning)
	d.Machine = machine
	return d
}

// rotatingFiller returns a 4-number filler block for draw i, cycling
// through 10..85 so no number dominates and no pair repeats often.
func rotatingFiller(i int) [4]int {
	base := 10 + (i*4)%76
	return [4]int{base, base + 1, base + 2, base + 3}
}

// openTestDatabase opens a throwaway SQLite file under t.TempDir and
// applies the full schema, bypassing the process-wide InitDatabase
// singleton so each test gets an isolated store.
func openTestDatabase(t *testing.T) *Database {
	t.Helper()

	raw, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { raw.Close() })

	db := &Database{db: raw}
	if err := db.initSchema(); err != nil {
		t.Fatalf("failed to apply schema: %v", err)
	}
	return db
}
