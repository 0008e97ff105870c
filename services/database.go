package services

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Database wraps the SQLite-backed store described in the storage schema:
// draw_types, draws, number_frequency (trigger-maintained), ai_memory and
// an archival predictions table.
type Database struct {
	db   *sql.DB
	path string
	mu   sync.RWMutex
}

var (
	globalDB     *Database
	globalDBOnce sync.Once
)

// InitDatabase opens (creating if necessary) the SQLite file at dbPath and
// applies the schema. Safe to call once at process startup.
func InitDatabase(dbPath string) error {
	var initErr error

	globalDBOnce.Do(func() {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			initErr = fmt.Errorf("failed to create database directory: %w", err)
			return
		}

		db, err := sql.Open("sqlite3", dbPath)
		if err != nil {
			initErr = fmt.Errorf("failed to open database: %w", err)
			return
		}

		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)

		globalDB = &Database{
			db:   db,
			path: dbPath,
		}

		if err := globalDB.initSchema(); err != nil {
			initErr = fmt.Errorf("failed to initialize schema: %w", err)
			return
		}

		LogInfo(fmt.Sprintf("database initialized: %s", dbPath))
	})

	return initErr
}

// GetDatabase returns the global database, or nil if InitDatabase has not
// run yet.
func GetDatabase() *Database {
	return globalDB
}

func (db *Database) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS draw_types (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE,
		category TEXT
	);

	CREATE TABLE IF NOT EXISTS draws (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		draw_type_id INTEGER NOT NULL REFERENCES draw_types(id),
		draw_date DATE NOT NULL,
		day_of_week INTEGER NOT NULL,
		week_of_year INTEGER,
		month_year TEXT,
		winning_number_1 INTEGER NOT NULL,
		winning_number_2 INTEGER NOT NULL,
		winning_number_3 INTEGER NOT NULL,
		winning_number_4 INTEGER NOT NULL,
		winning_number_5 INTEGER NOT NULL,
		machine_number_1 INTEGER,
		machine_number_2 INTEGER,
		machine_number_3 INTEGER,
		machine_number_4 INTEGER,
		machine_number_5 INTEGER,
		raw_winning TEXT,
		raw_machine TEXT,
		UNIQUE(draw_type_id, draw_date, raw_winning)
	);

	CREATE TABLE IF NOT EXISTS number_frequency (
		draw_type_id INTEGER NOT NULL,
		number INTEGER NOT NULL,
		total_count INTEGER DEFAULT 0,
		position_1_count INTEGER DEFAULT 0,
		position_2_count INTEGER DEFAULT 0,
		position_3_count INTEGER DEFAULT 0,
		position_4_count INTEGER DEFAULT 0,
		position_5_count INTEGER DEFAULT 0,
		last_seen DATE,
		PRIMARY KEY (draw_type_id, number)
	);

	CREATE TABLE IF NOT EXISTS ai_memory (
		id TEXT PRIMARY KEY,
		data TEXT NOT NULL,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS predictions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		draw_type_id INTEGER NOT NULL,
		day_of_week INTEGER,
		predicted_json TEXT NOT NULL,
		confidence REAL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_draws_type_date ON draws(draw_type_id, draw_date);
	CREATE INDEX IF NOT EXISTS idx_number_frequency_type ON number_frequency(draw_type_id);

	CREATE TRIGGER IF NOT EXISTS trg_draws_frequency_winning
	AFTER INSERT ON draws
	BEGIN
		INSERT INTO number_frequency (draw_type_id, number, total_count, position_1_count, last_seen)
		VALUES (NEW.draw_type_id, NEW.winning_number_1, 1, 1, NEW.draw_date)
		ON CONFLICT(draw_type_id, number) DO UPDATE SET
			total_count = total_count + 1,
			position_1_count = position_1_count + 1,
			last_seen = excluded.last_seen;

		INSERT INTO number_frequency (draw_type_id, number, total_count, position_2_count, last_seen)
		VALUES (NEW.draw_type_id, NEW.winning_number_2, 1, 1, NEW.draw_date)
		ON CONFLICT(draw_type_id, number) DO UPDATE SET
			total_count = total_count + 1,
			position_2_count = position_2_count + 1,
			last_seen = excluded.last_seen;

		INSERT INTO number_frequency (draw_type_id, number, total_count, position_3_count, last_seen)
		VALUES (NEW.draw_type_id, NEW.winning_number_3, 1, 1, NEW.draw_date)
		ON CONFLICT(draw_type_id, number) DO UPDATE SET
			total_count = total_count + 1,
			position_3_count = position_3_count + 1,
			last_seen = excluded.last_seen;

		INSERT INTO number_frequency (draw_type_id, number, total_count, position_4_count, last_seen)
		VALUES (NEW.draw_type_id, NEW.winning_number_4, 1, 1, NEW.draw_date)
		ON CONFLICT(draw_type_id, number) DO UPDATE SET
			total_count = total_count + 1,
			position_4_count = position_4_count + 1,
			last_seen = excluded.last_seen;

		INSERT INTO number_frequency (draw_type_id, number, total_count, position_5_count, last_seen)
		VALUES (NEW.draw_type_id, NEW.winning_number_5, 1, 1, NEW.draw_date)
		ON CONFLICT(draw_type_id, number) DO UPDATE SET
			total_count = total_count + 1,
			position_5_count = position_5_count + 1,
			last_seen = excluded.last_seen;
	END;
	`

	db.mu.Lock()
	defer db.mu.Unlock()

	_, err := db.db.Exec(schema)
	return err
}

// UpsertDrawType inserts a draw type if absent and returns its id.
func (db *Database) UpsertDrawType(name, category string) (int, error) {
	if db == nil {
		return 0, fmt.Errorf("database not initialized")
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	_, err := db.db.Exec(`
		INSERT INTO draw_types (name, category) VALUES (?, ?)
		ON CONFLICT(name) DO UPDATE SET category = excluded.category
	`, name, category)
	if err != nil {
		return 0, err
	}

	var id int
	err = db.db.QueryRow(`SELECT id FROM draw_types WHERE name = ?`, name).Scan(&id)
	return id, err
}

// InsertDraw appends a new draw row. machine numbers are nilable as a whole
// group: pass an empty slice to omit them. inserted reports whether a new
// row was actually written (false when the ON CONFLICT clause suppressed a
// duplicate), letting callers detect "no new data this cycle".
func (db *Database) InsertDraw(d insertDrawParams) (inserted bool, err error) {
	if db == nil {
		return false, fmt.Errorf("database not initialized")
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	var m [5]sql.NullInt64
	if len(d.Machine) == 5 {
		for i, n := range d.Machine {
			m[i] = sql.NullInt64{Int64: int64(n), Valid: true}
		}
	}

	res, err := db.db.Exec(`
		INSERT INTO draws (
			draw_type_id, draw_date, day_of_week, week_of_year, month_year,
			winning_number_1, winning_number_2, winning_number_3, winning_number_4, winning_number_5,
			machine_number_1, machine_number_2, machine_number_3, machine_number_4, machine_number_5,
			raw_winning, raw_machine
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(draw_type_id, draw_date, raw_winning) DO NOTHING
	`,
		d.DrawTypeID, d.Date, int(d.Date.Weekday()), isoWeek(d.Date), d.Date.Format("2006-01"),
		d.Winning[0], d.Winning[1], d.Winning[2], d.Winning[3], d.Winning[4],
		m[0], m[1], m[2], m[3], m[4],
		d.RawWinning, d.RawMachine,
	)
	if err != nil {
		return false, WrapErrorWithDraw(err, "insert draw", d.DrawTypeID, 0)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

type insertDrawParams struct {
	DrawTypeID int
	Date       time.Time
	Winning    [5]int
	Machine    []int
	RawWinning string
	RawMachine string
}

func isoWeek(t time.Time) int {
	_, week := t.ISOWeek()
	return week
}

// SaveAIMemory persists a brain blob for the given stream id ("winning" or
// "machine") as JSON.
func (db *Database) SaveAIMemory(streamID, dataJSON string) error {
	if db == nil {
		return fmt.Errorf("database not initialized")
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	_, err := db.db.Exec(`
		INSERT INTO ai_memory (id, data, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET data = excluded.data, updated_at = CURRENT_TIMESTAMP
	`, streamID, dataJSON)
	return err
}

// LoadAIMemory returns the persisted blob for a stream id, or ("", false)
// if nothing has been saved yet.
func (db *Database) LoadAIMemory(streamID string) (string, bool, error) {
	if db == nil {
		return "", false, fmt.Errorf("database not initialized")
	}

	db.mu.RLock()
	defer db.mu.RUnlock()

	var data string
	err := db.db.QueryRow(`SELECT data FROM ai_memory WHERE id = ?`, streamID).Scan(&data)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return data, true, nil
}

// RecentDraws returns up to limit draws for drawTypeID (or all types when
// drawTypeID is 0), ordered oldest first.
func (db *Database) RecentDraws(drawTypeID, limit int) ([]storedDraw, error) {
	if db == nil {
		return nil, fmt.Errorf("database not initialized")
	}

	db.mu.RLock()
	defer db.mu.RUnlock()

	var rows *sql.Rows
	var err error
	if drawTypeID > 0 {
		rows, err = db.db.Query(`
			SELECT id, draw_type_id, draw_date,
				winning_number_1, winning_number_2, winning_number_3, winning_number_4, winning_number_5,
				machine_number_1, machine_number_2, machine_number_3, machine_number_4, machine_number_5
			FROM draws WHERE draw_type_id = ? ORDER BY draw_date DESC LIMIT ?
		`, drawTypeID, limit)
	} else {
		rows, err = db.db.Query(`
			SELECT id, draw_type_id, draw_date,
				winning_number_1, winning_number_2, winning_number_3, winning_number_4, winning_number_5,
				machine_number_1, machine_number_2, machine_number_3, machine_number_4, machine_number_5
			FROM draws ORDER BY draw_date DESC LIMIT ?
		`, limit)
	}
	if err != nil {
		return nil, WrapErrorWithDraw(err, "query recent draws", drawTypeID, 0)
	}
	defer rows.Close()

	var out []storedDraw
	for rows.Next() {
		var d storedDraw
		var m [5]sql.NullInt64
		if err := rows.Scan(&d.ID, &d.DrawTypeID, &d.Date,
			&d.Winning[0], &d.Winning[1], &d.Winning[2], &d.Winning[3], &d.Winning[4],
			&m[0], &m[1], &m[2], &m[3], &m[4]); err != nil {
			return nil, err
		}
		allValid := true
		for i := range m {
			if !m[i].Valid {
				allValid = false
				break
			}
			d.Machine[i] = int(m[i].Int64)
		}
		d.HasMachine = allValid
		out = append(out, d)
	}
	// reverse to chronological (oldest first)
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, rows.Err()
}

// storedDraw mirrors models.Draw's shape at the persistence boundary.
type storedDraw struct {
	ID         int
	DrawTypeID int
	Date       time.Time
	Winning    [5]int
	Machine    [5]int
	HasMachine bool
}

// Close closes the underlying connection.
func (db *Database) Close() error {
	if db == nil {
		return nil
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	return db.db.Close()
}
