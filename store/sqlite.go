package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLiteDB implements the DB interface using SQLite.
type SQLiteDB struct {
	db *sql.DB
}

// NewSQLiteDB opens (or creates) a SQLite database at path. Use ":memory:"
// for an ephemeral database.
func NewSQLiteDB(path string) (*SQLiteDB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	return &SQLiteDB{db: db}, nil
}

func (s *SQLiteDB) Close() error {
	return s.db.Close()
}

// Migrate creates the schema.
func (s *SQLiteDB) Migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS policies (
			id TEXT PRIMARY KEY,
			target INTEGER NOT NULL,
			step INTEGER NOT NULL,
			tolerance REAL NOT NULL,
			sweeps INTEGER NOT NULL,
			start_value REAL NOT NULL,
			policy_json BLOB NOT NULL,
			created_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS sim_runs (
			id TEXT PRIMARY KEY,
			policy_id TEXT,
			strategy1 TEXT NOT NULL,
			strategy2 TEXT NOT NULL,
			target INTEGER NOT NULL,
			seed INTEGER NOT NULL,
			games INTEGER NOT NULL,
			wins1 INTEGER NOT NULL,
			wins2 INTEGER NOT NULL,
			avg_turns REAL NOT NULL,
			created_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_policies_created_at ON policies(created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_sim_runs_created_at ON sim_runs(created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_sim_runs_policy_id ON sim_runs(policy_id)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

func (s *SQLiteDB) SavePolicy(rec *PolicyRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.Exec(`
		INSERT INTO policies (id, target, step, tolerance, sweeps, start_value, policy_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Target, rec.Step, rec.Tolerance, rec.Sweeps, rec.StartValue, rec.PolicyJSON, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save policy: %w", err)
	}
	return nil
}

func (s *SQLiteDB) GetPolicy(id string) (*PolicyRecord, error) {
	var rec PolicyRecord
	err := s.db.QueryRow(`
		SELECT id, target, step, tolerance, sweeps, start_value, policy_json, created_at
		FROM policies WHERE id = ?`, id).
		Scan(&rec.ID, &rec.Target, &rec.Step, &rec.Tolerance, &rec.Sweeps,
			&rec.StartValue, &rec.PolicyJSON, &rec.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("policy %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get policy: %w", err)
	}
	return &rec, nil
}

func (s *SQLiteDB) ListPolicies(limit int) ([]PolicyRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(`
		SELECT id, target, step, tolerance, sweeps, start_value, created_at
		FROM policies ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list policies: %w", err)
	}
	defer rows.Close()

	var records []PolicyRecord
	for rows.Next() {
		var rec PolicyRecord
		if err := rows.Scan(&rec.ID, &rec.Target, &rec.Step, &rec.Tolerance,
			&rec.Sweeps, &rec.StartValue, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan policy row: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (s *SQLiteDB) SaveRun(run *SimRun) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.Exec(`
		INSERT INTO sim_runs (id, policy_id, strategy1, strategy2, target, seed, games, wins1, wins2, avg_turns, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.PolicyID, run.Strategy1, run.Strategy2, run.Target,
		run.Seed, run.Games, run.Wins1, run.Wins2, run.AvgTurns, run.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	return nil
}

func (s *SQLiteDB) GetRun(id string) (*SimRun, error) {
	var run SimRun
	err := s.db.QueryRow(`
		SELECT id, policy_id, strategy1, strategy2, target, seed, games, wins1, wins2, avg_turns, created_at
		FROM sim_runs WHERE id = ?`, id).
		Scan(&run.ID, &run.PolicyID, &run.Strategy1, &run.Strategy2, &run.Target,
			&run.Seed, &run.Games, &run.Wins1, &run.Wins2, &run.AvgTurns, &run.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return &run, nil
}

func (s *SQLiteDB) ListRuns(limit int) ([]SimRun, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(`
		SELECT id, policy_id, strategy1, strategy2, target, seed, games, wins1, wins2, avg_turns, created_at
		FROM sim_runs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []SimRun
	for rows.Next() {
		var run SimRun
		if err := rows.Scan(&run.ID, &run.PolicyID, &run.Strategy1, &run.Strategy2, &run.Target,
			&run.Seed, &run.Games, &run.Wins1, &run.Wins2, &run.AvgTurns, &run.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run row: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
