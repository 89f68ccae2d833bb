package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hyperjump/kouho/internal/models"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates a SQLite database at dbPath and initializes the schema.
// Parent directories are created if they do not exist.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		root TEXT NOT NULL,
		started_at TIMESTAMP NOT NULL,
		finished_at TIMESTAMP NOT NULL,
		candidate_count INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);

	CREATE TABLE IF NOT EXISTS candidate_records (
		run_id TEXT NOT NULL,
		candidate_id INTEGER NOT NULL,
		full_name TEXT NOT NULL,
		application_path TEXT NOT NULL,
		cv_path TEXT NOT NULL,
		answer_1 TEXT NOT NULL,
		answer_2 TEXT NOT NULL,
		answer_3 TEXT NOT NULL,
		answer_4 TEXT NOT NULL,
		answer_5 TEXT NOT NULL,
		pytorch INTEGER NOT NULL,
		tensorflow INTEGER NOT NULL,
		csharp INTEGER NOT NULL,
		computer_vision INTEGER NOT NULL,
		azure INTEGER NOT NULL,
		aws INTEGER NOT NULL,
		buzzword_count INTEGER NOT NULL,
		rating REAL,
		has_errors INTEGER NOT NULL,
		PRIMARY KEY (run_id, candidate_id),
		FOREIGN KEY (run_id) REFERENCES runs(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_records_run_id ON candidate_records(run_id);
	`
	_, err := db.Exec(schema)
	return err
}

// SaveRun inserts the run and its records in one transaction.
func (s *SQLiteStore) SaveRun(ctx context.Context, run *models.Run, records []*models.CandidateRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, root, started_at, finished_at, candidate_count)
		 VALUES (?, ?, ?, ?, ?)`,
		run.ID, run.Root, run.StartedAt, run.FinishedAt, run.CandidateCount,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO candidate_records (
			run_id, candidate_id, full_name, application_path, cv_path,
			answer_1, answer_2, answer_3, answer_4, answer_5,
			pytorch, tensorflow, csharp, computer_vision, azure, aws,
			buzzword_count, rating, has_errors
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, rec := range records {
		var rating sql.NullFloat64
		if rec.Rating != nil {
			rating = sql.NullFloat64{Float64: *rec.Rating, Valid: true}
		}
		_, err := stmt.ExecContext(ctx,
			run.ID, rec.CandidateID, rec.FullName, rec.ApplicationPath, rec.CVPath,
			rec.Answers[0], rec.Answers[1], rec.Answers[2], rec.Answers[3], rec.Answers[4],
			rec.Skills.PyTorch, rec.Skills.TensorFlow, rec.Skills.CSharp,
			rec.Skills.ComputerVision, rec.Skills.Azure, rec.Skills.AWS,
			rec.BuzzwordCount, rating, rec.HasProcessingErrors,
		)
		if err != nil {
			return fmt.Errorf("failed to insert record for candidate %d: %w", rec.CandidateID, err)
		}
	}
	return tx.Commit()
}

// GetRun returns a run by ID.
func (s *SQLiteStore) GetRun(ctx context.Context, id string) (*models.Run, error) {
	var run models.Run
	err := s.db.QueryRowContext(ctx,
		`SELECT id, root, started_at, finished_at, candidate_count
		 FROM runs WHERE id = ?`, id,
	).Scan(&run.ID, &run.Root, &run.StartedAt, &run.FinishedAt, &run.CandidateCount)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run not found: %s", id)
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// ListRuns returns the most recent runs, newest first.
func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]*models.Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, root, started_at, finished_at, candidate_count
		 FROM runs ORDER BY started_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*models.Run
	for rows.Next() {
		var run models.Run
		if err := rows.Scan(&run.ID, &run.Root, &run.StartedAt, &run.FinishedAt, &run.CandidateCount); err != nil {
			return nil, err
		}
		runs = append(runs, &run)
	}
	return runs, rows.Err()
}

// ListRecords returns a run's candidate records ordered by candidate id.
func (s *SQLiteStore) ListRecords(ctx context.Context, runID string) ([]*models.CandidateRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT candidate_id, full_name, application_path, cv_path,
			answer_1, answer_2, answer_3, answer_4, answer_5,
			pytorch, tensorflow, csharp, computer_vision, azure, aws,
			buzzword_count, rating, has_errors
		 FROM candidate_records WHERE run_id = ? ORDER BY candidate_id`,
		runID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*models.CandidateRecord
	for rows.Next() {
		var rec models.CandidateRecord
		var rating sql.NullFloat64
		err := rows.Scan(
			&rec.CandidateID, &rec.FullName, &rec.ApplicationPath, &rec.CVPath,
			&rec.Answers[0], &rec.Answers[1], &rec.Answers[2], &rec.Answers[3], &rec.Answers[4],
			&rec.Skills.PyTorch, &rec.Skills.TensorFlow, &rec.Skills.CSharp,
			&rec.Skills.ComputerVision, &rec.Skills.Azure, &rec.Skills.AWS,
			&rec.BuzzwordCount, &rating, &rec.HasProcessingErrors,
		)
		if err != nil {
			return nil, err
		}
		if rating.Valid {
			rec.Rating = &rating.Float64
		}
		records = append(records, &rec)
	}
	return records, rows.Err()
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
