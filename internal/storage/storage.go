// Package storage persists screening runs and their candidate records.
package storage

import (
	"context"

	"github.com/hyperjump/kouho/internal/models"
)

// Store defines run persistence operations.
type Store interface {
	// SaveRun persists a run and all of its records atomically.
	SaveRun(ctx context.Context, run *models.Run, records []*models.CandidateRecord) error

	GetRun(ctx context.Context, id string) (*models.Run, error)
	ListRuns(ctx context.Context, limit int) ([]*models.Run, error)
	ListRecords(ctx context.Context, runID string) ([]*models.CandidateRecord, error)

	Close() error
}
