// Package store persists experiment runs and their per-configuration
// results.
package store

import (
	"context"
	"time"

	"github.com/stellarlinkco/hookbench/internal/runner"
)

// RunWriter defines persistence for run summaries and config results.
type RunWriter interface {
	SaveRun(ctx context.Context, run *RunRecord) error
	SaveConfigResult(ctx context.Context, result *ConfigRecord) error
}

// RunReader defines read access to run and config data.
type RunReader interface {
	GetRun(ctx context.Context, id string) (*RunRecord, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]*RunRecord, error)
	GetConfigResults(ctx context.Context, runID string) ([]*ConfigRecord, error)
}

// Analytics defines query helpers for historical trends.
type Analytics interface {
	GetConfigHistory(ctx context.Context, configID string, limit int) ([]*ConfigRecord, error)
}

// Store defines persistence for runs and config results.
type Store interface {
	RunWriter
	RunReader
	Analytics
	Close() error
}

// RunRecord stores a single experiment run summary.
type RunRecord struct {
	ID            string
	StartedAt     time.Time
	FinishedAt    time.Time
	Battery       string
	TotalConfigs  int
	FailedConfigs int
}

// ConfigRecord stores the aggregate outcome of one configuration within a
// run.
type ConfigRecord struct {
	ID             string
	RunID          string
	ConfigID       string
	Label          string
	TotalTests     int
	ActivatedCount int
	CorrectCount   int
	ErrorCount     int
	ActivationRate float64
	AccuracyRate   float64
	AvgLatencyMs   int64
	CreatedAt      time.Time
	Results        []runner.TestResult // JSON serialized
}

// RunFilter filters run listings.
type RunFilter struct {
	Battery string
	Since   time.Time
	Until   time.Time
	Limit   int
}
