// Package store persists ranking runs.
package store

import (
	"context"
	"time"
)

// Store is the persistence interface for ranking runs.
type Store interface {
	Close() error

	// SaveRun inserts a run or replaces the run with the same ID.
	SaveRun(ctx context.Context, r Run) error
	GetRun(ctx context.Context, id string) (Run, bool, error)
	// ListRuns returns up to limit runs, newest first.
	ListRuns(ctx context.Context, limit int) ([]Run, error)
}

// Run is one invocation of the topic ranker.
type Run struct {
	ID        string // ULID
	CreatedAt time.Time
	Method    string
	Measure   string
	Options   string // JSON-encoded pipeline options
	Scores    []Score
}

// Score is a ranked topic within a run. NaN polarization is preserved.
type Score struct {
	Topic        int
	Label        string
	Polarization float64
	Random       float64
	Docs         int
	Fallback     bool
}

// DefaultListLimit applies when ListRuns is given a non-positive limit.
const DefaultListLimit = 10
