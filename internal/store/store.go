// Package store defines the persistence layer for check run history.
package store

import (
	"context"
	"time"
)

// Store defines the persistence layer interface for run history.
type Store interface {
	// Run management
	CreateRun(ctx context.Context, run Run) error
	GetRun(ctx context.Context, runID string) (Run, error)
	ListRuns(ctx context.Context, limit int) ([]Run, error)

	// Problem persistence
	SaveProblems(ctx context.Context, problems []ProblemRecord) error
	GetProblemsByRun(ctx context.Context, runID string) ([]ProblemRecord, error)

	// Utility
	Close() error
}

// Run represents a single check execution over one document.
type Run struct {
	RunID        string
	Timestamp    time.Time
	Document     string
	Revision     string // VCS revision of the checked document, empty outside a repository
	Language     string
	ProblemCount int
}

// ProblemRecord is the persisted form of a surviving problem.
type ProblemRecord struct {
	RunID       string
	Key         string
	Checker     string
	ProblemType string
	Severity    string
	Category    string
	Line        int
	Column      int
	Text        string
	Description string
}
