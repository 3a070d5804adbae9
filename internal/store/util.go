package store

import (
	"time"

	"github.com/google/uuid"

	"github.com/kytta/LaTeXBuddy/internal/domain"
)

// NewRun builds a run record with a fresh unique ID.
func NewRun(document, revision, language string, problemCount int) Run {
	return Run{
		RunID:        "run-" + uuid.NewString(),
		Timestamp:    time.Now().UTC(),
		Document:     document,
		Revision:     revision,
		Language:     language,
		ProblemCount: problemCount,
	}
}

// RecordProblem converts a problem into its persisted form.
func RecordProblem(runID string, p domain.Problem) ProblemRecord {
	record := ProblemRecord{
		RunID:       runID,
		Key:         p.Key,
		Checker:     p.Checker,
		ProblemType: p.ProblemType,
		Severity:    p.Severity.String(),
		Category:    p.Category,
		Text:        p.Text,
		Description: p.Description,
	}
	if p.Position != nil {
		record.Line = p.Position.Line
		record.Column = p.Position.Column
	}
	return record
}

// RecordProblems converts a slice of problems for one run.
func RecordProblems(runID string, problems []domain.Problem) []ProblemRecord {
	records := make([]ProblemRecord, 0, len(problems))
	for _, p := range problems {
		records = append(records, RecordProblem(runID, p))
	}
	return records
}
