// Package json writes check reports as JSON files.
package json

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kytta/LaTeXBuddy/internal/domain"
)

// Artifact is the material for one JSON report file.
type Artifact struct {
	OutputDir string
	Document  string
	Problems  []domain.Problem
}

// report is the on-disk JSON shape.
type report struct {
	Document string           `json:"document"`
	Problems []domain.Problem `json:"problems"`
}

// Writer persists check reports as JSON files.
type Writer struct {
	now func() string
}

// NewWriter creates a new JSON writer with a timestamp supplier.
func NewWriter(now func() string) *Writer {
	return &Writer{now: now}
}

// Write persists a report to disk and returns the file path.
func (w *Writer) Write(_ context.Context, artifact Artifact) (string, error) {
	if err := os.MkdirAll(artifact.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	filename := fmt.Sprintf("%s_%s.json", sanitise(artifact.Document), w.now())
	filePath := filepath.Join(artifact.OutputDir, filename)

	file, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create json file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")

	problems := artifact.Problems
	if problems == nil {
		problems = []domain.Problem{}
	}
	if err := encoder.Encode(report{Document: artifact.Document, Problems: problems}); err != nil {
		return "", fmt.Errorf("failed to encode report to json: %w", err)
	}

	return filePath, nil
}

// sanitise turns a document path into a filename-safe fragment.
func sanitise(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '-'
		}
	}, base)
}
