package html_test

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	htmlout "github.com/kytta/LaTeXBuddy/internal/adapter/output/html"
	"github.com/kytta/LaTeXBuddy/internal/domain"
)

func fixedClock() string { return "20260823T120000Z" }

func TestWriteRendersProblems(t *testing.T) {
	dir := t.TempDir()
	writer := htmlout.NewWriter(fixedClock)

	problems := []domain.Problem{
		domain.NewProblem(domain.ProblemInput{
			Position:    &domain.Position{Line: 3, Column: 7},
			Text:        "wrod",
			Checker:     "aspell",
			ProblemType: "0",
			Severity:    domain.SeverityWarning,
			Category:    "spelling",
			Description: "Possible spelling mistake: wrod",
			Suggestions: []string{"word", "Ward"},
		}),
	}

	path, err := writer.Write(context.Background(), htmlout.Artifact{
		OutputDir: dir,
		Document:  "thesis.tex",
		Problems:  problems,
	})
	require.NoError(t, err)
	assert.Contains(t, path, "thesis_20260823T120000Z.html")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)

	assert.Contains(t, content, "thesis.tex")
	assert.Contains(t, content, "3:7")
	assert.Contains(t, content, "Warning")
	assert.Contains(t, content, "wrod")
	assert.Contains(t, content, "word, Ward")
}

func TestWriteEscapesMarkup(t *testing.T) {
	dir := t.TempDir()
	writer := htmlout.NewWriter(fixedClock)

	problems := []domain.Problem{
		domain.NewProblem(domain.ProblemInput{
			Text:     "<script>alert(1)</script>",
			Checker:  "chktex",
			Severity: domain.SeverityError,
		}),
	}

	path, err := writer.Write(context.Background(), htmlout.Artifact{
		OutputDir: dir,
		Document:  "doc.tex",
		Problems:  problems,
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "<script>alert(1)</script>")
}

func TestWriteCleanDocument(t *testing.T) {
	dir := t.TempDir()
	writer := htmlout.NewWriter(fixedClock)

	path, err := writer.Write(context.Background(), htmlout.Artifact{
		OutputDir: dir,
		Document:  "clean.tex",
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "No problems found.")
}
