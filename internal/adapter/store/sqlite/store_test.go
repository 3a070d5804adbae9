package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kytta/LaTeXBuddy/internal/adapter/store/sqlite"
	"github.com/kytta/LaTeXBuddy/internal/store"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleRun(id string) store.Run {
	return store.Run{
		RunID:        id,
		Timestamp:    time.Unix(1700000000, 0),
		Document:     "thesis.tex",
		Revision:     "abc123",
		Language:     "en",
		ProblemCount: 2,
	}
}

func TestCreateAndGetRun(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateRun(ctx, sampleRun("run-1")))

	got, err := s.GetRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, "thesis.tex", got.Document)
	assert.Equal(t, "abc123", got.Revision)
	assert.Equal(t, "en", got.Language)
	assert.Equal(t, 2, got.ProblemCount)
	assert.Equal(t, int64(1700000000), got.Timestamp.Unix())
}

func TestGetRunNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetRun(context.Background(), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestListRunsMostRecentFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	older := sampleRun("run-old")
	older.Timestamp = time.Unix(1600000000, 0)
	newer := sampleRun("run-new")

	require.NoError(t, s.CreateRun(ctx, older))
	require.NoError(t, s.CreateRun(ctx, newer))

	runs, err := s.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-new", runs[0].RunID)
	assert.Equal(t, "run-old", runs[1].RunID)
}

func TestSaveAndGetProblems(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateRun(ctx, sampleRun("run-1")))

	records := []store.ProblemRecord{
		{
			RunID:       "run-1",
			Key:         "en_spelling_wrod",
			Checker:     "aspell",
			ProblemType: "0",
			Severity:    "warning",
			Category:    "spelling",
			Line:        3,
			Column:      7,
			Text:        "wrod",
			Description: "Possible spelling mistake: wrod",
		},
		{
			RunID:       "run-1",
			Key:         "chktex_24",
			Checker:     "chktex",
			ProblemType: "24",
			Severity:    "warning",
			Category:    "latex",
			Line:        5,
			Column:      12,
			Text:        "$",
		},
	}
	require.NoError(t, s.SaveProblems(ctx, records))

	got, err := s.GetProblemsByRun(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "en_spelling_wrod", got[0].Key)
	assert.Equal(t, 7, got[0].Column)
	assert.Equal(t, "chktex", got[1].Checker)
}

func TestSaveProblemsRequiresExistingRun(t *testing.T) {
	s := newTestStore(t)

	err := s.SaveProblems(context.Background(), []store.ProblemRecord{
		{RunID: "ghost", Key: "k", Checker: "c", ProblemType: "0", Severity: "warning", Text: "x"},
	})

	assert.Error(t, err)
}
