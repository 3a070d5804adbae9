package check_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kytta/LaTeXBuddy/internal/domain"
	"github.com/kytta/LaTeXBuddy/internal/texfile"
	"github.com/kytta/LaTeXBuddy/internal/usecase/check"
)

func stubFactory(m *stubModule) check.Factory {
	return func() (check.Module, error) { return m, nil }
}

func pipelineDoc(source string) func(string) (*texfile.Document, error) {
	return func(path string) (*texfile.Document, error) {
		return texfile.FromSource(path, source), nil
	}
}

func TestCheckFileEndToEnd(t *testing.T) {
	source := "% buddy ignore-next\nHelo world\nGoodby world\n"

	spelling := &stubModule{name: "spelling", problems: []domain.Problem{
		domain.NewProblem(domain.ProblemInput{
			Position: &domain.Position{Line: 2, Column: 1},
			Text:     "Helo", Checker: "spelling", ProblemType: "0",
			Severity: domain.SeverityWarning,
		}),
		domain.NewProblem(domain.ProblemInput{
			Position: &domain.Position{Line: 3, Column: 1},
			Text:     "Goodby", Checker: "spelling", ProblemType: "0",
			Severity: domain.SeverityWarning,
		}),
		domain.NewProblem(domain.ProblemInput{
			Position: &domain.Position{Line: 3, Column: 8},
			Text:     "world", Checker: "spelling", ProblemType: "0",
			Severity: domain.SeverityWarning,
		}),
	}}

	registry := check.NewRegistry()
	registry.Register("spelling", stubFactory(spelling))

	pipeline, err := check.NewPipeline(check.PipelineDeps{
		Registry:     registry,
		Selection:    check.Selection{DefaultEnabled: true},
		Whitelist:    newFakeWhitelist("spelling/0/world"),
		LoadDocument: pipelineDoc(source),
	})
	require.NoError(t, err)

	report, err := pipeline.CheckFile(context.Background(), "doc.tex")
	require.NoError(t, err)

	// "Helo" on line 2 is suppressed by the directive, "world" is
	// whitelisted; only "Goodby" survives.
	require.Len(t, report.Problems, 1)
	assert.Equal(t, "Goodby", report.Problems[0].Text)
	assert.Equal(t, "doc.tex", report.Document)
}

func TestCheckFileSortsBySeverity(t *testing.T) {
	module := &stubModule{name: "mixed", problems: []domain.Problem{
		domain.NewProblem(domain.ProblemInput{
			Position: &domain.Position{Line: 1, Column: 1},
			Text:     "style nit", Checker: "mixed", Severity: domain.SeverityInfo,
		}),
		domain.NewProblem(domain.ProblemInput{
			Position: &domain.Position{Line: 5, Column: 1},
			Text:     "broken ref", Checker: "mixed", Severity: domain.SeverityError,
		}),
	}}

	registry := check.NewRegistry()
	registry.Register("mixed", stubFactory(module))

	pipeline, err := check.NewPipeline(check.PipelineDeps{
		Registry:     registry,
		Selection:    check.Selection{DefaultEnabled: true},
		Whitelist:    newFakeWhitelist(),
		LoadDocument: pipelineDoc("text\n"),
	})
	require.NoError(t, err)

	report, err := pipeline.CheckFile(context.Background(), "doc.tex")
	require.NoError(t, err)

	require.Len(t, report.Problems, 2)
	assert.Equal(t, "broken ref", report.Problems[0].Text)
}

func TestCheckFileLogsSelectionErrors(t *testing.T) {
	registry := check.NewRegistry()
	registry.Register("known", stubFactory(&stubModule{name: "known"}))
	logger := &recordingLogger{}

	pipeline, err := check.NewPipeline(check.PipelineDeps{
		Registry:     registry,
		Selection:    check.Selection{Enable: []string{"known", "missing"}},
		Whitelist:    newFakeWhitelist(),
		Logger:       logger,
		LoadDocument: pipelineDoc("text\n"),
	})
	require.NoError(t, err)

	_, err = pipeline.CheckFile(context.Background(), "doc.tex")
	require.NoError(t, err)

	assert.NotEmpty(t, logger.warningList())
}

func TestCheckFileUnreadableDocument(t *testing.T) {
	registry := check.NewRegistry()

	pipeline, err := check.NewPipeline(check.PipelineDeps{
		Registry:  registry,
		Whitelist: newFakeWhitelist(),
		LoadDocument: func(string) (*texfile.Document, error) {
			return nil, errors.New("no such file")
		},
	})
	require.NoError(t, err)

	_, err = pipeline.CheckFile(context.Background(), "gone.tex")
	assert.Error(t, err)
}

func TestCheckFileDegradedModuleStillReported(t *testing.T) {
	registry := check.NewRegistry()
	registry.Register("fine", stubFactory(&stubModule{
		name: "fine",
		problems: []domain.Problem{domain.NewProblem(domain.ProblemInput{
			Text: "x", Checker: "fine", Severity: domain.SeverityWarning,
		})},
	}))
	registry.Register("dying", stubFactory(&stubModule{name: "dying", err: errors.New("boom")}))

	pipeline, err := check.NewPipeline(check.PipelineDeps{
		Registry:     registry,
		Selection:    check.Selection{DefaultEnabled: true},
		Whitelist:    newFakeWhitelist(),
		Logger:       &recordingLogger{},
		LoadDocument: pipelineDoc("text\n"),
	})
	require.NoError(t, err)

	report, err := pipeline.CheckFile(context.Background(), "doc.tex")
	require.NoError(t, err)

	assert.Len(t, report.Problems, 1)
	require.Len(t, report.ModuleResults, 2)
	assert.Error(t, report.ModuleResults[1].Err)
}

func TestNewPipelineRequiresRegistry(t *testing.T) {
	_, err := check.NewPipeline(check.PipelineDeps{})
	assert.Error(t, err)
}
