package check

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/kytta/LaTeXBuddy/internal/domain"
	"github.com/kytta/LaTeXBuddy/internal/texfile"
	"github.com/kytta/LaTeXBuddy/internal/usecase/suppress"
)

// Report captures the outcome of checking one document.
type Report struct {
	Document string

	// Problems are the surviving findings, most severe first.
	Problems []domain.Problem

	// Session allows callers to promote individual problems to the
	// whitelist after reviewing the report.
	Session *Session

	// ModuleResults holds per-module outcomes in dispatch order,
	// including degraded (failed) modules.
	ModuleResults []ModuleResult
}

// PipelineDeps captures the collaborators for a checking pipeline.
type PipelineDeps struct {
	Registry  *Registry
	Selection Selection
	Whitelist WhitelistStore
	Logger    Logger // Optional

	MaxParallel   int
	ModuleTimeout time.Duration

	// LoadDocument is swappable for tests; defaults to texfile.Load.
	LoadDocument func(path string) (*texfile.Document, error)
}

// Pipeline runs the full checking flow for one document: load, parse
// suppression directives, dispatch modules, merge into a session and
// apply the whitelist.
type Pipeline struct {
	deps         PipelineDeps
	orchestrator *Orchestrator
}

// NewPipeline wires the pipeline dependencies.
func NewPipeline(deps PipelineDeps) (*Pipeline, error) {
	if deps.Registry == nil {
		return nil, errors.New("module registry is required")
	}
	if deps.LoadDocument == nil {
		deps.LoadDocument = texfile.Load
	}
	return &Pipeline{
		deps: deps,
		orchestrator: NewOrchestrator(OrchestratorDeps{
			Logger:        deps.Logger,
			MaxParallel:   deps.MaxParallel,
			ModuleTimeout: deps.ModuleTimeout,
		}),
	}, nil
}

// CheckFile checks a single document and returns its report. Module
// failures degrade to empty results; only an unreadable document is a
// pipeline error.
func (p *Pipeline) CheckFile(ctx context.Context, path string) (Report, error) {
	doc, err := p.deps.LoadDocument(path)
	if err != nil {
		return Report{}, err
	}

	filter := suppress.Parse(doc)

	modules, selErrs := p.deps.Registry.Select(p.deps.Selection)
	for _, selErr := range selErrs {
		p.logWarning(ctx, "module selection", map[string]interface{}{
			"document": path,
			"error":    selErr.Error(),
		})
	}

	results := p.orchestrator.Run(ctx, modules, doc)

	session := NewSession(filter, p.deps.Whitelist)
	for _, result := range results {
		session.AddAll(result.Problems)
	}
	session.CheckWhitelist()

	return Report{
		Document:      path,
		Problems:      session.Sorted(),
		Session:       session,
		ModuleResults: results,
	}, nil
}

func (p *Pipeline) logWarning(ctx context.Context, message string, fields map[string]interface{}) {
	if p.deps.Logger != nil {
		p.deps.Logger.LogWarning(ctx, message, fields)
		return
	}
	log.Printf("warning: %s: %v", message, fields)
}
