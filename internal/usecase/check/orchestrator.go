package check

import (
	"context"
	"fmt"
	"log"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/kytta/LaTeXBuddy/internal/domain"
	"github.com/kytta/LaTeXBuddy/internal/texfile"
)

// ModuleResult is the outcome of one module invocation. A failed module
// carries its error and an empty problem list; it never affects siblings.
type ModuleResult struct {
	Module   string
	Problems []domain.Problem
	Err      error
	Elapsed  time.Duration
}

// OrchestratorDeps captures the inbound dependencies for the orchestrator.
type OrchestratorDeps struct {
	Logger Logger // Optional: falls back to the standard logger

	// MaxParallel bounds concurrent module invocations. Zero or negative
	// means one worker slot per available CPU.
	MaxParallel int

	// ModuleTimeout bounds a single module invocation via its context.
	// Zero preserves the baseline behavior of waiting indefinitely.
	ModuleTimeout time.Duration
}

// Orchestrator runs checker modules concurrently with fault isolation.
// Instances are constructed per session; there is no shared global state.
type Orchestrator struct {
	deps OrchestratorDeps
}

// NewOrchestrator wires the orchestrator dependencies.
func NewOrchestrator(deps OrchestratorDeps) *Orchestrator {
	if deps.MaxParallel <= 0 {
		deps.MaxParallel = runtime.NumCPU()
	}
	return &Orchestrator{deps: deps}
}

// Run dispatches every module against the document, bounded by the
// configured parallelism, and joins before returning. Results are ordered
// by module dispatch order, not completion order, so re-running the same
// module set against the same document yields an identical aggregate.
// A module failure degrades to an empty result for that module; the run
// itself never fails.
func (o *Orchestrator) Run(ctx context.Context, modules []Module, doc *texfile.Document) []ModuleResult {
	results := make([]ModuleResult, len(modules))
	sem := semaphore.NewWeighted(int64(o.deps.MaxParallel))

	var wg sync.WaitGroup
	for i, module := range modules {
		wg.Add(1)
		go func(i int, module Module) {
			defer wg.Done()

			if err := sem.Acquire(ctx, 1); err != nil {
				results[i] = ModuleResult{Module: module.Name(), Err: err}
				return
			}
			defer sem.Release(1)

			start := time.Now()
			problems, err := o.invoke(ctx, module, doc)
			elapsed := time.Since(start)

			if err != nil {
				o.logWarning(ctx, "module failed, continuing without its results", map[string]interface{}{
					"module":  module.Name(),
					"elapsed": elapsed.String(),
					"error":   err.Error(),
				})
				results[i] = ModuleResult{Module: module.Name(), Err: err, Elapsed: elapsed}
				return
			}

			o.logInfo(ctx, "module finished checks", map[string]interface{}{
				"module":   module.Name(),
				"elapsed":  elapsed.String(),
				"problems": len(problems),
			})
			results[i] = ModuleResult{Module: module.Name(), Problems: problems, Elapsed: elapsed}
		}(i, module)
	}
	wg.Wait()

	return results
}

// invoke runs a single module, converting panics to errors and applying
// the per-module timeout when one is configured.
func (o *Orchestrator) invoke(ctx context.Context, module Module, doc *texfile.Document) (problems []domain.Problem, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("module %s panicked: %v", module.Name(), r)
		}
	}()

	if o.deps.ModuleTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.deps.ModuleTimeout)
		defer cancel()
	}

	return module.Check(ctx, doc)
}

func (o *Orchestrator) logWarning(ctx context.Context, message string, fields map[string]interface{}) {
	if o.deps.Logger != nil {
		o.deps.Logger.LogWarning(ctx, message, fields)
		return
	}
	log.Printf("warning: %s: %v", message, fields)
}

func (o *Orchestrator) logInfo(ctx context.Context, message string, fields map[string]interface{}) {
	if o.deps.Logger != nil {
		o.deps.Logger.LogInfo(ctx, message, fields)
	}
}
