package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/kytta/LaTeXBuddy/internal/adapter/cli"
	"github.com/kytta/LaTeXBuddy/internal/adapter/git"
	"github.com/kytta/LaTeXBuddy/internal/adapter/observability"
	"github.com/kytta/LaTeXBuddy/internal/adapter/output/console"
	htmlout "github.com/kytta/LaTeXBuddy/internal/adapter/output/html"
	jsonout "github.com/kytta/LaTeXBuddy/internal/adapter/output/json"
	"github.com/kytta/LaTeXBuddy/internal/adapter/store/sqlite"
	"github.com/kytta/LaTeXBuddy/internal/checkers/aspell"
	"github.com/kytta/LaTeXBuddy/internal/checkers/chktex"
	"github.com/kytta/LaTeXBuddy/internal/checkers/includes"
	"github.com/kytta/LaTeXBuddy/internal/checkers/languagetool"
	"github.com/kytta/LaTeXBuddy/internal/checkers/refcheck"
	"github.com/kytta/LaTeXBuddy/internal/checkers/siunitx"
	"github.com/kytta/LaTeXBuddy/internal/config"
	"github.com/kytta/LaTeXBuddy/internal/store"
	"github.com/kytta/LaTeXBuddy/internal/usecase/check"
	"github.com/kytta/LaTeXBuddy/internal/version"
	"github.com/kytta/LaTeXBuddy/internal/whitelist"
)

func main() {
	if err := run(); err != nil {
		log.Println(err)
		os.Exit(1)
	}
}

func run() error {
	// Cancellable context with signal handling for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(config.LoaderOptions{
		ConfigPaths: defaultConfigPaths(),
		FileName:    "latexbuddy",
		EnvPrefix:   "LATEXBUDDY",
	})
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}

	logger := observability.FromConfig(cfg.Observability.Logging)

	moduleTimeout := time.Duration(0)
	if cfg.Checks.ModuleTimeout != "" {
		parsed, err := time.ParseDuration(cfg.Checks.ModuleTimeout)
		if err != nil {
			log.Printf("warning: invalid module timeout %q, running unbounded", cfg.Checks.ModuleTimeout)
		} else {
			moduleTimeout = parsed
		}
	}

	// Initialize the run-history store if enabled
	var runStore store.Store
	if cfg.Store.Enabled {
		storeDir := filepath.Dir(cfg.Store.Path)
		if err := os.MkdirAll(storeDir, 0755); err != nil {
			log.Printf("warning: failed to create store directory: %v", err)
		} else {
			sqliteStore, err := sqlite.NewStore(cfg.Store.Path)
			if err != nil {
				log.Printf("warning: failed to initialize store: %v", err)
			} else {
				runStore = sqliteStore
				defer runStore.Close()
			}
		}
	}

	service := &checkService{
		cfg:           cfg,
		logger:        logger,
		moduleTimeout: moduleTimeout,
		store:         runStore,
		revisions:     git.NewResolver(),
	}

	// Timestamp function for deterministic report file naming
	nowFunc := func() string {
		return time.Now().UTC().Format("20060102T150405Z")
	}

	sinks := map[string]cli.ReportSink{
		"json":    jsonSink{writer: jsonout.NewWriter(nowFunc)},
		"html":    htmlSink{writer: htmlout.NewWriter(nowFunc)},
		"console": consoleSink{writer: console.NewWriter(os.Stdout, check.IsOutputTerminal())},
	}

	var runs cli.RunLister
	if runStore != nil {
		runs = runStore
	}

	root := cli.NewRootCommand(cli.Dependencies{
		Checker:   service,
		Whitelist: whitelist.New(cfg.Whitelist.Path),
		Runs:      runs,
		Sinks:     sinks,
		Defaults: cli.Defaults{
			Language:      cfg.Language,
			WhitelistPath: cfg.Whitelist.Path,
			OutputDir:     cfg.Output.Directory,
			Format:        cfg.Output.Format,
		},
		Version: version.Value(),
	})

	if err := root.ExecuteContext(ctx); err != nil {
		if errors.Is(err, cli.ErrVersionRequested) {
			return nil
		}
		return fmt.Errorf("command failed: %w", err)
	}
	return nil
}

func defaultConfigPaths() []string {
	paths := []string{"."}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "latexbuddy"))
	}
	return paths
}

// checkService assembles a checking pipeline per request. The module
// registry is rebuilt for each document because language-sensitive
// checkers take the language at construction time.
type checkService struct {
	cfg           config.Config
	logger        check.Logger
	moduleTimeout time.Duration
	store         store.Store
	revisions     *git.Resolver
}

func (s *checkService) CheckFile(ctx context.Context, req cli.CheckRequest) (check.Report, error) {
	lang := req.Language
	if lang == "" {
		lang = s.cfg.Language
	}

	selection := check.Selection{
		Enable:         req.Enable,
		Disable:        req.Disable,
		DefaultEnabled: s.cfg.Modules.DefaultEnabled,
	}
	if len(selection.Enable) == 0 && len(selection.Disable) == 0 {
		selection.Enable = s.cfg.Modules.Enable
		selection.Disable = s.cfg.Modules.Disable
	}

	pipeline, err := check.NewPipeline(check.PipelineDeps{
		Registry:      s.buildRegistry(lang),
		Selection:     selection,
		Whitelist:     whitelist.New(req.WhitelistPath),
		Logger:        s.logger,
		MaxParallel:   s.cfg.Checks.MaxParallel,
		ModuleTimeout: s.moduleTimeout,
	})
	if err != nil {
		return check.Report{}, err
	}

	report, err := pipeline.CheckFile(ctx, req.Path)
	if err != nil {
		return check.Report{}, err
	}

	s.recordRun(ctx, req.Path, lang, report)
	return report, nil
}

// recordRun persists the run to the history store. Store failures never
// fail the check itself.
func (s *checkService) recordRun(ctx context.Context, path, lang string, report check.Report) {
	if s.store == nil {
		return
	}

	revision := s.revisions.HeadRevision(path)
	run := store.NewRun(path, revision, lang, len(report.Problems))
	if err := s.store.CreateRun(ctx, run); err != nil {
		log.Printf("warning: failed to record run: %v", err)
		return
	}
	if err := s.store.SaveProblems(ctx, store.RecordProblems(run.RunID, report.Problems)); err != nil {
		log.Printf("warning: failed to record problems: %v", err)
	}
}

func (s *checkService) buildRegistry(lang string) *check.Registry {
	registry := check.NewRegistry()
	registry.Register("refcheck", func() (check.Module, error) { return refcheck.New(), nil })
	registry.Register("siunitx", func() (check.Module, error) { return siunitx.New(), nil })
	registry.Register("includes", func() (check.Module, error) { return includes.New(), nil })
	registry.Register("chktex", func() (check.Module, error) { return chktex.New() })
	registry.Register("aspell", func() (check.Module, error) { return aspell.New(lang) })
	registry.Register("languagetool", func() (check.Module, error) {
		checker := languagetool.New(lang)
		if url := s.cfg.Checkers.LanguageTool.URL; url != "" {
			checker.SetBaseURL(url)
		}
		return checker, nil
	})
	return registry
}

// jsonSink adapts the JSON report writer to the CLI sink port.
type jsonSink struct {
	writer *jsonout.Writer
}

func (s jsonSink) Write(ctx context.Context, req cli.ReportRequest) (string, error) {
	return s.writer.Write(ctx, jsonout.Artifact{
		OutputDir: req.OutputDir,
		Document:  req.Document,
		Problems:  req.Problems,
	})
}

// htmlSink adapts the HTML report writer to the CLI sink port.
type htmlSink struct {
	writer *htmlout.Writer
}

func (s htmlSink) Write(ctx context.Context, req cli.ReportRequest) (string, error) {
	return s.writer.Write(ctx, htmlout.Artifact{
		OutputDir: req.OutputDir,
		Document:  req.Document,
		Problems:  req.Problems,
	})
}

// consoleSink streams the report to stdout and returns no file path.
type consoleSink struct {
	writer *console.Writer
}

func (s consoleSink) Write(_ context.Context, req cli.ReportRequest) (string, error) {
	return "", s.writer.Write(req.Document, req.Problems)
}

// Compile-time interface compliance checks
var _ cli.Checker = (*checkService)(nil)
var _ cli.ReportSink = jsonSink{}
var _ cli.ReportSink = htmlSink{}
var _ cli.ReportSink = consoleSink{}
var _ check.Logger = (*observability.DefaultLogger)(nil)
var _ check.WhitelistStore = (*whitelist.Store)(nil)
var _ store.Store = (*sqlite.Store)(nil)
