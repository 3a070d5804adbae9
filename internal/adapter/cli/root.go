// Package cli wires the cobra command tree for the latexbuddy binary.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kytta/LaTeXBuddy/internal/domain"
	"github.com/kytta/LaTeXBuddy/internal/store"
	"github.com/kytta/LaTeXBuddy/internal/usecase/check"
)

// ErrVersionRequested indicates the user requested the CLI version and no further work should be done.
var ErrVersionRequested = errors.New("version requested")

// CheckRequest carries the per-run settings for checking one document.
type CheckRequest struct {
	Path          string
	Language      string
	WhitelistPath string
	Enable        []string
	Disable       []string
}

// Checker runs the checking pipeline for one document.
type Checker interface {
	CheckFile(ctx context.Context, req CheckRequest) (check.Report, error)
}

// WhitelistAdder appends keys to the persistent whitelist.
type WhitelistAdder interface {
	Add(keys ...string) error
}

// RunLister reads recorded check runs.
type RunLister interface {
	ListRuns(ctx context.Context, limit int) ([]store.Run, error)
}

// ReportRequest is the material a sink renders for one document.
type ReportRequest struct {
	OutputDir string
	Document  string
	Problems  []domain.Problem
}

// ReportSink writes a rendered report for one document. File-based sinks
// return the written path; stream sinks return an empty string.
type ReportSink interface {
	Write(ctx context.Context, req ReportRequest) (string, error)
}

// Arguments encapsulates IO streams injected from the host process.
type Arguments struct {
	OutWriter io.Writer
	ErrWriter io.Writer
	InReader  io.Reader
}

// Defaults holds configuration-derived default values for CLI flags.
type Defaults struct {
	Language      string
	WhitelistPath string
	OutputDir     string
	Format        string
}

// Dependencies captures the collaborators for the CLI.
type Dependencies struct {
	Checker   Checker
	Whitelist WhitelistAdder
	Runs      RunLister // Optional; nil disables the runs command

	// Sinks maps output format names to report sinks.
	Sinks map[string]ReportSink

	Args     Arguments
	Defaults Defaults
	Version  string

	// IsInteractive gates the whitelist review prompt; defaults to a
	// stdin TTY probe.
	IsInteractive func() bool
}

// NewRootCommand constructs the root Cobra command.
func NewRootCommand(deps Dependencies) *cobra.Command {
	versionString := deps.Version
	if versionString == "" {
		versionString = "v0.0.0"
	}

	root := &cobra.Command{
		Use:   "latexbuddy",
		Short: "The only LaTeX checking tool you will ever need",
	}
	root.SilenceUsage = true
	root.SilenceErrors = true

	outWriter := deps.Args.OutWriter
	if outWriter == nil {
		outWriter = os.Stdout
	}
	errWriter := deps.Args.ErrWriter
	if errWriter == nil {
		errWriter = os.Stderr
	}
	root.SetOut(outWriter)
	root.SetErr(errWriter)

	root.AddCommand(checkCommand(deps))
	root.AddCommand(whitelistCommand(deps))
	if deps.Runs != nil {
		root.AddCommand(runsCommand(deps))
	}

	var showVersion bool
	root.PersistentFlags().BoolVarP(&showVersion, "version", "v", false, "Show version and exit")
	versionHandler := func(cmd *cobra.Command, args []string) error {
		if showVersion {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), versionString)
			return ErrVersionRequested
		}
		return nil
	}
	root.PersistentPreRunE = versionHandler
	root.PreRunE = versionHandler
	root.RunE = func(cmd *cobra.Command, args []string) error {
		if err := versionHandler(cmd, args); err != nil {
			return err
		}
		return cmd.Help()
	}

	return root
}

func checkCommand(deps Dependencies) *cobra.Command {
	var language string
	var whitelistPath string
	var outputDir string
	var format string
	var enableModules []string
	var disableModules []string
	var interactive bool

	cmd := &cobra.Command{
		Use:   "check [files...]",
		Short: "Check LaTeX documents",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(enableModules) > 0 && len(disableModules) > 0 {
				return fmt.Errorf("--enable-modules and --disable-modules are mutually exclusive")
			}

			sink, ok := deps.Sinks[format]
			if !ok {
				return fmt.Errorf("unknown output format %q", format)
			}

			isInteractive := deps.IsInteractive
			if isInteractive == nil {
				isInteractive = check.IsInteractive
			}

			ctx := cmd.Context()
			var failed bool
			for _, path := range args {
				report, err := deps.Checker.CheckFile(ctx, CheckRequest{
					Path:          path,
					Language:      language,
					WhitelistPath: whitelistPath,
					Enable:        enableModules,
					Disable:       disableModules,
				})
				if err != nil {
					_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "check %s: %v\n", path, err)
					failed = true
					continue
				}

				if interactive && isInteractive() {
					if err := reviewProblems(cmd, deps.Args.InReader, &report); err != nil {
						return err
					}
				}

				written, err := sink.Write(ctx, ReportRequest{
					OutputDir: outputDir,
					Document:  report.Document,
					Problems:  report.Problems,
				})
				if err != nil {
					return fmt.Errorf("write report for %s: %w", path, err)
				}
				if written != "" {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "report written to %s\n", written)
				}
			}

			if failed {
				return fmt.Errorf("one or more documents could not be checked")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&language, "language", deps.Defaults.Language, "Document language for spelling and grammar checks")
	cmd.Flags().StringVar(&whitelistPath, "whitelist", deps.Defaults.WhitelistPath, "Path to the whitelist file")
	cmd.Flags().StringVar(&outputDir, "output", deps.Defaults.OutputDir, "Directory to write report files")
	cmd.Flags().StringVar(&format, "format", deps.Defaults.Format, "Output format (json, html, console)")
	cmd.Flags().StringSliceVar(&enableModules, "enable-modules", nil, "Run only the named checker modules")
	cmd.Flags().StringSliceVar(&disableModules, "disable-modules", nil, "Run all but the named checker modules")
	cmd.Flags().BoolVar(&interactive, "interactive", false, "Review problems and promote false positives to the whitelist")

	return cmd
}

// reviewProblems walks the surviving problems and lets the user promote
// false positives to the whitelist. Promoted problems (and every problem
// sharing their key) are removed from the report.
func reviewProblems(cmd *cobra.Command, in io.Reader, report *check.Report) error {
	if in == nil {
		in = os.Stdin
	}
	reader := bufio.NewReader(in)
	out := cmd.OutOrStdout()

	for _, problem := range report.Problems {
		if _, ok := report.Session.Get(problem.UID); !ok {
			// Already removed by an earlier promotion cascade.
			continue
		}

		_, _ = fmt.Fprintf(out, "%s\nadd to whitelist? [y/N/q] ", problem.String())
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			break
		}

		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			if err := report.Session.PromoteToWhitelist(problem.UID); err != nil {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "whitelist %s: %v\n", problem.Key, err)
			}
		case "q", "quit":
			report.Problems = report.Session.Sorted()
			return nil
		}
	}

	report.Problems = report.Session.Sorted()
	return nil
}

func whitelistCommand(deps Dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "whitelist",
		Short: "Maintain the whitelist file",
	}

	addCmd := &cobra.Command{
		Use:   "add KEY...",
		Short: "Add keys to the whitelist",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return deps.Whitelist.Add(args...)
		},
	}

	var wordlistLang string
	fromWordlistCmd := &cobra.Command{
		Use:   "from-wordlist FILE",
		Short: "Add spelling keys for every word in a word list file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read wordlist %s: %w", args[0], err)
			}

			var keys []string
			for _, line := range strings.Split(string(data), "\n") {
				word := strings.TrimSpace(line)
				if word == "" {
					continue
				}
				keys = append(keys, domain.SpellingKey(wordlistLang, word))
			}
			if len(keys) == 0 {
				return nil
			}
			return deps.Whitelist.Add(keys...)
		},
	}
	fromWordlistCmd.Flags().StringVar(&wordlistLang, "language", deps.Defaults.Language, "Language tag for the generated spelling keys")

	cmd.AddCommand(addCmd)
	cmd.AddCommand(fromWordlistCmd)
	return cmd
}

func runsCommand(deps Dependencies) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recorded check runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runs, err := deps.Runs.ListRuns(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("list runs: %w", err)
			}

			out := cmd.OutOrStdout()
			for _, run := range runs {
				revision := run.Revision
				if revision == "" {
					revision = "-"
				}
				_, _ = fmt.Fprintf(out, "%s  %s  %s  %s  %d problems\n",
					run.Timestamp.Format("2006-01-02 15:04:05"),
					run.RunID, run.Document, revision, run.ProblemCount)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of runs to list")
	return cmd
}
