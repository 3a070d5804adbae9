// Package chktex wraps the chktex executable.
//
// ChkTeX documentation: https://www.nongnu.org/chktex/ChkTeX.pdf
package chktex

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/kytta/LaTeXBuddy/internal/domain"
	"github.com/kytta/LaTeXBuddy/internal/texfile"
)

const delimiter = ":"

// formatFields are chktex -f placeholders: file, line, column, length,
// warning number, matched text, message, kind, context before, context after.
var formatFields = []string{"%f", "%l", "%c", "%d", "%n", "%s", "%m", "%k", "%r", "%t"}

// Checker shells out to chktex and converts its findings.
type Checker struct {
	executable string
}

// New locates the chktex executable. A missing installation fails module
// construction, which the registry reports and skips.
func New() (*Checker, error) {
	path, err := exec.LookPath("chktex")
	if err != nil {
		return nil, fmt.Errorf("chktex executable not found: %w", err)
	}
	return &Checker{executable: path}, nil
}

// Name returns the checker's display name.
func (c *Checker) Name() string { return "chktex" }

// Check runs chktex on the document's file in quiet mode with a
// machine-readable output format.
func (c *Checker) Check(ctx context.Context, doc *texfile.Document) ([]domain.Problem, error) {
	format := strings.Join(formatFields, delimiter) + "\n"
	cmd := exec.CommandContext(ctx, c.executable, "-f", format, "-q", doc.Path())

	// chktex exits non-zero when it finds problems; only a missing output
	// stream is a real failure.
	output, err := cmd.Output()
	if err != nil && len(output) == 0 {
		return nil, fmt.Errorf("run chktex on %s: %w", doc.Path(), err)
	}

	return c.parseOutput(string(output)), nil
}

// parseOutput converts delimiter-formatted chktex lines into problems.
// Lines with too few fields are skipped.
func (c *Checker) parseOutput(output string) []domain.Problem {
	var problems []domain.Problem
	for _, line := range strings.Split(output, "\n") {
		fields := strings.Split(line, delimiter)
		if len(fields) < len(formatFields) {
			continue
		}

		row, rowErr := strconv.Atoi(fields[1])
		col, colErr := strconv.Atoi(fields[2])
		if rowErr != nil || colErr != nil {
			continue
		}
		length, _ := strconv.Atoi(fields[3])

		severity := domain.SeverityError
		if fields[7] == "Warning" {
			severity = domain.SeverityWarning
		}

		warningID := fields[4]
		problems = append(problems, domain.NewProblem(domain.ProblemInput{
			Position:    &domain.Position{Line: row, Column: col},
			Length:      length,
			Text:        fields[5],
			Checker:     c.Name(),
			ProblemType: warningID,
			Severity:    severity,
			Category:    "latex",
			Description: fields[6],
			Context:     domain.Context{Before: fields[8], After: fields[9]},
			Key:         c.Name() + "_" + warningID,
		}))
	}
	return problems
}
