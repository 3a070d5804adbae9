// Package refcheck finds figures whose labels are never referenced.
package refcheck

import (
	"context"
	"fmt"
	"regexp"

	"github.com/kytta/LaTeXBuddy/internal/domain"
	"github.com/kytta/LaTeXBuddy/internal/texfile"
)

var (
	figureRe = regexp.MustCompile(`(?s)\\begin\{figure\}.*?\\end\{figure\}`)
	labelRe  = regexp.MustCompile(`\\label\{([^}]+)\}`)
)

// Checker reports `\label`ed figures that no `\ref` points to.
type Checker struct{}

// New creates the unreferenced-figures checker.
func New() *Checker { return &Checker{} }

// Name returns the checker's display name.
func (c *Checker) Name() string { return "refcheck" }

// Check scans every figure environment for labels and reports the ones
// without a matching reference anywhere in the document.
func (c *Checker) Check(_ context.Context, doc *texfile.Document) ([]domain.Problem, error) {
	source := doc.Source()

	var problems []domain.Problem
	for _, figure := range figureRe.FindAllStringIndex(source, -1) {
		start, end := figure[0], figure[1]
		body := source[start:end]

		for _, label := range labelRe.FindAllStringSubmatch(body, -1) {
			name := label[1]
			refRe := regexp.MustCompile(`\\ref\{` + regexp.QuoteMeta(name) + `\}`)
			if refRe.MatchString(source) {
				continue
			}
			problems = append(problems, domain.NewProblem(domain.ProblemInput{
				Position:    doc.PositionAt(start),
				Length:      end - start,
				Text:        name,
				Checker:     c.Name(),
				ProblemType: "0",
				Severity:    domain.SeverityInfo,
				Category:    "latex",
				Description: fmt.Sprintf("Figure %s not referenced.", name),
				Context:     domain.Context{Before: `\label{`, After: `}`},
				Key:         c.Name() + "_" + name,
			}))
		}
	}
	return problems, nil
}
