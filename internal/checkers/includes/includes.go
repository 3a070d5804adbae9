// Package includes reports \input and \include targets that do not exist.
package includes

import (
	"context"

	"github.com/kytta/LaTeXBuddy/internal/domain"
	"github.com/kytta/LaTeXBuddy/internal/texfile"
)

// Checker verifies that every included file is reachable from the
// checked document.
type Checker struct{}

// New creates the include-traversal checker.
func New() *Checker { return &Checker{} }

// Name returns the checker's display name.
func (c *Checker) Name() string { return "includes" }

// Check walks the include graph rooted at the document and reports
// unreadable targets. The traversal itself never fails.
func (c *Checker) Check(_ context.Context, doc *texfile.Document) ([]domain.Problem, error) {
	_, problems := texfile.ExpandIncludes(doc.Path())
	return problems, nil
}
