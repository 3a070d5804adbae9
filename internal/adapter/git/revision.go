// Package git resolves the repository revision of checked documents for
// run records.
package git

import (
	"path/filepath"

	goGit "github.com/go-git/go-git/v5"
)

// Resolver looks up the HEAD revision of the repository containing a
// document.
type Resolver struct{}

// NewResolver constructs a revision resolver.
func NewResolver() *Resolver {
	return &Resolver{}
}

// HeadRevision returns the HEAD commit hash of the repository containing
// the given document path. Documents outside any repository yield an
// empty revision, not an error.
func (r *Resolver) HeadRevision(documentPath string) string {
	dir := filepath.Dir(documentPath)

	repo, err := goGit.PlainOpenWithOptions(dir, &goGit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return ""
	}

	head, err := repo.Head()
	if err != nil {
		// Repository without commits yet.
		return ""
	}
	return head.Hash().String()
}
