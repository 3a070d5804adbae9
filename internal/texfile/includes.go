package texfile

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/kytta/LaTeXBuddy/internal/domain"
)

var includeRe = regexp.MustCompile(`\\(include|input)\{([^}]+)\}`)

// ExpandIncludes walks \input and \include statements starting from the
// root file and returns every reachable document path in discovery order.
// Files that cannot be read are reported as problems rather than aborting
// the traversal; the root itself is always first in the returned list.
func ExpandIncludes(rootPath string) ([]string, []domain.Problem) {
	parent := filepath.Dir(rootPath)

	var paths []string
	var problems []domain.Problem
	seen := map[string]bool{rootPath: true}
	queue := []string{rootPath}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		data, err := os.ReadFile(current)
		if err != nil {
			if current == rootPath {
				// The root is reported by the caller when unreadable.
				continue
			}
			problems = append(problems, domain.NewProblem(domain.ProblemInput{
				Text:        current,
				Checker:     "includes",
				ProblemType: "0",
				Severity:    domain.SeverityWarning,
				Category:    "latex",
				Description: fmt.Sprintf("File not found %s.", current),
				Key:         "includes_" + current,
			}))
			continue
		}
		paths = append(paths, current)

		for _, match := range includeRe.FindAllStringSubmatch(string(data), -1) {
			target := match[2]
			if filepath.Ext(target) == "" {
				target += ".tex"
			}
			if !filepath.IsAbs(target) {
				target = filepath.Join(parent, target)
			}
			if !seen[target] {
				seen[target] = true
				queue = append(queue, target)
			}
		}
	}

	return paths, problems
}
