// Package suppress implements in-document suppression directives. Authors
// exempt regions of a document from checking with directive comments:
//
//	% buddy ignore-next [n] line[s]
//	% buddy begin-ignore [checker-or-category ...]
//	% buddy end-ignore
//
// A begin-ignore without names exempts everything until the matching
// end-ignore; with names it exempts only the listed checkers or
// categories. Malformed directives are ignored.
package suppress

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/kytta/LaTeXBuddy/internal/domain"
	"github.com/kytta/LaTeXBuddy/internal/texfile"
)

var directiveRe = regexp.MustCompile(`(?m)^\s*%\s*buddy\s+(.*)$`)

// exemption marks an inclusive line range as exempt. An empty name set
// exempts every checker and category.
type exemption struct {
	startLine int
	endLine   int
	names     map[string]bool
}

// Filter answers whether a problem is suppressed by document directives.
type Filter struct {
	exemptions []exemption
}

// Parse scans the raw source of a document for suppression directives.
// A document without directives yields a filter that suppresses nothing.
func Parse(doc *texfile.Document) *Filter {
	f := &Filter{}

	lines := strings.Split(doc.Source(), "\n")
	var open []exemption // begin-ignore blocks awaiting their end

	for idx, line := range lines {
		m := directiveRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		lineNo := idx + 1
		fields := strings.Fields(m[1])
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "ignore-next":
			count, ok := parseIgnoreNext(fields[1:])
			if !ok {
				continue
			}
			f.exemptions = append(f.exemptions, exemption{
				startLine: lineNo + 1,
				endLine:   lineNo + count,
			})

		case "begin-ignore":
			ex := exemption{startLine: lineNo}
			if len(fields) > 1 {
				ex.names = make(map[string]bool, len(fields)-1)
				for _, name := range fields[1:] {
					ex.names[name] = true
				}
			}
			open = append(open, ex)

		case "end-ignore":
			if len(open) == 0 {
				continue // stray end-ignore, treated as absent
			}
			ex := open[len(open)-1]
			open = open[:len(open)-1]
			ex.endLine = lineNo
			f.exemptions = append(f.exemptions, ex)
		}
	}

	// Unterminated blocks extend to the end of the document.
	for _, ex := range open {
		ex.endLine = len(lines)
		f.exemptions = append(f.exemptions, ex)
	}

	return f
}

// parseIgnoreNext interprets the arguments of an ignore-next directive.
// Accepted forms: "", "line", "lines", "N", "N line", "N lines".
func parseIgnoreNext(args []string) (int, bool) {
	if len(args) == 0 {
		return 1, true
	}
	if args[0] == "line" || args[0] == "lines" {
		return 1, true
	}
	count, err := strconv.Atoi(args[0])
	if err != nil || count < 1 {
		return 0, false
	}
	if len(args) > 1 && args[1] != "line" && args[1] != "lines" {
		return 0, false
	}
	return count, true
}

// Matches reports whether the problem falls inside an exempted scope and
// must therefore not be admitted into the session.
func (f *Filter) Matches(p domain.Problem) bool {
	if p.Position == nil {
		return false
	}
	for _, ex := range f.exemptions {
		if p.Position.Line < ex.startLine || p.Position.Line > ex.endLine {
			continue
		}
		if len(ex.names) == 0 || ex.names[p.Checker] || ex.names[p.Category] {
			return true
		}
	}
	return false
}
