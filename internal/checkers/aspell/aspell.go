// Package aspell wraps GNU Aspell in pipe mode for spell checking the
// plain-text rendering of a document.
package aspell

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"golang.org/x/text/language"

	"github.com/kytta/LaTeXBuddy/internal/domain"
	"github.com/kytta/LaTeXBuddy/internal/texfile"
)

// Checker shells out to aspell and converts misspellings to problems.
type Checker struct {
	executable string
	lang       string
}

// New locates the aspell executable and normalizes the language tag, so
// "en_US", "en-US" and "en" all produce the same whitelist keys.
func New(lang string) (*Checker, error) {
	path, err := exec.LookPath("aspell")
	if err != nil {
		return nil, fmt.Errorf("aspell executable not found: %w", err)
	}
	return &Checker{executable: path, lang: normalizeLang(lang)}, nil
}

func normalizeLang(lang string) string {
	tag, err := language.Parse(lang)
	if err != nil {
		return lang
	}
	base, _ := tag.Base()
	return base.String()
}

// Name returns the checker's display name.
func (c *Checker) Name() string { return "aspell" }

// Check feeds the plain-text rendering through aspell pipe mode and maps
// the reported offsets back to source positions.
func (c *Checker) Check(ctx context.Context, doc *texfile.Document) ([]domain.Problem, error) {
	cmd := exec.CommandContext(ctx, c.executable, "-a", "-l", c.lang, "--encoding=utf-8")
	cmd.Stdin = strings.NewReader(pipeInput(doc.Plain()))

	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("run aspell (%s): %w", c.lang, err)
	}

	return c.parseOutput(doc, stdout.String()), nil
}

// pipeInput prepares plain text for aspell pipe mode. Every line is
// prefixed with "^" so leading pipe-mode command characters are escaped.
func pipeInput(plain string) string {
	lines := strings.Split(plain, "\n")
	var b strings.Builder
	for _, line := range lines {
		b.WriteString("^")
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

// parseOutput converts aspell pipe-mode output. Aspell answers one block
// per input line, terminated by an empty line; within a block, "&" lines
// carry misspellings with suggestions and "#" lines misspellings without.
func (c *Checker) parseOutput(doc *texfile.Document, output string) []domain.Problem {
	plainLines := strings.Split(doc.Plain(), "\n")
	lineStarts := plainLineStarts(doc.Plain())

	var problems []domain.Problem
	plainLine := 0
	for _, line := range strings.Split(output, "\n") {
		switch {
		case line == "":
			plainLine++
		case strings.HasPrefix(line, "& "), strings.HasPrefix(line, "# "):
			if plainLine >= len(plainLines) {
				continue
			}
			if p, ok := c.misspelling(doc, lineStarts[plainLine], plainLines[plainLine], line); ok {
				problems = append(problems, p)
			}
		}
	}
	return problems
}

// misspelling parses a single "&" or "#" result line:
//
//	& original count offset: suggestion, suggestion, ...
//	# original offset
func (c *Checker) misspelling(doc *texfile.Document, lineStart int, lineText string, result string) (domain.Problem, bool) {
	head, tail, _ := strings.Cut(result, ": ")
	fields := strings.Fields(head)

	var word string
	var offset int
	var suggestions []string
	switch fields[0] {
	case "&":
		if len(fields) != 4 {
			return domain.Problem{}, false
		}
		word = fields[1]
		n, err := strconv.Atoi(fields[3])
		if err != nil {
			return domain.Problem{}, false
		}
		offset = n
		suggestions = splitSuggestions(tail)
	case "#":
		if len(fields) != 3 {
			return domain.Problem{}, false
		}
		word = fields[1]
		n, err := strconv.Atoi(fields[2])
		if err != nil {
			return domain.Problem{}, false
		}
		offset = n
	default:
		return domain.Problem{}, false
	}

	if offset < 1 {
		return domain.Problem{}, false
	}
	// Offsets count characters from the "^" escape prefix, not bytes.
	plainOffset := lineStart + charToByte(lineText, offset-1)

	return domain.NewProblem(domain.ProblemInput{
		Position:    doc.PlainPosition(plainOffset),
		Length:      len(word),
		Text:        word,
		Checker:     c.Name(),
		ProblemType: "0",
		Severity:    domain.SeverityWarning,
		Category:    "spelling",
		Description: fmt.Sprintf("Possible spelling mistake: %s", word),
		Suggestions: suggestions,
		Key:         domain.SpellingKey(c.lang, word),
	}), true
}

func splitSuggestions(tail string) []string {
	if tail == "" {
		return nil
	}
	parts := strings.Split(tail, ", ")
	suggestions := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			suggestions = append(suggestions, part)
		}
	}
	return suggestions
}

// charToByte converts a character offset within a line to a byte offset,
// saturating at the end of the line.
func charToByte(line string, charOffset int) int {
	count := 0
	for i := range line {
		if count == charOffset {
			return i
		}
		count++
	}
	return len(line)
}

func plainLineStarts(plain string) []int {
	starts := []int{0}
	for i := 0; i < len(plain); i++ {
		if plain[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}
