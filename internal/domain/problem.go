package domain

import (
	"fmt"
	"sync/atomic"
)

// Position locates a problem in the source document, 1-based.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Context is the text immediately before and after the problematic span.
type Context struct {
	Before string `json:"before"`
	After  string `json:"after"`
}

// Problem describes a single finding reported by a checker module.
//
// A Problem is immutable after construction. Its Key is the persistent
// semantic identity used for whitelist matching and stays stable across
// runs; its UID is unique only within the current process run and is used
// to address the problem inside a session.
type Problem struct {
	// Position is nil when the problem cannot be localized.
	Position    *Position `json:"position"`
	Length      int       `json:"length"`
	Text        string    `json:"text"`
	Checker     string    `json:"checker"`
	ProblemType string    `json:"pType"`
	Severity    Severity  `json:"severity"`
	Category    string    `json:"category,omitempty"`
	Description string    `json:"description,omitempty"`
	Context     Context   `json:"context"`
	Suggestions []string  `json:"suggestions,omitempty"`
	Key         string    `json:"key"`
	UID         string    `json:"-"`
}

// ProblemInput captures the information required to create a Problem.
type ProblemInput struct {
	Position    *Position
	Length      int
	Text        string
	Checker     string
	ProblemType string
	Severity    Severity
	Category    string
	Description string
	Context     Context
	Suggestions []string

	// Key overrides the default identity derivation. Checkers set this when
	// two differently-located findings should collapse to one whitelist
	// entry, e.g. spelling keys that incorporate the language and word.
	Key string
}

// uidCounter issues run-unique problem handles. Monotonic, never persisted.
var uidCounter atomic.Uint64

// NewProblem constructs an immutable Problem. When the input carries no
// explicit key, the identity defaults to "checker/ptype/text".
func NewProblem(input ProblemInput) Problem {
	key := input.Key
	if key == "" {
		key = DefaultKey(input.Checker, input.ProblemType, input.Text)
	}

	length := input.Length
	if length == 0 {
		length = len(input.Text)
	}

	return Problem{
		Position:    input.Position,
		Length:      length,
		Text:        input.Text,
		Checker:     input.Checker,
		ProblemType: input.ProblemType,
		Severity:    input.Severity,
		Category:    input.Category,
		Description: input.Description,
		Context:     input.Context,
		Suggestions: input.Suggestions,
		Key:         key,
		UID:         fmt.Sprintf("p%08d", uidCounter.Add(1)),
	}
}

// DefaultKey derives the default semantic identity of a problem.
func DefaultKey(checker, problemType, text string) string {
	return fmt.Sprintf("%s/%s/%s", checker, problemType, text)
}

// SpellingKey derives the whitelist key for a misspelled word. The same
// word reported at different positions, or with different surrounding
// context, collapses to a single whitelist entry.
func SpellingKey(lang, word string) string {
	return fmt.Sprintf("%s_spelling_%s", lang, word)
}

// String renders a short human-readable description of the problem.
func (p Problem) String() string {
	return fmt.Sprintf("%s %s on %s: %s: %s",
		p.Category, p.Severity, p.positionString(), p.Text, p.Description)
}

func (p Problem) positionString() string {
	if p.Position == nil {
		return "none"
	}
	return fmt.Sprintf("%d:%d", p.Position.Line, p.Position.Column)
}

// Less orders problems for presentation: by severity (most severe first),
// then by position, then by checker name for a stable tiebreak.
func Less(a, b Problem) bool {
	if a.Severity != b.Severity {
		return a.Severity > b.Severity
	}
	ap, bp := a.Position, b.Position
	switch {
	case ap == nil && bp != nil:
		return false
	case ap != nil && bp == nil:
		return true
	case ap != nil && bp != nil:
		if ap.Line != bp.Line {
			return ap.Line < bp.Line
		}
		if ap.Column != bp.Column {
			return ap.Column < bp.Column
		}
	}
	return a.Checker < b.Checker
}
