// Package siunitx suggests the siunitx package for long numbers and SI
// units written out by hand.
package siunitx

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/kytta/LaTeXBuddy/internal/domain"
	"github.com/kytta/LaTeXBuddy/internal/texfile"
)

// longNumberThreshold is the digit count above which \num is suggested.
const longNumberThreshold = 3

var numberRe = regexp.MustCompile(`[0-9]+`)

// SI base and derived units, plus accepted non-SI units.
var units = []string{
	"A", "cd", "K", "kg", "m", "mol", "s",
	"C", "F", "Gy", "Hz", "H", "J", "lm", "kat", "lx", "N", "Pa",
	"rad", "S", "Sv", "sr", "T", "V", "W", "Wb",
	"au", "B", "Da", "d", "dB", "eV", "ha", "h", "L", "min", "Np", "t",
}

var prefixes = []string{
	"y", "z", "a", "f", "p", "n", "m", "c", "d",
	"da", "h", "k", "M", "G", "T", "P", "E", "Z", "Y",
}

// unitRe matches a number followed by a (possibly prefixed) unit symbol.
var unitRe = buildUnitRe()

func buildUnitRe() *regexp.Regexp {
	symbols := make([]string, 0, len(units)*(len(prefixes)+1))
	for _, unit := range units {
		symbols = append(symbols, unit)
		for _, prefix := range prefixes {
			symbols = append(symbols, prefix+unit)
		}
	}
	// Word boundary at the end so "10 mole" does not match "mol".
	return regexp.MustCompile(`[0-9]+\s*(` + strings.Join(symbols, "|") + `)\b`)
}

// Checker finds numbers and units that would benefit from siunitx.
type Checker struct{}

// New creates the siunitx checker.
func New() *Checker { return &Checker{} }

// Name returns the checker's display name.
func (c *Checker) Name() string { return "siunitx" }

// Check reports long numbers without \num and unit usages without \si.
func (c *Checker) Check(_ context.Context, doc *texfile.Document) ([]domain.Problem, error) {
	problems := c.findLongNumbers(doc)
	problems = append(problems, c.findUnits(doc)...)
	return problems, nil
}

func (c *Checker) findLongNumbers(doc *texfile.Document) []domain.Problem {
	var problems []domain.Problem
	for _, span := range numberRe.FindAllStringIndex(doc.Source(), -1) {
		number := doc.Source()[span[0]:span[1]]
		if len(number) <= longNumberThreshold {
			continue
		}
		problems = append(problems, domain.NewProblem(domain.ProblemInput{
			Position:    doc.PositionAt(span[0]),
			Length:      span[1] - span[0],
			Text:        number,
			Checker:     c.Name(),
			ProblemType: "num",
			Severity:    domain.SeverityInfo,
			Category:    "latex",
			Description: fmt.Sprintf("For number %s \\num from siunitx may be used.", number),
			Key:         c.Name() + "_" + number,
		}))
	}
	return problems
}

func (c *Checker) findUnits(doc *texfile.Document) []domain.Problem {
	var problems []domain.Problem
	for _, span := range unitRe.FindAllStringIndex(doc.Source(), -1) {
		usage := doc.Source()[span[0]:span[1]]
		problems = append(problems, domain.NewProblem(domain.ProblemInput{
			Position:    doc.PositionAt(span[0]),
			Length:      span[1] - span[0],
			Text:        usage,
			Checker:     c.Name(),
			ProblemType: "unit",
			Severity:    domain.SeverityInfo,
			Category:    "latex",
			Description: fmt.Sprintf("For unit %s siunitx may be used.", usage),
			Key:         c.Name() + "_" + usage,
		}))
	}
	return problems
}
