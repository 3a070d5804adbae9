// Package console prints a colored check summary to a terminal.
package console

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/kytta/LaTeXBuddy/internal/domain"
)

// Writer renders problems and a severity summary to a stream.
type Writer struct {
	out     io.Writer
	colored bool
}

// NewWriter creates a console writer. Coloring should be enabled only
// when the stream is a terminal.
func NewWriter(out io.Writer, colored bool) *Writer {
	return &Writer{out: out, colored: colored}
}

// Write prints every problem followed by a severity summary.
func (w *Writer) Write(document string, problems []domain.Problem) error {
	if _, err := fmt.Fprintf(w.out, "%s\n", document); err != nil {
		return err
	}

	if len(problems) == 0 {
		if _, err := fmt.Fprintln(w.out, "  no problems found"); err != nil {
			return err
		}
		return nil
	}

	counts := map[domain.Severity]int{}
	for _, p := range problems {
		counts[p.Severity]++
		if _, err := fmt.Fprintf(w.out, "  %s %s %s: %s\n",
			w.paintSeverity(p.Severity), positionString(p), p.Checker, w.describe(p)); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w.out, "\n%d problems (%d errors, %d warnings, %d info)\n",
		len(problems),
		counts[domain.SeverityError],
		counts[domain.SeverityWarning],
		counts[domain.SeverityInfo],
	)
	return err
}

func (w *Writer) describe(p domain.Problem) string {
	if p.Description != "" {
		return p.Description
	}
	return p.Text
}

func (w *Writer) paintSeverity(s domain.Severity) string {
	label := fmt.Sprintf("%-7s", s.String())
	if !w.colored {
		return label
	}
	switch s {
	case domain.SeverityError:
		return color.New(color.FgRed, color.Bold).Sprint(label)
	case domain.SeverityWarning:
		return color.New(color.FgYellow).Sprint(label)
	case domain.SeverityInfo:
		return color.New(color.FgCyan).Sprint(label)
	default:
		return label
	}
}

func positionString(p domain.Problem) string {
	if p.Position == nil {
		return "-:-"
	}
	return fmt.Sprintf("%d:%d", p.Position.Line, p.Position.Column)
}
