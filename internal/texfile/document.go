// Package texfile provides the document value consumed by checker modules:
// the raw LaTeX source, a plain-text rendering for natural-language
// checkers, and the mapping from text offsets back to source positions.
package texfile

import (
	"fmt"
	"os"

	"github.com/kytta/LaTeXBuddy/internal/domain"
)

// Document is a read-only view of one LaTeX file. It is safe for
// concurrent use by checker modules.
type Document struct {
	path        string
	source      string
	lineOffsets []int
	plain       string
	plainMap    []int // plain byte offset -> source byte offset
}

// Load reads a LaTeX file from disk and prepares its plain-text rendering.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document %s: %w", path, err)
	}
	return FromSource(path, string(data)), nil
}

// FromSource builds a Document from in-memory LaTeX source.
func FromSource(path, source string) *Document {
	plain, plainMap := detex(source)
	return &Document{
		path:        path,
		source:      source,
		lineOffsets: lineOffsets(source),
		plain:       plain,
		plainMap:    plainMap,
	}
}

// Path returns the location of the underlying file.
func (d *Document) Path() string { return d.path }

// Source returns the raw LaTeX source.
func (d *Document) Source() string { return d.source }

// Plain returns the plain-text rendering of the source with comments,
// commands and math stripped.
func (d *Document) Plain() string { return d.plain }

// LineColumn converts an absolute 0-based byte offset in the raw source
// into a 1-based (line, column) pair.
func (d *Document) LineColumn(offset int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	line := 1
	for line < len(d.lineOffsets) && offset >= d.lineOffsets[line] {
		line++
	}
	return line, offset - d.lineOffsets[line-1] + 1
}

// PositionAt converts an absolute source offset into a Position.
func (d *Document) PositionAt(offset int) *domain.Position {
	line, col := d.LineColumn(offset)
	return &domain.Position{Line: line, Column: col}
}

// PlainPosition converts an offset into the plain-text rendering back into
// a source position. Returns nil when the offset cannot be mapped.
func (d *Document) PlainPosition(plainOffset int) *domain.Position {
	if plainOffset < 0 || plainOffset >= len(d.plainMap) {
		return nil
	}
	return d.PositionAt(d.plainMap[plainOffset])
}

// lineOffsets computes the byte offset of the start of every line.
// Index i holds the offset of line i+1; a trailing sentinel covers the
// final line.
func lineOffsets(text string) []int {
	offsets := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			offsets = append(offsets, i+1)
		}
	}
	offsets = append(offsets, len(text)+1)
	return offsets
}
