package texfile_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kytta/LaTeXBuddy/internal/texfile"
)

func TestLineColumn(t *testing.T) {
	doc := texfile.FromSource("test.tex", "first line\nsecond line\nthird")

	tests := []struct {
		offset int
		line   int
		column int
	}{
		{0, 1, 1},
		{6, 1, 7},
		{11, 2, 1},
		{17, 2, 7},
		{23, 3, 1},
	}
	for _, tt := range tests {
		line, col := doc.LineColumn(tt.offset)
		assert.Equal(t, tt.line, line, "offset %d", tt.offset)
		assert.Equal(t, tt.column, col, "offset %d", tt.offset)
	}
}

func TestPlainStripsComments(t *testing.T) {
	doc := texfile.FromSource("test.tex", "kept % dropped\nalso kept")

	assert.Equal(t, "kept \nalso kept", doc.Plain())
}

func TestPlainKeepsEscapedPercent(t *testing.T) {
	doc := texfile.FromSource("test.tex", `50\% done`)

	assert.Equal(t, "50% done", doc.Plain())
}

func TestPlainStripsMathAndCommands(t *testing.T) {
	doc := texfile.FromSource("test.tex",
		`\section{Intro}\label{sec:intro} The value $x^2$ is \emph{large}.`)

	plain := doc.Plain()
	assert.NotContains(t, plain, "$")
	assert.NotContains(t, plain, "sec:intro")
	assert.Contains(t, plain, "Intro")
	assert.Contains(t, plain, "The value")
	assert.Contains(t, plain, "large")
}

func TestPlainPositionMapsBackToSource(t *testing.T) {
	source := "% comment\nhello \\emph{world}\n"
	doc := texfile.FromSource("test.tex", source)

	plain := doc.Plain()
	idx := strings.Index(plain, "world")
	require.GreaterOrEqual(t, idx, 0)

	pos := doc.PlainPosition(idx)
	require.NotNil(t, pos)
	assert.Equal(t, 2, pos.Line)
	// "world" starts after `hello \emph{` on line 2.
	assert.Equal(t, strings.Index(source, "world")-len("% comment\n")+1, pos.Column)
}

func TestPlainPositionOutOfRange(t *testing.T) {
	doc := texfile.FromSource("test.tex", "abc")

	assert.Nil(t, doc.PlainPosition(-1))
	assert.Nil(t, doc.PlainPosition(1000))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := texfile.Load(filepath.Join(t.TempDir(), "missing.tex"))
	assert.Error(t, err)
}

func TestExpandIncludes(t *testing.T) {
	dir := t.TempDir()
	child := filepath.Join(dir, "chapter.tex")
	require.NoError(t, os.WriteFile(child, []byte("chapter text"), 0o644))
	root := filepath.Join(dir, "main.tex")
	require.NoError(t, os.WriteFile(root,
		[]byte("\\include{chapter}\n\\input{missing}\n"), 0o644))

	paths, problems := texfile.ExpandIncludes(root)

	require.Len(t, paths, 2)
	assert.Equal(t, root, paths[0])
	assert.Equal(t, child, paths[1])

	require.Len(t, problems, 1)
	assert.Equal(t, "includes", problems[0].Checker)
	assert.Equal(t, "latex", problems[0].Category)
	assert.Contains(t, problems[0].Key, "includes_")
}
