// Package html renders check reports as standalone HTML pages.
package html

import (
	"context"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/kytta/LaTeXBuddy/internal/domain"
)

// Artifact is the material for one HTML report file.
type Artifact struct {
	OutputDir string
	Document  string
	Problems  []domain.Problem
}

var caser = cases.Title(language.English)

var reportTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"title": func(s string) string { return caser.String(s) },
	"join":  func(items []string) string { return strings.Join(items, ", ") },
	"position": func(p *domain.Position) string {
		if p == nil {
			return "general"
		}
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	},
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>LaTeXBuddy Report: {{.Document}}</title>
<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; width: 100%; }
th, td { border: 1px solid #ccc; padding: 0.4em 0.6em; text-align: left; }
.severity-error { color: #b00020; font-weight: bold; }
.severity-warning { color: #a06000; }
.severity-info { color: #206080; }
</style>
</head>
<body>
<h1>LaTeXBuddy Report</h1>
<p>Document: <code>{{.Document}}</code></p>
{{if .Problems}}
<table>
<tr><th>Position</th><th>Severity</th><th>Checker</th><th>Problem</th><th>Description</th><th>Suggestions</th></tr>
{{range .Problems}}
<tr>
<td>{{position .Position}}</td>
<td class="severity-{{.Severity}}">{{title .Severity.String}}</td>
<td>{{.Checker}}</td>
<td><code>{{.Text}}</code></td>
<td>{{.Description}}</td>
<td>{{join .Suggestions}}</td>
</tr>
{{end}}
</table>
{{else}}
<p>No problems found.</p>
{{end}}
</body>
</html>
`))

// Writer persists check reports as HTML files.
type Writer struct {
	now func() string
}

// NewWriter creates a new HTML writer with a timestamp supplier.
func NewWriter(now func() string) *Writer {
	return &Writer{now: now}
}

// Write renders the report and returns the file path.
func (w *Writer) Write(_ context.Context, artifact Artifact) (string, error) {
	if err := os.MkdirAll(artifact.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	filename := fmt.Sprintf("%s_%s.html", sanitise(artifact.Document), w.now())
	filePath := filepath.Join(artifact.OutputDir, filename)

	file, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create html file: %w", err)
	}
	defer file.Close()

	if err := reportTemplate.Execute(file, artifact); err != nil {
		return "", fmt.Errorf("failed to render html report: %w", err)
	}

	return filePath, nil
}

// sanitise turns a document path into a filename-safe fragment.
func sanitise(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '-'
		}
	}, base)
}
