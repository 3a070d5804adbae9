// Package languagetool checks the plain-text rendering of a document
// against a LanguageTool server's /v2/check endpoint.
package languagetool

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kytta/LaTeXBuddy/internal/domain"
	"github.com/kytta/LaTeXBuddy/internal/texfile"
)

const (
	defaultBaseURL = "http://localhost:8081"
	defaultTimeout = 30 * time.Second
)

// checkResponse mirrors the LanguageTool /v2/check JSON payload.
type checkResponse struct {
	Matches []match `json:"matches"`
}

type match struct {
	Message      string        `json:"message"`
	ShortMessage string        `json:"shortMessage"`
	Offset       int           `json:"offset"`
	Length       int           `json:"length"`
	Replacements []replacement `json:"replacements"`
	Rule         rule          `json:"rule"`
	Context      matchContext  `json:"context"`
}

type replacement struct {
	Value string `json:"value"`
}

type rule struct {
	ID        string `json:"id"`
	IssueType string `json:"issueType"`
}

type matchContext struct {
	Text   string `json:"text"`
	Offset int    `json:"offset"`
	Length int    `json:"length"`
}

// Checker queries a LanguageTool backend for grammar and spelling issues.
type Checker struct {
	lang    string
	baseURL string
	retry   RetryConfig
	client  *http.Client
}

// New creates a LanguageTool checker for the given language.
func New(lang string) *Checker {
	return &Checker{
		lang:    lang,
		baseURL: defaultBaseURL,
		retry:   DefaultRetryConfig(),
		client:  &http.Client{Timeout: defaultTimeout},
	}
}

// SetBaseURL sets a custom server URL (for testing and remote backends).
func (c *Checker) SetBaseURL(url string) {
	c.baseURL = strings.TrimSuffix(url, "/")
}

// Name returns the checker's display name.
func (c *Checker) Name() string { return "languagetool" }

// Check posts the plain-text rendering to the backend and maps match
// offsets back to source positions. Transient backend failures are
// retried with exponential backoff before the module degrades.
func (c *Checker) Check(ctx context.Context, doc *texfile.Document) ([]domain.Problem, error) {
	form := url.Values{}
	form.Set("text", doc.Plain())
	form.Set("language", c.lang)
	body := form.Encode()

	endpoint := c.baseURL + "/v2/check"

	var parsed checkResponse
	err := retryWithBackoff(ctx, func(ctx context.Context) error {
		req, reqErr := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(body))
		if reqErr != nil {
			return &apiError{Message: reqErr.Error(), Retryable: false}
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		resp, callErr := c.client.Do(req)
		if callErr != nil {
			return &apiError{Message: callErr.Error(), Retryable: true}
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 400 {
			respBody, _ := io.ReadAll(resp.Body)
			return &apiError{
				StatusCode: resp.StatusCode,
				Message:    strings.TrimSpace(string(respBody)),
				Retryable:  resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500,
			}
		}

		parsed = checkResponse{}
		if decodeErr := json.NewDecoder(resp.Body).Decode(&parsed); decodeErr != nil {
			return &apiError{Message: fmt.Sprintf("parse response: %v", decodeErr), Retryable: false}
		}
		return nil
	}, c.retry)
	if err != nil {
		return nil, err
	}

	return c.convertMatches(doc, parsed.Matches), nil
}

func (c *Checker) convertMatches(doc *texfile.Document, matches []match) []domain.Problem {
	plain := doc.Plain()
	offsets := runeOffsets(plain)

	var problems []domain.Problem
	for _, m := range matches {
		start, end, ok := byteSpan(offsets, m.Offset, m.Length)
		if !ok || start == end {
			continue
		}
		text := plain[start:end]

		var suggestions []string
		for _, r := range m.Replacements {
			suggestions = append(suggestions, r.Value)
		}

		input := domain.ProblemInput{
			Position:    doc.PlainPosition(start),
			Length:      end - start,
			Text:        text,
			Checker:     c.Name(),
			ProblemType: m.Rule.ID,
			Severity:    domain.SeverityWarning,
			Category:    "grammar",
			Description: m.Message,
			Context:     surroundingContext(m),
			Suggestions: suggestions,
		}
		if m.Rule.IssueType == "misspelling" {
			input.Category = "spelling"
			input.Key = domain.SpellingKey(c.lang, text)
		}
		problems = append(problems, domain.NewProblem(input))
	}
	return problems
}

// runeOffsets returns the byte offset of each rune in s plus a trailing
// sentinel. The backend reports spans in characters; the table converts
// them to byte spans for slicing and position mapping.
func runeOffsets(s string) []int {
	offsets := make([]int, 0, len(s)+1)
	for i := range s {
		offsets = append(offsets, i)
	}
	return append(offsets, len(s))
}

// byteSpan converts a character span into byte offsets, guarding against
// out-of-range values from the backend.
func byteSpan(offsets []int, start, length int) (int, int, bool) {
	if start < 0 || length < 0 || start+length > len(offsets)-1 {
		return 0, 0, false
	}
	return offsets[start], offsets[start+length], true
}

// surroundingContext splits the backend's context snippet around the
// flagged span.
func surroundingContext(m match) domain.Context {
	ctx := m.Context
	start, end, ok := byteSpan(runeOffsets(ctx.Text), ctx.Offset, ctx.Length)
	if !ok {
		return domain.Context{}
	}
	return domain.Context{
		Before: ctx.Text[:start],
		After:  ctx.Text[end:],
	}
}
