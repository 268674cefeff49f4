package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Prompt is the complete text sent to a generation backend.
type Prompt struct {
	Kind      CommandKind
	Text      string
	MaxTokens int
}

// GeneratedArtifact is text produced for a command. It is shown to the user
// and may end up in a commit, stash or pull request, but is never stored by gai.
type GeneratedArtifact struct {
	Kind     CommandKind
	Text     string
	Provider ProviderKind
	Model    string
	Attempts int
}

// PRSummary is the title and body of a pull request description.
type PRSummary struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// ParsePRSummary decodes the JSON object a model returns for a pull request,
// tolerating a surrounding markdown code fence.
func ParsePRSummary(raw string) (PRSummary, error) {
	text := StripCodeFence(raw)
	if start := strings.Index(text, "{"); start > 0 {
		text = text[start:]
	}
	if end := strings.LastIndex(text, "}"); end >= 0 && end < len(text)-1 {
		text = text[:end+1]
	}

	var summary PRSummary
	if err := json.Unmarshal([]byte(text), &summary); err != nil {
		return PRSummary{}, fmt.Errorf("parse pull request summary: %w", err)
	}
	summary.Title = strings.TrimSpace(summary.Title)
	summary.Body = strings.TrimSpace(summary.Body)
	if summary.Title == "" {
		return PRSummary{}, fmt.Errorf("parse pull request summary: missing title")
	}
	return summary, nil
}

// Text renders the summary in the editable "title, blank line, body" layout.
func (s PRSummary) Text() string {
	if s.Body == "" {
		return s.Title
	}
	return s.Title + "\n\n" + s.Body
}

// PRSummaryFromText is the inverse of PRSummary.Text: the first line is the
// title and everything after it is the body.
func PRSummaryFromText(text string) PRSummary {
	text = strings.TrimSpace(text)
	title, body, _ := strings.Cut(text, "\n")
	return PRSummary{
		Title: strings.TrimSpace(title),
		Body:  strings.TrimSpace(body),
	}
}

// StripCodeFence removes one markdown fence wrapping the whole text, with an
// optional language tag.
func StripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") || !strings.HasSuffix(text, "```") || len(text) < 6 {
		return text
	}
	inner := text[3 : len(text)-3]
	if nl := strings.Index(inner, "\n"); nl >= 0 {
		tag := strings.TrimSpace(inner[:nl])
		if tag != "" && !strings.ContainsAny(tag, " \t") {
			inner = inner[nl+1:]
		}
	}
	return strings.TrimSpace(inner)
}
