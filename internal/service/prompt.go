package service

import (
	"fmt"
	"strings"

	"page-assistant/backend/internal/model"
)

const (
	systemPrompt = "You are a helpful assistant for summarizing web content."

	maxSelectionChars   = 4000
	maxContextChars     = 8000
	maxPageContentChars = 12000
)

// prompt is one constructed user turn: the full text sent to the model and
// the short line shown to the user instead.
type prompt struct {
	content     string
	displayText string
}

// buildPrompt turns a menu action into the user turn. Selection questions get
// the truncated selection plus surrounding page text; page questions get the
// truncated page text alone.
func buildPrompt(req *AskRequest) prompt {
	title := req.PageTitle
	if title == "" {
		title = "Untitled"
	}

	if req.Source == model.SourceSelection {
		selection := truncate(strings.TrimSpace(req.Selection), maxSelectionChars)
		text := truncate(req.PageText, maxContextChars)
		return prompt{
			displayText: fmt.Sprintf("Asking about selection on %s", req.PageURL),
			content: fmt.Sprintf(
				"Provide a concise explanation for the following selection using the surrounding page context and include a short actionable insight if relevant.\n\nPage URL: %s\nPage Title: %s\nPage text snippet:\n%s\n\nSelection:\n%s",
				req.PageURL, title, text, selection,
			),
		}
	}

	text := truncate(req.PageText, maxPageContentChars)
	return prompt{
		displayText: fmt.Sprintf("Summarizing page %s", req.PageURL),
		content: fmt.Sprintf(
			"Provide a brief summary of this page and list the top 3 takeaways.\n\nURL: %s\nTitle: %s\nContent:\n%s",
			req.PageURL, title, text,
		),
	}
}

// truncate shortens a string to a specified number of runes.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
