package render

import "strings"

// emptyPlaceholder is rendered instead of empty markup when an answer carries
// no visible text at all.
const emptyPlaceholder = "Empty response"

// RenderedAnswer is the final form of one assistant answer: the sanitized
// visible HTML, the raw reasoning sections, and the collapsible reasoning
// block when any exist.
type RenderedAnswer struct {
	HTML          string   `json:"html"`
	ReasoningHTML string   `json:"reasoningHtml,omitempty"`
	Reasoning     []string `json:"-"`
}

// Answer re-parses a complete raw answer from scratch: reasoning markers are
// stripped via Extract (tolerating an unterminated start marker), then the
// visible text goes through the markdown compiler and the sanitizer. This
// final pass replaces whatever a viewer built incrementally during streaming,
// since partial markdown (an unfinished table or code fence) cannot be
// rendered safely mid-stream.
func Answer(raw string) RenderedAnswer {
	visible, reasoning := Extract(raw)

	out := RenderedAnswer{Reasoning: reasoning}
	if strings.TrimSpace(visible) == "" {
		out.HTML = Sanitize(MarkdownToHTML(emptyPlaceholder))
	} else {
		out.HTML = Sanitize(MarkdownToHTML(visible))
	}

	if len(reasoning) > 0 {
		var b strings.Builder
		b.WriteString(`<details class="reasoning"><summary>Show reasoning</summary>`)
		for _, section := range reasoning {
			b.WriteString(Sanitize(MarkdownToHTML(section)))
		}
		b.WriteString(`</details>`)
		out.ReasoningHTML = b.String()
	}

	return out
}
