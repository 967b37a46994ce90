package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnswer(t *testing.T) {
	t.Run("Markdown is compiled and sanitized", func(t *testing.T) {
		out := Answer("**bold** and a [link](https://example.com)")

		assert.Contains(t, out.HTML, "<strong>bold</strong>")
		assert.Contains(t, out.HTML, `href="https://example.com"`)
		assert.Empty(t, out.ReasoningHTML)
	})

	t.Run("Reasoning is split into a collapsible block", func(t *testing.T) {
		out := Answer("<think>step one</think>The answer is 4.")

		assert.Contains(t, out.HTML, "The answer is 4.")
		assert.NotContains(t, out.HTML, "step one")

		require.NotEmpty(t, out.ReasoningHTML)
		assert.Contains(t, out.ReasoningHTML, `<details class="reasoning">`)
		assert.Contains(t, out.ReasoningHTML, "<summary>Show reasoning</summary>")
		assert.Contains(t, out.ReasoningHTML, "step one")
		assert.Equal(t, []string{"step one"}, out.Reasoning)
	})

	t.Run("Reasoning-only answer shows the placeholder", func(t *testing.T) {
		out := Answer("<think>nothing visible here</think>")

		assert.Contains(t, out.HTML, "Empty response")
		assert.Contains(t, out.ReasoningHTML, "nothing visible here")
	})

	t.Run("Empty answer shows the placeholder", func(t *testing.T) {
		out := Answer("   \n  ")
		assert.Contains(t, out.HTML, "Empty response")
	})
}

func TestSanitize(t *testing.T) {
	t.Run("Script tags do not survive", func(t *testing.T) {
		out := Sanitize(`<p>ok</p><script>alert("xss")</script>`)

		assert.Contains(t, out, "<p>ok</p>")
		assert.NotContains(t, out, "<script>")
	})

	t.Run("Disallowed tags are unwrapped, children kept", func(t *testing.T) {
		out := Sanitize(`<p><span data-x="1">inner text</span></p>`)

		assert.NotContains(t, out, "<span")
		assert.Contains(t, out, "inner text")
	})

	t.Run("Unsafe URL schemes are dropped", func(t *testing.T) {
		out := Sanitize(`<a href="javascript:alert(1)">click</a>`)

		assert.NotContains(t, out, "javascript:")
		assert.Contains(t, out, "click")
	})

	t.Run("Event handler attributes are dropped", func(t *testing.T) {
		out := Sanitize(`<img src="https://example.com/a.png" onerror="alert(1)">`)

		assert.Contains(t, out, `src="https://example.com/a.png"`)
		assert.NotContains(t, out, "onerror")
	})

	t.Run("Details block with class survives", func(t *testing.T) {
		out := Sanitize(`<details class="reasoning"><summary>Show reasoning</summary><p>x</p></details>`)
		assert.Equal(t, `<details class="reasoning"><summary>Show reasoning</summary><p>x</p></details>`, out)
	})
}

func TestMarkdownToHTML(t *testing.T) {
	t.Run("GFM tables are supported", func(t *testing.T) {
		out := MarkdownToHTML("| a | b |\n|---|---|\n| 1 | 2 |")
		assert.Contains(t, out, "<table>")
	})

	t.Run("Code fences keep their content", func(t *testing.T) {
		out := MarkdownToHTML("```\nfmt.Println(1)\n```")
		assert.Contains(t, out, "<pre>")
		assert.Contains(t, out, "fmt.Println(1)")
	})
}
