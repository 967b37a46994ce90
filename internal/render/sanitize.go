package render

import "github.com/microcosm-cc/bluemonday"

// policy is the allow-list applied to every rendered answer. Tags outside the
// list are unwrapped rather than dropped: the tag goes away, its children
// stay. Link and image URLs are limited to http(s), mailto, fragments and
// relative paths.
var policy = newPolicy()

func newPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements(
		"p", "br", "hr",
		"h1", "h2", "h3", "h4", "h5", "h6",
		"ul", "ol", "li",
		"strong", "em", "del", "code", "pre",
		"blockquote",
		"table", "thead", "tbody", "tr", "th", "td",
		"a", "img",
		"details", "summary",
	)
	p.AllowAttrs("href").OnElements("a")
	p.AllowAttrs("src", "alt").OnElements("img")
	p.AllowAttrs("class").OnElements("details")
	p.AllowURLSchemes("http", "https", "mailto")
	p.AllowRelativeURLs(true)
	p.RequireParseableURLs(true)
	return p
}

// Sanitize reduces arbitrary HTML to the allow-list above.
func Sanitize(html string) string {
	return policy.Sanitize(html)
}
