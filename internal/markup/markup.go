// Package markup renders user-written Markdown to safe HTML and strips markup
// from plain-text fields.
package markup

import (
	"bytes"
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var (
	md           goldmark.Markdown
	strictPolicy *bluemonday.Policy
	safePolicy   *bluemonday.Policy
	initOnce     sync.Once
)

func initRenderers() {
	initOnce.Do(func() {
		md = goldmark.New(
			goldmark.WithExtensions(extension.Linkify, extension.Strikethrough),
		)

		// strips everything
		strictPolicy = bluemonday.StrictPolicy()

		// basic formatting for ideas, comments and responses
		safePolicy = bluemonday.NewPolicy()
		safePolicy.AllowStandardURLs()
		safePolicy.AllowElements(
			"p", "br",
			"strong", "b", "em", "i", "del",
			"ul", "ol", "li",
			"code", "pre", "blockquote",
			"h1", "h2", "h3", "h4",
		)
		safePolicy.AllowAttrs("href").OnElements("a")
		safePolicy.RequireNoFollowOnLinks(true)
	})
}

// Render converts Markdown to sanitized HTML. Raw HTML in the input is
// dropped by goldmark; anything that still gets through is filtered by the
// safe policy.
func Render(src string) (string, error) {
	initRenderers()
	if strings.TrimSpace(src) == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return strings.TrimSpace(safePolicy.Sanitize(buf.String())), nil
}

// Plain strips all HTML from s and trims it. Entities are decoded so stored
// text reads the way it was typed.
func Plain(s string) string {
	initRenderers()
	return strings.TrimSpace(html.UnescapeString(strictPolicy.Sanitize(s)))
}
