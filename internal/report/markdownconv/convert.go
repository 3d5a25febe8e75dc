package markdownconv

import (
	"bytes"
	"regexp"
	"strings"

	htmlmd "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Converter drives the round trip between stored/generated Markdown and the
// rich-text (HTML) editing surface. Both directions are stateless and safe
// to call concurrently; the editor debounces calls and the latest result
// wins. On conversion failure the output degrades to stripped plain text
// instead of returning an error, so the editor never blocks on a bad input.
type Converter struct {
	markdown goldmark.Markdown
	policy   *bluemonday.Policy
	toMD     *htmlmd.Converter
}

func New() *Converter {
	policy := bluemonday.NewPolicy()
	policy.AllowElements(
		"p", "br", "h1", "h2", "h3", "h4", "h5", "h6",
		"strong", "b", "em", "i", "u", "s", "del",
		"ul", "ol", "li", "blockquote",
	)
	policy.AllowAttrs("href").OnElements("a")
	policy.RequireNoFollowOnLinks(true)

	toMD := htmlmd.NewConverter("", true, &htmlmd.Options{
		StrongDelimiter:  "**",
		EmDelimiter:      "*",
		BulletListMarker: "-",
		HeadingStyle:     "atx",
	})

	return &Converter{
		markdown: goldmark.New(
			goldmark.WithExtensions(extension.Strikethrough, extension.Linkify),
		),
		policy: policy,
		toMD:   toMD,
	}
}

// MarkdownToRich renders Markdown as sanitized HTML for the editor.
func (c *Converter) MarkdownToRich(markdown string) string {
	var buf bytes.Buffer
	if err := c.markdown.Convert([]byte(markdown), &buf); err != nil {
		return "<p>" + stripMarkdown(markdown) + "</p>"
	}
	return c.policy.Sanitize(buf.String())
}

// RichToMarkdown converts editor HTML back to Markdown. The input is
// sanitized first so the converter only ever sees the supported subset.
func (c *Converter) RichToMarkdown(richText string) string {
	clean := c.policy.Sanitize(richText)
	out, err := c.toMD.ConvertString(clean)
	if err != nil {
		// Last resort: drop all markup, keep the text.
		return strings.TrimSpace(bluemonday.StrictPolicy().Sanitize(richText))
	}
	return strings.TrimSpace(out)
}

var markdownMarkup = regexp.MustCompile("[*_~`#>]+")

func stripMarkdown(markdown string) string {
	return strings.TrimSpace(markdownMarkup.ReplaceAllString(markdown, ""))
}
