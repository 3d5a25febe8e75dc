package markdownconv

import (
	"strings"
	"testing"
)

func TestMarkdownToRichBasics(t *testing.T) {
	c := New()
	got := c.MarkdownToRich("**bold** and *italic* text\n\n- item one\n- item two")

	for _, want := range []string{"<strong>bold</strong>", "<em>italic</em>", "<li>item one</li>", "<li>item two</li>"} {
		if !strings.Contains(got, want) {
			t.Errorf("rich output missing %q:\n%s", want, got)
		}
	}
}

func TestMarkdownToRichStripsUnsafeHTML(t *testing.T) {
	c := New()
	got := c.MarkdownToRich("hello <script>alert(1)</script> world")
	if strings.Contains(got, "<script") {
		t.Fatalf("script tag survived sanitizing:\n%s", got)
	}
	if !strings.Contains(got, "hello") || !strings.Contains(got, "world") {
		t.Fatalf("text content lost:\n%s", got)
	}
}

func TestRoundTripPreservesContent(t *testing.T) {
	c := New()
	source := "**bold** and *italic* text\n\n- item one\n- item two"

	rich := c.MarkdownToRich(source)
	back := c.RichToMarkdown(rich)

	for _, want := range []string{"**bold**", "*italic*", "- item one", "- item two"} {
		if !strings.Contains(back, want) {
			t.Errorf("round trip lost %q:\n%s", want, back)
		}
	}
	// List order must survive.
	if strings.Index(back, "item one") > strings.Index(back, "item two") {
		t.Fatalf("list order changed:\n%s", back)
	}
}

func TestRoundTripHeadingsAndLinks(t *testing.T) {
	c := New()
	source := "## Observations\n\nSee [the protocol](https://example.com/protocol) for details."

	rich := c.MarkdownToRich(source)
	back := c.RichToMarkdown(rich)

	if !strings.Contains(back, "Observations") {
		t.Fatalf("heading text lost:\n%s", back)
	}
	if !strings.Contains(back, "https://example.com/protocol") {
		t.Fatalf("link target lost:\n%s", back)
	}
}

func TestRichToMarkdownPlainParagraph(t *testing.T) {
	c := New()
	got := c.RichToMarkdown("<p>Client stayed engaged for the whole session.</p>")
	if got != "Client stayed engaged for the whole session." {
		t.Fatalf("got %q", got)
	}
}
