package extract

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"golang.org/x/net/html"
)

// NoTitle is substituted when the document has no <title> element.
const NoTitle = "No title"

// ErrNoContent is returned when no readable content block can be selected.
var ErrNoContent = errors.New("no readable content found")

// Document is the extracted result of one page.
type Document struct {
	Title   string
	Content string // Markdown
	// Path records how the block was chosen: "article" or "largest-block".
	Path string
	// TextLength is the trimmed text length of the selected block.
	TextLength int
}

// FromHTML parses markup, selects the main content block, converts it to
// Markdown and reads the page title.
func FromHTML(markup string) (Document, error) {
	doc, err := Parse(markup)
	if err != nil {
		return Document{}, err
	}
	block, path, err := selectContent(doc)
	if err != nil {
		return Document{}, err
	}
	md, err := ToMarkdown(block)
	if err != nil {
		return Document{}, err
	}
	return Document{
		Title:      Title(doc),
		Content:    md,
		Path:       path,
		TextLength: TextLength(block),
	}, nil
}

// Parse builds a DOM tree from markup. Scripting is disabled so <noscript>
// children are parsed as elements rather than raw text.
func Parse(markup string) (*html.Node, error) {
	doc, err := html.ParseWithOptions(strings.NewReader(markup), html.ParseOptionEnableScripting(false))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return doc, nil
}

// SelectContent returns the element most likely to hold the page's main
// content.
//
// A non-empty <article> wins outright. Otherwise every <p> and <div> is
// scanned in document order and the one with the longest trimmed text is
// kept; on equal length the earlier element stays selected.
func SelectContent(doc *html.Node) (*html.Node, error) {
	n, _, err := selectContent(doc)
	return n, err
}

func selectContent(doc *html.Node) (*html.Node, string, error) {
	if article := findFirst(doc, "article"); article != nil && TextLength(article) > 0 {
		return article, "article", nil
	}

	var best *html.Node
	bestLen := 0
	walk(doc, func(n *html.Node) {
		if n.Type != html.ElementNode || (n.Data != "p" && n.Data != "div") {
			return
		}
		if l := TextLength(n); l > bestLen {
			best, bestLen = n, l
		}
	})
	if best == nil || bestLen == 0 {
		return nil, "", ErrNoContent
	}
	return best, "largest-block", nil
}

// Title returns the trimmed text of the first <title> element, or NoTitle
// when the document has none.
func Title(doc *html.Node) string {
	t := findFirst(doc, "title")
	if t == nil {
		return NoTitle
	}
	return strings.TrimSpace(Text(t))
}

// ToMarkdown renders n as outer HTML and converts it with the default
// html-to-markdown rules.
func ToMarkdown(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", fmt.Errorf("render html: %w", err)
	}
	md, err := htmltomarkdown.ConvertString(buf.String())
	if err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}
	return md, nil
}

// TextLength is the number of characters in the flattened text of n after
// trimming leading and trailing whitespace.
func TextLength(n *html.Node) int {
	return utf8.RuneCountInString(strings.TrimSpace(Text(n)))
}

// Text concatenates the text nodes under n. Script, style and template
// bodies and comments are not text.
func Text(n *html.Node) string {
	var b strings.Builder
	collectText(&b, n)
	return b.String()
}

func collectText(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
		return
	case html.CommentNode, html.DoctypeNode:
		return
	case html.ElementNode:
		switch n.Data {
		case "script", "style", "template":
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(b, c)
	}
}

func findFirst(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if res := findFirst(c, tag); res != nil {
			return res
		}
	}
	return nil
}

// walk visits n and its descendants in document order.
func walk(n *html.Node, fn func(*html.Node)) {
	fn(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}
