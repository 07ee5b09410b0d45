package article

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// PlainText strips markup from feed HTML and collapses whitespace.
func PlainText(markup string) string {
	if !strings.ContainsAny(markup, "<&") {
		return strings.Join(strings.Fields(markup), " ")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return strings.Join(strings.Fields(markup), " ")
	}

	var parts []string
	for _, n := range doc.Nodes {
		collectText(n, &parts)
	}
	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}

func collectText(n *html.Node, parts *[]string) {
	if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
		return
	}
	if n.Type == html.TextNode {
		*parts = append(*parts, n.Data)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, parts)
	}
}

// Body returns the article's text for prompting: content blocks when the
// feed carried any, otherwise the feed summary.
func (a Article) Body() string {
	if len(a.Content) > 0 {
		blocks := make([]string, 0, len(a.Content))
		for _, c := range a.Content {
			if t := PlainText(c); t != "" {
				blocks = append(blocks, t)
			}
		}
		if len(blocks) > 0 {
			return strings.Join(blocks, "\n\n")
		}
	}
	return PlainText(a.Summary)
}
