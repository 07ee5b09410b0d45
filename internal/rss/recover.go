package rss

import (
	"bytes"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

var cdataPattern = regexp.MustCompile(`(?s)<!\[CDATA\[(.*?)\]\]>`)

// Layouts seen in the wild for RSS pubDate and Atom published/updated.
var dateLayouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"Mon, 2 Jan 2006 15:04:05 MST",
	"2 Jan 2006 15:04:05 -0700",
	time.RFC822Z,
	time.RFC822,
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// recoverEntries pulls items out of markup that gofeed rejected. The HTML
// parser accepts unbalanced or truncated documents, so anything that still
// looks like an <item> or <entry> is kept.
func recoverEntries(body []byte, sourceName string) []Entry {
	cleaned := cdataPattern.ReplaceAll(body, []byte("$1"))
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(cleaned))
	if err != nil {
		return nil
	}

	var entries []Entry
	doc.Find("item, entry").Each(func(_ int, s *goquery.Selection) {
		e := Entry{
			Title:     childText(s, "title"),
			Link:      recoverLink(s),
			Summary:   childText(s, "description, summary"),
			Source:    sourceName,
			Published: parseDate(childText(s, "pubdate, published")),
			Updated:   parseDate(childText(s, "updated")),
		}
		if c := childText(s, "content"); c != "" {
			e.Content = []string{c}
		}
		s.Find("category").Each(func(_ int, c *goquery.Selection) {
			tag := strings.TrimSpace(c.Text())
			if tag == "" {
				tag, _ = c.Attr("term")
			}
			if tag != "" {
				e.Tags = append(e.Tags, tag)
			}
		})
		entries = append(entries, e)
	})
	return entries
}

func childText(s *goquery.Selection, selector string) string {
	return strings.TrimSpace(s.Find(selector).First().Text())
}

// recoverLink handles both Atom (<link href>) and RSS (<link>url</link>).
// The HTML parser treats <link> as a void element, so the RSS URL ends up
// as the text node right after it.
func recoverLink(s *goquery.Selection) string {
	var link *goquery.Selection
	s.Find("link").EachWithBreak(func(_ int, l *goquery.Selection) bool {
		rel, _ := l.Attr("rel")
		if rel == "" || rel == "alternate" {
			link = l
			return false
		}
		return true
	})
	if link == nil || link.Length() == 0 {
		return ""
	}

	if href, ok := link.Attr("href"); ok && strings.TrimSpace(href) != "" {
		return strings.TrimSpace(href)
	}
	if t := strings.TrimSpace(link.Text()); t != "" {
		return t
	}
	for n := link.Get(0).NextSibling; n != nil; n = n.NextSibling {
		if n.Type != html.TextNode {
			break
		}
		if t := strings.TrimSpace(n.Data); t != "" {
			return t
		}
	}
	return ""
}

func parseDate(value string) *time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return &t
		}
	}
	return nil
}
