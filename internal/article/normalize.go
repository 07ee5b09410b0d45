package article

import (
	"strings"
	"time"

	"github.com/deusflow/scidigest/internal/rss"
)

// NormalizeAndFilter maps entries to articles, keeping those whose timestamp
// lands inside w. Published wins over Updated; entries with neither are
// dropped without error. Output order follows input order.
func NormalizeAndFilter(entries []rss.Entry, w Window) []Article {
	articles := make([]Article, 0, len(entries))
	for _, e := range entries {
		ts, ok := resolveTimestamp(e)
		if !ok || !w.Contains(ts) {
			continue
		}
		articles = append(articles, fromEntry(e, ts.In(w.location())))
	}
	return articles
}

func resolveTimestamp(e rss.Entry) (time.Time, bool) {
	if e.Published != nil && !e.Published.IsZero() {
		return *e.Published, true
	}
	if e.Updated != nil && !e.Updated.IsZero() {
		return *e.Updated, true
	}
	return time.Time{}, false
}

func fromEntry(e rss.Entry, published time.Time) Article {
	return Article{
		Title:       orDefault(e.Title, NoTitle),
		URL:         orDefault(e.Link, NoLink),
		Source:      orDefault(e.Source, UnknownSource),
		Summary:     orDefault(e.Summary, NoSummary),
		PublishedAt: published,
		Content:     nonEmpty(e.Content),
		Keywords:    keywordSet(e.Tags),
	}
}

func orDefault(value, fallback string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return fallback
}

func nonEmpty(blocks []string) []string {
	out := make([]string, 0, len(blocks))
	for _, b := range blocks {
		if strings.TrimSpace(b) != "" {
			out = append(out, b)
		}
	}
	return out
}

// keywordSet drops blanks and repeats, keeping first-seen order.
func keywordSet(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
