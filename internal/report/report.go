// Package report orders the run's articles and renders them for the console
// and as a self-contained HTML document.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/deusflow/scidigest/internal/article"
	"github.com/deusflow/scidigest/internal/summary"
)

// Entry pairs an article with its summary result.
type Entry struct {
	Article article.Article
	Summary summary.Result
}

type Report struct {
	Window  article.Window
	Entries []Entry
	Digest  summary.Result
}

// Assemble sorts articles newest first. Ties keep input order.
// summaries[i] belongs to articles[i]; missing results count as unavailable.
func Assemble(articles []article.Article, summaries []summary.Result, digest summary.Result, window article.Window) *Report {
	entries := make([]Entry, len(articles))
	for i, a := range articles {
		res := summary.Result{Status: summary.StatusUnavailable}
		if i < len(summaries) {
			res = summaries[i]
		}
		entries[i] = Entry{Article: a, Summary: res}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Article.PublishedAt.After(entries[j].Article.PublishedAt)
	})

	return &Report{Window: window, Entries: entries, Digest: digest}
}

func (r *Report) Empty() bool {
	return len(r.Entries) == 0
}

// Articles returns the sorted articles.
func (r *Report) Articles() []article.Article {
	out := make([]article.Article, len(r.Entries))
	for i, e := range r.Entries {
		out[i] = e.Article
	}
	return out
}

// SummarizationSkipped is true when at least one summary or the digest could not be produced.
func (r *Report) SummarizationSkipped() bool {
	if r.Digest.Unavailable() {
		return true
	}
	for _, e := range r.Entries {
		if e.Summary.Unavailable() {
			return true
		}
	}
	return false
}

func (r *Report) noArticlesMessage() string {
	return fmt.Sprintf("No new articles found between %s and %s.",
		r.Window.Start.Format("2006-01-02"), r.Window.End.Format("2006-01-02"))
}

// Console renders the numbered, line-oriented listing.
func (r *Report) Console() string {
	var b strings.Builder

	if r.Empty() {
		b.WriteString(r.noArticlesMessage())
		b.WriteString("\n")
		return b.String()
	}

	fmt.Fprintf(&b, "--- Found a total of %d new articles (%s) ---\n", len(r.Entries), r.Window)

	for i, e := range r.Entries {
		a := e.Article
		fmt.Fprintf(&b, "\n%d. %s\n", i+1, a.Title)
		fmt.Fprintf(&b, "   Source: %s (%s)\n", a.Source, a.Date())
		fmt.Fprintf(&b, "   URL: %s\n", a.URL)
		if e.Summary.OK() && strings.TrimSpace(e.Summary.Text) != "" {
			b.WriteString("   Summary:\n")
			b.WriteString(indent(strings.TrimSpace(e.Summary.Text), "     "))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	switch {
	case r.Digest.OK():
		b.WriteString("=== Digest ===\n")
		b.WriteString(strings.TrimSpace(r.Digest.Text))
		b.WriteString("\n")
	case r.Digest.Unavailable():
		fmt.Fprintf(&b, "Summarization skipped (%s).\n", r.Digest.Status)
	case r.Digest.Status == summary.StatusNoContent:
		b.WriteString("No article summaries available for a digest.\n")
	}

	return b.String()
}

func indent(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		if strings.TrimSpace(l) == "" {
			lines[i] = ""
			continue
		}
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}
