package report

import (
	"errors"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deusflow/scidigest/internal/article"
	"github.com/deusflow/scidigest/internal/summary"
)

func window(t *testing.T) article.Window {
	t.Helper()
	w, err := article.NewWindow(
		time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC),
		time.UTC,
	)
	require.NoError(t, err)
	return w
}

func art(title string, day, hour int) article.Article {
	return article.Article{
		Title:       title,
		URL:         "https://ex.com/" + title,
		Source:      "Nature",
		PublishedAt: time.Date(2024, 5, day, hour, 0, 0, 0, time.UTC),
	}
}

func okResult(text string) summary.Result {
	return summary.Result{Text: text, Status: summary.StatusOK}
}

func TestAssemble_SortsNewestFirstStable(t *testing.T) {
	articles := []article.Article{
		art("old", 2, 9),
		art("tie-first", 10, 12),
		art("newest", 14, 8),
		art("tie-second", 10, 12),
	}

	r := Assemble(articles, nil, summary.Result{}, window(t))

	var titles []string
	for _, a := range r.Articles() {
		titles = append(titles, a.Title)
	}
	assert.Equal(t, []string{"newest", "tie-first", "tie-second", "old"}, titles)
}

func TestAssemble_NonIncreasingForRandomInput(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	var articles []article.Article
	for i := 0; i < 200; i++ {
		articles = append(articles, art("a", 1+rng.Intn(14), rng.Intn(24)))
	}

	sorted := Assemble(articles, nil, summary.Result{}, window(t)).Articles()

	require.Len(t, sorted, len(articles))
	for i := 1; i < len(sorted); i++ {
		assert.False(t, sorted[i].PublishedAt.After(sorted[i-1].PublishedAt), "position %d", i)
	}
}

func TestAssemble_SummariesFollowTheirArticles(t *testing.T) {
	articles := []article.Article{art("older", 3, 0), art("newer", 12, 0)}
	summaries := []summary.Result{okResult("about older"), okResult("about newer")}

	r := Assemble(articles, summaries, summary.Result{}, window(t))

	require.Len(t, r.Entries, 2)
	assert.Equal(t, "newer", r.Entries[0].Article.Title)
	assert.Equal(t, "about newer", r.Entries[0].Summary.Text)
	assert.Equal(t, "about older", r.Entries[1].Summary.Text)
}

func TestConsole_Listing(t *testing.T) {
	articles := []article.Article{art("Gut microbiome atlas", 10, 9), art("Fusion milestone", 12, 9)}
	summaries := []summary.Result{okResult("A resource paper."), okResult("A news item.\nWith two lines.")}
	digest := okResult("Two themes: [[1]](https://ex.com/Fusion milestone).")

	out := Assemble(articles, summaries, digest, window(t)).Console()

	assert.Contains(t, out, "--- Found a total of 2 new articles (2024-05-01 to 2024-05-15) ---")
	assert.Contains(t, out, "1. Fusion milestone\n   Source: Nature (2024-05-12)\n   URL: https://ex.com/Fusion milestone\n")
	assert.Contains(t, out, "2. Gut microbiome atlas\n   Source: Nature (2024-05-10)")
	assert.Contains(t, out, "     A news item.\n     With two lines.")
	assert.Contains(t, out, "=== Digest ===\nTwo themes:")
	assert.Less(t, strings.Index(out, "Fusion milestone"), strings.Index(out, "Gut microbiome atlas"))
}

func TestConsole_SummarizationSkipped(t *testing.T) {
	articles := []article.Article{art("Title only", 10, 9)}
	summaries := []summary.Result{{Status: summary.StatusUnavailable, Err: summary.ErrUnavailable}}
	digest := summary.Result{Status: summary.StatusUnavailable, Err: summary.ErrUnavailable}

	r := Assemble(articles, summaries, digest, window(t))
	out := r.Console()

	assert.True(t, r.SummarizationSkipped())
	assert.Contains(t, out, "1. Title only")
	assert.Contains(t, out, "URL: https://ex.com/Title only")
	assert.NotContains(t, out, "Summary:")
	assert.Contains(t, out, "Summarization skipped (unavailable).")
}

func TestConsole_DigestFailedAndNoContent(t *testing.T) {
	articles := []article.Article{art("x", 10, 9)}

	failed := Assemble(articles, nil, summary.Result{Status: summary.StatusFailed, Err: errors.New("timeout")}, window(t))
	assert.Contains(t, failed.Console(), "Summarization skipped (failed).")

	empty := Assemble(articles, nil, summary.Result{Status: summary.StatusNoContent}, window(t))
	assert.Contains(t, empty.Console(), "No article summaries available for a digest.")
}

func TestEmptyReport(t *testing.T) {
	r := Assemble(nil, nil, summary.Result{Status: summary.StatusNoContent}, window(t))

	require.True(t, r.Empty())
	out := r.Console()
	assert.NotEmpty(t, out)
	assert.Equal(t, "No new articles found between 2024-05-01 and 2024-05-15.\n", out)

	page, err := r.HTML(600)
	require.NoError(t, err)
	assert.Contains(t, page, "No new articles found between 2024-05-01 and 2024-05-15.")
	assert.NotContains(t, page, "<ol>")
}
