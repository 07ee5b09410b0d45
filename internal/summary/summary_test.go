package summary

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deusflow/scidigest/internal/article"
	"github.com/deusflow/scidigest/internal/logger"
	"github.com/deusflow/scidigest/internal/metrics"
	"github.com/deusflow/scidigest/internal/prompt"
)

type fakeGenerator struct {
	mu      sync.Mutex
	prompts []string
	reply   func(prompt string) (string, error)
}

func (f *fakeGenerator) Generate(_ context.Context, p string) (string, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, p)
	f.mu.Unlock()
	if f.reply == nil {
		return "summary", nil
	}
	return f.reply(p)
}

func (f *fakeGenerator) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

func newArticle(title string) article.Article {
	return article.Article{
		Title:       title,
		URL:         "https://ex.com/" + title,
		Source:      "Nature",
		Summary:     "About " + title,
		PublishedAt: time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC),
	}
}

func TestSummarizeArticle_ReturnsTextVerbatim(t *testing.T) {
	gen := &fakeGenerator{reply: func(string) (string, error) { return "  **Type:** research\n", nil }}
	c := New(gen, Options{Logger: logger.Discard()})

	a := newArticle("alpha")
	res := c.SummarizeArticle(context.Background(), a)

	require.True(t, res.OK())
	assert.Equal(t, "  **Type:** research\n", res.Text)
	require.Equal(t, 1, gen.calls())
	assert.Equal(t, prompt.Article(a), gen.prompts[0])
}

func TestSummarizeArticle_EmptyTextIsStillOK(t *testing.T) {
	gen := &fakeGenerator{reply: func(string) (string, error) { return "", nil }}
	c := New(gen, Options{Logger: logger.Discard()})

	res := c.SummarizeArticle(context.Background(), newArticle("alpha"))
	assert.Equal(t, StatusOK, res.Status)
	assert.False(t, res.Unavailable())
	assert.Empty(t, res.Text)
}

func TestSummarizeArticle_BackendFailure(t *testing.T) {
	boom := errors.New("503 from backend")
	gen := &fakeGenerator{reply: func(string) (string, error) { return "", boom }}
	m := metrics.New()
	c := New(gen, Options{Logger: logger.Discard(), Metrics: m})

	res := c.SummarizeArticle(context.Background(), newArticle("alpha"))

	assert.Equal(t, StatusFailed, res.Status)
	assert.True(t, res.Unavailable())
	assert.ErrorIs(t, res.Err, boom)
	assert.Equal(t, int64(1), m.SummariesFailed)
}

func TestDisabledClient(t *testing.T) {
	m := metrics.New()
	c := New(nil, Options{Logger: logger.Discard(), Metrics: m})
	assert.False(t, c.Enabled())

	res := c.SummarizeArticle(context.Background(), newArticle("alpha"))
	assert.Equal(t, StatusUnavailable, res.Status)
	assert.ErrorIs(t, res.Err, ErrUnavailable)

	digest := c.SummarizeCollection(context.Background(), []string{"x"})
	assert.Equal(t, StatusUnavailable, digest.Status)
	assert.Equal(t, StatusUnavailable, c.SummarizeCollection(context.Background(), nil).Status)

	all := c.SummarizeAll(context.Background(), []article.Article{newArticle("a"), newArticle("b")})
	require.Len(t, all, 2)
	for _, r := range all {
		assert.True(t, r.Unavailable())
	}
	assert.Equal(t, int64(3), m.SummariesSkipped)
}

func TestSummarizeCollection(t *testing.T) {
	gen := &fakeGenerator{reply: func(string) (string, error) { return "Themes: [[1]](https://ex.com/a)", nil }}
	c := New(gen, Options{Logger: logger.Discard()})

	res := c.SummarizeCollection(context.Background(), []string{"one", "two"})

	require.True(t, res.OK())
	assert.Equal(t, "Themes: [[1]](https://ex.com/a)", res.Text)
	require.Equal(t, 1, gen.calls())
	assert.Contains(t, gen.prompts[0], "one\n\n\ntwo")
}

func TestSummarizeCollection_NoContentIsDistinct(t *testing.T) {
	gen := &fakeGenerator{}
	c := New(gen, Options{Logger: logger.Discard()})

	res := c.SummarizeCollection(context.Background(), nil)

	assert.Equal(t, StatusNoContent, res.Status)
	assert.False(t, res.Unavailable())
	assert.False(t, res.OK())
	assert.Zero(t, gen.calls())
}

func TestSummarizeAll_KeepsOrderUnderConcurrency(t *testing.T) {
	var inFlight, peak int32
	gen := &fakeGenerator{reply: func(p string) (string, error) {
		n := atomic.AddInt32(&inFlight, 1)
		for {
			old := atomic.LoadInt32(&peak)
			if n <= old || atomic.CompareAndSwapInt32(&peak, old, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		atomic.AddInt32(&inFlight, -1)
		for _, line := range strings.Split(p, "\n") {
			if strings.HasPrefix(line, "Title: ") {
				return "summary of " + strings.TrimPrefix(line, "Title: "), nil
			}
		}
		return "", nil
	}}
	c := New(gen, Options{Logger: logger.Discard(), Concurrency: 3})

	articles := []article.Article{newArticle("a"), newArticle("b"), newArticle("c"), newArticle("d"), newArticle("e")}
	results := c.SummarizeAll(context.Background(), articles)

	require.Len(t, results, len(articles))
	for i, a := range articles {
		assert.Equal(t, "summary of "+a.Title, results[i].Text)
	}
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(3))
}

func TestSummarizeAll_DuplicateArticleSummarizedOnce(t *testing.T) {
	gen := &fakeGenerator{}
	c := New(gen, Options{Logger: logger.Discard()})

	a := newArticle("same")
	results := c.SummarizeAll(context.Background(), []article.Article{a, a})

	require.Len(t, results, 2)
	assert.True(t, results[0].OK())
	assert.True(t, results[1].OK())
	assert.Equal(t, 1, gen.calls())
}

func TestConnect_NoKeyDisablesSummarization(t *testing.T) {
	gen, closeFn := Connect(context.Background(), "", "", logger.Discard())
	defer closeFn()

	assert.Nil(t, gen)
	assert.False(t, New(gen, Options{}).Enabled())
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "unavailable", StatusUnavailable.String())
	assert.Equal(t, "no content", StatusNoContent.String())
}
