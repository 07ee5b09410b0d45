package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deusflow/scidigest/internal/article"
	"github.com/deusflow/scidigest/internal/summary"
)

func TestWrapHTML(t *testing.T) {
	page := WrapHTML("<p>hello</p>", 640)

	assert.Contains(t, page, "max-width: 640px; margin: 0 auto; font-family: Arial, sans-serif; font-size: 16px; line-height: 1.6;")
	assert.Contains(t, page, "<p>hello</p>")
	assert.True(t, strings.HasPrefix(strings.TrimSpace(page), "<html>"))

	assert.Contains(t, WrapHTML("", 0), "max-width: 700px")
}

func TestHTML_Report(t *testing.T) {
	articles := []article.Article{art("Protein <folding>", 11, 0)}
	summaries := []summary.Result{okResult("**Type:** research article.\n\nSecond paragraph.")}
	digest := okResult("Folding dominates [[1]](https://ex.com/p1) this week.")

	page, err := Assemble(articles, summaries, digest, window(t)).HTML(700)
	require.NoError(t, err)

	assert.Contains(t, page, `<a href="https://ex.com/p1">[1]</a>`)
	assert.Contains(t, page, "Protein &lt;folding&gt;")
	assert.Contains(t, page, "<strong>Type:</strong> research article.")
	assert.Contains(t, page, "<p>Second paragraph.</p>")
	assert.Contains(t, page, "Nature (2024-05-11)")
	assert.Contains(t, page, "<h2>Themes</h2>")
}

func TestHTML_NoDigestSection(t *testing.T) {
	page, err := Assemble([]article.Article{art("x", 11, 0)}, nil, summary.Result{Status: summary.StatusUnavailable}, window(t)).HTML(700)
	require.NoError(t, err)
	assert.NotContains(t, page, "<h2>Themes</h2>")
	assert.Contains(t, page, "<h2>Articles (1)</h2>")
}

func TestMarkdownToHTML_EscapesMarkup(t *testing.T) {
	out := string(markdownToHTML(`<script>alert(1)</script> see [paper](javascript:alert(1)) and [ok](https://ex.com/a?b=1&c=2)`))

	assert.NotContains(t, out, "<script>")
	assert.NotContains(t, out, `href="javascript`)
	assert.Contains(t, out, `<a href="https://ex.com/a?b=1&amp;c=2">ok</a>`)
	assert.Empty(t, markdownToHTML("   "))
}
