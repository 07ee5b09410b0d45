// Package prompt builds the two instruction templates sent to the text model.
// Both are pure: same input, same prompt.
package prompt

import (
	"strings"

	"github.com/deusflow/scidigest/internal/article"
)

// SummarySeparator joins per-article summaries inside the digest prompt.
const SummarySeparator = "\n\n\n"

const (
	ArticleIntro = "You are a helpful assistant that summarizes scientific articles. " +
		"Here are the latest articles from a feed source:"

	ArticleQuestions = "In a few sentences, answer the following questions:\n" +
		"What type of article is this?\n" +
		"What research area is this research about?\n" +
		"What is the most important message of this publication?\n" +
		"What applications does this research have?"

	DigestIntro = "You are a helpful assistant that summarizes scientific articles. " +
		"Here are many summaries of a collection of articles."

	DigestInstructions = "In a few sentences and concise language, describe the major themes of these articles.\n" +
		"Provide links to a few important articles in [[number]](url) style.\n" +
		"The links should be integrated into the text, not listed separately."
)

// Article is the single-article prompt with the article rendered into its one slot.
func Article(a article.Article) string {
	return fill(ArticleIntro, RenderArticle(a), ArticleQuestions)
}

// Digest is the collection prompt over the joined summaries.
func Digest(summaries []string) string {
	return fill(DigestIntro, strings.Join(summaries, SummarySeparator), DigestInstructions)
}

// RenderArticle is the text block interpolated into the article prompt.
func RenderArticle(a article.Article) string {
	var b strings.Builder
	b.WriteString("Title: " + a.Title + "\n")
	b.WriteString("Source: " + a.Source + "\n")
	b.WriteString("Published: " + a.Date() + "\n")
	b.WriteString("URL: " + a.URL + "\n")
	if len(a.Keywords) > 0 {
		b.WriteString("Keywords: " + strings.Join(a.Keywords, ", ") + "\n")
	}
	b.WriteString("Content: " + a.Body())
	return b.String()
}

func fill(intro, body, instructions string) string {
	var b strings.Builder
	b.Grow(len(intro) + len(body) + len(instructions) + 4)
	b.WriteString(intro)
	b.WriteString("\n\n")
	b.WriteString(body)
	b.WriteString("\n\n")
	b.WriteString(instructions)
	return b.String()
}
