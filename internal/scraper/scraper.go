// Package scraper fetches article pages and extracts their body text. It is
// used to give the summarizer more than the feed abstract when a feed entry
// carries no content blocks.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"

	"github.com/deusflow/scidigest/internal/article"
	"github.com/deusflow/scidigest/internal/logger"
)

const (
	defaultTimeout   = 15 * time.Second
	defaultUserAgent = "scidigest/1.0 (+goquery)"

	// Paragraphs shorter than this are navigation, captions or bylines.
	minParagraphLen = 40
	// Enough paragraphs to stop trying broader selectors.
	enoughParagraphs = 3
	// Keeps prompts bounded; whole paragraphs only.
	maxContentChars = 8000
)

var ErrNoContent = errors.New("no article content found")

// ArticleContent is the extracted text of one page.
type ArticleContent struct {
	Title      string
	Paragraphs []string
	URL        string
}

// Text joins the paragraphs with blank lines.
func (c *ArticleContent) Text() string {
	return strings.Join(c.Paragraphs, "\n\n")
}

type Scraper struct {
	client    *http.Client
	logger    *slog.Logger
	UserAgent string
}

// New builds a Scraper. A nil client gets a 15s timeout client.
func New(client *http.Client, log *slog.Logger) *Scraper {
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	return &Scraper{
		client:    client,
		logger:    logger.OrDefault(log),
		UserAgent: defaultUserAgent,
	}
}

// ExtractFullArticle gets the full text of the page at url.
func (s *Scraper) ExtractFullArticle(ctx context.Context, url string) (*ArticleContent, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", s.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error loading page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error parsing HTML: %w", err)
	}

	paragraphs := cleanParagraphs(extractParagraphs(doc))
	if len(paragraphs) == 0 {
		return nil, ErrNoContent
	}

	return &ArticleContent{
		Title:      extractTitle(doc),
		Paragraphs: paragraphs,
		URL:        url,
	}, nil
}

// Enrich fills Content for articles that have none, fetching at most
// concurrency pages at a time. Failures leave the article unchanged.
// The returned slice is a copy in input order.
func (s *Scraper) Enrich(ctx context.Context, articles []article.Article, concurrency int) []article.Article {
	out := make([]article.Article, len(articles))
	copy(out, articles)

	if concurrency < 1 {
		concurrency = 1
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i := range out {
		if len(out[i].Content) > 0 || out[i].URL == article.NoLink {
			continue
		}
		g.Go(func() error {
			content, err := s.ExtractFullArticle(ctx, out[i].URL)
			if err != nil {
				s.logger.Warn("Can't get full article content", "url", out[i].URL, "error", err)
				return nil
			}
			s.logger.Debug("Got full article content", "url", out[i].URL, "chars", len(content.Text()))
			out[i].Content = content.Paragraphs
			return nil
		})
	}

	_ = g.Wait()
	return out
}

// extractParagraphs tries content containers from most to least specific.
func extractParagraphs(doc *goquery.Document) []string {
	doc.Find("script, style, nav, header, footer, aside, figure, form").Remove()

	selectors := []string{
		"article p",
		".article-body p",
		".c-article-body p",
		".article__body p",
		".content p",
		".post-content p",
		".entry-content p",
		"main p",
		"#content p",
		"p",
	}

	var paragraphs []string
	for _, selector := range selectors {
		doc.Find(selector).Each(func(i int, sel *goquery.Selection) {
			text := strings.Join(strings.Fields(sel.Text()), " ")
			if len(text) >= minParagraphLen {
				paragraphs = append(paragraphs, text)
			}
		})
		if len(paragraphs) >= enoughParagraphs {
			break
		}
	}

	return paragraphs
}

func extractTitle(doc *goquery.Document) string {
	selectors := []string{
		"h1",
		".article-title",
		".headline",
		".entry-title",
		"title",
	}

	for _, selector := range selectors {
		title := strings.TrimSpace(doc.Find(selector).First().Text())
		if title != "" {
			return title
		}
	}

	return ""
}

// cleanParagraphs drops boilerplate and duplicates and caps the total length.
func cleanParagraphs(paragraphs []string) []string {
	junkIndicators := []string{
		"cookie", "subscribe", "sign in", "log in", "newsletter",
		"all rights reserved", "advertisement", "share this article",
		"rights and permissions",
	}

	seen := make(map[string]bool, len(paragraphs))
	var out []string
	total := 0

	for _, p := range paragraphs {
		if seen[p] {
			continue
		}
		seen[p] = true

		lower := strings.ToLower(p)
		isJunk := false
		for _, indicator := range junkIndicators {
			if strings.Contains(lower, indicator) {
				isJunk = true
				break
			}
		}
		if isJunk {
			continue
		}

		if total+len(p) > maxContentChars {
			break
		}
		out = append(out, p)
		total += len(p) + 2
	}

	return out
}
