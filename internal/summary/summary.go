// Package summary runs the two summarization stages: one call per article,
// then one call over all per-article summaries.
package summary

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/deusflow/scidigest/internal/article"
	"github.com/deusflow/scidigest/internal/cache"
	"github.com/deusflow/scidigest/internal/gemini"
	"github.com/deusflow/scidigest/internal/logger"
	"github.com/deusflow/scidigest/internal/metrics"
	"github.com/deusflow/scidigest/internal/prompt"
)

// Generator is a text-generation backend. Implementations must be safe for concurrent use.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type Options struct {
	Logger  *slog.Logger
	Metrics *metrics.Metrics
	// Concurrency bounds parallel article calls in SummarizeAll. Values below 1 mean sequential.
	Concurrency int
}

// Client summarizes articles through a Generator. A Client built with a nil
// Generator is disabled: every call returns StatusUnavailable.
type Client struct {
	gen         Generator
	logger      *slog.Logger
	metrics     *metrics.Metrics
	memo        *cache.Cache
	concurrency int
}

func New(gen Generator, opts Options) *Client {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	return &Client{
		gen:         gen,
		logger:      logger.OrDefault(opts.Logger),
		metrics:     opts.Metrics,
		memo:        cache.New(),
		concurrency: opts.Concurrency,
	}
}

// Enabled reports whether a backend is configured.
func (c *Client) Enabled() bool {
	return c.gen != nil
}

// SummarizeArticle asks the backend about one article and returns its answer verbatim.
func (c *Client) SummarizeArticle(ctx context.Context, a article.Article) Result {
	if c.gen == nil {
		c.metrics.IncrementSummariesSkipped()
		return unavailable()
	}

	p := prompt.Article(a)
	key := c.memo.GenerateKey(p)
	if text, hit := c.memo.Get(key); hit {
		c.logger.Debug("Summary reused", "title", a.Title)
		return ok(text)
	}

	text, err := c.gen.Generate(ctx, p)
	if err != nil {
		c.logger.Warn("Article summarization failed", "title", a.Title, "error", err)
		c.metrics.IncrementSummariesFailed()
		return failed(err)
	}

	c.memo.Set(key, text)
	c.metrics.IncrementSummariesGenerated()
	return ok(text)
}

// SummarizeCollection asks for a thematic digest over the given summaries.
func (c *Client) SummarizeCollection(ctx context.Context, summaries []string) Result {
	if c.gen == nil {
		return unavailable()
	}
	if len(summaries) == 0 {
		return Result{Status: StatusNoContent}
	}

	text, err := c.gen.Generate(ctx, prompt.Digest(summaries))
	if err != nil {
		c.logger.Warn("Digest generation failed", "summaries", len(summaries), "error", err)
		return failed(err)
	}

	c.metrics.IncrementDigestsGenerated()
	return ok(text)
}

// SummarizeAll summarizes every article, up to Concurrency at a time.
// results[i] always belongs to articles[i].
func (c *Client) SummarizeAll(ctx context.Context, articles []article.Article) []Result {
	results := make([]Result, len(articles))
	if c.gen == nil {
		for i := range results {
			c.metrics.IncrementSummariesSkipped()
			results[i] = unavailable()
		}
		return results
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i := range articles {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i] = failed(err)
				return nil
			}
			c.logger.Info("Summarizing article", "n", i+1, "of", len(articles), "title", articles[i].Title)
			results[i] = c.SummarizeArticle(gctx, articles[i])
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// Connect builds the Gemini backend. With no key, or when the client cannot
// be created, it logs one warning and returns a nil Generator so the
// pipeline runs with summarization disabled.
func Connect(ctx context.Context, apiKey, model string, log *slog.Logger) (Generator, func()) {
	log = logger.OrDefault(log)
	if apiKey == "" {
		log.Warn("GOOGLE_API_KEY is not set; summarization will be skipped")
		return nil, func() {}
	}

	client, err := gemini.NewClient(ctx, apiKey, model)
	if err != nil {
		log.Warn("Could not initialize Gemini client; summarization will be skipped", "error", err)
		return nil, func() {}
	}

	log.Info("Gemini summarization enabled", "model", client.Model())
	return client, client.Close
}
