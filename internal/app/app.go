// Package app wires the feed, summarization and report stages into one run.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/deusflow/scidigest/internal/article"
	"github.com/deusflow/scidigest/internal/config"
	"github.com/deusflow/scidigest/internal/logger"
	"github.com/deusflow/scidigest/internal/metrics"
	"github.com/deusflow/scidigest/internal/report"
	"github.com/deusflow/scidigest/internal/rss"
	"github.com/deusflow/scidigest/internal/summary"
)

// Mailer delivers the rendered HTML report.
type Mailer interface {
	Send(ctx context.Context, subject, htmlBody string) error
}

// Enricher fills in article content the feeds left out.
type Enricher interface {
	Enrich(ctx context.Context, articles []article.Article, concurrency int) []article.Article
}

// Deps are the collaborators of a run. Only Fetcher is required.
type Deps struct {
	Fetcher   *rss.Fetcher
	Generator summary.Generator // nil disables summarization
	Enricher  Enricher          // nil skips full-text fetching
	Mailer    Mailer            // nil skips email
	Metrics   *metrics.Metrics
	Logger    *slog.Logger
	Out       io.Writer // console report; defaults to stdout
	Now       func() time.Time
	Location  *time.Location
}

type App struct {
	cfg  *config.Config
	deps Deps
	log  *slog.Logger
}

func New(cfg *config.Config, deps Deps) *App {
	if deps.Out == nil {
		deps.Out = os.Stdout
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Location == nil {
		deps.Location = time.Local
	}
	return &App{
		cfg:  cfg,
		deps: deps,
		log:  logger.OrDefault(deps.Logger),
	}
}

// Run executes one pass of the pipeline and returns the report it printed.
// Only configuration and source-list problems are returned as errors; feed,
// summarization and delivery failures are logged and the run degrades.
func (a *App) Run(ctx context.Context) (*report.Report, error) {
	start := time.Now()
	rep, err := a.run(ctx)
	a.deps.Metrics.RecordProcessingTime(time.Since(start))
	if err != nil {
		a.deps.Metrics.SetError(err.Error())
		return nil, err
	}
	a.deps.Metrics.SetLastRun()
	return rep, nil
}

func (a *App) run(ctx context.Context) (*report.Report, error) {
	window, err := a.cfg.Window(a.deps.Now(), a.deps.Location)
	if err != nil {
		return nil, fmt.Errorf("resolve date window: %w", err)
	}

	sources, err := rss.LoadSources(a.cfg.SourcesPath)
	if err != nil {
		return nil, fmt.Errorf("load sources: %w", err)
	}
	a.log.Info("Starting run", "sources", len(sources), "window", window.String())

	articles := a.collect(ctx, sources, window)

	if a.deps.Enricher != nil && len(articles) > 0 {
		articles = a.deps.Enricher.Enrich(ctx, articles, a.cfg.ScrapeConcurrency)
	}

	client := summary.New(a.deps.Generator, summary.Options{
		Logger:      a.log,
		Metrics:     a.deps.Metrics,
		Concurrency: a.cfg.SummaryConcurrency,
	})

	results := client.SummarizeAll(ctx, articles)
	rep := report.Assemble(articles, results, summary.Result{}, window)
	rep.Digest = client.SummarizeCollection(ctx, digestInputs(rep))

	if _, err := io.WriteString(a.deps.Out, rep.Console()); err != nil {
		a.log.Error("Error writing report", "error", err)
	}

	a.publish(ctx, rep)
	return rep, nil
}

// collect fetches every source in file order and keeps what falls in window.
func (a *App) collect(ctx context.Context, sources []rss.Source, window article.Window) []article.Article {
	var all []article.Article
	for _, src := range sources {
		entries := a.deps.Fetcher.Fetch(ctx, src)
		matched := article.NormalizeAndFilter(entries, window)
		a.deps.Metrics.AddArticlesMatched(len(matched))

		if len(matched) == 0 {
			a.log.Info("No new articles found", "source", src.Name)
			continue
		}
		a.log.Info(fmt.Sprintf("Found %d new articles", len(matched)), "source", src.Name)
		all = append(all, matched...)
	}
	return all
}

// digestInputs numbers the usable summaries in report order and prefixes each
// with its article URL so the digest can cite it as [[n]](url).
func digestInputs(rep *report.Report) []string {
	var inputs []string
	for i, e := range rep.Entries {
		if !e.Summary.OK() || strings.TrimSpace(e.Summary.Text) == "" {
			continue
		}
		inputs = append(inputs, fmt.Sprintf("[%d] %s\nURL: %s\n%s",
			i+1, e.Article.Title, e.Article.URL, strings.TrimSpace(e.Summary.Text)))
	}
	return inputs
}

// publish writes the HTML file and sends the email when configured.
func (a *App) publish(ctx context.Context, rep *report.Report) {
	if a.cfg.HTMLOutput == "" && a.deps.Mailer == nil {
		return
	}

	page, err := rep.HTML(a.cfg.HTMLWidth)
	if err != nil {
		a.log.Error("Error rendering HTML report", "error", err)
		return
	}

	if a.cfg.HTMLOutput != "" {
		if err := writeFile(a.cfg.HTMLOutput, page); err != nil {
			a.log.Error("Error writing HTML report", "path", a.cfg.HTMLOutput, "error", err)
		} else {
			a.log.Info("HTML report written", "path", a.cfg.HTMLOutput)
		}
	}

	if a.deps.Mailer != nil {
		subject := fmt.Sprintf("Scientific digest %s", rep.Window)
		if err := a.deps.Mailer.Send(ctx, subject, page); err != nil {
			a.log.Error("Error sending report email", "error", err)
		} else {
			a.log.Info("Report emailed")
		}
	}
}

func writeFile(path, content string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory: %w", err)
		}
	}
	return os.WriteFile(path, []byte(content), 0o644)
}
