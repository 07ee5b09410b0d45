package rss

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/deusflow/scidigest/internal/logger"
	"github.com/deusflow/scidigest/internal/metrics"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "scidigest/1.0 (+gofeed)"
	maxFeedBytes     = 10 << 20
)

// Fetcher downloads and parses feeds. Failures never reach the caller:
// they are logged and the feed contributes zero entries.
type Fetcher struct {
	client    *http.Client
	parser    *gofeed.Parser
	logger    *slog.Logger
	metrics   *metrics.Metrics
	UserAgent string
}

// NewFetcher builds a Fetcher. A nil client gets a 30s timeout client.
func NewFetcher(client *http.Client, log *slog.Logger, m *metrics.Metrics) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	return &Fetcher{
		client:    client,
		parser:    gofeed.NewParser(),
		logger:    logger.OrDefault(log),
		metrics:   m,
		UserAgent: defaultUserAgent,
	}
}

// Fetch returns the entries of one feed in document order.
func (f *Fetcher) Fetch(ctx context.Context, src Source) []Entry {
	log := f.logger.With("source", src.Name, "url", src.URL)

	body, err := f.download(ctx, src.URL)
	if err != nil {
		log.Error("Error fetching feed", "error", err)
		f.metrics.IncrementFeedErrors()
		return nil
	}

	feed, err := f.parser.Parse(bytes.NewReader(body))
	if err != nil {
		log.Warn("Feed is not well-formed, recovering what parsed", "error", err)
		f.metrics.IncrementMalformedFeeds()
		entries := recoverEntries(body, src.Name)
		f.metrics.AddEntriesSeen(len(entries))
		log.Info("Recovered entries", "count", len(entries))
		return entries
	}

	entries := make([]Entry, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item == nil {
			continue
		}
		entries = append(entries, fromItem(item, src.Name))
	}

	f.metrics.IncrementFeedsFetched()
	f.metrics.AddEntriesSeen(len(entries))
	log.Info("Loaded entries", "count", len(entries))
	return entries
}

func (f *Fetcher) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", f.UserAgent)
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml;q=0.9, */*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}
