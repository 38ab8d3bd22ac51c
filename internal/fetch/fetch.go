package fetch

import (
	"context"
	"time"

	"aljadeed-news-scraper/internal/config"
	"aljadeed-news-scraper/internal/driver"
	"aljadeed-news-scraper/internal/extract"
	"aljadeed-news-scraper/internal/observability"
	"aljadeed-news-scraper/internal/store"
)

// Fetcher scrapes a single article in an isolated browsing context with
// bounded retries. Retries target transient rendering flakiness, not
// systemic outages, so the backoff is short and fixed.
type Fetcher struct {
	browser   driver.Browser
	extractor *extract.Extractor
	heading   string
	cfg       *config.Config
	logger    *observability.Logger
}

func NewFetcher(browser driver.Browser, extractor *extract.Extractor, heading string, cfg *config.Config, logger *observability.Logger) *Fetcher {
	return &Fetcher{
		browser:   browser,
		extractor: extractor,
		heading:   heading,
		cfg:       cfg,
		logger:    logger,
	}
}

// Fetch opens the article, waits for readiness, extracts and closes the
// context. Returns ok=false after exhausting all attempts; the caller moves
// on to the next feed item. No exit path leaves a context open.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*store.Record, bool) {
	maxAttempts := f.cfg.Fetch.MaxAttempts

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-time.After(f.cfg.GetRetryDelay()):
			case <-ctx.Done():
				return nil, false
			}
		}

		f.logger.Debug("Fetching article", "url", url, "attempt", attempt, "max_attempts", maxAttempts)

		rec, err := f.fetchOnce(ctx, url)
		if err != nil {
			f.logger.Error("Error scraping article", "url", url, "attempt", attempt, "error", err.Error())
			if ctx.Err() != nil {
				return nil, false
			}
			continue
		}
		return rec, true
	}

	f.logger.Warn("Giving up on article", "url", url, "attempts", maxAttempts)
	return nil, false
}

func (f *Fetcher) fetchOnce(ctx context.Context, url string) (*store.Record, error) {
	page, err := f.browser.Open(ctx, url)
	if err != nil {
		return nil, err
	}
	defer func() {
		// best-effort: a context that fails to close must not fail the item
		if closeErr := page.Close(); closeErr != nil {
			f.logger.Debug("Failed to close article context", "url", url, "error", closeErr.Error())
		}
	}()

	// presence of the heading is the readiness signal
	if err := page.WaitVisible(f.heading, f.cfg.GetReadyTimeout()); err != nil {
		return nil, err
	}

	html, err := page.HTML()
	if err != nil {
		return nil, err
	}

	content, err := f.extractor.Extract(html)
	if err != nil {
		return nil, err
	}

	rec := &store.Record{
		ScrapedAt:        time.Now(),
		URL:              url,
		Title:            content.Title,
		Body:             content.Body,
		Category:         content.Category,
		NotificationOnly: content.NotificationOnly,
	}
	if content.PublishedOK {
		rec.PublishedAt = content.PublishedAt
	}

	category := rec.Category
	if category == "" {
		category = "N/A"
	}
	f.logger.Info("Scraped article", "title", rec.Title, "category", category)

	return rec, nil
}
