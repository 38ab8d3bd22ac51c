package crawler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"aljadeed-news-scraper/internal/config"
	"aljadeed-news-scraper/internal/driver"
	"aljadeed-news-scraper/internal/extract"
	"aljadeed-news-scraper/internal/fetch"
	"aljadeed-news-scraper/internal/observability"
	"aljadeed-news-scraper/internal/store"
)

type Stats struct {
	Pages         int
	ItemsSeen     int
	Accepted      int
	Skipped       int
	Failed        int
	StoppedReason string
}

// Crawler walks the paginated notifications feed: it lists visible items,
// fetches the ones the store does not know yet, and stops at the first
// article published before the cutoff or when the feed runs out.
type Crawler struct {
	cfg       *config.Config
	sel       *extract.Selectors
	logger    *observability.Logger
	browser   driver.Browser
	fetcher   *fetch.Fetcher
	extractor *extract.Extractor
	st        store.Store
	cutoff    time.Time
	pacer     *pacer
}

func NewCrawler(
	cfg *config.Config,
	sel *extract.Selectors,
	browser driver.Browser,
	fetcher *fetch.Fetcher,
	extractor *extract.Extractor,
	st store.Store,
	cutoff time.Time,
	logger *observability.Logger,
) *Crawler {
	return &Crawler{
		cfg:       cfg,
		sel:       sel,
		logger:    logger,
		browser:   browser,
		fetcher:   fetcher,
		extractor: extractor,
		st:        st,
		cutoff:    cutoff,
		pacer:     newPacer(cfg.GetFetchSpacing()),
	}
}

// Run executes one crawl session. The returned error is non-nil only for
// fatal conditions (driver failure, store write failure, cancellation);
// per-item failures are logged and skipped.
func (c *Crawler) Run(ctx context.Context) (*Stats, error) {
	stats := &Stats{}

	_, known, err := c.st.Load(ctx)
	if err != nil {
		stats.StoppedReason = "store load failure"
		return stats, err
	}

	c.logger.Info("Opening notifications feed", "url", c.cfg.Feed.URL, "cutoff", c.cutoff.Format("2006-01-02 15:04"))
	feed, err := c.browser.Open(ctx, c.cfg.Feed.URL)
	if err != nil {
		stats.StoppedReason = "feed open failure"
		return stats, fmt.Errorf("failed to open feed: %w", err)
	}
	defer func() {
		if closeErr := feed.Close(); closeErr != nil {
			c.logger.Debug("Failed to close feed context", "error", closeErr.Error())
		}
	}()

	c.prepareFeed(feed)

	if err := feed.WaitVisible(c.sel.Feed.Item, c.cfg.GetItemWait()); err != nil {
		stats.StoppedReason = "no feed items"
		return stats, fmt.Errorf("feed items never appeared: %w", err)
	}

	// cursor over items already evaluated this session; after a load-more
	// only the newly appeared suffix is processed
	processed := 0
	stop := false

	for !stop {
		if err := ctx.Err(); err != nil {
			stats.StoppedReason = "canceled"
			return stats, err
		}

		html, err := feed.HTML()
		if err != nil {
			stats.StoppedReason = "feed snapshot failure"
			return stats, fmt.Errorf("failed to snapshot feed: %w", err)
		}
		items, err := c.extractor.ListFeedItems(html)
		if err != nil {
			stats.StoppedReason = "feed parse failure"
			return stats, fmt.Errorf("failed to parse feed: %w", err)
		}

		stats.Pages++
		c.logger.Info("Collected notification items", "visible", len(items), "already_evaluated", processed)

		for idx := processed; idx < len(items); idx++ {
			item := items[idx]
			stats.ItemsSeen++

			c.logger.Info("Processing item",
				"position", idx+1,
				"visible", len(items),
				"time", item.TimeRaw,
				"title", preview(item.Title),
			)

			if known[item.URL] {
				c.logger.Debug("URL already scraped, skipping", "url", item.URL)
				stats.Skipped++
				continue
			}

			if err := c.pacer.wait(ctx); err != nil {
				stats.StoppedReason = "canceled"
				return stats, err
			}

			rec, ok := c.fetcher.Fetch(ctx, item.URL)
			if !ok {
				c.logger.Warn("Failed to scrape article, moving on", "url", item.URL)
				stats.Failed++
				continue
			}

			// Items whose published time could not be determined never
			// trigger the stop condition and are accepted unconditionally.
			if !rec.PublishedAt.IsZero() && rec.PublishedAt.Before(c.cutoff) {
				c.logger.Info("Article older than cutoff, stopping",
					"title", rec.Title,
					"published_at", rec.PublishedAt.Format("2006-01-02 15:04"),
					"cutoff", c.cutoff.Format("2006-01-02 15:04"),
				)
				stats.StoppedReason = "cutoff reached"
				stop = true
				break
			}

			accepted, err := c.st.Accept(ctx, *rec)
			if err != nil {
				// continuing without durable persistence is unsafe
				stats.StoppedReason = "store write failure"
				return stats, fmt.Errorf("failed to persist article: %w", err)
			}
			if accepted {
				known[rec.URL] = true
				stats.Accepted++
			} else {
				stats.Skipped++
			}
		}

		processed = len(items)
		if stop {
			break
		}

		if !c.loadMore(ctx, feed) {
			stats.StoppedReason = "feed exhausted"
			break
		}
	}

	c.logger.Info("Crawl finished",
		"pages", stats.Pages,
		"items_seen", stats.ItemsSeen,
		"accepted", stats.Accepted,
		"skipped", stats.Skipped,
		"failed", stats.Failed,
		"reason", stats.StoppedReason,
	)
	return stats, nil
}

// prepareFeed removes known blocking overlays and dismisses the push popup
// and consent banner. All of it is best-effort: absence of these elements
// is the normal case, not an error.
func (c *Crawler) prepareFeed(feed driver.Page) {
	if err := feed.Eval(c.overlayScript()); err != nil {
		c.logger.Debug("Overlay pre-clean failed", "error", err.Error())
	} else {
		c.logger.Info("Pre-cleaned notification overlays")
	}

	if c.sel.Feed.PopupClose != "" {
		if err := feed.Click(c.sel.Feed.PopupClose, time.Second); err != nil {
			c.logger.Info("No push notification popup detected")
		} else {
			c.logger.Info("Closed push notification popup")
		}
	}

	// overlays can reappear after the popup closes
	if err := feed.Eval(c.overlayScript()); err != nil {
		c.logger.Debug("Post-popup overlay cleanup skipped", "error", err.Error())
	}

	if len(c.sel.Feed.ConsentTexts) > 0 {
		if err := feed.ClickXPath(c.consentXPath(), c.cfg.GetConsentWait()); err != nil {
			c.logger.Info("No cookie banner found, continuing")
		} else {
			c.logger.Info("Accepted cookie banner")
		}
	}
}

// loadMore advances pagination. An absent or non-clickable control within
// the bounded wait means the feed is exhausted, which is a normal branch.
func (c *Crawler) loadMore(ctx context.Context, feed driver.Page) bool {
	c.logger.Info("Trying to load older notifications", "control", c.sel.Feed.LoadMoreText)

	xpath := fmt.Sprintf("//*[contains(text(), '%s')]", c.sel.Feed.LoadMoreText)
	if err := feed.ClickXPath(xpath, c.cfg.GetLoadMoreWait()); err != nil {
		c.logger.Info("No load-more control found, reached end of notifications")
		return false
	}

	// give freshly requested items a moment to render
	select {
	case <-time.After(c.cfg.GetLoadMoreSettle()):
	case <-ctx.Done():
		return false
	}
	return true
}

func (c *Crawler) overlayScript() string {
	var b strings.Builder
	b.WriteString("() => {\n")
	for _, id := range c.sel.Feed.OverlayIDs {
		fmt.Fprintf(&b, "  var el = document.getElementById(%q); if (el) el.remove();\n", id)
	}
	for _, class := range c.sel.Feed.OverlayClasses {
		fmt.Fprintf(&b, "  document.querySelectorAll(%q).forEach(function(el) { el.remove(); });\n", "."+class)
	}
	b.WriteString("}")
	return b.String()
}

func (c *Crawler) consentXPath() string {
	conditions := make([]string, 0, len(c.sel.Feed.ConsentTexts))
	for _, text := range c.sel.Feed.ConsentTexts {
		conditions = append(conditions, fmt.Sprintf("contains(text(),'%s')", text))
	}
	return "//button[" + strings.Join(conditions, " or ") + "]"
}

func preview(title string) string {
	runes := []rune(title)
	if len(runes) > 80 {
		return string(runes[:80])
	}
	return title
}
