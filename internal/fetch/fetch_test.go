package fetch

import (
	"context"
	"errors"
	"testing"
	"time"

	"aljadeed-news-scraper/internal/config"
	"aljadeed-news-scraper/internal/driver"
	"aljadeed-news-scraper/internal/extract"
	"aljadeed-news-scraper/internal/observability"
)

type fakePage struct {
	html     string
	waitErr  error
	closed   *int
	closeErr error
}

func (p *fakePage) HTML() (string, error) { return p.html, nil }

func (p *fakePage) WaitVisible(selector string, timeout time.Duration) error { return p.waitErr }

func (p *fakePage) Click(selector string, timeout time.Duration) error { return nil }

func (p *fakePage) ClickXPath(xpath string, timeout time.Duration) error { return nil }

func (p *fakePage) Eval(js string) error { return nil }

func (p *fakePage) Close() error {
	*p.closed++
	return p.closeErr
}

type fakeBrowser struct {
	opened   int
	closed   int
	html     string
	waitErr  error
	closeErr error
}

func (b *fakeBrowser) Open(ctx context.Context, url string) (driver.Page, error) {
	b.opened++
	return &fakePage{html: b.html, waitErr: b.waitErr, closed: &b.closed, closeErr: b.closeErr}, nil
}

func (b *fakeBrowser) Close() error { return nil }

func testConfig() *config.Config {
	return &config.Config{
		Fetch: config.FetchConfig{
			MaxAttempts:   3,
			ReadyTimeoutS: 1,
			RetryDelayS:   0,
		},
		Normalize: config.NormalizeConfig{TrimNBSP: true, CollapseSpaces: true},
	}
}

func testExtractor() *extract.Extractor {
	sel := &extract.Selectors{
		Article: extract.ArticleSelectors{
			Heading:       "h1",
			ShortDesc:     "#lblShortDesc",
			LongDesc:      ".LongDesc",
			BodyFallbacks: []string{"article p"},
			Categories:    []string{"محليات"},
		},
	}
	return extract.NewExtractor(sel, extract.Options{TrimNBSP: true, CollapseSpaces: true})
}

func TestRetryExhaustion(t *testing.T) {
	browser := &fakeBrowser{waitErr: errors.New("timeout waiting for h1")}
	f := NewFetcher(browser, testExtractor(), "h1", testConfig(), observability.NewNopLogger())

	rec, ok := f.Fetch(context.Background(), "https://www.aljadeed.tv/news/1")
	if ok || rec != nil {
		t.Fatalf("Fetch should give up, got %+v", rec)
	}
	if browser.opened != 3 {
		t.Errorf("expected exactly 3 attempts, got %d", browser.opened)
	}
	if browser.closed != browser.opened {
		t.Errorf("leaked browsing contexts: opened %d, closed %d", browser.opened, browser.closed)
	}
}

func TestFetchSuccess(t *testing.T) {
	browser := &fakeBrowser{html: `
		<html><body>
			<h1>عنوان الخبر</h1>
			<span>2025-11-18 | 13:57</span>
			<a href="/local">محليات</a>
			<article><p>نص الخبر</p></article>
		</body></html>`}
	f := NewFetcher(browser, testExtractor(), "h1", testConfig(), observability.NewNopLogger())

	rec, ok := f.Fetch(context.Background(), "https://www.aljadeed.tv/news/1")
	if !ok {
		t.Fatalf("Fetch should succeed")
	}
	if rec.Title != "عنوان الخبر" || rec.Body != "نص الخبر" || rec.Category != "محليات" {
		t.Errorf("record fields wrong: %+v", rec)
	}
	if rec.URL != "https://www.aljadeed.tv/news/1" {
		t.Errorf("URL = %q", rec.URL)
	}
	if rec.PublishedAt.Format("2006-01-02T15:04") != "2025-11-18T13:57" {
		t.Errorf("PublishedAt = %v", rec.PublishedAt)
	}
	if rec.NotificationOnly {
		t.Errorf("NotificationOnly should be false")
	}
	if browser.opened != 1 || browser.closed != 1 {
		t.Errorf("context lifecycle wrong: opened %d, closed %d", browser.opened, browser.closed)
	}
}

func TestFetchSwallowsCloseFailure(t *testing.T) {
	browser := &fakeBrowser{
		html:     `<html><body><h1>عنوان</h1></body></html>`,
		closeErr: errors.New("context already gone"),
	}
	f := NewFetcher(browser, testExtractor(), "h1", testConfig(), observability.NewNopLogger())

	if _, ok := f.Fetch(context.Background(), "https://www.aljadeed.tv/news/1"); !ok {
		t.Fatalf("close failure must not fail the fetch")
	}
}

func TestFetchCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	browser := &fakeBrowser{waitErr: context.Canceled}
	f := NewFetcher(browser, testExtractor(), "h1", testConfig(), observability.NewNopLogger())

	if _, ok := f.Fetch(ctx, "https://www.aljadeed.tv/news/1"); ok {
		t.Fatalf("Fetch should not succeed after cancellation")
	}
	if browser.opened > 1 {
		t.Errorf("canceled fetch should not retry, got %d attempts", browser.opened)
	}
	if browser.closed != browser.opened {
		t.Errorf("leaked browsing contexts: opened %d, closed %d", browser.opened, browser.closed)
	}
}
