package extract

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// FeedItem is one entry in the notifications listing: a preview time and a
// link to the full article.
type FeedItem struct {
	TimeRaw string
	URL     string
	Title   string
}

// ListFeedItems parses the currently visible notification items out of a
// feed page snapshot, in listing order. Items without a usable link are
// dropped; a missing preview time is kept as empty.
func (e *Extractor) ListFeedItems(html string) ([]FeedItem, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	var items []FeedItem
	doc.Find(e.sel.Feed.Item).Each(func(i int, sel *goquery.Selection) {
		item := FeedItem{
			TimeRaw: strings.TrimSpace(sel.Find(e.sel.Feed.Time).First().Text()),
		}

		link := sel.Find(e.sel.Feed.Link).First()
		href, exists := link.Attr("href")
		if !exists || strings.TrimSpace(href) == "" {
			return
		}
		item.URL = normalizeURL(href)
		item.Title = e.clean(link.Text())

		items = append(items, item)
	})

	return items, nil
}

func normalizeURL(urlStr string) string {
	urlStr = strings.TrimSpace(urlStr)
	if idx := strings.Index(urlStr, "#"); idx > -1 {
		urlStr = urlStr[:idx]
	}
	return urlStr
}
