package driver

import (
	"context"
	"time"
)

// Browser is the capability surface the crawl needs from the rendering
// engine. One isolated browsing context is opened per article; the feed
// page is a context reused for the whole session.
type Browser interface {
	// Open creates a new browsing context navigated to url. The context is
	// bound to ctx: cancellation aborts any wait in progress on it.
	Open(ctx context.Context, url string) (Page, error)

	// Close tears down the whole browsing session.
	Close() error
}

// Page is one open browsing context.
type Page interface {
	// HTML returns a snapshot of the current DOM.
	HTML() (string, error)

	// WaitVisible blocks until an element matching selector is visible,
	// bounded by timeout.
	WaitVisible(selector string, timeout time.Duration) error

	// Click clicks the first element matching selector, waiting up to
	// timeout for it to appear.
	Click(selector string, timeout time.Duration) error

	// ClickXPath clicks the first element matching the XPath expression,
	// waiting up to timeout for it to appear.
	ClickXPath(xpath string, timeout time.Duration) error

	// Eval runs a JavaScript function expression in the page.
	Eval(js string) error

	// Close closes this browsing context.
	Close() error
}
