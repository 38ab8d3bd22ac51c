package crawler

import (
	"context"
	"time"
)

// pacer enforces a minimum spacing between article context opens. The crawl
// is single-threaded against one host, so a next-allowed-time check is all
// the throttling that is needed.
type pacer struct {
	minSpacing time.Duration
	next       time.Time
}

func newPacer(minSpacing time.Duration) *pacer {
	return &pacer{minSpacing: minSpacing}
}

func (p *pacer) wait(ctx context.Context) error {
	if p.minSpacing <= 0 {
		return nil
	}
	if now := time.Now(); now.Before(p.next) {
		select {
		case <-time.After(p.next.Sub(now)):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	p.next = time.Now().Add(p.minSpacing)
	return nil
}
