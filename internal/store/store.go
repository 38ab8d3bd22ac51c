package store

import (
	"context"
	"time"
)

// Record is one accepted article. Records are created once and never
// mutated; at most one record per URL ever exists in a store.
type Record struct {
	ScrapedAt        time.Time
	PublishedAt      time.Time // zero value means the timestamp could not be determined
	URL              string
	Title            string
	Body             string
	Category         string
	NotificationOnly bool
}

// Store is the durable, URL-deduplicated article log.
type Store interface {
	// Load reads persisted state. No prior state (missing or corrupt
	// backing store) returns empty collections, never an error.
	Load(ctx context.Context) ([]Record, map[string]bool, error)

	// Accept inserts the record at the head of the log unless its URL is
	// already known. Returns false (and performs no write) for duplicates.
	// A write failure must leave the previously committed state intact.
	Accept(ctx context.Context, rec Record) (bool, error)

	Close() error
}
