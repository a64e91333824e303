// Package ingest hosts the scraping collaborators. The core pipeline only
// depends on the row schemas they deliver, never on how pages are fetched.
package ingest

import (
	"context"
	"time"
)

// PageCache lets a fetcher skip pages scraped recently. Implementations
// may fail open: a cache error just means a fresh fetch.
type PageCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, html string, ttl time.Duration) error
}

// DefaultPageTTL keeps standings and roster pages for half a day; a
// season snapshot does not move faster than that.
const DefaultPageTTL = 12 * time.Hour
