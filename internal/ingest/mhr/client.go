// Package mhr scrapes season standings pages: one table per league
// carrying team records, ratings and schedule strength, plus profile
// links used later for identity resolution.
package mhr

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"

	"github.com/halverson/scoutline/internal/ingest"
)

const (
	// UserAgent for requests
	UserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	// MinRequestInterval to prevent rate limiting
	MinRequestInterval = 2 * time.Second

	// renderWait gives the standings table time to populate after load.
	renderWait = 5 * time.Second

	fetchTimeout = 45 * time.Second
)

// Client fetches standings pages through a headless browser with rate
// limiting. Standings tables are rendered client-side, so a plain HTTP
// GET returns an empty shell.
type Client struct {
	lastRequest time.Time
	interval    time.Duration

	cache ingest.PageCache

	// CacheTTL bounds how long fetched pages are reused.
	CacheTTL time.Duration

	allocCtx context.Context
	cancel   context.CancelFunc
}

// NewClient creates a standings scraper client. cache may be nil.
func NewClient(cache ingest.PageCache) (*Client, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(UserAgent),
	)

	allocCtx, cancel := chromedp.NewExecAllocator(context.Background(), opts...)

	return &Client{
		interval: MinRequestInterval,
		cache:    cache,
		CacheTTL: ingest.DefaultPageTTL,
		allocCtx: allocCtx,
		cancel:   cancel,
	}, nil
}

// Close releases browser resources.
func (c *Client) Close() {
	if c.cancel != nil {
		c.cancel()
	}
}

// FetchStandings returns the rendered HTML of a standings page, serving
// from the page cache when possible.
func (c *Client) FetchStandings(ctx context.Context, url string) (string, error) {
	if c.cache != nil {
		if html, err := c.cache.Get(ctx, cacheKey(url)); err == nil && html != "" {
			log.Printf("standings cache hit: %s", url)
			return html, nil
		}
	}

	html, err := c.fetchWithRateLimit(ctx, url)
	if err != nil {
		return "", err
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, cacheKey(url), html, c.CacheTTL); err != nil {
			log.Printf("standings cache store failed for %s: %v", url, err)
		}
	}
	return html, nil
}

func (c *Client) fetchWithRateLimit(ctx context.Context, url string) (string, error) {
	if !c.lastRequest.IsZero() {
		elapsed := time.Since(c.lastRequest)
		if elapsed < c.interval {
			wait := c.interval - elapsed
			log.Printf("Rate limiting: waiting %v before next request", wait)
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}
	}

	html, err := c.fetch(ctx, url)
	c.lastRequest = time.Now()
	return html, err
}

func (c *Client) fetch(ctx context.Context, url string) (string, error) {
	browserCtx, cancel := chromedp.NewContext(c.allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, fetchTimeout)
	defer cancel()

	go func() {
		// Propagate caller cancellation into the browser context.
		select {
		case <-ctx.Done():
			cancel()
		case <-browserCtx.Done():
		}
	}()

	var htmlContent string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitVisible(`body`, chromedp.ByQuery),
		chromedp.Sleep(renderWait),
		chromedp.OuterHTML(`html`, &htmlContent, chromedp.ByQuery),
	)
	if err != nil {
		return "", fmt.Errorf("chromedp error: %w", err)
	}
	if htmlContent == "" {
		return "", fmt.Errorf("empty HTML content returned for %s", url)
	}
	return htmlContent, nil
}

// ParseHTML converts raw HTML to a goquery Document for parsing.
func ParseHTML(htmlContent string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return doc, nil
}

func cacheKey(url string) string {
	return "scoutline:mhr:" + url
}
