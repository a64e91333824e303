// Package ep scrapes team roster and player statistics pages from the
// player-profile site. Pages sit behind a logged-in session rendered
// client-side, so fetching goes through a persistent headless browser
// that is restarted periodically to keep the session healthy.
package ep

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

	// statsTabSuffix switches a team page to its statistics view.
	statsTabSuffix = "?tab=stats"

	renderWait   = 3 * time.Second
	fetchTimeout = 45 * time.Second
	loginTimeout = 60 * time.Second
)

// Credentials holds the login for the profile site. An empty Email skips
// the login step; public pages still render, premium columns do not.
type Credentials struct {
	LoginURL string
	Email    string
	Password string
}

// Client is a logged-in browser session for roster and stats pages.
type Client struct {
	creds Credentials
	cache ingest.PageCache

	// CacheTTL bounds how long fetched pages are reused.
	CacheTTL time.Duration

	allocCtx    context.Context
	allocCancel context.CancelFunc

	// browserCtx is the long-lived logged-in tab; replaced on Restart.
	browserCtx    context.Context
	browserCancel context.CancelFunc
}

// NewClient starts a browser session and logs in when credentials are
// provided. cache may be nil.
func NewClient(ctx context.Context, creds Credentials, cache ingest.PageCache) (*Client, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(UserAgent),
	)
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)

	c := &Client{
		creds:       creds,
		cache:       cache,
		CacheTTL:    ingest.DefaultPageTTL,
		allocCtx:    allocCtx,
		allocCancel: allocCancel,
	}
	if err := c.startSession(ctx); err != nil {
		allocCancel()
		return nil, err
	}
	return c, nil
}

// Close releases the browser and all sessions.
func (c *Client) Close() {
	if c.browserCancel != nil {
		c.browserCancel()
	}
	if c.allocCancel != nil {
		c.allocCancel()
	}
}

// Restart tears down the current browser session and logs in again. Long
// scraping runs go stale (memory growth, expired session cookies); the
// ingester calls this every few dozen teams.
func (c *Client) Restart(ctx context.Context) error {
	log.Printf("Restarting browser session")
	if c.browserCancel != nil {
		c.browserCancel()
	}
	return c.startSession(ctx)
}

func (c *Client) startSession(ctx context.Context) error {
	c.browserCtx, c.browserCancel = chromedp.NewContext(c.allocCtx)

	if c.creds.Email == "" || c.creds.LoginURL == "" {
		return nil
	}

	loginCtx, cancel := context.WithTimeout(c.browserCtx, loginTimeout)
	defer cancel()

	err := chromedp.Run(loginCtx,
		chromedp.Navigate(c.creds.LoginURL),
		chromedp.WaitVisible(`input[type="email"]`, chromedp.ByQuery),
		chromedp.SendKeys(`input[type="email"]`, c.creds.Email, chromedp.ByQuery),
		chromedp.SendKeys(`input[type="password"]`, c.creds.Password, chromedp.ByQuery),
		chromedp.Click(`button[type="submit"]`, chromedp.ByQuery),
		chromedp.Sleep(renderWait),
	)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	log.Printf("✓ Logged in to profile site")
	return nil
}

// FetchRoster returns the rendered roster page for a team profile URL.
func (c *Client) FetchRoster(ctx context.Context, teamURL string) (string, error) {
	return c.fetchCached(ctx, teamURL)
}

// FetchStats returns the rendered statistics tab for a team profile URL.
func (c *Client) FetchStats(ctx context.Context, teamURL string) (string, error) {
	return c.fetchCached(ctx, teamURL+statsTabSuffix)
}

func (c *Client) fetchCached(ctx context.Context, url string) (string, error) {
	if c.cache != nil {
		if html, err := c.cache.Get(ctx, cacheKey(url)); err == nil && html != "" {
			log.Printf("roster cache hit: %s", url)
			return html, nil
		}
	}

	html, err := c.fetch(ctx, url)
	if err != nil {
		return "", err
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, cacheKey(url), html, c.CacheTTL); err != nil {
			log.Printf("roster cache store failed for %s: %v", url, err)
		}
	}
	return html, nil
}

// fetch navigates the logged-in session; a fresh tab would lose cookies.
func (c *Client) fetch(ctx context.Context, url string) (string, error) {
	fetchCtx, cancel := context.WithTimeout(c.browserCtx, fetchTimeout)
	defer cancel()

	go func() {
		select {
		case <-ctx.Done():
			cancel()
		case <-fetchCtx.Done():
		}
	}()

	var htmlContent string
	err := chromedp.Run(fetchCtx,
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
	return "scoutline:ep:" + url
}
