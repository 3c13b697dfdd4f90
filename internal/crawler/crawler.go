package crawler

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/webdoctor/webdoctor/internal/model"
	"github.com/webdoctor/webdoctor/internal/render"
)

// ExtractFunc turns rendered markup into a page record.
// It must be a pure function: no I/O, and tolerant of malformed input.
type ExtractFunc func(rawHTML, pageURL string) (*model.Page, error)

// Crawler walks one website sequentially: it seeds a frontier from the
// seed URL, robots.txt, and sitemaps, then visits pending URLs one at a
// time, extracting facts and enqueueing newly discovered same-site links
// until the frontier is exhausted or the page budget is spent.
//
// A Crawler owns its renderer for the duration of one Crawl call and
// releases it exactly once when Crawl returns. Crawlers are not reused:
// create one per crawl invocation. Concurrent audits each get their own
// Crawler and renderer, so no state is shared between crawls.
type Crawler struct {
	// renderer is the single expensive fetch resource for this crawl.
	renderer render.Renderer

	// extract converts rendered markup into page records.
	extract ExtractFunc

	// logger receives structured diagnostics.
	logger *slog.Logger

	// maxPages bounds the number of visited URLs.
	maxPages int

	// followSitemap merges sitemap-discovered URLs into the frontier.
	followSitemap bool

	// respectRobots fetches robots.txt and honors crawl-delay and
	// disallow directives.
	respectRobots bool

	// defaultDelay is the politeness delay when robots.txt declares none.
	defaultDelay time.Duration

	// pageTimeout bounds each individual page fetch.
	pageTimeout time.Duration

	// waitSelector is passed to the renderer for page fetches (never for
	// robots or sitemap fetches).
	waitSelector string

	// stats accumulates per-crawl counters.
	stats CrawlStats
}

// CrawlStats contains the counters of one finished crawl.
type CrawlStats struct {
	// PagesVisited is the number of pages successfully processed.
	PagesVisited int

	// FailedURLs lists URLs whose fetch or extraction failed. They were
	// attempted exactly once and are excluded from the results.
	FailedURLs []string

	// SitemapURLs is the number of URLs seeded from sitemaps.
	SitemapURLs int

	// EffectiveDelay is the politeness delay the crawl actually used.
	EffectiveDelay time.Duration
}

// Option configures a Crawler.
type Option func(*Crawler)

// WithMaxPages sets the page budget.
func WithMaxPages(n int) Option {
	return func(c *Crawler) {
		if n > 0 {
			c.maxPages = n
		}
	}
}

// WithFollowSitemap controls sitemap seeding.
func WithFollowSitemap(follow bool) Option {
	return func(c *Crawler) {
		c.followSitemap = follow
	}
}

// WithRespectRobots controls robots.txt handling.
func WithRespectRobots(respect bool) Option {
	return func(c *Crawler) {
		c.respectRobots = respect
	}
}

// WithDelay sets the default politeness delay used when robots.txt does
// not declare a crawl-delay.
func WithDelay(d time.Duration) Option {
	return func(c *Crawler) {
		if d >= 0 {
			c.defaultDelay = d
		}
	}
}

// WithPageTimeout sets the per-page fetch timeout.
func WithPageTimeout(d time.Duration) Option {
	return func(c *Crawler) {
		if d > 0 {
			c.pageTimeout = d
		}
	}
}

// WithWaitSelector sets a CSS selector the renderer waits for on page
// fetches.
func WithWaitSelector(selector string) Option {
	return func(c *Crawler) {
		c.waitSelector = selector
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Crawler) {
		c.logger = logger
	}
}

// New creates a Crawler that fetches through the given renderer and
// extracts page facts with the given function.
func New(renderer render.Renderer, extract ExtractFunc, opts ...Option) *Crawler {
	c := &Crawler{
		renderer:      renderer,
		extract:       extract,
		maxPages:      50,
		followSitemap: true,
		respectRobots: true,
		defaultDelay:  1 * time.Second,
		pageTimeout:   30 * time.Second,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = slog.Default()
	}

	return c
}

// Crawl traverses the site starting at seedURL and returns the page
// records in the order the URLs were dequeued and processed.
//
// A malformed seed URL fails immediately, before any fetch. Per-page
// failures are recovered locally: the URL is marked visited (so it is
// never retried), logged, and omitted from the results. Cancellation via
// ctx stops the traversal cooperatively at the top of the loop and
// returns the records collected so far together with ctx.Err().
//
// The renderer is closed exactly once when Crawl returns, on success and
// failure paths alike. A close failure is logged and never masks the
// crawl's primary outcome.
func (c *Crawler) Crawl(ctx context.Context, seedURL string) (pages []*model.Page, err error) {
	seed, parseErr := url.Parse(seedURL)
	if parseErr != nil || (seed.Scheme != "http" && seed.Scheme != "https") || seed.Host == "" {
		return nil, fmt.Errorf("invalid seed URL %q: %w", seedURL, ErrInvalidSeed)
	}

	defer func() {
		if closeErr := c.renderer.Close(); closeErr != nil {
			c.logger.Warn("renderer close failed", "error", closeErr)
		}
	}()

	// Robots policy: absence or failure yields the empty policy and the
	// crawl proceeds exactly as if robots were not respected.
	var policy RobotsPolicy
	if c.respectRobots {
		policy = ResolveRobots(ctx, c.renderer, seedURL, c.logger)
	}

	delay := c.defaultDelay
	if policy.HasCrawlDelay {
		delay = policy.CrawlDelay
	}
	c.stats.EffectiveDelay = delay
	c.logger.Info("starting crawl",
		"seed", seedURL,
		"maxPages", c.maxPages,
		"crawlDelay", delay,
		"respectRobots", c.respectRobots,
		"followSitemap", c.followSitemap,
	)

	frontier := NewFrontier(c.maxPages)
	frontier.Seed([]string{seedURL})

	if c.followSitemap {
		sitemaps := policy.Sitemaps
		if len(sitemaps) == 0 {
			guess := &url.URL{Scheme: seed.Scheme, Host: seed.Host, Path: "/sitemap.xml"}
			sitemaps = []string{guess.String()}
		}
		for _, sm := range sitemaps {
			urls := ResolveSitemap(ctx, c.renderer, sm, c.logger)
			c.stats.SitemapURLs += len(urls)
			frontier.Seed(urls)
		}
		c.logger.Debug("sitemap seeding done", "urls", c.stats.SitemapURLs)
	}

	for {
		select {
		case <-ctx.Done():
			return pages, ctx.Err()
		default:
		}

		pageURL, ok := frontier.Take()
		if !ok {
			break
		}

		page := c.visit(ctx, pageURL)
		frontier.MarkVisited(pageURL)

		if page != nil {
			pages = append(pages, page)
			c.stats.PagesVisited++
			c.offerLinks(frontier, page, policy)
		}

		// Politeness gap before the next fetch. Applied after failed
		// pages too, so request pacing stays uniform.
		if delay > 0 && frontier.PendingCount() > 0 && frontier.VisitedCount() < c.maxPages {
			select {
			case <-ctx.Done():
				return pages, ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	c.logger.Info("crawl finished",
		"seed", seedURL,
		"pages", len(pages),
		"failed", len(c.stats.FailedURLs),
	)

	return pages, nil
}

// visit renders and extracts one URL. On failure it records the URL as
// failed and returns nil; the crawl continues with the next URL.
func (c *Crawler) visit(ctx context.Context, pageURL string) *model.Page {
	result, err := c.renderer.Fetch(ctx, pageURL, render.FetchOptions{
		Timeout:      c.pageTimeout,
		WaitSelector: c.waitSelector,
	})
	if err != nil {
		c.logger.Warn("page fetch failed", "url", pageURL, "error", err)
		c.stats.FailedURLs = append(c.stats.FailedURLs, pageURL)
		return nil
	}

	page, err := c.extract(result.HTML, pageURL)
	if err != nil {
		c.logger.Warn("page extraction failed", "url", pageURL, "error", err)
		c.stats.FailedURLs = append(c.stats.FailedURLs, pageURL)
		return nil
	}

	page.StatusCode = result.StatusCode
	page.LoadTime = result.Elapsed

	c.logger.Debug("page processed",
		"url", pageURL,
		"status", result.StatusCode,
		"links", len(page.Links),
		"elapsed", result.Elapsed,
	)

	return page
}

// offerLinks enqueues the page's internal, followable links.
// Each candidate is resolved to an absolute URL against the page's own
// URL; resolution failures are discarded silently. Robots-disallowed
// paths are skipped when the crawl respects robots.txt.
func (c *Crawler) offerLinks(frontier *Frontier, page *model.Page, policy RobotsPolicy) {
	base, err := url.Parse(page.URL)
	if err != nil {
		return
	}

	for _, link := range page.Links {
		if !link.Internal || link.Nofollow {
			continue
		}

		ref, err := url.Parse(strings.TrimSpace(link.Target))
		if err != nil {
			continue
		}
		resolved := base.ResolveReference(ref)
		if resolved.Scheme != "http" && resolved.Scheme != "https" {
			continue
		}

		absolute := resolved.String()
		if c.respectRobots && policy.Disallowed(absolute) {
			c.logger.Debug("skipping robots-disallowed link", "url", absolute)
			continue
		}

		frontier.Offer(absolute)
	}
}

// Stats returns the counters of the crawl. Valid after Crawl returns.
func (c *Crawler) Stats() CrawlStats {
	return c.stats
}
