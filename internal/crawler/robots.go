package crawler

import (
	"context"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/webdoctor/webdoctor/internal/render"
)

// RobotsPolicy holds the directives parsed from a site's robots.txt.
// The zero value is the empty policy: no sitemaps, no disallow rules,
// no crawl delay. An unreachable robots.txt always yields the empty
// policy, never an error. Robots absence must not abort a crawl.
type RobotsPolicy struct {
	// Sitemaps lists the declared sitemap URLs in order of appearance.
	Sitemaps []string

	// Disallow lists path prefixes that should not be crawled.
	Disallow []string

	// CrawlDelay is the requested delay between fetches. Valid only when
	// HasCrawlDelay is true; a zero delay with the flag set is a real
	// directive, not absence.
	CrawlDelay    time.Duration
	HasCrawlDelay bool
}

// ResolveRobots fetches and parses <origin>/robots.txt.
// The fetch goes through the renderer contract as a plain text fetch: no
// wait selector is applied. Any fetch failure or non-2xx status is
// absorbed silently and yields the empty policy.
func ResolveRobots(ctx context.Context, renderer render.Renderer, originURL string, logger *slog.Logger) RobotsPolicy {
	robotsURL, err := robotsPath(originURL)
	if err != nil {
		return RobotsPolicy{}
	}

	result, err := renderer.Fetch(ctx, robotsURL, render.FetchOptions{})
	if err != nil {
		logger.Debug("robots.txt unreachable", "url", robotsURL, "error", err)
		return RobotsPolicy{}
	}
	if result.StatusCode < 200 || result.StatusCode > 299 {
		logger.Debug("robots.txt not available", "url", robotsURL, "status", result.StatusCode)
		return RobotsPolicy{}
	}

	return parseRobots(result.HTML)
}

// robotsPath builds the well-known robots.txt URL for the origin.
func robotsPath(originURL string) (string, error) {
	u, err := url.Parse(originURL)
	if err != nil {
		return "", err
	}
	robots := &url.URL{Scheme: u.Scheme, Host: u.Host, Path: "/robots.txt"}
	return robots.String(), nil
}

// parseRobots parses robots.txt content line by line.
//
// Only three directives matter to the crawler, matched case-insensitively
// by prefix: "sitemap:", "disallow:", and "crawl-delay:". Everything
// else, including user-agent grouping, is ignored: webdoctor applies the
// union of all disallow rules rather than resolving agent groups, which
// errs on the polite side. Multiple sitemap lines accumulate in order.
// Malformed crawl-delay values are skipped, not defaulted to zero, so
// the last valid value wins.
func parseRobots(content string) RobotsPolicy {
	var policy RobotsPolicy

	for _, line := range strings.Split(content, "\n") {
		if idx := strings.Index(line, "#"); idx >= 0 {
			line = line[:idx]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		lower := strings.ToLower(line)
		switch {
		case strings.HasPrefix(lower, "sitemap:"):
			value := strings.TrimSpace(line[len("sitemap:"):])
			if value != "" {
				policy.Sitemaps = append(policy.Sitemaps, value)
			}

		case strings.HasPrefix(lower, "disallow:"):
			value := strings.TrimSpace(line[len("disallow:"):])
			if value != "" {
				policy.Disallow = append(policy.Disallow, value)
			}

		case strings.HasPrefix(lower, "crawl-delay:"):
			value := strings.TrimSpace(line[len("crawl-delay:"):])
			seconds, err := strconv.ParseFloat(value, 64)
			if err != nil || seconds < 0 {
				continue
			}
			policy.CrawlDelay = time.Duration(seconds * float64(time.Second))
			policy.HasCrawlDelay = true
		}
	}

	return policy
}

// Disallowed reports whether the URL's path matches any disallow prefix.
func (p RobotsPolicy) Disallowed(rawURL string) bool {
	if len(p.Disallow) == 0 {
		return false
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}

	for _, prefix := range p.Disallow {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
