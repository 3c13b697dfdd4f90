package crawler

import (
	"context"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/webdoctor/webdoctor/internal/render"
)

// ResolveSitemap fetches a sitemap document and returns the page URLs it
// lists, expanding sitemap indexes recursively.
//
// A document containing at least one <sitemap><loc> entry is treated as
// an index: each child sitemap is resolved in turn and the results are
// concatenated, discarding any <url><loc> entries found in the same
// document. Otherwise the <url><loc> entries are returned directly.
//
// Failures are never fatal: a sitemap that cannot be fetched or parsed
// contributes an empty list for that branch, and whatever the other
// branches produced is still returned.
//
// Design decision: Sitemaps are parsed as markup with goquery rather
// than with a strict XML decoder. Real-world sitemaps are frequently
// malformed (stray namespaces, unescaped entities), and the lenient
// parser extracts the loc entries regardless.
func ResolveSitemap(ctx context.Context, renderer render.Renderer, sitemapURL string, logger *slog.Logger) []string {
	// Sitemap indexes can reference each other; the seen set guards the
	// recursion against cycles and repeated children.
	seen := make(map[string]struct{})
	return resolveSitemap(ctx, renderer, sitemapURL, logger, seen)
}

func resolveSitemap(ctx context.Context, renderer render.Renderer, sitemapURL string, logger *slog.Logger, seen map[string]struct{}) []string {
	if _, ok := seen[sitemapURL]; ok {
		logger.Debug("skipping already-resolved sitemap", "url", sitemapURL)
		return nil
	}
	seen[sitemapURL] = struct{}{}

	result, err := renderer.Fetch(ctx, sitemapURL, render.FetchOptions{})
	if err != nil {
		logger.Debug("sitemap unreachable", "url", sitemapURL, "error", err)
		return nil
	}
	if result.StatusCode < 200 || result.StatusCode > 299 {
		logger.Debug("sitemap not available", "url", sitemapURL, "status", result.StatusCode)
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(result.HTML))
	if err != nil {
		logger.Debug("sitemap parse failed", "url", sitemapURL, "error", err)
		return nil
	}

	// Index pass: <sitemap><loc> entries point at child sitemaps.
	var children []string
	doc.Find("sitemap loc").Each(func(_ int, s *goquery.Selection) {
		if loc := strings.TrimSpace(s.Text()); loc != "" {
			children = append(children, loc)
		}
	})

	if len(children) > 0 {
		var urls []string
		for _, child := range children {
			urls = append(urls, resolveSitemap(ctx, renderer, child, logger, seen)...)
		}
		return urls
	}

	// Urlset pass: <url><loc> entries are the pages themselves.
	var urls []string
	doc.Find("url loc").Each(func(_ int, s *goquery.Selection) {
		if loc := strings.TrimSpace(s.Text()); loc != "" {
			urls = append(urls, loc)
		}
	})

	return urls
}
