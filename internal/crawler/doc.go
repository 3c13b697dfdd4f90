// Package crawler implements the crawl orchestration for webdoctor: a
// bounded, polite, sequential traversal of one website.
//
// The package is built from four cooperating parts. The Frontier tracks
// pending and visited URLs under a page budget. ResolveRobots turns a
// site's robots.txt into a RobotsPolicy, absorbing every failure into
// the empty policy. ResolveSitemap expands sitemap documents, including
// nested sitemap indexes, into page URL lists. The Crawler ties them
// together: it seeds the frontier, visits URLs one at a time through a
// render.Renderer, extracts page records, and enqueues newly discovered
// internal links until the frontier is exhausted or the budget is spent.
//
// Failures below the seed URL are never fatal. A page that cannot be
// fetched or parsed is logged, marked visited, and skipped; the crawl
// continues and reports whatever it collected.
package crawler
