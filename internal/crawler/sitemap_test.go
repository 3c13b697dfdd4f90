package crawler

import (
	"context"
	"errors"
	"testing"
)

func TestResolveSitemap(t *testing.T) {
	t.Parallel()

	t.Run("urlset yields page URLs", func(t *testing.T) {
		t.Parallel()

		renderer := newFakeRenderer()
		renderer.respond("https://example.com/sitemap.xml", 200, `<?xml version="1.0"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url><loc>https://example.com/a</loc></url>
  <url><loc> https://example.com/b </loc></url>
</urlset>`)

		urls := ResolveSitemap(context.Background(), renderer, "https://example.com/sitemap.xml", discardLogger())

		if len(urls) != 2 {
			t.Fatalf("expected 2 URLs, got %d: %v", len(urls), urls)
		}
		if urls[0] != "https://example.com/a" || urls[1] != "https://example.com/b" {
			t.Errorf("unexpected URLs: %v", urls)
		}
	})

	t.Run("index resolves children recursively", func(t *testing.T) {
		t.Parallel()

		renderer := newFakeRenderer()
		renderer.respond("https://example.com/sitemap.xml", 200, `
<sitemapindex>
  <sitemap><loc>https://example.com/pages.xml</loc></sitemap>
  <sitemap><loc>https://example.com/posts.xml</loc></sitemap>
</sitemapindex>`)
		renderer.respond("https://example.com/pages.xml", 200, `
<urlset><url><loc>https://example.com/p1</loc></url></urlset>`)
		renderer.respond("https://example.com/posts.xml", 200, `
<urlset>
  <url><loc>https://example.com/post/1</loc></url>
  <url><loc>https://example.com/post/2</loc></url>
</urlset>`)

		urls := ResolveSitemap(context.Background(), renderer, "https://example.com/sitemap.xml", discardLogger())

		want := []string{
			"https://example.com/p1",
			"https://example.com/post/1",
			"https://example.com/post/2",
		}
		if len(urls) != len(want) {
			t.Fatalf("expected %d URLs, got %d: %v", len(want), len(urls), urls)
		}
		for i, w := range want {
			if urls[i] != w {
				t.Errorf("url %d: expected %q, got %q", i, w, urls[i])
			}
		}
	})

	t.Run("index discards same-document url entries", func(t *testing.T) {
		t.Parallel()

		renderer := newFakeRenderer()
		renderer.respond("https://example.com/sitemap.xml", 200, `
<sitemapindex>
  <sitemap><loc>https://example.com/child.xml</loc></sitemap>
  <url><loc>https://example.com/should-be-ignored</loc></url>
</sitemapindex>`)
		renderer.respond("https://example.com/child.xml", 200, `
<urlset><url><loc>https://example.com/kept</loc></url></urlset>`)

		urls := ResolveSitemap(context.Background(), renderer, "https://example.com/sitemap.xml", discardLogger())

		if len(urls) != 1 || urls[0] != "https://example.com/kept" {
			t.Errorf("expected only the child's URL, got %v", urls)
		}
	})

	t.Run("failed child contributes nothing", func(t *testing.T) {
		t.Parallel()

		renderer := newFakeRenderer()
		renderer.respond("https://example.com/sitemap.xml", 200, `
<sitemapindex>
  <sitemap><loc>https://example.com/broken.xml</loc></sitemap>
  <sitemap><loc>https://example.com/good.xml</loc></sitemap>
</sitemapindex>`)
		renderer.failWith("https://example.com/broken.xml", errors.New("timeout"))
		renderer.respond("https://example.com/good.xml", 200, `
<urlset><url><loc>https://example.com/ok</loc></url></urlset>`)

		urls := ResolveSitemap(context.Background(), renderer, "https://example.com/sitemap.xml", discardLogger())

		if len(urls) != 1 || urls[0] != "https://example.com/ok" {
			t.Errorf("expected surviving child's URL only, got %v", urls)
		}
	})

	t.Run("cyclic index terminates", func(t *testing.T) {
		t.Parallel()

		renderer := newFakeRenderer()
		renderer.respond("https://example.com/a.xml", 200, `
<sitemapindex><sitemap><loc>https://example.com/b.xml</loc></sitemap></sitemapindex>`)
		renderer.respond("https://example.com/b.xml", 200, `
<sitemapindex><sitemap><loc>https://example.com/a.xml</loc></sitemap></sitemapindex>`)

		urls := ResolveSitemap(context.Background(), renderer, "https://example.com/a.xml", discardLogger())

		if len(urls) != 0 {
			t.Errorf("expected no URLs from a pure cycle, got %v", urls)
		}
		if renderer.fetchCount() != 2 {
			t.Errorf("expected each sitemap fetched once, got %d fetches", renderer.fetchCount())
		}
	})

	t.Run("unreachable sitemap yields nothing", func(t *testing.T) {
		t.Parallel()

		renderer := newFakeRenderer()
		renderer.failWith("https://example.com/sitemap.xml", errors.New("no route"))

		urls := ResolveSitemap(context.Background(), renderer, "https://example.com/sitemap.xml", discardLogger())
		if urls != nil {
			t.Errorf("expected nil, got %v", urls)
		}
	})

	t.Run("non-2xx yields nothing", func(t *testing.T) {
		t.Parallel()

		renderer := newFakeRenderer()
		renderer.respond("https://example.com/sitemap.xml", 404, "missing")

		urls := ResolveSitemap(context.Background(), renderer, "https://example.com/sitemap.xml", discardLogger())
		if urls != nil {
			t.Errorf("expected nil, got %v", urls)
		}
	})
}
