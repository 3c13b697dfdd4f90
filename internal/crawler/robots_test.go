package crawler

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestParseRobots(t *testing.T) {
	t.Parallel()

	t.Run("parses sitemaps disallows and crawl delay", func(t *testing.T) {
		t.Parallel()

		content := `User-agent: *
Disallow: /private/
Disallow: /tmp
Crawl-delay: 2
Sitemap: https://example.com/sitemap.xml
Sitemap: https://example.com/news.xml`

		policy := parseRobots(content)

		if len(policy.Sitemaps) != 2 {
			t.Fatalf("expected 2 sitemaps, got %d", len(policy.Sitemaps))
		}
		if policy.Sitemaps[0] != "https://example.com/sitemap.xml" {
			t.Errorf("unexpected first sitemap: %q", policy.Sitemaps[0])
		}
		if len(policy.Disallow) != 2 {
			t.Errorf("expected 2 disallow rules, got %d", len(policy.Disallow))
		}
		if !policy.HasCrawlDelay || policy.CrawlDelay != 2*time.Second {
			t.Errorf("expected crawl delay 2s, got %v (has=%v)", policy.CrawlDelay, policy.HasCrawlDelay)
		}
	})

	t.Run("directives match case-insensitively", func(t *testing.T) {
		t.Parallel()

		policy := parseRobots("SITEMAP: https://example.com/s.xml\nDISALLOW: /x\nCRAWL-DELAY: 1.5")

		if len(policy.Sitemaps) != 1 {
			t.Errorf("expected uppercase sitemap directive parsed, got %d", len(policy.Sitemaps))
		}
		if len(policy.Disallow) != 1 {
			t.Errorf("expected uppercase disallow directive parsed, got %d", len(policy.Disallow))
		}
		if policy.CrawlDelay != 1500*time.Millisecond {
			t.Errorf("expected fractional crawl delay 1.5s, got %v", policy.CrawlDelay)
		}
	})

	t.Run("comments and blank lines are ignored", func(t *testing.T) {
		t.Parallel()

		content := `# a comment
Sitemap: https://example.com/s.xml # trailing comment

Disallow: # value removed by comment`

		policy := parseRobots(content)

		if len(policy.Sitemaps) != 1 || policy.Sitemaps[0] != "https://example.com/s.xml" {
			t.Errorf("unexpected sitemaps: %v", policy.Sitemaps)
		}
		if len(policy.Disallow) != 0 {
			t.Errorf("expected empty disallow value dropped, got %v", policy.Disallow)
		}
	})

	t.Run("malformed crawl delay is skipped", func(t *testing.T) {
		t.Parallel()

		policy := parseRobots("Crawl-delay: 3\nCrawl-delay: soon")

		if !policy.HasCrawlDelay || policy.CrawlDelay != 3*time.Second {
			t.Errorf("expected last valid delay 3s kept, got %v (has=%v)", policy.CrawlDelay, policy.HasCrawlDelay)
		}
	})

	t.Run("empty content yields empty policy", func(t *testing.T) {
		t.Parallel()

		policy := parseRobots("")

		if len(policy.Sitemaps) != 0 || len(policy.Disallow) != 0 || policy.HasCrawlDelay {
			t.Errorf("expected empty policy, got %+v", policy)
		}
	})
}

func TestResolveRobots(t *testing.T) {
	t.Parallel()

	t.Run("fetch failure yields empty policy", func(t *testing.T) {
		t.Parallel()

		renderer := newFakeRenderer()
		renderer.failWith("https://example.com/robots.txt", errors.New("connection refused"))

		policy := ResolveRobots(context.Background(), renderer, "https://example.com", discardLogger())

		if len(policy.Sitemaps) != 0 || policy.HasCrawlDelay {
			t.Errorf("expected empty policy on fetch failure, got %+v", policy)
		}
	})

	t.Run("non-2xx status yields empty policy", func(t *testing.T) {
		t.Parallel()

		renderer := newFakeRenderer()
		renderer.respond("https://example.com/robots.txt", 404, "not found")

		policy := ResolveRobots(context.Background(), renderer, "https://example.com", discardLogger())

		if len(policy.Sitemaps) != 0 {
			t.Errorf("expected empty policy on 404, got %+v", policy)
		}
	})

	t.Run("fetches the well-known path", func(t *testing.T) {
		t.Parallel()

		renderer := newFakeRenderer()
		renderer.respond("https://example.com/robots.txt", 200, "Sitemap: https://example.com/s.xml")

		policy := ResolveRobots(context.Background(), renderer, "https://example.com/deep/page", discardLogger())

		if len(policy.Sitemaps) != 1 {
			t.Fatalf("expected sitemap parsed, got %+v", policy)
		}
		if renderer.fetches[0] != "https://example.com/robots.txt" {
			t.Errorf("expected robots fetched at origin root, got %q", renderer.fetches[0])
		}
	})
}

func TestRobotsPolicyDisallowed(t *testing.T) {
	t.Parallel()

	policy := RobotsPolicy{Disallow: []string{"/private/", "/tmp"}}

	tests := []struct {
		url  string
		want bool
	}{
		{"https://example.com/private/data", true},
		{"https://example.com/tmp", true},
		{"https://example.com/tmpfile", true},
		{"https://example.com/public", false},
		{"https://example.com/", false},
	}

	for _, tt := range tests {
		if got := policy.Disallowed(tt.url); got != tt.want {
			t.Errorf("Disallowed(%q) = %v, want %v", tt.url, got, tt.want)
		}
	}

	empty := RobotsPolicy{}
	if empty.Disallowed("https://example.com/anything") {
		t.Error("empty policy must not disallow anything")
	}
}
