package model

import (
	"net/url"
	"strings"
	"time"
)

// Page represents the structural facts extracted from one crawled URL.
// It is produced exactly once per visited URL and is immutable after
// creation; ownership passes from the crawler to the audit report.
//
// Design decision: We keep parsed facts only, not the raw response body.
// The rule engine operates on structure (titles, headings, links), and
// dropping the raw markup keeps memory proportional to the page count
// rather than the page sizes.
type Page struct {
	// URL is the full URL of the page as it was dequeued from the frontier.
	URL string `json:"url"`

	// StatusCode is the HTTP response status code reported by the renderer.
	// Non-2xx codes are recorded here, never raised as fetch errors.
	StatusCode int `json:"status_code"`

	// LoadTime is the elapsed time to render the page.
	LoadTime time.Duration `json:"load_time"`

	// Title is the page title from the <title> tag.
	Title string `json:"title,omitempty"`

	// MetaDescription is the content of <meta name="description">.
	MetaDescription string `json:"meta_description,omitempty"`

	// HTMLVersion is the markup version inferred from the doctype
	// (e.g., "HTML5", "XHTML 1.0"). Empty when no doctype is present.
	HTMLVersion string `json:"html_version,omitempty"`

	// Headings maps heading tags (h1..h6) to their occurrence counts.
	// Tags that do not appear on the page are absent from the map.
	Headings map[string]int `json:"headings,omitempty"`

	// WordCount is the number of whitespace-separated words in the
	// rendered body text.
	WordCount int `json:"word_count"`

	// Images contains all <img> references found on the page.
	Images []Image `json:"images,omitempty"`

	// Links contains all anchor elements, classified internal/external.
	Links []Link `json:"links,omitempty"`

	// Canonical is the href of <link rel="canonical">, if any.
	Canonical string `json:"canonical,omitempty"`

	// SocialTags maps OpenGraph and Twitter card properties to their
	// content values (e.g., "og:title", "twitter:card").
	SocialTags map[string]string `json:"social_tags,omitempty"`

	// StructuredData holds the raw JSON-LD blobs found in
	// <script type="application/ld+json"> elements. The blobs are carried
	// through uninterpreted; the rule engine only checks for presence.
	StructuredData []string `json:"structured_data,omitempty"`
}

// Image represents one <img> reference on a page.
type Image struct {
	// Source is the src attribute as written in the markup.
	Source string `json:"source"`

	// Alt is the alt attribute. Empty means missing or blank alt text.
	Alt string `json:"alt,omitempty"`
}

// Link represents one anchor element on a page.
type Link struct {
	// Target is the raw href attribute, unresolved.
	Target string `json:"target"`

	// Text is the anchor's display text, whitespace-trimmed.
	Text string `json:"text,omitempty"`

	// Internal reports whether the link points at the crawl's origin host.
	// See ClassifyLink for the exact heuristic.
	Internal bool `json:"internal"`

	// Nofollow is true when the rel attribute contains "nofollow".
	Nofollow bool `json:"nofollow"`
}

// ClassifyLink reports whether href is internal to originHost when found
// on a page at pageURL.
//
// The classification is deliberately a heuristic, not strict URL
// resolution: a target that does not resolve to an absolute or
// root-relative URL is treated as internal if and only if it does not
// begin with an http/https scheme. Downstream rule counts depend on this
// exact behavior, so it must not be replaced with stricter semantics.
func ClassifyLink(href, pageURL, originHost string) bool {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err == nil {
		base, berr := url.Parse(pageURL)
		if berr == nil {
			resolved := base.ResolveReference(ref)
			if resolved.Host != "" {
				return strings.EqualFold(resolved.Host, originHost)
			}
		}
	}

	// Unresolvable target: internal unless it carries an explicit scheme.
	lower := strings.ToLower(strings.TrimSpace(href))
	return !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://")
}

// InternalLinks returns the links classified as internal.
func (p *Page) InternalLinks() []Link {
	var links []Link
	for _, l := range p.Links {
		if l.Internal {
			links = append(links, l)
		}
	}
	return links
}

// ExternalLinks returns the links classified as external.
func (p *Page) ExternalLinks() []Link {
	var links []Link
	for _, l := range p.Links {
		if !l.Internal {
			links = append(links, l)
		}
	}
	return links
}

// ImagesWithoutAlt returns the images that have no alt text.
func (p *Page) ImagesWithoutAlt() []Image {
	var images []Image
	for _, img := range p.Images {
		if strings.TrimSpace(img.Alt) == "" {
			images = append(images, img)
		}
	}
	return images
}

// HeadingCount returns the number of headings of the given tag (h1..h6).
func (p *Page) HeadingCount(tag string) int {
	return p.Headings[strings.ToLower(tag)]
}
