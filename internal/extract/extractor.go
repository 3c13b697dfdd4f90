package extract

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/dyatlov/go-opengraph/opengraph"
	"golang.org/x/net/html"

	"github.com/webdoctor/webdoctor/internal/model"
)

// Extract parses rendered markup into a page record.
//
// It is a pure function over its inputs: no network access, no shared
// state. Malformed markup never fails the extraction; the lenient HTML
// parser produces a tree for any input, and missing elements simply
// leave the corresponding record fields empty. The only error path is a
// pageURL that cannot be parsed, which makes link classification
// impossible.
//
// Design decision: Extraction runs goquery over the markup once and the
// OpenGraph processor over the same markup separately. The double parse
// is deliberate: go-opengraph owns the og:* property quirks (arrays,
// structured sub-properties) that a naive meta-tag scan gets wrong, and
// pages are small enough that a second pass is cheap.
func Extract(rawHTML, pageURL string) (*model.Page, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, err
	}

	page := &model.Page{
		URL:      pageURL,
		Headings: make(map[string]int),
	}

	page.HTMLVersion = htmlVersion(doc)
	page.Title = strings.TrimSpace(doc.Find("title").First().Text())
	page.MetaDescription = metaContent(doc, "description")
	page.Canonical = canonicalHref(doc)
	page.WordCount = wordCount(doc)

	for _, tag := range []string{"h1", "h2", "h3", "h4", "h5", "h6"} {
		if count := doc.Find(tag).Length(); count > 0 {
			page.Headings[tag] = count
		}
	}

	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		src, ok := s.Attr("src")
		if !ok || strings.TrimSpace(src) == "" {
			return
		}
		alt, _ := s.Attr("alt")
		page.Images = append(page.Images, model.Image{Source: src, Alt: alt})
	})

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		rel, _ := s.Attr("rel")
		page.Links = append(page.Links, model.Link{
			Target:   href,
			Text:     strings.TrimSpace(s.Text()),
			Internal: model.ClassifyLink(href, pageURL, base.Host),
			Nofollow: relContains(rel, "nofollow"),
		})
	})

	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		if blob := strings.TrimSpace(s.Text()); blob != "" {
			page.StructuredData = append(page.StructuredData, blob)
		}
	})

	page.SocialTags = socialTags(doc, rawHTML)

	return page, nil
}

// htmlVersion infers the markup version from the document's doctype.
// A bare <!DOCTYPE html> is HTML5; legacy doctypes are identified by
// their public identifier. No doctype yields an empty string.
func htmlVersion(doc *goquery.Document) string {
	var version string
	doc.Each(func(_ int, s *goquery.Selection) {
		for _, node := range s.Nodes {
			for child := node.FirstChild; child != nil; child = child.NextSibling {
				if child.Type != html.DoctypeNode {
					continue
				}
				version = versionFromDoctype(child)
				return
			}
		}
	})
	return version
}

func versionFromDoctype(doctype *html.Node) string {
	if strings.EqualFold(doctype.Data, "html") && len(doctype.Attr) == 0 {
		return "HTML5"
	}
	for _, attr := range doctype.Attr {
		if attr.Key != "public" {
			continue
		}
		public := strings.ToLower(attr.Val)
		switch {
		case strings.Contains(public, "xhtml 1.1"):
			return "XHTML 1.1"
		case strings.Contains(public, "xhtml 1.0"):
			return "XHTML 1.0"
		case strings.Contains(public, "html 4.01"):
			return "HTML 4.01"
		default:
			return "Unknown (Pre-HTML5)"
		}
	}
	return "Unknown (Pre-HTML5)"
}

// metaContent returns the content attribute of <meta name="...">.
func metaContent(doc *goquery.Document, name string) string {
	var content string
	doc.Find("meta[name]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		n, _ := s.Attr("name")
		if !strings.EqualFold(strings.TrimSpace(n), name) {
			return true
		}
		c, _ := s.Attr("content")
		content = strings.TrimSpace(c)
		return false
	})
	return content
}

// canonicalHref returns the href of the first <link rel="canonical">.
func canonicalHref(doc *goquery.Document) string {
	var href string
	doc.Find("link[rel]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		rel, _ := s.Attr("rel")
		if !strings.EqualFold(strings.TrimSpace(rel), "canonical") {
			return true
		}
		h, _ := s.Attr("href")
		href = strings.TrimSpace(h)
		return false
	})
	return href
}

// wordCount counts whitespace-separated words in the body text.
// Script and style contents are removed first so embedded code does not
// inflate the count.
func wordCount(doc *goquery.Document) int {
	body := doc.Find("body").Clone()
	body.Find("script, style, noscript").Remove()
	return len(strings.Fields(body.Text()))
}

// relContains reports whether a whitespace-separated rel attribute
// contains the given token.
func relContains(rel, token string) bool {
	for _, t := range strings.Fields(rel) {
		if strings.EqualFold(t, token) {
			return true
		}
	}
	return false
}

// socialTags collects OpenGraph and Twitter card metadata.
// OpenGraph properties go through go-opengraph; twitter:* tags are plain
// named meta tags and are scanned directly.
func socialTags(doc *goquery.Document, rawHTML string) map[string]string {
	tags := make(map[string]string)

	og := opengraph.NewOpenGraph()
	if err := og.ProcessHTML(strings.NewReader(rawHTML)); err == nil {
		if og.Title != "" {
			tags["og:title"] = og.Title
		}
		if og.Description != "" {
			tags["og:description"] = og.Description
		}
		if og.Type != "" {
			tags["og:type"] = og.Type
		}
		if og.URL != "" {
			tags["og:url"] = og.URL
		}
		if og.SiteName != "" {
			tags["og:site_name"] = og.SiteName
		}
		if len(og.Images) > 0 && og.Images[0].URL != "" {
			tags["og:image"] = og.Images[0].URL
		}
	}

	doc.Find("meta[name]").Each(func(_ int, s *goquery.Selection) {
		name, _ := s.Attr("name")
		name = strings.ToLower(strings.TrimSpace(name))
		if !strings.HasPrefix(name, "twitter:") {
			return
		}
		if content, ok := s.Attr("content"); ok && strings.TrimSpace(content) != "" {
			tags[name] = strings.TrimSpace(content)
		}
	})

	if len(tags) == 0 {
		return nil
	}
	return tags
}
