package rules

import (
	"fmt"
	"strings"
	"time"

	"github.com/webdoctor/webdoctor/internal/model"
)

const (
	// minTitleLength and maxTitleLength bound the acceptable title size.
	minTitleLength = 10
	maxTitleLength = 70

	// thinContentWords is the word count below which a page is flagged
	// as thin.
	thinContentWords = 150
)

// pageRule inspects one page and records any violations on the report.
type pageRule func(r *model.AuditReport, p *model.Page)

// siteRule inspects the whole page set for cross-page violations.
type siteRule func(r *model.AuditReport, pages []*model.Page)

// Engine evaluates crawled pages against the built-in health rules and
// assigns the report a 0-100 score.
//
// Design decision: Rules are plain functions registered in two slices,
// per-page and per-site, rather than an interface hierarchy. Each rule
// is a few lines of structural checks; an interface per rule would
// triple the code for no behavioral gain. The severity and remediation
// metadata live in the model package so report writers see the same
// values the engine applied.
type Engine struct {
	slowPageThreshold time.Duration
	pageRules         []pageRule
	siteRules         []siteRule
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithSlowPageThreshold sets the load time above which a page is flagged
// as slow.
func WithSlowPageThreshold(d time.Duration) EngineOption {
	return func(e *Engine) {
		if d > 0 {
			e.slowPageThreshold = d
		}
	}
}

// NewEngine creates an Engine with the full rule set registered.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		slowPageThreshold: 3 * time.Second,
	}

	for _, opt := range opts {
		opt(e)
	}

	e.pageRules = []pageRule{
		checkStatus,
		checkTitle,
		checkDescription,
		checkHeadings,
		e.checkLoadTime,
		checkContent,
		checkImages,
		checkCanonical,
		checkSocialTags,
		checkStructuredData,
	}
	e.siteRules = []siteRule{
		checkDuplicateTitles,
	}

	return e
}

// Evaluate runs every rule over the report's pages and computes the
// health score. The score starts at 100 and each issue deducts its
// severity weight, clamped at zero. Evaluate is idempotent only on a
// fresh report; callers evaluate each report exactly once.
func (e *Engine) Evaluate(report *model.AuditReport) {
	for _, page := range report.Pages {
		for _, rule := range e.pageRules {
			rule(report, page)
		}
	}
	for _, rule := range e.siteRules {
		rule(report, report.Pages)
	}

	score := 100
	for _, issue := range report.Issues {
		score -= issue.Severity.Weight()
	}
	if score < 0 {
		score = 0
	}
	report.Score = score
}

func checkStatus(r *model.AuditReport, p *model.Page) {
	if p.StatusCode >= 400 {
		r.AddIssue("error_status",
			fmt.Sprintf("Page returns HTTP %d", p.StatusCode),
			"The page was reachable but responded with an error status.",
			p.URL)
	}
}

func checkTitle(r *model.AuditReport, p *model.Page) {
	title := strings.TrimSpace(p.Title)
	if title == "" {
		r.AddIssue("missing_title", "Page has no title", "", p.URL)
		return
	}
	if len(title) < minTitleLength || len(title) > maxTitleLength {
		r.AddIssue("title_length",
			fmt.Sprintf("Title is %d characters", len(title)),
			fmt.Sprintf("Titles should be between %d and %d characters.", minTitleLength, maxTitleLength),
			p.URL)
	}
}

func checkDescription(r *model.AuditReport, p *model.Page) {
	if strings.TrimSpace(p.MetaDescription) == "" {
		r.AddIssue("missing_description", "Page has no meta description", "", p.URL)
	}
}

func checkHeadings(r *model.AuditReport, p *model.Page) {
	switch h1 := p.HeadingCount("h1"); {
	case h1 == 0:
		r.AddIssue("missing_h1", "Page has no h1 heading", "", p.URL)
	case h1 > 1:
		r.AddIssue("multiple_h1",
			fmt.Sprintf("Page has %d h1 headings", h1),
			"A page should have exactly one top-level heading.",
			p.URL)
	}
}

func (e *Engine) checkLoadTime(r *model.AuditReport, p *model.Page) {
	if p.LoadTime > e.slowPageThreshold {
		r.AddIssue("slow_page",
			fmt.Sprintf("Page took %s to load", p.LoadTime.Round(time.Millisecond)),
			fmt.Sprintf("Load time exceeded the %s threshold.", e.slowPageThreshold),
			p.URL)
	}
}

func checkContent(r *model.AuditReport, p *model.Page) {
	if p.WordCount < thinContentWords {
		r.AddIssue("thin_content",
			fmt.Sprintf("Page has only %d words", p.WordCount),
			fmt.Sprintf("Pages below %d words are considered thin.", thinContentWords),
			p.URL)
	}
}

func checkImages(r *model.AuditReport, p *model.Page) {
	if missing := len(p.ImagesWithoutAlt()); missing > 0 {
		r.AddIssue("missing_alt",
			fmt.Sprintf("%d of %d images have no alt text", missing, len(p.Images)),
			"",
			p.URL)
	}
}

func checkCanonical(r *model.AuditReport, p *model.Page) {
	if strings.TrimSpace(p.Canonical) == "" {
		r.AddIssue("missing_canonical", "Page has no canonical URL", "", p.URL)
	}
}

func checkSocialTags(r *model.AuditReport, p *model.Page) {
	if len(p.SocialTags) == 0 {
		r.AddIssue("missing_social_tags", "Page has no social sharing tags", "", p.URL)
	}
}

func checkStructuredData(r *model.AuditReport, p *model.Page) {
	if len(p.StructuredData) == 0 {
		r.AddIssue("missing_structured_data", "Page has no structured data", "", p.URL)
	}
}

// checkDuplicateTitles flags every group of pages sharing a non-empty
// title. One issue per duplicate group, attributed to the first page in
// crawl order.
func checkDuplicateTitles(r *model.AuditReport, pages []*model.Page) {
	byTitle := make(map[string][]*model.Page)
	var order []string
	for _, p := range pages {
		title := strings.TrimSpace(p.Title)
		if title == "" {
			continue
		}
		if _, seen := byTitle[title]; !seen {
			order = append(order, title)
		}
		byTitle[title] = append(byTitle[title], p)
	}

	for _, title := range order {
		group := byTitle[title]
		if len(group) < 2 {
			continue
		}
		var urls []string
		for _, p := range group {
			urls = append(urls, p.URL)
		}
		r.AddIssue("duplicate_title",
			fmt.Sprintf("%d pages share the title %q", len(group), title),
			"Shared by: "+strings.Join(urls, ", "),
			group[0].URL)
	}
}
