package model

import "time"

// AuditReport is the main result structure for one site audit.
// It accumulates crawl results and the issues derived from them.
//
// Design decision: We use a single struct for both crawl output and rule
// output rather than separate result types because report writers need
// both halves together, and the crawl and evaluation phases never run
// concurrently for the same report.
type AuditReport struct {
	// SeedURL is the starting URL supplied by the caller.
	SeedURL string `json:"seed_url"`

	// DateAudited is the timestamp when the audit was performed.
	DateAudited time.Time `json:"date_audited"`

	// Pages contains the extracted facts for every successfully processed
	// page, in the order the URLs were dequeued and processed.
	Pages []*Page `json:"pages,omitempty"`

	// CrawlDelay is the effective politeness delay used between fetches.
	CrawlDelay time.Duration `json:"crawl_delay"`

	// SitemapURLCount is the number of URLs seeded from sitemaps.
	SitemapURLCount int `json:"sitemap_url_count"`

	// FailedURLs lists URLs that were attempted but failed to render or
	// extract. They are excluded from Pages but kept for diagnostics.
	FailedURLs []string `json:"failed_urls,omitempty"`

	// Issues contains the rule violations found during evaluation.
	Issues []Issue `json:"issues,omitempty"`

	// Score is the 0-100 health score computed by the rule engine.
	Score int `json:"score"`

	// Cancelled is true when the audit was cut short by cancellation;
	// Pages then holds the records collected before the stop.
	Cancelled bool `json:"cancelled"`

	// Error contains any fatal error that occurred during the audit.
	// Only set if the audit failed before or during the crawl.
	Error error `json:"-"`

	// ErrorMessage is the string form of Error for serialization.
	ErrorMessage string `json:"error,omitempty"`
}

// Issue represents a single rule violation on one page.
type Issue struct {
	// Type is the rule type identifier, mapping into the rule metadata
	// in severity.go.
	Type string `json:"type"`

	// Severity is the risk level of the issue.
	Severity Severity `json:"severity"`

	// SeverityText is the human-readable severity.
	SeverityText string `json:"severity_text"`

	// Title is a short description of the issue.
	Title string `json:"title"`

	// Description provides more detail about the issue.
	Description string `json:"description,omitempty"`

	// Impact explains why this issue matters.
	Impact string `json:"impact,omitempty"`

	// Recommendation provides guidance on how to address the issue.
	Recommendation string `json:"recommendation,omitempty"`

	// PageURL is the page where the issue was found.
	PageURL string `json:"page_url,omitempty"`
}

// NewAuditReport creates an empty report for the given seed URL with the
// audit timestamp set to now.
func NewAuditReport(seedURL string) *AuditReport {
	return &AuditReport{
		SeedURL:     seedURL,
		DateAudited: time.Now(),
		Score:       100,
	}
}

// AddIssue appends an issue of the given rule type, filling severity,
// impact, and recommendation from the central rule metadata.
func (r *AuditReport) AddIssue(ruleType, title, description, pageURL string) {
	info := GetRuleInfo(ruleType)
	r.Issues = append(r.Issues, Issue{
		Type:           ruleType,
		Severity:       info.Severity,
		SeverityText:   info.Severity.String(),
		Title:          title,
		Description:    description,
		Impact:         info.Impact,
		Recommendation: info.Recommendation,
		PageURL:        pageURL,
	})
}

// PagesCrawled returns the number of successfully processed pages.
func (r *AuditReport) PagesCrawled() int {
	return len(r.Pages)
}

// HasIssues returns true if any rule violations were recorded.
func (r *AuditReport) HasIssues() bool {
	return len(r.Issues) > 0
}

// IssuesBySeverity returns the issues filtered by severity.
func (r *AuditReport) IssuesBySeverity(severity Severity) []Issue {
	var result []Issue
	for _, issue := range r.Issues {
		if issue.Severity == severity {
			result = append(result, issue)
		}
	}
	return result
}

// CountBySeverity returns the number of issues at each severity level,
// keyed by Severity value.
func (r *AuditReport) CountBySeverity() map[Severity]int {
	counts := make(map[Severity]int)
	for _, issue := range r.Issues {
		counts[issue.Severity]++
	}
	return counts
}
