package model

// Severity represents how strongly an issue affects the health of a site.
//
// Design decision: We use iota-based constants rather than string constants
// for efficiency in comparisons and sorting. The String() method provides
// human-readable output when needed.
type Severity int

const (
	// SeverityInfo indicates informational findings with no score impact.
	// Examples: missing structured data, missing social tags on deep pages.
	SeverityInfo Severity = iota

	// SeverityLow indicates minor issues with limited impact.
	// Examples: thin content, images without alt text.
	SeverityLow

	// SeverityMedium indicates issues that warrant attention.
	// Examples: missing meta description, multiple h1 headings.
	SeverityMedium

	// SeverityHigh indicates serious issues that hurt discoverability.
	// Examples: missing title, missing h1, slow page loads.
	SeverityHigh

	// SeverityCritical indicates issues that make a page effectively broken.
	// Examples: error status codes on crawled pages.
	SeverityCritical
)

// String returns a human-readable representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityLow:
		return "LOW"
	case SeverityMedium:
		return "MEDIUM"
	case SeverityHigh:
		return "HIGH"
	case SeverityCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// Weight returns the score deduction applied for one issue of this severity.
// The health score starts at 100 and deductions are clamped at zero.
func (s Severity) Weight() int {
	switch s {
	case SeverityCritical:
		return 15
	case SeverityHigh:
		return 8
	case SeverityMedium:
		return 4
	case SeverityLow:
		return 2
	default:
		return 0
	}
}

// RuleInfo contains metadata about a rule type including severity,
// impact description, and remediation recommendation.
type RuleInfo struct {
	Severity       Severity
	Impact         string
	Recommendation string
}

// ruleInfoMapping maps rule types to their metadata.
// This centralized mapping ensures consistent scoring across the application.
//
// Design decision: We use a map rather than embedding severity in each rule
// because:
// 1. It allows tuning severities without modifying rule implementations
// 2. It provides a single source of truth for score weights
// 3. It makes it easy to generate rule documentation
var ruleInfoMapping = map[string]RuleInfo{
	// CRITICAL - page effectively broken
	"error_status": {
		Severity:       SeverityCritical,
		Impact:         "The page returned an error status code, so visitors and search engines cannot use it.",
		Recommendation: "Fix the page or remove internal links pointing at it.",
	},

	// HIGH - directly hurts discoverability
	"missing_title": {
		Severity:       SeverityHigh,
		Impact:         "Pages without a title are poorly represented in search results and browser tabs.",
		Recommendation: "Add a unique, descriptive <title> to the page.",
	},
	"missing_h1": {
		Severity:       SeverityHigh,
		Impact:         "The page has no top-level heading, leaving its topic unclear to readers and crawlers.",
		Recommendation: "Add exactly one <h1> describing the page content.",
	},
	"slow_page": {
		Severity:       SeverityHigh,
		Impact:         "Slow pages rank worse and lose visitors before the content renders.",
		Recommendation: "Reduce payload size, enable caching, or defer non-critical resources.",
	},
	"duplicate_title": {
		Severity:       SeverityHigh,
		Impact:         "Multiple pages share the same title, so search engines cannot tell them apart.",
		Recommendation: "Give each page a unique title.",
	},

	// MEDIUM
	"missing_description": {
		Severity:       SeverityMedium,
		Impact:         "Without a meta description, search engines synthesize snippets that may misrepresent the page.",
		Recommendation: "Add a meta description of roughly 50-160 characters.",
	},
	"multiple_h1": {
		Severity:       SeverityMedium,
		Impact:         "Several <h1> headings dilute the page's main topic signal.",
		Recommendation: "Keep a single <h1> and demote the rest to <h2>.",
	},
	"title_length": {
		Severity:       SeverityMedium,
		Impact:         "Titles outside the 10-70 character range are truncated or too vague in search results.",
		Recommendation: "Rewrite the title to fit within 10-70 characters.",
	},
	"missing_canonical": {
		Severity:       SeverityMedium,
		Impact:         "Without a canonical URL, duplicate page variants compete with each other.",
		Recommendation: "Add <link rel=\"canonical\"> pointing at the preferred URL.",
	},

	// LOW
	"thin_content": {
		Severity:       SeverityLow,
		Impact:         "Pages with very little text rarely satisfy a search query on their own.",
		Recommendation: "Expand the page content or merge it into a related page.",
	},
	"missing_alt": {
		Severity:       SeverityLow,
		Impact:         "Images without alt text are invisible to screen readers and image search.",
		Recommendation: "Add descriptive alt attributes to content images.",
	},

	// INFO
	"missing_social_tags": {
		Severity:       SeverityInfo,
		Impact:         "Links shared on social platforms fall back to bare URLs without a preview card.",
		Recommendation: "Add OpenGraph (og:title, og:description, og:image) tags.",
	},
	"missing_structured_data": {
		Severity:       SeverityInfo,
		Impact:         "The page is not eligible for rich results without structured data.",
		Recommendation: "Add JSON-LD structured data describing the page.",
	},
}

// GetRuleInfo returns the metadata for a rule type.
// Unknown rule types default to informational severity with empty guidance.
func GetRuleInfo(ruleType string) RuleInfo {
	if info, ok := ruleInfoMapping[ruleType]; ok {
		return info
	}
	return RuleInfo{Severity: SeverityInfo}
}

// RuleTypes returns all known rule type identifiers.
func RuleTypes() []string {
	types := make([]string, 0, len(ruleInfoMapping))
	for t := range ruleInfoMapping {
		types = append(types, t)
	}
	return types
}
