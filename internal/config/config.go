package config

import (
	"net/url"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
// These values are chosen to keep crawls polite and bounded by default
// while still covering small and mid-sized sites in one run.
const (
	// DefaultMaxPages is the maximum number of pages to crawl per site.
	// This prevents runaway crawling on large or infinitely-generating
	// sites. Users can override this via the --max-pages CLI flag.
	DefaultMaxPages = 50

	// DefaultPageTimeout is the per-page fetch timeout. 30 seconds covers
	// slow origins without stalling the whole audit on one dead URL.
	DefaultPageTimeout = 30 * time.Second

	// DefaultCrawlDelay is the politeness delay between fetches, used
	// whenever robots.txt does not declare its own crawl-delay.
	DefaultCrawlDelay = 1 * time.Second

	// DefaultUserAgent identifies webdoctor in HTTP requests.
	// A descriptive User-Agent lets site operators identify audit traffic
	// in their logs.
	DefaultUserAgent = "webdoctor/1.0 (+https://github.com/webdoctor/webdoctor)"

	// DefaultMaxBodySize limits the maximum response body size to read.
	// 5MB is sufficient for any realistic HTML page while preventing
	// memory exhaustion from unexpectedly large responses.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB

	// DefaultBatchSize is the number of concurrent audits when processing
	// multiple seed URLs. Each audit owns an independent renderer, so the
	// limit mostly bounds open connections.
	DefaultBatchSize = 4

	// DefaultSlowPageThreshold is the load time above which a page is
	// flagged as slow by the rule engine.
	DefaultSlowPageThreshold = 3 * time.Second

	// AppName is the application name used for XDG directory paths.
	AppName = "webdoctor"
)

// Config holds all configuration options for one webdoctor invocation.
// This struct is populated from CLI flags and passed through the
// application via dependency injection rather than global state.
// It is immutable for the lifetime of a crawl.
//
// Design decision: We use a single flat struct instead of nested structs
// (e.g., CrawlConfig, ReportConfig) for simplicity. The number of options
// is manageable, and nesting would add complexity without significant benefit.
type Config struct {
	// Targets is the list of seed URLs to audit.
	// Each target starts an independent crawl with its own frontier.
	Targets []string

	// MaxPages is the page budget per crawl. Once this many pages have
	// been visited, no further fetch is issued even if URLs remain queued.
	MaxPages int

	// FollowSitemap controls whether sitemap URLs are merged into the
	// frontier alongside the seed URL.
	FollowSitemap bool

	// RespectRobots controls whether robots.txt is fetched and its
	// crawl-delay and disallow directives honored.
	RespectRobots bool

	// PageTimeout is the timeout applied to each individual page fetch.
	// A timeout counts as that page's failure, never a crawl-level abort.
	PageTimeout time.Duration

	// WaitSelector is an optional CSS selector the renderer should wait
	// for before considering a page rendered. Empty means no wait.
	WaitSelector string

	// CrawlDelay is the politeness delay between fetches when robots.txt
	// does not declare one.
	CrawlDelay time.Duration

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string

	// MaxBodySize is the maximum response body size in bytes to read.
	// Set to 0 to use the default.
	MaxBodySize int64

	// BatchSize is the number of concurrent audits for multiple targets.
	BatchSize int

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// JSONReport enables JSON report output instead of the human-readable
	// format. Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown report output instead of the
	// human-readable format. Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the report.
	// When set, the report is written to this file instead of stdout.
	ReportFile string

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .webdoctor in the current directory,
	// the XDG config directory, and the user's home directory, in that order.
	ConfigFilePath string

	// SiteConfigs holds per-site overrides loaded from the config file.
	SiteConfigs *File
}

// NewConfig creates a new Config with default values.
// All fields are set to safe, sensible defaults that work for most use
// cases. Users can override specific values after creation.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero (timeouts, budgets).
// This also serves as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		MaxPages:      DefaultMaxPages,
		FollowSitemap: true,
		RespectRobots: true,
		PageTimeout:   DefaultPageTimeout,
		CrawlDelay:    DefaultCrawlDelay,
		UserAgent:     DefaultUserAgent,
		MaxBodySize:   DefaultMaxBodySize,
		BatchSize:     DefaultBatchSize,
	}
}

// XDGConfigDir returns the XDG config directory for webdoctor,
// searched by FindConfigFile between the current directory and the
// home directory. On Linux: ~/.config/webdoctor
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// This is called once after CLI parsing, before any fetch is attempted:
// a malformed seed URL must abort the whole run immediately.
func (c *Config) Validate() error {
	if len(c.Targets) == 0 {
		return ErrNoTarget
	}

	for _, target := range c.Targets {
		if !isValidSeedURL(target) {
			return ErrInvalidSeedURL
		}
	}

	// Page budget must be positive; zero would mean no crawling
	if c.MaxPages <= 0 {
		return ErrInvalidMaxPages
	}

	// Timeout must be positive; zero timeout would cause immediate failures
	if c.PageTimeout <= 0 {
		return ErrInvalidTimeout
	}

	// CrawlDelay must be non-negative
	if c.CrawlDelay < 0 {
		return ErrInvalidCrawlDelay
	}

	// BatchSize must be positive; zero would mean no auditing
	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	// MaxBodySize must be non-negative
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	// JSONReport and MarkdownReport are mutually exclusive
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	return nil
}

// isValidSeedURL reports whether the target parses as an absolute
// http/https URL with a host.
func isValidSeedURL(target string) bool {
	u, err := url.Parse(target)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}
