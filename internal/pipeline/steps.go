package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"time"

	"github.com/webdoctor/webdoctor/internal/config"
	"github.com/webdoctor/webdoctor/internal/crawler"
	"github.com/webdoctor/webdoctor/internal/extract"
	"github.com/webdoctor/webdoctor/internal/model"
	"github.com/webdoctor/webdoctor/internal/render"
	"github.com/webdoctor/webdoctor/internal/rules"
)

// CrawlStep traverses the target site and fills the report with page
// records.
//
// Design decision: The step builds a fresh renderer and crawler per
// execution rather than holding them, because a renderer is bound to one
// crawl's lifecycle: the crawler closes it when the traversal ends, and
// concurrent batch audits must not share connection state.
type CrawlStep struct {
	// cfg supplies crawl parameters and per-site overrides.
	cfg *config.Config

	// logger for structured logging.
	logger *slog.Logger
}

// CrawlStepOption configures a CrawlStep.
type CrawlStepOption func(*CrawlStep)

// WithCrawlLogger sets a custom logger for the crawl step.
func WithCrawlLogger(logger *slog.Logger) CrawlStepOption {
	return func(s *CrawlStep) {
		s.logger = logger
	}
}

// NewCrawlStep creates a crawl step driven by the given configuration.
func NewCrawlStep(cfg *config.Config, opts ...CrawlStepOption) *CrawlStep {
	s := &CrawlStep{
		cfg:    cfg,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *CrawlStep) Name() string {
	return "crawl"
}

// Do crawls the report's seed URL and stores the collected pages.
// Cancellation mid-crawl is absorbed: the partial records are kept and
// the report is marked cancelled, so downstream steps and writers still
// see whatever was collected.
func (s *CrawlStep) Do(ctx context.Context, report *model.AuditReport) error {
	maxPages := s.cfg.MaxPages
	delay := s.cfg.CrawlDelay
	waitSelector := s.cfg.WaitSelector
	headers := map[string]string(nil)

	// Per-site overrides from the config file, keyed by hostname.
	if s.cfg.SiteConfigs != nil {
		if u, err := url.Parse(report.SeedURL); err == nil {
			site := s.cfg.SiteConfigs.GetSiteConfig(u.Host)
			if site.MaxPages > 0 {
				maxPages = site.MaxPages
			}
			if site.CrawlDelay > 0 {
				delay = site.CrawlDelay
			}
			if site.WaitSelector != "" {
				waitSelector = site.WaitSelector
			}
			headers = site.Headers
		}
	}

	renderer := render.NewHTTPRenderer(
		render.WithUserAgent(s.cfg.UserAgent),
		render.WithTimeout(s.cfg.PageTimeout),
		render.WithMaxBodySize(s.cfg.MaxBodySize),
		render.WithHeaders(headers),
	)

	c := crawler.New(renderer, extract.Extract,
		crawler.WithMaxPages(maxPages),
		crawler.WithDelay(delay),
		crawler.WithFollowSitemap(s.cfg.FollowSitemap),
		crawler.WithRespectRobots(s.cfg.RespectRobots),
		crawler.WithPageTimeout(s.cfg.PageTimeout),
		crawler.WithWaitSelector(waitSelector),
		crawler.WithLogger(s.logger),
	)

	pages, err := c.Crawl(ctx, report.SeedURL)

	stats := c.Stats()
	report.Pages = pages
	report.FailedURLs = stats.FailedURLs
	report.CrawlDelay = stats.EffectiveDelay
	report.SitemapURLCount = stats.SitemapURLs

	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			report.Cancelled = true
			return nil
		}
		return err
	}

	return nil
}

// EvaluateStep runs the health rule engine over the crawled pages.
type EvaluateStep struct {
	// slowPageThreshold is the load time above which pages are flagged.
	slowPageThreshold time.Duration
}

// EvaluateStepOption configures an EvaluateStep.
type EvaluateStepOption func(*EvaluateStep)

// WithSlowPageThreshold sets the slow page threshold for evaluation.
func WithSlowPageThreshold(d time.Duration) EvaluateStepOption {
	return func(s *EvaluateStep) {
		if d > 0 {
			s.slowPageThreshold = d
		}
	}
}

// NewEvaluateStep creates a rule evaluation step.
func NewEvaluateStep(opts ...EvaluateStepOption) *EvaluateStep {
	s := &EvaluateStep{
		slowPageThreshold: config.DefaultSlowPageThreshold,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *EvaluateStep) Name() string {
	return "evaluate"
}

// Do evaluates the report's pages and computes the health score.
// Evaluation is pure computation over already-collected pages and needs
// no cancellation handling of its own.
func (s *EvaluateStep) Do(_ context.Context, report *model.AuditReport) error {
	engine := rules.NewEngine(rules.WithSlowPageThreshold(s.slowPageThreshold))
	engine.Evaluate(report)
	return nil
}

// DefaultPipeline builds the standard audit pipeline: crawl, then
// evaluate. This is the pipeline the CLI runs for every target.
func DefaultPipeline(cfg *config.Config, logger *slog.Logger) *Pipeline {
	p := New(WithLogger(logger))
	p.AddSteps(
		NewCrawlStep(cfg, WithCrawlLogger(logger)),
		NewEvaluateStep(),
	)
	return p
}
