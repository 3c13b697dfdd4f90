package config

import (
	"maps"
	"time"
)

// SiteConfig holds site-specific configuration for a single host.
// This allows customizing crawl behavior per audited site.
type SiteConfig struct {
	// MaxPages overrides the global page budget for this site.
	// If zero, the global MaxPages is used.
	MaxPages int `yaml:"maxPages,omitempty"`

	// CrawlDelay overrides the default politeness delay for this site.
	// Robots-declared crawl-delay still takes precedence when robots.txt
	// is respected.
	CrawlDelay time.Duration `yaml:"crawlDelay,omitempty"`

	// WaitSelector is a CSS selector the renderer waits for before
	// considering pages on this site rendered.
	WaitSelector string `yaml:"waitSelector,omitempty"`

	// Headers are custom HTTP headers to include in requests to this site.
	Headers map[string]string `yaml:"headers,omitempty"`
}

// File represents the structure of the .webdoctor configuration file.
type File struct {
	// Sites maps hostnames to their site-specific configurations.
	// Keys should be the hostname without the protocol (e.g., "example.com").
	Sites map[string]SiteConfig `yaml:"sites,omitempty"`

	// Defaults contains default site configuration applied to all sites
	// unless overridden in the site-specific configuration.
	Defaults SiteConfig `yaml:"defaults,omitempty"`
}

// GetSiteConfig returns the configuration for a specific host.
// It merges the site-specific configuration with defaults.
// The returned Headers map is always a fresh copy: merging one site's
// headers must never write into the shared Defaults map, or headers
// meant for one host would leak into requests to every other host.
func (cf *File) GetSiteConfig(host string) SiteConfig {
	// Start with defaults, cloning the map so the merge below cannot
	// mutate cf.Defaults.Headers.
	result := cf.Defaults
	result.Headers = maps.Clone(cf.Defaults.Headers)

	// Override with site-specific configuration if present
	if siteConfig, ok := cf.Sites[host]; ok {
		if siteConfig.MaxPages != 0 {
			result.MaxPages = siteConfig.MaxPages
		}
		if siteConfig.CrawlDelay != 0 {
			result.CrawlDelay = siteConfig.CrawlDelay
		}
		if siteConfig.WaitSelector != "" {
			result.WaitSelector = siteConfig.WaitSelector
		}
		if len(siteConfig.Headers) > 0 {
			if result.Headers == nil {
				result.Headers = make(map[string]string)
			}
			for k, v := range siteConfig.Headers {
				result.Headers[k] = v
			}
		}
	}

	return result
}
