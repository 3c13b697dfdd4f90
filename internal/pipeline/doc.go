// Package pipeline coordinates the audit phases.
//
// An audit is a pipeline of steps run in order against one report: the
// crawl step traverses the site and collects page records, and the
// evaluate step derives issues and a health score from them. The
// BatchProcessor runs one pipeline per target site with a bounded level
// of concurrency when several seed URLs are audited in one invocation.
package pipeline
