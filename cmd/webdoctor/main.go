// Package main provides the entry point for the webdoctor CLI.
//
// Webdoctor is a website health auditing tool. It crawls a site politely,
// extracts structural facts from every page, and reports SEO and content
// issues with a 0-100 health score.
//
// Usage:
//
//	webdoctor audit https://example.com
//	webdoctor audit --json https://example.com
//
// See --help for all available options.
package main

// main is the entry point for webdoctor.
func main() {
	Execute()
}
