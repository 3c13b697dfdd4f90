// Package render fetches URLs and returns their rendered markup.
//
// The Renderer interface is the crawler's one expensive, stateful
// resource: each crawl invocation owns exactly one Renderer, acquires it
// lazily on the first fetch, and releases it exactly once when the crawl
// ends, on success and failure paths alike.
//
// HTTPRenderer is the default implementation. It performs plain HTTP
// fetches without JavaScript execution; the WaitSelector fetch option is
// accepted for contract compatibility and ignored.
package render
