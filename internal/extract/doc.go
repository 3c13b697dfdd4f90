// Package extract turns rendered HTML into structured page records.
//
// The extractor reads titles, meta tags, headings, links, images,
// canonical URLs, social metadata, and structured data blobs out of one
// page's markup. It never fetches anything itself; callers hand it the
// markup a renderer already produced.
package extract
