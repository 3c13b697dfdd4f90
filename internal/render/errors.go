package render

import "errors"

// ErrClosed is returned when Fetch is called after Close.
// The renderer resource belongs to exactly one crawl invocation and must
// not be reused once released.
var ErrClosed = errors.New("renderer is closed")
