package crawler

import "errors"

var (
	// ErrInvalidSeed is returned when the seed URL is not an absolute
	// http or https URL with a host. This is the only fatal error a crawl
	// can produce before its first fetch.
	ErrInvalidSeed = errors.New("crawler: invalid seed URL")
)
