package crawler

import (
	"net/url"
	"strings"
)

// Frontier is the mutable traversal state of one crawl: the set of URLs
// waiting to be visited, the set already visited, and the page budget.
//
// Invariants, held at all times:
//   - pending and visited are disjoint
//   - a URL enters pending only if it is in neither set
//   - len(visited) never exceeds the budget; once it reaches the budget,
//     Take signals exhaustion even while URLs remain pending
//
// The Frontier is mutated only by the crawl loop that owns it; it is not
// safe for concurrent use and does not need to be.
type Frontier struct {
	// order preserves insertion order for traversal; pending mirrors it
	// as a set for O(1) membership checks.
	order   []string
	pending map[string]struct{}
	visited map[string]struct{}
	budget  int
}

// NewFrontier creates an empty Frontier with the given page budget.
func NewFrontier(budget int) *Frontier {
	return &Frontier{
		pending: make(map[string]struct{}),
		visited: make(map[string]struct{}),
		budget:  budget,
	}
}

// Seed adds the URLs to the pending set, skipping any already pending or
// visited. Insertion order is preserved for traversal.
func (f *Frontier) Seed(urls []string) {
	for _, u := range urls {
		f.Offer(u)
	}
}

// Offer adds one URL to the pending set if it is absent from both sets.
func (f *Frontier) Offer(rawURL string) {
	key := normalizeURL(rawURL)
	if _, ok := f.visited[key]; ok {
		return
	}
	if _, ok := f.pending[key]; ok {
		return
	}
	f.pending[key] = struct{}{}
	f.order = append(f.order, rawURL)
}

// Take removes and returns the next pending URL in insertion order.
// The second return value is false when the frontier is exhausted:
// nothing is pending, or the visit budget has been reached. Exhaustion
// is terminal for a crawl; callers stop the traversal loop on it.
func (f *Frontier) Take() (string, bool) {
	if len(f.visited) >= f.budget {
		return "", false
	}
	for len(f.order) > 0 {
		u := f.order[0]
		f.order = f.order[1:]
		key := normalizeURL(u)
		// Entries can go stale when a URL offered earlier was visited
		// through another spelling; skip them.
		if _, ok := f.pending[key]; !ok {
			continue
		}
		return u, true
	}
	return "", false
}

// MarkVisited moves a URL from pending into visited.
func (f *Frontier) MarkVisited(rawURL string) {
	key := normalizeURL(rawURL)
	delete(f.pending, key)
	f.visited[key] = struct{}{}
}

// VisitedCount returns the number of URLs marked visited.
func (f *Frontier) VisitedCount() int {
	return len(f.visited)
}

// PendingCount returns the number of URLs waiting to be visited.
func (f *Frontier) PendingCount() int {
	return len(f.pending)
}

// normalizeURL normalizes a URL for deduplication.
//
// Design decision: We normalize URLs because:
//  1. The same page can have different URL representations
//  2. Fragment (#anchor) doesn't change content
//  3. An empty path and "/" are equivalent
func normalizeURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	u.Fragment = ""
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	if u.Path == "" {
		u.Path = "/"
	}

	return u.String()
}
