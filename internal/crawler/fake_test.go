package crawler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/webdoctor/webdoctor/internal/render"
)

// fakeRenderer is an in-memory render.Renderer for tests. It serves
// canned responses per URL and records fetch order, fetch timestamps,
// and close calls.
type fakeRenderer struct {
	mu        sync.Mutex
	responses map[string]render.Result
	errors    map[string]error
	fetches   []string
	fetchedAt []time.Time
	closed    int
}

func newFakeRenderer() *fakeRenderer {
	return &fakeRenderer{
		responses: make(map[string]render.Result),
		errors:    make(map[string]error),
	}
}

func (f *fakeRenderer) respond(url string, status int, html string) {
	f.responses[url] = render.Result{HTML: html, StatusCode: status, Elapsed: time.Millisecond}
}

func (f *fakeRenderer) failWith(url string, err error) {
	f.errors[url] = err
}

func (f *fakeRenderer) Fetch(ctx context.Context, url string, _ render.FetchOptions) (*render.Result, error) {
	f.mu.Lock()
	f.fetches = append(f.fetches, url)
	f.fetchedAt = append(f.fetchedAt, time.Now())
	f.mu.Unlock()

	if err, ok := f.errors[url]; ok {
		return nil, err
	}
	if result, ok := f.responses[url]; ok {
		return &result, nil
	}
	return nil, fmt.Errorf("no response configured for %s", url)
}

func (f *fakeRenderer) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed++
	return nil
}

func (f *fakeRenderer) fetchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.fetches)
}
