package render

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

// Result holds the outcome of rendering one URL.
type Result struct {
	// HTML is the rendered markup.
	HTML string

	// StatusCode is the HTTP response status code. Non-2xx codes are
	// reported here, never as errors; the rule engine consumes them.
	StatusCode int

	// Elapsed is the time the fetch took.
	Elapsed time.Duration
}

// FetchOptions carries per-fetch settings.
type FetchOptions struct {
	// Timeout bounds the fetch. Zero means the renderer's default.
	Timeout time.Duration

	// WaitSelector is a CSS selector to wait for before considering the
	// page rendered. Renderers without scripting support ignore it.
	WaitSelector string
}

// Renderer fetches a URL and returns its rendered markup.
// A Renderer holds exactly one expensive underlying resource per crawl;
// it must not be shared between concurrent crawls, and Close must release
// the resource exactly once.
//
// Design decision: The crawler depends on this interface rather than a
// concrete HTTP client so that a browser-backed implementation can be
// substituted without touching the traversal loop, and so tests can
// inject deterministic fakes.
type Renderer interface {
	// Fetch retrieves the URL. It returns a distinguishable error on
	// timeout or navigation failure (errors.Is(err, ErrTimeout)), and no
	// error for non-2xx HTTP statuses.
	Fetch(ctx context.Context, url string, opts FetchOptions) (*Result, error)

	// Close releases the underlying resource. Safe to call more than
	// once; only the first call has an effect.
	Close() error
}

// ErrTimeout is returned (wrapped) when a fetch exceeds its timeout.
// Callers use errors.Is to distinguish timeouts from other navigation
// failures.
var ErrTimeout = errors.New("fetch timed out")

// HTTPRenderer renders pages with a plain HTTP client.
// It does not execute JavaScript; WaitSelector is accepted and ignored.
//
// Design decision: The client is acquired lazily on first fetch rather
// than in the constructor. Creating a renderer is then free, and a crawl
// that fails validation before its first fetch never opens connections.
// Close is idempotent so the crawler can release the resource
// unconditionally on every exit path.
type HTTPRenderer struct {
	// userAgent is the User-Agent header sent with every request.
	userAgent string

	// timeout is the default per-fetch timeout.
	timeout time.Duration

	// maxBodySize limits the size of response bodies to read.
	maxBodySize int64

	// headers are extra headers added to every request.
	headers map[string]string

	// client is created on first use and torn down by Close.
	client *http.Client
	closed bool
}

// HTTPOption configures an HTTPRenderer.
type HTTPOption func(*HTTPRenderer)

// WithUserAgent sets a custom User-Agent header.
func WithUserAgent(ua string) HTTPOption {
	return func(r *HTTPRenderer) {
		r.userAgent = ua
	}
}

// WithTimeout sets the default per-fetch timeout.
func WithTimeout(d time.Duration) HTTPOption {
	return func(r *HTTPRenderer) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithMaxBodySize sets the maximum response body size to read.
func WithMaxBodySize(size int64) HTTPOption {
	return func(r *HTTPRenderer) {
		if size > 0 {
			r.maxBodySize = size
		}
	}
}

// WithHeaders sets extra headers added to every request.
func WithHeaders(headers map[string]string) HTTPOption {
	return func(r *HTTPRenderer) {
		r.headers = headers
	}
}

// NewHTTPRenderer creates an HTTPRenderer with the given options.
func NewHTTPRenderer(opts ...HTTPOption) *HTTPRenderer {
	r := &HTTPRenderer{
		userAgent:   "webdoctor/1.0 (+https://github.com/webdoctor/webdoctor)",
		timeout:     30 * time.Second,
		maxBodySize: 5 * 1024 * 1024, // 5MB
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Fetch retrieves the URL with the configured client.
func (r *HTTPRenderer) Fetch(ctx context.Context, pageURL string, opts FetchOptions) (*Result, error) {
	if r.closed {
		return nil, ErrClosed
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = r.timeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid request for %s: %w", pageURL, err)
	}

	req.Header.Set("User-Agent", r.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	for k, v := range r.headers {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := r.httpClient().Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, fmt.Errorf("fetching %s: %w", pageURL, ErrTimeout)
		}
		return nil, fmt.Errorf("fetching %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, r.maxBodySize))
	if err != nil {
		if isTimeout(err) {
			return nil, fmt.Errorf("reading %s: %w", pageURL, ErrTimeout)
		}
		return nil, fmt.Errorf("reading %s: %w", pageURL, err)
	}

	return &Result{
		HTML:       string(body),
		StatusCode: resp.StatusCode,
		Elapsed:    time.Since(start),
	}, nil
}

// httpClient returns the lazily-created HTTP client.
func (r *HTTPRenderer) httpClient() *http.Client {
	if r.client == nil {
		r.client = &http.Client{
			// Per-request timeouts come from the fetch context; the
			// client itself stays unbounded so one slow site setting
			// does not leak into another crawl's renderer.
			Transport: &http.Transport{
				MaxIdleConns:        10,
				IdleConnTimeout:     30 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		}
	}
	return r.client
}

// Close releases the underlying HTTP client. Only the first call has an
// effect; later calls return nil.
func (r *HTTPRenderer) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true

	if r.client != nil {
		r.client.CloseIdleConnections()
		r.client = nil
	}
	return nil
}

// isTimeout reports whether the error represents a timeout, either from
// the context deadline or the network layer.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
