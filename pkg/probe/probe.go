// Package probe checks whether a URL exists on the module server.
package probe

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/mpyw/modresolve/internal/output"
)

// Result is the outcome of a single existence check.
type Result struct {
	// URL is the URL that was requested after base URL resolution.
	URL string
	// Exists is true iff the server answered 200.
	Exists bool
	// Status is the HTTP status code, or 0 when no response was received.
	Status int
	// Body is the response body. It is only read for existing URLs.
	Body []byte
	// Err records a transport failure. It is informational only:
	// a failed request is reported as absence like any other non-200 answer.
	Err error
}

// Prober issues existence checks.
//
// Probe is called once per candidate and must return exactly one result.
// It never retries.
type Prober interface {
	Probe(ctx context.Context, url string) Result
}

// ProberFunc adapts a function to the Prober interface.
type ProberFunc func(ctx context.Context, url string) Result

// Probe implements Prober.
func (f ProberFunc) Probe(ctx context.Context, url string) Result {
	return f(ctx, url)
}

// HTTPProber probes URLs over HTTP.
type HTTPProber struct {
	client  *http.Client
	method  string
	base    *url.URL
	timeout time.Duration
	limiter *rate.Limiter
	logger  *log.Logger
}

// Option configures an HTTPProber.
type Option func(*HTTPProber)

// WithClient sets the HTTP client used for probes.
func WithClient(client *http.Client) Option {
	return func(p *HTTPProber) {
		p.client = client
	}
}

// WithMethod sets the request method. GET is used by default because
// manifest probes need the response body.
func WithMethod(method string) Option {
	return func(p *HTTPProber) {
		p.method = method
	}
}

// WithBaseURL resolves host-relative and protocol-relative module URLs
// against base, the way a browser resolves them against the page.
func WithBaseURL(base *url.URL) Option {
	return func(p *HTTPProber) {
		p.base = base
	}
}

// WithTimeout bounds every probe. Zero disables the bound.
func WithTimeout(timeout time.Duration) Option {
	return func(p *HTTPProber) {
		p.timeout = timeout
	}
}

// WithRateLimit limits probes to limit requests per second with the given burst.
// A zero limit disables limiting.
func WithRateLimit(limit rate.Limit, burst int) Option {
	return func(p *HTTPProber) {
		if limit <= 0 {
			p.limiter = nil
			return
		}
		p.limiter = rate.NewLimiter(limit, max(burst, 1))
	}
}

// WithLogger sets the logger for probe diagnostics.
func WithLogger(logger *log.Logger) Option {
	return func(p *HTTPProber) {
		p.logger = logger
	}
}

// NewHTTPProber creates a new HTTPProber.
func NewHTTPProber(opts ...Option) *HTTPProber {
	p := &HTTPProber{
		client: http.DefaultClient,
		method: http.MethodGet,
		logger: output.Discard(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Probe implements Prober.
func (p *HTTPProber) Probe(ctx context.Context, rawURL string) Result {
	target, err := p.resolve(rawURL)
	if err != nil {
		return p.absent(Result{URL: rawURL, Err: err})
	}
	res := Result{URL: target}

	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			res.Err = err
			return p.absent(res)
		}
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, p.method, target, nil)
	if err != nil {
		res.Err = fmt.Errorf("failed to create request: %w", err)
		return p.absent(res)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		res.Err = fmt.Errorf("failed to execute request: %w", err)
		return p.absent(res)
	}
	defer resp.Body.Close()

	res.Status = resp.StatusCode
	if resp.StatusCode != http.StatusOK {
		return p.absent(res)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		res.Err = fmt.Errorf("failed to read response body: %w", err)
		return p.absent(res)
	}
	res.Exists = true
	res.Body = body
	p.logger.Debug("probe hit", "url", target)
	return res
}

func (p *HTTPProber) absent(res Result) Result {
	p.logger.Debug("probe miss", "url", res.URL, "status", res.Status, "error", res.Err)
	return res
}

func (p *HTTPProber) resolve(rawURL string) (string, error) {
	if p.base == nil {
		return rawURL, nil
	}
	ref, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse url: %w", err)
	}
	return p.base.ResolveReference(ref).String(), nil
}
