package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"crypto_dash/internal/infra"

	"github.com/google/uuid"
)

// DefaultTimeout bounds a single attempt.
const DefaultTimeout = 15 * time.Second

// Request describes one logical outbound call. It is never modified while
// the call is retried.
type Request struct {
	Method string
	Path   string
	Params url.Values
	Body   []byte
}

// Get builds a GET request for path with optional query params.
func Get(path string, params url.Values) Request {
	return Request{Method: http.MethodGet, Path: path, Params: params}
}

// Response is a successful (2xx) reply.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	Retries    int // retries it took to obtain this response
}

// Sleeper waits for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// Client sends every call through the retry policy of RetryDelay.
// Safe for concurrent use; each call's retry sequence is independent.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	header     http.Header
	limiter    *infra.RateLimiter
	breaker    *infra.CircuitBreaker
	sleep      Sleeper

	mu      sync.Mutex
	lastErr error // last call that counted against the breaker
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-attempt timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithTransport replaces the underlying round tripper.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) { c.httpClient.Transport = rt }
}

// WithHeader adds a header sent on every attempt.
func WithHeader(key, value string) Option {
	return func(c *Client) { c.header.Set(key, value) }
}

// WithRateLimiter gates the first attempt of every call on rl. Retries are
// paced by RetryDelay alone and only spend a token when one is free.
func WithRateLimiter(rl *infra.RateLimiter) Option {
	return func(c *Client) { c.limiter = rl }
}

// WithCircuitBreaker short-circuits calls while cb is open. A context
// marked with infra.WithBreakerBypass resets cb and always goes out.
func WithCircuitBreaker(cb *infra.CircuitBreaker) Option {
	return func(c *Client) { c.breaker = cb }
}

// WithSleeper replaces the wait between attempts.
func WithSleeper(s Sleeper) Option {
	return func(c *Client) { c.sleep = s }
}

// New creates a client rooted at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base URL: %q", baseURL)
	}

	c := &Client{
		baseURL:    u,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		header:     make(http.Header),
		sleep:      sleepContext,
	}
	c.header.Set("Accept", "application/json")
	c.header.Set("User-Agent", infra.AppName+"/1.0")

	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// URL resolves req against the base URL.
func (c *Client) URL(req Request) string {
	u := *c.baseURL
	u.Path = c.baseURL.Path + "/" + strings.TrimLeft(req.Path, "/")
	u.RawPath = ""
	u.RawQuery = ""
	if len(req.Params) > 0 {
		u.RawQuery = req.Params.Encode()
	}
	return u.String()
}

// Do issues req, retrying transient failures. The returned error is the
// last attempt's error, unchanged. While the breaker is open no request is
// sent and the last failed call's error is returned instead.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	if req.Method == "" {
		req.Method = http.MethodGet
	}
	if c.breaker != nil {
		if infra.BreakerBypassed(ctx) && c.breaker.State() != infra.StateClosed {
			slog.Info("Manual retry resets circuit breaker", slog.String("url", c.URL(req)))
			c.breaker.Reset()
		}
		if !c.breaker.Allow() {
			return nil, c.openError()
		}
	}

	resp, err := c.run(ctx, Attempt{CallID: uuid.NewString(), Request: req})

	if c.breaker != nil && ctx.Err() == nil {
		if err != nil && countsAgainstUpstream(err) {
			c.mu.Lock()
			c.lastErr = err
			c.mu.Unlock()
			c.breaker.RecordFailure()
		} else {
			c.breaker.RecordSuccess()
		}
	}
	return resp, err
}

func (c *Client) openError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lastErr != nil {
		return c.lastErr
	}
	return ErrCircuitOpen
}

// GetJSON issues a GET and decodes the body into out.
func (c *Client) GetJSON(ctx context.Context, path string, params url.Values, out any) error {
	resp, err := c.Do(ctx, Get(path, params))
	if err != nil {
		return err
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func (c *Client) run(ctx context.Context, a Attempt) (*Response, error) {
	target := c.URL(a.Request)

	for {
		resp, err := c.issue(ctx, a, target)
		if err == nil {
			resp.Retries = a.N
			return resp, nil
		}
		if ctx.Err() != nil {
			return nil, err
		}

		delay, retry := RetryDelay(a, err)
		if !retry {
			if a.N > 0 {
				slog.Warn("Request failed after retries",
					slog.String("call_id", a.CallID),
					slog.String("url", target),
					slog.Int("retries", a.N),
					slog.Any("error", err))
			}
			return nil, err
		}

		a = a.Next()
		slog.Info("Retrying request",
			slog.String("call_id", a.CallID),
			slog.String("url", target),
			slog.Int("attempt", a.N),
			slog.Int("status", StatusCode(err)),
			slog.Duration("delay", delay))

		if err := c.sleep(ctx, delay); err != nil {
			return nil, err
		}
	}
}

func (c *Client) issue(ctx context.Context, a Attempt, target string) (*Response, error) {
	if c.limiter != nil {
		if a.N == 0 {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, err
			}
		} else {
			c.limiter.TryAcquire()
		}
	}

	var body io.Reader
	if len(a.Request.Body) > 0 {
		body = bytes.NewReader(a.Request.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, a.Request.Method, target, body)
	if err != nil {
		return nil, err
	}
	for k, v := range c.header {
		httpReq.Header[k] = v
	}
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{
			Method:     a.Request.Method,
			URL:        target,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Header:     resp.Header,
			Body:       data,
		}
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       data,
	}, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
