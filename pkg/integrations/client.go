package integrations

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/matzehuels/gitmaster/pkg/errors"
	"github.com/matzehuels/gitmaster/pkg/httputil"
	"github.com/matzehuels/gitmaster/pkg/observability"
)

const (
	httpTimeout    = 30 * time.Second
	defaultRetries = 3
	defaultDelay   = time.Second
	// maxBodySize bounds how much of a response body is read.
	maxBodySize = 32 << 20
)

// Client provides shared HTTP functionality for repository host clients.
type Client struct {
	http    *http.Client
	baseURL string
	headers map[string]string
	retries int
	delay   time.Duration
}

// Option configures a [Client].
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithRetry sets the attempt count and initial backoff delay.
func WithRetry(attempts int, delay time.Duration) Option {
	return func(c *Client) {
		c.retries = attempts
		c.delay = delay
	}
}

// NewClient creates a Client rooted at baseURL. Headers are sent with every
// request; pass nil if none are needed.
func NewClient(baseURL string, headers map[string]string, opts ...Option) *Client {
	c := &Client{
		http:    &http.Client{Timeout: httpTimeout},
		baseURL: baseURL,
		headers: headers,
		retries: defaultRetries,
		delay:   defaultDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the root URL requests are resolved against.
func (c *Client) BaseURL() string { return c.baseURL }

// Get performs a GET request and JSON-decodes the response into v.
func (c *Client) Get(ctx context.Context, path string, v any) error {
	body, err := c.Do(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return err
	}
	return decode(body, v)
}

// GetRaw performs a GET request with extra headers and returns the body.
func (c *Client) GetRaw(ctx context.Context, path string, headers map[string]string) ([]byte, error) {
	return c.Do(ctx, http.MethodGet, path, nil, headers)
}

// Post sends in as a JSON body and decodes the JSON response into out.
func (c *Client) Post(ctx context.Context, path string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode request body")
	}
	body, err := c.Do(ctx, http.MethodPost, path, payload, map[string]string{"Content-Type": "application/json"})
	if err != nil {
		return err
	}
	return decode(body, out)
}

// Do executes a request with retries and returns the response body of a 2xx
// response. Other statuses are mapped onto error codes.
func (c *Client) Do(ctx context.Context, method, path string, payload []byte, headers map[string]string) ([]byte, error) {
	target := c.baseURL + path
	u, err := url.Parse(target)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidURL, err, "invalid request url %q", target)
	}

	var body []byte
	err = httputil.Retry(ctx, c.retries, c.delay, func() error {
		var reqBody io.Reader
		if payload != nil {
			reqBody = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, target, reqBody)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "create request")
		}
		for k, v := range c.headers {
			req.Header.Set(k, v)
		}
		for k, v := range headers {
			req.Header.Set(k, v)
		}

		hooks := observability.HTTP()
		hooks.OnRequest(ctx, method, u.Host, u.Path)
		start := time.Now()
		resp, err := c.http.Do(req)
		if err != nil {
			hooks.OnError(ctx, method, u.Host, u.Path, err)
			if ctx.Err() != nil {
				return errors.Wrap(errors.ErrCodeTimeout, ctx.Err(), "%s %s", method, u.Path)
			}
			return httputil.Retryable(errors.Wrap(errors.ErrCodeNetwork, err, "%s %s", method, u.Path))
		}
		defer resp.Body.Close()
		hooks.OnResponse(ctx, method, u.Host, u.Path, resp.StatusCode, time.Since(start))

		if err := checkStatus(resp, u.Path); err != nil {
			return err
		}
		body, err = io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
		if err != nil {
			return httputil.Retryable(errors.Wrap(errors.ErrCodeNetwork, err, "read response"))
		}
		return nil
	})
	if re, ok := err.(*httputil.RetryableError); ok {
		err = re.Err
	}
	if err != nil {
		return nil, err
	}
	return body, nil
}

func checkStatus(resp *http.Response, path string) error {
	code := resp.StatusCode
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusNotFound:
		return errors.New(errors.ErrCodeNotFound, "not found: %s", path)
	case code == http.StatusTooManyRequests,
		code == http.StatusForbidden && resp.Header.Get("X-RateLimit-Remaining") == "0":
		return errors.Wrap(errors.ErrCodeRateLimited, &errors.RateLimitedError{RetryAfter: retryAfter(resp.Header)},
			"rate limit exceeded, please try again later")
	case code >= 500:
		return httputil.Retryable(errors.New(errors.ErrCodeNetwork, "%s: status %d", path, code))
	default:
		return errors.New(errors.ErrCodeNetwork, "%s: status %d", path, code)
	}
}

// retryAfter reads Retry-After, or derives it from X-RateLimit-Reset.
func retryAfter(h http.Header) int {
	if s, err := strconv.Atoi(h.Get("Retry-After")); err == nil {
		return s
	}
	if reset, err := strconv.ParseInt(h.Get("X-RateLimit-Reset"), 10, 64); err == nil {
		if d := time.Until(time.Unix(reset, 0)); d > 0 {
			return int(d.Seconds())
		}
	}
	return 0
}

func decode(body []byte, v any) error {
	if v == nil {
		return nil
	}
	if err := json.Unmarshal(body, v); err != nil {
		return errors.Wrap(errors.ErrCodeNetwork, err, "decode response")
	}
	return nil
}
