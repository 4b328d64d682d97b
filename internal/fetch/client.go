package fetch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/time/rate"
)

// Client wraps resty with an explicit request timeout and rate limiting.
//
// The client never retries on its own: freshness decisions must see remote
// failures as they happen. Callers wanting resilience opt into a retrying
// transport via Options.Retries, which keeps retry policy outside the
// fetch logic itself.
type Client struct {
	Resty   *resty.Client
	Limiter *rate.Limiter
	Mu      sync.RWMutex
}

// Options configures a Client.
type Options struct {
	Timeout time.Duration // per-request timeout; 0 means DefaultTimeout
	Retries int           // transport-level retries; 0 disables
}

// DefaultTimeout bounds the metadata probe and the download so a hanging
// remote cannot stall the whole pipeline.
const DefaultTimeout = 30 * time.Second

// NewClient creates an HTTP client for the archive store.
func NewClient(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	restyClient := resty.New()
	restyClient.
		SetTimeout(timeout).
		SetHeader("User-Agent", "workbench-blueprint/1.0")

	if opts.Retries > 0 {
		retryClient := retryablehttp.NewClient()
		retryClient.RetryMax = opts.Retries
		retryClient.RetryWaitMin = 1 * time.Second
		retryClient.RetryWaitMax = 30 * time.Second
		retryClient.Logger = nil // Disable logging
		restyClient.SetTransport(retryClient.HTTPClient.Transport)
	}

	return &Client{
		Resty:   restyClient,
		Limiter: rate.NewLimiter(rate.Inf, 0), // Unlimited by default
	}
}

// SetRateLimit configures rate limiting (requests per second).
func (c *Client) SetRateLimit(rps float64) {
	c.Mu.Lock()
	defer c.Mu.Unlock()
	if rps <= 0 {
		c.Limiter = rate.NewLimiter(rate.Inf, 0)
	} else {
		c.Limiter = rate.NewLimiter(rate.Limit(rps), int(rps))
	}
}

// SetTimeout configures request timeout.
func (c *Client) SetTimeout(duration time.Duration) {
	c.Mu.Lock()
	defer c.Mu.Unlock()
	c.Resty.SetTimeout(duration)
}

// Request creates a new request with rate limiting applied.
func (c *Client) Request(ctx context.Context) (*resty.Request, error) {
	if err := c.Limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit error: %w", err)
	}

	c.Mu.RLock()
	defer c.Mu.RUnlock()
	return c.Resty.R().SetContext(ctx), nil
}
