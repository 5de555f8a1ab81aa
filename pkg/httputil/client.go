package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/matzehuels/leymap/pkg/cache"
	"github.com/matzehuels/leymap/pkg/errors"
	"github.com/matzehuels/leymap/pkg/observability"
)

const (
	httpTimeout = 10 * time.Second

	// maxBodySize bounds a single dataset file.
	maxBodySize = 32 << 20

	cacheNamespace = "dataset"
)

// Client fetches dataset files with caching and retry.
type Client struct {
	http    *http.Client
	cache   cache.Cache
	keyer   cache.Keyer
	ttl     time.Duration
	headers map[string]string
	backoff Backoff
}

// NewHTTPClient creates an HTTP client with the standard dataset timeout.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: httpTimeout}
}

// NewClient creates a Client. A nil cache disables caching and a nil keyer
// uses [cache.DefaultKeyer]. Headers are applied to every request.
func NewClient(c cache.Cache, keyer cache.Keyer, ttl time.Duration, headers map[string]string) *Client {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	return &Client{
		http:    NewHTTPClient(),
		cache:   c,
		keyer:   keyer,
		ttl:     ttl,
		headers: headers,
		backoff: DefaultBackoff,
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func (c *Client) WithHTTPClient(h *http.Client) *Client {
	c.http = h
	return c
}

// WithBackoff replaces the retry policy.
func (c *Client) WithBackoff(b Backoff) *Client {
	c.backoff = b
	return c
}

// Fetch returns the body at rawURL, from cache unless refresh is set.
// Successful responses are cached; failures never are.
func (c *Client) Fetch(ctx context.Context, rawURL string, refresh bool) ([]byte, error) {
	key := c.keyer.HTTPKey(cacheNamespace, rawURL)
	if !refresh {
		if data, ok, _ := c.cache.Get(ctx, key); ok {
			observability.Cache().OnCacheHit(ctx, cacheNamespace)
			return data, nil
		}
		observability.Cache().OnCacheMiss(ctx, cacheNamespace)
	}

	var data []byte
	err := c.backoff.Retry(ctx, func() error {
		var err error
		data, err = c.get(ctx, rawURL)
		return err
	})
	if err != nil {
		return nil, err
	}

	if err := c.cache.Set(ctx, key, data, c.ttl); err == nil {
		observability.Cache().OnCacheSet(ctx, cacheNamespace, len(data))
	}
	return data, nil
}

func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "bad dataset URL %q", rawURL)
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	host, path := req.URL.Host, req.URL.Path
	hooks := observability.HTTP()
	hooks.OnRequest(ctx, req.Method, host, path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		return nil, &RetryableError{Err: errors.Wrap(errors.ErrCodeNetwork, err, "fetch %s", redact(req.URL))}
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp, rawURL); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, &RetryableError{Err: errors.Wrap(errors.ErrCodeNetwork, err, "read %s", redact(req.URL))}
	}
	return data, nil
}

func checkStatus(resp *http.Response, rawURL string) error {
	code := resp.StatusCode
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return errors.New(errors.ErrCodeFileNotFound, "%s not found", rawURL)
	case code == http.StatusTooManyRequests || code >= 500:
		return &RetryableError{
			Err:   errors.New(errors.ErrCodeNetwork, "status %d from %s", code, rawURL),
			After: retryAfter(resp.Header, time.Now()),
		}
	default:
		return errors.New(errors.ErrCodeNetwork, "status %d from %s", code, rawURL)
	}
}

// redact drops credentials from a URL before it is logged or returned.
func redact(u *url.URL) string {
	if u.User == nil {
		return u.String()
	}
	c := *u
	c.User = nil
	return fmt.Sprintf("%s (credentials hidden)", c.String())
}
