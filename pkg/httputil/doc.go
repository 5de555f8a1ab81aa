// Package httputil fetches dataset files over HTTP.
//
// # Overview
//
//   - [Client]: GET with caching, default headers and retry
//   - [Backoff]: exponential retry policy honouring Retry-After
//
// # Caching
//
// [Client] stores response bodies in any [cache.Cache] under keys built by
// [cache.Keyer.HTTPKey], so a file cache on a laptop and a Redis cache
// behind the server behave the same way:
//
//	fc, _ := cache.NewFileCache(dir)
//	client := httputil.NewClient(fc, cache.NewDefaultKeyer(), cache.TTLDataset, nil)
//	data, err := client.Fetch(ctx, "https://maps.example.org/planets.json", false)
//
// # Retry
//
// Network errors, 429 and 5xx responses are retried. A Retry-After header
// on those responses replaces the next backoff delay. 404 becomes a
// FILE_NOT_FOUND error and any other status fails immediately:
//
//	b := httputil.Backoff{Attempts: 5, Delay: 200 * time.Millisecond, MaxDelay: 5 * time.Second}
//	client := httputil.NewClient(nil, nil, 0, nil).WithBackoff(b)
package httputil
