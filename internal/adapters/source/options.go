package source

import (
	"net/http"
	"time"
)

// Default fetcher configuration constants.
const (
	defaultTimeout = 10 * time.Second
	// maxBodyBytes caps a single sheet download.
	maxBodyBytes = 32 << 20
)

// Option configures an HTTPFetcher.
type Option func(*HTTPFetcher)

// WithTimeout bounds each HTTP attempt.
func WithTimeout(d time.Duration) Option {
	return func(f *HTTPFetcher) {
		if d > 0 {
			f.timeout = d
		}
	}
}

// WithProxyPrefix sets the fallback proxy prefix. An empty prefix disables the fallback.
func WithProxyPrefix(prefix string) Option {
	return func(f *HTTPFetcher) {
		f.proxyPrefix = prefix
	}
}

// WithHTTPClient sets the client used for both attempts.
func WithHTTPClient(c *http.Client) Option {
	return func(f *HTTPFetcher) {
		if c != nil {
			f.client = c
		}
	}
}
