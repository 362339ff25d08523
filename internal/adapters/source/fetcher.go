// Package source retrieves raw CSV text for roster sources.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/okian/roster/pkg/logger"
	"github.com/okian/roster/pkg/metrics"
)

// Fetcher returns the raw text behind a source location.
type Fetcher interface {
	Fetch(ctx context.Context, location string) (string, error)
}

// DefaultProxyPrefix matches the proxy used when none is configured.
const DefaultProxyPrefix = "https://corsproxy.io/?"

// HTTPFetcher downloads sources over HTTP, retrying once through a proxy.
type HTTPFetcher struct {
	client      *http.Client
	timeout     time.Duration
	proxyPrefix string
}

// NewHTTPFetcher creates an HTTPFetcher with the default proxy prefix.
func NewHTTPFetcher(opts ...Option) *HTTPFetcher {
	f := &HTTPFetcher{
		client:      http.DefaultClient,
		timeout:     defaultTimeout,
		proxyPrefix: DefaultProxyPrefix,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch tries the URL directly and, if that fails, once through the proxy.
func (f *HTTPFetcher) Fetch(ctx context.Context, location string) (string, error) {
	start := time.Now()
	scheme := schemeOf(location)

	body, directErr := f.get(ctx, location)
	if directErr == nil {
		metrics.RecordFetchLatency(scheme, metrics.OutcomeOK, msSince(start))
		return body, nil
	}
	if f.proxyPrefix == "" || ctx.Err() != nil {
		metrics.RecordFetchLatency(scheme, metrics.OutcomeFetchError, msSince(start))
		return "", fmt.Errorf("%w: %s: %w", ErrFetch, location, directErr)
	}

	logger.Get().Debug(ctx, "direct fetch failed, trying proxy",
		logger.String("url", location),
		logger.Error(directErr),
	)
	metrics.RecordFetchProxyFallback()

	body, proxyErr := f.get(ctx, f.proxyPrefix+url.QueryEscape(location))
	if proxyErr != nil {
		metrics.RecordFetchLatency(scheme, metrics.OutcomeFetchError, msSince(start))
		return "", fmt.Errorf("%w: %s: %w", ErrFetch, location, errors.Join(directErr, proxyErr))
	}
	metrics.RecordFetchLatency(scheme, metrics.OutcomeOK, msSince(start))
	return body, nil
}

func (f *HTTPFetcher) get(ctx context.Context, target string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: %d", errStatus, resp.StatusCode)
	}

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", err
	}
	return bodyText(b), nil
}

// FileFetcher reads sources from the local filesystem.
type FileFetcher struct{}

// Fetch reads a file:// URL or a bare path. A file URL without a leading
// slash after the scheme, such as file://roster.csv, is relative to the
// working directory.
func (FileFetcher) Fetch(ctx context.Context, location string) (string, error) {
	start := time.Now()
	path := location
	if strings.HasPrefix(location, "file://") {
		u, err := url.Parse(location)
		if err != nil {
			return "", fmt.Errorf("%w: %s: %w", ErrFetch, location, err)
		}
		path = u.Path
		if u.Host != "" && u.Host != "localhost" {
			path = u.Host + u.Path
		}
	}

	b, err := os.ReadFile(path)
	if err != nil {
		metrics.RecordFetchLatency("file", metrics.OutcomeFetchError, msSince(start))
		return "", fmt.Errorf("%w: %s: %w", ErrFetch, location, err)
	}
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrFetch, location, err)
	}
	metrics.RecordFetchLatency("file", metrics.OutcomeOK, msSince(start))
	return bodyText(b), nil
}

// Router dispatches by scheme: http and https go to HTTP, anything else to File.
type Router struct {
	HTTP Fetcher
	File Fetcher
}

// NewRouter creates a Router over the given HTTP fetcher and a FileFetcher.
func NewRouter(h Fetcher) *Router {
	return &Router{HTTP: h, File: FileFetcher{}}
}

// Fetch implements Fetcher.
func (r *Router) Fetch(ctx context.Context, location string) (string, error) {
	switch schemeOf(location) {
	case "http", "https":
		return r.HTTP.Fetch(ctx, location)
	default:
		return r.File.Fetch(ctx, location)
	}
}

func schemeOf(location string) string {
	i := strings.Index(location, "://")
	if i <= 0 {
		return "file"
	}
	return strings.ToLower(location[:i])
}

// bodyText drops a leading UTF-8 byte order mark, as spreadsheet "CSV UTF-8"
// exports write one before the header row.
func bodyText(b []byte) string {
	return strings.TrimPrefix(string(b), utf8BOM)
}

const utf8BOM = "\ufeff"

func msSince(t time.Time) float64 {
	return float64(time.Since(t).Microseconds()) / 1000
}
