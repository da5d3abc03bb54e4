// Package imagefetch retrieves source images for analysis. Images are
// addressed by URL; http(s) URLs go through a plain HTTP client and
// minio://bucket/object URLs through object storage.
package imagefetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultTimeout bounds the network fetch when the caller supplies none.
const DefaultTimeout = 30 * time.Second

// ErrFetch indicates the source image could not be retrieved.
var ErrFetch = errors.New("image fetch failed")

// Fetcher retrieves the raw bytes of an image. The timeout applies to the
// whole fetch; zero means DefaultTimeout.
type Fetcher interface {
	Fetch(ctx context.Context, url string, timeout time.Duration) ([]byte, error)
}

// HTTPFetcher downloads images over http(s).
type HTTPFetcher struct {
	client *http.Client
}

// NewHTTPFetcher creates a fetcher on top of the given client; nil uses the
// default client. Timeouts are applied per request, not on the client.
func NewHTTPFetcher(client *http.Client) *HTTPFetcher {
	if client == nil {
		client = &http.Client{}
	}
	return &HTTPFetcher{client: client}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, url string, timeout time.Duration) ([]byte, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d for %s", ErrFetch, resp.StatusCode, url)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	return data, nil
}

// Dispatcher routes a fetch to the fetcher matching the URL scheme.
type Dispatcher struct {
	httpFetcher  Fetcher
	minioFetcher Fetcher
}

// NewDispatcher builds a scheme dispatcher. The minio fetcher may be nil when
// object storage is not configured.
func NewDispatcher(httpFetcher, minioFetcher Fetcher) *Dispatcher {
	return &Dispatcher{httpFetcher: httpFetcher, minioFetcher: minioFetcher}
}

func (d *Dispatcher) Fetch(ctx context.Context, url string, timeout time.Duration) ([]byte, error) {
	if strings.HasPrefix(url, "minio://") {
		if d.minioFetcher == nil {
			return nil, fmt.Errorf("%w: object storage not configured for %s", ErrFetch, url)
		}
		return d.minioFetcher.Fetch(ctx, url, timeout)
	}
	return d.httpFetcher.Fetch(ctx, url, timeout)
}
