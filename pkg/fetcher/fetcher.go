package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dtnitsch/learnmap/internal/common"
	"github.com/dtnitsch/learnmap/pkg/caching"
	"github.com/dtnitsch/learnmap/pkg/logger"
)

const (
	DefaultTimeout = 30 * time.Second

	// maxBodyBytes bounds how much of a page is read.
	maxBodyBytes = 5 << 20

	userAgent = "learnmap/1.0 (+https://github.com/dtnitsch/learnmap)"
)

type Fetcher struct {
	client *http.Client
	cache  *caching.Cache
}

type Option func(*Fetcher)

// WithCache serves repeated fetches of the same URL from c.
func WithCache(c *caching.Cache) Option {
	return func(f *Fetcher) {
		f.cache = c
	}
}

func NewFetcher(timeout time.Duration, opts ...Option) *Fetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	f := &Fetcher{
		client: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// GetHtmlBytes validates rawURL and returns the page body, consulting the
// cache first when one is configured.
func (f *Fetcher) GetHtmlBytes(ctx context.Context, rawURL string) ([]byte, error) {
	pageURL, err := common.ValidateURL(rawURL)
	if err != nil {
		return nil, err
	}

	if f.cache != nil {
		if body, ok := f.cache.Get(pageURL); ok {
			logger.Log.WithField("url", pageURL).Debug("page served from cache")
			return body, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build HTTP request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch HTML, status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if f.cache != nil {
		if err := f.cache.Set(pageURL, body); err != nil {
			logger.Log.WithError(err).WithField("url", pageURL).Warn("failed to cache page")
		}
	}
	return body, nil
}
