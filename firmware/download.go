package firmware

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultTimeout is the default archive download timeout.
const DefaultTimeout = 5 * time.Minute

// DefaultMaxRetries is the default number of download attempts.
const DefaultMaxRetries = 3

// DefaultRetryWait is the default initial wait between retries.
const DefaultRetryWait = 2 * time.Second

// downloader fetches firmware archives with retries for transient
// failures. GitHub's codeload endpoints intermittently answer 5xx under
// load, which a refresh should ride out rather than surface.
type downloader struct {
	client     *http.Client
	maxRetries int
	retryWait  time.Duration
}

func newDownloader(client *http.Client) *downloader {
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	return &downloader{
		client:     client,
		maxRetries: DefaultMaxRetries,
		retryWait:  DefaultRetryWait,
	}
}

// fetch downloads url and returns the response body. The caller owns the
// returned reader and must close it.
func (d *downloader) fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	var lastErr error
	for attempt := 0; attempt < d.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}

		resp, err := d.client.Do(req)
		if err != nil {
			lastErr = err
			if attempt < d.maxRetries-1 {
				if err := d.backoff(ctx, attempt); err != nil {
					return nil, err
				}
				continue
			}
			break
		}

		if resp.StatusCode == http.StatusOK {
			return resp.Body, nil
		}

		lastErr = fmt.Errorf("unexpected status %s", resp.Status)
		resp.Body.Close()
		if !retryableStatus(resp.StatusCode) || attempt == d.maxRetries-1 {
			break
		}
		if err := d.backoff(ctx, attempt); err != nil {
			return nil, err
		}
	}
	return nil, fmt.Errorf("%w: %v", ErrDownloadFailed, lastErr)
}

// backoff waits exponentially longer after each failed attempt.
func (d *downloader) backoff(ctx context.Context, attempt int) error {
	wait := d.retryWait * time.Duration(1<<attempt)
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(wait):
		return nil
	}
}

func retryableStatus(code int) bool {
	return code >= 500 || code == http.StatusTooManyRequests
}
