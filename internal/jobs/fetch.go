package jobs

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// SourceFetcher downloads remote source files with a bounded size and
// timeout.
type SourceFetcher struct {
	client   *http.Client
	maxBytes int64
}

// NewSourceFetcher constructs a fetcher. maxBytes caps the accepted body
// size; timeout bounds the whole request.
func NewSourceFetcher(timeout time.Duration, maxBytes int64) *SourceFetcher {
	return &SourceFetcher{
		client:   &http.Client{Timeout: timeout},
		maxBytes: maxBytes,
	}
}

// Fetch retrieves the content at url.
func (f *SourceFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build fetch request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch source: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch source: unexpected status %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read source body: %w", err)
	}
	if int64(len(body)) > f.maxBytes {
		return nil, fmt.Errorf("source exceeds %d byte limit", f.maxBytes)
	}
	return body, nil
}
