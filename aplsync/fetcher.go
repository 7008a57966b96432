package aplsync

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"time"
)

// FetchResult carries the raw bytes of one downloaded source file and the
// fingerprint used for change detection.
type FetchResult struct {
	Body        []byte
	Fingerprint string
	ContentType string
}

// Fetcher retrieves a source file. The orchestrator owns retries; a fetcher
// makes exactly one attempt.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (FetchResult, error)
}

// HTTPFetcher fetches source files over HTTP(S), following redirects up to a
// hop limit and enforcing an overall timeout.
type HTTPFetcher struct {
	client *http.Client
}

// NewHTTPFetcher creates a fetcher with the given timeout and redirect cap
func NewHTTPFetcher(timeout time.Duration, maxRedirects int) *HTTPFetcher {
	return &HTTPFetcher{
		client: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return ErrTooManyRedirects
				}
				return nil
			},
		},
	}
}

// Fetch downloads the file and computes its content fingerprint
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return FetchResult{}, fmt.Errorf("%w: building request: %v", ErrFetchFailed, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return FetchResult{}, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return FetchResult{}, fmt.Errorf("%w: unexpected status %d", ErrFetchFailed, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return FetchResult{}, fmt.Errorf("%w: reading body: %v", ErrFetchFailed, err)
	}

	return FetchResult{
		Body:        body,
		Fingerprint: Fingerprint(body),
		ContentType: resp.Header.Get("Content-Type"),
	}, nil
}

// Fingerprint returns the deterministic content hash of a file's bytes.
func Fingerprint(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
