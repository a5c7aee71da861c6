package pipeline

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/lexhound/lexhound/internal/model"
	"github.com/lexhound/lexhound/internal/util"
)

// Fetcher retrieves documents over HTTP.
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
}

// NewFetcher creates a fetcher using the shared HTTP settings.
func NewFetcher(cfg model.HTTPConfig) *Fetcher {
	maxBytes := cfg.MaxBodyBytes
	if maxBytes <= 0 {
		maxBytes = 10 << 20
	}
	return &Fetcher{
		httpClient: util.NewHTTPClient(cfg),
		userAgent:  cfg.UserAgent,
		maxBytes:   maxBytes,
	}
}

// FetchResult contains the fetched body and metadata
type FetchResult struct {
	Body        string
	ContentType string
	FinalURL    string
}

// Fetch retrieves the document at the given URL.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,text/plain;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	return &FetchResult{
		Body:        string(body),
		ContentType: resp.Header.Get("Content-Type"),
		FinalURL:    resp.Request.URL.String(),
	}, nil
}
