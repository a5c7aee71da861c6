package verify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/lexhound/lexhound/internal/cache"
	"github.com/lexhound/lexhound/internal/model"
	"github.com/lexhound/lexhound/internal/worker"
)

const (
	clLookupPath = "/api/rest/v3/citation-lookup/"
	clSearchPath = "/api/rest/v4/search/"
)

// CourtListenerClient talks to the CourtListener REST API. It backs two
// chain entries: a structured lookup keyed by the citation string and a
// free-text search over case names.
type CourtListenerClient struct {
	baseURL    string
	token      string
	userAgent  string
	httpClient *http.Client
	limiter    *worker.HostLimiter
	store      cache.Store
	cacheTTL   time.Duration
	maxBody    int64
}

// NewCourtListenerClient creates a client. store may be nil to disable
// response caching; limiter may be nil to disable rate limiting.
func NewCourtListenerClient(cfg model.VerifyConfig, httpCfg model.HTTPConfig, httpClient *http.Client, limiter *worker.HostLimiter, store cache.Store, cacheTTL time.Duration) *CourtListenerClient {
	maxBody := httpCfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = 4 << 20
	}
	return &CourtListenerClient{
		baseURL:    strings.TrimRight(cfg.CourtListener.BaseURL, "/"),
		token:      cfg.CourtListener.APIToken,
		userAgent:  httpCfg.UserAgent,
		httpClient: httpClient,
		limiter:    limiter,
		store:      store,
		cacheTTL:   cacheTTL,
		maxBody:    maxBody,
	}
}

// Structured returns the citation-lookup source.
func (c *CourtListenerClient) Structured() Source {
	return &clStructured{client: c}
}

// Search returns the case-name search source.
func (c *CourtListenerClient) Search() Source {
	return &clSearch{client: c}
}

// clLookupResponse models the citation-lookup payload. Only the fields the
// validator reads are decoded.
type clLookupResponse []struct {
	Citation            string      `json:"citation"`
	NormalizedCitations []string    `json:"normalized_citations"`
	Clusters            []clCluster `json:"clusters"`
}

type clCluster struct {
	CaseName    string `json:"case_name"`
	DateFiled   string `json:"date_filed"`
	AbsoluteURL string `json:"absolute_url"`
	Court       string `json:"court"`
}

type clSearchResponse struct {
	Results []struct {
		CaseName    string `json:"caseName"`
		DateFiled   string `json:"dateFiled"`
		AbsoluteURL string `json:"absolute_url"`
		Court       string `json:"court"`
	} `json:"results"`
}

type clStructured struct {
	client *CourtListenerClient
}

func (s *clStructured) Name() string { return "courtlistener" }
func (s *clStructured) Kind() Kind   { return KindStructured }

func (s *clStructured) Lookup(ctx context.Context, req Request) ([]CaseRecord, error) {
	c := s.client
	key := cache.Key(s.Name(), req.CitationText)
	if recs, ok := c.cachedRecords(key); ok {
		return recs, nil
	}

	form := url.Values{"text": {req.CitationText}}
	body, err := c.do(ctx, http.MethodPost, clLookupPath, nil, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}

	var resp clLookupResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode citation lookup: %w", err)
	}

	var records []CaseRecord
	for _, entry := range resp {
		citations := entry.NormalizedCitations
		if len(citations) == 0 && entry.Citation != "" {
			citations = []string{entry.Citation}
		}
		for _, cl := range entry.Clusters {
			records = append(records, CaseRecord{
				Name:      cl.CaseName,
				Date:      cl.DateFiled,
				URL:       c.absolute(cl.AbsoluteURL),
				Court:     cl.Court,
				Citations: citations,
			})
		}
	}
	c.storeRecords(key, records)
	return records, nil
}

type clSearch struct {
	client *CourtListenerClient
}

func (s *clSearch) Name() string { return "courtlistener-search" }
func (s *clSearch) Kind() Kind   { return KindTextSearch }

func (s *clSearch) Lookup(ctx context.Context, req Request) ([]CaseRecord, error) {
	if req.CaseName == "" {
		return nil, nil
	}
	c := s.client
	key := cache.Key(s.Name(), req.CaseName+"\x00"+req.Year)
	if recs, ok := c.cachedRecords(key); ok {
		return recs, nil
	}

	query := url.Values{
		"q":    {fmt.Sprintf("%q", req.CaseName)},
		"type": {"o"},
	}
	body, err := c.do(ctx, http.MethodGet, clSearchPath, query, nil)
	if err != nil {
		return nil, err
	}

	var resp clSearchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	var records []CaseRecord
	for _, r := range resp.Results {
		records = append(records, CaseRecord{
			Name:  r.CaseName,
			Date:  r.DateFiled,
			URL:   c.absolute(r.AbsoluteURL),
			Court: r.Court,
		})
	}
	c.storeRecords(key, records)
	return records, nil
}

// do performs one API request and returns the response body.
func (c *CourtListenerClient) do(ctx context.Context, method, path string, query url.Values, body io.Reader) ([]byte, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx, endpoint); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Token "+c.token)
	}
	if method == http.MethodPost {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("courtlistener returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return data, nil
}

func (c *CourtListenerClient) absolute(path string) string {
	if path == "" || strings.Contains(path, "://") {
		return path
	}
	return c.baseURL + path
}

func (c *CourtListenerClient) cachedRecords(key string) ([]CaseRecord, bool) {
	if c.store == nil {
		return nil, false
	}
	data, ok := c.store.Get(key)
	if !ok {
		return nil, false
	}
	records, err := decodeRecords(data)
	if err != nil {
		return nil, false
	}
	return records, true
}

func (c *CourtListenerClient) storeRecords(key string, records []CaseRecord) {
	if c.store == nil {
		return
	}
	if data, err := encodeRecords(records); err == nil {
		_ = c.store.Set(key, data, c.cacheTTL)
	}
}
