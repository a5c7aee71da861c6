package verify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/lexhound/lexhound/internal/cache"
	"github.com/lexhound/lexhound/internal/util"
	"github.com/lexhound/lexhound/internal/worker"
)

// WebSearchSource is the last-resort chain entry: a general-purpose web
// search whose result page is scraped for case-looking links. It obeys
// robots.txt and per-host rate limits, and its records score lowest, so a
// match here survives only when the name checks are unambiguous.
type WebSearchSource struct {
	searchURL  string // must contain %s for the query
	userAgent  string
	httpClient *http.Client
	robots     *util.RobotsGate
	limiter    *worker.HostLimiter
	store      cache.Store
	cacheTTL   time.Duration
	maxBody    int64
	maxResults int
}

// NewWebSearchSource creates the fallback source. searchURL is a template
// with a single %s placeholder for the escaped query.
func NewWebSearchSource(searchURL, userAgent string, httpClient *http.Client, robots *util.RobotsGate, limiter *worker.HostLimiter, store cache.Store, cacheTTL time.Duration, maxBody int64) *WebSearchSource {
	if maxBody <= 0 {
		maxBody = 2 << 20
	}
	return &WebSearchSource{
		searchURL:  searchURL,
		userAgent:  userAgent,
		httpClient: httpClient,
		robots:     robots,
		limiter:    limiter,
		store:      store,
		cacheTTL:   cacheTTL,
		maxBody:    maxBody,
		maxResults: 10,
	}
}

func (s *WebSearchSource) Name() string { return "websearch" }
func (s *WebSearchSource) Kind() Kind   { return KindFallback }

func (s *WebSearchSource) Lookup(ctx context.Context, req Request) ([]CaseRecord, error) {
	if s.searchURL == "" || req.CaseName == "" {
		return nil, nil
	}

	query := req.CaseName + " " + req.CitationText
	key := cache.Key(s.Name(), query)
	if s.store != nil {
		if data, ok := s.store.Get(key); ok {
			return decodeRecords(data)
		}
	}

	endpoint := fmt.Sprintf(s.searchURL, url.QueryEscape(query))
	if s.robots != nil {
		allowed, delay := s.robots.Allowed(ctx, endpoint)
		if !allowed {
			return nil, fmt.Errorf("robots.txt disallows %s", endpoint)
		}
		if delay > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}
	}
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx, endpoint); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if s.userAgent != "" {
		httpReq.Header.Set("User-Agent", s.userAgent)
	}

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("search returned status %d", resp.StatusCode)
	}

	records, err := s.parseResults(io.LimitReader(resp.Body, s.maxBody), endpoint)
	if err != nil {
		return nil, err
	}
	if s.store != nil {
		if data, err := encodeRecords(records); err == nil {
			_ = s.store.Set(key, data, s.cacheTTL)
		}
	}
	return records, nil
}

// parseResults walks the result page collecting external links whose anchor
// text could be a case caption.
func (s *WebSearchSource) parseResults(r io.Reader, searchEndpoint string) ([]CaseRecord, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse search page: %w", err)
	}
	searchHost := hostOf(searchEndpoint)

	var records []CaseRecord
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if len(records) >= s.maxResults {
			return
		}
		if n.Type == html.ElementNode && n.Data == "a" {
			href := attr(n, "href")
			text := collapse(anchorText(n))
			if usableResult(href, text, searchHost) {
				records = append(records, CaseRecord{
					Name: text,
					Date: yearPattern.FindString(text),
					URL:  href,
				})
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return records, nil
}

// usableResult filters navigation links, relative links, and links back into
// the search engine itself.
func usableResult(href, text, searchHost string) bool {
	if text == "" || len(text) < 10 {
		return false
	}
	if !strings.HasPrefix(href, "http://") && !strings.HasPrefix(href, "https://") {
		return false
	}
	h := hostOf(href)
	return h != "" && h != searchHost
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Host
}

func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

func anchorText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
