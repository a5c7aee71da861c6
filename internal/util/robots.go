package util

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/temoto/robotstxt"
)

// RobotsGate checks robots.txt before the fallback search source crawls a
// general-purpose site. The structured legal APIs are exempt; this exists
// for politeness on open web endpoints.
type RobotsGate struct {
	mu         sync.RWMutex
	cache      map[string]*robotstxt.RobotsData
	httpClient *http.Client
	userAgent  string
}

// NewRobotsGate creates a gate identifying itself with userAgent.
func NewRobotsGate(userAgent string, timeout time.Duration) *RobotsGate {
	return &RobotsGate{
		cache:      make(map[string]*robotstxt.RobotsData),
		httpClient: &http.Client{Timeout: timeout},
		userAgent:  userAgent,
	}
}

// Allowed reports whether rawURL may be fetched, and any crawl delay the
// site requests. An unreachable robots.txt allows the fetch.
func (g *RobotsGate) Allowed(ctx context.Context, rawURL string) (bool, time.Duration) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false, 0
	}
	data, err := g.robotsFor(ctx, parsed.Scheme, parsed.Host)
	if err != nil {
		return true, 0
	}
	allowed := data.TestAgent(parsed.Path, g.userAgent)
	var delay time.Duration
	if group := data.FindGroup(g.userAgent); group != nil {
		delay = group.CrawlDelay
	}
	return allowed, delay
}

func (g *RobotsGate) robotsFor(ctx context.Context, scheme, host string) (*robotstxt.RobotsData, error) {
	g.mu.RLock()
	data, ok := g.cache[host]
	g.mu.RUnlock()
	if ok {
		return data, nil
	}

	robotsURL := fmt.Sprintf("%s://%s/robots.txt", scheme, host)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", g.userAgent)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch robots.txt: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err = robotstxt.FromResponse(resp)
	if err != nil {
		return nil, fmt.Errorf("parse robots.txt: %w", err)
	}

	g.mu.Lock()
	g.cache[host] = data
	g.mu.Unlock()
	return data, nil
}
