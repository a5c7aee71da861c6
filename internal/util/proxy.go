// Package util holds small HTTP helpers shared by the document provider and
// the verification sources.
package util

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/lexhound/lexhound/internal/model"
)

// ProxyFunc builds a transport proxy function from the HTTP configuration.
// With no explicit proxies configured it defers to the environment. Hosts on
// the NoProxy list connect directly.
func ProxyFunc(cfg model.HTTPConfig) func(*http.Request) (*url.URL, error) {
	if cfg.HTTPProxy == "" && cfg.HTTPSProxy == "" {
		return http.ProxyFromEnvironment
	}
	bypass := noProxyMatcher(cfg.NoProxy)
	return func(req *http.Request) (*url.URL, error) {
		if bypass(req.URL.Hostname()) {
			return nil, nil
		}
		if req.URL.Scheme == "https" && cfg.HTTPSProxy != "" {
			return url.Parse(cfg.HTTPSProxy)
		}
		if cfg.HTTPProxy != "" {
			return url.Parse(cfg.HTTPProxy)
		}
		return http.ProxyFromEnvironment(req)
	}
}

// noProxyMatcher parses a comma-separated no-proxy list into a host
// predicate. An entry matches its host exactly or as a domain suffix; a
// leading dot is tolerated; "*" bypasses everything.
func noProxyMatcher(list string) func(host string) bool {
	var entries []string
	for _, e := range strings.Split(list, ",") {
		e = strings.ToLower(strings.TrimSpace(e))
		e = strings.TrimPrefix(e, ".")
		if e != "" {
			entries = append(entries, e)
		}
	}
	return func(host string) bool {
		host = strings.ToLower(host)
		for _, e := range entries {
			if e == "*" || host == e || strings.HasSuffix(host, "."+e) {
				return true
			}
		}
		return false
	}
}

// NewHTTPClient builds the standard outbound client used for source calls
// and document fetches: bounded redirects and the configured proxy.
func NewHTTPClient(cfg model.HTTPConfig) *http.Client {
	return &http.Client{
		Timeout: cfg.Timeout,
		Transport: &http.Transport{
			Proxy: ProxyFunc(cfg),
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 3 {
				return http.ErrUseLastResponse
			}
			return nil
		},
	}
}
