package util

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lexhound/lexhound/internal/model"
)

func proxyURLFor(t *testing.T, cfg model.HTTPConfig, target string) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	u, err := ProxyFunc(cfg)(req)
	if err != nil {
		t.Fatalf("proxy func: %v", err)
	}
	if u == nil {
		return ""
	}
	return u.String()
}

func TestProxyFunc_SchemeSelection(t *testing.T) {
	cfg := model.HTTPConfig{
		HTTPProxy:  "http://proxy.internal:3128",
		HTTPSProxy: "http://secure-proxy.internal:3128",
	}

	if got := proxyURLFor(t, cfg, "http://example.com/"); got != "http://proxy.internal:3128" {
		t.Errorf("http proxy = %q", got)
	}
	if got := proxyURLFor(t, cfg, "https://example.com/"); got != "http://secure-proxy.internal:3128" {
		t.Errorf("https proxy = %q", got)
	}
}

func TestProxyFunc_NoProxyBypass(t *testing.T) {
	cfg := model.HTTPConfig{
		HTTPProxy: "http://proxy.internal:3128",
		NoProxy:   "localhost, .example.com, api.courtlistener.com",
	}

	tests := []struct {
		target string
		direct bool
	}{
		{"http://localhost:8080/robots.txt", true},
		{"http://www.example.com/opinion.html", true},
		{"http://example.com/opinion.html", true},
		{"https://api.courtlistener.com/api/rest/v3/", true},
		{"http://example.org/", false},
		{"http://notexample.com/", false},
	}
	for _, tt := range tests {
		got := proxyURLFor(t, cfg, tt.target)
		if tt.direct && got != "" {
			t.Errorf("%s: expected direct connection, got proxy %q", tt.target, got)
		}
		if !tt.direct && got == "" {
			t.Errorf("%s: expected proxy, got direct connection", tt.target)
		}
	}
}

func TestProxyFunc_NoProxyWildcard(t *testing.T) {
	cfg := model.HTTPConfig{HTTPProxy: "http://proxy.internal:3128", NoProxy: "*"}

	if got := proxyURLFor(t, cfg, "http://anything.example.net/"); got != "" {
		t.Errorf("wildcard no-proxy must bypass, got %q", got)
	}
}
