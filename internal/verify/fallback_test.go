package verify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lexhound/lexhound/internal/util"
)

const searchPage = `<html><body>
<div id="nav"><a href="/settings">Settings and preferences</a></div>
<div class="result">
  <a href="https://law.example.org/cases/smith-v-jones">Smith v. Jones, 100 Wn.2d 1 (1990)</a>
</div>
<div class="result">
  <a href="https://law.example.org/cases/other">Another Unrelated Decision About Fences</a>
</div>
<a href="#top">top</a>
</body></html>`

func TestWebSearch_ParsesResultLinks(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/robots.txt":
			_, _ = w.Write([]byte("User-agent: *\nAllow: /\n"))
		case "/search":
			if got := r.URL.Query().Get("q"); got == "" {
				t.Error("Expected a query parameter")
			}
			_, _ = w.Write([]byte(searchPage))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	robots := util.NewRobotsGate("Lexhound/0.1", 5*time.Second)
	src := NewWebSearchSource(server.URL+"/search?q=%s", "Lexhound/0.1", server.Client(), robots, nil, nil, 0, 0)

	records, err := src.Lookup(context.Background(), Request{
		CitationText: "100 Wn.2d 1",
		CaseName:     "Smith v. Jones",
	})
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Expected 2 external links, got %d: %v", len(records), records)
	}
	if records[0].Name != "Smith v. Jones, 100 Wn.2d 1 (1990)" {
		t.Errorf("Unexpected first result %q", records[0].Name)
	}
	if records[0].Date != "1990" {
		t.Errorf("Expected year pulled from anchor text, got %q", records[0].Date)
	}
	if records[0].URL != "https://law.example.org/cases/smith-v-jones" {
		t.Errorf("Unexpected URL %q", records[0].URL)
	}
}

func TestWebSearch_RobotsDisallowed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/robots.txt":
			_, _ = w.Write([]byte("User-agent: *\nDisallow: /search\n"))
		case "/search":
			t.Error("Search endpoint must not be fetched when disallowed")
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	robots := util.NewRobotsGate("Lexhound/0.1", 5*time.Second)
	src := NewWebSearchSource(server.URL+"/search?q=%s", "Lexhound/0.1", server.Client(), robots, nil, nil, 0, 0)

	_, err := src.Lookup(context.Background(), Request{CaseName: "Smith v. Jones"})
	if err == nil {
		t.Fatal("Expected robots.txt rejection")
	}
}

func TestWebSearch_DisabledWithoutURL(t *testing.T) {
	src := NewWebSearchSource("", "", nil, nil, nil, nil, 0, 0)
	records, err := src.Lookup(context.Background(), Request{CaseName: "Smith v. Jones"})
	if err != nil || records != nil {
		t.Errorf("Expected inert source, got %v, %v", records, err)
	}
}
