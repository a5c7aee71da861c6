package verify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/lexhound/lexhound/internal/cache"
	"github.com/lexhound/lexhound/internal/model"
)

func clientFor(t *testing.T, server *httptest.Server, store cache.Store) *CourtListenerClient {
	t.Helper()
	cfg := model.DefaultConfig()
	cfg.Verify.CourtListener.BaseURL = server.URL
	cfg.Verify.CourtListener.APIToken = "test-token"
	return NewCourtListenerClient(cfg.Verify, cfg.HTTP, server.Client(), nil, store, time.Minute)
}

func TestCourtListener_StructuredLookup(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST, got %s", r.Method)
		}
		if r.URL.Path != clLookupPath {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Token test-token" {
			t.Errorf("Unexpected auth header %q", got)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("ParseForm: %v", err)
		}
		if got := r.PostFormValue("text"); got != "100 Wn.2d 1" {
			t.Errorf("Unexpected lookup text %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{
			"citation": "100 Wn.2d 1",
			"normalized_citations": ["100 Wash. 2d 1"],
			"clusters": [{
				"case_name": "Smith v. Jones",
				"date_filed": "1990-03-15",
				"absolute_url": "/opinion/1/smith-v-jones/",
				"court": "Washington Supreme Court"
			}]
		}]`))
	}))
	defer server.Close()

	src := clientFor(t, server, nil).Structured()
	if src.Kind() != KindStructured {
		t.Errorf("Expected structured kind, got %s", src.Kind())
	}

	records, err := src.Lookup(context.Background(), Request{CitationText: "100 Wn.2d 1"})
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(records))
	}
	rec := records[0]
	if rec.Name != "Smith v. Jones" {
		t.Errorf("Unexpected name %q", rec.Name)
	}
	if rec.Date != "1990-03-15" {
		t.Errorf("Unexpected date %q", rec.Date)
	}
	if rec.URL != server.URL+"/opinion/1/smith-v-jones/" {
		t.Errorf("Expected absolute URL, got %q", rec.URL)
	}
	if len(rec.Citations) != 1 || rec.Citations[0] != "100 Wash. 2d 1" {
		t.Errorf("Unexpected citations %v", rec.Citations)
	}
}

func TestCourtListener_SearchLookup(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != clSearchPath {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("type"); got != "o" {
			t.Errorf("Expected opinion search, got type %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results": [
			{"caseName": "Smith v. Jones", "dateFiled": "1990-03-15", "absolute_url": "/opinion/1/", "court": "Washington Supreme Court"},
			{"caseName": "Smith v. Jonas", "dateFiled": "1984-01-02", "absolute_url": "/opinion/2/", "court": "Oregon Supreme Court"}
		]}`))
	}))
	defer server.Close()

	src := clientFor(t, server, nil).Search()
	records, err := src.Lookup(context.Background(), Request{CaseName: "Smith v. Jones", Year: "1990"})
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}
	if records[1].Court != "Oregon Supreme Court" {
		t.Errorf("Unexpected court %q", records[1].Court)
	}
}

func TestCourtListener_SearchSkipsEmptyName(t *testing.T) {
	src := (&CourtListenerClient{}).Search()
	records, err := src.Lookup(context.Background(), Request{CitationText: "100 Wn.2d 1"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if records != nil {
		t.Errorf("Expected no records without a case name, got %v", records)
	}
}

func TestCourtListener_ServerErrorSurfaced(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	src := clientFor(t, server, nil).Structured()
	_, err := src.Lookup(context.Background(), Request{CitationText: "100 Wn.2d 1"})
	if err == nil {
		t.Fatal("Expected error for 503 response")
	}
	if !isRetryableLookupError(err) {
		t.Errorf("503 should be retryable, got %v", err)
	}
}

func TestCourtListener_ResponseCached(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"citation": "100 Wn.2d 1", "clusters": [{"case_name": "Smith v. Jones", "date_filed": "1990-03-15"}]}]`))
	}))
	defer server.Close()

	store := cache.NewMemory(time.Minute, time.Minute)
	src := clientFor(t, server, store).Structured()

	for i := 0; i < 3; i++ {
		records, err := src.Lookup(context.Background(), Request{CitationText: "100 Wn.2d 1"})
		if err != nil {
			t.Fatalf("Lookup %d failed: %v", i, err)
		}
		if len(records) != 1 || records[0].Name != "Smith v. Jones" {
			t.Fatalf("Lookup %d returned %v", i, records)
		}
	}
	if got := atomic.LoadInt32(&hits); got != 1 {
		t.Errorf("Expected 1 upstream request, got %d", got)
	}
}
