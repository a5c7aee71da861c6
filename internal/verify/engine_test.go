package verify

import (
	"context"
	"errors"
	"reflect"
	"sync/atomic"
	"testing"
	"time"

	"github.com/lexhound/lexhound/internal/model"
)

func init() {
	// Disable retry sleep in all tests for fast execution
	verifySleepFunc = func(d time.Duration) {}
}

type mockSource struct {
	name    string
	kind    Kind
	records []CaseRecord
	err     error
	calls   int32
	// byCitation overrides records when the requested citation text matches
	byCitation map[string][]CaseRecord
}

func (m *mockSource) Name() string { return m.name }
func (m *mockSource) Kind() Kind   { return m.kind }

func (m *mockSource) Lookup(ctx context.Context, req Request) ([]CaseRecord, error) {
	atomic.AddInt32(&m.calls, 1)
	if m.err != nil {
		return nil, m.err
	}
	if m.byCitation != nil {
		return m.byCitation[req.CitationText], nil
	}
	return m.records, nil
}

func testEngine(sources ...Source) *Engine {
	cfg := model.DefaultConfig()
	return NewEngine(cfg.Verify, 4, cfg.Extractor.MinNameLength, sources...)
}

func testCitation(text, name, year string) model.Citation {
	return model.Citation{
		Text:              text,
		ExtractedCaseName: name,
		ExtractedYear:     year,
		ClusterID:         -1,
	}
}

func TestEngine_VerifyAll_Match(t *testing.T) {
	src := &mockSource{
		name: "courtlistener",
		kind: KindStructured,
		records: []CaseRecord{{
			Name:      "Smith v. Jones",
			Date:      "1990-03-15",
			URL:       "https://example.org/opinion/1",
			Court:     "Washington Supreme Court",
			Citations: []string{"100 Wn.2d 1"},
		}},
	}
	engine := testEngine(src)

	citations := []model.Citation{testCitation("100 Wn.2d 1", "Smith v. Jones", "1990")}
	stats := engine.VerifyAll(context.Background(), citations, nil)

	if stats.Verified != 1 {
		t.Fatalf("Expected 1 verified, got %+v", stats)
	}
	c := citations[0]
	if !c.Verified {
		t.Error("Expected citation to be verified")
	}
	if c.CanonicalName != "Smith v. Jones" {
		t.Errorf("Expected canonical name, got %q", c.CanonicalName)
	}
	if c.CanonicalDate != "1990-03-15" {
		t.Errorf("Expected canonical date, got %q", c.CanonicalDate)
	}
	if c.VerificationSource != "courtlistener" {
		t.Errorf("Expected source courtlistener, got %q", c.VerificationSource)
	}
	if c.Confidence <= 0.5 || c.Confidence > 1 {
		t.Errorf("Expected confidence in (0.5, 1], got %f", c.Confidence)
	}
	if c.ExtractedCaseName != "Smith v. Jones" {
		t.Error("Extracted fields must not change during verification")
	}
}

func TestEngine_NameMismatchRejected(t *testing.T) {
	src := &mockSource{
		name:    "courtlistener",
		kind:    KindStructured,
		records: []CaseRecord{{Name: "Entirely Different Holdings, Inc. v. Acme", Date: "1990"}},
	}
	engine := testEngine(src)

	citations := []model.Citation{testCitation("100 Wn.2d 1", "Smith v. Jones", "1990")}
	stats := engine.VerifyAll(context.Background(), citations, nil)

	if stats.Verified != 0 || stats.Rejections != 1 {
		t.Fatalf("Expected rejection, got %+v", stats)
	}
	if citations[0].Verified {
		t.Error("Expected unverified")
	}
	if citations[0].CanonicalName != "" || citations[0].CanonicalURL != "" {
		t.Error("Rejected match must leave canonical fields empty")
	}
}

func TestEngine_ShortNameRejected(t *testing.T) {
	src := &mockSource{
		name:    "courtlistener",
		kind:    KindStructured,
		records: []CaseRecord{{Name: "Smith v. Jones", Date: "1990"}},
	}
	engine := testEngine(src)

	citations := []model.Citation{testCitation("100 Wn.2d 1", "", "1990")}
	engine.VerifyAll(context.Background(), citations, nil)

	if citations[0].Verified {
		t.Error("Citation with no extracted name must not verify")
	}
}

func TestEngine_YearTolerance(t *testing.T) {
	tests := []struct {
		name         string
		recordDate   string
		recordCites  []string
		wantVerified bool
	}{
		{"within tolerance", "1991-06-01", nil, true},
		{"beyond tolerance", "1997-06-01", nil, false},
		{"beyond tolerance but literal citation hit", "1997-06-01", []string{"100 Wn.2d 1"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &mockSource{
				name: "courtlistener",
				kind: KindStructured,
				records: []CaseRecord{{
					Name:      "Smith v. Jones",
					Date:      tt.recordDate,
					Citations: tt.recordCites,
				}},
			}
			engine := testEngine(src)
			citations := []model.Citation{testCitation("100 Wn.2d 1", "Smith v. Jones", "1990")}
			engine.VerifyAll(context.Background(), citations, nil)
			if citations[0].Verified != tt.wantVerified {
				t.Errorf("Verified = %v, want %v", citations[0].Verified, tt.wantVerified)
			}
		})
	}
}

func TestEngine_JurisdictionRejected(t *testing.T) {
	// A Washington reporter citation cannot resolve to a California case.
	src := &mockSource{
		name: "courtlistener",
		kind: KindStructured,
		records: []CaseRecord{{
			Name:  "Smith v. Jones",
			Date:  "1990",
			Court: "California Court of Appeal",
		}},
	}
	engine := testEngine(src)

	citations := []model.Citation{testCitation("100 Wn.2d 1", "Smith v. Jones", "1990")}
	stats := engine.VerifyAll(context.Background(), citations, nil)

	if citations[0].Verified {
		t.Fatal("Expected jurisdiction rejection")
	}
	if stats.Rejections != 1 {
		t.Errorf("Expected 1 rejection, got %+v", stats)
	}
}

func TestEngine_GovernmentPartyRejected(t *testing.T) {
	src := &mockSource{
		name:    "courtlistener",
		kind:    KindStructured,
		records: []CaseRecord{{Name: "State v. Jones", Date: "1990"}},
	}
	engine := testEngine(src)

	citations := []model.Citation{testCitation("100 Wn.2d 1", "State v. Smithfield", "1990")}
	engine.VerifyAll(context.Background(), citations, nil)

	if citations[0].Verified {
		t.Error("State v. Smithfield must not match State v. Jones")
	}
}

func TestEngine_GovernmentPartyAccepted(t *testing.T) {
	src := &mockSource{
		name:    "courtlistener",
		kind:    KindStructured,
		records: []CaseRecord{{Name: "State v. Smithfield", Date: "1990"}},
	}
	engine := testEngine(src)

	citations := []model.Citation{testCitation("100 Wn.2d 1", "State v. Smithfield", "1990")}
	engine.VerifyAll(context.Background(), citations, nil)

	if !citations[0].Verified {
		t.Error("Identical non-government parties must match")
	}
}

func TestEngine_ChainAdvancesOnSourceError(t *testing.T) {
	failing := &mockSource{
		name: "courtlistener",
		kind: KindStructured,
		err:  errors.New("courtlistener returned status 503"),
	}
	working := &mockSource{
		name:    "courtlistener-search",
		kind:    KindTextSearch,
		records: []CaseRecord{{Name: "Smith v. Jones", Date: "1990"}},
	}
	engine := testEngine(failing, working)

	citations := []model.Citation{testCitation("100 Wn.2d 1", "Smith v. Jones", "1990")}
	engine.VerifyAll(context.Background(), citations, nil)

	if !citations[0].Verified {
		t.Fatal("Expected verification via second source")
	}
	if citations[0].VerificationSource != "courtlistener-search" {
		t.Errorf("Expected courtlistener-search, got %q", citations[0].VerificationSource)
	}
	if atomic.LoadInt32(&failing.calls) < 2 {
		t.Error("Expected retryable failure to be retried")
	}
}

func TestEngine_AllSourcesError(t *testing.T) {
	src := &mockSource{
		name: "courtlistener",
		kind: KindStructured,
		err:  errors.New("dial tcp: connection refused"),
	}
	engine := testEngine(src)

	citations := []model.Citation{testCitation("100 Wn.2d 1", "Smith v. Jones", "1990")}
	stats := engine.VerifyAll(context.Background(), citations, nil)

	if stats.SourceErrors != 1 {
		t.Fatalf("Expected 1 source error, got %+v", stats)
	}
	c := citations[0]
	if c.Verified {
		t.Error("Expected unverified")
	}
	if c.Error == "" {
		t.Error("Expected error to be recorded")
	}
	if c.CanonicalName != "" || c.CanonicalDate != "" || c.CanonicalURL != "" {
		t.Error("Errored citation must carry no canonical fields")
	}
}

func TestEngine_AmbiguousCandidates(t *testing.T) {
	src := &mockSource{
		name: "courtlistener-search",
		kind: KindTextSearch,
		records: []CaseRecord{
			{Name: "Smith v. Jones Construction", Date: "1990", URL: "https://example.org/1"},
			{Name: "Smith v. Jones Engineering", Date: "1990", URL: "https://example.org/2"},
		},
	}
	engine := testEngine(src)

	citations := []model.Citation{testCitation("100 Wn.2d 1", "Smith v. Jones", "1990")}
	engine.VerifyAll(context.Background(), citations, nil)

	if citations[0].Verified {
		t.Error("Two near-equal candidates naming different cases must not verify")
	}
}

func TestEngine_NoCanonicalInheritanceAcrossCluster(t *testing.T) {
	src := &mockSource{
		name: "courtlistener",
		kind: KindStructured,
		byCitation: map[string][]CaseRecord{
			"100 Wn.2d 1": {{
				Name:      "Smith v. Jones",
				Date:      "1990-03-15",
				URL:       "https://example.org/opinion/1",
				Citations: []string{"100 Wn.2d 1"},
			}},
			// The parallel citation is unknown to the source.
		},
	}
	engine := testEngine(src)

	clusters := []model.Cluster{{ID: 0, CaseName: "Smith v. Jones", Year: "1990", Members: []int{0, 1}}}
	citations := []model.Citation{
		{Text: "100 Wn.2d 1", ExtractedCaseName: "Smith v. Jones", ExtractedYear: "1990", ClusterID: 0},
		{Text: "200 P.2d 2", ExtractedYear: "1990", ClusterID: 0},
	}
	engine.VerifyAll(context.Background(), citations, clusters)

	if !citations[0].Verified {
		t.Fatal("Expected first member verified")
	}
	if citations[1].Verified {
		t.Error("Unmatched cluster member must stay unverified")
	}
	if citations[1].CanonicalName != "" || citations[1].CanonicalURL != "" {
		t.Error("Canonical data must not propagate across cluster members")
	}
}

func TestEngine_ClusterNameUsedForMemberWithoutExtraction(t *testing.T) {
	var sawName string
	src := &mockSource{name: "courtlistener", kind: KindStructured}
	probe := sourceFunc{
		name: "probe",
		kind: KindTextSearch,
		fn: func(ctx context.Context, req Request) ([]CaseRecord, error) {
			sawName = req.CaseName
			return nil, nil
		},
	}
	engine := testEngine(src, probe)

	clusters := []model.Cluster{{ID: 0, CaseName: "Smith v. Jones", Year: "1990", Members: []int{0}}}
	citations := []model.Citation{{Text: "200 P.2d 2", ClusterID: 0}}
	engine.VerifyAll(context.Background(), citations, clusters)

	if sawName != "Smith v. Jones" {
		t.Errorf("Expected cluster name in request, got %q", sawName)
	}
}

type sourceFunc struct {
	name string
	kind Kind
	fn   func(ctx context.Context, req Request) ([]CaseRecord, error)
}

func (s sourceFunc) Name() string { return s.name }
func (s sourceFunc) Kind() Kind   { return s.kind }
func (s sourceFunc) Lookup(ctx context.Context, req Request) ([]CaseRecord, error) {
	return s.fn(ctx, req)
}

func TestEngine_TotalTimeout(t *testing.T) {
	blocking := sourceFunc{
		name: "slow",
		kind: KindStructured,
		fn: func(ctx context.Context, req Request) ([]CaseRecord, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		},
	}
	cfg := model.DefaultConfig()
	cfg.Verify.TotalTimeout = 50 * time.Millisecond
	cfg.Verify.SourceTimeout = time.Second
	engine := NewEngine(cfg.Verify, 2, cfg.Extractor.MinNameLength, blocking)

	citations := []model.Citation{
		testCitation("100 Wn.2d 1", "Smith v. Jones", "1990"),
		testCitation("200 P.2d 2", "Brown v. Board of Education", "1954"),
	}
	stats := engine.VerifyAll(context.Background(), citations, nil)

	if stats.Verified != 0 {
		t.Fatalf("Expected nothing verified, got %+v", stats)
	}
	for i := range citations {
		if citations[i].Verified {
			t.Errorf("Citation %d verified after timeout", i)
		}
		if citations[i].CanonicalName != "" {
			t.Errorf("Citation %d carries canonical data after timeout", i)
		}
	}
}

func TestEngine_Idempotent(t *testing.T) {
	newSource := func() Source {
		return &mockSource{
			name: "courtlistener",
			kind: KindStructured,
			byCitation: map[string][]CaseRecord{
				"100 Wn.2d 1": {{Name: "Smith v. Jones", Date: "1990-03-15", URL: "https://example.org/1"}},
			},
		}
	}
	run := func() []model.Citation {
		engine := testEngine(newSource())
		citations := []model.Citation{
			testCitation("100 Wn.2d 1", "Smith v. Jones", "1990"),
			testCitation("300 F.2d 9", "Doe v. Roe Industries", "1962"),
		}
		engine.VerifyAll(context.Background(), citations, nil)
		return citations
	}

	first := run()
	second := run()
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Verification not deterministic:\n%+v\n%+v", first, second)
	}
}

func TestEngine_RetryThenSuccess(t *testing.T) {
	var calls int32
	flaky := sourceFunc{
		name: "flaky",
		kind: KindStructured,
		fn: func(ctx context.Context, req Request) ([]CaseRecord, error) {
			if atomic.AddInt32(&calls, 1) < 3 {
				return nil, errors.New("read tcp: connection reset by peer")
			}
			return []CaseRecord{{Name: "Smith v. Jones", Date: "1990"}}, nil
		},
	}
	engine := testEngine(flaky)

	citations := []model.Citation{testCitation("100 Wn.2d 1", "Smith v. Jones", "1990")}
	engine.VerifyAll(context.Background(), citations, nil)

	if !citations[0].Verified {
		t.Fatal("Expected success after retries")
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Errorf("Expected 3 attempts, got %d", got)
	}
}
