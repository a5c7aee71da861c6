package pipeline

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/lexhound/lexhound/internal/model"
)

func rendererReport() *model.Report {
	return &model.Report{
		DocumentID:  "brief.txt",
		ProcessedAt: time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC),
		Citations: []model.Citation{
			{
				ID:                 0,
				Text:               "100 Wn.2d 1",
				Start:              34,
				End:                45,
				ExtractedCaseName:  "Smith v. Jones",
				ExtractedYear:      "1990",
				CanonicalName:      "Smith v. Jones",
				CanonicalDate:      "1990-03-15",
				CanonicalURL:       "https://example.org/opinion/1",
				Verified:           true,
				VerificationSource: "courtlistener",
				Confidence:         0.95,
			},
			{
				ID:              1,
				Text:            "200 P.2d 2",
				Start:           47,
				End:             57,
				ExtractedYear:   "1990",
				RejectionReason: model.RejectNoCandidates,
			},
		},
		Clusters: []model.Cluster{
			{ID: 0, CaseName: "Smith v. Jones", Year: "1990", Members: []int{0, 1}},
		},
		Summary: model.Summary{CitationsFound: 2, ClustersFormed: 1, Verified: 1, Unverified: 1},
	}
}

func TestRenderer_JSONRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.json")

	r := NewRenderer(false)
	if err := r.RenderJSON(rendererReport(), path); err != nil {
		t.Fatalf("RenderJSON failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var got model.Report
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Report JSON does not parse: %v", err)
	}
	if len(got.Citations) != 2 {
		t.Fatalf("Expected 2 citations, got %d", len(got.Citations))
	}
	// Extracted and canonical fields stay under distinct keys.
	text := string(data)
	for _, key := range []string{"extracted_case_name", "canonical_name", "start_offset", "end_offset", "rejection_reason"} {
		if !strings.Contains(text, key) {
			t.Errorf("Expected key %q in JSON output", key)
		}
	}
}

func TestRenderer_Markdown(t *testing.T) {
	r := NewRenderer(true)
	md := r.buildMarkdown(rendererReport())

	for _, want := range []string{
		"# Citation Report: brief.txt",
		"### Smith v. Jones (1990)",
		"`100 Wn.2d 1`",
		"verified as \"Smith v. Jones\"",
		"unverified (no_candidates)",
		"not that it is wrong",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("Markdown missing %q:\n%s", want, md)
		}
	}
}

func TestRenderer_Summary(t *testing.T) {
	var buf bytes.Buffer
	NewRenderer(false).RenderSummary(&buf, rendererReport())

	out := buf.String()
	if !strings.Contains(out, "brief.txt: 2 citations in 1 clusters, 1 verified, 1 unverified") {
		t.Errorf("Unexpected summary header:\n%s", out)
	}
	if !strings.Contains(out, "+ 100 Wn.2d 1") {
		t.Errorf("Expected verified marker:\n%s", out)
	}
}
