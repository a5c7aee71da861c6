package model

import "time"

// Report is the complete output for one processed document. Extracted and
// canonical data are always serialized under separate keys so a consumer can
// tell what the document says apart from what an external source says.
type Report struct {
	DocumentID  string    `json:"document_id"`
	SourceURL   string    `json:"source_url,omitempty"`
	ProcessedAt time.Time `json:"processed_at"`

	Citations []Citation `json:"citations"`
	Clusters  []Cluster  `json:"clusters"`

	Summary Summary `json:"summary"`

	LLM *LLMSummary `json:"llm,omitempty"` // Optional; never feeds back into verification
}

// Summary carries the counters surfaced for observability.
type Summary struct {
	CitationsFound    int `json:"citations_found"`
	DuplicatesRemoved int `json:"duplicates_removed"`
	ClustersFormed    int `json:"clusters_formed"`
	Verified          int `json:"verified"`
	Unverified        int `json:"unverified"`
	Errors            int `json:"errors"`
	Rejections        int `json:"rejections"`    // Candidate matches refused by validation
	SourceErrors      int `json:"source_errors"` // Network/API failures skipped over
}

// LLMSummary contains an optional model-generated narrative of the report.
// It is produced after verification completes and never affects any
// verification decision.
type LLMSummary struct {
	Enabled   bool     `json:"enabled"`
	Provider  string   `json:"provider,omitempty"`
	Model     string   `json:"model,omitempty"`
	SummaryMD string   `json:"summary_md,omitempty"`
	Warnings  []string `json:"warnings,omitempty"`
}
