package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/lexhound/lexhound/internal/model"
)

// Summarizer wraps a provider and degrades gracefully: any provider problem
// becomes a warning in the report, never a pipeline failure.
type Summarizer struct {
	provider Provider
	config   model.LLMConfig
}

// NewSummarizer creates a summarizer for the configured provider. An empty
// provider name disables summarization without error.
func NewSummarizer(config model.LLMConfig) (*Summarizer, error) {
	s := &Summarizer{config: config}
	switch strings.ToLower(config.Provider) {
	case "":
		return s, nil
	case "openai":
		p, err := NewOpenAIProvider(config)
		if err != nil {
			return nil, err
		}
		s.provider = p
		return s, nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: openai)", config.Provider)
	}
}

// IsEnabled reports whether a provider is configured.
func (s *Summarizer) IsEnabled() bool {
	return s != nil && s.provider != nil
}

// GenerateSummary produces the optional narrative section for a finished
// report. The returned summary records failures as warnings; verification
// results are read, never written.
func (s *Summarizer) GenerateSummary(ctx context.Context, report model.Report) *model.LLMSummary {
	if !s.IsEnabled() {
		return &model.LLMSummary{Enabled: false}
	}

	out := &model.LLMSummary{
		Enabled:  true,
		Provider: s.provider.Name(),
	}

	if !s.provider.IsAvailable(ctx) {
		out.Warnings = append(out.Warnings, "provider unavailable, summary skipped")
		return out
	}

	resp, err := s.provider.Summarize(ctx, SummarizeRequest{
		Report:      report,
		AllowedURLs: canonicalURLs(report),
		MaxTokens:   s.config.MaxTokens,
	})
	if err != nil {
		out.Warnings = append(out.Warnings, fmt.Sprintf("summarization failed: %v", err))
		return out
	}

	out.Model = resp.Model
	out.SummaryMD = resp.Summary
	return out
}

// canonicalURLs collects the allowlist: only URLs produced by verification.
func canonicalURLs(report model.Report) []string {
	var urls []string
	seen := make(map[string]bool)
	for _, c := range report.Citations {
		if c.CanonicalURL != "" && !seen[c.CanonicalURL] {
			seen[c.CanonicalURL] = true
			urls = append(urls, c.CanonicalURL)
		}
	}
	return urls
}
