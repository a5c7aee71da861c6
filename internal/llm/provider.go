// Package llm generates an optional narrative summary of a citation report.
// The summary is produced after verification completes and is advisory only;
// nothing here feeds back into extraction, clustering, or verification.
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/lexhound/lexhound/internal/model"
)

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Summarize generates a summary of the report
	Summarize(ctx context.Context, req SummarizeRequest) (*SummarizeResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// SummarizeRequest contains the input for LLM summarization
type SummarizeRequest struct {
	// Report is the citation report to summarize
	Report model.Report

	// AllowedURLs is the strict allowlist of URLs the LLM can cite: the
	// canonical URLs verification actually produced. This prevents the
	// summary from inventing sources.
	AllowedURLs []string

	// Prompt is an optional custom prompt (if empty, use default)
	Prompt string

	// Model is the specific model to use (provider-specific)
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// SummarizeResponse contains the LLM's summary output
type SummarizeResponse struct {
	// Summary is the generated summary text
	Summary string

	// CitedURLs are the URLs the LLM actually cited (for verification)
	CitedURLs []string

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// BuildPrompt constructs the default summarization prompt. The allowlist and
// the never-assert rule mirror how the report itself treats external data:
// unverified means unverified, not wrong.
func BuildPrompt(report model.Report, allowedURLs []string) string {
	prompt := fmt.Sprintf(`You are summarizing a legal citation verification report. The report records whether each citation found in a document could be matched against external legal databases - it NEVER asserts that a citation is fabricated or that the document is wrong.

CRITICAL RULES:
1. You MUST ONLY cite URLs from this allowed list:
%s

2. DO NOT infer, speculate, or cite external sources beyond this list.
3. An unverified citation means the sources could not confirm it. Never call it fake, invalid, or an error by the document's author.
4. Focus on VERIFICATION COVERAGE. Use phrases like:
   - "X of Y citations were verified against..."
   - "No external match was found for..."
   - "Verification was skipped due to source errors for..."

Report Summary:
- Document: %s
- Citations Found: %d (after removing %d duplicates)
- Clusters: %d
- Verified: %d
- Unverified: %d
- Rejected Candidate Matches: %d
- Source Errors: %d

Notable citations:
`, joinURLs(allowedURLs), report.DocumentID,
		report.Summary.CitationsFound, report.Summary.DuplicatesRemoved,
		report.Summary.ClustersFormed, report.Summary.Verified,
		report.Summary.Unverified, report.Summary.Rejections,
		report.Summary.SourceErrors)

	var b strings.Builder
	b.WriteString(prompt)
	for _, c := range report.Citations {
		if len(b.String()) > 6000 {
			b.WriteString("- (further citations omitted)\n")
			break
		}
		status := "unverified"
		if c.Verified {
			status = "verified via " + c.VerificationSource
		} else if c.RejectionReason != "" {
			status = "unverified (" + string(c.RejectionReason) + ")"
		}
		name := c.ExtractedCaseName
		if name == "" {
			name = "(no case name extracted)"
		}
		fmt.Fprintf(&b, "- %s, %s: %s\n", name, c.Text, status)
	}
	b.WriteString("\nWrite a concise summary in Markdown (3-6 sentences plus an optional short list).")
	return b.String()
}

func joinURLs(urls []string) string {
	if len(urls) == 0 {
		return "(none - cite no URLs at all)"
	}
	var b strings.Builder
	for _, u := range urls {
		b.WriteString("- ")
		b.WriteString(u)
		b.WriteByte('\n')
	}
	return b.String()
}
