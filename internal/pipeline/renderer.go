package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/lexhound/lexhound/internal/model"
)

// Renderer writes reports as JSON or Markdown.
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a renderer.
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the report as indented JSON. Path "-" writes to stdout.
func (r *Renderer) RenderJSON(report *model.Report, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	data = append(data, '\n')

	if path == "-" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// RenderMarkdown writes a human-readable report. Path "-" writes to stdout.
func (r *Renderer) RenderMarkdown(report *model.Report, path string) error {
	md := r.buildMarkdown(report)
	if path == "-" {
		_, err := io.WriteString(os.Stdout, md)
		return err
	}
	if err := os.WriteFile(path, []byte(md), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

func (r *Renderer) buildMarkdown(report *model.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Citation Report: %s\n\n", report.DocumentID)
	fmt.Fprintf(&b, "Processed: %s\n\n", report.ProcessedAt.Format("2006-01-02 15:04:05 UTC"))

	s := report.Summary
	b.WriteString("## Summary\n\n")
	fmt.Fprintf(&b, "- Citations found: %d (%d duplicates removed)\n", s.CitationsFound, s.DuplicatesRemoved)
	fmt.Fprintf(&b, "- Clusters: %d\n", s.ClustersFormed)
	fmt.Fprintf(&b, "- Verified: %d\n", s.Verified)
	fmt.Fprintf(&b, "- Unverified: %d\n", s.Unverified)
	if s.SourceErrors > 0 {
		fmt.Fprintf(&b, "- Source errors: %d\n", s.SourceErrors)
	}
	b.WriteString("\n## Clusters\n\n")

	for _, cl := range report.Clusters {
		name := cl.CaseName
		if name == "" {
			name = "(no case name extracted)"
		}
		if cl.Year != "" {
			fmt.Fprintf(&b, "### %s (%s)\n\n", name, cl.Year)
		} else {
			fmt.Fprintf(&b, "### %s\n\n", name)
		}
		for _, id := range cl.Members {
			if id < 0 || id >= len(report.Citations) {
				continue
			}
			c := report.Citations[id]
			fmt.Fprintf(&b, "- `%s` [%d-%d]: %s\n", c.Text, c.Start, c.End, describeStatus(c))
		}
		b.WriteByte('\n')
	}

	if report.LLM != nil && report.LLM.Enabled && report.LLM.SummaryMD != "" {
		b.WriteString("## Model Summary\n\n")
		b.WriteString("_Advisory narrative; not part of the verification results._\n\n")
		b.WriteString(report.LLM.SummaryMD)
		b.WriteString("\n\n")
	}

	if r.includeFooter {
		b.WriteString("---\n\nGenerated by lexhound. Unverified means the sources could not confirm the citation, not that it is wrong.\n")
	}
	return b.String()
}

func describeStatus(c model.Citation) string {
	switch {
	case c.Verified:
		return fmt.Sprintf("verified as %q (%s) via %s, confidence %.2f",
			c.CanonicalName, c.CanonicalDate, c.VerificationSource, c.Confidence)
	case c.Error != "":
		return fmt.Sprintf("unverified (error: %s)", c.Error)
	case c.RejectionReason != "":
		return fmt.Sprintf("unverified (%s)", c.RejectionReason)
	default:
		return "unverified"
	}
}

// RenderSummary prints the one-screen result to w.
func (r *Renderer) RenderSummary(w io.Writer, report *model.Report) {
	s := report.Summary
	fmt.Fprintf(w, "%s: %d citations in %d clusters, %d verified, %d unverified\n",
		report.DocumentID, s.CitationsFound, s.ClustersFormed, s.Verified, s.Unverified)
	for _, c := range report.Citations {
		marker := " "
		if c.Verified {
			marker = "+"
		} else if c.Error != "" {
			marker = "!"
		}
		name := c.ExtractedCaseName
		if name == "" {
			name = "-"
		}
		fmt.Fprintf(w, " %s %-40s %s\n", marker, c.Text, name)
	}
}
