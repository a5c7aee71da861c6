package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/lexhound/lexhound/internal/pipeline"
)

var (
	outJSON       string
	outMD         string
	totalTimeout  time.Duration
	sourceTimeout time.Duration
	userAgent     string
	maxBytes      int64
	noCache       bool
	noFooter      bool
	verifyWorkers int
	sources       []string
	clToken       string
	fallbackURL   string
	llmEnabled    bool
	llmModel      string
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan <file-or-url>",
	Short: "Process a single document and report its citations",
	Long: `Scan reads a legal document (plain text, HTML file, or URL), finds its
case citations, groups parallel citations, and verifies each citation
against the configured sources.

Example:
  lexhound scan brief.txt
  lexhound scan opinion.html --json report.json --md report.md
  lexhound scan https://example.org/opinion.html --sources courtlistener
  lexhound scan brief.txt --llm --llm-model gpt-4o-mini`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)

	// Output flags
	scanCmd.Flags().StringVar(&outJSON, "json", "", "output JSON path (\"-\" for stdout)")
	scanCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (\"-\" for stdout)")
	scanCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")

	// Verification flags
	scanCmd.Flags().DurationVar(&totalTimeout, "timeout", 5*time.Minute, "overall verification timeout for the document")
	scanCmd.Flags().DurationVar(&sourceTimeout, "source-timeout", 15*time.Second, "timeout per source call")
	scanCmd.Flags().IntVar(&verifyWorkers, "workers", 10, "concurrent verification lookups")
	scanCmd.Flags().StringSliceVar(&sources, "sources", nil, "ordered source chain (courtlistener, courtlistener-search, websearch)")
	scanCmd.Flags().StringVar(&clToken, "cl-token", "", "CourtListener API token (or COURTLISTENER_API_TOKEN)")
	scanCmd.Flags().StringVar(&fallbackURL, "fallback-search", "", "fallback web search URL template with one %s placeholder")

	// HTTP flags
	scanCmd.Flags().StringVar(&userAgent, "ua", "Lexhound/0.1 (+https://github.com/lexhound/lexhound)", "HTTP User-Agent")
	scanCmd.Flags().Int64Var(&maxBytes, "max-bytes", 10_000_000, "max response bytes to read")
	scanCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the verification response cache")

	// LLM flags
	scanCmd.Flags().BoolVar(&llmEnabled, "llm", false, "generate an advisory LLM summary of the report")
	scanCmd.Flags().StringVar(&llmModel, "llm-model", "gpt-4o-mini", "LLM model name")
}

func runScan(cmd *cobra.Command, args []string) error {
	source := args[0]
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := buildConfig()
	cfg.Verify.TotalTimeout = totalTimeout
	cfg.Verify.SourceTimeout = sourceTimeout
	cfg.Concurrency.VerifyWorkers = verifyWorkers
	cfg.HTTP.UserAgent = userAgent
	cfg.HTTP.MaxBodyBytes = maxBytes
	cfg.Output.IncludeFooter = !noFooter
	if noCache {
		cfg.Cache.Enabled = false
	}
	if len(sources) > 0 {
		cfg.Verify.Sources = sources
	}
	if clToken != "" {
		cfg.Verify.CourtListener.APIToken = clToken
	}
	if fallbackURL != "" {
		cfg.Verify.FallbackSearchURL = fallbackURL
	}
	if llmEnabled {
		cfg.LLM.Provider = "openai"
		cfg.LLM.Model = llmModel
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	}

	p, err := pipeline.NewPipeline(cfg)
	if err != nil {
		return err
	}
	if verbose {
		p.SetProgress(pipeline.NewLogProgress(os.Stderr))
	}

	report, err := p.ProcessSource(ctx, source)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	return p.RenderReport(report, outJSON, outMD, verbose)
}
