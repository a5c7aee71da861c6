package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/lexhound/lexhound/internal/pipeline"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Process multiple documents from a list in parallel",
	Long: `Batch reads document paths or URLs from a file (one per line, # comments
allowed) and processes them concurrently. Each document gets its own JSON
report in the output directory.

Example:
  lexhound batch documents.txt
  lexhound batch documents.txt --concurrency 8 --output-dir ./reports`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of documents processed in parallel")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./lexhound-reports", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 30*time.Minute, "total timeout for the whole batch")
	batchCmd.Flags().StringSliceVar(&sources, "sources", nil, "ordered source chain (courtlistener, courtlistener-search, websearch)")
	batchCmd.Flags().StringVar(&clToken, "cl-token", "", "CourtListener API token (or COURTLISTENER_API_TOKEN)")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the verification response cache")
}

func runBatch(cmd *cobra.Command, args []string) error {
	listPath := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	docs, err := readSourceList(listPath)
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		return fmt.Errorf("no documents listed in %s", listPath)
	}

	cfg := buildConfig()
	cfg.Concurrency.BatchWorkers = concurrency
	if noCache {
		cfg.Cache.Enabled = false
	}
	if len(sources) > 0 {
		cfg.Verify.Sources = sources
	}
	if clToken != "" {
		cfg.Verify.CourtListener.APIToken = clToken
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	p, err := pipeline.NewPipeline(cfg)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "processing %d documents with %d workers\n", len(docs), concurrency)

	results := p.ProcessBatch(ctx, docs, outputDir)

	failed := 0
	for _, r := range results {
		if r.Error != nil {
			failed++
			fmt.Fprintf(os.Stderr, "failed: %v\n", r.Error)
			continue
		}
		s := r.Report.Summary
		fmt.Printf("%s: %d citations, %d verified, %d unverified\n",
			r.Source, s.CitationsFound, s.Verified, s.Unverified)
	}

	fmt.Fprintf(os.Stderr, "done: %d succeeded, %d failed, reports in %s\n",
		len(results)-failed, failed, outputDir)
	if failed > 0 {
		return fmt.Errorf("%d of %d documents failed", failed, len(docs))
	}
	return nil
}

// readSourceList reads one source per line, skipping blanks and # comments.
func readSourceList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open list: %w", err)
	}
	defer func() { _ = f.Close() }()

	var docs []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		docs = append(docs, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read list: %w", err)
	}
	return docs, nil
}
