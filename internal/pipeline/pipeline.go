// Package pipeline wires the processing stages together: load a document,
// collect citation candidates, extract case names and years, cluster
// parallel citations, verify each citation against external sources, and
// render the report.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/lexhound/lexhound/internal/cache"
	"github.com/lexhound/lexhound/internal/cluster"
	"github.com/lexhound/lexhound/internal/collect"
	"github.com/lexhound/lexhound/internal/extract"
	"github.com/lexhound/lexhound/internal/llm"
	"github.com/lexhound/lexhound/internal/model"
	"github.com/lexhound/lexhound/internal/verify"
)

// Pipeline orchestrates the complete processing of one document.
type Pipeline struct {
	fetcher    *Fetcher
	collector  *collect.Collector
	extractor  *extract.Extractor
	clusterer  *cluster.Engine
	verifier   *verify.Engine
	renderer   *Renderer
	summarizer *llm.Summarizer
	config     *model.Config
	progress   Progress
}

// NewPipeline creates a pipeline from configuration.
func NewPipeline(cfg *model.Config) (*Pipeline, error) {
	var store cache.Store
	if cfg.Cache.Enabled {
		store = cache.NewLayered(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)
	}

	chain, err := verify.BuildChain(cfg, store)
	if err != nil {
		return nil, fmt.Errorf("build source chain: %w", err)
	}

	var summarizer *llm.Summarizer
	if cfg.LLM.Provider != "" {
		s, err := llm.NewSummarizer(cfg.LLM)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to initialize LLM provider: %v\n", err)
		} else {
			summarizer = s
		}
	}

	return &Pipeline{
		fetcher:    NewFetcher(cfg.HTTP),
		collector:  collect.NewCollector(cfg.Collector),
		extractor:  extract.New(cfg.Extractor),
		clusterer:  cluster.New(cfg.Cluster),
		verifier:   verify.NewEngine(cfg.Verify, cfg.Concurrency.VerifyWorkers, cfg.Extractor.MinNameLength, chain...),
		renderer:   NewRenderer(cfg.Output.IncludeFooter),
		summarizer: summarizer,
		config:     cfg,
		progress:   nopProgress{},
	}, nil
}

// SetProgress installs a progress listener; nil restores the no-op one.
func (p *Pipeline) SetProgress(pr Progress) {
	if pr == nil {
		pr = nopProgress{}
	}
	p.progress = pr
}

// Process runs every stage on a loaded document and returns the report.
// Stages up to verification are pure functions of the document text; only
// verification touches the network.
func (p *Pipeline) Process(ctx context.Context, doc Document) (*model.Report, error) {
	if strings.TrimSpace(doc.Text) == "" {
		return nil, fmt.Errorf("document %s contains no text", doc.ID)
	}
	p.progress.Started(doc.ID)

	citations, collectStats := p.collector.Collect(doc.Text)
	p.progress.Stage("collect", fmt.Sprintf("%d citations (%d duplicates removed)",
		len(citations), collectStats.DuplicatesRemoved))

	p.extractor.ExtractAll(doc.Text, citations)
	named := 0
	for i := range citations {
		if citations[i].ExtractedCaseName != "" {
			named++
		}
	}
	p.progress.Stage("extract", fmt.Sprintf("%d case names", named))

	clusters := p.clusterer.Cluster(citations)
	p.progress.Stage("cluster", fmt.Sprintf("%d clusters", len(clusters)))

	verifyStats := p.verifier.VerifyAll(ctx, citations, clusters)
	p.progress.Stage("verify", fmt.Sprintf("%d verified, %d unverified",
		verifyStats.Verified, verifyStats.Unverified))

	report := &model.Report{
		DocumentID:  doc.ID,
		SourceURL:   doc.SourceURL,
		ProcessedAt: time.Now().UTC(),
		Citations:   citations,
		Clusters:    clusters,
		Summary: model.Summary{
			CitationsFound:    len(citations),
			DuplicatesRemoved: collectStats.DuplicatesRemoved,
			ClustersFormed:    len(clusters),
			Verified:          verifyStats.Verified,
			Unverified:        verifyStats.Unverified,
			Errors:            verifyStats.Errors,
			Rejections:        verifyStats.Rejections,
			SourceErrors:      verifyStats.SourceErrors,
		},
	}

	// The summary reads the finished report; it cannot change any result.
	if p.summarizer.IsEnabled() {
		report.LLM = p.summarizer.GenerateSummary(ctx, *report)
	}

	p.progress.Finished(report.Summary)
	return report, nil
}

// ProcessSource loads and processes a file path or URL.
func (p *Pipeline) ProcessSource(ctx context.Context, source string) (*model.Report, error) {
	doc, err := p.LoadDocument(ctx, source)
	if err != nil {
		return nil, err
	}
	return p.Process(ctx, doc)
}

// RenderReport writes the report to the requested outputs and prints the
// summary line to stdout.
func (p *Pipeline) RenderReport(report *model.Report, jsonPath, mdPath string, verbose bool) error {
	if jsonPath != "" {
		if err := p.renderer.RenderJSON(report, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if verbose && jsonPath != "-" {
			fmt.Printf("wrote %s\n", jsonPath)
		}
	}
	if mdPath != "" {
		if err := p.renderer.RenderMarkdown(report, mdPath); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if verbose && mdPath != "-" {
			fmt.Printf("wrote %s\n", mdPath)
		}
	}
	if jsonPath != "-" && mdPath != "-" {
		p.renderer.RenderSummary(os.Stdout, report)
	}
	return nil
}
