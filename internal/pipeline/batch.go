package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/lexhound/lexhound/internal/model"
	"github.com/lexhound/lexhound/internal/worker"
)

// BatchResult pairs one source with its report or failure.
type BatchResult struct {
	Source string
	Report *model.Report
	Error  error
}

// Err implements worker.Outcome.
func (r BatchResult) Err() error { return r.Error }

type batchTask struct {
	pipeline *Pipeline
	source   string
	outDir   string
}

func (t batchTask) Run(ctx context.Context) worker.Outcome {
	report, err := t.pipeline.ProcessSource(ctx, t.source)
	if err != nil {
		return BatchResult{Source: t.source, Error: fmt.Errorf("%s: %w", t.source, err)}
	}
	if t.outDir != "" {
		jsonPath := filepath.Join(t.outDir, reportBasename(t.source)+".json")
		if err := t.pipeline.renderer.RenderJSON(report, jsonPath); err != nil {
			return BatchResult{Source: t.source, Report: report, Error: err}
		}
	}
	return BatchResult{Source: t.source, Report: report}
}

// ProcessBatch runs the pipeline over many sources with bounded parallelism.
// When outDir is non-empty each report is also written there as JSON. Results
// come back in completion order.
func (p *Pipeline) ProcessBatch(ctx context.Context, sources []string, outDir string) []BatchResult {
	if len(sources) == 0 {
		return nil
	}

	workers := p.config.Concurrency.BatchWorkers
	pool := worker.NewPool(workers)
	pool.Start()

	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			pool.Shutdown()
		case <-done:
		}
	}()

	for _, source := range sources {
		pool.Submit(batchTask{pipeline: p, source: source, outDir: outDir})
	}

	outcomes := pool.Drain()
	close(done)

	results := make([]BatchResult, 0, len(outcomes))
	for _, o := range outcomes {
		if r, ok := o.(BatchResult); ok {
			results = append(results, r)
		}
	}
	return results
}

// reportBasename derives an output filename from a source path or URL.
func reportBasename(source string) string {
	name := source
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		name = strings.TrimRight(source, "/")
		if idx := strings.LastIndex(name, "/"); idx >= 0 && idx < len(name)-1 {
			name = name[idx+1:]
		}
	} else {
		name = filepath.Base(source)
	}
	name = strings.TrimSuffix(name, filepath.Ext(name))
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "report"
	}
	return b.String()
}
