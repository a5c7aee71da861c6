package verify

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/lexhound/lexhound/internal/match"
	"github.com/lexhound/lexhound/internal/model"
)

// ambiguityMargin is how close the top two candidate confidences may be
// before the source's answer is treated as ambiguous (when the candidates
// name different cases).
const ambiguityMargin = 0.03

// verifySleepFunc is the sleep function used between retries (injectable for tests)
var verifySleepFunc = time.Sleep

// Engine verifies citations concurrently against an ordered chain of sources.
type Engine struct {
	sources    []Source
	cfg        model.VerifyConfig
	maxWorkers int
	val        *validator
}

// NewEngine creates a verification engine. Sources are tried in the order
// given; minNameLen is the shortest extracted case name worth looking up.
func NewEngine(cfg model.VerifyConfig, maxWorkers, minNameLen int, sources ...Source) *Engine {
	if maxWorkers <= 0 {
		maxWorkers = 10
	}
	return &Engine{
		sources:    sources,
		cfg:        cfg,
		maxWorkers: maxWorkers,
		val:        &validator{cfg: cfg, minNameLen: minNameLen},
	}
}

// Stats summarizes one verification run.
type Stats struct {
	Verified     int
	Unverified   int
	Errors       int
	Rejections   int
	SourceErrors int
}

// VerifyAll verifies every citation in place. Each citation is looked up on
// its own; cluster mates share extracted identity but never canonical
// results, so a verified member next to a failed one stays that way.
func (e *Engine) VerifyAll(ctx context.Context, citations []model.Citation, clusters []model.Cluster) Stats {
	if len(citations) == 0 {
		return Stats{}
	}

	if e.cfg.TotalTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.cfg.TotalTimeout)
		defer cancel()
	}

	results := make([]model.VerificationResult, len(citations))
	var wg sync.WaitGroup

	// Semaphore bounds concurrent lookups.
	semaphore := make(chan struct{}, e.maxWorkers)

	for i := range citations {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			select {
			case <-ctx.Done():
				results[idx] = model.Unverified(model.RejectTimeout)
				return
			case semaphore <- struct{}{}:
			}
			defer func() { <-semaphore }()

			results[idx] = e.verifyOne(ctx, e.requestFor(&citations[idx], clusters))
		}(i)
	}

	wg.Wait()

	var stats Stats
	for i := range citations {
		citations[i].ApplyResult(results[i])
		r := results[i]
		switch {
		case r.Matched:
			stats.Verified++
		default:
			stats.Unverified++
			switch r.RejectionReason {
			case model.RejectSourceError:
				stats.SourceErrors++
			case model.RejectNone:
			default:
				stats.Rejections++
			}
		}
		if r.Error != "" {
			stats.Errors++
		}
	}
	return stats
}

// requestFor builds one citation's lookup request. A citation with no
// extraction of its own borrows the cluster identity, which is still
// document-extracted data.
func (e *Engine) requestFor(c *model.Citation, clusters []model.Cluster) Request {
	req := Request{
		CitationText: c.Text,
		CaseName:     c.ExtractedCaseName,
		Year:         c.ExtractedYear,
	}
	if c.ClusterID >= 0 && c.ClusterID < len(clusters) {
		cl := clusters[c.ClusterID]
		if req.CaseName == "" {
			req.CaseName = cl.CaseName
		}
		if req.Year == "" {
			req.Year = cl.Year
		}
	}
	return req
}

// verifyOne walks the source chain for a single citation. A source error
// advances the chain; a definitive rejection is remembered so the final
// unverified result carries the most specific reason seen.
func (e *Engine) verifyOne(ctx context.Context, req Request) model.VerificationResult {
	lastReason := model.RejectNoCandidates
	sawReject := false
	sawSourceError := false
	var lastErr string

	for _, src := range e.sources {
		if ctx.Err() != nil {
			return model.Unverified(model.RejectTimeout)
		}

		sctx := ctx
		var cancel context.CancelFunc
		if e.cfg.SourceTimeout > 0 {
			sctx, cancel = context.WithTimeout(ctx, e.cfg.SourceTimeout)
		}
		records, err := e.lookupWithRetry(sctx, src, req)
		if cancel != nil {
			cancel()
		}
		if err != nil {
			if ctx.Err() != nil {
				return model.Unverified(model.RejectTimeout)
			}
			sawSourceError = true
			lastErr = err.Error()
			continue
		}

		accepted, reason := e.evaluateAll(src, req, records)
		if len(accepted) == 0 {
			if reason != model.RejectNone && reason != model.RejectNoCandidates {
				lastReason = reason
				sawReject = true
			}
			continue
		}

		best, ambiguous := pickBest(accepted)
		if ambiguous {
			lastReason = model.RejectAmbiguous
			sawReject = true
			continue
		}
		return model.VerificationResult{
			Matched:    true,
			Name:       best.record.Name,
			Date:       best.record.Date,
			URL:        best.record.URL,
			Source:     src.Name(),
			Confidence: best.confidence,
		}
	}

	if !sawReject && sawSourceError {
		r := model.Unverified(model.RejectSourceError)
		r.Error = lastErr
		return r
	}
	return model.Unverified(lastReason)
}

type scoredRecord struct {
	record     CaseRecord
	confidence float64
}

// evaluateAll validates every record from one source. When nothing is
// accepted it reports the first rejection reason, which names the check
// that disqualified the closest candidate.
func (e *Engine) evaluateAll(src Source, req Request, records []CaseRecord) ([]scoredRecord, model.RejectionReason) {
	var accepted []scoredRecord
	firstReason := model.RejectNone
	for _, rec := range records {
		ok, conf, reason := e.val.evaluate(src, req, rec)
		if ok {
			accepted = append(accepted, scoredRecord{record: rec, confidence: conf})
		} else if firstReason == model.RejectNone {
			firstReason = reason
		}
	}
	return accepted, firstReason
}

// pickBest selects the highest-confidence accepted record. When the runner-up
// is within the ambiguity margin and names a different case, the source has
// not actually decided anything.
func pickBest(accepted []scoredRecord) (scoredRecord, bool) {
	best := accepted[0]
	for _, s := range accepted[1:] {
		if s.confidence > best.confidence {
			best = s
		}
	}
	for _, s := range accepted {
		if s.record.URL == best.record.URL && s.record.Name == best.record.Name {
			continue
		}
		if best.confidence-s.confidence <= ambiguityMargin &&
			match.Similarity(best.record.Name, s.record.Name) < 0.9 {
			return scoredRecord{}, true
		}
	}
	return best, false
}

// lookupWithRetry retries transient source failures with exponential backoff.
func (e *Engine) lookupWithRetry(ctx context.Context, src Source, req Request) ([]CaseRecord, error) {
	retries := e.cfg.Retries
	if retries < 1 {
		retries = 1
	}
	var records []CaseRecord
	var err error
	for attempt := 0; attempt < retries; attempt++ {
		records, err = src.Lookup(ctx, req)
		if err == nil || !isRetryableLookupError(err) || ctx.Err() != nil {
			return records, err
		}
		if attempt < retries-1 {
			backoff := time.Duration(1<<uint(attempt)) * time.Second
			verifySleepFunc(backoff)
		}
	}
	return records, err
}

// isRetryableLookupError checks error strings for transient failures.
func isRetryableLookupError(err error) bool {
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "timeout") ||
		strings.Contains(s, "connection refused") ||
		strings.Contains(s, "connection reset") ||
		strings.Contains(s, "status 429") ||
		strings.Contains(s, "status 5")
}
