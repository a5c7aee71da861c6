package collect

import (
	"sort"
	"strings"

	"github.com/lexhound/lexhound/internal/model"
)

// Collector runs the recognizer set over a document and merges their output.
type Collector struct {
	recognizers      []Recognizer
	overlapThreshold float64
	spanTolerance    int
}

// Stats counts what happened during collection, for observability.
type Stats struct {
	Detections        int // Raw candidates across all recognizers
	DuplicatesRemoved int
}

// NewCollector creates a collector with the built-in recognizers plus any
// injected ones. Injected recognizers take priority on exact ties.
func NewCollector(cfg model.CollectorConfig, extra ...Recognizer) *Collector {
	recognizers := append([]Recognizer{}, extra...)
	recognizers = append(recognizers, NewTableRecognizer(), NewRegexRecognizer())
	overlap := cfg.OverlapThreshold
	if overlap <= 0 {
		overlap = 0.8
	}
	tolerance := cfg.SpanTolerance
	if tolerance <= 0 {
		tolerance = 5
	}
	return &Collector{
		recognizers:      recognizers,
		overlapThreshold: overlap,
		spanTolerance:    tolerance,
	}
}

// Collect normalizes the text, runs every recognizer, and returns unique
// citation stubs ordered by position. Citation text is sliced from the
// normalized text so a line-wrapped citation reads as one line; offsets are
// valid for both the normalized and the original text.
func (c *Collector) Collect(text string) ([]model.Citation, Stats) {
	normalized := Normalize(text)

	type ranked struct {
		Candidate
		priority int // Recognizer index; lower wins ties
	}
	var all []ranked
	for i, rec := range c.recognizers {
		for _, cand := range rec.Recognize(normalized) {
			all = append(all, ranked{Candidate: cand, priority: i})
		}
	}
	stats := Stats{Detections: len(all)}

	// Narrower spans first so a keeper is always the most precise detection
	// of its region; priority breaks exact ties.
	sort.Slice(all, func(i, j int) bool {
		li, lj := all[i].End-all[i].Start, all[j].End-all[j].Start
		if li != lj {
			return li < lj
		}
		if all[i].Start != all[j].Start {
			return all[i].Start < all[j].Start
		}
		return all[i].priority < all[j].priority
	})

	var kept []Candidate
	for _, cand := range all {
		dup := false
		for _, k := range kept {
			if c.isDuplicate(cand.Candidate, k) {
				dup = true
				break
			}
		}
		if dup {
			stats.DuplicatesRemoved++
			continue
		}
		kept = append(kept, cand.Candidate)
	}

	sort.Slice(kept, func(i, j int) bool { return kept[i].Start < kept[j].Start })

	citations := make([]model.Citation, len(kept))
	for i, cand := range kept {
		citations[i] = model.Citation{
			ID:        i,
			Text:      cand.Text,
			Start:     cand.Start,
			End:       cand.End,
			Status:    model.StatusPending,
			ClusterID: -1,
		}
	}
	return citations, stats
}

// isDuplicate applies the dedup rule: spans overlapping beyond the threshold
// fraction of the shorter span, or identical whitespace-collapsed text with
// starts within the span tolerance.
func (c *Collector) isDuplicate(a, b Candidate) bool {
	overlap := overlapLength(a, b)
	shorter := a.End - a.Start
	if l := b.End - b.Start; l < shorter {
		shorter = l
	}
	if shorter > 0 && float64(overlap)/float64(shorter) > c.overlapThreshold {
		return true
	}
	if collapseWhitespace(a.Text) == collapseWhitespace(b.Text) && abs(a.Start-b.Start) <= c.spanTolerance {
		return true
	}
	return false
}

func overlapLength(a, b Candidate) int {
	start := a.Start
	if b.Start > start {
		start = b.Start
	}
	end := a.End
	if b.End < end {
		end = b.End
	}
	if end <= start {
		return 0
	}
	return end - start
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
