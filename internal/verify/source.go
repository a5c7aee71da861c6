// Package verify resolves citation clusters against external legal-reference
// sources. An ordered chain of sources is tried per citation; every candidate
// match is validated against the document-extracted data and rejected on any
// failed check. Exhausting the chain leaves the citation unverified, which is
// the correct report for incomplete external data, never a fabricated match.
package verify

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"
)

// Kind tags a source by capability, which determines its base confidence and
// whether a literal citation-text hit may bypass the year check.
type Kind string

const (
	// KindStructured is a lookup keyed by the literal citation string.
	KindStructured Kind = "structured"
	// KindTextSearch is a free-text case-name search.
	KindTextSearch Kind = "search"
	// KindFallback is a general-purpose web search source.
	KindFallback Kind = "fallback"
)

// Request carries what the document says about one citation. CaseName and
// Year are the citation's own extraction, falling back to its cluster's.
type Request struct {
	CitationText string
	CaseName     string
	Year         string
}

// CaseRecord is one candidate case returned by a source. All fields are
// treated as unreliable until validated.
type CaseRecord struct {
	Name      string   `json:"name"`
	Date      string   `json:"date"`  // ISO date or bare year
	URL       string   `json:"url"`
	Court     string   `json:"court"` // Free-form court or jurisdiction
	Citations []string `json:"citations,omitempty"`
}

// Source is one external legal-reference service in the verification chain.
type Source interface {
	Name() string
	Kind() Kind
	Lookup(ctx context.Context, req Request) ([]CaseRecord, error)
}

var yearPattern = regexp.MustCompile(`\b(1[6-9]\d{2}|20\d{2})\b`)

// recordYear pulls a 4-digit year out of a record's date field.
func recordYear(rec CaseRecord) string {
	m := yearPattern.FindString(rec.Date)
	return m
}

// citesLiterally reports whether the record lists the requested citation
// string among its known citations, comparing on collapsed whitespace. This
// is what distinguishes a keyed structured hit from a fuzzy one.
func citesLiterally(rec CaseRecord, citationText string) bool {
	want := collapse(citationText)
	for _, c := range rec.Citations {
		if collapse(c) == want {
			return true
		}
	}
	return false
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func encodeRecords(records []CaseRecord) ([]byte, error) {
	return json.Marshal(records)
}

func decodeRecords(data []byte) ([]CaseRecord, error) {
	var records []CaseRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	return records, nil
}
