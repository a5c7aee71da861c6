package collect

import (
	"regexp"
	"strings"

	"github.com/lexhound/lexhound/internal/reporters"
)

// reporterToken matches one component of a reporter abbreviation: a dotted
// word ("Wn.", "Supp."), a dotted initialism ("U.S.", "N.E."), or a series
// ordinal ("2d", "3d").
const reporterToken = `(?:[A-Z]\.(?:\s*[A-Z]\.)+|[A-Z][a-zA-Z']*\.|2d|3d|4th|5th)`

// citationPattern captures "volume reporter page". The reporter group allows
// tokens to run together ("Wn.2d") or be space-separated ("F. Supp. 2d").
var citationPattern = regexp.MustCompile(
	`\b(\d{1,4})\s+(` + reporterToken + `(?:\s*` + reporterToken + `)*)\s*(\d{1,5})\b`)

// Tokens that look like dotted abbreviations but never name a case reporter.
var nonReporterTokens = map[string]bool{
	"no":   true,
	"nos":  true,
	"dkt":  true,
	"doc":  true,
	"stat": true,
	"cong": true,
	"sess": true,
	// A bare series ordinal is not a reporter.
	"2d":  true,
	"3d":  true,
	"4th": true,
	"5th": true,
}

// RegexRecognizer detects citations by their volume-reporter-page shape
// without knowing individual reporters. It is intentionally permissive; the
// collector's dedup and the verification chain tolerate the occasional
// spurious candidate.
type RegexRecognizer struct{}

func NewRegexRecognizer() *RegexRecognizer { return &RegexRecognizer{} }

func (r *RegexRecognizer) Name() string { return "shape" }

// Recognize returns every volume-reporter-page span in the text.
func (r *RegexRecognizer) Recognize(text string) []Candidate {
	var out []Candidate
	for _, m := range citationPattern.FindAllStringSubmatchIndex(text, -1) {
		start, end := m[0], m[1]
		reporter := text[m[4]:m[5]]
		if isNonReporter(reporter) {
			continue
		}
		out = append(out, Candidate{
			Text:  text[start:end],
			Start: start,
			End:   end,
		})
	}
	return out
}

func isNonReporter(reporter string) bool {
	first := strings.ToLower(strings.TrimRight(strings.Fields(reporter)[0], "."))
	return nonReporterTokens[first]
}

// TableRecognizer detects citations whose reporter abbreviation appears in
// the known-reporter table. Narrower coverage than the shape recognizer but
// precise spans; where both fire, dedup keeps the tighter detection.
type TableRecognizer struct {
	patterns []*regexp.Regexp
}

func NewTableRecognizer() *TableRecognizer {
	t := &TableRecognizer{}
	for _, abbrev := range reporters.Abbreviations() {
		t.patterns = append(t.patterns, compileAbbrevPattern(abbrev))
	}
	return t
}

func (t *TableRecognizer) Name() string { return "table" }

// compileAbbrevPattern turns a display abbreviation such as "Wn. App.2d"
// into a pattern tolerating flexible spacing, anchored by volume and page
// numbers.
func compileAbbrevPattern(abbrev string) *regexp.Regexp {
	var b strings.Builder
	b.WriteString(`\b(\d{1,4})\s+(`)
	for _, r := range abbrev {
		switch r {
		case '.':
			b.WriteString(`\.\s*`)
		case ' ':
			b.WriteString(`\s*`)
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteString(`)\s*(\d{1,5})\b`)
	return regexp.MustCompile(b.String())
}

// Recognize returns spans for every known-reporter citation. Overlapping
// hits from related abbreviations ("Wn." inside "Wn. App.") are resolved by
// keeping the longest span at each position.
func (t *TableRecognizer) Recognize(text string) []Candidate {
	var all []Candidate
	for _, p := range t.patterns {
		for _, m := range p.FindAllStringIndex(text, -1) {
			all = append(all, Candidate{
				Text:  text[m[0]:m[1]],
				Start: m[0],
				End:   m[1],
			})
		}
	}
	return longestAtEachStart(all)
}

// longestAtEachStart keeps, for candidates sharing a start offset, only the
// longest one, and drops candidates fully contained in another.
func longestAtEachStart(cands []Candidate) []Candidate {
	byStart := make(map[int]Candidate)
	for _, c := range cands {
		if cur, ok := byStart[c.Start]; !ok || c.End > cur.End {
			byStart[c.Start] = c
		}
	}
	var out []Candidate
	for _, c := range byStart {
		contained := false
		for _, other := range byStart {
			if other.Start == c.Start && other.End == c.End {
				continue
			}
			if other.Start <= c.Start && c.End <= other.End {
				contained = true
				break
			}
		}
		if !contained {
			out = append(out, c)
		}
	}
	return out
}
