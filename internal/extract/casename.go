// Package extract derives case names and years for citations from the
// surrounding document text. Only local context is used: externally verified
// data is never consulted here, so the output always reflects what the
// document itself says.
package extract

import (
	"regexp"
	"strings"

	"github.com/lexhound/lexhound/internal/model"
)

// partyWord matches one word of a party name: capitalized words plus the
// lowercase connectors that appear inside captions.
const partyWord = `(?:[A-Z][A-Za-z0-9.'&\-]*|of|the|and|for|de|la|van|von|ex|rel\.?|&)`

// corpSuffix matches trailing corporate designators, optionally set off by a
// comma ("Pacific Foods, Inc.").
const corpSuffix = `(?:,?\s+(?:Inc|Incorporated|LLC|L\.L\.C|LLP|Ltd|Corp|Corporation|Co|Company|N\.A)\.?)*`

var (
	// adversarialPattern matches "Plaintiff v. Defendant" captions.
	adversarialPattern = regexp.MustCompile(
		`[A-Z][A-Za-z0-9.'&\-]*(?:\s+` + partyWord + `)*` + corpSuffix +
			`\s+vs?\.?\s+` +
			`[A-Z][A-Za-z0-9.'&\-]*(?:\s+` + partyWord + `)*` + corpSuffix)

	// singlePartyPattern matches non-adversarial captions.
	singlePartyPattern = regexp.MustCompile(
		`(?:In re|Ex parte|In the Matter of|Matter of)\s+[A-Z][A-Za-z0-9.'&\-]*(?:\s+` + partyWord + `)*`)

	// strictTail is the window remainder that marks a caption immediately
	// preceding its citation.
	strictTail = regexp.MustCompile(`^,?\s*$`)

	// yearGroup finds a parenthetical containing a 4-digit year, possibly
	// after a court designation: "(1990)", "(Wash. Ct. App. 1990)".
	yearGroup = regexp.MustCompile(`\((?:[^)]*[\s(])?(\d{4})\)`)

	// sentenceBreak marks text between a citation and a candidate year that
	// belongs to a different sentence or string-cite entry.
	sentenceBreak = regexp.MustCompile(`\.\s+[A-Z]|;`)

	// docketPattern matches case-number stamps that contaminate extractions.
	docketPattern = regexp.MustCompile(`No\.?\s*\d{4,}|\d{5,}-\d`)

	// citationSignals are introductory words that precede a caption but are
	// not part of it.
	citationSignals = map[string]bool{
		"See": true, "Cf": true, "Cf.": true, "Accord": true, "Compare": true,
		"But": true, "Contra": true, "E.g.": true, "Citing": true,
		"Quoting": true, "In": true, "Under": true, "And": true,
	}

	// boilerplateMarkers flag document headers, filing stamps, and other
	// caption-page noise. Matched case-sensitively: these appear uppercased
	// in headers while legitimate party names do not.
	boilerplateMarkers = []string{
		"CLERK", "FILED", "COURT OF APPEALS", "SUPREME COURT", "IN THE COURT",
		"DIVISION", "RESPONDENT", "APPELLANT", "PETITIONER", "UNPUBLISHED",
	}
)

// Extractor finds case names and years in a bounded window around each
// citation.
type Extractor struct {
	window        int
	yearWindow    int
	minNameLength int
}

func New(cfg model.ExtractorConfig) *Extractor {
	window := cfg.Window
	if window <= 0 {
		window = 300
	}
	yearWindow := cfg.YearWindow
	if yearWindow <= 0 {
		yearWindow = 120
	}
	return &Extractor{
		window:        window,
		yearWindow:    yearWindow,
		minNameLength: cfg.MinNameLength,
	}
}

// ExtractAll fills ExtractedCaseName and ExtractedYear for every citation in
// place. Extraction never fails hard: a citation whose context yields
// nothing usable simply keeps empty fields. Citations must be ordered by
// start offset.
func (e *Extractor) ExtractAll(text string, citations []model.Citation) {
	for i := range citations {
		citations[i].ExtractedCaseName = e.caseName(text, citations, i)
		citations[i].ExtractedYear = e.year(text, citations, i)
	}
}

type candidate struct {
	name   string
	end    int // End offset within the window
	strict bool
}

// caseName searches the window of text before citation i for the best
// caption.
func (e *Extractor) caseName(text string, citations []model.Citation, i int) string {
	cit := citations[i]
	winStart := cit.Start - e.window
	if winStart < 0 {
		winStart = 0
	}
	// Never search past a previous citation: its caption belongs to it, not
	// to us.
	for j := 0; j < i; j++ {
		if end := citations[j].End; end > winStart && end <= cit.Start {
			winStart = end
		}
	}
	if winStart >= cit.Start {
		return ""
	}
	window := text[winStart:cit.Start]

	// Parentheticals carry nested citations ("quoting X v. Y ..."); blank
	// them out so an inner caption can never be read as the outer one.
	masked := maskParentheticals(window)

	var candidates []candidate
	for _, p := range []*regexp.Regexp{adversarialPattern, singlePartyPattern} {
		for _, loc := range p.FindAllStringIndex(masked, -1) {
			name := cleanName(masked[loc[0]:loc[1]])
			if name == "" {
				continue
			}
			candidates = append(candidates, candidate{
				name:   name,
				end:    loc[1],
				strict: strictTail.MatchString(masked[loc[1]:]),
			})
		}
	}

	best := ""
	bestScore := -1 << 30
	for _, c := range candidates {
		if e.rejectName(c.name) {
			continue
		}
		score := -(len(window) - c.end) // Closer to the citation is better
		if c.strict {
			score += 1000
		}
		if !strings.ContainsRune(window[c.end:], '\n') {
			score += 50 // Same line as the citation
		}
		if score > bestScore {
			bestScore = score
			best = c.name
		}
	}
	return best
}

// rejectName filters boilerplate and too-short extractions. A contaminated
// name is worse than none.
func (e *Extractor) rejectName(name string) bool {
	if len(name) < e.minNameLength {
		return true
	}
	for _, marker := range boilerplateMarkers {
		if strings.Contains(name, marker) {
			return true
		}
	}
	if docketPattern.MatchString(name) {
		return true
	}
	if upperRatio(name) > 0.8 && len(name) > 12 {
		return true
	}
	return false
}

// year searches forward from the citation for the parenthesized decision
// year, skipping over parallel citations and stopping at sentence
// boundaries.
func (e *Extractor) year(text string, citations []model.Citation, i int) string {
	cit := citations[i]
	end := cit.End + e.yearWindow
	if end > len(text) {
		end = len(text)
	}
	forward := []byte(text[cit.End:end])

	// Mask later citations so their internal punctuation neither yields a
	// false year nor looks like a sentence boundary.
	for j := i + 1; j < len(citations); j++ {
		other := citations[j]
		if other.Start >= end {
			break
		}
		from := other.Start - cit.End
		if from < 0 {
			from = 0
		}
		to := other.End - cit.End
		if to > len(forward) {
			to = len(forward)
		}
		for k := from; k < to; k++ {
			forward[k] = ' '
		}
	}

	m := yearGroup.FindSubmatchIndex(forward)
	if m == nil {
		return ""
	}
	// A sentence boundary before the year means it belongs to other text.
	if sentenceBreak.Match(forward[:m[0]]) {
		return ""
	}
	year := string(forward[m[2]:m[3]])
	if year < "1600" || year > "2100" {
		return ""
	}
	return year
}

// maskParentheticals replaces every parenthesized region, including the
// parentheses, with spaces. Nested parentheticals are handled; an unclosed
// parenthesis masks to the end of the window.
func maskParentheticals(s string) string {
	b := []byte(s)
	depth := 0
	for i := range b {
		switch b[i] {
		case '(':
			depth++
			b[i] = ' '
		case ')':
			if depth > 0 {
				depth--
			}
			b[i] = ' '
		default:
			if depth > 0 {
				b[i] = ' '
			}
		}
	}
	return string(b)
}

// trailingConnectors are caption-internal words that are junk when the
// greedy party match leaves them dangling at the end.
var trailingConnectors = map[string]bool{
	"the": true, "of": true, "and": true, "for": true, "de": true,
	"la": true, "van": true, "von": true, "ex": true, "rel": true, "&": true,
}

// cleanName trims punctuation, leading citation signals ("See Smith v.
// Jones" names the Smith case, not a "See Smith" party), and dangling
// connector words.
func cleanName(name string) string {
	name = strings.Join(strings.Fields(name), " ")
	name = strings.Trim(name, " ,.")

	// Non-adversarial captions keep their introductory words.
	for _, prefix := range []string{"In re ", "Ex parte ", "In the Matter of ", "Matter of "} {
		if strings.HasPrefix(name, prefix) {
			return name
		}
	}

	for {
		idx := strings.IndexByte(name, ' ')
		if idx < 0 {
			break
		}
		first := strings.TrimSuffix(name[:idx], ",")
		if !citationSignals[first] {
			break
		}
		rest := name[idx+1:]
		// Only strip when a caption remains afterwards.
		if !strings.Contains(rest, " ") {
			break
		}
		name = rest
	}

	for {
		idx := strings.LastIndexByte(name, ' ')
		if idx < 0 {
			break
		}
		if !trailingConnectors[name[idx+1:]] {
			break
		}
		name = strings.TrimRight(name[:idx], " ,.")
	}
	return name
}

func upperRatio(s string) float64 {
	letters, uppers := 0, 0
	for _, r := range s {
		if r >= 'a' && r <= 'z' {
			letters++
		} else if r >= 'A' && r <= 'Z' {
			letters++
			uppers++
		}
	}
	if letters == 0 {
		return 0
	}
	return float64(uppers) / float64(letters)
}
