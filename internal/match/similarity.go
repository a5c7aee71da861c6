// Package match provides the text-comparison primitives shared by the
// clustering and verification stages: case-name normalization, significant
// word overlap, edit-distance similarity, and government-party handling.
package match

import (
	"strings"
	"unicode"
)

// stopWords are tokens that carry no identifying weight in a case name.
// "v" dominates every adversarial caption and corporate suffixes appear in
// thousands of unrelated cases, so overlap on them is not evidence.
var stopWords = map[string]bool{
	"v":    true,
	"vs":   true,
	"the":  true,
	"of":   true,
	"a":    true,
	"an":   true,
	"and":  true,
	"in":   true,
	"re":   true,
	"ex":   true,
	"rel":  true,
	"et":   true,
	"al":   true,
	"inc":  true,
	"llc":  true,
	"llp":  true,
	"corp": true,
	"co":   true,
	"ltd":  true,
}

// Government party captions, normalized. Exact forms stand alone ("State v.
// Smith"); prefix forms take a jurisdiction name ("State of Washington").
// Bare "state" must be exact: "State Farm" is a private party.
var governmentExact = map[string]bool{
	"state":                    true,
	"people":                   true,
	"commonwealth":             true,
	"united states":            true,
	"united states of america": true,
	"us":                       true,
	"usa":                      true,
}

var governmentPrefixes = []string{
	"state of ",
	"people of ",
	"commonwealth of ",
	"united states of ",
	"city of ",
	"county of ",
}

// Normalize lowercases a case name, strips punctuation, and collapses
// whitespace. "Smith v. Jones, Inc." becomes "smith v jones inc".
func Normalize(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	lastSpace := true
	for _, r := range strings.ToLower(name) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastSpace = false
		case r == '\'':
			// O'Brien, Int'l: drop the apostrophe, keep the word whole
		default:
			if !lastSpace {
				b.WriteByte(' ')
				lastSpace = true
			}
		}
	}
	return strings.TrimSpace(b.String())
}

// SignificantTokens returns the normalized tokens of a name with stop-words
// removed.
func SignificantTokens(name string) []string {
	var tokens []string
	for _, tok := range strings.Fields(Normalize(name)) {
		if !stopWords[tok] {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

// WordOverlap returns the fraction of extracted-name significant tokens that
// also appear in the candidate name, in [0,1]. An extracted name with no
// significant tokens yields 0: absence of evidence is not a match.
func WordOverlap(extracted, candidate string) float64 {
	extTokens := SignificantTokens(extracted)
	if len(extTokens) == 0 {
		return 0
	}
	candSet := make(map[string]bool)
	for _, tok := range SignificantTokens(candidate) {
		candSet[tok] = true
	}
	hits := 0
	for _, tok := range extTokens {
		if candSet[tok] {
			hits++
		}
	}
	return float64(hits) / float64(len(extTokens))
}

// Similarity returns an edit-distance ratio between two normalized names,
// in [0,1]. Two empty names are similar only to each other in the trivial
// sense and return 0 so an empty extraction never causes a match.
func Similarity(a, b string) float64 {
	na, nb := Normalize(a), Normalize(b)
	if na == "" || nb == "" {
		return 0
	}
	if na == nb {
		return 1
	}
	dist := levenshtein(na, nb)
	longer := len(na)
	if len(nb) > longer {
		longer = len(nb)
	}
	return 1 - float64(dist)/float64(longer)
}

// levenshtein computes edit distance over bytes of already-normalized ASCII
// names using the two-row method.
func levenshtein(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := 0; j <= len(b); j++ {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		cur[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			cur[j] = min3(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}

// SplitParties splits a case name on the "v." separator. ok is false for
// single-party captions such as "In re Ballard Estate".
func SplitParties(name string) (plaintiff, defendant string, ok bool) {
	norm := Normalize(name)
	for _, sep := range []string{" v ", " vs "} {
		if idx := strings.Index(norm, sep); idx > 0 {
			return strings.TrimSpace(norm[:idx]), strings.TrimSpace(norm[idx+len(sep):]), true
		}
	}
	return "", "", false
}

// IsGovernmentCase reports whether either party of the caption is a
// government entity ("State v. X", "United States v. Y").
func IsGovernmentCase(name string) bool {
	plaintiff, defendant, ok := SplitParties(name)
	if !ok {
		return false
	}
	return isGovernmentParty(plaintiff) || isGovernmentParty(defendant)
}

// NonGovernmentParty isolates the private party of a government-party
// caption. When both parties are private or the caption has no "v."
// separator, ok is false.
func NonGovernmentParty(name string) (party string, ok bool) {
	plaintiff, defendant, split := SplitParties(name)
	if !split {
		return "", false
	}
	pGov, dGov := isGovernmentParty(plaintiff), isGovernmentParty(defendant)
	switch {
	case pGov && !dGov:
		return defendant, true
	case dGov && !pGov:
		return plaintiff, true
	default:
		return "", false
	}
}

func isGovernmentParty(normalized string) bool {
	if governmentExact[normalized] {
		return true
	}
	for _, prefix := range governmentPrefixes {
		if strings.HasPrefix(normalized, prefix) {
			return true
		}
	}
	return false
}
