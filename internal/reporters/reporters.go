// Package reporters maps reporter abbreviations found in citation text to
// the jurisdictions whose cases they publish. The mapping drives the
// jurisdiction-consistency check during verification: a candidate from a
// court outside a reporter's coverage set cannot be the cited case.
//
// Abbreviations are matched on a normalized form (lowercase, dots and spaces
// removed) but the original citation text is never rewritten: "Wn.2d" and
// "Wash.2d" stay distinct strings for lookup purposes even though both
// resolve to the Washington reports here.
package reporters

import (
	"regexp"
	"strings"
)

// Class partitions reporters by the shape of their coverage set.
type Class int

const (
	ClassUnknown  Class = iota
	ClassState          // One state's official or unofficial reports
	ClassRegional       // A multi-state regional reporter
	ClassFederal        // Federal courts
)

func (c Class) String() string {
	switch c {
	case ClassState:
		return "state"
	case ClassRegional:
		return "regional"
	case ClassFederal:
		return "federal"
	default:
		return "unknown"
	}
}

// Reporter describes one reporter series.
type Reporter struct {
	Abbrev string   // Canonical abbreviation
	Class  Class
	States []string // Covered state codes; empty for federal reporters
}

// Regional coverage sets.
var (
	pacificStates  = []string{"ak", "az", "ca", "co", "hi", "id", "ks", "mt", "nv", "nm", "ok", "or", "ut", "wa", "wy"}
	northEastern   = []string{"il", "in", "ma", "ny", "oh"}
	northWestern   = []string{"ia", "mi", "mn", "ne", "nd", "sd", "wi"}
	atlanticStates = []string{"ct", "de", "dc", "me", "md", "nh", "nj", "pa", "ri", "vt"}
	southEastern   = []string{"ga", "nc", "sc", "va", "wv"}
	southWestern   = []string{"ar", "ky", "mo", "tn", "tx"}
	southern       = []string{"al", "fl", "la", "ms"}
)

// table is keyed by normalized abbreviation (lowercase, no dots or spaces).
// Series variants (2d, 3d, ...) are generated in init.
var table = map[string]Reporter{}

type seriesEntry struct {
	base    string // normalized base form, e.g. "wn"
	abbrev  string // display form
	class   Class
	states  []string
	series  []string // suffixes to register in addition to the bare base
	noPlain bool     // register only suffixed forms
}

func init() {
	entries := []seriesEntry{
		// Federal.
		{base: "us", abbrev: "U.S.", class: ClassFederal},
		{base: "sct", abbrev: "S. Ct.", class: ClassFederal},
		{base: "led", abbrev: "L. Ed.", class: ClassFederal, series: []string{"2d"}},
		{base: "f", abbrev: "F.", class: ClassFederal, series: []string{"2d", "3d", "4th"}},
		{base: "fsupp", abbrev: "F. Supp.", class: ClassFederal, series: []string{"2d", "3d"}},
		{base: "fedappx", abbrev: "Fed. Appx.", class: ClassFederal},
		{base: "frd", abbrev: "F.R.D.", class: ClassFederal},
		{base: "br", abbrev: "B.R.", class: ClassFederal},

		// Regional.
		{base: "p", abbrev: "P.", class: ClassRegional, states: pacificStates, series: []string{"2d", "3d"}},
		{base: "ne", abbrev: "N.E.", class: ClassRegional, states: northEastern, series: []string{"2d", "3d"}},
		{base: "nw", abbrev: "N.W.", class: ClassRegional, states: northWestern, series: []string{"2d", "3d"}},
		{base: "a", abbrev: "A.", class: ClassRegional, states: atlanticStates, series: []string{"2d", "3d"}},
		{base: "se", abbrev: "S.E.", class: ClassRegional, states: southEastern, series: []string{"2d"}},
		{base: "sw", abbrev: "S.W.", class: ClassRegional, states: southWestern, series: []string{"2d", "3d"}},
		{base: "so", abbrev: "So.", class: ClassRegional, states: southern, series: []string{"2d", "3d"}},

		// State reports. Both official and common variant abbreviations are
		// registered; each entry is a distinct lookup key.
		{base: "wn", abbrev: "Wn.", class: ClassState, states: []string{"wa"}, series: []string{"2d"}},
		{base: "wash", abbrev: "Wash.", class: ClassState, states: []string{"wa"}, series: []string{"2d"}},
		{base: "wnapp", abbrev: "Wn. App.", class: ClassState, states: []string{"wa"}, series: []string{"2d"}},
		{base: "washapp", abbrev: "Wash. App.", class: ClassState, states: []string{"wa"}, series: []string{"2d"}},
		{base: "cal", abbrev: "Cal.", class: ClassState, states: []string{"ca"}, series: []string{"2d", "3d", "4th", "5th"}},
		{base: "calapp", abbrev: "Cal. App.", class: ClassState, states: []string{"ca"}, series: []string{"2d", "3d", "4th", "5th"}},
		{base: "calrptr", abbrev: "Cal. Rptr.", class: ClassState, states: []string{"ca"}, series: []string{"2d", "3d"}},
		{base: "ny", abbrev: "N.Y.", class: ClassState, states: []string{"ny"}, series: []string{"2d", "3d"}},
		// Bare "ad" is too short to trust; only the suffixed forms register.
		{base: "ad", abbrev: "A.D.", class: ClassState, states: []string{"ny"}, series: []string{"2d", "3d"}, noPlain: true},
		{base: "misc", abbrev: "Misc.", class: ClassState, states: []string{"ny"}, series: []string{"2d", "3d"}},
		{base: "ill", abbrev: "Ill.", class: ClassState, states: []string{"il"}, series: []string{"2d"}},
		{base: "illapp", abbrev: "Ill. App.", class: ClassState, states: []string{"il"}, series: []string{"2d", "3d"}},
		{base: "ohiost", abbrev: "Ohio St.", class: ClassState, states: []string{"oh"}, series: []string{"2d", "3d"}},
		{base: "mass", abbrev: "Mass.", class: ClassState, states: []string{"ma"}},
		{base: "massappct", abbrev: "Mass. App. Ct.", class: ClassState, states: []string{"ma"}},
		{base: "tex", abbrev: "Tex.", class: ClassState, states: []string{"tx"}},
		{base: "pa", abbrev: "Pa.", class: ClassState, states: []string{"pa"}},
		{base: "pasuper", abbrev: "Pa. Super.", class: ClassState, states: []string{"pa"}},
		{base: "njsuper", abbrev: "N.J. Super.", class: ClassState, states: []string{"nj"}},
		{base: "nj", abbrev: "N.J.", class: ClassState, states: []string{"nj"}},
		{base: "conn", abbrev: "Conn.", class: ClassState, states: []string{"ct"}},
		{base: "md", abbrev: "Md.", class: ClassState, states: []string{"md"}},
		{base: "mdapp", abbrev: "Md. App.", class: ClassState, states: []string{"md"}},
		{base: "mich", abbrev: "Mich.", class: ClassState, states: []string{"mi"}},
		{base: "michapp", abbrev: "Mich. App.", class: ClassState, states: []string{"mi"}},
		{base: "minn", abbrev: "Minn.", class: ClassState, states: []string{"mn"}},
		{base: "wis", abbrev: "Wis.", class: ClassState, states: []string{"wi"}, series: []string{"2d"}},
		{base: "or", abbrev: "Or.", class: ClassState, states: []string{"or"}},
		{base: "orapp", abbrev: "Or. App.", class: ClassState, states: []string{"or"}},
		{base: "colo", abbrev: "Colo.", class: ClassState, states: []string{"co"}},
		{base: "ariz", abbrev: "Ariz.", class: ClassState, states: []string{"az"}},
		{base: "arizapp", abbrev: "Ariz. App.", class: ClassState, states: []string{"az"}},
		{base: "kan", abbrev: "Kan.", class: ClassState, states: []string{"ks"}},
		{base: "idaho", abbrev: "Idaho", class: ClassState, states: []string{"id"}},
		{base: "mont", abbrev: "Mont.", class: ClassState, states: []string{"mt"}},
		{base: "nev", abbrev: "Nev.", class: ClassState, states: []string{"nv"}},
		{base: "utah", abbrev: "Utah", class: ClassState, states: []string{"ut"}, series: []string{"2d"}},
		{base: "fla", abbrev: "Fla.", class: ClassState, states: []string{"fl"}},
		{base: "ga", abbrev: "Ga.", class: ClassState, states: []string{"ga"}},
		{base: "gaapp", abbrev: "Ga. App.", class: ClassState, states: []string{"ga"}},
		{base: "nc", abbrev: "N.C.", class: ClassState, states: []string{"nc"}},
		{base: "ncapp", abbrev: "N.C. App.", class: ClassState, states: []string{"nc"}},
		{base: "va", abbrev: "Va.", class: ClassState, states: []string{"va"}},
		{base: "vaapp", abbrev: "Va. App.", class: ClassState, states: []string{"va"}},
	}

	for _, e := range entries {
		if !e.noPlain {
			register(e.base, Reporter{Abbrev: e.abbrev, Class: e.class, States: e.states})
		}
		for _, suffix := range e.series {
			register(e.base+suffix, Reporter{Abbrev: e.abbrev + suffix, Class: e.class, States: e.states})
		}
	}
}

func register(key string, r Reporter) {
	table[key] = r
	abbrevs = append(abbrevs, r.Abbrev)
}

var abbrevs []string

// Abbreviations returns the display form of every known reporter
// abbreviation. The order is stable across calls within one process.
func Abbreviations() []string {
	out := make([]string, len(abbrevs))
	copy(out, abbrevs)
	return out
}

// citationShape captures "volume reporter page" out of a citation string.
// The reporter group swallows a space-separated series ordinal ("F. Supp. 2d",
// "Cal. App. 4th") so the ordinal is not mistaken for the page number.
var citationShape = regexp.MustCompile(`^\s*(\d+)\s+(.+?(?:\s+(?:2d|3d|4th|5th))?)\s+(\d+)`)

// Identify finds the reporter referenced by a citation string such as
// "100 Wn.2d 1". ok is false when the reporter is not in the table, in which
// case the jurisdiction check must not reject anything.
func Identify(citation string) (Reporter, bool) {
	m := citationShape.FindStringSubmatch(citation)
	if m == nil {
		return Reporter{}, false
	}
	r, ok := table[normalizeAbbrev(m[2])]
	return r, ok
}

func normalizeAbbrev(abbrev string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(abbrev) {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// stateNames maps jurisdiction words seen in source metadata to state codes.
var stateNames = map[string]string{
	"alabama": "al", "alaska": "ak", "arizona": "az", "arkansas": "ar",
	"california": "ca", "colorado": "co", "connecticut": "ct", "delaware": "de",
	"florida": "fl", "georgia": "ga", "hawaii": "hi", "idaho": "id",
	"illinois": "il", "indiana": "in", "iowa": "ia", "kansas": "ks",
	"kentucky": "ky", "louisiana": "la", "maine": "me", "maryland": "md",
	"massachusetts": "ma", "michigan": "mi", "minnesota": "mn", "mississippi": "ms",
	"missouri": "mo", "montana": "mt", "nebraska": "ne", "nevada": "nv",
	"new hampshire": "nh", "new jersey": "nj", "new mexico": "nm", "new york": "ny",
	"north carolina": "nc", "north dakota": "nd", "ohio": "oh", "oklahoma": "ok",
	"oregon": "or", "pennsylvania": "pa", "rhode island": "ri", "south carolina": "sc",
	"south dakota": "sd", "tennessee": "tn", "texas": "tx", "utah": "ut",
	"vermont": "vt", "virginia": "va", "washington": "wa", "west virginia": "wv",
	"wisconsin": "wi", "wyoming": "wy", "district of columbia": "dc",
}

var federalMarkers = []string{
	"united states", "u.s.", "supreme court of the united states", "scotus",
	"circuit", "district court", "court of federal claims", "bankruptcy",
	"federal", "fed.",
}

// JurisdictionCode reduces a free-form court or jurisdiction string from a
// verification source ("Washington Supreme Court", "wash", "9th Circuit") to
// a state code, "federal", or "" when undeterminable.
func JurisdictionCode(s string) string {
	lower := strings.ToLower(strings.TrimSpace(s))
	if lower == "" {
		return ""
	}
	// Federal district prefixes: "W.D. Washington", "D. Mass.".
	for _, prefix := range []string{"w.d.", "e.d.", "n.d.", "s.d.", "m.d.", "c.d.", "d. "} {
		if strings.HasPrefix(lower, prefix) {
			return "federal"
		}
	}
	for _, marker := range federalMarkers {
		if strings.Contains(lower, marker) {
			// "Washington" appears inside federal court names too; a federal
			// marker wins ("W.D. Washington" is a federal court).
			return "federal"
		}
	}
	for name, code := range stateNames {
		if strings.Contains(lower, name) {
			return code
		}
	}
	// Court identifiers like "wash", "washctapp", "cal", "ny".
	compact := normalizeAbbrev(lower)
	for _, prefix := range []string{"wash", "cal", "tex", "mass", "fla", "ill", "mich", "minn", "conn", "ariz", "colo", "nev", "mont", "wis", "okla", "ore"} {
		if strings.HasPrefix(compact, prefix) {
			switch prefix {
			case "wash":
				return "wa"
			case "cal":
				return "ca"
			case "tex":
				return "tx"
			case "mass":
				return "ma"
			case "fla":
				return "fl"
			case "ill":
				return "il"
			case "mich":
				return "mi"
			case "minn":
				return "mn"
			case "conn":
				return "ct"
			case "ariz":
				return "az"
			case "colo":
				return "co"
			case "nev":
				return "nv"
			case "mont":
				return "mt"
			case "wis":
				return "wi"
			case "okla":
				return "ok"
			case "ore":
				return "or"
			}
		}
	}
	if code, ok := stateNames[lower]; ok {
		return code
	}
	if len(lower) == 2 {
		for _, code := range stateNames {
			if code == lower {
				return code
			}
		}
	}
	return ""
}

// Covers reports whether a case from the given jurisdiction string could
// appear in this reporter. Undeterminable jurisdictions are covered: the
// check rejects only candidates clearly outside the implied set.
func (r Reporter) Covers(jurisdiction string) bool {
	code := JurisdictionCode(jurisdiction)
	if code == "" {
		return true
	}
	switch r.Class {
	case ClassFederal:
		return code == "federal"
	case ClassState, ClassRegional:
		if code == "federal" {
			return false
		}
		for _, s := range r.States {
			if s == code {
				return true
			}
		}
		return false
	default:
		return true
	}
}
