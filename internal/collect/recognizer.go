// Package collect finds candidate citations in document text. Two
// independent recognizers run over the same normalized text and their merged
// output is deduplicated into a position-ordered list of citation stubs.
//
// The citation text is always kept verbatim: "Wn.2d" and "Wash.2d" are
// distinct reporter strings and external lookups key on the exact text, so
// no abbreviation normalization happens at this stage.
package collect

// Candidate is one raw detection: the citation text and its span in the
// normalized document text.
type Candidate struct {
	Text  string
	Start int
	End   int
}

// Recognizer converts text into candidate citations. Implementations with
// deep citation-grammar knowledge can be injected from outside; the package
// ships a generic shape-based recognizer and a reporter-table recognizer.
type Recognizer interface {
	Name() string
	Recognize(text string) []Candidate
}
