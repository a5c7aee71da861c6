package verify

import (
	"strconv"

	"github.com/lexhound/lexhound/internal/match"
	"github.com/lexhound/lexhound/internal/model"
	"github.com/lexhound/lexhound/internal/reporters"
)

// kindConfidence is the base confidence assigned per source capability,
// blended with name similarity in score().
var kindConfidence = map[Kind]float64{
	KindStructured: 0.95,
	KindTextSearch: 0.85,
	KindFallback:   0.70,
}

// validator applies the acceptance rules to candidate records. Every rule is
// a rejection test; a record is accepted only when none fires.
type validator struct {
	cfg        model.VerifyConfig
	minNameLen int
}

// evaluate checks one candidate record against the document-extracted data.
// It returns the match confidence when the record is accepted, otherwise the
// reason the record was rejected.
func (v *validator) evaluate(src Source, req Request, rec CaseRecord) (accepted bool, confidence float64, reason model.RejectionReason) {
	name := req.CaseName
	if len(match.Normalize(name)) < v.minNameLen {
		return false, 0, model.RejectNameTooShort
	}
	if rec.Name == "" {
		return false, 0, model.RejectNameMismatch
	}

	overlap := match.WordOverlap(name, rec.Name)
	if overlap < v.cfg.MinNameOverlap {
		return false, 0, model.RejectNameMismatch
	}

	if !v.yearAgrees(src, req, rec) {
		return false, 0, model.RejectYearMismatch
	}

	if rep, ok := reporters.Identify(req.CitationText); ok && rec.Court != "" {
		if !rep.Covers(rec.Court) {
			return false, 0, model.RejectJurisdiction
		}
	}

	if !v.governmentPartyAgrees(name, rec.Name) {
		return false, 0, model.RejectGovernmentParty
	}

	return true, v.score(src, name, rec), ""
}

// yearAgrees compares the extracted year with the record's year under the
// configured tolerance. A structured source answering for the literal
// citation string is trusted over the extracted year, since year extraction
// reads prose and the lookup key is the citation itself.
func (v *validator) yearAgrees(src Source, req Request, rec CaseRecord) bool {
	extracted, err1 := strconv.Atoi(req.Year)
	candidate, err2 := strconv.Atoi(recordYear(rec))
	if err1 != nil || err2 != nil {
		// Missing on either side is not evidence of a mismatch.
		return true
	}
	diff := extracted - candidate
	if diff < 0 {
		diff = -diff
	}
	if diff <= v.cfg.YearTolerance {
		return true
	}
	return src.Kind() == KindStructured && citesLiterally(rec, req.CitationText)
}

// governmentPartyAgrees guards government-party captions, where the
// government side carries no identity. State v. Smith and State v. Jones
// share every significant token except the one that matters, so the
// non-government parties must themselves agree.
func (v *validator) governmentPartyAgrees(extracted, candidate string) bool {
	if !match.IsGovernmentCase(extracted) && !match.IsGovernmentCase(candidate) {
		return true
	}
	a, okA := match.NonGovernmentParty(extracted)
	b, okB := match.NonGovernmentParty(candidate)
	if !okA || !okB {
		return false
	}
	return match.Similarity(a, b) >= v.cfg.GovPartyThreshold
}

// score blends the source's base confidence with how closely the candidate
// name matches the extracted one. A perfect name match keeps the full base;
// a bare-threshold match discounts it.
func (v *validator) score(src Source, extracted string, rec CaseRecord) float64 {
	base := kindConfidence[src.Kind()]
	if base == 0 {
		base = kindConfidence[KindFallback]
	}
	sim := match.Similarity(extracted, rec.Name)
	overlap := match.WordOverlap(extracted, rec.Name)
	if overlap > sim {
		sim = overlap
	}
	c := base * (0.6 + 0.4*sim)
	if c > 1 {
		c = 1
	}
	return c
}
