package model

// VerificationStatus tracks a citation through the verification state machine.
type VerificationStatus string

const (
	StatusPending    VerificationStatus = "pending"
	StatusMatched    VerificationStatus = "matched"    // Terminal, immutable
	StatusUnverified VerificationStatus = "unverified" // Terminal: chain exhausted or timed out
)

// RejectionReason classifies why a candidate match was refused.
type RejectionReason string

const (
	RejectNone             RejectionReason = ""
	RejectNameMismatch     RejectionReason = "name_mismatch"      // Word overlap below threshold
	RejectNameTooShort     RejectionReason = "name_too_short"     // Extracted name empty or under minimum length
	RejectYearMismatch     RejectionReason = "year_mismatch"      // Years differ beyond tolerance
	RejectJurisdiction     RejectionReason = "jurisdiction"       // Candidate outside the reporter's jurisdiction set
	RejectGovernmentParty  RejectionReason = "government_party"   // Non-government party names do not agree
	RejectAmbiguous        RejectionReason = "ambiguous"          // Multiple candidates, none clearly best
	RejectNoCandidates     RejectionReason = "no_candidates"      // Source returned nothing usable
	RejectSourceError      RejectionReason = "source_error"       // Source unreachable or errored
	RejectTimeout          RejectionReason = "verification_timeout"
)

// VerificationResult is the immutable outcome of one verification attempt.
// A later mismatch is never patched in place; re-verification produces a
// fresh result that supersedes this one.
type VerificationResult struct {
	Matched         bool            `json:"matched"`
	Name            string          `json:"name,omitempty"`
	Date            string          `json:"date,omitempty"`
	URL             string          `json:"url,omitempty"`
	Source          string          `json:"source,omitempty"`
	Confidence      float64         `json:"confidence,omitempty"` // [0,1]
	RejectionReason RejectionReason `json:"rejection_reason,omitempty"`
	Error           string          `json:"error,omitempty"`
}

// Unverified returns a terminal no-match result with the given reason.
func Unverified(reason RejectionReason) VerificationResult {
	return VerificationResult{Matched: false, RejectionReason: reason}
}
