package model

// Citation represents one detected citation occurrence in a document.
//
// Extracted fields come from the surrounding document text only; canonical
// fields come from an external verification source only. The two sets are
// independent and must never be merged or cross-populated.
type Citation struct {
	ID    int    `json:"id"`           // Index in the document's citation list
	Text  string `json:"text"`         // Exact citation string as found (verbatim reporter abbreviation)
	Start int    `json:"start_offset"` // Character offset of first rune
	End   int    `json:"end_offset"`   // Character offset one past last rune

	// Extracted from local document context. Empty when extraction failed.
	ExtractedCaseName string `json:"extracted_case_name,omitempty"`
	ExtractedYear     string `json:"extracted_year,omitempty"`

	// Canonical data from a verification source. Set only on a successful
	// verification of this citation; never copied from a cluster sibling.
	CanonicalName      string             `json:"canonical_name,omitempty"`
	CanonicalDate      string             `json:"canonical_date,omitempty"`
	CanonicalURL       string             `json:"canonical_url,omitempty"`
	Status             VerificationStatus `json:"status"`
	Verified           bool               `json:"verified"`
	VerificationSource string             `json:"verification_source,omitempty"`
	Confidence         float64            `json:"confidence,omitempty"`
	RejectionReason    RejectionReason    `json:"rejection_reason,omitempty"`
	Error              string             `json:"error,omitempty"`

	ClusterID int `json:"cluster_id"`
}

// HasCanonical reports whether any canonical field is populated.
func (c *Citation) HasCanonical() bool {
	return c.CanonicalName != "" || c.CanonicalDate != "" || c.CanonicalURL != ""
}

// ApplyResult copies a verification outcome onto the citation, moving it out
// of StatusPending and enforcing the separation invariant: an error clears
// all canonical fields.
func (c *Citation) ApplyResult(r VerificationResult) {
	if r.Error != "" {
		c.Error = r.Error
		c.Status = StatusUnverified
		c.Verified = false
		c.RejectionReason = r.RejectionReason
		c.CanonicalName = ""
		c.CanonicalDate = ""
		c.CanonicalURL = ""
		c.VerificationSource = ""
		c.Confidence = 0
		return
	}
	if !r.Matched {
		c.Status = StatusUnverified
		c.Verified = false
		c.RejectionReason = r.RejectionReason
		return
	}
	c.Status = StatusMatched
	c.Verified = true
	c.RejectionReason = RejectNone
	c.CanonicalName = r.Name
	c.CanonicalDate = r.Date
	c.CanonicalURL = r.URL
	c.VerificationSource = r.Source
	c.Confidence = r.Confidence
}

// Cluster is the set of citations believed to be parallel reports of one case.
// Members reference citations by ID; a citation belongs to exactly one cluster.
type Cluster struct {
	ID       int    `json:"id"`
	CaseName string `json:"case_name,omitempty"` // Chosen from extracted data only
	Year     string `json:"year,omitempty"`      // Shared extracted year, if any
	Members  []int  `json:"members"`             // Citation IDs in document order
}
