package questions

// Source identifies what caused a record's answer to be set or verified.
type Source string

// String returns the string representation of a Source.
func (s Source) String() string {
	return string(s)
}

// Verification sources recorded in the ledger.
const (
	// SourceReferenceSync marks answers copied from a matched reference record.
	SourceReferenceSync Source = "sync_from_reference"

	// SourceBatch marks answers supplied by an external research batch.
	SourceBatch Source = "batch_answer"

	// SourceManual marks answers entered by hand.
	SourceManual Source = "manual_research"
)

// Confidence grades the evidence behind an answer.
type Confidence string

// String returns the string representation of a Confidence.
func (c Confidence) String() string {
	return string(c)
}

// Confidence levels, lowest to highest.
const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// Rank returns the ordinal position of the confidence level. Unknown or
// empty levels rank below low, so they never win a comparison.
func (c Confidence) Rank() int {
	switch c {
	case ConfidenceLow:
		return 1
	case ConfidenceMedium:
		return 2
	case ConfidenceHigh:
		return 3
	default:
		return 0
	}
}

// Verification is the per-record ledger entry tracking whether the answer
// has been confirmed and by what. Verified never regresses to false once
// set, and Date is written only by the first verification event; later
// events refresh the source, batch, confidence, and evidence count.
type Verification struct {
	Verified     bool       `json:"answer_verified"`
	Date         string     `json:"verification_date,omitempty"` // YYYY-MM-DD of the first event
	Source       Source     `json:"verification_source,omitempty"`
	Batch        string     `json:"verification_batch,omitempty"` // batch name or run label
	Confidence   Confidence `json:"confidence,omitempty"`
	SourcesCount int        `json:"sources_count,omitempty"` // corroborating sources behind the answer
	RefID        string     `json:"ref_id,omitempty"`        // matched reference record, when sync set the answer
}

// IsZero reports whether the entry carries no verification state at all.
func (v Verification) IsZero() bool {
	return v == Verification{}
}
