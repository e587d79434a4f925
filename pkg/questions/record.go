package questions

import (
	"strings"
	"time"

	"github.com/examtrail/qbank/pkg/constants"
	"github.com/examtrail/qbank/pkg/errors"
)

// Record is one question of the merged bank in canonical form. The empty
// Answer means the record has no answer yet; documents serialize that as
// an explicit null.
type Record struct {
	ID           int          // bank-wide identifier, unique across groupings
	Subject      string       // exam subject or original section heading
	Stem         string       // question text
	Options      Options      // labeled answer choices
	Answer       string       // answer label, empty when unanswered
	Explanation  string       // free-form rationale
	Origin       Origin       // provenance grouping
	Verification Verification // ledger entry
}

// HasAnswer reports whether the record carries an answer.
func (r *Record) HasAnswer() bool {
	return r.Answer != ""
}

// Stale reports whether the record holds an answer that no verification
// event has confirmed yet.
func (r *Record) Stale() bool {
	return r.HasAnswer() && !r.Verification.Verified
}

// Validate checks structural well-formedness: a positive ID and a
// non-empty stem of sane length. Everything else is optional at
// ingestion time.
func (r *Record) Validate() error {
	if r == nil {
		return errors.NewValidationError("record", nil, "cannot be nil")
	}
	if r.ID <= 0 {
		return errors.NewValidationError("index", r.ID, "must be a positive integer")
	}
	if strings.TrimSpace(r.Stem) == "" {
		return errors.NewValidationError("stem", r.Stem, "cannot be empty")
	}
	if len(r.Stem) > constants.MaxStemLength {
		return errors.NewValidationError("stem", len(r.Stem), "exceeds maximum length")
	}
	for _, c := range r.Options {
		if len(c.Label) > constants.MaxChoiceLabelLength {
			return errors.NewValidationError("options", c.Label, "label exceeds maximum length")
		}
	}
	return nil
}

// MarkVerified records a verification event in the ledger. Records without
// an answer are rejected, verification never regresses, and the date is
// written only the first time; later events refresh the source, batch,
// confidence, and evidence count.
func (r *Record) MarkVerified(source Source, confidence Confidence, sourcesCount int, batch string, at time.Time) error {
	if !r.HasAnswer() {
		return errors.NewPreconditionError("mark verified", r.ID, constants.ErrMsgNoAnswer)
	}
	if r.Verification.Date == "" {
		r.Verification.Date = at.Format(constants.TimeFormatVerification)
	}
	r.Verification.Verified = true
	r.Verification.Source = source
	r.Verification.Confidence = confidence
	r.Verification.SourcesCount = sourcesCount
	r.Verification.Batch = batch
	return nil
}
