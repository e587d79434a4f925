package questions

import (
	"fmt"
	"strings"

	"github.com/examtrail/qbank/pkg/errors"
)

// ReferenceRecord is one entry of the verified reference set. Reference
// answers are trusted ground truth; the engine reads them and never writes
// them back.
type ReferenceRecord struct {
	ID          string `json:"id"`
	Subject     string `json:"subject,omitempty"`
	Question    string `json:"question"`
	Answer      string `json:"answer"`
	Explanation string `json:"explanation,omitempty"`
}

// Validate checks structural well-formedness. The reference set is verified
// by construction, so the answer is mandatory here, unlike bank records.
func (r ReferenceRecord) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return errors.NewValidationError("id", r.ID, "cannot be empty")
	}
	if strings.TrimSpace(r.Question) == "" {
		return errors.NewValidationError("question", r.Question, "cannot be empty")
	}
	if strings.TrimSpace(r.Answer) == "" {
		return errors.NewValidationError("answer", r.Answer, "cannot be empty")
	}
	return nil
}

// ReferenceSet is the immutable collection of verified reference records
// used as matching ground truth.
type ReferenceSet struct {
	records []ReferenceRecord
	byID    map[string]int
	invalid []Invalid
}

// NewReferenceSet builds a set from records in order. Entries that fail
// validation or reuse an earlier ID are skipped and kept on the invalid
// list, so the first occurrence of an ID always wins.
func NewReferenceSet(records ...ReferenceRecord) *ReferenceSet {
	s := &ReferenceSet{
		records: make([]ReferenceRecord, 0, len(records)),
		byID:    make(map[string]int, len(records)),
	}
	for i, r := range records {
		if err := r.Validate(); err != nil {
			s.invalid = append(s.invalid, Invalid{Group: "reference", Position: i, Reason: err.Error()})
			continue
		}
		if _, exists := s.byID[r.ID]; exists {
			s.invalid = append(s.invalid, Invalid{Group: "reference", Position: i, Reason: fmt.Sprintf("duplicate id %q", r.ID)})
			continue
		}
		s.byID[r.ID] = len(s.records)
		s.records = append(s.records, r)
	}
	return s
}

// Get returns the reference record with the given ID.
func (s *ReferenceSet) Get(id string) (ReferenceRecord, bool) {
	i, ok := s.byID[id]
	if !ok {
		return ReferenceRecord{}, false
	}
	return s.records[i], true
}

// Len returns the number of valid reference records.
func (s *ReferenceSet) Len() int {
	return len(s.records)
}

// Records returns the reference records in load order.
func (s *ReferenceSet) Records() []ReferenceRecord {
	out := make([]ReferenceRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Invalid returns the entries skipped while building the set.
func (s *ReferenceSet) Invalid() []Invalid {
	out := make([]Invalid, len(s.invalid))
	copy(out, s.invalid)
	return out
}
