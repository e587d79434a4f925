package reconcile

import (
	"fmt"
)

// AnswerStatus classifies the answer relationship of one matched pair.
type AnswerStatus string

// String returns the string representation of an AnswerStatus.
func (s AnswerStatus) String() string {
	return string(s)
}

// Answer statuses of a matched reference/record pair.
const (
	// StatusAnswerMatch means both sides carry the same answer.
	StatusAnswerMatch AnswerStatus = "match"

	// StatusAnswerConflict means both sides carry answers that disagree.
	StatusAnswerConflict AnswerStatus = "conflict"

	// StatusNeedsAnswer means the bank record has no answer yet.
	StatusNeedsAnswer AnswerStatus = "needs_answer"
)

// Pair is one reference record matched to one bank record by key.
type Pair struct {
	RefID    string       `json:"ref_id"`
	RecordID int          `json:"record_id"`
	Status   AnswerStatus `json:"status"`
}

// Collision records a matching key shared by more than one bank record.
// The lowest record ID keeps the key; the rest are unreachable by matching.
type Collision struct {
	Key     string `json:"key"` // truncated for display
	Kept    int    `json:"kept"`
	Dropped []int  `json:"dropped"`
}

// Stats summarizes a matching run.
type Stats struct {
	References          int   `json:"references"`
	Records             int   `json:"records"`
	Matched             int   `json:"matched"`
	AnswerMatches       int   `json:"answer_matches"`
	AnswerConflicts     int   `json:"answer_conflicts"`
	NeedsAnswer         int   `json:"needs_answer"`
	UnmatchedReferences int   `json:"unmatched_references"`
	KeyCollisions       int   `json:"key_collisions"`
	TotalTimeMs         int64 `json:"total_time_ms"`
}

// Result is the outcome of matching the reference set against the bank.
// Matching is read-only; nothing in here has touched the bank.
type Result struct {
	// Pairs lists each matched reference/record pair with its answer status.
	Pairs []Pair `json:"pairs"`

	// UnmatchedRefs lists reference IDs whose key matched no bank record.
	UnmatchedRefs []string `json:"unmatched_refs,omitempty"`

	// UnmatchedRecords lists bank record IDs no reference matched.
	UnmatchedRecords []int `json:"unmatched_records,omitempty"`

	// Collisions lists matching keys shared by multiple bank records.
	Collisions []Collision `json:"collisions,omitempty"`

	// Stats summarizes the run.
	Stats Stats `json:"stats"`
}

// MatchRate returns the fraction of references that found a bank record.
func (r *Result) MatchRate() float64 {
	if r.Stats.References == 0 {
		return 0
	}
	return float64(r.Stats.Matched) / float64(r.Stats.References)
}

// HasConflicts reports whether any matched pair disagrees on the answer.
func (r *Result) HasConflicts() bool {
	return r.Stats.AnswerConflicts > 0
}

// Summary returns a human-readable summary of the matching run.
func (r *Result) Summary() string {
	return fmt.Sprintf("Matched %d of %d references (%.1f%%): %d agree, %d conflict, %d need answers, %d unmatched",
		r.Stats.Matched, r.Stats.References, r.MatchRate()*100,
		r.Stats.AnswerMatches, r.Stats.AnswerConflicts, r.Stats.NeedsAnswer,
		r.Stats.UnmatchedReferences)
}

// SyncResult is the outcome of applying reference answers to the bank.
type SyncResult struct {
	// Updated counts records that received an answer from the reference set.
	Updated int `json:"updated"`

	// Confirmed counts records whose existing answer matched the reference
	// and were marked verified.
	Confirmed int `json:"confirmed"`

	// Overwritten counts unverified answers replaced by the reference.
	Overwritten int `json:"overwritten"`

	// SkippedVerified counts conflicting records left alone because a
	// verification event already confirmed their answer.
	SkippedVerified int `json:"skipped_verified"`

	// ConflictIDs lists record IDs whose answer disagreed with the
	// reference, whether overwritten or skipped.
	ConflictIDs []int `json:"conflict_ids,omitempty"`

	// Match is the read-only matching result the sync was computed from.
	Match *Result `json:"match,omitempty"`
}

// Changed reports whether the sync mutated the bank.
func (r *SyncResult) Changed() bool {
	return r.Updated+r.Confirmed+r.Overwritten > 0
}

// Summary returns a human-readable summary of the sync run.
func (r *SyncResult) Summary() string {
	return fmt.Sprintf("Sync applied %d answers, confirmed %d, overwrote %d, skipped %d verified conflicts",
		r.Updated, r.Confirmed, r.Overwritten, r.SkippedVerified)
}
