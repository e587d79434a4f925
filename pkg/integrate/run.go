package integrate

import (
	"fmt"

	"github.com/agentstation/utc"

	"github.com/examtrail/qbank/pkg/questions"
)

// Applied is one answer a run wrote into the bank.
type Applied struct {
	RecordID   int                  `json:"record_id"`
	Answer     string               `json:"answer"`
	Confidence questions.Confidence `json:"confidence"`
}

// Conflict is one matched entry whose answer disagreed with the record.
// Overwritten tells whether the policy let the batch answer through.
type Conflict struct {
	RecordID    int    `json:"record_id"`
	Old         string `json:"old"`
	New         string `json:"new"`
	Overwritten bool   `json:"overwritten"`
}

// Run is the outcome of integrating one batch.
type Run struct {
	// RunID uniquely identifies this integration run.
	RunID string `json:"run_id"`

	// Batch is the batch name, Path the artifact it was loaded from.
	Batch string `json:"batch"`
	Path  string `json:"path,omitempty"`

	// Skipped is set when the whole batch was passed over; SkipReason says
	// why. A skipped run has had no side effects at all.
	Skipped    bool   `json:"skipped,omitempty"`
	SkipReason string `json:"skip_reason,omitempty"`

	// DryRun marks a run that planned mutations without performing them.
	DryRun bool `json:"dry_run,omitempty"`

	// BackupPath is the pre-run copy of the bank file, empty when nothing
	// was mutated.
	BackupPath string `json:"backup_path,omitempty"`

	// Updated counts answers written, overwrites included.
	Updated int `json:"updated"`

	// Unchanged counts entries whose answer already matched the record.
	Unchanged int `json:"unchanged"`

	// SkippedEntries counts entries dropped before applying: empty answers
	// that would erase an existing one, and overwrites the policy refused.
	SkippedEntries int `json:"skipped_entries"`

	// MissingRecords counts entries whose index matched no bank record.
	MissingRecords int `json:"missing_records"`

	// Applied details every written answer, Conflicts every disagreement.
	Applied   []Applied  `json:"applied,omitempty"`
	Conflicts []Conflict `json:"conflicts,omitempty"`

	// StartedAt is when the run began.
	StartedAt utc.Time `json:"started_at"`

	// Policy is the overwrite policy the run used.
	Policy string `json:"policy,omitempty"`
}

// ConflictCount returns the number of conflicting entries, overwritten or
// not.
func (r *Run) ConflictCount() int {
	return len(r.Conflicts)
}

// Mutated reports whether the run changed the bank.
func (r *Run) Mutated() bool {
	return !r.Skipped && !r.DryRun && r.Updated > 0
}

// Summary returns a human-readable summary of the run.
func (r *Run) Summary() string {
	if r.Skipped {
		return fmt.Sprintf("Batch %s skipped: %s", r.Batch, r.SkipReason)
	}
	prefix := "Batch"
	if r.DryRun {
		prefix = "Dry run of batch"
	}
	return fmt.Sprintf("%s %s: %d updated, %d unchanged, %d conflicts, %d skipped entries, %d missing records",
		prefix, r.Batch, r.Updated, r.Unchanged, r.ConflictCount(), r.SkippedEntries, r.MissingRecords)
}
