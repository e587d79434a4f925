package reconcile

import (
	"context"

	"github.com/agentstation/utc"

	"github.com/examtrail/qbank/pkg/logging"
	"github.com/examtrail/qbank/pkg/questions"
)

// syncBatchLabel is the batch name stamped on verification events the
// reference sync produces.
const syncBatchLabel = "reference_sync"

// Sync implements Reconciler.
func (r *reconciler) Sync(ctx context.Context, bank *questions.Bank, refs *questions.ReferenceSet) (*SyncResult, error) {
	log := logging.Ctx(ctx)

	match, err := r.Match(ctx, bank, refs)
	if err != nil {
		return nil, err
	}

	now := r.clock.Now()
	result := &SyncResult{Match: match}

	for _, pair := range match.Pairs {
		rec, ok := bank.Get(pair.RecordID)
		if !ok {
			continue
		}
		ref, ok := refs.Get(pair.RefID)
		if !ok {
			continue
		}

		switch pair.Status {
		case StatusNeedsAnswer:
			rec.Answer = ref.Answer
			if rec.Explanation == "" {
				rec.Explanation = ref.Explanation
			}
			if err := rec.MarkVerified(questions.SourceReferenceSync, questions.ConfidenceHigh, 1, syncBatchLabel, now); err != nil {
				return nil, err
			}
			rec.Verification.RefID = ref.ID
			result.Updated++

		case StatusAnswerMatch:
			if rec.Verification.Verified {
				continue
			}
			if err := rec.MarkVerified(questions.SourceReferenceSync, questions.ConfidenceHigh, 1, syncBatchLabel, now); err != nil {
				return nil, err
			}
			rec.Verification.RefID = ref.ID
			result.Confirmed++

		case StatusAnswerConflict:
			result.ConflictIDs = append(result.ConflictIDs, rec.ID)
			if rec.Verification.Verified {
				result.SkippedVerified++
				log.Warn().
					Int("record_id", rec.ID).
					Str("ref_id", ref.ID).
					Str("bank_answer", rec.Answer).
					Str("ref_answer", ref.Answer).
					Msg("Conflicting answer already verified, leaving record alone")
				continue
			}
			log.Warn().
				Int("record_id", rec.ID).
				Str("ref_id", ref.ID).
				Str("bank_answer", rec.Answer).
				Str("ref_answer", ref.Answer).
				Msg("Overwriting unverified answer with reference answer")
			rec.Answer = ref.Answer
			if err := rec.MarkVerified(questions.SourceReferenceSync, questions.ConfidenceHigh, 1, syncBatchLabel, now); err != nil {
				return nil, err
			}
			rec.Verification.RefID = ref.ID
			result.Overwritten++
		}
	}

	if result.Changed() {
		bank.BumpWithAnswer(result.Updated)
		bank.SetLastUpdated(utc.Time{Time: now.UTC()})
	}

	log.Info().
		Int("updated", result.Updated).
		Int("confirmed", result.Confirmed).
		Int("overwritten", result.Overwritten).
		Int("skipped_verified", result.SkippedVerified).
		Msg("Reference sync complete")

	return result, nil
}
