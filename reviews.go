package qbank

import (
	"context"

	"github.com/examtrail/qbank/pkg/logging"
	"github.com/examtrail/qbank/pkg/review"
)

// Compile-time interface check to ensure proper implementation.
var _ Reviewer = (*engine)(nil)

// Reviewer merges review result artifacts.
type Reviewer interface {
	// MergeReviews loads the review artifacts and folds them into one
	// summary. Missing artifacts are skipped; malformed ones abort.
	MergeReviews(ctx context.Context, paths ...string) (*review.Summary, error)
}

// MergeReviews merges review result artifacts into one summary.
func (e *engine) MergeReviews(ctx context.Context, paths ...string) (*review.Summary, error) {
	reviews, skipped, err := review.LoadAll(e.options.fsys, paths...)
	if err != nil {
		return nil, err
	}

	summary := review.Merge(e.options.clock.Now(), reviews...)
	logging.Ctx(e.logContext(ctx)).Info().
		Int("batches", len(reviews)).
		Int("skipped", len(skipped)).
		Int("reviewed", summary.Totals.Reviewed).
		Msg("Review artifacts merged")
	return summary, nil
}
