// Package reconcile matches the verified reference set against the merged
// question bank by normalized stem and applies reference answers back to
// records that need them. Matching is read-only; only Sync mutates the
// bank, and it never touches records a verification event already
// confirmed.
package reconcile

import (
	"context"

	"github.com/jonboulle/clockwork"

	"github.com/examtrail/qbank/pkg/errors"
	"github.com/examtrail/qbank/pkg/normalize"
	"github.com/examtrail/qbank/pkg/questions"
)

// Keyer derives matching keys from question text. Keys must be
// deterministic; the empty key never matches anything.
type Keyer interface {
	Key(s string) string
}

// Reconciler matches reference records to bank records and syncs answers.
type Reconciler interface {
	// Match indexes the bank by normalized stem and pairs each reference
	// record with at most one bank record. The bank is not modified.
	Match(ctx context.Context, bank *questions.Bank, refs *questions.ReferenceSet) (*Result, error)

	// Sync runs Match and applies reference answers to the matched records:
	// unanswered records receive the answer and a verification event,
	// agreeing unverified records are confirmed, and conflicting records
	// are overwritten unless already verified.
	Sync(ctx context.Context, bank *questions.Bank, refs *questions.ReferenceSet) (*SyncResult, error)
}

// reconciler is the default implementation of Reconciler.
type reconciler struct {
	keyer Keyer
	clock clockwork.Clock
}

// Option configures a Reconciler.
type Option func(*reconciler) error

// New creates a new Reconciler with options.
func New(opts ...Option) (Reconciler, error) {
	r := &reconciler{
		keyer: normalize.New(),
		clock: clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Option Functions
// ================

// WithKeyer sets the key derivation used for matching.
func WithKeyer(keyer Keyer) Option {
	return func(r *reconciler) error {
		if keyer == nil {
			return errors.NewConfigError("reconciler", "keyer cannot be nil", nil)
		}
		r.keyer = keyer
		return nil
	}
}

// WithClock sets the time source stamped onto verification events.
func WithClock(clock clockwork.Clock) Option {
	return func(r *reconciler) error {
		if clock == nil {
			return errors.NewConfigError("reconciler", "clock cannot be nil", nil)
		}
		r.clock = clock
		return nil
	}
}
