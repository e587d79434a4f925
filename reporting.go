package qbank

import (
	"context"

	"github.com/examtrail/qbank/pkg/logging"
	"github.com/examtrail/qbank/pkg/report"
)

// Compile-time interface check to ensure proper implementation.
var _ Reporter = (*engine)(nil)

// Reporter snapshots verification progress.
type Reporter interface {
	// Report folds the bank and the last matching result into a read-only
	// progress snapshot.
	Report(ctx context.Context) (*report.Report, error)
}

// Report snapshots verification progress.
func (e *engine) Report(ctx context.Context) (*report.Report, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	rep := report.Snapshot(e.bank, e.lastMatch, e.options.clock.Now())
	logging.Ctx(e.logContext(ctx)).Debug().Msg(rep.Summary())
	return rep, nil
}
