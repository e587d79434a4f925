package qbank

import (
	"context"

	"github.com/examtrail/qbank/pkg/research"
)

// Compile-time interface check to ensure proper implementation.
var _ Researcher = (*engine)(nil)

// Researcher builds research requests for unanswered records.
type Researcher interface {
	// BuildResearch chunks the bank's unanswered records into research
	// requests of the given part size. A size of zero or less uses the
	// default.
	BuildResearch(ctx context.Context, size int) ([]*research.Request, error)
}

// BuildResearch builds research requests for unanswered records.
func (e *engine) BuildResearch(_ context.Context, size int) ([]*research.Request, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return research.Build(e.bank, size, e.options.clock.Now()), nil
}
