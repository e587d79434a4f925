package qbank

import (
	"context"

	"github.com/examtrail/qbank/pkg/integrate"
)

// Compile-time interface check to ensure proper implementation.
var _ Integrator = (*engine)(nil)

// Integrator applies external answer batches to the bank.
type Integrator interface {
	// Integrate loads and applies each batch artifact in order. Missing or
	// malformed artifacts are reported as skipped runs with zero side
	// effects; the remaining batches still run. Each mutating run backs up
	// and saves the bank file itself.
	Integrate(ctx context.Context, paths ...string) ([]*integrate.Run, error)
}

// Integrate applies answer batches to the bank.
func (e *engine) Integrate(ctx context.Context, paths ...string) ([]*integrate.Run, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.integrator.ApplyAll(e.logContext(ctx), e.bank, e.options.bankPath, paths...)
}
