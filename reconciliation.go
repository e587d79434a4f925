package qbank

import (
	"context"

	"github.com/examtrail/qbank/pkg/reconcile"
)

// Compile-time interface check to ensure proper implementation.
var _ Reconciler = (*engine)(nil)

// Reconciler runs matching and reference sync against the bank.
type Reconciler interface {
	// Reconcile matches the reference set against the bank. Read-only;
	// the result is cached and feeds later reports.
	Reconcile(ctx context.Context) (*reconcile.Result, error)

	// SyncReference applies reference answers to matched bank records in
	// memory. Save persists the outcome.
	SyncReference(ctx context.Context) (*reconcile.SyncResult, error)
}

// Reconcile matches the reference set against the bank.
func (e *engine) Reconcile(ctx context.Context) (*reconcile.Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	refs, err := e.reference()
	if err != nil {
		return nil, err
	}

	result, err := e.reconciler.Match(e.logContext(ctx), e.bank, refs)
	if err != nil {
		return nil, err
	}
	e.lastMatch = result
	return result, nil
}

// SyncReference applies reference answers to matched bank records.
func (e *engine) SyncReference(ctx context.Context) (*reconcile.SyncResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	refs, err := e.reference()
	if err != nil {
		return nil, err
	}

	result, err := e.reconciler.Sync(e.logContext(ctx), e.bank, refs)
	if err != nil {
		return nil, err
	}
	e.lastMatch = result.Match
	if result.Changed() {
		e.dirty = true
	}
	return result, nil
}
