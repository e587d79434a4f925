// Package qbank is the entry point for the question bank reconciliation
// engine. It reconciles a small verified reference set against a larger
// harvested question bank, merges externally produced answer batches into
// the bank behind a backup-first discipline, and reports verification
// progress.
//
// The engine wraps the underlying packages with:
// - One-time loading of the bank and reference collections
// - Read-only matching with cached results feeding reports
// - Reference sync and batch integration with pre-mutation backups
// - Flexible configuration through functional options
//
// Example usage:
//
//	// Create an engine over the working files
//	qb, err := qbank.New(
//	    qbank.WithBankPath("data/bank.json"),
//	    qbank.WithReferencePath("data/reference.json"),
//	    qbank.WithBackupDir("data/backups"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Match the reference set against the bank (read-only)
//	result, err := qb.Reconcile(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Summary())
//
//	// Apply answer batches; missing artifacts are skipped
//	runs, err := qb.Integrate(ctx, "batches/batch_1.json", "batches/batch_2.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, run := range runs {
//	    fmt.Println(run.Summary())
//	}
//
//	// Snapshot progress
//	rep, err := qb.Report(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(rep.Summary())
package qbank

import (
	"context"
	"sync"

	"github.com/examtrail/qbank/pkg/errors"
	"github.com/examtrail/qbank/pkg/integrate"
	"github.com/examtrail/qbank/pkg/logging"
	"github.com/examtrail/qbank/pkg/questions"
	"github.com/examtrail/qbank/pkg/reconcile"
)

// Compile-time interface check to ensure proper implementation.
var _ Qbank = (*engine)(nil)

// Qbank is the question bank reconciliation engine.
type Qbank interface {

	// Collections provides access to the loaded bank and reference set
	Collections

	// Reconciler runs read-only matching and reference sync
	Reconciler

	// Integrator applies external answer batches
	Integrator

	// Reporter snapshots verification progress
	Reporter

	// Reviewer merges review result artifacts
	Reviewer

	// Researcher builds research requests for unanswered records
	Researcher

	// Persistence saves the working bank
	Persistence
}

// engine is the internal implementation of the Qbank interface.
type engine struct {

	// options are the configured options for the engine
	options *options

	// reconciler matches and syncs the reference set against the bank
	reconciler reconcile.Reconciler

	// integrator applies answer batches behind the backup discipline
	integrator integrate.Integrator

	// working collections and cached state
	mu        sync.RWMutex
	bank      *questions.Bank
	refs      *questions.ReferenceSet
	refErr    error
	lastMatch *reconcile.Result
	dirty     bool // in-memory mutations not yet saved
}

// New creates a new engine, loading the bank and reference collections.
// The bank document must exist; a missing reference set only disables
// matching and is reported when a matching operation is attempted.
func New(opts ...Option) (Qbank, error) {
	o, err := defaultOptions().apply(opts...)
	if err != nil {
		return nil, err
	}

	e := &engine{options: o}

	if e.reconciler, err = reconcile.New(reconcile.WithClock(o.clock)); err != nil {
		return nil, err
	}

	iopts := []integrate.Option{
		integrate.WithPolicy(o.policy),
		integrate.WithClock(o.clock),
		integrate.WithDryRun(o.dryRun),
	}
	if o.backupDir != "" {
		iopts = append(iopts, integrate.WithBackupDir(o.backupDir))
	}
	if e.integrator, err = integrate.New(iopts...); err != nil {
		return nil, err
	}

	if o.fsys != nil {
		e.bank, err = questions.LoadBank(o.fsys, o.bankPath)
	} else {
		e.bank, err = questions.LoadBankFile(o.bankPath)
	}
	if err != nil {
		return nil, err
	}

	references := 0
	if o.refPath != "" {
		if o.fsys != nil {
			e.refs, e.refErr = questions.LoadReference(o.fsys, o.refPath)
		} else {
			e.refs, e.refErr = questions.LoadReferenceFile(o.refPath)
		}
		if e.refErr != nil {
			if !errors.IsMissingArtifact(e.refErr) {
				return nil, e.refErr
			}
			logging.Warn().Str("reference", o.refPath).Msg("Reference set missing, matching disabled")
		} else {
			references = e.refs.Len()
		}
	}

	logging.Debug().
		Str("bank", o.bankPath).
		Int("records", e.bank.Len()).
		Int("references", references).
		Msg("Collections loaded")

	return e, nil
}

// reference returns the loaded reference set or the typed error explaining
// why matching is unavailable. Callers must hold the engine lock.
func (e *engine) reference() (*questions.ReferenceSet, error) {
	if e.refs != nil {
		return e.refs, nil
	}
	if e.refErr != nil {
		return nil, e.refErr
	}
	return nil, errors.NewMissingArtifactError("reference", e.options.refPath, nil)
}

// logContext attaches the configured logger to ctx.
func (e *engine) logContext(ctx context.Context) context.Context {
	if e.options.logger != nil {
		return logging.WithLogger(ctx, e.options.logger)
	}
	return ctx
}
