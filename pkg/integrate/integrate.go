// Package integrate applies external answer batches to the question bank.
// Runs are idempotent (an entry matching the record's current answer does
// nothing) and follow a backup-first discipline: the bank file is copied to
// a timestamped backup before the first mutation, and a run that mutates
// nothing writes nothing. Missing batch artifacts skip their batch with
// zero side effects; the remaining batches still run.
package integrate

import (
	"context"
	"sort"
	"strings"

	"github.com/agentstation/utc"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/examtrail/qbank/pkg/errors"
	"github.com/examtrail/qbank/pkg/logging"
	"github.com/examtrail/qbank/pkg/questions"
)

// Integrator applies answer batches to the bank.
type Integrator interface {
	// Apply integrates one loaded batch into the bank, backing up the bank
	// file before the first mutation and saving the bank after. The bank at
	// bankPath must be the one passed in.
	Apply(ctx context.Context, bank *questions.Bank, bankPath string, batch *Batch) (*Run, error)

	// ApplyAll loads and applies each batch artifact in order. Missing or
	// malformed artifacts are reported as skipped runs; the rest proceed.
	ApplyAll(ctx context.Context, bank *questions.Bank, bankPath string, batchPaths ...string) ([]*Run, error)
}

// integrator is the default implementation of Integrator.
type integrator struct {
	policy    Policy
	clock     clockwork.Clock
	backupDir string
	dryRun    bool
}

// Option configures an Integrator.
type Option func(*integrator) error

// New creates a new Integrator with options.
func New(opts ...Option) (Integrator, error) {
	i := &integrator{
		policy: LatestWins(),
		clock:  clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		if err := opt(i); err != nil {
			return nil, err
		}
	}
	return i, nil
}

// pending is one mutation the planning pass queued.
type pending struct {
	rec   *questions.Record
	entry BatchAnswer
}

// Apply implements Integrator.
func (i *integrator) Apply(ctx context.Context, bank *questions.Bank, bankPath string, batch *Batch) (*Run, error) {
	ctx = logging.WithBatch(ctx, batch.Name)
	log := logging.Ctx(ctx)
	now := i.clock.Now()

	run := &Run{
		RunID:     uuid.New().String(),
		Batch:     batch.Name,
		DryRun:    i.dryRun,
		StartedAt: utc.Time{Time: now.UTC()},
		Policy:    i.policy.Name(),
	}

	// Index the batch by record ID, last entry wins on duplicates.
	index := make(map[int]BatchAnswer, len(batch.Answers))
	for _, entry := range batch.Answers {
		if entry.Index <= 0 {
			run.SkippedEntries++
			log.Warn().Int("index", entry.Index).Msg("Batch entry without usable index")
			continue
		}
		index[entry.Index] = entry
	}

	// Plan first, mutate later: nothing is touched until the backup exists.
	var plan []pending
	bank.ForEach(func(rec *questions.Record) bool {
		entry, ok := index[rec.ID]
		if !ok {
			return true
		}
		delete(index, rec.ID)

		newAnswer := strings.TrimSpace(entry.Answer)
		switch {
		case equalAnswers(rec.Answer, newAnswer):
			run.Unchanged++
		case newAnswer == "":
			run.SkippedEntries++
			log.Warn().Int("record_id", rec.ID).Msg("Batch entry would erase an existing answer, skipping")
		case !rec.HasAnswer():
			plan = append(plan, pending{rec: rec, entry: entry})
		default:
			overwrite := i.policy.ShouldOverwrite(rec, entry)
			run.Conflicts = append(run.Conflicts, Conflict{RecordID: rec.ID, Old: rec.Answer, New: newAnswer, Overwritten: overwrite})
			if overwrite {
				log.Warn().
					Int("record_id", rec.ID).
					Str("old", rec.Answer).
					Str("new", newAnswer).
					Msg("Conflicting answer overwritten")
				plan = append(plan, pending{rec: rec, entry: entry})
			} else {
				run.SkippedEntries++
				log.Warn().
					Int("record_id", rec.ID).
					Str("old", rec.Answer).
					Str("new", newAnswer).
					Msg("Conflicting answer kept, policy refused overwrite")
			}
		}
		return true
	})

	missing := make([]int, 0, len(index))
	for id := range index {
		missing = append(missing, id)
	}
	sort.Ints(missing)
	for _, id := range missing {
		log.Warn().Int("record_id", id).Msg("Batch entry matches no bank record")
	}
	run.MissingRecords = len(missing)

	for _, p := range plan {
		run.Applied = append(run.Applied, Applied{
			RecordID:   p.rec.ID,
			Answer:     strings.TrimSpace(p.entry.Answer),
			Confidence: entryConfidence(p.entry),
		})
	}
	run.Updated = len(plan)

	if len(plan) == 0 || i.dryRun {
		log.Info().
			Int("updated", run.Updated).
			Int("unchanged", run.Unchanged).
			Int("conflicts", run.ConflictCount()).
			Bool("dry_run", i.dryRun).
			Msg("Batch integration planned, nothing written")
		return run, nil
	}

	backupPath, err := writeBackup(bankPath, i.backupDir, now)
	if err != nil {
		return nil, err
	}
	run.BackupPath = backupPath

	for _, p := range plan {
		p.rec.Answer = strings.TrimSpace(p.entry.Answer)
		if err := p.rec.MarkVerified(questions.SourceBatch, entryConfidence(p.entry), len(p.entry.Sources), batch.Name, now); err != nil {
			return nil, err
		}
	}
	bank.BumpWithAnswer(run.Updated)
	bank.SetLastUpdated(utc.Time{Time: now.UTC()})

	if err := questions.SaveBank(bank, bankPath); err != nil {
		return nil, err
	}

	log.Info().
		Str("run_id", run.RunID).
		Int("updated", run.Updated).
		Int("unchanged", run.Unchanged).
		Int("conflicts", run.ConflictCount()).
		Str("backup", backupPath).
		Msg("Batch integrated")

	return run, nil
}

// ApplyAll implements Integrator.
func (i *integrator) ApplyAll(ctx context.Context, bank *questions.Bank, bankPath string, batchPaths ...string) ([]*Run, error) {
	runs := make([]*Run, 0, len(batchPaths))
	for _, path := range batchPaths {
		if err := ctx.Err(); err != nil {
			return runs, err
		}
		batch, err := LoadBatchFile(path)
		if err != nil {
			switch {
			case errors.IsMissingArtifact(err):
				logging.Ctx(ctx).Warn().Str("artifact", path).Msg("Batch artifact missing, skipping")
				runs = append(runs, i.skippedRun(path, "artifact missing"))
				continue
			case errors.IsParseError(err):
				logging.Ctx(ctx).Warn().Str("artifact", path).Err(err).Msg("Batch artifact malformed, skipping")
				runs = append(runs, i.skippedRun(path, "artifact malformed"))
				continue
			default:
				return runs, err
			}
		}
		run, err := i.Apply(ctx, bank, bankPath, batch)
		if err != nil {
			return runs, err
		}
		run.Path = path
		runs = append(runs, run)
	}
	return runs, nil
}

// skippedRun records a batch that was passed over without side effects.
func (i *integrator) skippedRun(path, reason string) *Run {
	return &Run{
		RunID:      uuid.New().String(),
		Batch:      batchNameFromPath(path),
		Path:       path,
		Skipped:    true,
		SkipReason: reason,
		StartedAt:  utc.Time{Time: i.clock.Now().UTC()},
		Policy:     i.policy.Name(),
	}
}

// equalAnswers compares answer labels ignoring case and padding.
func equalAnswers(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// Option Functions
// ================

// WithPolicy sets the overwrite policy for conflicting answers.
func WithPolicy(policy Policy) Option {
	return func(i *integrator) error {
		if policy == nil {
			return errors.NewConfigError("integrator", "policy cannot be nil", nil)
		}
		i.policy = policy
		return nil
	}
}

// WithClock sets the time source for ledger dates and backup stamps.
func WithClock(clock clockwork.Clock) Option {
	return func(i *integrator) error {
		if clock == nil {
			return errors.NewConfigError("integrator", "clock cannot be nil", nil)
		}
		i.clock = clock
		return nil
	}
}

// WithBackupDir redirects backups to dir instead of the bank file's own
// directory.
func WithBackupDir(dir string) Option {
	return func(i *integrator) error {
		i.backupDir = dir
		return nil
	}
}

// WithDryRun plans runs without backing up, mutating, or saving.
func WithDryRun(dryRun bool) Option {
	return func(i *integrator) error {
		i.dryRun = dryRun
		return nil
	}
}
