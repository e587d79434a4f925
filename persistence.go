package qbank

import (
	"context"

	"github.com/examtrail/qbank/pkg/integrate"
	"github.com/examtrail/qbank/pkg/logging"
	"github.com/examtrail/qbank/pkg/questions"
)

// Compile-time interface check to ensure proper implementation.
var _ Persistence = (*engine)(nil)

// Persistence saves the working bank.
type Persistence interface {
	// Save writes the bank back to its document, all or nothing. When
	// unsaved mutations are pending, the on-disk file is backed up first.
	Save(ctx context.Context) error
}

// Save persists the working bank to its document.
func (e *engine) Save(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	log := logging.Ctx(e.logContext(ctx))
	if e.options.dryRun {
		log.Info().Str("bank", e.options.bankPath).Msg("Dry run, bank not saved")
		return nil
	}

	if e.dirty {
		backupPath, err := integrate.Backup(e.options.bankPath, e.options.backupDir, e.options.clock.Now())
		if err != nil {
			return err
		}
		log.Info().Str("backup", backupPath).Msg("Bank backed up before save")
	}

	if err := questions.SaveBank(e.bank, e.options.bankPath); err != nil {
		return err
	}
	e.dirty = false
	return nil
}
