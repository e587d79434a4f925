package qbank

import (
	"github.com/examtrail/qbank/pkg/questions"
)

// Compile-time interface check to ensure proper implementation.
var _ Collections = (*engine)(nil)

// Collections provides access to the loaded working collections.
type Collections interface {
	// Bank returns the working question bank.
	Bank() (*questions.Bank, error)

	// Reference returns the loaded reference set.
	Reference() (*questions.ReferenceSet, error)
}

// Bank returns the working question bank.
func (e *engine) Bank() (*questions.Bank, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.bank, nil
}

// Reference returns the loaded reference set. A missing reference document
// comes back as a MissingArtifactError.
func (e *engine) Reference() (*questions.ReferenceSet, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.reference()
}
