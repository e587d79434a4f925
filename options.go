package qbank

import (
	"io/fs"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/examtrail/qbank/pkg/constants"
	"github.com/examtrail/qbank/pkg/errors"
	"github.com/examtrail/qbank/pkg/integrate"
)

// options holds the configured options for the engine.
type options struct {
	fsys      fs.FS
	bankPath  string
	refPath   string
	backupDir string
	policy    integrate.Policy
	logger    *zerolog.Logger
	clock     clockwork.Clock
	dryRun    bool
}

// defaultOptions returns engine options with default values.
func defaultOptions() *options {
	return &options{
		bankPath: constants.DefaultBankFile,
		refPath:  constants.DefaultReferenceFile,
		policy:   integrate.LatestWins(),
		clock:    clockwork.NewRealClock(),
	}
}

func (o *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// Option is a function that configures the engine.
type Option func(*options) error

// WithBankPath sets the question bank document path.
func WithBankPath(path string) Option {
	return func(o *options) error {
		if path == "" {
			return &errors.ValidationError{
				Field:   "bank path",
				Message: "cannot be empty",
			}
		}
		o.bankPath = path
		return nil
	}
}

// WithReferencePath sets the reference set document path. An empty path
// disables reference matching.
func WithReferencePath(path string) Option {
	return func(o *options) error {
		o.refPath = path
		return nil
	}
}

// WithFS reads the collections and review artifacts from fsys instead of
// the host filesystem. Mutating operations still write to the host paths.
func WithFS(fsys fs.FS) Option {
	return func(o *options) error {
		if fsys == nil {
			return &errors.ValidationError{
				Field:   "fsys",
				Message: "cannot be nil",
			}
		}
		o.fsys = fsys
		return nil
	}
}

// WithBackupDir redirects pre-mutation backups to dir instead of the bank
// file's own directory.
func WithBackupDir(dir string) Option {
	return func(o *options) error {
		o.backupDir = dir
		return nil
	}
}

// WithPolicy sets the overwrite policy for conflicting batch answers.
func WithPolicy(policy integrate.Policy) Option {
	return func(o *options) error {
		if policy == nil {
			return &errors.ValidationError{
				Field:   "policy",
				Message: "cannot be nil",
			}
		}
		o.policy = policy
		return nil
	}
}

// WithLogger routes operation logs through logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(o *options) error {
		if logger == nil {
			return &errors.ValidationError{
				Field:   "logger",
				Message: "cannot be nil",
			}
		}
		o.logger = logger
		return nil
	}
}

// WithClock sets the time source for ledger dates, backup stamps, and
// report timestamps.
func WithClock(clock clockwork.Clock) Option {
	return func(o *options) error {
		if clock == nil {
			return &errors.ValidationError{
				Field:   "clock",
				Message: "cannot be nil",
			}
		}
		o.clock = clock
		return nil
	}
}

// WithDryRun plans mutations without writing anything to disk.
func WithDryRun(dryRun bool) Option {
	return func(o *options) error {
		o.dryRun = dryRun
		return nil
	}
}
