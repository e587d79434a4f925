// Package app provides the application context and dependency management
// for the qbank CLI. It centralizes configuration, logging, and the engine
// instance so commands share one consistently configured environment.
package app

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/examtrail/qbank"
	"github.com/examtrail/qbank/pkg/errors"
)

// App represents the qbank application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	// Configuration
	config *Config

	// Logger
	logger *zerolog.Logger

	// Engine instance (lazy-initialized, singleton)
	mu     sync.RWMutex
	engine qbank.Qbank
}

// New creates a new App instance with the given version information.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	config, err := LoadConfig()
	if err != nil {
		return nil, errors.NewConfigError("app", "failed to load configuration", err)
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// Engine returns the engine instance, creating it lazily if needed. The
// first call loads the bank and reference collections; later calls reuse
// the same instance so in-memory changes survive across one invocation.
func (a *App) Engine() (qbank.Qbank, error) {
	a.mu.RLock()
	if a.engine != nil {
		qb := a.engine
		a.mu.RUnlock()
		return qb, nil
	}
	a.mu.RUnlock()

	a.mu.Lock()
	defer a.mu.Unlock()

	// Double-check after acquiring write lock
	if a.engine != nil {
		return a.engine, nil
	}

	qb, err := qbank.New(a.buildEngineOptions()...)
	if err != nil {
		return nil, err
	}

	a.engine = qb
	return qb, nil
}

// buildEngineOptions constructs engine options from the app configuration.
func (a *App) buildEngineOptions() []qbank.Option {
	opts := []qbank.Option{
		qbank.WithLogger(a.logger),
		qbank.WithDryRun(a.config.DryRun),
	}

	if a.config.BankPath != "" {
		opts = append(opts, qbank.WithBankPath(a.config.BankPath))
	}
	opts = append(opts, qbank.WithReferencePath(a.config.ReferencePath))
	if a.config.BackupDir != "" {
		opts = append(opts, qbank.WithBackupDir(a.config.BackupDir))
	}

	return opts
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithEngine sets a custom engine instance (useful for testing).
func WithEngine(qb qbank.Qbank) Option {
	return func(a *App) error {
		a.engine = qb
		return nil
	}
}
