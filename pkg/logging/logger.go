// Package logging provides structured logging for qbank using zerolog.
// Reconciliation and integration runs emit JSON events when scripted and
// human-readable console lines when attached to a terminal.
//
// Example usage:
//
//	// Package-level events go through the default logger
//	logging.Info().
//	    Str("batch", "BATCH_C").
//	    Int("updated", 12).
//	    Msg("Batch applied")
//
//	// During a run the logger travels on the context, picking up
//	// batch and record fields as the engine descends
//	ctx = logging.WithBatch(ctx, batch.Name)
//	logging.Ctx(ctx).Debug().
//	    Int("record_id", 207).
//	    Msg("Answer confirmed")
package logging

import (
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// defaultLogger is the process-wide logger. The CLI replaces it via
// SetDefault once flags and environment are resolved; until then events
// go to stderr at the level LOG_LEVEL or DEBUG select.
var defaultLogger zerolog.Logger

func init() {
	defaultLogger = newDefaultLogger()
}

// newDefaultLogger builds the pre-configuration logger: console output
// on a terminal, JSON otherwise.
func newDefaultLogger() zerolog.Logger {
	var writer io.Writer = os.Stderr
	if isatty.IsTerminal(os.Stderr.Fd()) && os.Getenv("LOG_FORMAT") != "json" {
		writer = zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.Kitchen,
			NoColor:    os.Getenv("NO_COLOR") != "",
		}
	}

	level := envLevel()
	zerolog.SetGlobalLevel(level)

	logger := zerolog.New(writer).
		Level(level).
		With().
		Timestamp().
		Logger()

	if level <= zerolog.DebugLevel {
		logger = logger.With().Caller().Logger()
	}

	return logger
}

// envLevel reads the log level from the environment before any
// configuration has run. DEBUG=1 is honored as a shortcut.
func envLevel() zerolog.Level {
	levelStr := os.Getenv("LOG_LEVEL")
	if levelStr == "" {
		if os.Getenv("DEBUG") != "" {
			return zerolog.DebugLevel
		}
		return zerolog.InfoLevel
	}

	level, err := zerolog.ParseLevel(levelStr)
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}

// Default returns the default global logger.
func Default() *zerolog.Logger {
	return &defaultLogger
}

// SetDefault replaces the default global logger. zerolog's own global
// logger is kept in step so code logging through either sees the same
// sink.
func SetDefault(logger zerolog.Logger) {
	defaultLogger = logger
	log.Logger = logger
}

// Debug starts a debug level event on the default logger.
func Debug() *zerolog.Event {
	return defaultLogger.Debug()
}

// Info starts an info level event on the default logger.
func Info() *zerolog.Event {
	return defaultLogger.Info()
}

// Warn starts a warning level event on the default logger.
func Warn() *zerolog.Event {
	return defaultLogger.Warn()
}

// Error starts an error level event on the default logger.
func Error() *zerolog.Event {
	return defaultLogger.Error()
}
