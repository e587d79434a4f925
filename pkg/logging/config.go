package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"

	"github.com/examtrail/qbank/pkg/constants"
)

// Config describes how a run logger is built. The CLI fills it from
// flags and QBANK_* environment; library callers can construct one
// directly.
type Config struct {
	// Level is the minimum level to emit (trace through disabled).
	Level string

	// Format selects json, console, or auto. Auto picks console when
	// the output is a terminal.
	Format string

	// Output is stderr, stdout, discard, or a file path to append to.
	Output string

	// TimeFormat names the timestamp layout used by console output
	// (kitchen, rfc3339, unix, stamp, or a custom layout).
	TimeFormat string

	// NoColor disables color in console output.
	NoColor bool

	// AddCaller includes file:line on every event.
	AddCaller bool
}

// DefaultConfig returns the configuration used when none is given:
// info level on stderr with the format auto-detected from the terminal.
func DefaultConfig() *Config {
	return &Config{
		Level:      "info",
		Format:     "auto",
		Output:     "stderr",
		TimeFormat: "kitchen",
		NoColor:    os.Getenv("NO_COLOR") != "",
	}
}

// NewLoggerFromConfig builds a logger from cfg. A nil cfg falls back to
// DefaultConfig. The global zerolog level is set as a side effect so
// package-level events respect the same floor.
func NewLoggerFromConfig(cfg *Config) zerolog.Logger {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	level := parseLevel(cfg.Level)
	zerolog.SetGlobalLevel(level)

	logger := zerolog.New(getWriter(cfg)).
		Level(level).
		With().
		Timestamp().
		Logger()

	if cfg.AddCaller || level <= zerolog.DebugLevel {
		logger = logger.With().Caller().Logger()
	}

	return logger
}

// getWriter builds the sink described by the configuration.
func getWriter(cfg *Config) io.Writer {
	output := openOutput(cfg.Output)

	switch resolveFormat(cfg.Format, output) {
	case "console", "pretty":
		return zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: parseTimeFormat(cfg.TimeFormat),
			NoColor:    cfg.NoColor,
		}
	default:
		return output
	}
}

// openOutput maps the output name to a writer. Unrecognized names are
// treated as file paths appended to; open failures fall back to stderr
// so a bad --log-output never silences a run.
func openOutput(name string) io.Writer {
	switch strings.ToLower(name) {
	case "", "stderr":
		return os.Stderr
	case "stdout":
		return os.Stdout
	case "discard", "none":
		return io.Discard
	}

	file, err := os.OpenFile(name, os.O_CREATE|os.O_APPEND|os.O_WRONLY, constants.FilePermissions)
	if err != nil {
		return os.Stderr
	}
	return file
}

// resolveFormat decides between json and console when the format is
// auto. Only *os.File outputs can be terminals; io.Discard and other
// writers always get JSON.
func resolveFormat(format string, output io.Writer) string {
	format = strings.ToLower(format)
	if format != "" && format != "auto" {
		return format
	}

	if f, ok := output.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		return "console"
	}
	return "json"
}

// parseLevel parses a log level string, accepting a few aliases on top
// of zerolog's own names. Unknown levels degrade to info.
func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "warning":
		return zerolog.WarnLevel
	case "none", "off", "disabled":
		return zerolog.Disabled
	case "":
		return zerolog.InfoLevel
	}

	if l, err := zerolog.ParseLevel(strings.ToLower(level)); err == nil {
		return l
	}
	return zerolog.InfoLevel
}

// parseTimeFormat maps a timestamp layout name to its Go layout.
func parseTimeFormat(format string) string {
	switch strings.ToLower(format) {
	case "kitchen":
		return time.Kitchen
	case "rfc3339":
		return time.RFC3339
	case "rfc3339nano":
		return time.RFC3339Nano
	case "unix", "epoch":
		return "" // zerolog renders Unix timestamps for the empty layout
	case "stamp":
		return time.Stamp
	default:
		if strings.Contains(format, "2006") || strings.Contains(format, "15:04") {
			return format
		}
		return time.Kitchen
	}
}
