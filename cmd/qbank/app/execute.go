package app

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/examtrail/qbank/internal/cmd/output"
	"github.com/examtrail/qbank/pkg/logging"
)

// Execute runs the qbank CLI application with the given arguments. This is
// the main entry point called from main.go.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

// createRootCommand creates the root cobra command with all subcommands.
func (a *App) createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "qbank",
		Short:   "Question bank reconciliation CLI",
		Version: a.version,
		Long: `Qbank reconciles a verified reference set of exam questions against a
larger harvested question bank, merges externally researched answer
batches into the bank, and reports verification progress.

All mutations follow a backup-first discipline: the bank file is copied
to a timestamped backup before anything is written over it.`,
		PersistentPreRunE: a.setupCommand,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	// Add global flags
	rootCmd.PersistentFlags().String("config", "", "config file (default is $HOME/.qbank.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output (shortcut for --log-level=debug)")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "minimal output (shortcut for --log-level=warn)")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringP("format", "o", "", "output format: table, json, yaml, markdown")
	rootCmd.PersistentFlags().String("log-level", "", "log level: trace, debug, info, warn, error (overrides -v/-q)")
	rootCmd.PersistentFlags().String("bank", "", "question bank document (default bank.json)")
	rootCmd.PersistentFlags().String("reference", "", "verified reference set document (default reference.json)")
	rootCmd.PersistentFlags().String("backup-dir", "", "directory for pre-mutation backups (default: alongside the bank)")
	rootCmd.PersistentFlags().Bool("dry-run", false, "plan mutations without writing anything")

	// Customize version output to match version subcommand
	rootCmd.SetVersionTemplate("qbank {{.Version}}\n")

	a.registerCommands(rootCmd)

	return rootCmd
}

// setupCommand is called before any command runs.
func (a *App) setupCommand(cmd *cobra.Command, _ []string) error {
	// Update config from parsed flags. These flags are defined as persistent
	// flags in createRootCommand, so errors indicate programming errors.
	verbose := mustGetBool(cmd, "verbose")
	quiet := mustGetBool(cmd, "quiet")
	noColor := mustGetBool(cmd, "no-color")
	format := mustGetString(cmd, "format")
	logLevel := mustGetString(cmd, "log-level")

	a.config.UpdateFromFlags(verbose, quiet, noColor, format, logLevel)

	if _, err := output.ParseFormat(a.config.Format); err != nil {
		return err
	}

	if bank := mustGetString(cmd, "bank"); bank != "" {
		a.config.BankPath = bank
	}
	if ref := mustGetString(cmd, "reference"); ref != "" {
		a.config.ReferencePath = ref
	}
	if dir := mustGetString(cmd, "backup-dir"); dir != "" {
		a.config.BackupDir = dir
	}
	if mustGetBool(cmd, "dry-run") {
		a.config.DryRun = true
	}

	// Reinitialize the logger with updated config and route package-level
	// logging through it so -v/-q apply everywhere.
	logger := NewLogger(a.config)
	a.logger = &logger
	logging.SetDefault(logger)

	return nil
}

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	// Working cycle commands
	rootCmd.AddCommand(a.NewReconcileCommand())
	rootCmd.AddCommand(a.NewSyncCommand())
	rootCmd.AddCommand(a.NewIntegrateCommand())
	rootCmd.AddCommand(a.NewResearchCommand())
	rootCmd.AddCommand(a.NewReviewsCommand())

	// Reporting and utility commands
	rootCmd.AddCommand(a.NewReportCommand())
	rootCmd.AddCommand(a.NewVersionCommand())
}

// format resolves the output format, auto-detecting from the terminal when
// no explicit format was configured.
func (a *App) format() output.Format {
	return output.DetectFormat(a.config.Format)
}

// ExitOnError is a helper that prints an error and exits with status 1.
// This is meant to be used in main.go for top-level error handling.
func ExitOnError(err error) {
	if err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}

// mustGetBool retrieves a boolean flag value or panics if the flag doesn't
// exist. This should only be used for flags defined in this package.
func mustGetBool(cmd *cobra.Command, name string) bool {
	val, err := cmd.Flags().GetBool(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}

// mustGetString retrieves a string flag value or panics if the flag doesn't
// exist. This should only be used for flags defined in this package.
func mustGetString(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}
