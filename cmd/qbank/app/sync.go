package app

import (
	"github.com/spf13/cobra"

	"github.com/examtrail/qbank/internal/cmd/output"
)

// NewSyncCommand creates the sync command.
func (a *App) NewSyncCommand() *cobra.Command {
	var noSave bool

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Apply reference answers to matched bank records",
		Long: `Sync matches the reference set against the bank and applies the
reference answers: unanswered records receive the answer and a
verification event, agreeing records are confirmed, and conflicting
unverified answers are overwritten. Records whose answer was already
verified are never touched.

The bank file is copied to a timestamped backup before it is written
over. With --dry-run the file on disk is left exactly as it was.`,
		Example: `  qbank sync
  qbank sync --dry-run
  qbank sync --no-save -o json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			qb, err := a.Engine()
			if err != nil {
				return err
			}

			result, err := qb.SyncReference(cmd.Context())
			if err != nil {
				return err
			}

			if !noSave {
				if err := qb.Save(cmd.Context()); err != nil {
					return err
				}
			}

			switch format := a.format(); format {
			case output.FormatJSON, output.FormatYAML:
				return output.NewFormatter(format).Format(cmd.OutOrStdout(), result)
			default:
				if err := output.NewFormatter(format).Format(cmd.OutOrStdout(), output.SyncToTableData(result)); err != nil {
					return err
				}
				cmd.Println(result.Summary())
				return nil
			}
		},
	}

	cmd.Flags().BoolVar(&noSave, "no-save", false, "apply in memory and report without saving the bank")

	return cmd
}
