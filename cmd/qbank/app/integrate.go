package app

import (
	"github.com/spf13/cobra"

	"github.com/examtrail/qbank/internal/cmd/output"
)

// NewIntegrateCommand creates the integrate command.
func (a *App) NewIntegrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "integrate <batch.json>...",
		Short: "Apply external answer batches to the bank",
		Long: `Integrate applies researched answer batches to the bank in order. Each
batch that changes anything backs up the bank file first and saves the
bank after. Runs are idempotent: an entry matching the record's current
answer does nothing, so re-running a batch is safe.

Missing or malformed batch artifacts are skipped with zero side effects;
the remaining batches still run.`,
		Example: `  qbank integrate research/batch_1.json
  qbank integrate research/batch_*.json --dry-run
  qbank integrate batch_1.json batch_2.json -o json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			qb, err := a.Engine()
			if err != nil {
				return err
			}

			runs, err := qb.Integrate(cmd.Context(), args...)
			if err != nil {
				return err
			}

			switch format := a.format(); format {
			case output.FormatJSON, output.FormatYAML:
				return output.NewFormatter(format).Format(cmd.OutOrStdout(), runs)
			default:
				if err := output.NewFormatter(format).Format(cmd.OutOrStdout(), output.RunsToTableData(runs)); err != nil {
					return err
				}
				applied, skipped := 0, 0
				for _, run := range runs {
					switch {
					case run.Skipped:
						skipped++
					case run.Mutated():
						applied++
					}
				}
				cmd.Printf("Processed %s: %d applied, %d skipped\n",
					output.Plural(len(runs), "batch", "batches"), applied, skipped)
				return nil
			}
		},
	}

	return cmd
}
