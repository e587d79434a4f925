package app

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/examtrail/qbank/internal/cmd/output"
)

// NewReconcileCommand creates the reconcile command.
func (a *App) NewReconcileCommand() *cobra.Command {
	var showUnmatched bool

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Match the reference set against the bank",
		Long: `Reconcile pairs each verified reference question with a bank record by
normalized question text. Matching is read-only: it reports how the two
collections line up without changing either one.

Use sync to apply the reference answers to the matched records.`,
		Example: `  qbank reconcile
  qbank reconcile --show-unmatched
  qbank reconcile -o json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			qb, err := a.Engine()
			if err != nil {
				return err
			}

			result, err := qb.Reconcile(cmd.Context())
			if err != nil {
				return err
			}

			switch format := a.format(); format {
			case output.FormatJSON, output.FormatYAML:
				return output.NewFormatter(format).Format(cmd.OutOrStdout(), result)
			default:
				if err := output.NewFormatter(format).Format(cmd.OutOrStdout(), output.MatchToTableData(result)); err != nil {
					return err
				}
				cmd.Println(result.Summary())
				if showUnmatched {
					printUnmatched(cmd, result.UnmatchedRefs, result.UnmatchedRecords)
				}
				return nil
			}
		},
	}

	cmd.Flags().BoolVar(&showUnmatched, "show-unmatched", false, "list unmatched reference IDs and record IDs")

	return cmd
}

func printUnmatched(cmd *cobra.Command, refs []string, records []int) {
	if len(refs) > 0 {
		cmd.Printf("%s without a bank record: %s\n",
			output.Plural(len(refs), "reference", "references"), strings.Join(refs, ", "))
	}
	if len(records) > 0 {
		cmd.Printf("%s without a reference: %s\n",
			output.Plural(len(records), "bank record", "bank records"), joinInts(records))
	}
}
