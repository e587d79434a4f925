package app

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/examtrail/qbank/internal/cmd/output"
	"github.com/examtrail/qbank/pkg/errors"
)

// NewReportCommand creates the report command.
func (a *App) NewReportCommand() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Report verification progress",
		Long: `Report snapshots the bank: how many records carry answers, how many of
those are verified, the per-subject breakdown, and the work queues of
records still needing research or verification.

When the reference set is available the snapshot includes matching
statistics; without it the report covers the bank alone. The command
never modifies anything.`,
		Example: `  qbank report
  qbank report -o markdown --out report.md
  qbank report -o json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			qb, err := a.Engine()
			if err != nil {
				return err
			}

			// Run a read-only match first so the snapshot carries matching
			// statistics. A missing reference set just means no match section.
			if _, err := qb.Reconcile(cmd.Context()); err != nil && !errors.IsMissingArtifact(err) {
				return err
			}

			rep, err := qb.Report(cmd.Context())
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if outPath != "" {
				f, err := os.Create(outPath)
				if err != nil {
					return errors.WrapIO("create", outPath, err)
				}
				defer f.Close()
				w = f
			}

			switch format := a.format(); format {
			case output.FormatMarkdown:
				return rep.Markdown(w)
			case output.FormatJSON, output.FormatYAML:
				return output.NewFormatter(format).Format(w, rep)
			default:
				if err := output.NewFormatter(format).Format(w, output.ReportToTableData(rep)); err != nil {
					return err
				}
				cmd.Println(rep.Summary())
				return nil
			}
		},
	}

	cmd.Flags().StringVar(&outPath, "out", "", "write the report to a file instead of stdout")

	return cmd
}
