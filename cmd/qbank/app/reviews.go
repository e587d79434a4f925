package app

import (
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/examtrail/qbank/internal/cmd/output"
	"github.com/examtrail/qbank/pkg/errors"
	"github.com/examtrail/qbank/pkg/review"
)

// reviewNotesWidth bounds the notes column of the matrix view.
const reviewNotesWidth = 48

// NewReviewsCommand creates the reviews command.
func (a *App) NewReviewsCommand() *cobra.Command {
	var showMatrix bool
	var outPath string

	cmd := &cobra.Command{
		Use:   "reviews <review.json>...",
		Short: "Merge review artifacts into one summary",
		Long: `Reviews folds per-batch verification review artifacts into one
consolidated summary. When batches disagree on a record the strongest
status wins (verified beats questionable beats error) and the
disagreement stays visible in the matrix.

Missing artifacts are skipped; the remaining ones still merge. The bank
itself is never touched.`,
		Example: `  qbank reviews reviews/round_1.json reviews/round_2.json
  qbank reviews reviews/*.json --matrix
  qbank reviews reviews/*.json --out review_summary.json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			qb, err := a.Engine()
			if err != nil {
				return err
			}

			summary, err := qb.MergeReviews(cmd.Context(), args...)
			if err != nil {
				return err
			}

			if outPath != "" {
				if err := writeSummary(summary, outPath); err != nil {
					return err
				}
			}

			switch format := a.format(); format {
			case output.FormatJSON, output.FormatYAML:
				return output.NewFormatter(format).Format(cmd.OutOrStdout(), summary)
			default:
				formatter := output.NewFormatter(format)
				if err := formatter.Format(cmd.OutOrStdout(), output.ReviewToTableData(summary)); err != nil {
					return err
				}
				if showMatrix {
					if err := formatter.Format(cmd.OutOrStdout(), matrixTableData(summary)); err != nil {
						return err
					}
				}
				cmd.Println(summary.String())
				return nil
			}
		},
	}

	cmd.Flags().BoolVar(&showMatrix, "matrix", false, "show the per-record outcome matrix")
	cmd.Flags().StringVar(&outPath, "out", "", "write the merged summary JSON to a file")

	return cmd
}

// matrixTableData renders the consolidated per-record outcomes.
func matrixTableData(summary *review.Summary) output.Data {
	rows := make([][]string, 0, len(summary.Matrix))
	for _, row := range summary.Matrix {
		status := row.Status.String()
		if row.Disagreement {
			status += " (disagreement)"
		}
		rows = append(rows, []string{
			row.RecordID,
			status,
			strings.Join(row.Batches, ", "),
			strconv.Itoa(row.SourcesCount),
			output.Truncate(row.Notes, reviewNotesWidth),
		})
	}
	return output.Data{
		Headers: []string{"Record", "Status", "Batches", "Sources", "Notes"},
		Rows:    rows,
	}
}

func writeSummary(summary *review.Summary, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.WrapIO("create", path, err)
	}
	defer f.Close()
	formatter := &output.JSONFormatter{Indent: "  "}
	return formatter.Format(f, summary)
}
