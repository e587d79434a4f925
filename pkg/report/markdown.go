package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	md "github.com/nao1215/markdown"

	"github.com/examtrail/qbank/pkg/integrate"
)

// maxListedIDs bounds how many record IDs a work-queue line spells out.
const maxListedIDs = 10

// WriteMarkdown renders the report, and any integration runs, as a
// Markdown document.
func WriteMarkdown(w io.Writer, rep *Report, runs ...*integrate.Run) error {
	doc := md.NewMarkdown(w)

	title := "Question Bank Report"
	if rep.Exam != "" {
		title = rep.Exam + " Question Bank Report"
	}
	doc.H1(title)
	doc.PlainText(md.Bold("Generated: " + rep.GeneratedAt.Time.Format("2006-01-02 15:04 MST"))).LF()

	doc.H2("Summary")
	total := rep.Totals.Records
	doc.Table(md.TableSet{
		Header: []string{"Metric", "Count", "Share"},
		Rows: [][]string{
			{"Records", strconv.Itoa(total), ""},
			{"With answer", strconv.Itoa(rep.Totals.WithAnswer), percent(rep.Totals.WithAnswer, total)},
			{"Verified", strconv.Itoa(rep.Totals.Verified), percent(rep.Totals.Verified, total)},
			{"Stale (answer, unverified)", strconv.Itoa(rep.Totals.Stale), percent(rep.Totals.Stale, total)},
			{"No answer", strconv.Itoa(rep.Totals.NoAnswer), percent(rep.Totals.NoAnswer, total)},
		},
	})

	if m := rep.Match; m != nil {
		doc.H2("Reconciliation")
		doc.Table(md.TableSet{
			Header: []string{"Metric", "Count"},
			Rows: [][]string{
				{"References", strconv.Itoa(m.References)},
				{"Matched", fmt.Sprintf("%d (%s)", m.Matched, percent(m.Matched, m.References))},
				{"Answers agree", strconv.Itoa(m.AnswerMatches)},
				{"Answers conflict", strconv.Itoa(m.AnswerConflicts)},
				{"Need an answer", strconv.Itoa(m.NeedsAnswer)},
				{"Unmatched references", strconv.Itoa(m.UnmatchedReferences)},
				{"Unmatched records", strconv.Itoa(m.UnmatchedRecords)},
				{"Key collisions", strconv.Itoa(m.KeyCollisions)},
			},
		})
	}

	if len(rep.Subjects) > 0 {
		doc.H2("Subjects")
		rows := make([][]string, 0, len(rep.Subjects))
		for _, sc := range rep.Subjects {
			subject := sc.Subject
			if subject == "" {
				subject = "(none)"
			}
			rows = append(rows, []string{
				subject,
				strconv.Itoa(sc.Records),
				strconv.Itoa(sc.WithAnswer),
				strconv.Itoa(sc.Verified),
			})
		}
		doc.Table(md.TableSet{
			Header: []string{"Subject", "Records", "With answer", "Verified"},
			Rows:   rows,
		})
	}

	for i, run := range runs {
		if i == 0 {
			doc.H2("Integration runs")
		}
		writeRun(doc, run)
	}

	if rep.Match != nil {
		doc.H2("Work queues")
		doc.BulletList(
			queueLine("Research needed", "unmatched, no answer", rep.NeedsResearch),
			queueLine("Verification needed", "unmatched, answer present", rep.NeedsVerification),
		)
	}

	if len(rep.Invalid) > 0 {
		doc.H2("Invalid records")
		rows := make([][]string, 0, len(rep.Invalid))
		for _, inv := range rep.Invalid {
			rows = append(rows, []string{inv.Group, strconv.Itoa(inv.Position), inv.Reason})
		}
		doc.Table(md.TableSet{
			Header: []string{"Group", "Position", "Reason"},
			Rows:   rows,
		})
	}

	return doc.Build()
}

// Markdown renders the snapshot alone, without integration runs.
func (r *Report) Markdown(w io.Writer) error {
	return WriteMarkdown(w, r)
}

func writeRun(doc *md.Markdown, run *integrate.Run) {
	doc.H3(run.Batch)
	if run.Skipped {
		doc.PlainText("Skipped: " + run.SkipReason).LF()
		return
	}
	rows := [][]string{
		{"Updated", strconv.Itoa(run.Updated)},
		{"Unchanged", strconv.Itoa(run.Unchanged)},
		{"Conflicts", strconv.Itoa(run.ConflictCount())},
		{"Skipped entries", strconv.Itoa(run.SkippedEntries)},
		{"Missing records", strconv.Itoa(run.MissingRecords)},
	}
	if run.DryRun {
		rows = append(rows, []string{"Mode", "dry run"})
	}
	if run.BackupPath != "" {
		rows = append(rows, []string{"Backup", md.Code(run.BackupPath)})
	}
	doc.Table(md.TableSet{
		Header: []string{"Metric", "Value"},
		Rows:   rows,
	})
}

func queueLine(label, detail string, ids []int) string {
	noun := "records"
	if len(ids) == 1 {
		noun = "record"
	}
	line := fmt.Sprintf("%s for %d %s (%s)", label, len(ids), noun, detail)
	if len(ids) > 0 {
		line += ": " + formatIDs(ids, maxListedIDs)
	}
	return line
}

// formatIDs renders up to max record IDs, eliding the rest.
func formatIDs(ids []int, max int) string {
	parts := make([]string, 0, max+1)
	for i, id := range ids {
		if i == max {
			parts = append(parts, fmt.Sprintf("and %d more", len(ids)-max))
			break
		}
		parts = append(parts, strconv.Itoa(id))
	}
	return strings.Join(parts, ", ")
}

func percent(part, total int) string {
	if total == 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", float64(part)/float64(total)*100)
}
