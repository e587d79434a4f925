package output

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/examtrail/qbank/pkg/integrate"
	"github.com/examtrail/qbank/pkg/reconcile"
	"github.com/examtrail/qbank/pkg/report"
	"github.com/examtrail/qbank/pkg/review"
)

// ReportToTableData renders a snapshot as a metric table.
func ReportToTableData(rep *report.Report) Data {
	total := rep.Totals.Records
	rows := [][]string{
		{"Records", strconv.Itoa(total), ""},
		{"With answer", strconv.Itoa(rep.Totals.WithAnswer), share(rep.Totals.WithAnswer, total)},
		{"Verified", strconv.Itoa(rep.Totals.Verified), share(rep.Totals.Verified, total)},
		{"Stale", strconv.Itoa(rep.Totals.Stale), share(rep.Totals.Stale, total)},
		{"No answer", strconv.Itoa(rep.Totals.NoAnswer), share(rep.Totals.NoAnswer, total)},
	}
	if m := rep.Match; m != nil {
		rows = append(rows,
			[]string{"Matched references", strconv.Itoa(m.Matched), share(m.Matched, m.References)},
			[]string{"Answer conflicts", strconv.Itoa(m.AnswerConflicts), ""},
			[]string{"Key collisions", strconv.Itoa(m.KeyCollisions), ""},
			[]string{"Needs research", strconv.Itoa(len(rep.NeedsResearch)), ""},
			[]string{"Needs verification", strconv.Itoa(len(rep.NeedsVerification)), ""},
		)
	}
	if n := len(rep.Invalid); n > 0 {
		rows = append(rows, []string{"Invalid records", strconv.Itoa(n), ""})
	}
	return Data{
		Headers: []string{"Metric", "Count", "Share"},
		Rows:    rows,
	}
}

// MatchToTableData renders a matching result as a metric table.
func MatchToTableData(result *reconcile.Result) Data {
	s := result.Stats
	return Data{
		Headers: []string{"Metric", "Count"},
		Rows: [][]string{
			{"References", strconv.Itoa(s.References)},
			{"Bank records", strconv.Itoa(s.Records)},
			{"Matched", fmt.Sprintf("%d (%s)", s.Matched, share(s.Matched, s.References))},
			{"Answers agree", strconv.Itoa(s.AnswerMatches)},
			{"Answers conflict", strconv.Itoa(s.AnswerConflicts)},
			{"Need an answer", strconv.Itoa(s.NeedsAnswer)},
			{"Unmatched references", strconv.Itoa(s.UnmatchedReferences)},
			{"Unmatched records", strconv.Itoa(len(result.UnmatchedRecords))},
			{"Key collisions", strconv.Itoa(s.KeyCollisions)},
		},
	}
}

// SyncToTableData renders a reference sync result as a metric table.
func SyncToTableData(result *reconcile.SyncResult) Data {
	return Data{
		Headers: []string{"Metric", "Count"},
		Rows: [][]string{
			{"Answers applied", strconv.Itoa(result.Updated)},
			{"Confirmed", strconv.Itoa(result.Confirmed)},
			{"Overwritten", strconv.Itoa(result.Overwritten)},
			{"Skipped (verified)", strconv.Itoa(result.SkippedVerified)},
			{"Conflicts", strconv.Itoa(len(result.ConflictIDs))},
		},
	}
}

// RunsToTableData renders integration runs, one row per batch.
func RunsToTableData(runs []*integrate.Run) Data {
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		rows = append(rows, []string{
			run.Batch,
			strconv.Itoa(run.Updated),
			strconv.Itoa(run.Unchanged),
			strconv.Itoa(run.ConflictCount()),
			strconv.Itoa(run.SkippedEntries),
			strconv.Itoa(run.MissingRecords),
			runStatus(run),
		})
	}
	return Data{
		Headers: []string{"Batch", "Updated", "Unchanged", "Conflicts", "Skipped", "Missing", "Status"},
		Rows:    rows,
	}
}

// ReviewToTableData renders a merged review summary, one row per batch
// plus a totals row.
func ReviewToTableData(summary *review.Summary) Data {
	rows := make([][]string, 0, len(summary.PerBatch)+1)
	for _, b := range summary.PerBatch {
		rows = append(rows, []string{
			b.Batch,
			strconv.Itoa(b.Verified),
			strconv.Itoa(b.Questionable),
			strconv.Itoa(b.Errors),
			strconv.Itoa(b.Total),
		})
	}
	t := summary.Totals
	rows = append(rows, []string{
		"TOTAL",
		strconv.Itoa(t.Verified),
		strconv.Itoa(t.Questionable),
		strconv.Itoa(t.Errors),
		strconv.Itoa(t.Reviewed),
	})
	return Data{
		Headers: []string{"Batch", "Verified", "Questionable", "Errors", "Total"},
		Rows:    rows,
	}
}

func runStatus(run *integrate.Run) string {
	switch {
	case run.Skipped:
		return "skipped: " + run.SkipReason
	case run.DryRun:
		return "dry run"
	case run.Mutated():
		return "applied"
	default:
		return "no changes"
	}
}

func share(part, total int) string {
	if total == 0 {
		return ""
	}
	return fmt.Sprintf("%.1f%%", float64(part)/float64(total)*100)
}

// Plural returns the count with the singular or plural noun.
func Plural(n int, singular, plural string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, singular)
	}
	return fmt.Sprintf("%d %s", n, plural)
}

// Truncate shortens s to max runes with an ellipsis.
func Truncate(s string, max int) string {
	if max <= 3 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return strings.TrimSpace(string(runes[:max-3])) + "..."
}
