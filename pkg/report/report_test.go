package report_test

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/examtrail/qbank/pkg/integrate"
	"github.com/examtrail/qbank/pkg/questions"
	"github.com/examtrail/qbank/pkg/reconcile"
	"github.com/examtrail/qbank/pkg/report"
)

var snapshotAt = time.Date(2026, 2, 14, 9, 30, 0, 0, time.UTC)

func testBank(t *testing.T) *questions.Bank {
	t.Helper()
	bank := questions.NewBank(questions.WithBankMeta(questions.Meta{Exam: "Carbon Trading"}))
	records := []*questions.Record{
		{ID: 1, Subject: "Registry", Stem: "Which registry records national allowance transfers?", Answer: "B", Origin: questions.OriginHarvested},
		{ID: 2, Subject: "Standards", Stem: "What is ISO 14064-1?", Origin: questions.OriginHarvested},
		{ID: 3, Subject: "Standards", Stem: "Which gas has the highest GWP?", Answer: "A", Origin: questions.OriginHarvested},
		{ID: 4, Subject: "Registry", Stem: "How many phases has the national ETS completed?", Answer: "C", Origin: questions.OriginCurated},
		{ID: 5, Subject: "Registry", Stem: "What does CDM stand for?", Origin: questions.OriginCurated},
	}
	for _, r := range records {
		require.NoError(t, bank.Add(r))
	}
	rec, ok := bank.Get(1)
	require.True(t, ok)
	require.NoError(t, rec.MarkVerified(questions.SourceBatch, questions.ConfidenceHigh, 2, "batch_1", snapshotAt))
	return bank
}

func testMatch() *reconcile.Result {
	return &reconcile.Result{
		Pairs: []reconcile.Pair{
			{RefID: "ref_001", RecordID: 1, Status: reconcile.StatusAnswerMatch},
			{RefID: "ref_002", RecordID: 2, Status: reconcile.StatusNeedsAnswer},
		},
		UnmatchedRefs:    []string{"ref_404"},
		UnmatchedRecords: []int{5, 3, 4},
		Stats: reconcile.Stats{
			References:          3,
			Records:             5,
			Matched:             2,
			AnswerMatches:       1,
			NeedsAnswer:         1,
			UnmatchedReferences: 1,
		},
	}
}

func TestSnapshot(t *testing.T) {
	bank := testBank(t)
	rep := report.Snapshot(bank, testMatch(), snapshotAt)

	assert.Equal(t, "Carbon Trading", rep.Exam)
	assert.Equal(t, snapshotAt, rep.GeneratedAt.Time)

	assert.Equal(t, 5, rep.Totals.Records)
	assert.Equal(t, 3, rep.Totals.WithAnswer)
	assert.Equal(t, 1, rep.Totals.Verified)
	assert.Equal(t, 2, rep.Totals.Stale)
	assert.Equal(t, 2, rep.Totals.NoAnswer)

	require.Len(t, rep.Subjects, 2)
	assert.Equal(t, report.SubjectCount{Subject: "Registry", Records: 3, WithAnswer: 2, Verified: 1}, rep.Subjects[0])
	assert.Equal(t, report.SubjectCount{Subject: "Standards", Records: 2, WithAnswer: 1}, rep.Subjects[1])

	require.NotNil(t, rep.Match)
	assert.Equal(t, 2, rep.Match.Matched)
	assert.Equal(t, 3, rep.Match.UnmatchedRecords)
	assert.InDelta(t, 2.0/3.0, rep.Match.MatchRate, 0.001)

	// record 5 has no answer, records 3 and 4 do
	assert.Equal(t, []int{5}, rep.NeedsResearch)
	assert.Equal(t, []int{3, 4}, rep.NeedsVerification)

	assert.InDelta(t, 0.6, rep.AnswerRate(), 0.001)
	assert.InDelta(t, 0.2, rep.VerifiedRate(), 0.001)
	assert.Contains(t, rep.Summary(), "5 records")
	assert.Contains(t, rep.Summary(), "2 stale")
}

func TestSnapshotWithoutMatch(t *testing.T) {
	rep := report.Snapshot(testBank(t), nil, snapshotAt)

	assert.Nil(t, rep.Match)
	assert.Empty(t, rep.NeedsResearch)
	assert.Empty(t, rep.NeedsVerification)
	assert.Equal(t, 5, rep.Totals.Records)
}

func TestSnapshotNilBank(t *testing.T) {
	rep := report.Snapshot(nil, nil, snapshotAt)

	assert.Equal(t, 0, rep.Totals.Records)
	assert.Zero(t, rep.AnswerRate())
	assert.Zero(t, rep.VerifiedRate())
}

func TestSnapshotInvalidBucket(t *testing.T) {
	bank := testBank(t)
	bank.RecordInvalid(questions.Invalid{Group: "harvested", Position: 12, Reason: "missing stem"})

	rep := report.Snapshot(bank, nil, snapshotAt)
	require.Len(t, rep.Invalid, 1)
	assert.Equal(t, "missing stem", rep.Invalid[0].Reason)
}

func TestSnapshotConcurrent(t *testing.T) {
	bank := testBank(t)
	match := testMatch()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				rep := report.Snapshot(bank, match, snapshotAt)
				if rep.Totals.Records != 5 {
					t.Errorf("got %d records, want 5", rep.Totals.Records)
					return
				}
				if _, ok := bank.Get(1); !ok {
					t.Error("record 1 vanished")
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestWriteMarkdown(t *testing.T) {
	bank := testBank(t)
	rep := report.Snapshot(bank, testMatch(), snapshotAt)

	runs := []*integrate.Run{
		{Batch: "batch_1", Updated: 2, Unchanged: 1, Conflicts: []integrate.Conflict{{RecordID: 3, Old: "A", New: "B", Overwritten: true}}, BackupPath: "data/bank.backup.20260214_093000.json"},
		{Batch: "batch_2", Skipped: true, SkipReason: "artifact missing"},
	}

	var buf strings.Builder
	require.NoError(t, report.WriteMarkdown(&buf, rep, runs...))
	out := buf.String()

	assert.Contains(t, out, "# Carbon Trading Question Bank Report")
	assert.Contains(t, out, "**Generated: 2026-02-14 09:30 UTC**")
	assert.Contains(t, out, "## Summary")
	assert.Contains(t, out, "60.0%")
	assert.Contains(t, out, "## Reconciliation")
	assert.Contains(t, out, "Key collisions")
	assert.Contains(t, out, "## Subjects")
	assert.Contains(t, out, "Registry")
	assert.Contains(t, out, "## Integration runs")
	assert.Contains(t, out, "### batch_1")
	assert.Contains(t, out, "`data/bank.backup.20260214_093000.json`")
	assert.Contains(t, out, "### batch_2")
	assert.Contains(t, out, "Skipped: artifact missing")
	assert.Contains(t, out, "## Work queues")
	assert.Contains(t, out, "Research needed for 1 record (unmatched, no answer): 5")
	assert.Contains(t, out, "Verification needed for 2 records (unmatched, answer present): 3, 4")
}

func TestWriteMarkdownElidesLongQueues(t *testing.T) {
	bank := questions.NewBank()
	ids := make([]int, 0, 15)
	for i := 1; i <= 15; i++ {
		require.NoError(t, bank.Add(&questions.Record{ID: i, Stem: "Question " + strings.Repeat("x", i), Origin: questions.OriginHarvested}))
		ids = append(ids, i)
	}
	match := &reconcile.Result{UnmatchedRecords: ids, Stats: reconcile.Stats{Records: 15}}

	var buf strings.Builder
	require.NoError(t, report.WriteMarkdown(&buf, report.Snapshot(bank, match, snapshotAt)))

	assert.Contains(t, buf.String(), "and 5 more")
	assert.NotContains(t, buf.String(), "## Integration runs")
}

func TestMarkdownWithoutMatchOmitsQueues(t *testing.T) {
	rep := report.Snapshot(testBank(t), nil, snapshotAt)

	var buf strings.Builder
	require.NoError(t, rep.Markdown(&buf))

	assert.NotContains(t, buf.String(), "## Work queues")
	assert.NotContains(t, buf.String(), "## Reconciliation")
	assert.Contains(t, buf.String(), "## Summary")
}
