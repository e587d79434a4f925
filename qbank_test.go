package qbank

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/examtrail/qbank/pkg/errors"
	"github.com/examtrail/qbank/pkg/questions"
)

var engineNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// Four records: one unanswered, two answered but unverified, one curated
// and already verified.
const bankFixture = `{
  "meta": {"title": "Carbon Trading Exam Bank", "exam": "Carbon Trading", "total": 4, "with_answer": 3},
  "harvested": [
    {
      "index": 1,
      "exam_subject": "Registry",
      "stem": "What does a carbon registry track?",
      "options": {"A": "Credit ownership", "B": "Spot prices", "C": "Auction dates", "D": "Broker fees"},
      "answer": null
    },
    {
      "index": 2,
      "exam_subject": "Standards",
      "stem": "Which standard governs verification audits?",
      "options": {"A": "ISO 9001", "B": "ISO 14064-3", "C": "ISO 27001", "D": "ISO 50001"},
      "answer": "B"
    },
    {
      "index": 3,
      "exam_subject": "Standards",
      "stem": "How are offset credits retired?",
      "options": {"A": "Registry cancellation", "B": "Open-market resale", "C": "Expiry", "D": "Conversion"},
      "answer": "C"
    }
  ],
  "curated": [
    {
      "index": 4,
      "exam_subject": "Trading",
      "stem": "Who may operate a trading account?",
      "options": {"A": "Any resident", "B": "Licensed participants", "C": "Auditors", "D": "Registrars"},
      "answer": "B",
      "metadata": {"answer_verified": true, "verification_date": "2026-01-10", "verification_source": "manual_research", "confidence": "high", "sources_count": 2}
    }
  ]
}`

// The reference questions differ from the bank stems only by case and
// spacing, which is exactly what matching tolerates. ref_001 answers the
// unanswered record, ref_002 agrees with record 2, ref_003 conflicts with
// record 3, and ref_404 matches nothing.
const referenceFixture = `{
  "meta": {"source": "verified reference export"},
  "questions": [
    {"id": "ref_001", "subject": "Registry", "question": "What does a Carbon  Registry track?", "answer": "A", "explanation": "Registries track credit ownership."},
    {"id": "ref_002", "subject": "Standards", "question": "Which standard governs verification audits?", "answer": "B"},
    {"id": "ref_003", "subject": "Standards", "question": "How are offset credits  retired?", "answer": "A"},
    {"id": "ref_404", "subject": "Trading", "question": "Which registry opened first?", "answer": "D"}
  ]
}`

const batchFixture = `{
  "batch_name": "batch_research_1",
  "answers": [
    {"index": 1, "answer": "A", "confidence": "high", "sources": ["registry-handbook", "exam-guide"]},
    {"index": 2, "answer": "B", "confidence": "medium"},
    {"index": 99, "answer": "C"}
  ]
}`

const reviewRound1 = `{
  "batch_name": "review_round_1",
  "verified": [{"id": "12", "answer": "B", "sources": ["handbook"], "notes": "clean match"}],
  "questionable": [{"id": "57", "answer": "C", "recommendation": "re-check against the registry manual"}],
  "errors": []
}`

const reviewRound2 = `{
  "batch_name": "review_round_2",
  "verified": [{"id": "57", "answer": "C", "sources": ["registry-manual", "exam-guide"]}],
  "questionable": [],
  "errors": []
}`

// writeWorkspace lays out a bank and reference document in a temp dir.
func writeWorkspace(t *testing.T) (dir, bankPath, refPath string) {
	t.Helper()
	dir = t.TempDir()
	bankPath = filepath.Join(dir, "bank.json")
	refPath = filepath.Join(dir, "reference.json")
	require.NoError(t, os.WriteFile(bankPath, []byte(bankFixture), 0o644))
	require.NoError(t, os.WriteFile(refPath, []byte(referenceFixture), 0o644))
	return dir, bankPath, refPath
}

// newTestEngine creates an engine over a fresh workspace with a frozen
// clock and backups redirected into the workspace.
func newTestEngine(t *testing.T, extra ...Option) (Qbank, string, string) {
	t.Helper()
	dir, bankPath, refPath := writeWorkspace(t)
	opts := []Option{
		WithBankPath(bankPath),
		WithReferencePath(refPath),
		WithBackupDir(filepath.Join(dir, "backups")),
		WithClock(clockwork.NewFakeClockAt(engineNow)),
	}
	opts = append(opts, extra...)
	qb, err := New(opts...)
	require.NoError(t, err)
	return qb, dir, bankPath
}

func backupsIn(t *testing.T, dir string) []string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, "backups", "bank.backup.*"))
	require.NoError(t, err)
	return matches
}

func TestNewValidation(t *testing.T) {
	t.Run("EmptyBankPath", func(t *testing.T) {
		_, err := New(WithBankPath(""))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bank path")
	})

	t.Run("NilClock", func(t *testing.T) {
		_, err := New(WithClock(nil))
		require.Error(t, err)
	})

	t.Run("NilFS", func(t *testing.T) {
		_, err := New(WithFS(nil))
		require.Error(t, err)
	})

	t.Run("MissingBankIsFatal", func(t *testing.T) {
		dir := t.TempDir()
		_, err := New(WithBankPath(filepath.Join(dir, "absent.json")))
		require.Error(t, err)
		assert.True(t, errors.IsMissingArtifact(err))
	})

	t.Run("MissingReferenceOnlyDisablesMatching", func(t *testing.T) {
		dir := t.TempDir()
		bankPath := filepath.Join(dir, "bank.json")
		require.NoError(t, os.WriteFile(bankPath, []byte(bankFixture), 0o644))

		qb, err := New(
			WithBankPath(bankPath),
			WithReferencePath(filepath.Join(dir, "absent_reference.json")),
		)
		require.NoError(t, err)

		_, err = qb.Reconcile(context.Background())
		require.Error(t, err)
		assert.True(t, errors.IsMissingArtifact(err))

		_, err = qb.Reference()
		require.Error(t, err)

		rep, err := qb.Report(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 4, rep.Totals.Records)
		assert.Nil(t, rep.Match)
	})
}

func TestEngineCollections(t *testing.T) {
	qb, _, _ := newTestEngine(t)

	bank, err := qb.Bank()
	require.NoError(t, err)
	assert.Equal(t, 4, bank.Len())
	assert.Equal(t, "Carbon Trading", bank.Meta().Exam)

	refs, err := qb.Reference()
	require.NoError(t, err)
	assert.Equal(t, 4, refs.Len())
}

func TestEngineReconcile(t *testing.T) {
	qb, _, _ := newTestEngine(t)
	ctx := context.Background()

	result, err := qb.Reconcile(ctx)
	require.NoError(t, err)

	assert.Equal(t, 4, result.Stats.References)
	assert.Equal(t, 3, result.Stats.Matched)
	assert.Equal(t, 1, result.Stats.AnswerMatches)
	assert.Equal(t, 1, result.Stats.AnswerConflicts)
	assert.Equal(t, 1, result.Stats.NeedsAnswer)
	assert.Equal(t, 1, result.Stats.UnmatchedReferences)
	assert.Equal(t, []string{"ref_404"}, result.UnmatchedRefs)
	assert.Equal(t, []int{4}, result.UnmatchedRecords)
	assert.InDelta(t, 0.75, result.MatchRate(), 1e-9)

	// Matching is read-only.
	bank, err := qb.Bank()
	require.NoError(t, err)
	rec, ok := bank.Get(1)
	require.True(t, ok)
	assert.False(t, rec.HasAnswer())

	// The cached result feeds the next report.
	rep, err := qb.Report(ctx)
	require.NoError(t, err)
	require.NotNil(t, rep.Match)
	assert.Equal(t, 3, rep.Match.Matched)
	assert.Equal(t, 1, rep.Match.UnmatchedRecords)
	assert.Empty(t, rep.NeedsResearch)
	assert.Equal(t, []int{4}, rep.NeedsVerification)
}

func TestEngineSyncReferenceAndSave(t *testing.T) {
	qb, dir, bankPath := newTestEngine(t)
	ctx := context.Background()

	result, err := qb.SyncReference(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, 1, result.Confirmed)
	assert.Equal(t, 1, result.Overwritten)
	assert.Equal(t, 0, result.SkippedVerified)
	assert.Equal(t, []int{3}, result.ConflictIDs)
	require.NotNil(t, result.Match)

	bank, err := qb.Bank()
	require.NoError(t, err)

	rec1, ok := bank.Get(1)
	require.True(t, ok)
	assert.Equal(t, "A", rec1.Answer)
	assert.True(t, rec1.Verification.Verified)
	assert.Equal(t, questions.SourceReferenceSync, rec1.Verification.Source)
	assert.Equal(t, "ref_001", rec1.Verification.RefID)
	assert.Equal(t, "2026-03-01", rec1.Verification.Date)
	assert.Equal(t, "Registries track credit ownership.", rec1.Explanation)

	rec3, ok := bank.Get(3)
	require.True(t, ok)
	assert.Equal(t, "A", rec3.Answer)
	assert.True(t, rec3.Verification.Verified)

	// Nothing is on disk until Save.
	onDisk, err := questions.LoadBankFile(bankPath)
	require.NoError(t, err)
	diskRec, _ := onDisk.Get(1)
	assert.False(t, diskRec.HasAnswer())
	assert.Empty(t, backupsIn(t, dir))

	require.NoError(t, qb.Save(ctx))

	backups := backupsIn(t, dir)
	require.Len(t, backups, 1)
	assert.Contains(t, backups[0], "bank.backup.20260301_120000")

	onDisk, err = questions.LoadBankFile(bankPath)
	require.NoError(t, err)
	diskRec, _ = onDisk.Get(1)
	assert.Equal(t, "A", diskRec.Answer)
	assert.Equal(t, 4, onDisk.Meta().WithAnswer)

	// A clean save takes no second backup.
	require.NoError(t, qb.Save(ctx))
	assert.Len(t, backupsIn(t, dir), 1)
}

func TestEngineIntegrate(t *testing.T) {
	qb, dir, bankPath := newTestEngine(t)
	ctx := context.Background()

	batchPath := filepath.Join(dir, "batch_research_1.json")
	require.NoError(t, os.WriteFile(batchPath, []byte(batchFixture), 0o644))
	missingPath := filepath.Join(dir, "batch_research_2.json")

	runs, err := qb.Integrate(ctx, batchPath, missingPath)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	applied := runs[0]
	assert.Equal(t, "batch_research_1", applied.Batch)
	assert.Equal(t, batchPath, applied.Path)
	assert.Equal(t, 1, applied.Updated)
	assert.Equal(t, 1, applied.Unchanged)
	assert.Equal(t, 1, applied.MissingRecords)
	assert.Empty(t, applied.Conflicts)
	assert.NotEmpty(t, applied.BackupPath)
	assert.FileExists(t, applied.BackupPath)

	skipped := runs[1]
	assert.True(t, skipped.Skipped)
	assert.Equal(t, "artifact missing", skipped.SkipReason)
	assert.Equal(t, "batch_research_2", skipped.Batch)

	// Integration saves the bank itself.
	onDisk, err := questions.LoadBankFile(bankPath)
	require.NoError(t, err)
	rec, ok := onDisk.Get(1)
	require.True(t, ok)
	assert.Equal(t, "A", rec.Answer)
	assert.Equal(t, questions.SourceBatch, rec.Verification.Source)
	assert.Equal(t, "batch_research_1", rec.Verification.Batch)
	assert.Equal(t, 4, onDisk.Meta().WithAnswer)
}

func TestEngineDryRun(t *testing.T) {
	qb, dir, bankPath := newTestEngine(t, WithDryRun(true))
	ctx := context.Background()

	before, err := os.ReadFile(bankPath)
	require.NoError(t, err)

	batchPath := filepath.Join(dir, "batch_research_1.json")
	require.NoError(t, os.WriteFile(batchPath, []byte(batchFixture), 0o644))

	runs, err := qb.Integrate(ctx, batchPath)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.True(t, runs[0].DryRun)
	assert.Equal(t, 1, runs[0].Updated)
	assert.Empty(t, runs[0].BackupPath)

	_, err = qb.SyncReference(ctx)
	require.NoError(t, err)
	require.NoError(t, qb.Save(ctx))

	after, err := os.ReadFile(bankPath)
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Empty(t, backupsIn(t, dir))
}

func TestEngineWithFS(t *testing.T) {
	fsys := fstest.MapFS{
		"data/bank.json":      &fstest.MapFile{Data: []byte(bankFixture)},
		"data/reference.json": &fstest.MapFile{Data: []byte(referenceFixture)},
	}

	qb, err := New(
		WithFS(fsys),
		WithBankPath("data/bank.json"),
		WithReferencePath("data/reference.json"),
		WithClock(clockwork.NewFakeClockAt(engineNow)),
	)
	require.NoError(t, err)

	bank, err := qb.Bank()
	require.NoError(t, err)
	assert.Equal(t, 4, bank.Len())

	result, err := qb.Reconcile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, result.Stats.Matched)

	rep, err := qb.Report(context.Background())
	require.NoError(t, err)
	assert.Equal(t, engineNow, rep.GeneratedAt.Time)
	assert.Equal(t, 3, rep.Totals.WithAnswer)
}

func TestEngineMergeReviews(t *testing.T) {
	qb, dir, _ := newTestEngine(t)
	ctx := context.Background()

	round1 := filepath.Join(dir, "review_round_1.json")
	round2 := filepath.Join(dir, "review_round_2.json")
	require.NoError(t, os.WriteFile(round1, []byte(reviewRound1), 0o644))
	require.NoError(t, os.WriteFile(round2, []byte(reviewRound2), 0o644))
	missing := filepath.Join(dir, "review_round_3.json")

	summary, err := qb.MergeReviews(ctx, round1, round2, missing)
	require.NoError(t, err)

	require.Len(t, summary.PerBatch, 2)
	assert.Equal(t, "review_round_1", summary.PerBatch[0].Batch)
	assert.Equal(t, 1, summary.PerBatch[0].Verified)
	assert.Equal(t, 1, summary.PerBatch[0].Questionable)

	assert.Equal(t, 2, summary.Totals.Reviewed)
	assert.Equal(t, 2, summary.Totals.Verified)
	assert.Equal(t, 0, summary.Totals.Questionable)
	assert.Equal(t, 1, summary.Totals.Disagreements)
	assert.False(t, summary.HasIssues())
	assert.Equal(t, engineNow, summary.GeneratedAt.Time)

	// Record 57 was questionable in round 1 and verified in round 2; the
	// stronger status wins and the disagreement is kept visible.
	require.Len(t, summary.Matrix, 2)
	row := summary.Matrix[1]
	assert.Equal(t, "57", row.RecordID)
	assert.True(t, row.Disagreement)
	assert.Equal(t, []string{"review_round_1", "review_round_2"}, row.Batches)
	assert.Equal(t, 2, row.SourcesCount)
}

func TestEngineBuildResearch(t *testing.T) {
	qb, _, _ := newTestEngine(t)
	ctx := context.Background()

	requests, err := qb.BuildResearch(ctx, 10)
	require.NoError(t, err)
	require.Len(t, requests, 1)

	req := requests[0]
	assert.NotEmpty(t, req.RequestID)
	assert.Equal(t, 1, req.Part)
	assert.Equal(t, 1, req.Parts)
	assert.Equal(t, engineNow, req.Created.Time)
	require.Len(t, req.Questions, 1)
	assert.Equal(t, 1, req.Questions[0].Index)
	assert.Nil(t, req.Questions[0].Answer)
	assert.Equal(t, "harvested", req.Questions[0].Source)

	// After the reference sync every record has an answer.
	_, err = qb.SyncReference(ctx)
	require.NoError(t, err)

	requests, err = qb.BuildResearch(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, requests)
}

// TestEngineLifecycle walks the full working cycle: match, sync, integrate,
// report, save.
func TestEngineLifecycle(t *testing.T) {
	qb, dir, bankPath := newTestEngine(t)
	ctx := context.Background()

	_, err := qb.Reconcile(ctx)
	require.NoError(t, err)

	syncResult, err := qb.SyncReference(ctx)
	require.NoError(t, err)
	assert.True(t, syncResult.Changed())

	batchPath := filepath.Join(dir, "batch_research_1.json")
	require.NoError(t, os.WriteFile(batchPath, []byte(batchFixture), 0o644))

	runs, err := qb.Integrate(ctx, batchPath)
	require.NoError(t, err)
	require.Len(t, runs, 1)

	// The sync already answered record 1 with the same label, so the batch
	// run plans nothing and writes nothing.
	assert.Equal(t, 0, runs[0].Updated)
	assert.Equal(t, 2, runs[0].Unchanged)
	assert.Empty(t, runs[0].BackupPath)

	rep, err := qb.Report(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, rep.Totals.Records)
	assert.Equal(t, 4, rep.Totals.WithAnswer)
	assert.Equal(t, 4, rep.Totals.Verified)
	assert.Equal(t, 0, rep.Totals.Stale)
	assert.Equal(t, 0, rep.Totals.NoAnswer)

	require.NoError(t, qb.Save(ctx))

	onDisk, err := questions.LoadBankFile(bankPath)
	require.NoError(t, err)
	rec3, ok := onDisk.Get(3)
	require.True(t, ok)
	assert.Equal(t, "A", rec3.Answer)
	assert.Len(t, backupsIn(t, dir), 1)
}
