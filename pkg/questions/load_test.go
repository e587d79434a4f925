package questions_test

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/examtrail/qbank/pkg/errors"
	"github.com/examtrail/qbank/pkg/questions"
)

const bankJSON = `{
  "meta": {
    "title": "Carbon Trading Exam Bank",
    "version": "2.1",
    "total": 3,
    "with_answer": 2
  },
  "harvested": [
    {
      "index": 1,
      "exam_subject": "Trading Mechanisms",
      "stem": "Which registry records national allowance transfers?",
      "options": {"A": "CDM registry", "B": "National registry", "C": "Broker ledger", "D": "Exchange book"},
      "answer": "B",
      "metadata": {
        "answer_verified": true,
        "verification_date": "2026-01-05",
        "verification_source": "batch_answer",
        "verification_batch": "BATCH_A",
        "confidence": "high",
        "sources_count": 3
      }
    },
    {
      "number": 2,
      "original_section": "Policy Basics",
      "question": "What share of allowances is auctioned in phase one?",
      "options": {"A": "None", "B": "Half", "C": "All"},
      "answer": null
    }
  ],
  "curated": [
    {
      "index": 900,
      "exam_subject": "Accounting",
      "stem": "Which standard governs organizational GHG inventories?",
      "options": {"A": "ISO 14001", "B": "ISO 14064-1", "C": "ISO 9001", "D": "GHG Protocol"},
      "answer": "B"
    }
  ]
}`

func TestLoadBank(t *testing.T) {
	fsys := fstest.MapFS{
		"data/bank.json": &fstest.MapFile{Data: []byte(bankJSON)},
	}

	bank, err := questions.LoadBank(fsys, "data/bank.json")
	require.NoError(t, err)
	require.Equal(t, 3, bank.Len())

	t.Run("meta carried through", func(t *testing.T) {
		meta := bank.Meta()
		assert.Equal(t, "Carbon Trading Exam Bank", meta.Title)
		assert.Equal(t, 2, meta.WithAnswer)
		assert.Equal(t, 3, meta.Total)
	})

	t.Run("canonical fields", func(t *testing.T) {
		r, ok := bank.Get(1)
		require.True(t, ok)
		assert.Equal(t, "Trading Mechanisms", r.Subject)
		assert.Equal(t, questions.OriginHarvested, r.Origin)
		assert.Equal(t, "B", r.Answer)
		assert.True(t, r.Verification.Verified)
		assert.Equal(t, "2026-01-05", r.Verification.Date)
		assert.Equal(t, questions.SourceBatch, r.Verification.Source)
	})

	t.Run("legacy field names resolved", func(t *testing.T) {
		r, ok := bank.Get(2)
		require.True(t, ok)
		assert.Equal(t, "Policy Basics", r.Subject)
		assert.Equal(t, "What share of allowances is auctioned in phase one?", r.Stem)
		assert.False(t, r.HasAnswer(), "explicit null means unanswered")
	})

	t.Run("curated grouping", func(t *testing.T) {
		r, ok := bank.Get(900)
		require.True(t, ok)
		assert.Equal(t, questions.OriginCurated, r.Origin)
		require.Len(t, bank.Group(questions.OriginCurated), 1)
	})
}

func TestLoadBankMissing(t *testing.T) {
	fsys := fstest.MapFS{}

	bank, err := questions.LoadBank(fsys, "data/bank.json")
	require.Error(t, err)
	assert.Nil(t, bank)
	assert.True(t, errors.IsMissingArtifact(err))

	var missing *errors.MissingArtifactError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "bank", missing.Kind)
	assert.Equal(t, "data/bank.json", missing.Path)
}

func TestLoadBankMalformed(t *testing.T) {
	t.Run("invalid json is fatal", func(t *testing.T) {
		fsys := fstest.MapFS{
			"bank.json": &fstest.MapFile{Data: []byte(`{"harvested": [`)},
		}
		_, err := questions.LoadBank(fsys, "bank.json")
		require.Error(t, err)
		var parseErr *errors.ParseError
		assert.ErrorAs(t, err, &parseErr)
	})

	t.Run("bad records are skipped, not fatal", func(t *testing.T) {
		fsys := fstest.MapFS{
			"bank.json": &fstest.MapFile{Data: []byte(`{
  "harvested": [
    {"index": 1, "stem": "kept", "answer": null},
    {"stem": "no index", "answer": null},
    {"index": 1, "stem": "duplicate", "answer": null}
  ]
}`)},
		}
		bank, err := questions.LoadBank(fsys, "bank.json")
		require.NoError(t, err)
		assert.Equal(t, 1, bank.Len())

		invalid := bank.Invalid()
		require.Len(t, invalid, 2)
		assert.Equal(t, 1, invalid[0].Position)
		assert.Contains(t, invalid[0].Reason, "index")
		assert.Equal(t, 2, invalid[1].Position)
		assert.Contains(t, invalid[1].Reason, "duplicate")
	})
}

func TestLoadReference(t *testing.T) {
	t.Run("envelope shape", func(t *testing.T) {
		fsys := fstest.MapFS{
			"reference.json": &fstest.MapFile{Data: []byte(`{
  "meta": {"title": "Verified reference"},
  "questions": [
    {"id": "ref_001", "subject": "Accounting", "question": "What is ISO 14064-1?", "answer": "B"},
    {"id": "ref_002", "question": "Which gas has the highest GWP?", "answer": "D", "explanation": "SF6"}
  ]
}`)},
		}
		set, err := questions.LoadReference(fsys, "reference.json")
		require.NoError(t, err)
		assert.Equal(t, 2, set.Len())

		r, ok := set.Get("ref_002")
		require.True(t, ok)
		assert.Equal(t, "SF6", r.Explanation)
	})

	t.Run("bare array shape", func(t *testing.T) {
		fsys := fstest.MapFS{
			"reference.json": &fstest.MapFile{Data: []byte(`[
  {"id": "ref_001", "question": "What is ISO 14064-1?", "answer": "B"}
]`)},
		}
		set, err := questions.LoadReference(fsys, "reference.json")
		require.NoError(t, err)
		assert.Equal(t, 1, set.Len())
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := questions.LoadReference(fstest.MapFS{}, "reference.json")
		require.Error(t, err)
		assert.True(t, errors.IsMissingArtifact(err))
	})

	t.Run("invalid entries skipped", func(t *testing.T) {
		fsys := fstest.MapFS{
			"reference.json": &fstest.MapFile{Data: []byte(`{
  "questions": [
    {"id": "ref_001", "question": "kept", "answer": "A"},
    {"id": "", "question": "no id", "answer": "A"}
  ]
}`)},
		}
		set, err := questions.LoadReference(fsys, "reference.json")
		require.NoError(t, err)
		assert.Equal(t, 1, set.Len())
		require.Len(t, set.Invalid(), 1)
	})
}
