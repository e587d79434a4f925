package errors_test

import (
	"errors"
	"io/fs"
	"testing"

	pkgerrors "github.com/examtrail/qbank/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := pkgerrors.New("test error")
	assert.NotNil(t, err)
	assert.Equal(t, "test error", err.Error())
}

func TestNotFoundError(t *testing.T) {
	t.Run("basic error", func(t *testing.T) {
		err := &pkgerrors.NotFoundError{
			Resource: "record",
			ID:       "207",
		}
		assert.Equal(t, "record with ID 207 not found", err.Error())
		assert.True(t, errors.Is(err, pkgerrors.ErrNotFound))
	})

	t.Run("constructor", func(t *testing.T) {
		err := pkgerrors.NewNotFoundError("reference", "r42")
		assert.Equal(t, "reference with ID r42 not found", err.Error())
		assert.True(t, pkgerrors.IsNotFound(err))
	})

	t.Run("wrapped error", func(t *testing.T) {
		base := pkgerrors.NewNotFoundError("record", "9")
		wrapped := errors.Join(errors.New("lookup failed"), base)
		assert.True(t, pkgerrors.IsNotFound(wrapped))
	})
}

func TestValidationError(t *testing.T) {
	t.Run("with field", func(t *testing.T) {
		err := &pkgerrors.ValidationError{
			Field:   "answer",
			Message: "cannot be empty",
		}
		assert.Equal(t, "validation failed for field answer: cannot be empty", err.Error())
		assert.True(t, errors.Is(err, pkgerrors.ErrInvalidInput))
	})

	t.Run("without field", func(t *testing.T) {
		err := &pkgerrors.ValidationError{
			Message: "invalid configuration",
		}
		assert.Equal(t, "validation failed: invalid configuration", err.Error())
		assert.True(t, pkgerrors.IsValidationError(err))
	})

	t.Run("constructor", func(t *testing.T) {
		err := pkgerrors.NewValidationError("confidence", "enormous", "unknown level")
		assert.Contains(t, err.Error(), "confidence")
		assert.Contains(t, err.Error(), "unknown level")
	})
}

func TestMissingArtifactError(t *testing.T) {
	t.Run("basic error", func(t *testing.T) {
		err := &pkgerrors.MissingArtifactError{
			Kind: "batch",
			Path: "batches/batch_c.json",
		}
		assert.Equal(t, "batch artifact missing: batches/batch_c.json", err.Error())
		assert.True(t, errors.Is(err, pkgerrors.ErrMissingArtifact))
		assert.True(t, errors.Is(err, pkgerrors.ErrNotFound))
	})

	t.Run("constructor wraps cause", func(t *testing.T) {
		err := pkgerrors.NewMissingArtifactError("review", "results/batch_a.json", fs.ErrNotExist)
		assert.True(t, pkgerrors.IsMissingArtifact(err))
		assert.True(t, errors.Is(err, fs.ErrNotExist))
	})

	t.Run("without kind", func(t *testing.T) {
		err := &pkgerrors.MissingArtifactError{Path: "somewhere.json"}
		assert.Equal(t, "artifact missing: somewhere.json", err.Error())
	})
}

func TestMalformedRecordError(t *testing.T) {
	t.Run("with field", func(t *testing.T) {
		err := &pkgerrors.MalformedRecordError{
			Group:   "harvested",
			Index:   3,
			Field:   "stem",
			Message: "is required",
		}
		assert.Contains(t, err.Error(), "harvested")
		assert.Contains(t, err.Error(), "stem")
		assert.True(t, errors.Is(err, pkgerrors.ErrMalformedRecord))
		assert.True(t, errors.Is(err, pkgerrors.ErrInvalidInput))
	})

	t.Run("constructor", func(t *testing.T) {
		err := pkgerrors.NewMalformedRecordError("curated", 12, "index", "missing")
		assert.True(t, pkgerrors.IsMalformedRecord(err))
	})
}

func TestPreconditionError(t *testing.T) {
	t.Run("basic error", func(t *testing.T) {
		err := &pkgerrors.PreconditionError{
			Operation: "mark verified",
			RecordID:  207,
			Message:   "record has no answer",
		}
		assert.Equal(t, "mark verified rejected for record 207: record has no answer", err.Error())
		assert.True(t, errors.Is(err, pkgerrors.ErrPreconditionFailed))
	})

	t.Run("constructor", func(t *testing.T) {
		err := pkgerrors.NewPreconditionError("mark verified", 9, "record has no answer")
		assert.True(t, pkgerrors.IsPreconditionFailed(err))
	})
}

func TestConfigError(t *testing.T) {
	t.Run("basic error", func(t *testing.T) {
		err := &pkgerrors.ConfigError{
			Component: "integrator",
			Message:   "backup_dir: not a directory",
		}
		assert.Contains(t, err.Error(), "integrator")
		assert.Contains(t, err.Error(), "backup_dir")
	})

	t.Run("constructor", func(t *testing.T) {
		err := pkgerrors.NewConfigError("matcher", "logger cannot be nil", nil)
		assert.Contains(t, err.Error(), "matcher")
		assert.Contains(t, err.Error(), "logger cannot be nil")
	})
}

func TestBatchError(t *testing.T) {
	t.Run("with record ids", func(t *testing.T) {
		err := &pkgerrors.BatchError{
			Batch:     "BATCH_C",
			RecordIDs: []int{3, 9},
			Err:       errors.New("verify failed"),
		}
		assert.Contains(t, err.Error(), "BATCH_C")
		assert.Contains(t, err.Error(), "[3 9]")
		assert.Contains(t, err.Error(), "verify failed")
	})

	t.Run("without record ids", func(t *testing.T) {
		base := errors.New("decode failed")
		err := pkgerrors.NewBatchError("BATCH_A", "batches/a.json", nil, base)
		assert.Contains(t, err.Error(), "BATCH_A")
		assert.Equal(t, base, err.Unwrap())
	})
}

func TestParseError(t *testing.T) {
	t.Run("with file and position", func(t *testing.T) {
		err := &pkgerrors.ParseError{
			Format:  "json",
			File:    "bank.json",
			Line:    10,
			Column:  5,
			Message: "unexpected token",
		}
		assert.Contains(t, err.Error(), "json")
		assert.Contains(t, err.Error(), "bank.json")
		assert.Contains(t, err.Error(), "10:5")
	})

	t.Run("with file only", func(t *testing.T) {
		err := &pkgerrors.ParseError{
			Format:  "json",
			File:    "reference.json",
			Message: "unexpected end of input",
		}
		assert.Contains(t, err.Error(), "reference.json")
		assert.Contains(t, err.Error(), "unexpected end of input")
	})

	t.Run("constructor and wrap", func(t *testing.T) {
		baseErr := errors.New("EOF")
		err := pkgerrors.NewParseError("json", "batch.json", "unexpected end", baseErr)
		assert.Equal(t, baseErr, err.Unwrap())

		wrapped := pkgerrors.WrapParse("yaml", "report.yaml", baseErr)
		parseErr, ok := wrapped.(*pkgerrors.ParseError)
		require.True(t, ok)
		assert.Equal(t, "yaml", parseErr.Format)
		assert.Equal(t, "report.yaml", parseErr.File)
	})
}

func TestIOError(t *testing.T) {
	t.Run("basic error", func(t *testing.T) {
		err := &pkgerrors.IOError{
			Operation: "read",
			Path:      "/tmp/bank.json",
			Message:   "permission denied",
			Err:       errors.New("permission denied"),
		}
		assert.Contains(t, err.Error(), "read")
		assert.Contains(t, err.Error(), "/tmp/bank.json")
	})

	t.Run("unwrap", func(t *testing.T) {
		baseErr := errors.New("disk full")
		err := pkgerrors.NewIOError("write", "/data/bank.json", baseErr)
		assert.Equal(t, baseErr, err.Unwrap())
	})

	t.Run("wrap helper", func(t *testing.T) {
		baseErr := errors.New("short write")
		err := pkgerrors.WrapIO("backup", "backups/bank.backup.json", baseErr)
		ioErr, ok := err.(*pkgerrors.IOError)
		require.True(t, ok)
		assert.Equal(t, "backup", ioErr.Operation)
	})
}

func TestWrapHelpers(t *testing.T) {
	t.Run("WrapValidation", func(t *testing.T) {
		err := pkgerrors.WrapValidation("answer", errors.New("not a choice label"))
		assert.NotNil(t, err)
		assert.Contains(t, err.Error(), "answer")

		assert.Nil(t, pkgerrors.WrapValidation("field", nil))
	})

	t.Run("WrapIO", func(t *testing.T) {
		assert.Nil(t, pkgerrors.WrapIO("read", "file", nil))
	})

	t.Run("WrapParse", func(t *testing.T) {
		assert.Nil(t, pkgerrors.WrapParse("json", "file.json", nil))
	})

	t.Run("WrapBatch", func(t *testing.T) {
		err := pkgerrors.WrapBatch("BATCH_B", "batches/b.json", errors.New("boom"))
		assert.NotNil(t, err)
		assert.Contains(t, err.Error(), "BATCH_B")

		assert.Nil(t, pkgerrors.WrapBatch("BATCH_B", "batches/b.json", nil))
	})
}

func TestErrorChaining(t *testing.T) {
	baseErr := errors.New("connection refused")
	ioErr := pkgerrors.WrapIO("open", "bank.json", baseErr)
	batchErr := &pkgerrors.BatchError{
		Batch: "BATCH_D",
		Err:   ioErr,
	}

	assert.Equal(t, ioErr, batchErr.Unwrap())

	var targetIOErr *pkgerrors.IOError
	assert.True(t, errors.As(batchErr, &targetIOErr))
	assert.Equal(t, "open", targetIOErr.Operation)
}

func TestSentinelErrors(t *testing.T) {
	sentinels := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", pkgerrors.ErrNotFound},
		{"ErrAlreadyExists", pkgerrors.ErrAlreadyExists},
		{"ErrInvalidInput", pkgerrors.ErrInvalidInput},
		{"ErrMissingArtifact", pkgerrors.ErrMissingArtifact},
		{"ErrMalformedRecord", pkgerrors.ErrMalformedRecord},
		{"ErrPreconditionFailed", pkgerrors.ErrPreconditionFailed},
		{"ErrReadOnly", pkgerrors.ErrReadOnly},
		{"ErrCanceled", pkgerrors.ErrCanceled},
	}

	for _, tc := range sentinels {
		t.Run(tc.name, func(t *testing.T) {
			assert.NotNil(t, tc.err)
			assert.NotEmpty(t, tc.err.Error())
		})
	}
}
