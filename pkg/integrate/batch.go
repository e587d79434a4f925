package integrate

import (
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/examtrail/qbank/pkg/errors"
	"github.com/examtrail/qbank/pkg/questions"
)

// BatchAnswer is one researched answer inside a batch artifact.
type BatchAnswer struct {
	Index      int                  `json:"index"`      // bank record ID the answer targets
	Answer     string               `json:"answer"`     // answer label
	Confidence questions.Confidence `json:"confidence"` // defaults to medium when absent
	Sources    []string             `json:"sources,omitempty"`
	Notes      string               `json:"notes,omitempty"`
}

// Batch is one external answer batch. Artifacts usually carry a batch_name;
// when they don't, the name is derived from the file name.
type Batch struct {
	Name    string        `json:"batch_name"`
	Answers []BatchAnswer `json:"answers"`
}

// LoadBatch reads a batch artifact from the filesystem. A missing file
// comes back as a MissingArtifactError so integration runs can skip the
// batch and keep going.
func LoadBatch(fsys fs.FS, path string) (*Batch, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewMissingArtifactError("batch", path, err)
		}
		return nil, errors.WrapIO("read", path, err)
	}
	return parseBatch(data, path)
}

// LoadBatchFile reads a batch artifact from a path on the host filesystem.
func LoadBatchFile(path string) (*Batch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewMissingArtifactError("batch", path, err)
		}
		return nil, errors.WrapIO("read", path, err)
	}
	return parseBatch(data, path)
}

func parseBatch(data []byte, path string) (*Batch, error) {
	var batch Batch
	if err := json.Unmarshal(data, &batch); err != nil {
		return nil, errors.WrapParse("json", path, err)
	}
	if batch.Name == "" {
		batch.Name = batchNameFromPath(path)
	}
	return &batch, nil
}

// batchNameFromPath derives a batch name from the artifact file name.
func batchNameFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
