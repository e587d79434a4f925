// Package review folds per-batch verification review artifacts into one
// consolidated summary and matrix. Reviews arrive as one JSON artifact per
// batch listing verified, questionable, and erroneous records; merging is
// pure and tolerates missing artifacts.
package review

import (
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/examtrail/qbank/pkg/errors"
	"github.com/examtrail/qbank/pkg/logging"
)

// Status classifies one reviewed record within a batch.
type Status string

// String returns the string representation of a Status.
func (s Status) String() string {
	return string(s)
}

// Review statuses, strongest first when batches disagree.
const (
	StatusVerified     Status = "verified"
	StatusQuestionable Status = "questionable"
	StatusError        Status = "error"
)

// rank orders statuses for precedence; higher wins.
func (s Status) rank() int {
	switch s {
	case StatusVerified:
		return 3
	case StatusQuestionable:
		return 2
	case StatusError:
		return 1
	default:
		return 0
	}
}

// Entry is one reviewed record inside a review artifact. Reviewers put
// their commentary in different fields per status: notes on verified
// records, a recommendation on questionable ones, a correction on errors.
type Entry struct {
	ID             string   `json:"id"`
	Question       string   `json:"question,omitempty"`
	Answer         string   `json:"answer,omitempty"`
	Sources        []string `json:"sources,omitempty"`
	Notes          string   `json:"notes,omitempty"`
	Recommendation string   `json:"recommendation,omitempty"`
	Correction     string   `json:"correction,omitempty"`
}

// Review is one batch's review artifact.
type Review struct {
	Batch        string  `json:"batch_name"`
	Verified     []Entry `json:"verified"`
	Questionable []Entry `json:"questionable"`
	Errors       []Entry `json:"errors"`
}

// Load reads a review artifact from the filesystem. A missing file comes
// back as a MissingArtifactError so merges can skip it and keep going.
func Load(fsys fs.FS, path string) (*Review, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewMissingArtifactError("review", path, err)
		}
		return nil, errors.WrapIO("read", path, err)
	}
	return parseReview(data, path)
}

// LoadFile reads a review artifact from a path on the host filesystem.
func LoadFile(path string) (*Review, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewMissingArtifactError("review", path, err)
		}
		return nil, errors.WrapIO("read", path, err)
	}
	return parseReview(data, path)
}

// LoadAll loads every review artifact in order, skipping missing ones. The
// skipped paths come back so callers can surface them. Malformed artifacts
// abort the load. A nil fsys reads from the host filesystem.
func LoadAll(fsys fs.FS, paths ...string) ([]*Review, []string, error) {
	reviews := make([]*Review, 0, len(paths))
	var skipped []string
	for _, path := range paths {
		var r *Review
		var err error
		if fsys == nil {
			r, err = LoadFile(path)
		} else {
			r, err = Load(fsys, path)
		}
		if err != nil {
			if errors.IsMissingArtifact(err) {
				logging.Warn().Str("artifact", path).Msg("Review artifact missing, skipping")
				skipped = append(skipped, path)
				continue
			}
			return nil, nil, err
		}
		reviews = append(reviews, r)
	}
	return reviews, skipped, nil
}

func parseReview(data []byte, path string) (*Review, error) {
	var r Review
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, errors.WrapParse("json", path, err)
	}
	if r.Batch == "" {
		base := filepath.Base(path)
		r.Batch = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return &r, nil
}
