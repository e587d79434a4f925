// Package research builds answer-research request documents from the
// bank's unanswered records, chunked for parallel lookup work. Requests
// carry the full question material and an explicitly null answer slot.
package research

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/agentstation/utc"
	"github.com/google/uuid"

	"github.com/examtrail/qbank/pkg/constants"
	"github.com/examtrail/qbank/pkg/errors"
	"github.com/examtrail/qbank/pkg/logging"
	"github.com/examtrail/qbank/pkg/questions"
)

// Question is one record prepared for answer research.
type Question struct {
	Index    int               `json:"index"`
	Subject  string            `json:"subject,omitempty"`
	Question string            `json:"question"`
	Options  questions.Options `json:"options,omitempty"`
	Answer   *string           `json:"answer"` // always null in a request
	Source   string            `json:"source"` // provenance grouping
}

// Request is one research request document covering a chunk of unanswered
// records.
type Request struct {
	RequestID string     `json:"request_id"`
	Created   utc.Time   `json:"created"`
	Part      int        `json:"part"`
	Parts     int        `json:"parts"`
	Questions []Question `json:"questions"`
}

// Build chunks every unanswered bank record into request documents of at
// most size questions each, record ID ascending, the last part short. A
// non-positive size falls back to the default. Returns nil when every
// record is answered.
func Build(bank *questions.Bank, size int, at time.Time) []*Request {
	if size <= 0 {
		size = constants.DefaultResearchSize
	}

	var pending []*questions.Record
	bank.ForEach(func(rec *questions.Record) bool {
		if !rec.HasAnswer() {
			pending = append(pending, rec)
		}
		return true
	})
	if len(pending) == 0 {
		return nil
	}
	sort.Slice(pending, func(i, j int) bool { return pending[i].ID < pending[j].ID })

	parts := (len(pending) + size - 1) / size
	created := utc.Time{Time: at.UTC()}
	requests := make([]*Request, 0, parts)

	for part := 1; part <= parts; part++ {
		lo := (part - 1) * size
		hi := lo + size
		if hi > len(pending) {
			hi = len(pending)
		}
		req := &Request{
			RequestID: uuid.New().String(),
			Created:   created,
			Part:      part,
			Parts:     parts,
			Questions: make([]Question, 0, hi-lo),
		}
		for _, rec := range pending[lo:hi] {
			req.Questions = append(req.Questions, Question{
				Index:    rec.ID,
				Subject:  rec.Subject,
				Question: rec.Stem,
				Options:  rec.Options,
				Source:   rec.Origin.String(),
			})
		}
		requests = append(requests, req)
	}

	logging.Info().
		Int("unanswered", len(pending)).
		Int("parts", parts).
		Int("size", size).
		Msg("Research requests built")

	return requests
}

// Save writes each request document into dir and returns the written
// paths.
func Save(requests []*Request, dir string) ([]string, error) {
	if len(requests) == 0 {
		return nil, nil
	}
	if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
		return nil, errors.WrapIO("create", dir, err)
	}
	paths := make([]string, 0, len(requests))
	for _, req := range requests {
		data, err := json.MarshalIndent(req, "", "  ")
		if err != nil {
			return paths, errors.WrapParse("json", "", err)
		}
		data = append(data, '\n')
		path := filepath.Join(dir, fmt.Sprintf("research_request_%02d.json", req.Part))
		if err := os.WriteFile(path, data, constants.FilePermissions); err != nil {
			return paths, errors.WrapIO("write", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
