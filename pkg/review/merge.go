package review

import (
	"fmt"
	"sort"
	"time"

	"github.com/agentstation/utc"
)

// Row is one record's consolidated review outcome across batches.
type Row struct {
	RecordID     string   `json:"record_id"`
	Status       Status   `json:"status"`
	Batches      []string `json:"batches"`
	SourcesCount int      `json:"sources_count"`
	Notes        string   `json:"notes,omitempty"`
	Disagreement bool     `json:"disagreement,omitempty"`
}

// BatchStats counts one batch's review outcomes.
type BatchStats struct {
	Batch        string `json:"batch"`
	Verified     int    `json:"verified"`
	Questionable int    `json:"questionable"`
	Errors       int    `json:"errors"`
	Total        int    `json:"total"`
}

// Totals aggregates the consolidated matrix.
type Totals struct {
	Reviewed      int     `json:"reviewed"` // distinct records
	Verified      int     `json:"verified"`
	Questionable  int     `json:"questionable"`
	Errors        int     `json:"errors"`
	Disagreements int     `json:"disagreements"`
	VerifiedRate  float64 `json:"verified_rate"` // verified / reviewed
}

// Summary is the merged outcome of all review batches.
type Summary struct {
	GeneratedAt utc.Time     `json:"generated_at"`
	PerBatch    []BatchStats `json:"per_batch"`
	Matrix      []Row        `json:"matrix"`
	Totals      Totals       `json:"totals"`
}

// HasIssues reports whether any record ended questionable or erroneous.
func (s *Summary) HasIssues() bool {
	return s.Totals.Questionable+s.Totals.Errors > 0
}

// String returns a one-line summary.
func (s *Summary) String() string {
	return fmt.Sprintf("Reviewed %d records across %d batches: %d verified, %d questionable, %d errors, %d disagreements",
		s.Totals.Reviewed, len(s.PerBatch), s.Totals.Verified, s.Totals.Questionable, s.Totals.Errors, s.Totals.Disagreements)
}

// Merge folds review artifacts into one summary. When batches disagree on a
// record the strongest status wins (verified beats questionable beats
// error) and the disagreement is counted. Records without an ID are
// ignored. Merge does not touch the bank.
func Merge(at time.Time, reviews ...*Review) *Summary {
	summary := &Summary{GeneratedAt: utc.Time{Time: at.UTC()}}
	rows := make(map[string]*Row)

	for _, review := range reviews {
		if review == nil {
			continue
		}
		stats := BatchStats{Batch: review.Batch}
		groups := []struct {
			status  Status
			entries []Entry
			count   *int
		}{
			{StatusVerified, review.Verified, &stats.Verified},
			{StatusQuestionable, review.Questionable, &stats.Questionable},
			{StatusError, review.Errors, &stats.Errors},
		}
		for _, g := range groups {
			for _, entry := range g.entries {
				if entry.ID == "" {
					continue
				}
				*g.count++
				fold(rows, review.Batch, g.status, entry)
			}
		}
		stats.Total = stats.Verified + stats.Questionable + stats.Errors
		summary.PerBatch = append(summary.PerBatch, stats)
	}

	summary.Matrix = make([]Row, 0, len(rows))
	for _, row := range rows {
		summary.Matrix = append(summary.Matrix, *row)
	}
	sort.Slice(summary.Matrix, func(i, j int) bool {
		return summary.Matrix[i].RecordID < summary.Matrix[j].RecordID
	})

	for _, row := range summary.Matrix {
		summary.Totals.Reviewed++
		switch row.Status {
		case StatusVerified:
			summary.Totals.Verified++
		case StatusQuestionable:
			summary.Totals.Questionable++
		case StatusError:
			summary.Totals.Errors++
		}
		if row.Disagreement {
			summary.Totals.Disagreements++
		}
	}
	if summary.Totals.Reviewed > 0 {
		summary.Totals.VerifiedRate = float64(summary.Totals.Verified) / float64(summary.Totals.Reviewed)
	}

	return summary
}

// fold merges one entry into the consolidated rows.
func fold(rows map[string]*Row, batch string, status Status, entry Entry) {
	row, ok := rows[entry.ID]
	if !ok {
		rows[entry.ID] = &Row{
			RecordID:     entry.ID,
			Status:       status,
			Batches:      []string{batch},
			SourcesCount: entrySources(status, entry),
			Notes:        entryNotes(status, entry),
		}
		return
	}
	row.Batches = appendBatch(row.Batches, batch)
	if status != row.Status {
		row.Disagreement = true
	}
	if status.rank() > row.Status.rank() {
		row.Status = status
		row.SourcesCount = entrySources(status, entry)
		row.Notes = entryNotes(status, entry)
	}
}

// entryNotes picks the commentary field reviewers use for each status.
func entryNotes(status Status, entry Entry) string {
	switch status {
	case StatusQuestionable:
		return entry.Recommendation
	case StatusError:
		return entry.Correction
	default:
		return entry.Notes
	}
}

// entrySources counts corroborating sources; error rows carry none.
func entrySources(status Status, entry Entry) int {
	if status == StatusError {
		return 0
	}
	return len(entry.Sources)
}

func appendBatch(batches []string, batch string) []string {
	for _, b := range batches {
		if b == batch {
			return batches
		}
	}
	return append(batches, batch)
}
