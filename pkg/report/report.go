// Package report aggregates bank and matching state into read-only
// progress summaries.
//
// A snapshot folds counters over the bank's records and, when a matching
// result is supplied, partitions the unmatched records into work queues:
// records without an answer need research, records with an unconfirmed
// answer only need verification. Snapshots never mutate their inputs and
// are safe to take concurrently with readers of the same bank.
package report

import (
	"fmt"
	"sort"
	"time"

	"github.com/agentstation/utc"

	"github.com/examtrail/qbank/pkg/questions"
	"github.com/examtrail/qbank/pkg/reconcile"
)

// Totals are the per-category record counts of a snapshot.
type Totals struct {
	// Records is the number of records in the bank.
	Records int `json:"records"`

	// WithAnswer counts records carrying an answer, verified or not.
	WithAnswer int `json:"with_answer"`

	// Verified counts records a verification event has confirmed.
	Verified int `json:"verified"`

	// Stale counts records with an answer nobody has verified yet.
	Stale int `json:"stale"`

	// NoAnswer counts records still missing an answer.
	NoAnswer int `json:"no_answer"`
}

// SubjectCount breaks the totals down for a single exam subject.
type SubjectCount struct {
	Subject    string `json:"subject"`
	Records    int    `json:"records"`
	WithAnswer int    `json:"with_answer"`
	Verified   int    `json:"verified"`
}

// MatchSummary carries the counters of the matching run a snapshot was
// built from.
type MatchSummary struct {
	References          int     `json:"references"`
	Matched             int     `json:"matched"`
	MatchRate           float64 `json:"match_rate"`
	AnswerMatches       int     `json:"answer_matches"`
	AnswerConflicts     int     `json:"answer_conflicts"`
	NeedsAnswer         int     `json:"needs_answer"`
	UnmatchedReferences int     `json:"unmatched_references"`
	UnmatchedRecords    int     `json:"unmatched_records"`
	KeyCollisions       int     `json:"key_collisions"`
}

// Report is a point-in-time summary of bank progress.
type Report struct {
	// GeneratedAt is when the snapshot was taken.
	GeneratedAt utc.Time `json:"generated_at"`

	// Exam names the exam the bank covers, when its metadata says.
	Exam string `json:"exam,omitempty"`

	// Totals are the per-category record counts.
	Totals Totals `json:"totals"`

	// Subjects breaks the totals down per exam subject, sorted by name.
	Subjects []SubjectCount `json:"subjects,omitempty"`

	// Match summarizes the matching run, nil when none was supplied.
	Match *MatchSummary `json:"match,omitempty"`

	// NeedsResearch lists unmatched records with no answer. There is
	// nothing to check them against; someone has to find the answer.
	NeedsResearch []int `json:"needs_research,omitempty"`

	// NeedsVerification lists unmatched records that already carry an
	// answer and only await confirmation.
	NeedsVerification []int `json:"needs_verification,omitempty"`

	// Invalid lists records the loaders skipped as malformed.
	Invalid []questions.Invalid `json:"invalid,omitempty"`
}

// Snapshot folds the bank, and optionally the latest matching result,
// into a Report. Neither input is mutated; lastMatch may be nil.
func Snapshot(bank *questions.Bank, lastMatch *reconcile.Result, at time.Time) *Report {
	rep := &Report{GeneratedAt: utc.Time{Time: at.UTC()}}
	if bank == nil {
		return rep
	}

	rep.Exam = bank.Meta().Exam

	subjects := make(map[string]*SubjectCount)
	bank.ForEach(func(rec *questions.Record) bool {
		rep.Totals.Records++
		sc := subjects[rec.Subject]
		if sc == nil {
			sc = &SubjectCount{Subject: rec.Subject}
			subjects[rec.Subject] = sc
		}
		sc.Records++
		if !rec.HasAnswer() {
			rep.Totals.NoAnswer++
			return true
		}
		rep.Totals.WithAnswer++
		sc.WithAnswer++
		if rec.Verification.Verified {
			rep.Totals.Verified++
			sc.Verified++
		} else {
			rep.Totals.Stale++
		}
		return true
	})

	rep.Subjects = make([]SubjectCount, 0, len(subjects))
	for _, sc := range subjects {
		rep.Subjects = append(rep.Subjects, *sc)
	}
	sort.Slice(rep.Subjects, func(i, j int) bool {
		return rep.Subjects[i].Subject < rep.Subjects[j].Subject
	})

	rep.Invalid = bank.Invalid()

	if lastMatch != nil {
		rep.Match = &MatchSummary{
			References:          lastMatch.Stats.References,
			Matched:             lastMatch.Stats.Matched,
			MatchRate:           lastMatch.MatchRate(),
			AnswerMatches:       lastMatch.Stats.AnswerMatches,
			AnswerConflicts:     lastMatch.Stats.AnswerConflicts,
			NeedsAnswer:         lastMatch.Stats.NeedsAnswer,
			UnmatchedReferences: lastMatch.Stats.UnmatchedReferences,
			UnmatchedRecords:    len(lastMatch.UnmatchedRecords),
			KeyCollisions:       lastMatch.Stats.KeyCollisions,
		}
		for _, id := range lastMatch.UnmatchedRecords {
			rec, ok := bank.Get(id)
			if !ok {
				continue
			}
			if rec.HasAnswer() {
				rep.NeedsVerification = append(rep.NeedsVerification, id)
			} else {
				rep.NeedsResearch = append(rep.NeedsResearch, id)
			}
		}
		sort.Ints(rep.NeedsResearch)
		sort.Ints(rep.NeedsVerification)
	}

	return rep
}

// AnswerRate returns the fraction of records carrying an answer.
func (r *Report) AnswerRate() float64 {
	if r.Totals.Records == 0 {
		return 0
	}
	return float64(r.Totals.WithAnswer) / float64(r.Totals.Records)
}

// VerifiedRate returns the fraction of records that are verified.
func (r *Report) VerifiedRate() float64 {
	if r.Totals.Records == 0 {
		return 0
	}
	return float64(r.Totals.Verified) / float64(r.Totals.Records)
}

// Summary returns a human-readable summary of the snapshot.
func (r *Report) Summary() string {
	return fmt.Sprintf("%d records: %d answered (%.1f%%), %d verified, %d stale, %d missing answers",
		r.Totals.Records, r.Totals.WithAnswer, r.AnswerRate()*100,
		r.Totals.Verified, r.Totals.Stale, r.Totals.NoAnswer)
}
