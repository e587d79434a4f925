package reconcile

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/examtrail/qbank/pkg/logging"
	"github.com/examtrail/qbank/pkg/questions"
)

// maxKeyDisplay bounds collision keys in logs and results.
const maxKeyDisplay = 40

// Match implements Reconciler.
func (r *reconciler) Match(ctx context.Context, bank *questions.Bank, refs *questions.ReferenceSet) (*Result, error) {
	start := time.Now()
	index, collisions := r.buildIndex(ctx, bank)

	result := &Result{Collisions: collisions}
	matched := make(map[int]bool, refs.Len())

	for _, ref := range refs.Records() {
		key := r.keyer.Key(ref.Question)
		if key == "" {
			result.UnmatchedRefs = append(result.UnmatchedRefs, ref.ID)
			continue
		}
		id, ok := index[key]
		if !ok {
			result.UnmatchedRefs = append(result.UnmatchedRefs, ref.ID)
			continue
		}
		rec, ok := bank.Get(id)
		if !ok {
			result.UnmatchedRefs = append(result.UnmatchedRefs, ref.ID)
			continue
		}
		pair := Pair{RefID: ref.ID, RecordID: id, Status: answerStatus(rec, ref)}
		result.Pairs = append(result.Pairs, pair)
		matched[id] = true

		switch pair.Status {
		case StatusAnswerMatch:
			result.Stats.AnswerMatches++
		case StatusAnswerConflict:
			result.Stats.AnswerConflicts++
		case StatusNeedsAnswer:
			result.Stats.NeedsAnswer++
		}
	}

	bank.ForEach(func(rec *questions.Record) bool {
		if !matched[rec.ID] {
			result.UnmatchedRecords = append(result.UnmatchedRecords, rec.ID)
		}
		return true
	})

	result.Stats.References = refs.Len()
	result.Stats.Records = bank.Len()
	result.Stats.Matched = len(result.Pairs)
	result.Stats.UnmatchedReferences = len(result.UnmatchedRefs)
	result.Stats.KeyCollisions = len(collisions)
	result.Stats.TotalTimeMs = time.Since(start).Milliseconds()

	logging.Ctx(ctx).Info().
		Int("references", result.Stats.References).
		Int("matched", result.Stats.Matched).
		Int("conflicts", result.Stats.AnswerConflicts).
		Int("collisions", result.Stats.KeyCollisions).
		Msg("Matching complete")

	return result, nil
}

// buildIndex maps each non-empty stem key to a record ID. When two records
// share a key the lowest ID keeps it; the rest are recorded as collisions.
func (r *reconciler) buildIndex(ctx context.Context, bank *questions.Bank) (map[string]int, []Collision) {
	log := logging.Ctx(ctx)
	index := make(map[string]int, bank.Len())
	collided := make(map[string][]int)

	bank.ForEach(func(rec *questions.Record) bool {
		key := r.keyer.Key(rec.Stem)
		if key == "" {
			return true
		}
		existing, ok := index[key]
		if !ok {
			index[key] = rec.ID
			return true
		}
		if rec.ID < existing {
			index[key] = rec.ID
			collided[key] = append(collided[key], existing)
		} else {
			collided[key] = append(collided[key], rec.ID)
		}
		return true
	})

	keys := make([]string, 0, len(collided))
	for key := range collided {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	collisions := make([]Collision, 0, len(keys))
	for _, key := range keys {
		dropped := collided[key]
		sort.Ints(dropped)
		c := Collision{Key: truncateKey(key), Kept: index[key], Dropped: dropped}
		collisions = append(collisions, c)
		log.Warn().
			Str("key", c.Key).
			Int("kept", c.Kept).
			Ints("dropped", c.Dropped).
			Msg("Matching key collision")
	}
	return index, collisions
}

// answerStatus classifies the answer relationship of a matched pair.
// Answers are choice labels, so comparison ignores case and padding.
func answerStatus(rec *questions.Record, ref questions.ReferenceRecord) AnswerStatus {
	switch {
	case !rec.HasAnswer():
		return StatusNeedsAnswer
	case strings.EqualFold(strings.TrimSpace(rec.Answer), strings.TrimSpace(ref.Answer)):
		return StatusAnswerMatch
	default:
		return StatusAnswerConflict
	}
}

func truncateKey(key string) string {
	runes := []rune(key)
	if len(runes) <= maxKeyDisplay {
		return key
	}
	return string(runes[:maxKeyDisplay]) + "..."
}
