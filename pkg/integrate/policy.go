package integrate

import (
	"github.com/examtrail/qbank/pkg/questions"
)

// Policy decides whether a batch entry may replace an existing answer that
// disagrees with it. Policies only see conflicts; unanswered records always
// take the batch answer.
type Policy interface {
	// ShouldOverwrite reports whether entry may replace the record's answer.
	ShouldOverwrite(rec *questions.Record, entry BatchAnswer) bool

	// Name identifies the policy in logs and run results.
	Name() string
}

// latestWins treats each batch as more recent research than whatever
// answered the record before it.
type latestWins struct{}

func (latestWins) ShouldOverwrite(*questions.Record, BatchAnswer) bool { return true }
func (latestWins) Name() string                                        { return "latest_wins" }

// LatestWins returns the default policy: later batches are authoritative
// and overwrite any disagreeing answer.
func LatestWins() Policy {
	return latestWins{}
}

// confidenceGate refuses to replace a verified answer with a strictly
// lower-confidence entry. Unverified answers are always replaceable.
type confidenceGate struct{}

func (confidenceGate) ShouldOverwrite(rec *questions.Record, entry BatchAnswer) bool {
	if !rec.Verification.Verified {
		return true
	}
	return entryConfidence(entry).Rank() >= rec.Verification.Confidence.Rank()
}

func (confidenceGate) Name() string { return "confidence_gate" }

// ConfidenceGate returns the opt-in policy that keeps verified answers
// unless the batch entry is at least as confident.
func ConfidenceGate() Policy {
	return confidenceGate{}
}

// entryConfidence applies the medium default for absent confidence.
func entryConfidence(entry BatchAnswer) questions.Confidence {
	if entry.Confidence == "" {
		return questions.ConfidenceMedium
	}
	return entry.Confidence
}
