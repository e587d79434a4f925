// Package normalize provides the deterministic text normalizer behind
// reconciliation matching.
//
// Pipeline order
//  1. UTF-8 repair, dropping invalid bytes
//  2. Unicode case folding
//  3. Strip all whitespace, including fullwidth and no-break spaces
//
// Punctuation and symbol runes pass through untouched, so two stems map to
// the same key only when they differ by nothing but spacing and case. The
// empty string is its own key; callers treat it as unmatchable.
package normalize

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// Normalizer derives matching keys from question text. Safe for concurrent
// use; transformer chains are pooled per call.
type Normalizer struct{}

// pool of fresh transformer chains
var chainPool = sync.Pool{
	New: func() any {
		// order matters and mirrors the documented pipeline
		return transform.Chain(
			cases.Fold(), // unicode case folding
			runes.Remove(runes.In(unicode.White_Space)), // strip every whitespace rune
		)
	},
}

// New constructs a Normalizer.
func New() *Normalizer { return &Normalizer{} }

// Key returns the matching key of s following the pipeline described above.
func (n *Normalizer) Key(s string) string {
	if s == "" {
		return ""
	}

	// 1 repair UTF-8 drop invalid bytes
	s = strings.ToValidUTF8(s, "")

	// 2-3 transform via pooled chain then reset and return it; neither
	// Fold nor Remove can fail on valid UTF-8
	tr := chainPool.Get().(transform.Transformer)
	ns, _, _ := transform.String(tr, s)
	tr.Reset()
	chainPool.Put(tr)

	return ns
}

var std = New()

// Key returns the matching key of s using a shared Normalizer.
func Key(s string) string {
	return std.Key(s)
}
