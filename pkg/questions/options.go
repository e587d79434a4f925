package questions

import (
	"bytes"
	"encoding/json"
	"sort"
	"strings"

	"github.com/examtrail/qbank/pkg/errors"
)

// Choice is one labeled answer choice of a multiple-choice record.
type Choice struct {
	Label string // choice label, e.g. "A"
	Text  string // choice text
}

// Options is the ordered set of answer choices attached to a record.
// Choices are kept sorted by label so iteration order is deterministic
// regardless of how the source document ordered them.
type Options []Choice

// Get returns the text of the choice with the given label.
func (o Options) Get(label string) (string, bool) {
	for _, c := range o {
		if c.Label == label {
			return c.Text, true
		}
	}
	return "", false
}

// Has reports whether a choice with the given label exists.
func (o Options) Has(label string) bool {
	_, ok := o.Get(label)
	return ok
}

// Labels returns the choice labels in order.
func (o Options) Labels() []string {
	labels := make([]string, 0, len(o))
	for _, c := range o {
		labels = append(labels, c.Label)
	}
	return labels
}

// sorted returns a copy ordered by label. Documents store options as an
// object keyed by label, so order is restored here after decoding.
func (o Options) sorted() Options {
	out := make(Options, len(o))
	copy(out, o)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}

// UnmarshalJSON accepts both document shapes: the usual object keyed by
// label, and a bare array of choice texts which is assigned letter labels.
func (o *Options) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		*o = nil
		return nil
	}
	switch trimmed[0] {
	case '{':
		var m map[string]string
		if err := json.Unmarshal(trimmed, &m); err != nil {
			return err
		}
		opts := make(Options, 0, len(m))
		for label, text := range m {
			opts = append(opts, Choice{Label: strings.TrimSpace(label), Text: text})
		}
		*o = opts.sorted()
		return nil
	case '[':
		var texts []string
		if err := json.Unmarshal(trimmed, &texts); err != nil {
			return err
		}
		opts := make(Options, 0, len(texts))
		for i, text := range texts {
			opts = append(opts, Choice{Label: string(rune('A' + i)), Text: text})
		}
		*o = opts
		return nil
	default:
		return errors.NewValidationError("options", string(trimmed), "must be an object or an array")
	}
}

// MarshalJSON writes the object shape keyed by label.
func (o Options) MarshalJSON() ([]byte, error) {
	if o == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range o.sorted() {
		if i > 0 {
			buf.WriteByte(',')
		}
		label, err := json.Marshal(c.Label)
		if err != nil {
			return nil, err
		}
		text, err := json.Marshal(c.Text)
		if err != nil {
			return nil, err
		}
		buf.Write(label)
		buf.WriteByte(':')
		buf.Write(text)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
