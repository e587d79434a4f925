package questions

import (
	"sync"

	"github.com/agentstation/utc"

	"github.com/examtrail/qbank/pkg/errors"
)

// Meta is bank-level metadata carried through load and save. WithAnswer is
// the rollup counter advanced by sync and integration runs; reports compute
// actual counts from the records themselves.
type Meta struct {
	Title       string    `json:"title,omitempty"`
	Version     string    `json:"version,omitempty"`
	Exam        string    `json:"exam,omitempty"`
	LastUpdated *utc.Time `json:"last_updated,omitempty"`
	Total       int       `json:"total"`
	WithAnswer  int       `json:"with_answer"`
}

// Bank holds the merged question bank: metadata plus records from both
// provenance groupings, indexed by record ID. Insertion order is preserved
// per grouping so saved documents keep their original layout.
//
// The container bookkeeping is guarded for concurrent readers, but Get,
// Records, and Group hand out shared *Record pointers: integration runs
// mutate records in place, so record mutation assumes a single writer.
type Bank struct {
	mu      sync.RWMutex
	meta    Meta
	records map[int]*Record
	order   map[Origin][]int
	invalid []Invalid
}

// BankOption defines a function that configures a Bank instance.
type BankOption func(*Bank)

// WithBankMeta sets the bank metadata.
func WithBankMeta(meta Meta) BankOption {
	return func(b *Bank) {
		b.meta = meta
	}
}

// NewBank creates a new empty bank with the given options.
func NewBank(opts ...BankOption) *Bank {
	b := &Bank{
		records: make(map[int]*Record),
		order:   make(map[Origin][]int),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Add validates the record and inserts it into its grouping. Duplicate IDs
// are rejected so the first occurrence always wins.
func (b *Bank) Add(r *Record) error {
	if err := r.Validate(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, exists := b.records[r.ID]; exists {
		return errors.ErrAlreadyExists
	}
	b.records[r.ID] = r
	b.order[r.Origin] = append(b.order[r.Origin], r.ID)
	b.meta.Total = len(b.records)
	return nil
}

// Get returns the record with the given ID.
func (b *Bank) Get(id int) (*Record, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	r, ok := b.records[id]
	return r, ok
}

// Exists reports whether a record with the given ID is present.
func (b *Bank) Exists(id int) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.records[id]
	return ok
}

// Len returns the number of records across all groupings.
func (b *Bank) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.records)
}

// Records returns all records, harvested then curated, each grouping in
// insertion order. The slice is fresh; the records are shared.
func (b *Bank) Records() []*Record {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]*Record, 0, len(b.records))
	for _, origin := range Origins() {
		for _, id := range b.order[origin] {
			out = append(out, b.records[id])
		}
	}
	return out
}

// Group returns the records of one provenance grouping in insertion order.
func (b *Bank) Group(origin Origin) []*Record {
	b.mu.RLock()
	defer b.mu.RUnlock()
	ids := b.order[origin]
	out := make([]*Record, 0, len(ids))
	for _, id := range ids {
		out = append(out, b.records[id])
	}
	return out
}

// ForEach calls fn for each record, harvested then curated in insertion
// order, stopping early if fn returns false.
func (b *Bank) ForEach(fn func(*Record) bool) {
	for _, r := range b.Records() {
		if !fn(r) {
			return
		}
	}
}

// Meta returns the bank metadata.
func (b *Bank) Meta() Meta {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.meta
}

// SetMeta replaces the bank metadata. Total is kept in step with the
// actual record count.
func (b *Bank) SetMeta(meta Meta) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.meta = meta
	b.meta.Total = len(b.records)
}

// BumpWithAnswer advances the with-answer rollup counter by n.
func (b *Bank) BumpWithAnswer(n int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.meta.WithAnswer += n
}

// SetLastUpdated stamps the metadata with the given time.
func (b *Bank) SetLastUpdated(t utc.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.meta.LastUpdated = &t
}

// RecordInvalid appends an entry to the invalid list.
func (b *Bank) RecordInvalid(inv Invalid) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.invalid = append(b.invalid, inv)
}

// Invalid returns the records skipped at ingestion.
func (b *Bank) Invalid() []Invalid {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]Invalid, len(b.invalid))
	copy(out, b.invalid)
	return out
}
