package questions

// bankDocument is the on-disk shape of the merged question bank.
type bankDocument struct {
	Meta      *Meta            `json:"meta,omitempty"`
	Harvested []recordDocument `json:"harvested,omitempty"`
	Curated   []recordDocument `json:"curated,omitempty"`
}

// recordDocument is the on-disk shape of one bank record. Harvest tooling
// named some fields differently across runs, so both spellings are accepted
// here and resolved by toRecord; the rest of the module only ever sees the
// canonical Record. Answer stays a pointer so an explicit null survives the
// round trip.
type recordDocument struct {
	Index       *int          `json:"index,omitempty"`
	Number      *int          `json:"number,omitempty"` // legacy spelling of index
	Subject     string        `json:"exam_subject,omitempty"`
	Section     string        `json:"original_section,omitempty"` // legacy spelling of exam_subject
	Stem        string        `json:"stem,omitempty"`
	Question    string        `json:"question,omitempty"` // legacy spelling of stem
	Options     Options       `json:"options,omitempty"`
	Answer      *string       `json:"answer"`
	Explanation string        `json:"explanation,omitempty"`
	Metadata    *Verification `json:"metadata,omitempty"`
}

// toRecord resolves variant field names and returns the canonical record.
func (d recordDocument) toRecord(origin Origin) (*Record, error) {
	r := &Record{
		Subject:     d.Subject,
		Stem:        d.Stem,
		Options:     d.Options,
		Explanation: d.Explanation,
		Origin:      origin,
	}
	switch {
	case d.Index != nil:
		r.ID = *d.Index
	case d.Number != nil:
		r.ID = *d.Number
	}
	if r.Subject == "" {
		r.Subject = d.Section
	}
	if r.Stem == "" {
		r.Stem = d.Question
	}
	if d.Answer != nil {
		r.Answer = *d.Answer
	}
	if d.Metadata != nil {
		r.Verification = *d.Metadata
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// newRecordDocument converts a record to its canonical document shape.
// Variant fields are never written back.
func newRecordDocument(r *Record) recordDocument {
	index := r.ID
	doc := recordDocument{
		Index:       &index,
		Subject:     r.Subject,
		Stem:        r.Stem,
		Options:     r.Options,
		Explanation: r.Explanation,
	}
	if r.HasAnswer() {
		answer := r.Answer
		doc.Answer = &answer
	}
	if !r.Verification.IsZero() {
		metadata := r.Verification
		doc.Metadata = &metadata
	}
	return doc
}

// toBank converts a decoded document into a bank. Malformed and duplicate
// records are skipped and kept on the invalid list.
func (d bankDocument) toBank() *Bank {
	bank := NewBank()
	if d.Meta != nil {
		bank.SetMeta(*d.Meta)
	}
	groups := []struct {
		origin Origin
		docs   []recordDocument
	}{
		{OriginHarvested, d.Harvested},
		{OriginCurated, d.Curated},
	}
	for _, g := range groups {
		for i, rd := range g.docs {
			r, err := rd.toRecord(g.origin)
			if err != nil {
				bank.RecordInvalid(Invalid{Group: g.origin.String(), Position: i, Reason: err.Error()})
				continue
			}
			if err := bank.Add(r); err != nil {
				bank.RecordInvalid(Invalid{Group: g.origin.String(), Position: i, Reason: "duplicate index"})
			}
		}
	}
	return bank
}

// newBankDocument converts a bank to its document shape, each grouping in
// insertion order.
func newBankDocument(b *Bank) bankDocument {
	meta := b.Meta()
	doc := bankDocument{Meta: &meta}
	for _, r := range b.Group(OriginHarvested) {
		doc.Harvested = append(doc.Harvested, newRecordDocument(r))
	}
	for _, r := range b.Group(OriginCurated) {
		doc.Curated = append(doc.Curated, newRecordDocument(r))
	}
	return doc
}

// referenceDocument is the on-disk shape of the reference set. Some exports
// wrap the questions in an envelope with metadata, others are a bare array;
// parseReference handles both.
type referenceDocument struct {
	Meta      map[string]any    `json:"meta,omitempty"`
	Questions []ReferenceRecord `json:"questions"`
}
