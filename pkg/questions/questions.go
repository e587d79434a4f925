// Package questions defines the question bank data model: records, labeled
// choice sets, the per-record verification ledger, and the containers that
// hold the merged bank and the verified reference set.
//
// Loaders normalize source-specific field names into one canonical record
// shape at the ingestion boundary, so downstream components never branch on
// where a record came from. Records missing required fields are skipped,
// not fatal: they stay on the container's invalid list for reporting.
package questions

// Origin identifies which provenance grouping a record belongs to within
// the merged bank.
type Origin string

// String returns the string representation of an Origin.
func (o Origin) String() string {
	return string(o)
}

// Provenance groupings of the merged bank.
const (
	// OriginHarvested marks records scraped from the public collection.
	OriginHarvested Origin = "harvested"

	// OriginCurated marks records added by hand alongside the harvested set.
	OriginCurated Origin = "curated"
)

// Origins lists the groupings in their canonical document order.
func Origins() []Origin {
	return []Origin{OriginHarvested, OriginCurated}
}

// Invalid describes a record skipped at ingestion because a required field
// was absent or unusable. Containers keep these so reports can surface them.
type Invalid struct {
	Group    string `json:"group"`    // provenance grouping or artifact name
	Position int    `json:"position"` // zero-based position within the grouping
	Reason   string `json:"reason"`
}
