// Package state records conversion history in SQLite.
// Each completed conversion becomes one ledger row, keyed by a UUID and
// carrying the interchange control number so repeated interchanges can be
// detected across runs.
package state

import "time"

// Conversion directions.
const (
	DirectionToXML   = "to-xml"
	DirectionFromXML = "from-xml"
)

// Conversion is one completed conversion recorded in the ledger.
type Conversion struct {
	ID            string
	Source        string
	Target        string
	Direction     string
	ControlNumber string
	Segments      int
	CreatedAt     time.Time
}

// Store is the conversion ledger interface.
type Store interface {
	// RecordConversion appends a ledger row, assigning ID and CreatedAt
	// when unset.
	RecordConversion(c *Conversion) error

	// ListConversions returns the most recent rows, newest first. A
	// non-positive limit returns everything.
	ListConversions(limit int) ([]Conversion, error)

	// HasControlNumber reports whether an interchange with the given
	// control number was already recorded.
	HasControlNumber(controlNumber string) (bool, error)

	// Close releases the underlying database.
	Close() error
}
