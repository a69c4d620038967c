// Package depot implements the content-addressed blob store that backs
// object and annotation payloads. A blob moves through three states:
// NONEXISTENT -> WRITABLE (after Reserve) -> READABLE (after Finalize), and
// back to NONEXISTENT via Purge.
//
// Grounded on _examples/original_source/src/impl/fs.py's Depot.
package depot

import (
	"github.com/kvshepherd-labs/ledgerkeep/internal/ledger"
)

// State is the lifecycle stage of a blob identified by an Identifier.
type State int

// Blob lifecycle states.
const (
	StateNonexistent State = iota
	StateWritable
	StateReadable
)

func (s State) String() string {
	switch s {
	case StateNonexistent:
		return "NONEXISTENT"
	case StateWritable:
		return "WRITABLE"
	case StateReadable:
		return "READABLE"
	default:
		return "UNKNOWN"
	}
}

// Depot is a content-addressed blob store keyed by ledger.Identifier.
type Depot interface {
	// Exists reports whether id names any blob, writable or readable.
	Exists(id ledger.Identifier) (bool, error)
	// Reserve allocates size bytes for id, entering the WRITABLE state.
	Reserve(id ledger.Identifier, size uint64) error
	// Write places buf at offset within id's reserved bytes. id must be
	// WRITABLE.
	Write(id ledger.Identifier, offset uint64, buf []byte) error
	// Finalize transitions id from WRITABLE to READABLE.
	Finalize(id ledger.Identifier) error
	// Read returns up to size bytes starting at offset. id must be
	// READABLE.
	Read(id ledger.Identifier, offset, size uint64) ([]byte, error)
	// Purge deletes id's blob in whichever state it is in.
	Purge(id ledger.Identifier) error
}
