// Package recordkeeper defines the append-only event log abstraction.
//
// A RecordKeeper is both a Validator (an event's UUID must not already be
// present in the log) and a Consumer (a validated event is appended). The
// log is a forward-only linked list: each event's successor is discoverable
// through Next, and Head/Tail locate the ends without a full scan.
package recordkeeper

import (
	"github.com/google/uuid"

	"github.com/kvshepherd-labs/ledgerkeep/internal/ledger"
	"github.com/kvshepherd-labs/ledgerkeep/internal/pkg/errors"
)

// RecordKeeper is the append-only event log.
type RecordKeeper interface {
	// Add appends event to the log. Callers must Validate first; Add itself
	// does not reject a duplicate UUID.
	Add(event ledger.Event) error

	// Read returns the event stored under id.
	Read(id uuid.UUID) (ledger.Event, error)

	// Exists reports whether id has been added to the log.
	Exists(id uuid.UUID) (bool, error)

	// Head returns the first event's UUID, or ok=false if the log is empty.
	Head() (id uuid.UUID, ok bool, err error)

	// Next returns the UUID following id in the log, or ok=false if id is
	// the tail.
	Next(id uuid.UUID) (next uuid.UUID, ok bool, err error)

	// Tail returns the last event's UUID, or ok=false if the log is empty.
	Tail() (id uuid.UUID, ok bool, err error)

	// ReadIntegrity returns the stored integrity bytes (signature or hash
	// chain digest) for id, satisfying integrity.TailReader.
	ReadIntegrity(id uuid.UUID) ([]byte, error)
}

// Validate enforces the RecordKeeper's sole invariant: an event's UUID must
// be unique across the whole log.
func Validate(rk RecordKeeper, event ledger.Event) error {
	exists, err := rk.Exists(event.Base().UUID)
	if err != nil {
		return err
	}
	if exists {
		return errors.NewValidation(errors.KindDuplicateUUID, "event UUID already exists")
	}
	return nil
}
