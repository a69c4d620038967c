// Package integrity provides the two mutually exclusive tamper-evidence
// regimes a dataset can run under: hash chaining (each event's integrity
// bytes cover the previous tail event's integrity bytes) or Ed25519
// signing (each event is signed independently by its author).
//
// Grounded on _examples/original_source/src/core/integrity.py.
package integrity

import (
	"crypto/sha256"

	"github.com/google/uuid"

	"github.com/kvshepherd-labs/ledgerkeep/internal/ledger"
	pkgerrors "github.com/kvshepherd-labs/ledgerkeep/internal/pkg/errors"
)

// TailReader is the minimal RecordKeeper surface the hash chain regime
// needs: the UUID of the last appended event, and the ability to read it
// back to recover its integrity bytes. Tail returns uuid.Nil, false when
// the log is empty.
type TailReader interface {
	Tail() (id uuid.UUID, ok bool, err error)
	ReadIntegrity(id uuid.UUID) ([]byte, error)
}

// HashChainLinker computes the integrity bytes for a new event by hashing
// the previous tail event's integrity onto this event's signing bytes.
type HashChainLinker struct {
	RecordKeeper TailReader
}

// NewHashChainLinker constructs a HashChainLinker over rk.
func NewHashChainLinker(rk TailReader) *HashChainLinker {
	return &HashChainLinker{RecordKeeper: rk}
}

// Link populates event's Integrity and Author fields in place.
func (l *HashChainLinker) Link(event ledger.Event, author string) error {
	prefix, err := l.tailIntegrity()
	if err != nil {
		return err
	}

	sb, err := event.SigningBytes()
	if err != nil {
		return pkgerrors.WrapValidation(pkgerrors.KindIntegrity, err, "compute signing bytes")
	}

	sum := sha256.Sum256(append(prefix, sb...))
	base := event.Base()
	base.Author = author
	base.Integrity = sum[:]
	return nil
}

func (l *HashChainLinker) tailIntegrity() ([]byte, error) {
	tail, ok, err := l.RecordKeeper.Tail()
	if err != nil {
		return nil, pkgerrors.WrapStorage(pkgerrors.StorageIO, "read tail pointer", err)
	}
	if !ok {
		return nil, nil
	}
	integrity, err := l.RecordKeeper.ReadIntegrity(tail)
	if err != nil {
		return nil, pkgerrors.WrapStorage(pkgerrors.StorageIO, "read tail event", err)
	}
	if integrity == nil {
		return nil, pkgerrors.NewValidation(pkgerrors.KindIntegrity, "tail event missing integrity")
	}
	return integrity, nil
}

// HashChainValidator re-derives an event's expected integrity bytes and
// rejects the event if they don't match what it carries.
type HashChainValidator struct {
	RecordKeeper TailReader
}

// NewHashChainValidator constructs a HashChainValidator over rk.
func NewHashChainValidator(rk TailReader) *HashChainValidator {
	return &HashChainValidator{RecordKeeper: rk}
}

// Validate implements the dataset Validator contract.
func (v *HashChainValidator) Validate(event ledger.Event) error {
	base := event.Base()
	if base.Author == "" {
		return pkgerrors.NewValidation(pkgerrors.KindIntegrity, "event missing author")
	}
	if base.Integrity == nil {
		return pkgerrors.NewValidation(pkgerrors.KindIntegrity, "event missing integrity")
	}

	l := HashChainLinker{RecordKeeper: v.RecordKeeper}
	prefix, err := l.tailIntegrity()
	if err != nil {
		return err
	}

	sb, err := event.SigningBytes()
	if err != nil {
		return pkgerrors.WrapValidation(pkgerrors.KindIntegrity, err, "compute signing bytes")
	}

	sum := sha256.Sum256(append(prefix, sb...))
	if string(sum[:]) != string(base.Integrity) {
		return pkgerrors.NewValidation(pkgerrors.KindIntegrity, "event integrity failed to validate")
	}
	return nil
}
