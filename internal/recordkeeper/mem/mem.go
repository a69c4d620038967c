// Package mem implements recordkeeper.RecordKeeper in memory, for tests and
// for ephemeral datasets.
package mem

import (
	"sync"

	"github.com/google/uuid"

	"github.com/kvshepherd-labs/ledgerkeep/internal/ledger"
	"github.com/kvshepherd-labs/ledgerkeep/internal/pkg/errors"
	"github.com/kvshepherd-labs/ledgerkeep/internal/recordkeeper"
)

// RecordKeeper is an in-memory recordkeeper.RecordKeeper. Append order is
// insertion order, so Next(id) is simply the following slice element.
type RecordKeeper struct {
	mu     sync.Mutex
	events []ledger.Event
	index  map[uuid.UUID]int
}

var _ recordkeeper.RecordKeeper = (*RecordKeeper)(nil)

// New constructs an empty in-memory RecordKeeper.
func New() *RecordKeeper {
	return &RecordKeeper{index: make(map[uuid.UUID]int)}
}

// Add implements recordkeeper.RecordKeeper.
func (rk *RecordKeeper) Add(event ledger.Event) error {
	rk.mu.Lock()
	defer rk.mu.Unlock()

	rk.index[event.Base().UUID] = len(rk.events)
	rk.events = append(rk.events, event)
	return nil
}

// Read implements recordkeeper.RecordKeeper.
func (rk *RecordKeeper) Read(id uuid.UUID) (ledger.Event, error) {
	rk.mu.Lock()
	defer rk.mu.Unlock()

	idx, ok := rk.index[id]
	if !ok {
		return nil, errors.NewStorage(errors.StorageNotFound, "event does not exist")
	}
	return rk.events[idx], nil
}

// Exists implements recordkeeper.RecordKeeper.
func (rk *RecordKeeper) Exists(id uuid.UUID) (bool, error) {
	rk.mu.Lock()
	defer rk.mu.Unlock()

	_, ok := rk.index[id]
	return ok, nil
}

// Head implements recordkeeper.RecordKeeper.
func (rk *RecordKeeper) Head() (uuid.UUID, bool, error) {
	rk.mu.Lock()
	defer rk.mu.Unlock()

	if len(rk.events) == 0 {
		return uuid.Nil, false, nil
	}
	return rk.events[0].Base().UUID, true, nil
}

// Tail implements recordkeeper.RecordKeeper.
func (rk *RecordKeeper) Tail() (uuid.UUID, bool, error) {
	rk.mu.Lock()
	defer rk.mu.Unlock()

	if len(rk.events) == 0 {
		return uuid.Nil, false, nil
	}
	return rk.events[len(rk.events)-1].Base().UUID, true, nil
}

// Next implements recordkeeper.RecordKeeper.
func (rk *RecordKeeper) Next(id uuid.UUID) (uuid.UUID, bool, error) {
	rk.mu.Lock()
	defer rk.mu.Unlock()

	idx, ok := rk.index[id]
	if !ok {
		return uuid.Nil, false, errors.NewStorage(errors.StorageNotFound, "event does not exist")
	}

	next := idx + 1
	if next == len(rk.events) {
		return uuid.Nil, false, nil
	}
	return rk.events[next].Base().UUID, true, nil
}

// ReadIntegrity implements integrity.TailReader.
func (rk *RecordKeeper) ReadIntegrity(id uuid.UUID) ([]byte, error) {
	event, err := rk.Read(id)
	if err != nil {
		return nil, err
	}
	return event.Base().Integrity, nil
}
