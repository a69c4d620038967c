// Package mem implements depot.Depot in memory, for tests and for
// datasets that don't need durability (e.g. scratch imports).
package mem

import (
	"strconv"
	"sync"

	"github.com/kvshepherd-labs/ledgerkeep/internal/depot"
	"github.com/kvshepherd-labs/ledgerkeep/internal/ledger"
	"github.com/kvshepherd-labs/ledgerkeep/internal/pkg/errors"
)

type blob struct {
	data  []byte
	state depot.State
}

// Depot is an in-memory depot.Depot.
type Depot struct {
	mu    sync.Mutex
	blobs map[string]*blob
}

var _ depot.Depot = (*Depot)(nil)

// New constructs an empty in-memory Depot.
func New() *Depot {
	return &Depot{blobs: make(map[string]*blob)}
}

func key(id ledger.Identifier) string {
	return id.UUID.String() + "." + strconv.FormatUint(id.Version, 10)
}

// Exists implements depot.Depot.
func (d *Depot) Exists(id ledger.Identifier) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.blobs[key(id)]
	return ok, nil
}

// Reserve implements depot.Depot.
func (d *Depot) Reserve(id ledger.Identifier, size uint64) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	k := key(id)
	if _, ok := d.blobs[k]; ok {
		return errors.NewStorage(errors.StorageAlreadyExists, "identifier already exists in storage")
	}
	d.blobs[k] = &blob{data: make([]byte, size), state: depot.StateWritable}
	return nil
}

// Write implements depot.Depot.
func (d *Depot) Write(id ledger.Identifier, offset uint64, buf []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	b, ok := d.blobs[key(id)]
	if !ok {
		return errors.NewStorage(errors.StorageNotFound, "identifier not found in storage")
	}
	if b.state == depot.StateReadable {
		return errors.NewStorage(errors.StorageAlreadyFinalized, "identifier already finalized")
	}
	if offset+uint64(len(buf)) > uint64(len(b.data)) {
		return errors.NewStorage(errors.StorageBoundaryExceeded, "write outside of reserved boundary")
	}
	copy(b.data[offset:], buf)
	return nil
}

// Finalize implements depot.Depot.
func (d *Depot) Finalize(id ledger.Identifier) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	b, ok := d.blobs[key(id)]
	if !ok {
		return errors.NewStorage(errors.StorageNotFound, "identifier not found in storage")
	}
	if b.state == depot.StateReadable {
		return errors.NewStorage(errors.StorageAlreadyFinalized, "identifier already finalized")
	}
	b.state = depot.StateReadable
	return nil
}

// Read implements depot.Depot.
func (d *Depot) Read(id ledger.Identifier, offset, size uint64) ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	b, ok := d.blobs[key(id)]
	if !ok {
		return nil, errors.NewStorage(errors.StorageNotFound, "identifier not found in storage")
	}
	if b.state == depot.StateWritable {
		return nil, errors.NewStorage(errors.StorageNotFinalized, "identifier not finalized")
	}
	if offset >= uint64(len(b.data)) {
		return []byte{}, nil
	}
	end := offset + size
	if end > uint64(len(b.data)) {
		end = uint64(len(b.data))
	}
	out := make([]byte, end-offset)
	copy(out, b.data[offset:end])
	return out, nil
}

// Purge implements depot.Depot.
func (d *Depot) Purge(id ledger.Identifier) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	k := key(id)
	if _, ok := d.blobs[k]; !ok {
		return errors.NewStorage(errors.StorageNotFound, "identifier not found in storage")
	}
	delete(d.blobs, k)
	return nil
}
