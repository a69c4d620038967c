// Package fs implements depot.Depot over the local filesystem using a
// 3-character prefix fan-out, mirroring
// _examples/original_source/src/impl/fs.py's Depot.
package fs

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/kvshepherd-labs/ledgerkeep/internal/depot"
	"github.com/kvshepherd-labs/ledgerkeep/internal/ledger"
	"github.com/kvshepherd-labs/ledgerkeep/internal/pkg/errors"
	"github.com/kvshepherd-labs/ledgerkeep/internal/pkg/logger"
)

// writableSuffix marks a blob that has been reserved but not finalized.
const writableSuffix = ".wr"

// Depot is a filesystem-backed depot.Depot rooted at a "depot" directory
// under parentDir.
type Depot struct {
	root string
}

var _ depot.Depot = (*Depot)(nil)

// New creates a Depot rooted at filepath.Join(parentDir, "depot"),
// creating the directory if it doesn't exist. parentDir must already
// exist.
func New(parentDir string) (*Depot, error) {
	if _, err := os.Stat(parentDir); err != nil {
		return nil, fmt.Errorf("parent directory does not exist: %w", err)
	}
	root := filepath.Join(parentDir, "depot")
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create depot root: %w", err)
	}
	return &Depot{root: root}, nil
}

func key(id ledger.Identifier) string {
	return fmt.Sprintf("%s.%d", id.UUID.String(), id.Version)
}

func (d *Depot) dir(k string) string {
	return filepath.Join(d.root, k[0:1], k[1:2], k[2:3])
}

func (d *Depot) readablePath(k string) string {
	return filepath.Join(d.dir(k), k)
}

func (d *Depot) writablePath(k string) string {
	return filepath.Join(d.dir(k), k+writableSuffix)
}

func (d *Depot) state(k string) (depot.State, error) {
	if _, err := os.Stat(d.readablePath(k)); err == nil {
		return depot.StateReadable, nil
	} else if !os.IsNotExist(err) {
		return depot.StateNonexistent, errors.WrapStorage(errors.StorageIO, "stat readable blob", err)
	}

	if _, err := os.Stat(d.writablePath(k)); err == nil {
		return depot.StateWritable, nil
	} else if !os.IsNotExist(err) {
		return depot.StateNonexistent, errors.WrapStorage(errors.StorageIO, "stat writable blob", err)
	}

	return depot.StateNonexistent, nil
}

// Exists implements depot.Depot.
func (d *Depot) Exists(id ledger.Identifier) (bool, error) {
	st, err := d.state(key(id))
	if err != nil {
		return false, err
	}
	return st != depot.StateNonexistent, nil
}

// Reserve implements depot.Depot.
func (d *Depot) Reserve(id ledger.Identifier, size uint64) error {
	k := key(id)
	st, err := d.state(k)
	if err != nil {
		return err
	}
	if st != depot.StateNonexistent {
		return errors.NewStorage(errors.StorageAlreadyExists, "identifier already exists in storage")
	}

	if err := os.MkdirAll(d.dir(k), 0o755); err != nil {
		return errors.WrapStorage(errors.StorageIO, "create blob directory", err)
	}

	f, err := os.Create(d.writablePath(k))
	if err != nil {
		return errors.WrapStorage(errors.StorageIO, "create writable blob", err)
	}
	defer f.Close()

	if size > 0 {
		if err := f.Truncate(int64(size)); err != nil {
			return errors.WrapStorage(errors.StorageIO, "reserve blob size", err)
		}
	}
	return nil
}

// Write implements depot.Depot.
func (d *Depot) Write(id ledger.Identifier, offset uint64, buf []byte) error {
	k := key(id)
	st, err := d.state(k)
	if err != nil {
		return err
	}
	switch st {
	case depot.StateNonexistent:
		return errors.NewStorage(errors.StorageNotFound, "identifier not found in storage")
	case depot.StateReadable:
		return errors.NewStorage(errors.StorageAlreadyFinalized, "identifier already finalized")
	}

	path := d.writablePath(k)
	info, err := os.Stat(path)
	if err != nil {
		return errors.WrapStorage(errors.StorageIO, "stat writable blob", err)
	}
	if int64(offset)+int64(len(buf)) > info.Size() {
		return errors.NewStorage(errors.StorageBoundaryExceeded, "write outside of reserved boundary")
	}

	f, err := os.OpenFile(path, os.O_WRONLY, 0o644)
	if err != nil {
		return errors.WrapStorage(errors.StorageIO, "open writable blob", err)
	}
	defer f.Close()

	if _, err := f.WriteAt(buf, int64(offset)); err != nil {
		return errors.WrapStorage(errors.StorageIO, "write blob contents", err)
	}
	return nil
}

// Finalize implements depot.Depot.
func (d *Depot) Finalize(id ledger.Identifier) error {
	k := key(id)
	st, err := d.state(k)
	if err != nil {
		return err
	}
	switch st {
	case depot.StateNonexistent:
		return errors.NewStorage(errors.StorageNotFound, "identifier not found in storage")
	case depot.StateReadable:
		return errors.NewStorage(errors.StorageAlreadyFinalized, "identifier already finalized")
	}

	if err := os.Rename(d.writablePath(k), d.readablePath(k)); err != nil {
		return errors.WrapStorage(errors.StorageIO, "finalize blob", err)
	}
	return nil
}

// Read implements depot.Depot.
func (d *Depot) Read(id ledger.Identifier, offset, size uint64) ([]byte, error) {
	k := key(id)
	st, err := d.state(k)
	if err != nil {
		return nil, err
	}
	switch st {
	case depot.StateNonexistent:
		return nil, errors.NewStorage(errors.StorageNotFound, "identifier not found in storage")
	case depot.StateWritable:
		return nil, errors.NewStorage(errors.StorageNotFinalized, "identifier not finalized")
	}

	f, err := os.Open(d.readablePath(k))
	if err != nil {
		return nil, errors.WrapStorage(errors.StorageIO, "open readable blob", err)
	}
	defer f.Close()

	buf := make([]byte, size)
	n, err := f.ReadAt(buf, int64(offset))
	if err != nil && err != io.EOF {
		return nil, errors.WrapStorage(errors.StorageIO, "read blob contents", err)
	}
	return buf[:n], nil
}

// Purge implements depot.Depot.
func (d *Depot) Purge(id ledger.Identifier) error {
	k := key(id)
	st, err := d.state(k)
	if err != nil {
		return err
	}
	if st == depot.StateNonexistent {
		return errors.NewStorage(errors.StorageNotFound, "identifier not found in storage")
	}

	var path string
	if st == depot.StateReadable {
		path = d.readablePath(k)
	} else {
		path = d.writablePath(k)
	}

	if err := os.Remove(path); err != nil {
		logger.S().Warnw("failed to purge blob", "identifier", k, "error", err)
		return errors.WrapStorage(errors.StorageIO, "purge blob", err)
	}
	return nil
}
