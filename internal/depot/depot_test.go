package depot_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/kvshepherd-labs/ledgerkeep/internal/depot"
	depotfs "github.com/kvshepherd-labs/ledgerkeep/internal/depot/fs"
	depotmem "github.com/kvshepherd-labs/ledgerkeep/internal/depot/mem"
	"github.com/kvshepherd-labs/ledgerkeep/internal/ledger"
	pkgerrors "github.com/kvshepherd-labs/ledgerkeep/internal/pkg/errors"
)

func backends(t *testing.T) map[string]depot.Depot {
	t.Helper()
	fsDepot, err := depotfs.New(t.TempDir())
	require.NoError(t, err)
	return map[string]depot.Depot{
		"fs":  fsDepot,
		"mem": depotmem.New(),
	}
}

func TestDepot_ReserveWriteFinalizeRead(t *testing.T) {
	for name, d := range backends(t) {
		t.Run(name, func(t *testing.T) {
			id := ledger.Identifier{UUID: uuid.New(), Version: 0}

			exists, err := d.Exists(id)
			require.NoError(t, err)
			require.False(t, exists)

			require.NoError(t, d.Reserve(id, 11))
			require.NoError(t, d.Write(id, 0, []byte("hello")))
			require.NoError(t, d.Write(id, 5, []byte(" world")))
			require.NoError(t, d.Finalize(id))

			buf, err := d.Read(id, 0, 11)
			require.NoError(t, err)
			require.Equal(t, "hello world", string(buf))
		})
	}
}

func TestDepot_ReserveTwiceFails(t *testing.T) {
	for name, d := range backends(t) {
		t.Run(name, func(t *testing.T) {
			id := ledger.Identifier{UUID: uuid.New(), Version: 0}
			require.NoError(t, d.Reserve(id, 4))
			err := d.Reserve(id, 4)
			require.Error(t, err)
			serr, ok := pkgerrors.AsStorage(err)
			require.True(t, ok)
			require.Equal(t, pkgerrors.StorageAlreadyExists, serr.Kind)
		})
	}
}

func TestDepot_WriteBeforeReserveFails(t *testing.T) {
	for name, d := range backends(t) {
		t.Run(name, func(t *testing.T) {
			id := ledger.Identifier{UUID: uuid.New(), Version: 0}
			err := d.Write(id, 0, []byte("x"))
			require.Error(t, err)
			serr, ok := pkgerrors.AsStorage(err)
			require.True(t, ok)
			require.Equal(t, pkgerrors.StorageNotFound, serr.Kind)
		})
	}
}

func TestDepot_WriteAfterFinalizeFails(t *testing.T) {
	for name, d := range backends(t) {
		t.Run(name, func(t *testing.T) {
			id := ledger.Identifier{UUID: uuid.New(), Version: 0}
			require.NoError(t, d.Reserve(id, 4))
			require.NoError(t, d.Finalize(id))

			err := d.Write(id, 0, []byte("x"))
			require.Error(t, err)
			serr, ok := pkgerrors.AsStorage(err)
			require.True(t, ok)
			require.Equal(t, pkgerrors.StorageAlreadyFinalized, serr.Kind)
		})
	}
}

func TestDepot_WriteOutsideBoundaryFails(t *testing.T) {
	for name, d := range backends(t) {
		t.Run(name, func(t *testing.T) {
			id := ledger.Identifier{UUID: uuid.New(), Version: 0}
			require.NoError(t, d.Reserve(id, 4))

			err := d.Write(id, 2, []byte("abc"))
			require.Error(t, err)
			serr, ok := pkgerrors.AsStorage(err)
			require.True(t, ok)
			require.Equal(t, pkgerrors.StorageBoundaryExceeded, serr.Kind)
		})
	}
}

func TestDepot_ReadBeforeFinalizeFails(t *testing.T) {
	for name, d := range backends(t) {
		t.Run(name, func(t *testing.T) {
			id := ledger.Identifier{UUID: uuid.New(), Version: 0}
			require.NoError(t, d.Reserve(id, 4))

			_, err := d.Read(id, 0, 4)
			require.Error(t, err)
			serr, ok := pkgerrors.AsStorage(err)
			require.True(t, ok)
			require.Equal(t, pkgerrors.StorageNotFinalized, serr.Kind)
		})
	}
}

func TestDepot_PurgeRemovesBlobInEitherState(t *testing.T) {
	for name, d := range backends(t) {
		t.Run(name, func(t *testing.T) {
			writableID := ledger.Identifier{UUID: uuid.New(), Version: 0}
			require.NoError(t, d.Reserve(writableID, 4))
			require.NoError(t, d.Purge(writableID))
			exists, err := d.Exists(writableID)
			require.NoError(t, err)
			require.False(t, exists)

			readableID := ledger.Identifier{UUID: uuid.New(), Version: 0}
			require.NoError(t, d.Reserve(readableID, 4))
			require.NoError(t, d.Finalize(readableID))
			require.NoError(t, d.Purge(readableID))
			exists, err = d.Exists(readableID)
			require.NoError(t, err)
			require.False(t, exists)
		})
	}
}
