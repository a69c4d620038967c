package dataset_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kvshepherd-labs/ledgerkeep/internal/dataset"
	depotmem "github.com/kvshepherd-labs/ledgerkeep/internal/depot/mem"
	"github.com/kvshepherd-labs/ledgerkeep/internal/ledger"
	"github.com/kvshepherd-labs/ledgerkeep/internal/ledger/integrity"
	pkgerrors "github.com/kvshepherd-labs/ledgerkeep/internal/pkg/errors"
	rkmem "github.com/kvshepherd-labs/ledgerkeep/internal/recordkeeper/mem"
)

func sha256Hex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// fixture bundles a Dataset with the same RecordKeeper its HashChainLinker
// reads from, mirroring the host responsibility dataset.ProcessEvent's doc
// comment describes: link, then process.
type fixture struct {
	ds     *dataset.Dataset
	linker *integrity.HashChainLinker
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	rk := rkmem.New()
	ds := dataset.New("readings", depotmem.New(), rk, dataset.IntegrityHashChain)
	return &fixture{ds: ds, linker: integrity.NewHashChainLinker(rk)}
}

// process links event for author and runs it through the dataset.
func (f *fixture) process(t *testing.T, ctx context.Context, event ledger.Event, author string) error {
	t.Helper()
	require.NoError(t, f.linker.Link(event, author))
	return f.ds.ProcessEvent(ctx, event)
}

func TestDataset_ProcessEventOwnerThenObject(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ownerEvent := ledger.NewOwnerAddEvent("alice", "alice")
	require.NoError(t, f.process(t, ctx, ownerEvent, "alice"))
	require.True(t, f.ds.State().OwnerExists("alice"))

	obj := ledger.NewObject("reading.csv", "text/csv", 7, ledger.HashTypeSHA256, sha256Hex([]byte("reading.csv")))
	createEvent := ledger.NewObjectCreateEvent(obj, "alice")
	require.NoError(t, f.process(t, ctx, createEvent, "alice"))

	exists, err := f.ds.RecordKeeper().Exists(createEvent.UUID)
	require.NoError(t, err)
	require.True(t, exists)
	require.True(t, f.ds.State().ObjectExists(obj.Identifier()))
}

func TestDataset_ProcessEventRejectsDuplicateUUID(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ev := ledger.NewOwnerAddEvent("alice", "alice")
	require.NoError(t, f.process(t, ctx, ev, "alice"))

	// Re-processing the same already-linked event hits the RecordKeeper's
	// uniqueness check before the stale integrity bytes would even matter.
	err := f.ds.ProcessEvent(ctx, ev)
	require.Error(t, err)
	verr, ok := pkgerrors.AsValidation(err)
	require.True(t, ok)
	require.Equal(t, pkgerrors.KindDuplicateUUID, verr.Kind)
}

func TestDataset_ProcessEventAbortsOnCancelledContext(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ev := ledger.NewOwnerAddEvent("alice", "alice")
	require.NoError(t, f.linker.Link(ev, "alice"))
	err := f.ds.ProcessEvent(ctx, ev)
	require.Error(t, err)
	require.False(t, f.ds.State().OwnerExists("alice"))
}

func TestDataset_UnlinkedEventRejectedByIntegrityValidator(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// An event that never went through the HashChainLinker carries no
	// integrity bytes; the integrity validator must refuse it.
	ev := ledger.NewOwnerAddEvent("alice", "alice")
	err := f.ds.ProcessEvent(ctx, ev)
	require.Error(t, err)
	verr, ok := pkgerrors.AsValidation(err)
	require.True(t, ok)
	require.Equal(t, pkgerrors.KindIntegrity, verr.Kind)
}

func TestDataset_RejectedEventLeavesNoTrace(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// The field validator runs ahead of the RecordKeeper stage, so an
	// empty object name is refused before the log or state ever see it.
	badObject := ledger.NewObject("", "text/csv", 7, ledger.HashTypeSHA256, sha256Hex([]byte("x")))
	ev := ledger.NewObjectCreateEvent(badObject, "alice")

	err := f.process(t, ctx, ev, "alice")
	require.Error(t, err)
	verr, ok := pkgerrors.AsValidation(err)
	require.True(t, ok)
	require.Equal(t, pkgerrors.KindFieldShape, verr.Kind)

	exists, err := f.ds.RecordKeeper().Exists(ev.UUID)
	require.NoError(t, err)
	require.False(t, exists)
	require.False(t, f.ds.State().ObjectExists(badObject.Identifier()))
}

func TestDataset_ChainedIntegrityAcrossEvents(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := ledger.NewOwnerAddEvent("alice", "alice")
	require.NoError(t, f.process(t, ctx, first, "alice"))

	second := ledger.NewOwnerAddEvent("bob", "alice")
	require.NoError(t, f.process(t, ctx, second, "alice"))

	tail, ok, err := f.ds.RecordKeeper().Tail()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, second.UUID, tail)
}

func TestRegistry_AddGetRemove(t *testing.T) {
	reg := dataset.NewRegistry()
	f := newFixture(t)

	_, ok := reg.Get("readings")
	require.False(t, ok)

	reg.Add(f.ds)
	got, ok := reg.Get("readings")
	require.True(t, ok)
	require.Same(t, f.ds, got)
	require.Equal(t, []string{"readings"}, reg.Names())

	reg.Remove("readings")
	_, ok = reg.Get("readings")
	require.False(t, ok)
}
