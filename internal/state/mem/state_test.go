package mem_test

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kvshepherd-labs/ledgerkeep/internal/ledger"
	pkgerrors "github.com/kvshepherd-labs/ledgerkeep/internal/pkg/errors"
	rkmem "github.com/kvshepherd-labs/ledgerkeep/internal/recordkeeper/mem"
	"github.com/kvshepherd-labs/ledgerkeep/internal/state"
	"github.com/kvshepherd-labs/ledgerkeep/internal/state/mem"
)

func sha256Hex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func newObject(name string) ledger.Object {
	return ledger.NewObject(name, "text/csv", 7, ledger.HashTypeSHA256, sha256Hex([]byte(name)))
}

// apply validates and then consumes event against both rk and st, mirroring
// what dataset.Dataset's pipeline does for the state-owned stages.
func apply(t *testing.T, rk *rkmem.RecordKeeper, st *mem.State, event ledger.Event) error {
	t.Helper()
	if err := st.Validate(event); err != nil {
		return err
	}
	require.NoError(t, rk.Add(event))
	return st.Consume(event)
}

func TestState_ObjectCreateThenQuery(t *testing.T) {
	rk := rkmem.New()
	st := mem.New(rk)

	obj := newObject("reading.csv")
	ev := ledger.NewObjectCreateEvent(obj, "alice")

	require.NoError(t, apply(t, rk, st, ev))
	require.True(t, st.ObjectExists(obj.Identifier()))

	got, ok := st.Object(obj.Identifier())
	require.True(t, ok)
	require.Equal(t, obj, got)

	statusSet, ok := st.ObjectStatus(obj.Identifier())
	require.True(t, ok)
	require.True(t, statusSet.Has(state.StatusCreatePending))
	require.True(t, st.EventPending(ev.UUID))
}

func TestState_ObjectCreateDuplicateUUIDRejected(t *testing.T) {
	rk := rkmem.New()
	st := mem.New(rk)

	obj := newObject("reading.csv")
	require.NoError(t, apply(t, rk, st, ledger.NewObjectCreateEvent(obj, "alice")))

	dup := obj
	dup.Hash = sha256Hex([]byte("different"))
	err := st.Validate(ledger.NewObjectCreateEvent(dup, "alice"))
	require.Error(t, err)
	verr, ok := pkgerrors.AsValidation(err)
	require.True(t, ok)
	require.Equal(t, pkgerrors.KindDuplicateUUID, verr.Kind)
}

func TestState_ObjectCreateDuplicateHashRejected(t *testing.T) {
	rk := rkmem.New()
	st := mem.New(rk)

	hash := sha256Hex([]byte("shared"))
	first := ledger.NewObject("a.csv", "text/csv", 7, ledger.HashTypeSHA256, hash)
	require.NoError(t, apply(t, rk, st, ledger.NewObjectCreateEvent(first, "alice")))

	second := ledger.NewObject("b.csv", "text/csv", 7, ledger.HashTypeSHA256, hash)
	err := st.Validate(ledger.NewObjectCreateEvent(second, "alice"))
	require.Error(t, err)
	verr, ok := pkgerrors.AsValidation(err)
	require.True(t, ok)
	require.Equal(t, pkgerrors.KindDuplicateHash, verr.Kind)
}

func TestState_ObjectUpdateVersionMismatchRejected(t *testing.T) {
	rk := rkmem.New()
	st := mem.New(rk)

	obj := newObject("reading.csv")
	require.NoError(t, apply(t, rk, st, ledger.NewObjectCreateEvent(obj, "alice")))

	badUpdate := obj
	badUpdate.Version = 5
	badUpdate.Hash = sha256Hex([]byte("v5"))
	err := st.Validate(ledger.NewObjectUpdateEvent(badUpdate, "alice"))
	require.Error(t, err)
	verr, ok := pkgerrors.AsValidation(err)
	require.True(t, ok)
	require.Equal(t, pkgerrors.KindVersionMismatch, verr.Kind)
}

func TestState_ObjectUpdateAppendsVersion(t *testing.T) {
	rk := rkmem.New()
	st := mem.New(rk)

	obj := newObject("reading.csv")
	require.NoError(t, apply(t, rk, st, ledger.NewObjectCreateEvent(obj, "alice")))

	next := obj
	next.Version = 1
	next.Hash = sha256Hex([]byte("v1"))
	require.NoError(t, apply(t, rk, st, ledger.NewObjectUpdateEvent(next, "alice")))

	versions, ok := st.ObjectVersions(obj.UUID)
	require.True(t, ok)
	require.Len(t, versions, 2)
	require.Equal(t, next, versions[1])
}

func TestState_SchemaObjectCannotBeDeleted(t *testing.T) {
	rk := rkmem.New()
	st := mem.New(rk)

	schemaObj := ledger.NewObject("schema-reading", ledger.SchemaMimetype, 7, ledger.HashTypeSHA256, sha256Hex([]byte("s")))
	require.NoError(t, apply(t, rk, st, ledger.NewObjectCreateEvent(schemaObj, "alice")))

	err := st.Validate(ledger.NewObjectDeleteEvent(schemaObj.Identifier(), "alice"))
	require.Error(t, err)
	verr, ok := pkgerrors.AsValidation(err)
	require.True(t, ok)
	require.Equal(t, pkgerrors.KindSchemaImmutable, verr.Kind)
}

func TestState_SchemaNameCollisionRejected(t *testing.T) {
	rk := rkmem.New()
	st := mem.New(rk)

	first := ledger.NewObject("schema-reading", ledger.SchemaMimetype, 7, ledger.HashTypeSHA256, sha256Hex([]byte("s1")))
	require.NoError(t, apply(t, rk, st, ledger.NewObjectCreateEvent(first, "alice")))

	second := ledger.NewObject("schema-reading", ledger.SchemaMimetype, 7, ledger.HashTypeSHA256, sha256Hex([]byte("s2")))
	err := st.Validate(ledger.NewObjectCreateEvent(second, "alice"))
	require.Error(t, err)
	verr, ok := pkgerrors.AsValidation(err)
	require.True(t, ok)
	require.Equal(t, pkgerrors.KindDuplicateName, verr.Kind)
}

func TestState_AnnotationCreateOnSchemaRejected(t *testing.T) {
	rk := rkmem.New()
	st := mem.New(rk)

	schemaObj := ledger.NewObject("schema-reading", ledger.SchemaMimetype, 7, ledger.HashTypeSHA256, sha256Hex([]byte("s")))
	require.NoError(t, apply(t, rk, st, ledger.NewObjectCreateEvent(schemaObj, "alice")))

	ann := ledger.NewAnnotation(schemaObj.Identifier(), 4, ledger.HashTypeSHA256, sha256Hex([]byte("ann")))
	err := st.Validate(ledger.NewAnnotationCreateEvent([]ledger.Identifier{schemaObj.Identifier()}, ann, "alice"))
	require.Error(t, err)
	verr, ok := pkgerrors.AsValidation(err)
	require.True(t, ok)
	require.Equal(t, pkgerrors.KindStatus, verr.Kind)
}

func TestState_AnnotationLifecycleAndLinks(t *testing.T) {
	rk := rkmem.New()
	st := mem.New(rk)

	schemaObj := ledger.NewObject("schema-reading", ledger.SchemaMimetype, 7, ledger.HashTypeSHA256, sha256Hex([]byte("s")))
	require.NoError(t, apply(t, rk, st, ledger.NewObjectCreateEvent(schemaObj, "alice")))

	target := newObject("reading.csv")
	require.NoError(t, apply(t, rk, st, ledger.NewObjectCreateEvent(target, "alice")))

	ann := ledger.NewAnnotation(schemaObj.Identifier(), 4, ledger.HashTypeSHA256, sha256Hex([]byte("ann")))
	annEvent := ledger.NewAnnotationCreateEvent([]ledger.Identifier{target.Identifier()}, ann, "alice")
	require.NoError(t, apply(t, rk, st, annEvent))

	linked := st.AnnotationsByObject(target.Identifier())
	require.Len(t, linked, 1)
	require.Equal(t, ann.UUID, linked[0].UUID)

	backLinked := st.ObjectsByAnnotation(ann.UUID)
	require.Len(t, backLinked, 1)
	require.Equal(t, target.UUID, backLinked[0].UUID)
}

func TestState_AnnotationUpdateVersionMismatchRaisesError(t *testing.T) {
	// Open Question correction (spec.md §9): unlike the Python original's
	// silent no-op, a version mismatch must raise a ValidationError.
	rk := rkmem.New()
	st := mem.New(rk)

	schemaObj := ledger.NewObject("schema-reading", ledger.SchemaMimetype, 7, ledger.HashTypeSHA256, sha256Hex([]byte("s")))
	require.NoError(t, apply(t, rk, st, ledger.NewObjectCreateEvent(schemaObj, "alice")))

	target := newObject("reading.csv")
	require.NoError(t, apply(t, rk, st, ledger.NewObjectCreateEvent(target, "alice")))

	ann := ledger.NewAnnotation(schemaObj.Identifier(), 4, ledger.HashTypeSHA256, sha256Hex([]byte("ann")))
	require.NoError(t, apply(t, rk, st, ledger.NewAnnotationCreateEvent([]ledger.Identifier{target.Identifier()}, ann, "alice")))

	badUpdate := ann
	badUpdate.Version = 9
	badUpdate.Hash = sha256Hex([]byte("bad"))
	err := st.Validate(ledger.NewAnnotationUpdateEvent(badUpdate, "alice"))
	require.Error(t, err)
	verr, ok := pkgerrors.AsValidation(err)
	require.True(t, ok)
	require.Equal(t, pkgerrors.KindVersionMismatch, verr.Kind)
}

func TestState_OwnerRosterFirstAddMustBeSelfSigned(t *testing.T) {
	rk := rkmem.New()
	st := mem.New(rk)

	err := st.Validate(ledger.NewOwnerAddEvent("alice", "bob"))
	require.Error(t, err)
	verr, ok := pkgerrors.AsValidation(err)
	require.True(t, ok)
	require.Equal(t, pkgerrors.KindOwnerRoster, verr.Kind)

	require.NoError(t, apply(t, rk, st, ledger.NewOwnerAddEvent("alice", "alice")))
	require.True(t, st.OwnerExists("alice"))
}

func TestState_OwnerAddRequiresExistingOwnerAuthor(t *testing.T) {
	rk := rkmem.New()
	st := mem.New(rk)

	require.NoError(t, apply(t, rk, st, ledger.NewOwnerAddEvent("alice", "alice")))

	err := st.Validate(ledger.NewOwnerAddEvent("carol", "mallory"))
	require.Error(t, err)
	verr, ok := pkgerrors.AsValidation(err)
	require.True(t, ok)
	require.Equal(t, pkgerrors.KindNotAnOwner, verr.Kind)
}

func TestState_OwnerRemoveCannotRemoveHigherRank(t *testing.T) {
	// Open Question correction (spec.md §9): a lower-ranked owner (later
	// insertion, larger rank index) cannot remove a higher-ranked one.
	rk := rkmem.New()
	st := mem.New(rk)

	require.NoError(t, apply(t, rk, st, ledger.NewOwnerAddEvent("alice", "alice")))
	require.NoError(t, apply(t, rk, st, ledger.NewOwnerAddEvent("bob", "alice")))

	err := st.Validate(ledger.NewOwnerRemoveEvent("alice", "bob"))
	require.Error(t, err)
	verr, ok := pkgerrors.AsValidation(err)
	require.True(t, ok)
	require.Equal(t, pkgerrors.KindOwnerRank, verr.Kind)

	require.NoError(t, apply(t, rk, st, ledger.NewOwnerRemoveEvent("bob", "alice")))
	require.False(t, st.OwnerExists("bob"))
}

func TestState_OwnerRemoveCannotEmptyRoster(t *testing.T) {
	rk := rkmem.New()
	st := mem.New(rk)

	require.NoError(t, apply(t, rk, st, ledger.NewOwnerAddEvent("alice", "alice")))

	err := st.Validate(ledger.NewOwnerRemoveEvent("alice", "alice"))
	require.Error(t, err)
	verr, ok := pkgerrors.AsValidation(err)
	require.True(t, ok)
	require.Equal(t, pkgerrors.KindOwnerRoster, verr.Kind)
}

func TestState_ReviewAcceptResolvesPendingCreate(t *testing.T) {
	rk := rkmem.New()
	st := mem.New(rk)

	require.NoError(t, apply(t, rk, st, ledger.NewOwnerAddEvent("alice", "alice")))

	obj := newObject("reading.csv")
	createEvent := ledger.NewObjectCreateEvent(obj, "alice")
	require.NoError(t, apply(t, rk, st, createEvent))
	require.True(t, st.EventPending(createEvent.UUID))

	accept := ledger.NewReviewAcceptEvent(createEvent.UUID, "alice")
	require.NoError(t, apply(t, rk, st, accept))

	require.False(t, st.EventPending(createEvent.UUID))
	statusSet, ok := st.ObjectStatus(obj.Identifier())
	require.True(t, ok)
	require.False(t, statusSet.Has(state.StatusCreatePending))

	objs := st.ObjectsByStatus(state.StatusAccepted, nil)
	require.Len(t, objs, 1)
	require.Equal(t, obj.UUID, objs[0].UUID)
}

func TestState_ReviewRejectMarksCreateRejected(t *testing.T) {
	rk := rkmem.New()
	st := mem.New(rk)

	require.NoError(t, apply(t, rk, st, ledger.NewOwnerAddEvent("alice", "alice")))

	obj := newObject("reading.csv")
	createEvent := ledger.NewObjectCreateEvent(obj, "alice")
	require.NoError(t, apply(t, rk, st, createEvent))

	reject := ledger.NewReviewRejectEvent(createEvent.UUID, "alice")
	require.NoError(t, apply(t, rk, st, reject))

	statusSet, ok := st.ObjectStatus(obj.Identifier())
	require.True(t, ok)
	require.True(t, statusSet.Has(state.StatusCreateRejected))

	// A rejected object cannot then be deleted.
	err := st.Validate(ledger.NewObjectDeleteEvent(obj.Identifier(), "alice"))
	require.Error(t, err)
	verr, ok := pkgerrors.AsValidation(err)
	require.True(t, ok)
	require.Equal(t, pkgerrors.KindStatus, verr.Kind)
}

func TestState_ReviewCannotTargetAlreadyReviewedEvent(t *testing.T) {
	rk := rkmem.New()
	st := mem.New(rk)

	require.NoError(t, apply(t, rk, st, ledger.NewOwnerAddEvent("alice", "alice")))

	obj := newObject("reading.csv")
	createEvent := ledger.NewObjectCreateEvent(obj, "alice")
	require.NoError(t, apply(t, rk, st, createEvent))
	require.NoError(t, apply(t, rk, st, ledger.NewReviewAcceptEvent(createEvent.UUID, "alice")))

	err := st.Validate(ledger.NewReviewAcceptEvent(createEvent.UUID, "alice"))
	require.Error(t, err)
	verr, ok := pkgerrors.AsValidation(err)
	require.True(t, ok)
	require.Equal(t, pkgerrors.KindAlreadyReviewed, verr.Kind)
}

func TestState_ReviewFromNonOwnerRejected(t *testing.T) {
	rk := rkmem.New()
	st := mem.New(rk)

	require.NoError(t, apply(t, rk, st, ledger.NewOwnerAddEvent("alice", "alice")))

	obj := newObject("reading.csv")
	createEvent := ledger.NewObjectCreateEvent(obj, "alice")
	require.NoError(t, apply(t, rk, st, createEvent))

	err := st.Validate(ledger.NewReviewAcceptEvent(createEvent.UUID, "mallory"))
	require.Error(t, err)
	verr, ok := pkgerrors.AsValidation(err)
	require.True(t, ok)
	require.Equal(t, pkgerrors.KindNotAnOwner, verr.Kind)
}

func TestState_ObjectsAllPagination(t *testing.T) {
	rk := rkmem.New()
	st := mem.New(rk)

	for i := 0; i < 3; i++ {
		obj := newObject(string(rune('a' + i)))
		require.NoError(t, apply(t, rk, st, ledger.NewObjectCreateEvent(obj, "alice")))
	}

	all := st.ObjectsAll(nil)
	require.Len(t, all, 3)

	// Querying after the final inserted UUID yields nothing further.
	require.Empty(t, st.ObjectsAll(&all[2].UUID))
}
