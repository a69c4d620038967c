package validate_test

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kvshepherd-labs/ledgerkeep/internal/ledger"
	pkgerrors "github.com/kvshepherd-labs/ledgerkeep/internal/pkg/errors"
	"github.com/kvshepherd-labs/ledgerkeep/internal/validate"
)

func sha256Hex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func validObject() ledger.Object {
	hash := sha256Hex([]byte("payload"))
	return ledger.NewObject("reading.csv", "text/csv", 7, ledger.HashTypeSHA256, hash)
}

func TestFields_ValidObjectCreate(t *testing.T) {
	ev := ledger.NewObjectCreateEvent(validObject(), "alice")
	require.NoError(t, validate.Fields(ev))
}

func TestFields_ObjectEmptyNameRejected(t *testing.T) {
	object := validObject()
	object.Name = ""
	ev := ledger.NewObjectCreateEvent(object, "alice")

	err := validate.Fields(ev)
	require.Error(t, err)
	verr, ok := pkgerrors.AsValidation(err)
	require.True(t, ok)
	require.Equal(t, pkgerrors.KindFieldShape, verr.Kind)
}

func TestFields_ObjectBadHashLengthRejected(t *testing.T) {
	object := validObject()
	object.Hash = "deadbeef"
	ev := ledger.NewObjectUpdateEvent(object, "alice")

	err := validate.Fields(ev)
	require.Error(t, err)
	verr, ok := pkgerrors.AsValidation(err)
	require.True(t, ok)
	require.Equal(t, pkgerrors.KindFieldShape, verr.Kind)
}

func TestFields_AnnotationMissingSchemaRejected(t *testing.T) {
	hash := sha256Hex([]byte("{}"))
	annotation := ledger.NewAnnotation(ledger.Identifier{}, 2, ledger.HashTypeSHA256, hash)
	ev := ledger.NewAnnotationCreateEvent(nil, annotation, "alice")

	err := validate.Fields(ev)
	require.Error(t, err)
	verr, ok := pkgerrors.AsValidation(err)
	require.True(t, ok)
	require.Equal(t, pkgerrors.KindFieldShape, verr.Kind)
}

func TestFields_NonCarryingEventIsNoop(t *testing.T) {
	ev := ledger.NewOwnerAddEvent("alice", "alice")
	require.NoError(t, validate.Fields(ev))
}
