package validate_test

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/google/uuid"

	depotmem "github.com/kvshepherd-labs/ledgerkeep/internal/depot/mem"
	"github.com/kvshepherd-labs/ledgerkeep/internal/ledger"
	pkgerrors "github.com/kvshepherd-labs/ledgerkeep/internal/pkg/errors"
	"github.com/kvshepherd-labs/ledgerkeep/internal/validate"
)

const personSchemaDoc = `{"type":"object","required":["name"],"properties":{"name":{"type":"string"}}}`

func putBlob(t *testing.T, d *depotmem.Depot, id ledger.Identifier, data []byte) {
	t.Helper()
	require.NoError(t, d.Reserve(id, uint64(len(data))))
	require.NoError(t, d.Write(id, 0, data))
	require.NoError(t, d.Finalize(id))
}

func sha256HexBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func TestSchemaValidator_AcceptsWellFormedSchemaObject(t *testing.T) {
	d := depotmem.New()
	v := validate.NewSchemaValidator(d)

	schemaBytes := []byte(personSchemaDoc)
	object := ledger.NewObject("schema-person", ledger.SchemaMimetype, uint64(len(schemaBytes)), ledger.HashTypeSHA256, sha256HexBytes(schemaBytes))
	putBlob(t, d, object.Identifier(), schemaBytes)

	ev := ledger.NewObjectCreateEvent(object, "alice")
	require.NoError(t, v.Validate(ev))
	require.NoError(t, v.Consume(ev))
}

func TestSchemaValidator_RejectsMalformedSchemaObject(t *testing.T) {
	d := depotmem.New()
	v := validate.NewSchemaValidator(d)

	schemaBytes := []byte(`{"type": "not-a-real-type"}`)
	object := ledger.NewObject("schema-broken", ledger.SchemaMimetype, uint64(len(schemaBytes)), ledger.HashTypeSHA256, sha256HexBytes(schemaBytes))
	putBlob(t, d, object.Identifier(), schemaBytes)

	ev := ledger.NewObjectCreateEvent(object, "alice")

	err := v.Validate(ev)
	require.Error(t, err)
	verr, ok := pkgerrors.AsValidation(err)
	require.True(t, ok)
	require.Equal(t, pkgerrors.KindSchema, verr.Kind)
}

func TestSchemaValidator_IgnoresNonSchemaObjects(t *testing.T) {
	d := depotmem.New()
	v := validate.NewSchemaValidator(d)

	object := ledger.NewObject("reading.csv", "text/csv", 3, ledger.HashTypeSHA256, sha256HexBytes([]byte("abc")))
	ev := ledger.NewObjectCreateEvent(object, "alice")

	require.NoError(t, v.Validate(ev))
}

func TestSchemaValidator_AnnotationMustConformToTrackedSchema(t *testing.T) {
	d := depotmem.New()
	v := validate.NewSchemaValidator(d)

	schemaBytes := []byte(personSchemaDoc)
	schemaObject := ledger.NewObject("schema-person", ledger.SchemaMimetype, uint64(len(schemaBytes)), ledger.HashTypeSHA256, sha256HexBytes(schemaBytes))
	putBlob(t, d, schemaObject.Identifier(), schemaBytes)

	schemaEv := ledger.NewObjectCreateEvent(schemaObject, "alice")
	require.NoError(t, v.Validate(schemaEv))
	require.NoError(t, v.Consume(schemaEv))

	goodInstance := []byte(`{"name": "ada"}`)
	goodAnnotation := ledger.NewAnnotation(schemaObject.Identifier(), uint64(len(goodInstance)), ledger.HashTypeSHA256, sha256HexBytes(goodInstance))
	putBlob(t, d, goodAnnotation.Identifier(), goodInstance)

	goodEv := ledger.NewAnnotationCreateEvent(nil, goodAnnotation, "alice")
	require.NoError(t, v.Validate(goodEv))

	badInstance := []byte(`{}`)
	badAnnotation := ledger.NewAnnotation(schemaObject.Identifier(), uint64(len(badInstance)), ledger.HashTypeSHA256, sha256HexBytes(badInstance))
	putBlob(t, d, badAnnotation.Identifier(), badInstance)

	badEv := ledger.NewAnnotationCreateEvent(nil, badAnnotation, "alice")
	err := v.Validate(badEv)
	require.Error(t, err)
	verr, ok := pkgerrors.AsValidation(err)
	require.True(t, ok)
	require.Equal(t, pkgerrors.KindSchema, verr.Kind)
}

func TestSchemaValidator_UntrackedSchemaReferenceIsNoop(t *testing.T) {
	d := depotmem.New()
	v := validate.NewSchemaValidator(d)

	annotation := ledger.NewAnnotation(ledger.Identifier{UUID: uuid.New(), Version: 0}, 2, ledger.HashTypeSHA256, sha256HexBytes([]byte("{}")))
	ev := ledger.NewAnnotationCreateEvent(nil, annotation, "alice")
	require.NoError(t, v.Validate(ev))
}
