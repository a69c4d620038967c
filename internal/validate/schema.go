package validate

import (
	"sync"

	"github.com/kvshepherd-labs/ledgerkeep/internal/depot"
	"github.com/kvshepherd-labs/ledgerkeep/internal/ledger"
	"github.com/kvshepherd-labs/ledgerkeep/internal/pkg/errors"
	schemapkg "github.com/kvshepherd-labs/ledgerkeep/internal/schema"
)

// SchemaValidator checks that schema objects are well-formed JSON Schema
// documents and that annotations conform to the schema they reference.
// It is both a Validator (schema well-formedness, annotation conformance)
// and a Consumer (it must track every schema object's identifier and size
// as object_create/object_update events are processed, so later
// annotations can be checked against them).
type SchemaValidator struct {
	depot depot.Depot

	mu      sync.Mutex
	schemas map[ledger.Identifier]uint64 // identifier -> blob size
}

// NewSchemaValidator constructs a SchemaValidator reading blobs from d.
func NewSchemaValidator(d depot.Depot) *SchemaValidator {
	return &SchemaValidator{depot: d, schemas: make(map[ledger.Identifier]uint64)}
}

// Validate implements the Validator role.
func (v *SchemaValidator) Validate(event ledger.Event) error {
	switch e := event.(type) {
	case *ledger.ObjectCreateEvent:
		return v.validateObject(e.Object)
	case *ledger.ObjectUpdateEvent:
		return v.validateObject(e.Object)
	case *ledger.AnnotationCreateEvent:
		return v.validateAnnotation(e.Annotation)
	case *ledger.AnnotationUpdateEvent:
		return v.validateAnnotation(e.Annotation)
	}
	return nil
}

// Consume implements the Consumer role: schema objects are remembered so
// future annotations can be validated against them.
func (v *SchemaValidator) Consume(event ledger.Event) error {
	switch e := event.(type) {
	case *ledger.ObjectCreateEvent:
		v.rememberSchema(e.Object)
	case *ledger.ObjectUpdateEvent:
		v.rememberSchema(e.Object)
	}
	return nil
}

func (v *SchemaValidator) rememberSchema(object ledger.Object) {
	if !object.IsSchema() {
		return
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.schemas[object.Identifier()] = object.Size
}

func (v *SchemaValidator) validateObject(object ledger.Object) error {
	if !object.IsSchema() {
		return nil
	}

	raw, err := v.depot.Read(object.Identifier(), 0, object.Size)
	if err != nil {
		return err
	}

	if _, err := schemapkg.Compile(raw); err != nil {
		return errors.WrapValidation(errors.KindSchema, err, "invalid JSON schema")
	}
	return nil
}

func (v *SchemaValidator) validateAnnotation(annotation ledger.Annotation) error {
	v.mu.Lock()
	size, tracked := v.schemas[annotation.Schema]
	v.mu.Unlock()
	if !tracked {
		return nil
	}

	schemaBytes, err := v.depot.Read(annotation.Schema, 0, size)
	if err != nil {
		return err
	}

	compiled, err := schemapkg.Compile(schemaBytes)
	if err != nil {
		return errors.WrapValidation(errors.KindSchema, err, "invalid JSON schema")
	}

	instance, err := v.depot.Read(annotation.Identifier(), 0, annotation.Size)
	if err != nil {
		return err
	}

	if err := compiled.Validate(instance); err != nil {
		return errors.WrapValidation(errors.KindSchema, err, "annotation does not match schema")
	}
	return nil
}
