// Package validate holds the business-rule validators that run ahead of
// state projection: field-shape checks and JSON Schema conformance.
package validate

import (
	"github.com/google/uuid"

	"github.com/kvshepherd-labs/ledgerkeep/internal/ledger"
	"github.com/kvshepherd-labs/ledgerkeep/internal/pkg/errors"
)

// Fields validates the shape of the Object or Annotation an event carries.
// Event kinds that carry neither (delete/review/owner events) are no-ops.
func Fields(event ledger.Event) error {
	switch e := event.(type) {
	case *ledger.ObjectCreateEvent:
		return validateObject(e.Object)
	case *ledger.ObjectUpdateEvent:
		return validateObject(e.Object)
	case *ledger.AnnotationCreateEvent:
		return validateAnnotation(e.Annotation)
	case *ledger.AnnotationUpdateEvent:
		return validateAnnotation(e.Annotation)
	}
	return nil
}

func validateObject(object ledger.Object) error {
	if len(object.Name) == 0 {
		return errors.NewValidation(errors.KindFieldShape, "object name cannot be empty")
	}
	if len(object.Format) == 0 {
		return errors.NewValidation(errors.KindFieldShape, "object format cannot be empty")
	}
	if object.HashType != ledger.HashTypeSHA256 {
		return errors.NewValidation(errors.KindFieldShape, "hash type must be SHA256")
	}
	if len(object.Hash) != 64 {
		return errors.NewValidation(errors.KindFieldShape, "hash should be a hex encoded SHA256")
	}
	return nil
}

func validateAnnotation(annotation ledger.Annotation) error {
	if annotation.Schema.UUID == uuid.Nil {
		return errors.NewValidation(errors.KindFieldShape, "annotation must reference a schema")
	}
	if annotation.HashType != ledger.HashTypeSHA256 {
		return errors.NewValidation(errors.KindFieldShape, "hash type must be SHA256")
	}
	if len(annotation.Hash) != 64 {
		return errors.NewValidation(errors.KindFieldShape, "hash should be a hex encoded SHA256")
	}
	return nil
}
