// Package schema wraps JSON Schema compilation and instance validation for
// annotation documents, using the same schema library the rest of the
// example corpus already depends on.
package schema

import (
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
)

// Schema is a compiled JSON Schema document, ready to validate instances.
type Schema struct {
	resolved *jsonschema.Resolved
}

// Compile parses raw as a JSON Schema document and resolves its references.
// It returns an error if raw is not valid JSON or is not itself a valid
// schema (the gonk "schema object must be a valid JSON Schema" rule).
func Compile(raw []byte) (*Schema, error) {
	var s jsonschema.Schema
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode json schema: %w", err)
	}

	resolved, err := s.Resolve(nil)
	if err != nil {
		return nil, fmt.Errorf("invalid json schema: %w", err)
	}

	return &Schema{resolved: resolved}, nil
}

// Validate reports whether instance (a JSON document) conforms to the
// schema.
func (s *Schema) Validate(instance []byte) error {
	var v any
	if err := json.Unmarshal(instance, &v); err != nil {
		return fmt.Errorf("decode instance: %w", err)
	}

	if err := s.resolved.Validate(v); err != nil {
		return fmt.Errorf("instance does not conform to schema: %w", err)
	}
	return nil
}
