// Package state defines the derived-index projection every dataset
// maintains alongside its event log: per-entity version history, schema
// name registry, review/status tracking, and the object/annotation link
// graph, plus the business-rule validator that reads those indexes.
package state

import (
	"github.com/google/uuid"

	"github.com/kvshepherd-labs/ledgerkeep/internal/ledger"
)

// PageSize bounds every paginated query result.
const PageSize = 25

// Status is one entity-lifecycle flag. An entity's current status is the
// subset of flags held in its StatusSet.
type Status string

// Supported statuses. These are the flags an entity's StatusSet can hold;
// spec.md §3.5 invariant 6 restricts a StatusSet to one of six
// combinations of these four.
const (
	StatusCreatePending  Status = "CREATE_PENDING"
	StatusCreateRejected Status = "CREATE_REJECTED"
	StatusDeletePending  Status = "DELETE_PENDING"
	StatusDeleteAccepted Status = "DELETE_ACCEPTED"
)

// Query-only status buckets for the listing queries of spec.md §4.5. These
// never appear in a StatusSet; they classify a version by StatusSet plus
// its position in its UUID's version history. StatusAccepted is an empty
// StatusSet on the latest version; StatusDeprecated is an empty StatusSet
// on a version that has since been superseded.
const (
	StatusAccepted   Status = "ACCEPTED"
	StatusDeprecated Status = "DEPRECATED"
)

// StatusSet is the subset of Status flags currently held by an entity.
type StatusSet map[Status]struct{}

// NewStatusSet builds a StatusSet holding exactly the given flags.
func NewStatusSet(statuses ...Status) StatusSet {
	s := make(StatusSet, len(statuses))
	for _, st := range statuses {
		s[st] = struct{}{}
	}
	return s
}

// Has reports whether status is set.
func (s StatusSet) Has(status Status) bool {
	_, ok := s[status]
	return ok
}

// Add sets status, mutating in place.
func (s StatusSet) Add(status Status) { s[status] = struct{}{} }

// Remove clears status, mutating in place.
func (s StatusSet) Remove(status Status) { delete(s, status) }

// Clone returns an independent copy of s.
func (s StatusSet) Clone() StatusSet {
	c := make(StatusSet, len(s))
	for k := range s {
		c[k] = struct{}{}
	}
	return c
}

// State is the derived-index projection of spec.md §4.5: a Validator that
// enforces event-kind business rules against the current indexes, and a
// Consumer that updates those indexes once an event is accepted.
type State interface {
	Validate(event ledger.Event) error
	Consume(event ledger.Event) error

	ObjectExists(id ledger.Identifier) bool
	ObjectVersions(id uuid.UUID) ([]ledger.Object, bool)
	Object(id ledger.Identifier) (ledger.Object, bool)
	ObjectsAll(after *uuid.UUID) []ledger.Object
	ObjectsByStatus(status Status, after *uuid.UUID) []ledger.Object
	ObjectsByAnnotation(annotationUUID uuid.UUID) []ledger.Object
	ObjectStatus(id ledger.Identifier) (StatusSet, bool)

	AnnotationExists(id ledger.Identifier) bool
	AnnotationVersions(id uuid.UUID) ([]ledger.Annotation, bool)
	Annotation(id ledger.Identifier) (ledger.Annotation, bool)
	AnnotationsAll(after *uuid.UUID) []ledger.Annotation
	AnnotationsByStatus(status Status, after *uuid.UUID) []ledger.Annotation
	AnnotationsByObject(objectID ledger.Identifier) []ledger.Annotation
	AnnotationStatus(id ledger.Identifier) (StatusSet, bool)

	SchemaExists(name string) bool
	Schema(name string) (uuid.UUID, bool)
	SchemasAll() map[string]uuid.UUID
	SchemasInfo() []SchemaInfo

	Owners() []string
	OwnerExists(owner string) bool

	EventPending(id uuid.UUID) bool
	EventsByObject(id ledger.Identifier) []uuid.UUID
	EventsByAnnotation(id ledger.Identifier) []uuid.UUID

	ObjectInfo(id uuid.UUID) (ObjectInfo, bool)
	AnnotationInfo(id uuid.UUID) (AnnotationInfo, bool)
	EventInfo(id uuid.UUID) (EventInfo, bool)
}
